// sampleforge renders a MIDI file into a WAV by pitch-bending a sampled
// instrument, the same job the teacher's cmd/modwav does for tracker
// modules: decode an input, drive a renderer, write a WAV.
package main

import (
	"bytes"
	"flag"
	"fmt"
	"log"
	"os"

	"github.com/fatih/color"

	cfgknobs "github.com/sampleforge-dev/sampleforge/cmd/internal/config"
	"github.com/sampleforge-dev/sampleforge/midi"
	"github.com/sampleforge-dev/sampleforge/pcm"
	"github.com/sampleforge-dev/sampleforge/render"
	"github.com/sampleforge-dev/sampleforge/sink"
	"github.com/sampleforge-dev/sampleforge/soundfont"
	"github.com/sampleforge-dev/sampleforge/spectral"
)

const defaultThresholdSec = 0.075
const outputBytesPerSample = 2

var (
	flagTranspose = flag.Int("transpose", 0, "amount to transpose, in semitones")
	flagSpeed     = flag.Float64("speed", 1.0, "speed multiplier for the MIDI")
	flagCacheSize = flag.Float64("cachesize", 7.5, "seconds of render history to keep cached notes alive")
	flagBinSize   = flag.Int("binsize", 8192, "FFT bin size for fundamental-frequency detection")
	flagFullClip  = flag.Bool("fullclip", false, "always render the full sample without cropping")
	flagSoundfont = flag.String("soundfont", "", "path to a soundfont bundle (zip or bare config) for multi-instrument rendering")
	flagChunked   = flag.Bool("chunked", true, "write output through bounded memory chunks instead of one in-memory array")
)

func main() {
	log.SetFlags(0)
	log.SetPrefix("sampleforge: ")
	flag.Parse()

	if flag.NArg() != 3 {
		log.Fatal("usage: sampleforge [flags] infile.wav midi.mid output.wav")
	}
	infile, midiPath, outPath := flag.Arg(0), flag.Arg(1), flag.Arg(2)

	if err := run(infile, midiPath, outPath); err != nil {
		log.Fatal(err)
	}
}

func run(infile, midiPath, outPath string) error {
	flagsSet := map[string]bool{}
	flag.Visit(func(f *flag.Flag) { flagsSet[f.Name] = true })

	knobs := cfgknobs.Render{
		Transpose: *flagTranspose,
		Speed:     *flagSpeed,
		CacheSize: int(*flagCacheSize),
		BinSize:   *flagBinSize,
		FullClip:  *flagFullClip,
	}

	if *flagSoundfont != "" {
		data, err := os.ReadFile(*flagSoundfont)
		if err != nil {
			return fmt.Errorf("reading soundfont: %w", err)
		}
		args, err := soundfont.PeekArguments(data)
		if err != nil {
			return fmt.Errorf("reading soundfont arguments: %w", err)
		}
		knobs = cfgknobs.Resolve(knobs, flagsSet, args)
	}

	instruments, frameRate, channels, warnings, err := loadInstruments(infile, *flagSoundfont, knobs.BinSize)
	if err != nil {
		return err
	}
	for _, w := range warnings {
		warn(w)
	}

	midiData, err := os.ReadFile(midiPath)
	if err != nil {
		return fmt.Errorf("reading MIDI file: %w", err)
	}

	result, err := midi.Parse(midiData, instruments, knobs.Transpose, knobs.Speed, frameRate)
	if err != nil {
		return fmt.Errorf("parsing MIDI: %w", err)
	}
	for _, w := range result.Warnings {
		warn(w)
	}

	threshold := int(defaultThresholdSec * float64(frameRate))
	renderer := render.New(render.Options{
		FrameRate: frameRate,
		Threshold: threshold,
		FullClip:  knobs.FullClip,
		CacheSize: knobs.CacheSize,
	})

	out, err := os.Create(outPath)
	if err != nil {
		return fmt.Errorf("creating output file: %w", err)
	}
	defer out.Close()

	var s render.Sink
	if *flagChunked {
		s, err = sink.NewChunked(out, channels, result.TotalLength, frameRate, outputBytesPerSample, sink.DefaultChunkFrames)
		if err != nil {
			return fmt.Errorf("initializing output: %w", err)
		}
	} else {
		s = sink.NewArray(channels, result.TotalLength, frameRate, outputBytesPerSample, out)
	}

	if err := renderer.Render(result.Schedule, result.MaxVolume, s); err != nil {
		return fmt.Errorf("rendering: %w", err)
	}

	fmt.Printf("wrote %d notes, %d frames to %s\n", result.NoteCount, result.TotalLength, outPath)
	return nil
}

// loadInstruments resolves the MIDI's instrument set: either a soundfont
// bundle (when soundfontPath is set) or the single sample at infile used
// as every program's instrument, the default single-instrument font from
// spec.md §2.
func loadInstruments(infile, soundfontPath string, binsize int) (midi.InstrumentSet, int, int, []string, error) {
	if soundfontPath != "" {
		data, err := os.ReadFile(soundfontPath)
		if err != nil {
			return nil, 0, 0, nil, fmt.Errorf("reading soundfont: %w", err)
		}
		font, warnings, err := soundfont.Load(data, "", binsize)
		if err != nil {
			return nil, 0, 0, nil, fmt.Errorf("loading soundfont: %w", err)
		}
		return font, font.FrameRate, font.Channels, warnings, nil
	}

	raw, err := os.ReadFile(infile)
	if err != nil {
		return nil, 0, 0, nil, fmt.Errorf("reading sample: %w", err)
	}
	sample, err := pcm.FromWAV(bytes.NewReader(raw))
	if err != nil {
		return nil, 0, 0, nil, fmt.Errorf("decoding sample: %w", err)
	}
	if _, err := spectral.FundamentalOf(sample, binsize); err != nil {
		return nil, 0, 0, nil, fmt.Errorf("analyzing sample: %w", err)
	}
	font := soundfont.Default(sample)
	return font, font.FrameRate, font.Channels, nil, nil
}

// warn prints a non-fatal diagnostic in yellow, the teacher's play.go
// convention for transient status text applied here to user warnings.
func warn(msg string) {
	yellow := color.New(color.FgYellow).SprintfFunc()
	fmt.Fprintln(os.Stderr, yellow("warning: %s", msg))
}
