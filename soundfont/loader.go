package soundfont

import (
	"archive/zip"
	"bytes"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/sampleforge-dev/sampleforge/errs"
	"github.com/sampleforge-dev/sampleforge/internal/resample"
	"github.com/sampleforge-dev/sampleforge/pcm"
	"github.com/sampleforge-dev/sampleforge/spectral"
)

// configExtensions lists the filename suffixes Load will treat as the
// config file when searching inside a zipped soundfont bundle, grounded
// on swood/soundfont.py's SoundFont.__init__ scanning a zip's namelist
// for its one non-sample text file.
var configExtensions = []string{".swood", ".ini", ".txt", ".cfg"}

// Load reads a soundfont bundle (either a bare config text file or a zip
// containing a config file plus its referenced WAV samples) and resolves it
// into a playable Font. baseDir is consulted for sample filenames when data
// is a bare config rather than a zip. binsize is the spectral analysis
// window used to detect each sample's fundamental, unless an instrument's
// config sets a pitch override.
func Load(data []byte, baseDir string, binsize int) (*Font, []string, error) {
	cfgText, samples, err := splitBundle(data)
	if err != nil {
		return nil, nil, err
	}

	cfg, err := Parse(cfgText)
	if err != nil {
		return nil, nil, err
	}

	loaded := make(map[string]*pcm.Sample)
	maxRate := 0
	for filename := range cfg.samples {
		raw, ok := samples[filename]
		if !ok {
			raw, err = os.ReadFile(filepath.Join(baseDir, filename))
			if err != nil {
				return nil, nil, fmt.Errorf("%w: reading sample %q: %v", errs.ErrInvalidSample, filename, err)
			}
		}
		sample, err := pcm.FromWAV(bytes.NewReader(raw))
		if err != nil {
			return nil, nil, fmt.Errorf("%w: sample %q: %v", errs.ErrInvalidSample, filename, err)
		}
		loaded[filename] = sample
		if sample.FrameRate > maxRate {
			maxRate = sample.FrameRate
		}
	}

	// Samples loaded at different native rates are resampled to the
	// fastest rate among them before any instrument is assigned one, so
	// every instrument the renderer sees shares a single playback rate.
	// Grounded on swood/soundfont.py's add_samples upsampling pass.
	for filename, sample := range loaded {
		if sample.FrameRate == maxRate {
			continue
		}
		ratio := float64(maxRate) / float64(sample.FrameRate)
		resampled := make([][]int32, sample.Channels)
		for c, ch := range sample.Data {
			resampled[c] = resample.Channel(ch, ratio)
		}
		sample.Data = resampled
		sample.Length = len(resampled[0])
		sample.FrameRate = maxRate
		loaded[filename] = sample
	}

	var warnings []string
	warnings = append(warnings, cfg.Warnings...)

	byProgram := make(map[int]*Instrument)
	byPercussionNote := make(map[int]*Instrument)
	channels := 1

	for program, inst := range cfg.byProgram {
		if err := attachSample(inst, loaded, binsize); err != nil {
			return nil, nil, err
		}
		byProgram[program] = inst
		if inst.sample != nil && inst.sample.Channels > channels {
			channels = inst.sample.Channels
		}
	}
	for note, inst := range cfg.byPercussionNote {
		if err := attachSample(inst, loaded, binsize); err != nil {
			return nil, nil, err
		}
		byPercussionNote[note] = inst
		if inst.sample != nil && inst.sample.Channels > channels {
			channels = inst.sample.Channels
		}
	}

	if channels != 2 {
		for _, inst := range cfg.all {
			if inst.pan != defaultPan {
				warnings = append(warnings, "pan is ignored for non-stereo soundfonts")
				break
			}
		}
	}

	fallback := byProgram[0]
	font := &Font{
		byProgram:        byProgram,
		byPercussionNote: byPercussionNote,
		fallback:         fallback,
		FrameRate:        maxRate,
		Channels:         channels,
	}
	return font, warnings, nil
}

func attachSample(inst *Instrument, loaded map[string]*pcm.Sample, binsize int) error {
	if inst.sampleFile == "" {
		return nil
	}
	sample, ok := loaded[inst.sampleFile]
	if !ok {
		return fmt.Errorf("%w: instrument references unloaded sample %q", errs.ErrInvalidSample, inst.sampleFile)
	}
	inst.sample = sample
	if inst.pitch <= 0 && sample.Fundamental == 0 {
		if _, err := spectral.FundamentalOf(sample, binsize); err != nil {
			return err
		}
	}
	return nil
}

// PeekArguments parses just a soundfont bundle's [arguments] section,
// without loading any sample data, so the CLI can resolve its knobs
// (transpose, speed, cachesize, binsize) before committing to a binsize
// for the full spectral analysis pass in Load.
func PeekArguments(data []byte) (*Arguments, error) {
	cfgText, _, err := splitBundle(data)
	if err != nil {
		return nil, err
	}
	cfg, err := Parse(cfgText)
	if err != nil {
		return nil, err
	}
	return &cfg.Arguments, nil
}

// splitBundle separates a soundfont bundle into its config text and any
// embedded sample files, transparently handling both a bare config file
// and a zip bundle.
func splitBundle(data []byte) ([]byte, map[string][]byte, error) {
	samples := make(map[string][]byte)
	if len(data) < 4 || !bytes.Equal(data[:4], []byte("PK\x03\x04")) {
		return data, samples, nil
	}

	zr, err := zip.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return nil, nil, fmt.Errorf("%w: reading soundfont zip: %v", errs.ErrInvalidSample, err)
	}
	var cfgText []byte
	for _, f := range zr.File {
		if f.FileInfo().IsDir() {
			continue
		}
		if isConfigName(f.Name) && cfgText == nil {
			rc, err := f.Open()
			if err != nil {
				return nil, nil, fmt.Errorf("%w: %v", errs.ErrInvalidSample, err)
			}
			cfgText, err = io.ReadAll(rc)
			rc.Close()
			if err != nil {
				return nil, nil, fmt.Errorf("%w: %v", errs.ErrInvalidSample, err)
			}
			continue
		}
		rc, err := f.Open()
		if err != nil {
			return nil, nil, fmt.Errorf("%w: %v", errs.ErrInvalidSample, err)
		}
		raw, err := io.ReadAll(rc)
		rc.Close()
		if err != nil {
			return nil, nil, fmt.Errorf("%w: %v", errs.ErrInvalidSample, err)
		}
		samples[filepath.Base(f.Name)] = raw
	}
	if cfgText == nil {
		return nil, nil, fmt.Errorf("%w: soundfont zip has no config file", errs.ErrInvalidSample)
	}
	return cfgText, samples, nil
}

func isConfigName(name string) bool {
	lower := strings.ToLower(name)
	for _, ext := range configExtensions {
		if strings.HasSuffix(lower, ext) {
			return true
		}
	}
	return false
}
