package soundfont

import (
	"archive/zip"
	"bytes"
	"encoding/binary"
	"math"
	"os"
	"path/filepath"
	"testing"

	clone "github.com/huandu/go-clone/generic"
)

// buildWAV16 hand-builds a minimal mono 16-bit PCM RIFF/WAVE file containing
// a pure tone, standing in for a fixture file on disk.
func buildWAV16(freq float64, frameRate, frames int) []byte {
	var pcm bytes.Buffer
	for i := 0; i < frames; i++ {
		v := int16(20000 * math.Sin(2*math.Pi*freq*float64(i)/float64(frameRate)))
		binary.Write(&pcm, binary.LittleEndian, v)
	}
	data := pcm.Bytes()

	var buf bytes.Buffer
	buf.WriteString("RIFF")
	binary.Write(&buf, binary.LittleEndian, int32(36+len(data)))
	buf.WriteString("WAVE")
	buf.WriteString("fmt ")
	binary.Write(&buf, binary.LittleEndian, int32(16))
	binary.Write(&buf, binary.LittleEndian, int16(1)) // PCM
	binary.Write(&buf, binary.LittleEndian, int16(1)) // mono
	binary.Write(&buf, binary.LittleEndian, int32(frameRate))
	binary.Write(&buf, binary.LittleEndian, int32(frameRate*2))
	binary.Write(&buf, binary.LittleEndian, int16(2))
	binary.Write(&buf, binary.LittleEndian, int16(16))
	buf.WriteString("data")
	binary.Write(&buf, binary.LittleEndian, int32(len(data)))
	buf.Write(data)
	return buf.Bytes()
}

func buildZip(t *testing.T, files map[string][]byte) []byte {
	t.Helper()
	var buf bytes.Buffer
	zw := zip.NewWriter(&buf)
	for name, content := range files {
		w, err := zw.Create(name)
		if err != nil {
			t.Fatalf("zip.Create(%q): %v", name, err)
		}
		if _, err := w.Write(content); err != nil {
			t.Fatalf("zip write %q: %v", name, err)
		}
	}
	if err := zw.Close(); err != nil {
		t.Fatalf("zip.Close: %v", err)
	}
	return buf.Bytes()
}

func TestLoadZipBundle(t *testing.T) {
	wav := buildWAV16(261.63, 44100, 44100)
	bundle := buildZip(t, map[string][]byte{
		"font.swood": []byte("[default]\nfile=piano.wav\n"),
		"piano.wav":  wav,
	})

	font, warnings, err := Load(bundle, "", 8192)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if len(warnings) != 0 {
		t.Errorf("warnings = %v, want none", warnings)
	}
	inst := font.ByProgram(0)
	if inst.Fundamental() <= 0 {
		t.Errorf("Fundamental() = %v, want > 0", inst.Fundamental())
	}
	if len(inst.Samples()) == 0 {
		t.Error("Samples() is empty, want decoded PCM")
	}
}

func TestLoadBareConfigReadsFromBaseDir(t *testing.T) {
	dir := t.TempDir()
	wav := buildWAV16(440, 22050, 22050)
	if err := os.WriteFile(filepath.Join(dir, "lead.wav"), wav, 0o644); err != nil {
		t.Fatalf("WriteFile: %v", err)
	}

	font, _, err := Load([]byte("[default]\nfile=lead.wav\n"), dir, 4096)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if font.FrameRate != 22050 {
		t.Errorf("FrameRate = %d, want 22050", font.FrameRate)
	}
}

// TestClonedFontIsIndependent mirrors the teacher's fixture-cloning
// pattern: deep-cloning a loaded Font must not let mutations on the clone
// bleed back into the original.
func TestClonedFontIsIndependent(t *testing.T) {
	wav := buildWAV16(110, 16000, 16000)
	bundle := buildZip(t, map[string][]byte{
		"font.swood": []byte("[default]\nfile=bass.wav\n"),
		"bass.wav":   wav,
	})
	font, _, err := Load(bundle, "", 2048)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}

	clonedFont := clone.Clone(font)
	clonedFont.byProgram[0].volume = 0.1

	if font.byProgram[0].volume == 0.1 {
		t.Error("mutating the clone's instrument mutated the original Font")
	}
}
