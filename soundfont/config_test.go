package soundfont

import (
	"strings"
	"testing"
)

func TestHeaderByProgramNumber(t *testing.T) {
	cfg, err := Parse([]byte("[0]\nfile=piano.wav\n"))
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	if cfg.byProgram[0].sampleFile != "piano.wav" {
		t.Errorf("program 0 sampleFile = %q, want piano.wav", cfg.byProgram[0].sampleFile)
	}
}

func TestHeaderByProgramName(t *testing.T) {
	cfg, err := Parse([]byte("[Acoustic Grand Piano]\nfile=piano.wav\n"))
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	if cfg.byProgram[0].sampleFile != "piano.wav" {
		t.Errorf("program 0 sampleFile = %q, want piano.wav", cfg.byProgram[0].sampleFile)
	}
}

func TestHeaderByPercussionName(t *testing.T) {
	cfg, err := Parse([]byte("[Kick]\nfile=kick.wav\n"))
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	if cfg.byPercussionNote[36].sampleFile != "kick.wav" {
		t.Errorf("note 36 sampleFile = %q, want kick.wav", cfg.byPercussionNote[36].sampleFile)
	}
}

func TestHeaderByPNotation(t *testing.T) {
	cfg, err := Parse([]byte("[p36]\nfile=kick.wav\n"))
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	if cfg.byPercussionNote[36].sampleFile != "kick.wav" {
		t.Errorf("note 36 sampleFile = %q, want kick.wav", cfg.byPercussionNote[36].sampleFile)
	}
}

func TestDefaultAppliesToEveryInstrument(t *testing.T) {
	cfg, err := Parse([]byte("[default]\nvolume=80\n"))
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	if cfg.byProgram[10].volume != 0.8 {
		t.Errorf("program 10 volume = %v, want 0.8", cfg.byProgram[10].volume)
	}
	if cfg.byPercussionNote[40].volume != 0.8 {
		t.Errorf("percussion note 40 volume = %v, want 0.8", cfg.byPercussionNote[40].volume)
	}
}

func TestVolumeAbove95Warns(t *testing.T) {
	cfg, err := Parse([]byte("[default]\nvolume=99\n"))
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	if len(cfg.Warnings) != 1 {
		t.Fatalf("Warnings = %v, want 1 entry", cfg.Warnings)
	}
}

func TestPanOutOfRangeRejected(t *testing.T) {
	_, err := Parse([]byte("[default]\npan=1.5\n"))
	if err == nil {
		t.Fatal("expected error for out-of-range pan")
	}
	if !strings.Contains(err.Error(), "0.0-1.0") {
		t.Errorf("error = %v, want mention of the 0.0-1.0 range", err)
	}
}

func TestFullClipAndNoScaleBooleans(t *testing.T) {
	cfg, err := Parse([]byte("[0]\nfullclip=true\nnoscale=1\n"))
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	if !cfg.byProgram[0].fullClip {
		t.Error("fullclip = false, want true")
	}
	if !cfg.byProgram[0].noScale {
		t.Error("noScale = false, want true")
	}
}

func TestPitchOverride(t *testing.T) {
	cfg, err := Parse([]byte("[0]\npitch=261.63\n"))
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	if cfg.byProgram[0].Fundamental() != 261.63 {
		t.Errorf("Fundamental() = %v, want 261.63", cfg.byProgram[0].Fundamental())
	}
}

func TestPropertyBeforeHeaderErrors(t *testing.T) {
	_, err := Parse([]byte("volume=80\n"))
	if err == nil {
		t.Fatal("expected error for a property before any header")
	}
}

func TestUnrecognizedHeaderErrors(t *testing.T) {
	_, err := Parse([]byte("[not a real instrument]\nvolume=80\n"))
	if err == nil {
		t.Fatal("expected error for an unrecognized header")
	}
}

func TestUnrecognizedPropertyErrors(t *testing.T) {
	_, err := Parse([]byte("[default]\nreverb=50\n"))
	if err == nil {
		t.Fatal("expected error for an unrecognized property")
	}
}

func TestArgumentsSectionParsesKnobs(t *testing.T) {
	cfg, err := Parse([]byte("[arguments]\ntranspose=-2\nspeed=1.5\ncachesize=10\nbinsize=4096\n"))
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	if cfg.Arguments.Transpose == nil || *cfg.Arguments.Transpose != -2 {
		t.Errorf("Transpose = %v, want -2", cfg.Arguments.Transpose)
	}
	if cfg.Arguments.Speed == nil || *cfg.Arguments.Speed != 1.5 {
		t.Errorf("Speed = %v, want 1.5", cfg.Arguments.Speed)
	}
	if cfg.Arguments.CacheSize == nil || *cfg.Arguments.CacheSize != 10 {
		t.Errorf("CacheSize = %v, want 10", cfg.Arguments.CacheSize)
	}
	if cfg.Arguments.BinSize == nil || *cfg.Arguments.BinSize != 4096 {
		t.Errorf("BinSize = %v, want 4096", cfg.Arguments.BinSize)
	}
}

func TestCommentsAndBlankLinesIgnored(t *testing.T) {
	cfg, err := Parse([]byte("# a full line comment\n[0]\nfile=piano.wav # trailing comment\n\n"))
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	if cfg.byProgram[0].sampleFile != "piano.wav" {
		t.Errorf("sampleFile = %q, want piano.wav", cfg.byProgram[0].sampleFile)
	}
}
