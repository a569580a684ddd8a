package soundfont

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/sampleforge-dev/sampleforge/errs"
)

const (
	defaultVolume = 0.9
	defaultPan    = 0.5
)

// Arguments holds the global numeric knob overrides a config's
// [arguments]/[args]/[options] section may set. A nil field means the
// config did not mention that knob.
type Arguments struct {
	Transpose *int
	Speed     *float64
	CacheSize *float64
	BinSize   *int
}

// Config is a parsed, not-yet-sample-loaded soundfont: every referenced
// instrument group plus any [arguments] overrides. Load turns this into a
// Font once the referenced sample files are read.
type Config struct {
	instruments map[string][]*Instrument // GM name/program-number/"all"/"non-percussion" -> instruments
	percussion  map[string][]*Instrument // GM drum name/note-number/"percussion" -> instruments
	all         []*Instrument

	byProgram        map[int]*Instrument
	byPercussionNote map[int]*Instrument

	samples   map[string]bool // filenames referenced by file/sample, pending load
	Arguments Arguments
	Warnings  []string
}

func newConfig() *Config {
	c := &Config{
		instruments:      make(map[string][]*Instrument),
		percussion:       make(map[string][]*Instrument),
		byProgram:        make(map[int]*Instrument),
		byPercussionNote: make(map[int]*Instrument),
		samples:          make(map[string]bool),
	}

	for program, names := range gmPrograms {
		inst := &Instrument{volume: defaultVolume, pan: defaultPan}
		c.byProgram[program] = inst
		c.instruments[strconv.Itoa(program)] = append(c.instruments[strconv.Itoa(program)], inst)
		for _, name := range names {
			key := strings.ToLower(name)
			c.instruments[key] = append(c.instruments[key], inst)
		}
		c.instruments["non-percussion"] = append(c.instruments["non-percussion"], inst)
		c.all = append(c.all, inst)
	}

	for note, names := range percussionNotes {
		inst := &Instrument{volume: defaultVolume, pan: defaultPan, fullClip: true, noScale: true}
		c.byPercussionNote[note] = inst
		key := strconv.Itoa(note)
		c.percussion[key] = append(c.percussion[key], inst)
		for _, name := range names {
			c.percussion[strings.ToLower(name)] = append(c.percussion[strings.ToLower(name)], inst)
		}
		c.percussion["percussion"] = append(c.percussion["percussion"], inst)
		c.all = append(c.all, inst)
	}

	return c
}

// Parse parses a soundfont config file's text, mutating the built-in
// instrument tables in place. Grounded on swood/soundfont.py's
// SoundFont.parse, section by section.
func Parse(data []byte) (*Config, error) {
	cfg := newConfig()

	var affected []*Instrument
	const (
		noHeaderYet = iota
		instrumentSection
		argumentsSection
	)
	mode := noHeaderYet

	text := strings.ReplaceAll(string(data), "\r\n", "\n")
	for lineNum, raw := range strings.Split(text, "\n") {
		line := stripComment(raw)
		if line == "" {
			continue
		}

		if strings.HasPrefix(line, "[") && strings.HasSuffix(line, "]") {
			header := strings.ToLower(strings.TrimSpace(line[1 : len(line)-1]))
			insts, newMode, err := cfg.resolveHeader(header, lineNum, raw)
			if err != nil {
				return nil, err
			}
			affected, mode = insts, newMode
			continue
		}

		eq := strings.Index(line, "=")
		if eq < 0 {
			continue
		}
		name := strings.ToLower(strings.TrimSpace(line[:eq]))
		value := strings.TrimSpace(line[eq+1:])

		switch mode {
		case noHeaderYet:
			return nil, &errs.ConfigSyntaxError{Line: lineNum, RawLine: raw,
				Message: "no header specified; use [default] before setting properties"}
		case argumentsSection:
			if err := cfg.applyArgument(name, value, lineNum, raw); err != nil {
				return nil, err
			}
		case instrumentSection:
			if err := cfg.applyOption(affected, name, value, lineNum, raw); err != nil {
				return nil, err
			}
		}
	}

	return cfg, nil
}

func (c *Config) resolveHeader(header string, lineNum int, raw string) ([]*Instrument, int, error) {
	switch {
	case header == "arguments" || header == "args" || header == "options":
		return nil, 2, nil
	case header == "default" || header == "all":
		return c.all, 1, nil
	case header == "non percussion" || header == "nonpercussion" || header == "non-percussion":
		return c.instruments["non-percussion"], 1, nil
	}
	if insts, ok := c.instruments[header]; ok {
		return insts, 1, nil
	}
	if insts, ok := c.percussion[header]; ok {
		return insts, 1, nil
	}
	if len(header) == 3 && strings.HasPrefix(header, "p") {
		if n, err := strconv.Atoi(header[1:]); err == nil {
			if insts, ok := c.percussion[strconv.Itoa(n)]; ok {
				return insts, 1, nil
			}
		}
	}
	return nil, 0, &errs.ConfigSyntaxError{Line: lineNum, RawLine: raw, Message: "header not recognized"}
}

func (c *Config) applyOption(affected []*Instrument, name, value string, lineNum int, raw string) error {
	switch name {
	case "file", "sample":
		lower := strings.ToLower(value)
		for _, inst := range affected {
			if lower == "" || lower == "none" || lower == "null" {
				inst.sampleFile = ""
			} else {
				inst.sampleFile = value
				c.samples[value] = true
			}
		}
	case "volume", "vol":
		n, err := strconv.Atoi(value)
		if err != nil {
			return configErr(lineNum, raw, "%q is not a valid number", value)
		}
		v := float64(n) / 100
		for _, inst := range affected {
			inst.volume = v
		}
		if v > 0.95 {
			c.Warnings = append(c.Warnings, "volumes higher than 95 may cause clipping or other glitches")
		}
	case "pan":
		f, err := strconv.ParseFloat(value, 64)
		if err != nil {
			return configErr(lineNum, raw, "%q is not a valid number", value)
		}
		if f < 0 || f > 1 {
			return configErr(lineNum, raw, "%q is outside of the allowed 0.0-1.0 range", value)
		}
		for _, inst := range affected {
			inst.pan = f
		}
	case "pitch":
		f, err := strconv.ParseFloat(value, 64)
		if err != nil {
			return configErr(lineNum, raw, "%q is not a valid number", value)
		}
		if f <= 0 {
			return configErr(lineNum, raw, "%q must be greater than 0", value)
		}
		for _, inst := range affected {
			inst.pitch = f
		}
	case "fullclip":
		b, err := parseConfigBool(value)
		if err != nil {
			return configErr(lineNum, raw, "fullclip must be 'true' or 'false'; %q is invalid", value)
		}
		for _, inst := range affected {
			inst.fullClip = b
		}
	case "noscale":
		b, err := parseConfigBool(value)
		if err != nil {
			return configErr(lineNum, raw, "noscale must be 'true' or 'false'; %q is invalid", value)
		}
		for _, inst := range affected {
			inst.noScale = b
		}
	default:
		return configErr(lineNum, raw, "%q is not a valid property", name)
	}
	return nil
}

func (c *Config) applyArgument(name, value string, lineNum int, raw string) error {
	switch name {
	case "transpose":
		n, err := strconv.Atoi(value)
		if err != nil {
			return configErr(lineNum, raw, "%q is not a valid value for 'transpose'", value)
		}
		c.Arguments.Transpose = &n
	case "speed":
		f, err := strconv.ParseFloat(value, 64)
		if err != nil {
			return configErr(lineNum, raw, "%q is not a valid value for 'speed'", value)
		}
		c.Arguments.Speed = &f
	case "cachesize":
		f, err := strconv.ParseFloat(value, 64)
		if err != nil {
			return configErr(lineNum, raw, "%q is not a valid value for 'cachesize'", value)
		}
		c.Arguments.CacheSize = &f
	case "binsize":
		n, err := strconv.Atoi(value)
		if err != nil {
			return configErr(lineNum, raw, "%q is not a valid value for 'binsize'", value)
		}
		c.Arguments.BinSize = &n
	}
	// Unrecognized argument names are silently ignored, matching the
	// source's "if name in possible_args" guard.
	return nil
}

func parseConfigBool(value string) (bool, error) {
	switch strings.ToLower(value) {
	case "true", "1":
		return true, nil
	case "false", "0":
		return false, nil
	default:
		return false, fmt.Errorf("not a boolean")
	}
}

func configErr(lineNum int, raw, format string, args ...any) error {
	return &errs.ConfigSyntaxError{Line: lineNum, RawLine: raw, Message: fmt.Sprintf(format, args...)}
}

func stripComment(line string) string {
	if i := strings.IndexByte(line, '#'); i >= 0 {
		line = line[:i]
	}
	return strings.TrimSpace(line)
}
