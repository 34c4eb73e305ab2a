package config

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/robalobadob/cowbull-server/internal/game"
)

// modesFile is the YAML layout of COWBULL_MODES:
//
//	modes:
//	  - mode: marathon
//	    priority: 5
//	    digits: 5
//	    guesses_allowed: 20
type modesFile struct {
	Modes []map[string]any `yaml:"modes"`
}

// LoadModes reads custom modes from a YAML file.
func LoadModes(path string) ([]game.Mode, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("%w: read modes file: %w", game.ErrConfig, err)
	}
	return ParseModes(data)
}

// ParseModes decodes custom modes. Unknown top-level or per-mode keys are errors.
func ParseModes(data []byte) ([]game.Mode, error) {
	var f modesFile
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(&f); err != nil && !errors.Is(err, io.EOF) {
		return nil, fmt.Errorf("%w: parse modes file: %w", game.ErrConfig, err)
	}

	out := make([]game.Mode, 0, len(f.Modes))
	for i, raw := range f.Modes {
		m, err := game.ModeFromMap(raw)
		if err != nil {
			return nil, fmt.Errorf("modes[%d]: %w", i, err)
		}
		out = append(out, m)
	}
	return out, nil
}
