// Package scenario loads tactical-view scene definitions from YAML files: one
// background image plus the token list handed to the engine.
package scenario

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/skirmisher/battlemap/internal/tactical"
)

type Scenario struct {
	Name       string  `yaml:"name"`
	Background string  `yaml:"background"`
	Tokens     []Token `yaml:"tokens"`
}

type Token struct {
	ID       string    `yaml:"id"`
	Name     string    `yaml:"name"`
	Side     string    `yaml:"side"`
	Position *Position `yaml:"position"`
	Icon     string    `yaml:"icon"`
	Gallery  []string  `yaml:"gallery"`
	Stats    *Stats    `yaml:"stats"`
}

type Position struct {
	X float64 `yaml:"x"`
	Y float64 `yaml:"y"`
}

type Stats struct {
	HP    int `yaml:"hp"`
	HPMax int `yaml:"hp_max"`
}

// Load reads and validates a scenario file.
func Load(path string) (Scenario, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Scenario{}, fmt.Errorf("read scenario: %w", err)
	}
	return Parse(data)
}

// Parse decodes and validates scenario YAML.
func Parse(data []byte) (Scenario, error) {
	var s Scenario
	if err := yaml.Unmarshal(data, &s); err != nil {
		return Scenario{}, fmt.Errorf("parse scenario: %w", err)
	}
	if err := s.Validate(); err != nil {
		return Scenario{}, err
	}
	return s, nil
}

// Validate checks id uniqueness, position ranges and stat sanity.
func (s Scenario) Validate() error {
	if s.Background == "" {
		return fmt.Errorf("scenario %q: background is required", s.Name)
	}
	seen := make(map[string]bool, len(s.Tokens))
	for i, t := range s.Tokens {
		if t.ID == "" {
			return fmt.Errorf("token %d: id is required", i)
		}
		if seen[t.ID] {
			return fmt.Errorf("token %q: duplicate id", t.ID)
		}
		seen[t.ID] = true
		if p := t.Position; p != nil {
			if p.X < 0 || p.X > 100 || p.Y < 0 || p.Y > 100 {
				return fmt.Errorf("token %q: position (%v, %v) outside [0,100]", t.ID, p.X, p.Y)
			}
		}
		if st := t.Stats; st != nil {
			if st.HPMax <= 0 {
				return fmt.Errorf("token %q: hp_max must be positive", t.ID)
			}
			if st.HP > st.HPMax {
				return fmt.Errorf("token %q: hp %d exceeds hp_max %d", t.ID, st.HP, st.HPMax)
			}
		}
	}
	return nil
}

// TacticalTokens converts the scenario entries to engine tokens.
func (s Scenario) TacticalTokens() []tactical.Token {
	out := make([]tactical.Token, 0, len(s.Tokens))
	for _, t := range s.Tokens {
		tok := tactical.Token{
			ID:      t.ID,
			Name:    t.Name,
			Side:    t.Side,
			Icon:    t.Icon,
			Gallery: append([]string(nil), t.Gallery...),
		}
		if t.Position != nil {
			tok.Pos = &tactical.Position{X: t.Position.X, Y: t.Position.Y}
		}
		if t.Stats != nil {
			tok.Stats = &tactical.Stats{HP: t.Stats.HP, HPMax: t.Stats.HPMax}
		}
		out = append(out, tok)
	}
	return out
}
