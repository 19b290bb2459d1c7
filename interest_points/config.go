package interestpoints

import (
	"fmt"
	"strings"
)

// SelectionMode chooses how interest points are picked from the ranked candidates.
type SelectionMode int

const (
	// SelectionFraction keeps the top fraction of vertices.
	SelectionFraction SelectionMode = iota
	// SelectionClustering keeps candidates spaced at least a fraction of the mesh diagonal apart.
	SelectionClustering
)

func (m SelectionMode) String() string {
	switch m {
	case SelectionFraction:
		return "fraction"
	case SelectionClustering:
		return "clustering"
	default:
		return "unknown"
	}
}

// ParseSelectionMode maps a mode name, ignoring case, to a SelectionMode.
func ParseSelectionMode(s string) (SelectionMode, error) {
	switch {
	case strings.EqualFold(s, "fraction"):
		return SelectionFraction, nil
	case strings.EqualFold(s, "clustering"):
		return SelectionClustering, nil
	default:
		return 0, fmt.Errorf("%q: %w", s, ErrUnknownSelectionMode)
	}
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (m *SelectionMode) UnmarshalText(text []byte) error {
	parsed, err := ParseSelectionMode(string(text))
	if err != nil {
		return err
	}
	*m = parsed
	return nil
}

// MarshalText implements encoding.TextMarshaler.
func (m SelectionMode) MarshalText() ([]byte, error) {
	if m != SelectionFraction && m != SelectionClustering {
		return nil, fmt.Errorf("mode %d: %w", int(m), ErrUnknownSelectionMode)
	}
	return []byte(m.String()), nil
}

// Config holds all parameters of an interest point detection run.
type Config struct {
	NumRings           int           `mapstructure:"num_rings"`            // Neighbourhood depth; must be > 1
	HarrisK            float64       `mapstructure:"harris_k"`             // Harris sensitivity constant in (0, 0.4]
	PercentageOfPoints float64       `mapstructure:"percentage_of_points"` // Vertex fraction, or fraction of the mesh diagonal when clustering
	Mode               SelectionMode `mapstructure:"selection_mode"`
	Workers            int           `mapstructure:"workers"` // Per-vertex workers; 0 = GOMAXPROCS
}

// DefaultConfig returns a Config with sensible defaults.
func DefaultConfig() Config {
	return Config{
		NumRings:           5,
		HarrisK:            0.04,
		PercentageOfPoints: 0.01,
		Mode:               SelectionFraction,
		Workers:            0,
	}
}

// Validate checks parameter ranges. The engine itself assumes a validated configuration.
func (c Config) Validate() error {
	if c.NumRings <= 1 {
		return fmt.Errorf("%d: %w", c.NumRings, ErrInvalidRings)
	}
	if !(c.HarrisK > 0 && c.HarrisK <= 0.4) {
		return fmt.Errorf("%g: %w", c.HarrisK, ErrInvalidHarrisK)
	}
	switch c.Mode {
	case SelectionFraction:
		if !(c.PercentageOfPoints > 0 && c.PercentageOfPoints <= 100) {
			return fmt.Errorf("%g not in (0, 100] for %s: %w", c.PercentageOfPoints, c.Mode, ErrInvalidPercentage)
		}
	case SelectionClustering:
		if !(c.PercentageOfPoints > 0 && c.PercentageOfPoints <= 1) {
			return fmt.Errorf("%g not in (0, 1] for %s: %w", c.PercentageOfPoints, c.Mode, ErrInvalidPercentage)
		}
	default:
		return fmt.Errorf("mode %d: %w", int(c.Mode), ErrUnknownSelectionMode)
	}
	if c.Workers < 0 {
		return fmt.Errorf("workers %d must not be negative", c.Workers)
	}
	return nil
}
