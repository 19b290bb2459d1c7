// Package params loads detector parameters from a JSON file.
package params

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/go-viper/mapstructure/v2"

	ip "github.com/jhonmgb/harris3d/interest_points"
)

// Load reads a JSON parameter file and returns a validated detector config. Keys the
// file omits keep their default values.
func Load(path string) (ip.Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return ip.Config{}, fmt.Errorf("reading params file: %w", err)
	}
	var raw map[string]any
	if err := json.Unmarshal(data, &raw); err != nil {
		return ip.Config{}, fmt.Errorf("parsing params file: %w", err)
	}
	cfg, err := Decode(raw)
	if err != nil {
		return ip.Config{}, fmt.Errorf("%s: %w", path, err)
	}
	return cfg, nil
}

// Decode applies raw over the default config and validates the result. Numeric
// strings are accepted and the selection mode is given by name.
func Decode(raw map[string]any) (ip.Config, error) {
	cfg := ip.DefaultConfig()
	dec, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		DecodeHook:       mapstructure.TextUnmarshallerHookFunc(),
		WeaklyTypedInput: true,
		ErrorUnused:      true,
		Result:           &cfg,
	})
	if err != nil {
		return ip.Config{}, err
	}
	if err := dec.Decode(raw); err != nil {
		return ip.Config{}, fmt.Errorf("decoding params: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return ip.Config{}, err
	}
	return cfg, nil
}
