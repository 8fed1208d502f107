package main

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/pelletier/go-toml/v2"

	"github.com/gogpu/imgfx"
)

// Config describes one magnifier run. It is read from a TOML file and
// then overridden by command-line flags.
type Config struct {
	Input  string `toml:"input"`
	Output string `toml:"output"`

	// Lens is left, top, right, bottom in image pixels.
	Lens  [4]float32 `toml:"lens"`
	Zoom  float32    `toml:"zoom"`
	Inset float32    `toml:"inset"`

	// Sampling is one of nearest, linear, mitchell or catmull-rom.
	Sampling string `toml:"sampling"`

	// Crop optionally restricts the magnified input, as left, top, right,
	// bottom.
	Crop []float32 `toml:"crop"`

	Workers int `toml:"workers"`

	// SaveFilter, when set, also writes the serialized filter to this path.
	SaveFilter string `toml:"save_filter"`
}

// defaultConfig returns the settings used when neither a file nor a flag
// provides a value.
func defaultConfig() Config {
	return Config{
		Output:   "magnified.png",
		Zoom:     2,
		Sampling: "linear",
	}
}

// loadConfig decodes a TOML config over cfg. Unknown keys are errors.
func loadConfig(cfg *Config, filename string) error {
	f, err := os.Open(filename)
	if err != nil {
		return err
	}
	defer f.Close()
	return readConfig(cfg, bufio.NewReader(f))
}

func readConfig(cfg *Config, r io.Reader) error {
	d := toml.NewDecoder(r)
	d.DisallowUnknownFields()
	if err := d.Decode(cfg); err != nil {
		return fmt.Errorf("magnify: config: %w", err)
	}
	return nil
}

// parseSampling maps a config name to a sampling policy.
func parseSampling(name string) (imgfx.Sampling, error) {
	switch strings.ToLower(name) {
	case "nearest":
		return imgfx.SamplingNearest, nil
	case "", "linear":
		return imgfx.SamplingLinear, nil
	case "mitchell":
		return imgfx.SamplingMitchell, nil
	case "catmull-rom", "catmullrom":
		return imgfx.SamplingCatmullRom, nil
	default:
		return imgfx.Sampling{}, fmt.Errorf("magnify: unknown sampling %q", name)
	}
}

// parseRect parses "l,t,r,b".
func parseRect(s string) ([4]float32, error) {
	var out [4]float32
	parts := strings.Split(s, ",")
	if len(parts) != 4 {
		return out, fmt.Errorf("magnify: rect %q needs 4 comma separated values", s)
	}
	for i, p := range parts {
		v, err := strconv.ParseFloat(strings.TrimSpace(p), 32)
		if err != nil {
			return out, fmt.Errorf("magnify: rect %q: %w", s, err)
		}
		out[i] = float32(v)
	}
	return out, nil
}

// filter builds the magnifier described by cfg.
func (cfg Config) filter() (imgfx.Filter, error) {
	sampling, err := parseSampling(cfg.Sampling)
	if err != nil {
		return nil, err
	}
	lens := imgfx.MakeLTRB(cfg.Lens[0], cfg.Lens[1], cfg.Lens[2], cfg.Lens[3])
	if err := imgfx.ValidateMagnifier(lens, cfg.Zoom, cfg.Inset); err != nil {
		return nil, err
	}

	var crop *imgfx.Rect
	if len(cfg.Crop) > 0 {
		if len(cfg.Crop) != 4 {
			return nil, fmt.Errorf("magnify: crop needs 4 values, got %d", len(cfg.Crop))
		}
		r := imgfx.MakeLTRB(cfg.Crop[0], cfg.Crop[1], cfg.Crop[2], cfg.Crop[3])
		if imgfx.NewCrop(r, nil) == nil {
			return nil, fmt.Errorf("magnify: invalid crop %v", cfg.Crop)
		}
		crop = &r
	}
	return imgfx.NewMagnifier(lens, cfg.Zoom, cfg.Inset, sampling, nil, crop), nil
}
