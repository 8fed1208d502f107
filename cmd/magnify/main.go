// Command magnify applies the imgfx magnifier to an image file.
//
// Usage:
//
//	magnify -in photo.png -lens 100,100,300,300 -zoom 2 -inset 20
//	magnify -config lens.toml
package main

import (
	"flag"
	"fmt"
	"image"
	"log/slog"
	"os"

	"github.com/anthonynsimon/bild/clone"
	"github.com/anthonynsimon/bild/imgio"
	"golang.org/x/image/draw"

	"github.com/gogpu/imgfx"
)

func main() {
	if err := run(os.Args[1:]); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func run(args []string) error {
	fs := flag.NewFlagSet("magnify", flag.ContinueOnError)
	var (
		configFile = fs.String("config", "", "TOML config file")
		input      = fs.String("in", "", "input image")
		output     = fs.String("out", "", "output image (PNG)")
		lens       = fs.String("lens", "", "lens bounds as left,top,right,bottom")
		zoom       = fs.Float64("zoom", 0, "zoom factor")
		inset      = fs.Float64("inset", -1, "blend band width in pixels")
		sampling   = fs.String("sampling", "", "nearest, linear, mitchell or catmull-rom")
		workers    = fs.Int("workers", 0, "CPU shading goroutines (0 = all cores)")
		saveFilter = fs.String("save-filter", "", "also write the serialized filter here")
		verbose    = fs.Bool("v", false, "debug logging")
	)
	if err := fs.Parse(args); err != nil {
		return err
	}

	level := slog.LevelWarn
	if *verbose {
		level = slog.LevelDebug
	}
	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level}))
	imgfx.SetLogger(logger)

	cfg := defaultConfig()
	if *configFile != "" {
		if err := loadConfig(&cfg, *configFile); err != nil {
			return err
		}
	}

	// Flags override the config file.
	fs.Visit(func(f *flag.Flag) {
		switch f.Name {
		case "in":
			cfg.Input = *input
		case "out":
			cfg.Output = *output
		case "zoom":
			cfg.Zoom = float32(*zoom)
		case "inset":
			cfg.Inset = float32(*inset)
		case "sampling":
			cfg.Sampling = *sampling
		case "workers":
			cfg.Workers = *workers
		case "save-filter":
			cfg.SaveFilter = *saveFilter
		}
	})
	if *lens != "" {
		r, err := parseRect(*lens)
		if err != nil {
			return err
		}
		cfg.Lens = r
	}
	if cfg.Input == "" {
		return fmt.Errorf("magnify: no input image")
	}

	f, err := cfg.filter()
	if err != nil {
		return err
	}

	src, err := imgio.Open(cfg.Input)
	if err != nil {
		return err
	}
	out, err := magnify(f, src, cfg.Workers)
	if err != nil {
		return err
	}
	if err := imgio.Save(cfg.Output, out, imgio.PNGEncoder()); err != nil {
		return err
	}
	logger.Info("magnified", "in", cfg.Input, "out", cfg.Output, "lens", cfg.Lens, "zoom", cfg.Zoom)

	if cfg.SaveFilter != "" && f != nil {
		data, err := imgfx.Serialize(f)
		if err != nil {
			return err
		}
		if err := os.WriteFile(cfg.SaveFilter, data, 0o644); err != nil {
			return err
		}
	}
	return nil
}

// magnify evaluates f over src and draws the result over a copy of src.
func magnify(f imgfx.Filter, src image.Image, workers int) (*image.RGBA, error) {
	dst := clone.AsRGBA(src)
	res, err := imgfx.FilterImage(f, dst, imgfx.IdentityMapping(), imgfx.WithWorkers(workers))
	if err != nil {
		return nil, err
	}
	if res.IsEmpty() || res.Image() == dst {
		return dst, nil
	}
	r := res.Image().Rect
	draw.Draw(dst, r, res.Image(), r.Min, draw.Src)
	return dst, nil
}
