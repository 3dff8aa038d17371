// pathview - run the line pipeline on still images
//
// Prints the steering decision for each image and optionally writes the
// annotated frame, the binary mask and a plot of the fit.
package main

import (
	"flag"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/teslashibe/go-linefollower/internal/config"
	"github.com/teslashibe/go-linefollower/internal/log"
	"github.com/teslashibe/go-linefollower/pkg/camera"
	"github.com/teslashibe/go-linefollower/pkg/follower"
	"github.com/teslashibe/go-linefollower/pkg/pathplot"
	"gocv.io/x/gocv"
)

type options struct {
	overlayDir string
	maskDir    string
	plotDir    string
	plotExt    string
}

func main() {
	configPath := flag.String("config", "", "Config file (YAML, JSON or TOML)")
	debug := flag.Bool("debug", false, "Enable verbose debug logging")
	overlayDir := flag.String("overlay", "", "Write annotated frames to this directory")
	maskDir := flag.String("mask", "", "Write binary masks to this directory")
	plotDir := flag.String("plot", "", "Write fit plots to this directory")
	plotExt := flag.String("plot-format", "png", "Plot format: png, svg or pdf")
	flag.Usage = func() {
		fmt.Fprintf(os.Stderr, "Usage: pathview [flags] image...\n")
		flag.PrintDefaults()
	}
	flag.Parse()

	if flag.NArg() == 0 {
		flag.Usage()
		os.Exit(2)
	}

	cfg, err := config.Load(*configPath)
	if err != nil {
		fmt.Printf("❌ Configuration error: %v\n", err)
		os.Exit(1)
	}
	if *debug {
		cfg.LogLevel = "debug"
	}
	log.Init(cfg.LogLevel)

	opts := options{
		overlayDir: *overlayDir,
		maskDir:    *maskDir,
		plotDir:    *plotDir,
		plotExt:    strings.TrimPrefix(*plotExt, "."),
	}
	for _, dir := range []string{opts.overlayDir, opts.maskDir, opts.plotDir} {
		if dir == "" {
			continue
		}
		if err := os.MkdirAll(dir, 0755); err != nil {
			fmt.Printf("❌ %v\n", err)
			os.Exit(1)
		}
	}

	failed := 0
	for _, path := range flag.Args() {
		if err := process(path, cfg, opts); err != nil {
			fmt.Printf("❌ %s: %v\n", path, err)
			failed++
		}
	}
	if failed > 0 {
		os.Exit(1)
	}
}

func process(path string, cfg config.Config, opts options) error {
	frame := gocv.IMRead(path, gocv.IMReadColor)
	defer frame.Close()
	if frame.Empty() {
		return fmt.Errorf("cannot read image")
	}
	camera.Normalize(&frame, cfg.Camera)

	width, height := cfg.Camera.Width, cfg.Camera.Height
	trace := cfg.Vision.Trace(frame, width, height)
	defer trace.Mask.Close()
	c := follower.Decide(trace.Path, width, cfg.Drive, cfg.Follower.LookaheadIndex)

	fmt.Printf("%s: ", filepath.Base(path))
	if c.HasTarget {
		fmt.Printf("Target X: %3d | Curve: %.5f | PWM -> L: %4d  R: %4d\n",
			c.Target.X, c.Curvature, c.Command.Left, c.Command.Right)
	} else {
		fmt.Printf("No line (%d waypoints)\n", len(c.Waypoints))
	}

	base := strings.TrimSuffix(filepath.Base(path), filepath.Ext(path))

	if opts.overlayDir != "" {
		img := frame.Clone()
		defer img.Close()
		follower.DrawOverlay(&img, c)
		if out := filepath.Join(opts.overlayDir, base+"_overlay.png"); !gocv.IMWrite(out, img) {
			return fmt.Errorf("write %s failed", out)
		}
	}

	if opts.maskDir != "" {
		if trace.Mask.Empty() {
			return trace.FitErr
		}
		if out := filepath.Join(opts.maskDir, base+"_mask.png"); !gocv.IMWrite(out, trace.Mask) {
			return fmt.Errorf("write %s failed", out)
		}
	}

	if opts.plotDir != "" {
		out := filepath.Join(opts.plotDir, base+"_fit."+opts.plotExt)
		if err := pathplot.Render(trace.Samples, trace.Curve, trace.FitErr == nil, c.Waypoints, width, height, out); err != nil {
			return err
		}
	}

	return nil
}
