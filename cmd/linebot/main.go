// linebot - camera line follower
//
// Reads frames from the camera, fits the line ahead and drives the wheels.
// Telemetry and the annotated camera feed are served on the dashboard.
package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"

	"github.com/teslashibe/go-linefollower/internal/config"
	"github.com/teslashibe/go-linefollower/internal/log"
	"github.com/teslashibe/go-linefollower/pkg/camera"
	"github.com/teslashibe/go-linefollower/pkg/follower"
	"github.com/teslashibe/go-linefollower/pkg/motor"
	"github.com/teslashibe/go-linefollower/pkg/web"
)

// source is a frame source that must be released.
type source interface {
	follower.FrameSource
	Close() error
}

func main() {
	cfg, images := parseFlags()
	os.Exit(run(cfg, images))
}

// run drives until interrupted and returns the exit code. Deferred cleanup
// completes before the code is returned.
func run(cfg config.Config, images []string) int {
	log.Init(cfg.LogLevel)

	fmt.Println("🤖 Line Follower")
	fmt.Println("================")

	src, err := openSource(cfg, images)
	if err != nil {
		fmt.Printf("❌ Camera: %v\n", err)
		return 1
	}
	defer src.Close()

	driver, err := openDriver(cfg)
	if err != nil {
		fmt.Printf("❌ Motors: %v\n", err)
		return 1
	}
	defer driver.Close()

	runner := follower.New(cfg.Follower, cfg.Vision, cfg.Drive, src, driver, cfg.Camera.Width, cfg.Camera.Height)
	runner.SetStreamQuality(cfg.Camera.Quality)

	if cfg.Dashboard.Enabled {
		server := web.NewServer(cfg.Dashboard.Port, cfg)
		log.SetSink(func(level slog.Level, msg string) {
			server.AddLog(level.String(), msg)
		})
		defer log.SetSink(nil)
		server.StartAsync()
		defer server.Shutdown()
		runner.SetPublisher(server)
	}

	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	if err := runner.Run(ctx); err != nil {
		fmt.Printf("❌ %v\n", err)
		return 1
	}
	fmt.Println("\n👋 Stopped")
	return 0
}

// parseFlags loads the config file and applies flag overrides.
func parseFlags() (config.Config, []string) {
	configPath := flag.String("config", "", "Config file (YAML, JSON or TOML)")
	debug := flag.Bool("debug", false, "Enable verbose debug logging")
	dryRun := flag.Bool("dry-run", false, "Log motor commands instead of sending them")
	port := flag.String("port", "", "Motor controller serial port (enables the serial driver)")
	preset := flag.String("preset", "", "Camera preset: "+fmt.Sprint(camera.PresetNames()))
	cautious := flag.Bool("cautious", false, "Use the slower drive profile")
	onLost := flag.String("on-line-lost", "", "Line lost policy: hold or stop")
	dashPort := flag.String("dashboard-port", "", "Dashboard port")
	noDash := flag.Bool("no-dashboard", false, "Disable the web dashboard")
	images := flag.String("images", "", "Replay images matching this glob instead of the camera")
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		fmt.Printf("❌ Configuration error: %v\n", err)
		os.Exit(1)
	}

	if *debug {
		cfg.LogLevel = "debug"
	}
	if *port != "" {
		cfg.Motor.Driver = config.DriverSerial
		cfg.Motor.Port = *port
	}
	if *dryRun {
		cfg.Motor.Driver = config.DriverDryRun
	}
	if *preset != "" {
		p := camera.GetPreset(*preset)
		if p == nil {
			fmt.Printf("❌ Unknown camera preset %q (have %v)\n", *preset, camera.PresetNames())
			os.Exit(1)
		}
		p.Device = cfg.Camera.Device
		cfg.Camera = *p
	}
	if *cautious {
		cfg.Drive = cfg.Drive.Cautious()
	}
	if *onLost != "" {
		cfg.Follower.OnLineLost = *onLost
	}
	if *dashPort != "" {
		cfg.Dashboard.Port = *dashPort
	}
	if *noDash {
		cfg.Dashboard.Enabled = false
	}

	if err := cfg.Validate(); err != nil {
		fmt.Printf("❌ Configuration error: %v\n", err)
		os.Exit(1)
	}

	var paths []string
	if *images != "" {
		paths, err = filepath.Glob(*images)
		if err != nil || len(paths) == 0 {
			fmt.Printf("❌ No images match %q\n", *images)
			os.Exit(1)
		}
	}
	return cfg, paths
}

func openSource(cfg config.Config, images []string) (source, error) {
	if len(images) > 0 {
		fmt.Printf("🖼️  Replaying %d images\n", len(images))
		return camera.NewImageSource(cfg.Camera, true, images...)
	}

	fmt.Printf("📷 Camera %d: %dx%d @ %d fps\n",
		cfg.Camera.Device, cfg.Camera.Width, cfg.Camera.Height, cfg.Camera.Framerate)
	return camera.Open(cfg.Camera)
}

func openDriver(cfg config.Config) (motor.Driver, error) {
	if cfg.Motor.Driver == config.DriverSerial {
		fmt.Printf("⚙️  Motors: %s @ %d baud\n", cfg.Motor.Port, cfg.Motor.BaudRate)
		return motor.OpenSerial(cfg.Motor.Port, cfg.Motor.PortOptions, cfg.Drive.PowerLimit)
	}

	fmt.Println("⚙️  Motors: dry run")
	return motor.NewDryRun(cfg.Drive.PowerLimit), nil
}
