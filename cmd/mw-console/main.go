// Command mw-console is an interactive console for exercising the EEPROM
// driver against the built-in device simulator.
//
// It reproduces the bring-up workflow the driver was developed with: enable
// writes, erase/write/read individual words, dump the full address space,
// snapshot it to an image file and restore it, and pack strings into words.
//
// Usage:
//
//	mw-console [flags]
//
// Flags:
//
//	-protocol-log <file>   capture a CBOR protocol trace (.mwlog)
//	-verbose               echo protocol events to the console via slog
//	-profile <file>        load a YAML timing profile
//	-image <file>          preload the simulated device from an image file
package main

import (
	"flag"
	"fmt"
	"log/slog"
	"os"

	"github.com/microwire-protocol/microwire-go/internal/simulator"
	"github.com/microwire-protocol/microwire-go/pkg/device"
	"github.com/microwire-protocol/microwire-go/pkg/log"
	"github.com/microwire-protocol/microwire-go/pkg/memory"
	"github.com/microwire-protocol/microwire-go/pkg/profile"
)

func main() {
	protocolLog := flag.String("protocol-log", "", "write a CBOR protocol trace to this file")
	verbose := flag.Bool("verbose", false, "echo protocol events to the console")
	profilePath := flag.String("profile", "", "YAML timing profile")
	imagePath := flag.String("image", "", "preload the simulated device from an image file")
	flag.Parse()

	if err := run(*protocolLog, *verbose, *profilePath, *imagePath); err != nil {
		fmt.Fprintf(os.Stderr, "mw-console: %v\n", err)
		os.Exit(1)
	}
}

func run(protocolLog string, verbose bool, profilePath, imagePath string) error {
	timing := profile.Default()
	if profilePath != "" {
		var err error
		timing, err = profile.Load(profilePath)
		if err != nil {
			return err
		}
	}

	var loggers []log.Logger
	if protocolLog != "" {
		fl, err := log.NewFileLogger(protocolLog)
		if err != nil {
			return fmt.Errorf("failed to open protocol log: %w", err)
		}
		defer fl.Close()
		loggers = append(loggers, fl)
	}
	if verbose {
		handler := slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelDebug})
		loggers = append(loggers, log.NewSlogAdapter(slog.New(handler)))
	}
	var logger log.Logger
	if len(loggers) > 0 {
		logger = log.NewMultiLogger(loggers...)
	}

	sim := simulator.New()
	if imagePath != "" {
		img, err := memory.LoadImage(imagePath)
		if err != nil {
			return err
		}
		sim.LoadImage(img)
	}

	dev := device.NewWithConfig(sim, sim, device.Config{
		Timing:  &timing,
		Delayer: sim,
		Logger:  logger,
	})

	console, err := newConsole(dev, sim)
	if err != nil {
		return err
	}
	return console.run()
}
