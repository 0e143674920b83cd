// Package main implements the nescore NES emulator executable.
package main

import (
	"flag"
	"fmt"
	"log"
	"os"

	"nescore/internal/app"
	"nescore/internal/version"
)

func main() {
	var (
		romFile     = flag.String("rom", "", "Path to an iNES ROM file")
		configFile  = flag.String("config", "", "Path to the configuration file")
		nogui       = flag.Bool("nogui", false, "Run headless, without a window")
		frames      = flag.Int("frames", 120, "Frames to run in headless mode")
		scale       = flag.Int("scale", 0, "Window scale factor override")
		showVersion = flag.Bool("version", false, "Print version information and exit")
	)
	flag.Usage = printUsage
	flag.Parse()

	if *showVersion {
		fmt.Println(version.GetDetailedVersion())
		return
	}

	if *romFile == "" {
		printUsage()
		os.Exit(2)
	}

	configPath := *configFile
	if configPath == "" {
		configPath = app.DefaultConfigPath()
	}

	config := app.NewConfig()
	if err := config.LoadFromFile(configPath); err != nil {
		log.Fatalf("load config: %v", err)
	}
	if *nogui {
		config.Video.Backend = "headless"
	}
	if *scale > 0 {
		config.Window.Scale = *scale
		config.Window.Width = 256 * *scale
		config.Window.Height = 240 * *scale
	}

	application, err := app.New(config, *romFile)
	if err != nil {
		log.Fatalf("load ROM: %v", err)
	}
	defer func() {
		if err := application.Cleanup(); err != nil {
			log.Printf("cleanup: %v", err)
		}
	}()

	if err := application.Initialize(); err != nil {
		log.Fatalf("initialize: %v", err)
	}

	if *nogui {
		if err := application.RunFrames(*frames); err != nil {
			log.Fatalf("headless run: %v", err)
		}
		return
	}

	if err := application.Run(); err != nil {
		log.Fatalf("run: %v", err)
	}
}

func printUsage() {
	fmt.Println("nescore - NES emulator")
	fmt.Println()
	fmt.Println("USAGE:")
	fmt.Println("  nescore -rom <file> [options]        # windowed mode")
	fmt.Println("  nescore -rom <file> -nogui [options] # headless mode")
	fmt.Println()
	fmt.Println("OPTIONS:")
	flag.PrintDefaults()
	fmt.Println()
	fmt.Println("CONTROLS:")
	fmt.Println("  Arrow Keys / WASD - D-Pad")
	fmt.Println("  J / K             - A / B")
	fmt.Println("  Enter / Space     - Start / Select")
	fmt.Println("  P                 - Pause")
	fmt.Println("  R                 - Reset")
	fmt.Println("  F1-F5             - Save state slots 0-4")
	fmt.Println("  F6-F10            - Load state slots 0-4")
	fmt.Println("  Escape            - Quit")
	fmt.Println()
	fmt.Println("SUPPORTED MAPPERS:")
	fmt.Println("  NROM (0), MMC1 (1), UNROM (2), CNROM (3)")
}
