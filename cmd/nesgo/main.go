// Command nesgo runs the console's CLI entry point: parse flags (and an
// optional nesgo.toml of persistent defaults), build a console.Console,
// open a pixelgl window onto it, and drive the emulation loop.
// Grounded on arl-nestor/cli.go's kong.New/kong.Vars parser shape and
// the teacher's root main.go's validate-path-then-run structure.
package main

import (
	"fmt"
	"os"

	"github.com/alecthomas/kong"

	"nesgo/console"
	"nesgo/speakers"
	"nesgo/ui"
)

type CLI struct {
	RomPath string `arg:"" name:"rom" help:"Path to the iNES ROM file to run (.nes, or .7z containing one)." type:"existingfile"`

	Audio       string `name:"audio" help:"Audio backend to use." enum:"oto,portaudio,nil" default:"${default_audio}"`
	Verbose     bool   `name:"verbose" help:"Verbose mode; the setting is reported in the start-up log, no per-instruction trace is written." default:"${default_verbose}"`
	SpriteLimit bool   `name:"sprite-limit" help:"Sprite-limit mode; sprite evaluation keeps at most 8 sprites per scanline with or without this flag." default:"${default_sprite_limit}"`
	FreeRun     bool   `name:"free-run" help:"Run as fast as possible instead of pacing to 60Hz, skipping audio sync." default:"${default_free_run}"`

	SaveConfig bool `name:"save-config" help:"Persist these flags into nesgo.toml as future defaults."`
}

func main() {
	defaults := loadConfigOrDefault()

	var cli CLI
	parser, err := kong.New(&cli,
		kong.Name("nesgo"),
		kong.Description("NES emulator."),
		kong.UsageOnError(),
		kong.Vars{
			"default_audio":        defaults.Audio,
			"default_verbose":      fmt.Sprintf("%v", defaults.Verbose),
			"default_sprite_limit": fmt.Sprintf("%v", defaults.SpriteLimit),
			"default_free_run":     fmt.Sprintf("%v", defaults.FreeRun),
		},
	)
	if err != nil {
		fatalf("building CLI parser: %v", err)
	}

	if _, err := parser.Parse(os.Args[1:]); err != nil {
		fatalf("parsing command line: %v", err)
	}

	if cli.SaveConfig {
		cfg := Config{
			Audio:       cli.Audio,
			Verbose:     cli.Verbose,
			SpriteLimit: cli.SpriteLimit,
			FreeRun:     cli.FreeRun,
		}
		if err := saveDefaultConfig(cfg); err != nil {
			fatalf("saving %s: %v", configFilename, err)
		}
	}

	fmt.Printf("nesgo: loading %s\n", cli.RomPath)
	c, err := console.New(
		console.CartPath(cli.RomPath),
		console.Verbose(cli.Verbose),
		console.FreeRun(cli.FreeRun),
		console.SpriteLimit(cli.SpriteLimit),
		console.AudioLibrary(speakers.AudioLib(cli.Audio)),
	)
	if err != nil {
		fatalf("starting console: %v", err)
	}
	defer func() {
		if err := c.Stop(); err != nil {
			fmt.Fprintf(os.Stderr, "nesgo: stop: %v\n", err)
		}
	}()

	var screen ui.Screen
	screen.Init(c, &c.Framebuffer)

	screen.Run()
	c.Run()
}

func fatalf(format string, args ...any) {
	fmt.Fprintf(os.Stderr, "nesgo: fatal: %s\n", fmt.Sprintf(format, args...))
	os.Exit(1)
}
