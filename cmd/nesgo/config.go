package main

import (
	"os"

	"github.com/BurntSushi/toml"
)

// Config holds the persistent defaults a nesgo.toml in the working
// directory can override; CLI flags take precedence over all of it.
// Grounded on arl-nestor/emu/config.go's toml.DecodeFile/toml.Marshal
// round trip, simplified onto a fixed filename instead of that repo's
// kirsle/configdir OS-specific config directory lookup (that dependency
// is not part of this module's stack; see DESIGN.md).
type Config struct {
	Audio       string `toml:"audio"`
	Verbose     bool   `toml:"verbose"`
	SpriteLimit bool   `toml:"sprite_limit"`
	FreeRun     bool   `toml:"free_run"`
}

const configFilename = "nesgo.toml"

// loadConfigOrDefault loads nesgo.toml from the current directory, or
// returns the defaults (Audio "oto", every other field off) if it is absent
// or malformed.
func loadConfigOrDefault() Config {
	var cfg Config
	if _, err := toml.DecodeFile(configFilename, &cfg); err != nil {
		return Config{Audio: "oto"}
	}
	return cfg
}

// saveDefaultConfig writes the current Config to nesgo.toml, used by
// --save-config to persist the flags passed on this run as future
// defaults.
func saveDefaultConfig(cfg Config) error {
	f, err := os.Create(configFilename)
	if err != nil {
		return err
	}
	defer f.Close()
	return toml.NewEncoder(f).Encode(cfg)
}
