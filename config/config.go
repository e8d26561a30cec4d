// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

// Package config loads settings for the rq command from a file and the
// environment.
//
// Keys can be set in a YAML, TOML or JSON file and overridden by RQ_
// environment variables, with dots replaced by underscores:
//
//	backend: raster
//	log_level: debug
//	journal: ~/.rq/requests.db
//	board:
//	  width: 800
//	  height: 600
//	  background: "#202020"
//
//	RQ_BOARD_WIDTH=1024 rq board
package config

import (
	"errors"
	"fmt"
	"image/color"
	"log/slog"
	"math"
	"strings"

	"github.com/gogpu/gg"
	"github.com/spf13/viper"
)

// EnvPrefix is the prefix of environment overrides.
const EnvPrefix = "RQ"

// ErrInvalid is returned by Validate.
var ErrInvalid = errors.New("config: invalid")

// Board holds the defaults for boards created by the command line.
type Board struct {
	Width      int    `mapstructure:"width"`
	Height     int    `mapstructure:"height"`
	Background string `mapstructure:"background"`
}

// Config is the rq configuration.
type Config struct {
	Backend  string `mapstructure:"backend"`
	LogLevel string `mapstructure:"log_level"`
	Journal  string `mapstructure:"journal"`
	Output   string `mapstructure:"output"`
	Board    Board  `mapstructure:"board"`
}

// Default returns the built-in configuration.
func Default() *Config {
	return &Config{
		Backend:  "raster",
		LogLevel: "warn",
		Output:   "board.png",
		Board: Board{
			Width:      800,
			Height:     600,
			Background: "#000000",
		},
	}
}

// Load reads the configuration file at path, if path is not empty, and
// applies environment overrides on top of the defaults.
func Load(path string) (*Config, error) {
	v := viper.New()
	setDefaults(v, Default())

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("config: read %s: %w", path, err)
		}
	}

	cfg := &Config{}
	if err := v.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("config: decode: %w", err)
	}
	return cfg, cfg.Validate()
}

// setDefaults registers every key so that environment overrides apply
// even when no file sets them.
func setDefaults(v *viper.Viper, d *Config) {
	v.SetDefault("backend", d.Backend)
	v.SetDefault("log_level", d.LogLevel)
	v.SetDefault("journal", d.Journal)
	v.SetDefault("output", d.Output)
	v.SetDefault("board.width", d.Board.Width)
	v.SetDefault("board.height", d.Board.Height)
	v.SetDefault("board.background", d.Board.Background)
}

// Level parses LogLevel.
func (c *Config) Level() (slog.Level, error) {
	var l slog.Level
	if err := l.UnmarshalText([]byte(c.LogLevel)); err != nil {
		return 0, fmt.Errorf("%w: log_level %q", ErrInvalid, c.LogLevel)
	}
	return l, nil
}

// Background parses Board.Background, a hex color such as "#ff8000" or
// "ff8000cc".
func (c *Config) Background() (color.NRGBA, error) {
	rgba, err := gg.ParseHex(c.Board.Background)
	if err != nil {
		return color.NRGBA{}, fmt.Errorf("%w: board.background %q", ErrInvalid, c.Board.Background)
	}
	return color.NRGBA{R: channel(rgba.R), G: channel(rgba.G), B: channel(rgba.B), A: channel(rgba.A)}, nil
}

func channel(v float64) uint8 {
	return uint8(math.Round(math.Max(0, math.Min(1, v)) * 255))
}

// Validate reports the first invalid setting.
func (c *Config) Validate() error {
	if c.Backend == "" {
		return fmt.Errorf("%w: backend is empty", ErrInvalid)
	}
	if c.Board.Width <= 0 || c.Board.Height <= 0 {
		return fmt.Errorf("%w: board %dx%d", ErrInvalid, c.Board.Width, c.Board.Height)
	}
	if _, err := c.Level(); err != nil {
		return err
	}
	_, err := c.Background()
	return err
}
