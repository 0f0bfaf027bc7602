// Package zconfig loads interpreter settings from a TOML file.
package zconfig

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/BurntSushi/toml"
	"go.uber.org/zap/zapcore"

	"github.com/DustinCampbell/ZDebug-sub001/zvm"
)

// FileName is the name Find looks for.
const FileName = "zmachine.toml"

type Config struct {
	Screen      Screen      `toml:"screen"`
	Interpreter Interpreter `toml:"interpreter"`
	Saves       Saves       `toml:"saves"`
	// LogLevel is a zap level name.  Empty means "info".
	LogLevel string `toml:"log-level"`
}

// Screen overrides the dimensions reported to the story.
// Zero values mean the terminal's size is used.
type Screen struct {
	Width  int `toml:"width"`
	Height int `toml:"height"`
}

type Interpreter struct {
	Number  uint8  `toml:"number"`
	Version string `toml:"version"`
	Seed    int64  `toml:"seed"`
	Undo    int    `toml:"undo-depth"`
}

type Saves struct {
	// Path to the save database, relative to the config file.
	Path string `toml:"path"`
	Slot string `toml:"slot"`
}

// Default returns the configuration used when no file is found.
func Default() Config {
	return Config{
		Interpreter: Interpreter{
			Number:  zvm.DefaultInterpreterNumber,
			Version: string(rune(zvm.DefaultInterpreterVer)),
			Undo:    zvm.DefaultUndoDepth,
		},
		Saves: Saves{
			Path: "zmachine-saves.db",
			Slot: "default",
		},
		LogLevel: "info",
	}
}

// Load parses the file at p.  Settings it doesn't mention keep their defaults.
func Load(p string) (*Config, error) {
	data, err := os.ReadFile(p)
	if err != nil {
		return nil, fmt.Errorf("zconfig: cannot read %s: %w", p, err)
	}
	c := Default()
	if err := toml.Unmarshal(data, &c); err != nil {
		return nil, fmt.Errorf("zconfig: parse error in %s: %w", p, err)
	}
	if c.Saves.Path != "" && !filepath.IsAbs(c.Saves.Path) {
		c.Saves.Path = filepath.Join(filepath.Dir(p), c.Saves.Path)
	}
	if err := c.Validate(); err != nil {
		return nil, fmt.Errorf("zconfig: %s: %w", p, err)
	}
	return &c, nil
}

// Find loads FileName from dir or the nearest parent which has one.
// If there is none, it returns Default.
func Find(dir string) (*Config, error) {
	dir, err := filepath.Abs(dir)
	if err != nil {
		return nil, err
	}
	for {
		p := filepath.Join(dir, FileName)
		if _, err := os.Stat(p); err == nil {
			return Load(p)
		} else if !errors.Is(err, fs.ErrNotExist) {
			return nil, err
		}
		parent := filepath.Dir(dir)
		if parent == dir {
			c := Default()
			return &c, nil
		}
		dir = parent
	}
}

func (c *Config) Validate() error {
	if c.Screen.Width < 0 || c.Screen.Width > 255 || c.Screen.Height < 0 || c.Screen.Height > 255 {
		return fmt.Errorf("screen size %dx%d out of range", c.Screen.Width, c.Screen.Height)
	}
	if len(c.Interpreter.Version) > 1 {
		return fmt.Errorf("interpreter version %q must be a single character", c.Interpreter.Version)
	}
	if c.Interpreter.Undo < 0 {
		return fmt.Errorf("negative undo depth %d", c.Interpreter.Undo)
	}
	if _, err := c.Level(); err != nil {
		return err
	}
	return nil
}

// Level parses LogLevel.
func (c *Config) Level() (zapcore.Level, error) {
	if c.LogLevel == "" {
		return zapcore.InfoLevel, nil
	}
	return zapcore.ParseLevel(c.LogLevel)
}

// Env fills in the parts of a zvm.Env which come from configuration.
func (c *Config) Env(env zvm.Env) zvm.Env {
	env.InterpreterNumber = c.Interpreter.Number
	if c.Interpreter.Version != "" {
		env.InterpreterVersion = c.Interpreter.Version[0]
	}
	env.Seed = c.Interpreter.Seed
	env.UndoDepth = c.Interpreter.Undo
	return env
}

// Dimensions returns the configured screen size, with zero fields taken from fallback.
func (c *Config) Dimensions(fallback zvm.Dimensions) zvm.Dimensions {
	d := fallback
	if c.Screen.Width > 0 {
		d.WidthInColumns = c.Screen.Width
		d.WidthInUnits = c.Screen.Width * max(d.FontWidthInUnits, 1)
	}
	if c.Screen.Height > 0 {
		d.HeightInLines = c.Screen.Height
		d.HeightInUnits = c.Screen.Height * max(d.FontHeightInUnits, 1)
	}
	return d
}
