package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"
)

// Focus layout names.
const (
	FocusLayoutAutomatic = "automatic"
	FocusLayoutLine      = "line"
)

// RegionType defines focus region presets.
type RegionType string

const (
	RegionFull       RegionType = "full"
	RegionLeftHalf   RegionType = "left-half"
	RegionRightHalf  RegionType = "right-half"
	RegionTopHalf    RegionType = "top-half"
	RegionBottomHalf RegionType = "bottom-half"
	RegionCustom     RegionType = "custom"
)

// FocusRegion defines the part of the wall used by focused windows.
type FocusRegion struct {
	Type          RegionType `yaml:"type"`
	XPercent      int        `yaml:"x_percent,omitempty"`      // 0-100
	YPercent      int        `yaml:"y_percent,omitempty"`      // 0-100
	WidthPercent  int        `yaml:"width_percent,omitempty"`  // 0-100
	HeightPercent int        `yaml:"height_percent,omitempty"` // 0-100
}

// WallConfig describes the display wall surface.
type WallConfig struct {
	Width  float64 `yaml:"width"`
	Height float64 `yaml:"height"`
	// DetectX11 sizes the wall from the RandR monitors of the X display.
	DetectX11  bool   `yaml:"detect_x11"`
	Display    string `yaml:"display,omitempty"`
	XAuthority string `yaml:"xauthority,omitempty"`
}

// FocusConfig configures presentation mode.
type FocusConfig struct {
	Layout        string      `yaml:"layout"`
	Spacing       float64     `yaml:"spacing"`
	ControlsWidth float64     `yaml:"controls_width"`
	TitleHeight   float64     `yaml:"title_height"`
	Region        FocusRegion `yaml:"region"`
}

// ViewConfig configures how window visibility is computed.
type ViewConfig struct {
	AlphaBlending bool `yaml:"alpha_blending"`
}

// LogConfig configures daemon logging.
type LogConfig struct {
	// Level controls logging verbosity: debug, info, warn, error
	Level string `yaml:"level"`
	// Format is console or json
	Format string `yaml:"format"`
	// File enables a rotated JSON log file in addition to stderr
	File string `yaml:"file,omitempty"`
	// MaxSizeMB is the maximum log file size before rotation
	MaxSizeMB int `yaml:"max_size_mb"`
	// MaxBackups is the number of rotated files to keep
	MaxBackups int `yaml:"max_backups"`
}

// SessionConfig configures where session snapshots are stored.
type SessionConfig struct {
	// Dir defaults to ~/.local/share/displaywall/sessions
	Dir string `yaml:"dir,omitempty"`
}

// HotkeyConfig binds X key sequences (xgbutil syntax, e.g. "Mod4-Escape")
// to wall actions. Empty sequences are not grabbed.
type HotkeyConfig struct {
	UnfocusAll     string `yaml:"unfocus_all,omitempty"`
	ExitFullscreen string `yaml:"exit_fullscreen,omitempty"`
	DeselectAll    string `yaml:"deselect_all,omitempty"`
}

// Enabled reports whether any hotkey is bound.
func (h HotkeyConfig) Enabled() bool {
	return h.UnfocusAll != "" || h.ExitFullscreen != "" || h.DeselectAll != ""
}

// Config holds the application configuration.
type Config struct {
	Wall    WallConfig    `yaml:"wall"`
	Focus   FocusConfig   `yaml:"focus"`
	View    ViewConfig    `yaml:"view"`
	Hotkeys HotkeyConfig  `yaml:"hotkeys"`
	Log     LogConfig     `yaml:"log"`
	Session SessionConfig `yaml:"session"`
}

func DefaultConfig() *Config {
	return &Config{
		Wall: WallConfig{
			Width:  7680,
			Height: 4320,
		},
		Focus: FocusConfig{
			Layout:  FocusLayoutAutomatic,
			Spacing: 40,
			Region:  FocusRegion{Type: RegionFull},
		},
		Log: LogConfig{
			Level:      "info",
			Format:     "console",
			MaxSizeMB:  10,
			MaxBackups: 3,
		},
	}
}

// SessionDir returns the session directory with defaults applied.
func (c *Config) SessionDir() string {
	if c != nil && c.Session.Dir != "" {
		return c.Session.Dir
	}
	home, err := os.UserHomeDir()
	if err != nil || home == "" {
		home = os.Getenv("HOME")
	}
	if home == "" {
		// Last resort fallback - use current directory
		home = "."
	}
	return filepath.Join(home, ".local", "share", "displaywall", "sessions")
}

// Save writes the configuration to path, or the standard location when path is empty.
//
// Note: this marshals the effective config and will not preserve comments or
// include structure from the original YAML.
func (c *Config) Save(path string) error {
	if err := c.Validate(); err != nil {
		return err
	}

	if path == "" {
		var err error
		if path, err = DefaultConfigPath(); err != nil {
			return err
		}
	}
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	data, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}
	return nil
}

// Validate performs strict validation of the effective configuration.
func (c *Config) Validate() error {
	if c.Wall.Width <= 0 {
		return &ValidationError{Path: "wall.width", Err: fmt.Errorf("width must be > 0")}
	}
	if c.Wall.Height <= 0 {
		return &ValidationError{Path: "wall.height", Err: fmt.Errorf("height must be > 0")}
	}

	switch c.Focus.Layout {
	case FocusLayoutAutomatic, FocusLayoutLine:
	default:
		return &ValidationError{Path: "focus.layout", Err: fmt.Errorf("layout must be one of: %s, %s", FocusLayoutAutomatic, FocusLayoutLine)}
	}
	if c.Focus.Spacing < 0 {
		return &ValidationError{Path: "focus.spacing", Err: fmt.Errorf("spacing must be >= 0")}
	}
	if c.Focus.ControlsWidth < 0 {
		return &ValidationError{Path: "focus.controls_width", Err: fmt.Errorf("controls_width must be >= 0")}
	}
	if c.Focus.TitleHeight < 0 {
		return &ValidationError{Path: "focus.title_height", Err: fmt.Errorf("title_height must be >= 0")}
	}
	if err := validateRegion(c.Focus.Region); err != nil {
		return &ValidationError{Path: "focus.region", Err: err}
	}

	bound := map[string]string{}
	for _, hk := range []struct{ path, seq string }{
		{"hotkeys.unfocus_all", c.Hotkeys.UnfocusAll},
		{"hotkeys.exit_fullscreen", c.Hotkeys.ExitFullscreen},
		{"hotkeys.deselect_all", c.Hotkeys.DeselectAll},
	} {
		if hk.seq == "" {
			continue
		}
		if other, ok := bound[hk.seq]; ok {
			return &ValidationError{Path: hk.path, Err: fmt.Errorf("%q is already bound by %s", hk.seq, other)}
		}
		bound[hk.seq] = hk.path
	}

	switch strings.ToLower(c.Log.Level) {
	case "debug", "info", "warn", "warning", "error":
	default:
		return &ValidationError{Path: "log.level", Err: fmt.Errorf("level must be one of: debug, info, warn, error")}
	}
	switch c.Log.Format {
	case "console", "json":
	default:
		return &ValidationError{Path: "log.format", Err: fmt.Errorf("format must be one of: console, json")}
	}
	if c.Log.MaxSizeMB < 0 {
		return &ValidationError{Path: "log.max_size_mb", Err: fmt.Errorf("max_size_mb must be >= 0")}
	}
	if c.Log.MaxBackups < 0 {
		return &ValidationError{Path: "log.max_backups", Err: fmt.Errorf("max_backups must be >= 0")}
	}

	return nil
}

// validateRegion checks if a focus region is valid.
func validateRegion(region FocusRegion) error {
	switch region.Type {
	case RegionFull, RegionLeftHalf, RegionRightHalf, RegionTopHalf, RegionBottomHalf:
		// ok
	case RegionCustom:
		if region.XPercent < 0 || region.XPercent > 100 {
			return fmt.Errorf("x_percent must be between 0 and 100")
		}
		if region.YPercent < 0 || region.YPercent > 100 {
			return fmt.Errorf("y_percent must be between 0 and 100")
		}
		if region.WidthPercent <= 0 || region.WidthPercent > 100 {
			return fmt.Errorf("width_percent must be between 1 and 100")
		}
		if region.HeightPercent <= 0 || region.HeightPercent > 100 {
			return fmt.Errorf("height_percent must be between 1 and 100")
		}
		if region.XPercent+region.WidthPercent > 100 {
			return fmt.Errorf("x_percent + width_percent must be <= 100")
		}
		if region.YPercent+region.HeightPercent > 100 {
			return fmt.Errorf("y_percent + height_percent must be <= 100")
		}
	default:
		return fmt.Errorf("invalid region type %q", region.Type)
	}
	return nil
}
