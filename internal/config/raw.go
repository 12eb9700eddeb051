package config

import (
	"fmt"

	"gopkg.in/yaml.v3"
)

// IncludeList supports either:
//
//	include: "/path/to/file.yaml"
//
// or:
//
//	include:
//	  - "/path/to/file.yaml"
//	  - "/path/to/dir"
type IncludeList []string

func (l *IncludeList) UnmarshalYAML(value *yaml.Node) error {
	switch value.Kind {
	case 0:
		// Not present.
		*l = nil
		return nil
	case yaml.ScalarNode:
		if value.Tag != "!!str" {
			return fmt.Errorf("include must be a string or list of strings")
		}
		*l = []string{value.Value}
		return nil
	case yaml.SequenceNode:
		out := make([]string, 0, len(value.Content))
		for _, item := range value.Content {
			if item.Kind != yaml.ScalarNode || item.Tag != "!!str" {
				return fmt.Errorf("include entries must be strings")
			}
			out = append(out, item.Value)
		}
		*l = out
		return nil
	default:
		return fmt.Errorf("include must be a string or list of strings")
	}
}

type RawWallConfig struct {
	Width      *float64 `yaml:"width"`
	Height     *float64 `yaml:"height"`
	DetectX11  *bool    `yaml:"detect_x11"`
	Display    *string  `yaml:"display"`
	XAuthority *string  `yaml:"xauthority"`
}

type RawFocusRegion struct {
	Type          *RegionType `yaml:"type"`
	XPercent      *int        `yaml:"x_percent"`
	YPercent      *int        `yaml:"y_percent"`
	WidthPercent  *int        `yaml:"width_percent"`
	HeightPercent *int        `yaml:"height_percent"`
}

type RawFocusConfig struct {
	Layout        *string         `yaml:"layout"`
	Spacing       *float64        `yaml:"spacing"`
	ControlsWidth *float64        `yaml:"controls_width"`
	TitleHeight   *float64        `yaml:"title_height"`
	Region        *RawFocusRegion `yaml:"region"`
}

type RawViewConfig struct {
	AlphaBlending *bool `yaml:"alpha_blending"`
}

type RawHotkeyConfig struct {
	UnfocusAll     *string `yaml:"unfocus_all"`
	ExitFullscreen *string `yaml:"exit_fullscreen"`
	DeselectAll    *string `yaml:"deselect_all"`
}

type RawLogConfig struct {
	Level      *string `yaml:"level"`
	Format     *string `yaml:"format"`
	File       *string `yaml:"file"`
	MaxSizeMB  *int    `yaml:"max_size_mb"`
	MaxBackups *int    `yaml:"max_backups"`
}

type RawSessionConfig struct {
	Dir *string `yaml:"dir"`
}

// RawConfig is one configuration file as written: every field is optional
// and later files override earlier ones field by field.
type RawConfig struct {
	Include IncludeList       `yaml:"include"`
	Wall    *RawWallConfig    `yaml:"wall"`
	Focus   *RawFocusConfig   `yaml:"focus"`
	View    *RawViewConfig    `yaml:"view"`
	Hotkeys *RawHotkeyConfig  `yaml:"hotkeys"`
	Log     *RawLogConfig     `yaml:"log"`
	Session *RawSessionConfig `yaml:"session"`
}

// override replaces *dst with src when src is set.
func override[T any](dst **T, src *T) {
	if src != nil {
		*dst = src
	}
}

func (c RawConfig) merge(overlay RawConfig) RawConfig {
	out := c

	if overlay.Wall != nil {
		w := RawWallConfig{}
		if out.Wall != nil {
			w = *out.Wall
		}
		override(&w.Width, overlay.Wall.Width)
		override(&w.Height, overlay.Wall.Height)
		override(&w.DetectX11, overlay.Wall.DetectX11)
		override(&w.Display, overlay.Wall.Display)
		override(&w.XAuthority, overlay.Wall.XAuthority)
		out.Wall = &w
	}

	if overlay.Focus != nil {
		f := RawFocusConfig{}
		if out.Focus != nil {
			f = *out.Focus
		}
		override(&f.Layout, overlay.Focus.Layout)
		override(&f.Spacing, overlay.Focus.Spacing)
		override(&f.ControlsWidth, overlay.Focus.ControlsWidth)
		override(&f.TitleHeight, overlay.Focus.TitleHeight)
		if overlay.Focus.Region != nil {
			f.Region = mergeRawRegion(f.Region, overlay.Focus.Region)
		}
		out.Focus = &f
	}

	if overlay.View != nil {
		v := RawViewConfig{}
		if out.View != nil {
			v = *out.View
		}
		override(&v.AlphaBlending, overlay.View.AlphaBlending)
		out.View = &v
	}

	if overlay.Hotkeys != nil {
		h := RawHotkeyConfig{}
		if out.Hotkeys != nil {
			h = *out.Hotkeys
		}
		override(&h.UnfocusAll, overlay.Hotkeys.UnfocusAll)
		override(&h.ExitFullscreen, overlay.Hotkeys.ExitFullscreen)
		override(&h.DeselectAll, overlay.Hotkeys.DeselectAll)
		out.Hotkeys = &h
	}

	if overlay.Log != nil {
		l := RawLogConfig{}
		if out.Log != nil {
			l = *out.Log
		}
		override(&l.Level, overlay.Log.Level)
		override(&l.Format, overlay.Log.Format)
		override(&l.File, overlay.Log.File)
		override(&l.MaxSizeMB, overlay.Log.MaxSizeMB)
		override(&l.MaxBackups, overlay.Log.MaxBackups)
		out.Log = &l
	}

	if overlay.Session != nil {
		s := RawSessionConfig{}
		if out.Session != nil {
			s = *out.Session
		}
		override(&s.Dir, overlay.Session.Dir)
		out.Session = &s
	}

	return out
}

func mergeRawRegion(base, overlay *RawFocusRegion) *RawFocusRegion {
	out := RawFocusRegion{}
	if base != nil {
		out = *base
	}
	override(&out.Type, overlay.Type)
	override(&out.XPercent, overlay.XPercent)
	override(&out.YPercent, overlay.YPercent)
	override(&out.WidthPercent, overlay.WidthPercent)
	override(&out.HeightPercent, overlay.HeightPercent)
	return &out
}
