package config

import (
	"fmt"
)

type ValidationError struct {
	Path   string
	Source Source
	Err    error
}

func (e *ValidationError) Error() string {
	if e == nil {
		return "<nil>"
	}
	if e.Source.Kind == SourceFile && e.Source.File != "" && e.Source.Line > 0 {
		return fmt.Sprintf("%s:%d:%d: %s: %v", e.Source.File, e.Source.Line, e.Source.Column, e.Path, e.Err)
	}
	if e.Path != "" {
		return fmt.Sprintf("%s: %v", e.Path, e.Err)
	}
	return e.Err.Error()
}

func (e *ValidationError) Unwrap() error { return e.Err }

// BuildEffectiveConfig applies a merged raw config over the defaults.
func BuildEffectiveConfig(raw RawConfig) (*Config, error) {
	cfg := DefaultConfig()

	if w := raw.Wall; w != nil {
		apply(&cfg.Wall.Width, w.Width)
		apply(&cfg.Wall.Height, w.Height)
		apply(&cfg.Wall.DetectX11, w.DetectX11)
		apply(&cfg.Wall.Display, w.Display)
		apply(&cfg.Wall.XAuthority, w.XAuthority)
	}

	if f := raw.Focus; f != nil {
		apply(&cfg.Focus.Layout, f.Layout)
		apply(&cfg.Focus.Spacing, f.Spacing)
		apply(&cfg.Focus.ControlsWidth, f.ControlsWidth)
		apply(&cfg.Focus.TitleHeight, f.TitleHeight)
		if r := f.Region; r != nil {
			if r.Type != nil && *r.Type != cfg.Focus.Region.Type {
				// A new region type starts from zero percentages.
				cfg.Focus.Region = FocusRegion{Type: *r.Type}
			}
			apply(&cfg.Focus.Region.XPercent, r.XPercent)
			apply(&cfg.Focus.Region.YPercent, r.YPercent)
			apply(&cfg.Focus.Region.WidthPercent, r.WidthPercent)
			apply(&cfg.Focus.Region.HeightPercent, r.HeightPercent)
		}
	}

	if v := raw.View; v != nil {
		apply(&cfg.View.AlphaBlending, v.AlphaBlending)
	}

	if h := raw.Hotkeys; h != nil {
		apply(&cfg.Hotkeys.UnfocusAll, h.UnfocusAll)
		apply(&cfg.Hotkeys.ExitFullscreen, h.ExitFullscreen)
		apply(&cfg.Hotkeys.DeselectAll, h.DeselectAll)
	}

	if l := raw.Log; l != nil {
		apply(&cfg.Log.Level, l.Level)
		apply(&cfg.Log.Format, l.Format)
		apply(&cfg.Log.File, l.File)
		apply(&cfg.Log.MaxSizeMB, l.MaxSizeMB)
		apply(&cfg.Log.MaxBackups, l.MaxBackups)
	}

	if s := raw.Session; s != nil {
		apply(&cfg.Session.Dir, s.Dir)
	}

	if cfg.Focus.Region.Type == "" {
		return nil, &ValidationError{Path: "focus.region.type", Err: fmt.Errorf("region type is required")}
	}

	return cfg, nil
}

func apply[T any](dst *T, src *T) {
	if src != nil {
		*dst = *src
	}
}
