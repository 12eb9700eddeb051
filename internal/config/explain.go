package config

import (
	"fmt"
	"strings"
)

// Explain returns the effective value at the given YAML-like path and its source.
//
// Supported paths include:
//
//	wall.width
//	wall.detect_x11
//	focus.layout
//	focus.spacing
//	focus.region.type
//	focus.region.width_percent
//	view.alpha_blending
//	hotkeys.exit_fullscreen
//	log.level
//	session.dir
func Explain(res *LoadResult, path string) (any, Source, error) {
	if res == nil || res.Config == nil {
		return nil, Source{}, fmt.Errorf("no config loaded")
	}
	if path == "" {
		return nil, Source{}, fmt.Errorf("path is empty")
	}

	value, err := lookupValue(res.Config, path)
	if err != nil {
		return nil, Source{}, err
	}

	if src, ok := res.Sources[path]; ok {
		return value, src, nil
	}
	return value, Source{Kind: SourceDefault, Name: "defaults"}, nil
}

func lookupValue(cfg *Config, path string) (any, error) {
	parts := strings.Split(path, ".")
	unknown := fmt.Errorf("unknown path: %s", path)

	leaf := func(section any, fields map[string]any) (any, error) {
		switch len(parts) {
		case 1:
			return section, nil
		case 2:
			if v, ok := fields[parts[1]]; ok {
				return v, nil
			}
		}
		return nil, unknown
	}

	switch parts[0] {
	case "wall":
		return leaf(cfg.Wall, map[string]any{
			"width":      cfg.Wall.Width,
			"height":     cfg.Wall.Height,
			"detect_x11": cfg.Wall.DetectX11,
			"display":    cfg.Wall.Display,
			"xauthority": cfg.Wall.XAuthority,
		})
	case "focus":
		if len(parts) >= 2 && parts[1] == "region" {
			r := cfg.Focus.Region
			if len(parts) == 2 {
				return r, nil
			}
			if len(parts) != 3 {
				return nil, unknown
			}
			switch parts[2] {
			case "type":
				return r.Type, nil
			case "x_percent":
				return r.XPercent, nil
			case "y_percent":
				return r.YPercent, nil
			case "width_percent":
				return r.WidthPercent, nil
			case "height_percent":
				return r.HeightPercent, nil
			default:
				return nil, unknown
			}
		}
		return leaf(cfg.Focus, map[string]any{
			"layout":         cfg.Focus.Layout,
			"spacing":        cfg.Focus.Spacing,
			"controls_width": cfg.Focus.ControlsWidth,
			"title_height":   cfg.Focus.TitleHeight,
		})
	case "view":
		return leaf(cfg.View, map[string]any{
			"alpha_blending": cfg.View.AlphaBlending,
		})
	case "hotkeys":
		return leaf(cfg.Hotkeys, map[string]any{
			"unfocus_all":     cfg.Hotkeys.UnfocusAll,
			"exit_fullscreen": cfg.Hotkeys.ExitFullscreen,
			"deselect_all":    cfg.Hotkeys.DeselectAll,
		})
	case "log":
		return leaf(cfg.Log, map[string]any{
			"level":       cfg.Log.Level,
			"format":      cfg.Log.Format,
			"file":        cfg.Log.File,
			"max_size_mb": cfg.Log.MaxSizeMB,
			"max_backups": cfg.Log.MaxBackups,
		})
	case "session":
		return leaf(cfg.Session, map[string]any{
			"dir": cfg.SessionDir(),
		})
	default:
		return nil, unknown
	}
}
