package main

import (
	"encoding/json"
	"fmt"
	"io"
	"strconv"
	"strings"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/1broseidon/displaywall/internal/controller"
	"github.com/1broseidon/displaywall/internal/geom"
	"github.com/1broseidon/displaywall/internal/ipc"
)

func parseFloats(args []string) ([]float64, error) {
	out := make([]float64, len(args))
	for i, s := range args {
		f, err := strconv.ParseFloat(s, 64)
		if err != nil {
			return nil, fmt.Errorf("invalid number %q", s)
		}
		out[i] = f
	}
	return out, nil
}

// parsePoint parses "X,Y".
func parsePoint(s string) (geom.Point, error) {
	parts := strings.Split(s, ",")
	if len(parts) != 2 {
		return geom.Point{}, fmt.Errorf("invalid point %q (want X,Y)", s)
	}
	f, err := parseFloats(parts)
	if err != nil {
		return geom.Point{}, err
	}
	return geom.Point{X: f[0], Y: f[1]}, nil
}

func printJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

func printWindows(w io.Writer, windows []ipc.WindowData) error {
	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "Z\tID\tTYPE\tMODE\tX\tY\tW\tH\tURI")
	for _, win := range windows {
		r := win.DisplayCoordinates
		fmt.Fprintf(tw, "%d\t%s\t%s\t%s\t%.0f\t%.0f\t%.0f\t%.0f\t%s\n",
			win.ZIndex, win.ID, win.ContentType, win.Mode, r.X, r.Y, r.W, r.H, win.URI)
	}
	return tw.Flush()
}

// windowAction builds a subcommand taking an id plus nArgs numbers and
// printing the resulting window.
func windowAction(a *app, use, short string, nArgs int, run func(c *ipc.Client, id string, f []float64) (*ipc.WindowData, error)) *cobra.Command {
	return &cobra.Command{
		Use:   use,
		Short: short,
		Args:  cobra.ExactArgs(1 + nArgs),
		RunE: func(cmd *cobra.Command, args []string) error {
			f, err := parseFloats(args[1:])
			if err != nil {
				return err
			}
			w, err := run(a.client(), args[0], f)
			if err != nil {
				return err
			}
			return printJSON(cmd.OutOrStdout(), w)
		},
	}
}

func newWindowCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:     "window",
		Aliases: []string{"win"},
		Short:   "Open, move, resize and zoom windows",
	}

	var asJSON bool
	list := &cobra.Command{
		Use:   "list",
		Short: "List windows back to front",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			windows, err := a.client().ListWindows()
			if err != nil {
				return err
			}
			if asJSON {
				return printJSON(cmd.OutOrStdout(), windows)
			}
			return printWindows(cmd.OutOrStdout(), windows)
		},
	}
	list.Flags().BoolVar(&asJSON, "json", false, "print JSON")

	var (
		panel       bool
		transparent bool
		at          string
	)
	open := &cobra.Command{
		Use:   "open TYPE URI WIDTH HEIGHT",
		Short: "Open a window (types: texture, movie, pdf, svg, image_pyramid, pixel_stream, web_browser)",
		Args:  cobra.ExactArgs(4),
		RunE: func(cmd *cobra.Command, args []string) error {
			dims, err := parseFloats(args[2:])
			if err != nil {
				return err
			}
			req := ipc.OpenPayload{
				ContentType: args[0],
				URI:         args[1],
				Width:       dims[0],
				Height:      dims[1],
				Panel:       panel,
				Transparent: transparent,
			}
			if at != "" {
				p, err := parsePoint(at)
				if err != nil {
					return err
				}
				req.Center = &p
			}
			w, err := a.client().OpenWindow(req)
			if err != nil {
				return err
			}
			return printJSON(cmd.OutOrStdout(), w)
		},
	}
	open.Flags().BoolVar(&panel, "panel", false, "open as a panel")
	open.Flags().BoolVar(&transparent, "transparent", false, "content has transparency")
	open.Flags().StringVar(&at, "at", "", "window center X,Y (default: wall center)")

	show := windowAction(a, "show ID", "Show one window", 0, func(c *ipc.Client, id string, _ []float64) (*ipc.WindowData, error) {
		return c.GetWindow(id)
	})

	closeCmd := &cobra.Command{
		Use:   "close ID",
		Short: "Close a window",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.client().CloseWindow(args[0])
		},
	}

	var moveCenter, moveBy bool
	move := windowAction(a, "move ID X Y", "Move a window to (or by) X Y", 2, func(c *ipc.Client, id string, f []float64) (*ipc.WindowData, error) {
		return c.MoveWindow(id, geom.Point{X: f[0], Y: f[1]}, moveCenter, moveBy)
	})
	move.Flags().BoolVar(&moveCenter, "center", false, "place the window center")
	move.Flags().BoolVar(&moveBy, "by", false, "move by X Y")

	var resizeCenter bool
	resize := windowAction(a, "resize ID W H", "Resize a window", 2, func(c *ipc.Client, id string, f []float64) (*ipc.WindowData, error) {
		return c.ResizeWindow(id, geom.Size{W: f[0], H: f[1]}, resizeCenter)
	})
	resize.Flags().BoolVar(&resizeCenter, "center", false, "keep the center fixed")

	drag := &cobra.Command{
		Use:   "drag ID HANDLE DX DY",
		Short: "Drag a resize handle (top_left, top, top_right, right, bottom_right, bottom, bottom_left, left)",
		Args:  cobra.ExactArgs(4),
		RunE: func(cmd *cobra.Command, args []string) error {
			f, err := parseFloats(args[2:])
			if err != nil {
				return err
			}
			w, err := a.client().DragHandle(args[0], args[1], geom.Point{X: f[0], Y: f[1]})
			if err != nil {
				return err
			}
			return printJSON(cmd.OutOrStdout(), w)
		},
	}

	scale := windowAction(a, "scale ID X Y DELTA", "Grow a window width by DELTA around X Y", 3, func(c *ipc.Client, id string, f []float64) (*ipc.WindowData, error) {
		return c.ScaleWindow(id, geom.Point{X: f[0], Y: f[1]}, f[2])
	})

	adjust := &cobra.Command{
		Use:       "adjust ID STATE",
		Short:     "Apply a preset size (" + strings.Join(controller.SizeStateNames(), ", ") + ")",
		Args:      cobra.ExactArgs(2),
		ValidArgs: controller.SizeStateNames(),
		RunE: func(cmd *cobra.Command, args []string) error {
			w, err := a.client().AdjustWindow(args[0], args[1])
			if err != nil {
				return err
			}
			return printJSON(cmd.OutOrStdout(), w)
		},
	}

	toggleMax := windowAction(a, "toggle-max ID", "Toggle between fitting and covering fullscreen sizes", 0, func(c *ipc.Client, id string, _ []float64) (*ipc.WindowData, error) {
		return c.ToggleFullscreenMax(id)
	})

	policy := &cobra.Command{
		Use:   "policy ID POLICY",
		Short: "Set the resize policy (keep_aspect_ratio, adjust_content)",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			w, err := a.client().SetResizePolicy(args[0], args[1])
			if err != nil {
				return err
			}
			return printJSON(cmd.OutOrStdout(), w)
		},
	}

	var deselect bool
	selectCmd := windowAction(a, "select ID", "Select a window", 0, func(c *ipc.Client, id string, _ []float64) (*ipc.WindowData, error) {
		return c.SelectWindow(id, !deselect)
	})
	selectCmd.Flags().BoolVar(&deselect, "off", false, "deselect instead")

	deselectAll := &cobra.Command{
		Use:   "deselect-all",
		Short: "Clear the selection",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.client().DeselectAll()
		},
	}

	raise := windowAction(a, "raise ID", "Move a window to the front", 0, func(c *ipc.Client, id string, _ []float64) (*ipc.WindowData, error) {
		return c.RaiseWindow(id)
	})

	pinch := windowAction(a, "pinch ID X Y DX DY", "Zoom content around X Y by the pinch delta", 4, func(c *ipc.Client, id string, f []float64) (*ipc.WindowData, error) {
		return c.Pinch(id, geom.Point{X: f[0], Y: f[1]}, geom.Point{X: f[2], Y: f[3]})
	})

	pan := windowAction(a, "pan ID DX DY", "Pan content", 2, func(c *ipc.Client, id string, f []float64) (*ipc.WindowData, error) {
		return c.Pan(id, geom.Point{X: f[0], Y: f[1]})
	})

	resetZoom := windowAction(a, "reset-zoom ID", "Show the whole content", 0, func(c *ipc.Client, id string, _ []float64) (*ipc.WindowData, error) {
		return c.ResetZoom(id)
	})

	visible := &cobra.Command{
		Use:   "visible ID",
		Short: "Print the unobstructed area of a window",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			r, err := a.client().VisibleArea(args[0])
			if err != nil {
				return err
			}
			if r.IsEmpty() {
				fmt.Fprintln(cmd.OutOrStdout(), "hidden")
				return nil
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%gx%g+%g+%g\n", r.W, r.H, r.X, r.Y)
			return nil
		},
	}

	clearCmd := &cobra.Command{
		Use:   "clear",
		Short: "Close every window",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.client().Clear()
		},
	}

	cmd.AddCommand(list, open, show, closeCmd, move, resize, drag, scale, adjust, toggleMax,
		policy, selectCmd, deselectAll, raise, pinch, pan, resetZoom, visible, clearCmd)
	return cmd
}

func newFocusCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "focus",
		Short: "Manage the focused set and the fullscreen window",
	}

	add := windowAction(a, "add ID", "Focus a window", 0, func(c *ipc.Client, id string, _ []float64) (*ipc.WindowData, error) {
		return c.FocusWindow(id)
	})
	remove := windowAction(a, "remove ID", "Unfocus a window", 0, func(c *ipc.Client, id string, _ []float64) (*ipc.WindowData, error) {
		return c.UnfocusWindow(id)
	})
	clearCmd := &cobra.Command{
		Use:   "clear",
		Short: "Unfocus every window",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.client().UnfocusAll()
		},
	}
	fullscreen := &cobra.Command{
		Use:   "fullscreen [ID]",
		Short: "Show a window fullscreen; without ID, exit fullscreen",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id := ""
			if len(args) == 1 {
				id = args[0]
			}
			return a.client().SetFullscreen(id)
		},
	}

	cmd.AddCommand(add, remove, clearCmd, fullscreen)
	return cmd
}
