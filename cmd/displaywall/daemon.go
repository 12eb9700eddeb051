package main

import (
	"context"
	"fmt"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/1broseidon/displaywall/internal/daemon"
	"github.com/1broseidon/displaywall/internal/observability"
)

func newDaemonCmd(a *app) *cobra.Command {
	var (
		autosave time.Duration
		restore  bool
		noWatch  bool
	)
	cmd := &cobra.Command{
		Use:   "daemon",
		Short: "Run the wall daemon (foreground)",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, stop := runContext()
			defer stop()

			d, err := daemon.New(daemon.Options{
				ConfigPath: a.configPath(),
				SocketPath: a.v.GetString("socket"),
				Autosave:   autosave,
				Restore:    restore,
				Watch:      !noWatch,
			}, observability.Logger())
			if err != nil {
				return err
			}
			return d.Run(ctx)
		},
	}
	cmd.Flags().DurationVar(&autosave, "autosave", time.Minute, "session autosave interval (0 disables)")
	cmd.Flags().BoolVar(&restore, "restore", false, "restore the autosave session at start")
	cmd.Flags().BoolVar(&noWatch, "no-watch", false, "disable config hot reload")
	return cmd
}

func newStatusCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "status",
		Short: "Show daemon status",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			status, err := a.client().GetStatus()
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "wall:           %gx%g\n", status.Wall.W, status.Wall.H)
			fmt.Fprintf(out, "windows:        %d\n", status.Windows)
			fmt.Fprintf(out, "focused:        %d\n", status.Focused)
			fmt.Fprintf(out, "fullscreen:     %s\n", orNone(status.Fullscreen))
			fmt.Fprintf(out, "focus_layout:   %s\n", status.FocusLayout)
			fmt.Fprintf(out, "alpha_blending: %v\n", status.AlphaBlending)
			fmt.Fprintf(out, "uptime_seconds: %d\n", status.UptimeSeconds)
			return nil
		},
	}
}

func newMonitorsCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "monitors",
		Short: "List the monitors the daemon detected",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			data, err := a.client().GetMonitors()
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			if len(data.Monitors) == 0 {
				fmt.Fprintln(out, "no monitors (wall.detect_x11 is off)")
				return nil
			}
			for _, m := range data.Monitors {
				fmt.Fprintf(out, "%d %s %dx%d+%d+%d\n", m.ID, m.Name, m.Width, m.Height, m.X, m.Y)
			}
			return nil
		},
	}
}

func orNone(s string) string {
	if s == "" {
		return "none"
	}
	return s
}

// runContext returns a context cancelled on SIGINT or SIGTERM.
func runContext() (context.Context, context.CancelFunc) {
	return signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
}
