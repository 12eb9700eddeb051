package main

import (
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"go.uber.org/zap/zapcore"

	"github.com/1broseidon/displaywall/internal/config"
	"github.com/1broseidon/displaywall/internal/ipc"
	"github.com/1broseidon/displaywall/internal/observability"
)

// Version is set at build time.
var Version = "dev"

// app carries the resolved global flags to the subcommands.
type app struct {
	v *viper.Viper
}

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		observability.Sync()
		os.Exit(1)
	}
	observability.Sync()
}

func newRootCmd() *cobra.Command {
	a := &app{v: viper.New()}

	root := &cobra.Command{
		Use:           "displaywall",
		Short:         "Window geometry engine for tiled display walls",
		Version:       Version,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return a.initialize(cmd)
		},
	}
	root.SetVersionTemplate(`{{printf "%s\n" .Version}}`)

	flags := root.PersistentFlags()
	flags.StringP("config", "c", "", "config file (default ~/.config/displaywall/config.yaml)")
	flags.String("socket", "", "daemon socket path (default $XDG_RUNTIME_DIR/displaywall.sock)")
	flags.String("log-level", "", "log level override (debug, info, warn, error)")
	flags.String("log-format", "", "log format override (console, json)")
	for _, name := range []string{"config", "socket", "log-level", "log-format"} {
		_ = a.v.BindPFlag(name, flags.Lookup(name))
	}
	a.v.SetEnvPrefix("DISPLAYWALL")
	a.v.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	a.v.AutomaticEnv()

	root.AddCommand(
		newDaemonCmd(a),
		newStatusCmd(a),
		newMonitorsCmd(a),
		newWindowCmd(a),
		newFocusCmd(a),
		newConfigCmd(a),
		newSessionCmd(a),
		newMCPCmd(a),
	)
	return root
}

// initialize sets up logging from the config file and the flag overrides.
// Logs go to stderr so stdout stays clean for command output and MCP.
func (a *app) initialize(cmd *cobra.Command) error {
	logCfg := config.DefaultConfig().Log
	if res, err := config.LoadFromPath(a.configPath()); err == nil {
		logCfg = res.Config.Log
	}
	if lvl := a.v.GetString("log-level"); lvl != "" {
		logCfg.Level = lvl
	}
	if f := a.v.GetString("log-format"); f != "" {
		logCfg.Format = f
	}
	observability.Initialize(logCfg, zapcore.Lock(os.Stderr))
	return nil
}

// configPath returns the --config flag, DISPLAYWALL_CONFIG, or the default path.
func (a *app) configPath() string {
	if p := a.v.GetString("config"); p != "" {
		return p
	}
	p, err := config.DefaultConfigPath()
	if err != nil {
		return ""
	}
	return p
}

func (a *app) loadConfig() (*config.LoadResult, error) {
	return config.LoadFromPath(a.configPath())
}

func (a *app) client() *ipc.Client {
	if p := a.v.GetString("socket"); p != "" {
		return ipc.NewClientForSocket(p)
	}
	return ipc.NewClient()
}
