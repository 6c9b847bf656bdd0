package main

import (
	"fmt"
	"os"
	"runtime"

	"mini-render/internal/config"
	"mini-render/internal/logger"

	"github.com/spf13/cobra"
)

func init() {
	runtime.LockOSThread()
}

type options struct {
	configPath string
	debug      bool
	skybox     string
}

func newRootCommand() *cobra.Command {
	opts := &options{}
	cmd := &cobra.Command{
		Use:   "sceneviewer",
		Short: "Render a small lit scene with shadows, a skybox and transparency",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := loadConfig(opts.configPath)
			if err != nil {
				return err
			}
			if err := logger.Init(opts.debug, cfg.Debug.LogLevel); err != nil {
				return fmt.Errorf("could not initialize logger: %w", err)
			}
			defer logger.Sync()

			return run(cfg, opts)
		},
		SilenceUsage: true,
	}
	cmd.Flags().StringVarP(&opts.configPath, "config", "c", "", "TOML configuration file, reloaded on change")
	cmd.Flags().BoolVar(&opts.debug, "debug", false, "verbose development logging")
	cmd.Flags().StringVar(&opts.skybox, "skybox", "", "cubemap image in 4x3 horizontal cross layout")
	return cmd
}

func loadConfig(path string) (config.Config, error) {
	if path == "" {
		return config.Default(), nil
	}
	return config.Load(path)
}

func main() {
	if err := newRootCommand().Execute(); err != nil {
		os.Exit(1)
	}
}
