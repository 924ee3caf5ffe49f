package main

import (
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	"github.com/gyeh/parseload/internal/config"
)

var (
	cfg        = config.Default()
	configPath string
)

var rootCmd = &cobra.Command{
	Use:               "parseload",
	Short:             "Load-test a document parse service with concurrent PDF uploads",
	Long:              "Uploads every PDF in a directory to a parse endpoint with bounded concurrency, stores the responses, and reports parsing statistics.",
	SilenceUsage:      true,
	PersistentPreRunE: loadConfigFile,
}

func init() {
	pf := rootCmd.PersistentFlags()
	pf.StringVar(&configPath, "config", "", "Optional YAML config file; explicit flags take precedence")
	pf.StringVar(&cfg.LogFormat, "log-format", cfg.LogFormat, "Log format: text or json")
	pf.StringVar(&cfg.LogLevel, "log-level", cfg.LogLevel, "Log level: debug, info, warn, error")
}

// loadConfigFile merges --config into cfg, then re-applies any flag set on
// the command line so flags win over the file.
func loadConfigFile(cmd *cobra.Command, args []string) error {
	if configPath == "" {
		return nil
	}
	changed := make(map[string]string)
	cmd.Flags().Visit(func(f *pflag.Flag) {
		changed[f.Name] = f.Value.String()
	})
	if err := cfg.LoadFromFile(configPath); err != nil {
		return err
	}
	for name, value := range changed {
		if err := cmd.Flags().Set(name, value); err != nil {
			return err
		}
	}
	return nil
}
