// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package main is the entry point for the readtime CLI.
package main

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/pdiddy/readtime/internal/httputil"
	"github.com/pdiddy/readtime/internal/logger"
	"github.com/pdiddy/readtime/pkg/types"
)

// version is set at build time via ldflags.
var version = "dev"

// cfg holds the resolved configuration for the running command.
var cfg types.Config

// rootCmd is the base command for the readtime CLI.
var rootCmd = &cobra.Command{
	Use:   "readtime",
	Short: "Estimate how long documents take to read",
	Long: `readtime counts the words in plain text, HTML, or Markdown and divides
by a reading speed in words per minute, rounding up to whole minutes.

Use estimate for one-off inputs (text, files, stdin, or a URL). Use index
to keep a SQLite catalog of estimates for a documents directory, and
report or export to query it.`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		c, err := loadConfig(cmd)
		if err != nil {
			return err
		}
		cfg = c
		return nil
	},
}

func init() {
	rootCmd.PersistentFlags().String("config", "", "config file (default: ./readtime.yaml or ~/.config/readtime/readtime.yaml)")
	rootCmd.PersistentFlags().String("log-level", "", "log level: debug, info, warn, error (default info)")
	rootCmd.PersistentFlags().Bool("log-json", false, "write logs as JSON")
	rootCmd.PersistentFlags().String("catalog-dir", "catalog", "directory holding catalog.db and exports")
}

// setDefaults registers every config key so environment variables can
// override any of them.
func setDefaults(v *viper.Viper) {
	v.SetDefault("estimate.wpm", types.DefaultRate)
	v.SetDefault("estimate.format", "")
	v.SetDefault("http.timeout", "30s")
	v.SetDefault("http.user_agent", "readtime/"+version)
	v.SetDefault("http.max_retries", 5)
	v.SetDefault("http.max_bytes", httputil.DefaultMaxBytes)
	v.SetDefault("catalog.dir", "catalog")
	v.SetDefault("catalog.docs_dir", "docs")
	v.SetDefault("catalog.max_results", 50)
	v.SetDefault("log.level", "info")
	v.SetDefault("log.json", false)
}

// loadConfig resolves configuration from defaults, .env, the config file,
// READTIME_* environment variables, and the global flags, in increasing
// precedence. It also initializes the logger.
func loadConfig(cmd *cobra.Command) (types.Config, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return types.Config{}, fmt.Errorf("loading .env: %w", err)
	}

	v := viper.New()
	setDefaults(v)

	cfgFile, _ := cmd.Flags().GetString("config")
	if cfgFile != "" {
		v.SetConfigFile(cfgFile)
	} else {
		v.SetConfigName("readtime")
		v.SetConfigType("yaml")
		v.AddConfigPath(".")

		home, err := os.UserHomeDir()
		if err == nil {
			v.AddConfigPath(filepath.Join(home, ".config", "readtime"))
		}
	}

	v.SetEnvPrefix("READTIME")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if cfgFile != "" || !errors.As(err, &notFound) {
			return types.Config{}, fmt.Errorf("reading config: %w", err)
		}
	}

	if cmd.Flags().Changed("log-level") {
		level, _ := cmd.Flags().GetString("log-level")
		v.Set("log.level", level)
	}
	if cmd.Flags().Changed("log-json") {
		jsonLogs, _ := cmd.Flags().GetBool("log-json")
		v.Set("log.json", jsonLogs)
	}

	var c types.Config
	if err := v.Unmarshal(&c); err != nil {
		return types.Config{}, fmt.Errorf("decoding config: %w", err)
	}

	logger.Init(c.Log.Level, c.Log.JSON, cmd.ErrOrStderr())
	if used := v.ConfigFileUsed(); used != "" {
		logger.Global().Debug().Str("file", used).Msg("using config file")
	}
	return c, nil
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
