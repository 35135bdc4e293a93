// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package main is the entry point for the regdesk CLI. Each subcommand
// drives one backend workflow: literature and adverse-event search, CER
// generation, protocol optimization, endpoint recommendation, translation,
// the CSR library and site startup.
package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"path/filepath"
	"sort"
	"strings"
	"syscall"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/pdiddy/regdesk/internal/apperr"
	"github.com/pdiddy/regdesk/internal/logging"
	"github.com/pdiddy/regdesk/internal/secrets"
	"github.com/pdiddy/regdesk/pkg/types"
)

// version is set at build time via ldflags.
var version = "dev"

// loadedSecrets holds credentials loaded from the secrets directory at startup.
var loadedSecrets = secrets.Secrets{}

// logger is the process logger, configured in PersistentPreRunE.
var logger = logging.Discard()

// logCloser releases the log file, if any.
var logCloser io.Closer

// rootCmd is the base command for the regdesk CLI.
var rootCmd = &cobra.Command{
	Use:   "regdesk",
	Short: "Command-line workbench for the clinical-regulatory backend",
	Long: `regdesk drives the clinical-regulatory backend from the terminal. It
searches literature and adverse events, assembles selections into Clinical
Evaluation Reports, optimizes protocols, recommends endpoints, translates
documents, browses the CSR library and tracks site startup.

Log in once with "regdesk login"; the session is kept in a local SQLite file
and attached to every request until it expires.`,
	SilenceErrors: true,
	SilenceUsage:  true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig()
		if err != nil {
			return err
		}
		log, closer, err := logging.New(cfg.Log, cmd.ErrOrStderr())
		if err != nil {
			return err
		}
		logger, logCloser = log, closer

		s, err := secrets.Load(viper.GetString("secrets_dir"), logger)
		if err != nil {
			return err
		}
		loadedSecrets = s
		if len(s) > 0 {
			keys := make([]string, 0, len(s))
			for k := range s {
				keys = append(keys, k)
			}
			sort.Strings(keys)
			logger.WithField("keys", keys).Debug("loaded secrets")
		}
		return nil
	},
	PersistentPostRunE: func(cmd *cobra.Command, args []string) error {
		if logCloser != nil {
			return logCloser.Close()
		}
		return nil
	},
}

func init() {
	cobra.OnInitialize(initConfig)

	pf := rootCmd.PersistentFlags()
	pf.String("config", "", "config file (default: ./regdesk.yaml or ~/.config/regdesk/regdesk.yaml)")
	pf.String("base-url", "", "backend origin, e.g. https://app.example.com")
	pf.String("log-level", "", "log level (debug, info, warn, error)")
	pf.StringP("format", "o", "table", "output format: table, json or yaml")

	_ = viper.BindPFlag("gateway.base_url", pf.Lookup("base-url"))
	_ = viper.BindPFlag("log.level", pf.Lookup("log-level"))

	setDefaults()
}

func setDefaults() {
	viper.SetDefault("gateway.base_url", "http://localhost:8080")
	viper.SetDefault("gateway.timeout", 60*time.Second)
	viper.SetDefault("gateway.user_agent", "regdesk/"+version)
	viper.SetDefault("gateway.requests_per_second", 5.0)
	viper.SetDefault("gateway.burst", 2)
	viper.SetDefault("gateway.max_rate_limit_retries", 0)
	viper.SetDefault("session.path", defaultSessionPath())
	viper.SetDefault("session.ttl", 12*time.Hour)
	viper.SetDefault("log.level", "warn")
	viper.SetDefault("log.file", "")
	viper.SetDefault("secrets_dir", secrets.DefaultDir)
}

func configDir() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ".regdesk"
	}
	return filepath.Join(home, ".config", "regdesk")
}

func defaultSessionPath() string {
	return filepath.Join(configDir(), "session.db")
}

func initConfig() {
	cfgFile, _ := rootCmd.PersistentFlags().GetString("config")
	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else {
		viper.SetConfigName("regdesk")
		viper.SetConfigType("yaml")
		viper.AddConfigPath(".")
		viper.AddConfigPath(configDir())
	}

	viper.SetEnvPrefix("REGDESK")
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	viper.AutomaticEnv()

	if err := viper.ReadInConfig(); err == nil {
		fmt.Fprintln(os.Stderr, "Using config file:", viper.ConfigFileUsed())
	}
}

// loadConfig decodes the merged viper settings.
func loadConfig() (types.WorkbenchConfig, error) {
	var cfg types.WorkbenchConfig
	if err := viper.Unmarshal(&cfg); err != nil {
		return cfg, fmt.Errorf("decoding configuration: %w", err)
	}
	return cfg, nil
}

// exitCode maps an error to the process exit status.
func exitCode(err error) int {
	switch apperr.KindOf(err) {
	case apperr.KindValidation:
		return 2
	case apperr.KindNetwork:
		return 3
	case apperr.KindServer:
		return 4
	default:
		return 1
	}
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := rootCmd.ExecuteContext(ctx); err != nil {
		if errors.Is(err, context.Canceled) {
			fmt.Fprintln(os.Stderr, "Interrupted.")
			os.Exit(130)
		}
		fmt.Fprintln(os.Stderr, "Error:", apperr.UserMessage(err))
		logger.WithError(err).WithField("kind", apperr.KindOf(err)).Debug("command failed")
		os.Exit(exitCode(err))
	}
}

// entry returns a logger scoped to a subcommand.
func entry(cmd *cobra.Command) logrus.FieldLogger {
	return logger.WithField("cmd", cmd.CommandPath())
}
