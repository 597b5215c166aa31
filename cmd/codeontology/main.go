// Package main provides the codeontology binary entry point.
// codeontology extracts a Web-of-Code knowledge graph from a resolved Java
// program model and its binary classpath.
package main

import (
	"fmt"
	"log/slog"
	"os"
	"runtime"
	"strings"

	"github.com/spf13/cobra"

	"github.com/c360studio/codeontology/config"
)

const (
	Version   = "0.1.0"
	BuildTime = "dev"
	appName   = "codeontology"
)

func main() {
	// Add panic recovery
	defer func() {
		if r := recover(); r != nil {
			buf := make([]byte, 4096)
			n := runtime.Stack(buf, false)
			_, _ = fmt.Fprintf(os.Stderr, "PANIC: %v\nStack trace:\n%s\n", r, string(buf[:n]))
			os.Exit(2)
		}
	}()

	if err := rootCmd().Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

// globalFlags are shared by every subcommand.
type globalFlags struct {
	configPath string
	logLevel   string
}

func rootCmd() *cobra.Command {
	g := &globalFlags{}

	cmd := &cobra.Command{
		Use:   appName,
		Short: "Java code knowledge graph extractor",
		Long: `codeontology turns a resolved Java program model into RDF triples
following the Web-of-Code ontology.

It provides:
- Extraction of packages, types, members, parameters and type expressions
- Binary introspection of classpath archives for referenced types
- N-Triples and Turtle output, a sqlite triple store and NATS publishing`,
		SilenceUsage: true,
	}

	cmd.PersistentFlags().StringVarP(&g.configPath, "config", "c", "", "Config file path (YAML)")
	cmd.PersistentFlags().StringVar(&g.logLevel, "log-level", "", "Log level (debug, info, warn, error)")

	cmd.AddCommand(
		extractCmd(g),
		watchCmd(g),
		queryCmd(g),
		vocabCmd(),
		initCmd(g),
		&cobra.Command{
			Use:   "version",
			Short: "Print version information",
			Run: func(cmd *cobra.Command, args []string) {
				fmt.Fprintf(cmd.OutOrStdout(), "%s version %s (build: %s)\n", appName, Version, BuildTime)
			},
		},
	)

	return cmd
}

// setup loads the layered configuration and configures logging. The
// --log-level flag wins over the configured level.
func setup(g *globalFlags) (*config.Config, *slog.Logger, error) {
	bootstrap := newLogger(g.logLevel)
	cfg, err := config.NewLoader(bootstrap).Load(g.configPath)
	if err != nil {
		return nil, nil, fmt.Errorf("load config: %w", err)
	}
	if g.logLevel != "" {
		cfg.Log.Level = g.logLevel
	}
	logger := newLogger(cfg.Log.Level)
	slog.SetDefault(logger)
	return cfg, logger, nil
}

func newLogger(level string) *slog.Logger {
	l := slog.LevelInfo
	switch strings.ToLower(level) {
	case "debug":
		l = slog.LevelDebug
	case "warn":
		l = slog.LevelWarn
	case "error":
		l = slog.LevelError
	}
	return slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: l}))
}

func initCmd(g *globalFlags) *cobra.Command {
	return &cobra.Command{
		Use:   "init",
		Short: "Create the user config file with defaults",
		RunE: func(cmd *cobra.Command, args []string) error {
			path, err := config.NewLoader(newLogger(g.logLevel)).EnsureUserConfig()
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), path)
			return nil
		},
	}
}
