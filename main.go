// Package main implements a CLI tool that bumps the version in a version file
// according to markers in the latest git commit message.
package main

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"

	"github.com/jedib0t/go-pretty/v6/text"
	"github.com/spf13/cobra"

	autoversion "github.com/bcomnes/autoversion/pkg"
)

const appName = "autoversion"

type globalFlags struct {
	configPath  string
	versionFile string
	identifier  string
	logLevel    string
}

func main() {
	if os.Getenv("NO_COLOR") != "" {
		text.DisableColors()
	}
	os.Exit(execute(os.Args[1:], os.Stdout, os.Stderr))
}

// execute runs the CLI and returns the process exit code.
func execute(args []string, stdout, stderr io.Writer) int {
	exitCode := autoversion.ExitChanged
	cmd := rootCmd(stdout, stderr, &exitCode)
	cmd.SetArgs(args)
	cmd.SetOut(stdout)
	cmd.SetErr(stderr)
	if err := cmd.Execute(); err != nil {
		fmt.Fprintln(stderr, "Error:", err)
		return autoversion.ExitFailed
	}
	return exitCode
}

func rootCmd(stdout, stderr io.Writer, exitCode *int) *cobra.Command {
	var (
		g       globalFlags
		message string
		bump    string
		dryRun  bool
		commit  bool
		tag     bool
	)

	cmd := &cobra.Command{
		Use:   appName,
		Short: "Bump a version file from commit message markers",
		Long: `Reads the version assigned in a version file (default: ./__version__.py,
override with $VERSION_FILE), looks at the latest commit message and bumps the version:

  [major]  1.2.3 -> 2.0.0
  [minor]  1.2.3 -> 1.3.0
  [patch]  1.2.3 -> 1.2.4   (also the default when no marker is present)

Commits created by autoversion itself ("chore: auto-increment version ...") are skipped
unless they carry an explicit marker.

Exit codes: 0 version changed, 2 nothing to do, 1 error.`,
		Example: `  autoversion
  autoversion --message "Add search [minor]"
  autoversion --commit --tag
  autoversion --dry --bump major`,
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			logger := newLogger(stderr, g.logLevel)
			cfg, err := loadConfig(cmd, g, logger)
			if err != nil {
				return err
			}
			if cmd.Flags().Changed("commit") {
				cfg.Commit = commit
			}
			if cmd.Flags().Changed("tag") {
				cfg.Tag = tag
			}

			store := autoversion.NewFileStore(*cfg, logger)
			opts := []autoversion.EngineOption{
				autoversion.WithLogger(logger),
				autoversion.WithDryRun(dryRun),
			}
			if bump != "" {
				class, err := autoversion.ParseIncrementClass(bump)
				if err != nil {
					return err
				}
				opts = append(opts, autoversion.WithForcedClass(class))
			}
			engine := autoversion.NewEngine(store, opts...)

			var src autoversion.CommitSource = autoversion.GitLog{}
			if cmd.Flags().Changed("message") {
				src = autoversion.StaticMessage(message)
			}

			ctx := cmd.Context()
			res := engine.RunFromSource(ctx, src)
			if res.Status == autoversion.Changed && !res.DryRun && (cfg.Commit || cfg.Tag) {
				err := autoversion.CommitVersion(ctx, "", store.Path(), res.New, autoversion.CommitOptions{Tag: cfg.Tag})
				if err != nil {
					res.Status = autoversion.Failed
					res.Err = err
				}
			}

			printSummary(stdout, res, store.Path())
			*exitCode = res.Status.ExitCode()
			return nil
		},
	}

	pf := cmd.PersistentFlags()
	pf.StringVarP(&g.configPath, "config", "c", "", "Config file path (YAML, default: nearest "+autoversion.ProjectConfigFile+")")
	pf.StringVar(&g.versionFile, "version-file", "", "Path to the file containing the version assignment (default "+autoversion.DefaultVersionFile+")")
	pf.StringVar(&g.identifier, "identifier", "", "Name the version is assigned to (default "+autoversion.DefaultIdentifier+")")
	pf.StringVar(&g.logLevel, "log-level", "warn", "Log level (debug, info, warn, error)")

	f := cmd.Flags()
	f.StringVarP(&message, "message", "m", "", "Use this commit message instead of reading it from git")
	f.StringVar(&bump, "bump", "", "Force the increment class (major, minor, patch)")
	f.BoolVar(&dryRun, "dry", false, "Compute the new version without writing it")
	f.BoolVar(&commit, "commit", false, "Commit the updated version file")
	f.BoolVar(&tag, "tag", false, "Commit and tag the updated version file with v<version>")

	cmd.AddCommand(initCmd(stdout, stderr, &g), showCmd(stdout, stderr, &g), versionCmd(stdout))
	return cmd
}

func initCmd(stdout, stderr io.Writer, g *globalFlags) *cobra.Command {
	var (
		force    bool
		initial  string
		workflow bool
	)

	cmd := &cobra.Command{
		Use:   "init",
		Short: "Install the GitHub Actions workflow and create the version file",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			logger := newLogger(stderr, g.logLevel)
			cfg, err := loadConfig(cmd, *g, logger)
			if err != nil {
				return err
			}
			start, err := autoversion.ParseVersion(initial)
			if err != nil {
				return err
			}

			fmt.Fprintln(stdout, "Setting up auto-versioning in this repository...")

			if workflow {
				path, err := autoversion.InstallWorkflow(".", force)
				switch {
				case errors.Is(err, autoversion.ErrWorkflowExists):
					fmt.Fprintf(stdout, "Workflow %s already exists, skipping (use --force to overwrite).\n", path)
				case err != nil:
					return err
				default:
					fmt.Fprintf(stdout, "Installed GitHub Actions workflow to %s\n", path)
				}
			}

			store := autoversion.NewFileStore(*cfg, logger)
			created, err := store.Init(start)
			if err != nil {
				return err
			}
			if created {
				fmt.Fprintf(stdout, "Created version file at %s with version %s\n", store.Path(), start)
			} else {
				fmt.Fprintf(stdout, "Version file already exists at %s\n", store.Path())
			}

			fmt.Fprintln(stdout, "\nNext steps:")
			fmt.Fprintf(stdout, "  git add %s %s\n", autoversion.WorkflowPath, store.Path())
			fmt.Fprintln(stdout, "  git commit -m 'Add auto-versioning setup [patch]'")
			return nil
		},
	}

	cmd.Flags().BoolVar(&force, "force", false, "Overwrite an existing workflow file")
	cmd.Flags().StringVar(&initial, "initial-version", "0.0.0", "Version written to a newly created version file")
	cmd.Flags().BoolVar(&workflow, "workflow", true, "Install the GitHub Actions workflow")
	return cmd
}

func showCmd(stdout, stderr io.Writer, g *globalFlags) *cobra.Command {
	return &cobra.Command{
		Use:   "show",
		Short: "Print the current version",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			logger := newLogger(stderr, g.logLevel)
			cfg, err := loadConfig(cmd, *g, logger)
			if err != nil {
				return err
			}
			fmt.Fprintln(stdout, autoversion.NewFileStore(*cfg, logger).Read())
			return nil
		},
	}
}

func versionCmd(stdout io.Writer) *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print version information",
		Args:  cobra.NoArgs,
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Fprintln(stdout, appName, "CLI version", Version)
		},
	}
}

// loadConfig layers CLI flags over the file and environment configuration.
func loadConfig(cmd *cobra.Command, g globalFlags, logger *slog.Logger) (*autoversion.Config, error) {
	cfg, err := autoversion.NewLoader(logger).Load(g.configPath)
	if err != nil {
		return nil, fmt.Errorf("load config: %w", err)
	}
	if cmd.Flags().Changed("version-file") {
		cfg.VersionFile = g.versionFile
	}
	if cmd.Flags().Changed("identifier") {
		cfg.Identifier = g.identifier
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}
	return cfg, nil
}

func newLogger(w io.Writer, level string) *slog.Logger {
	lvl := slog.LevelWarn
	switch strings.ToLower(level) {
	case "debug":
		lvl = slog.LevelDebug
	case "info":
		lvl = slog.LevelInfo
	case "error":
		lvl = slog.LevelError
	}
	return slog.New(slog.NewTextHandler(w, &slog.HandlerOptions{Level: lvl}))
}
