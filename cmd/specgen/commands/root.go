// Package commands implements the specgen command line.
package commands

import (
	"context"
	"fmt"
	"io"
	"os"
	"runtime"

	"github.com/fatih/color"
	"github.com/spf13/afero"
	"github.com/spf13/cobra"

	"github.com/syssam/specgen/compiler"
	"github.com/syssam/specgen/internal/config"
	"github.com/syssam/specgen/internal/debug"
)

// Version information (set at build time).
var (
	Version   = "dev"
	GitCommit = "unknown"
)

// flagKeys binds command line flags to configuration keys.
var flagKeys = map[string]string{
	"target":     config.KeyTargets,
	"go-package": config.KeyGoPackage,
	"workers":    config.KeyWorkers,
	"debug":      config.KeyDebug,
	"dsn":        config.KeyDSN,
	"dialect":    config.KeyDialect,
}

// app holds the state shared by the commands of one invocation.
type app struct {
	fs     afero.Fs
	loader *config.Loader
	cfg    *config.Config
}

// Execute runs the command line against the OS filesystem. Errors are
// printed in red on stderr.
func Execute(ctx context.Context) error {
	root := NewRootCommand(afero.NewOsFs(), config.NewLoader(nil))
	if err := root.ExecuteContext(ctx); err != nil {
		printError(os.Stderr, err)
		return err
	}
	return nil
}

// NewRootCommand creates the root command. Documents are read and
// artifacts written through fs; settings are resolved by loader.
func NewRootCommand(fs afero.Fs, loader *config.Loader) *cobra.Command {
	a := &app{fs: fs, loader: loader}
	root := &cobra.Command{
		Use:   "specgen",
		Short: "Compile OpenAPI documents into SQL and client hooks",
		Long: `specgen reads an OpenAPI document and generates:

- one CREATE TABLE file per entity schema
- one stored function stub per operation
- typed TanStack Query hooks and a types module`,
		Version:           fmt.Sprintf("%s (commit: %s)", Version, GitCommit),
		SilenceUsage:      true,
		SilenceErrors:     true,
		PersistentPreRunE: a.setup,
	}
	root.PersistentFlags().Bool("debug", false, "Enable debug logging")
	root.AddCommand(
		a.newGenerateCommand(),
		a.newInspectCommand(),
		a.newPlanCommand(),
		a.newApplyCommand(),
		newVersionCommand(),
	)
	return root
}

// setup binds the flags of the running command and resolves the settings.
func (a *app) setup(cmd *cobra.Command, _ []string) error {
	v := a.loader.Viper()
	for name, key := range flagKeys {
		if f := cmd.Flags().Lookup(name); f != nil {
			if err := v.BindPFlag(key, f); err != nil {
				return fmt.Errorf("bind flag %s: %w", name, err)
			}
		}
	}
	cfg, err := a.loader.Load()
	if err != nil {
		return err
	}
	debug.Init(cfg.Debug)
	a.cfg = cfg
	return nil
}

// compilerConfig returns the generation settings. The positional arguments
// are the input document and the output directory.
func (a *app) compilerConfig(args []string) (*compiler.Config, error) {
	cc := &compiler.Config{
		Input:     a.cfg.Input,
		Output:    a.cfg.Output,
		Workers:   a.cfg.Workers,
		Targets:   a.cfg.Targets,
		GoPackage: a.cfg.GoPackage,
		Fs:        a.fs,
	}
	if len(args) > 0 {
		cc.Input = args[0]
	}
	if len(args) > 1 {
		cc.Output = args[1]
	}
	if cc.Input == "" {
		return nil, fmt.Errorf("no input document: pass a path or set %q in %s.yaml", config.KeyInput, config.Name)
	}
	return cc, nil
}

func printError(w io.Writer, err error) {
	color.New(color.FgRed, color.Bold).Fprint(w, "Error: ")
	color.New(color.FgRed).Fprintln(w, err)
}

func newVersionCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print version information",
		Args:  cobra.NoArgs,
		Run: func(cmd *cobra.Command, _ []string) {
			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "specgen version %s\n", Version)
			fmt.Fprintf(out, "  Git Commit: %s\n", GitCommit)
			fmt.Fprintf(out, "  Go Version: %s\n", runtime.Version())
			fmt.Fprintf(out, "  OS/Arch: %s/%s\n", runtime.GOOS, runtime.GOARCH)
		},
	}
}
