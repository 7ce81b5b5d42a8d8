package commands

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/pterm/pterm"
	"github.com/spf13/cobra"

	"github.com/syssam/specgen/compiler"
	"github.com/syssam/specgen/internal/watch"
)

func (a *app) newGenerateCommand() *cobra.Command {
	var watchMode bool
	cmd := &cobra.Command{
		Use:   "generate [input] [output]",
		Short: "Generate SQL and client hooks from an OpenAPI document",
		Long: `Generate every artifact of an OpenAPI document below the output
directory (default ./generated):

  db/<Table>_table.sql
  db/<fn>_function.sql
  frontend/src/types.ts
  frontend/src/hooks/use<Fn>.ts
  frontend/src/hooks/index.ts
  go/<package>/models.go        (--target go)`,
		Args: cobra.MaximumNArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			cc, err := a.compilerConfig(args)
			if err != nil {
				return err
			}
			if watchMode {
				return a.watch(cmd.Context(), cc)
			}
			return a.generate(cmd.Context(), cc)
		},
	}
	cmd.Flags().StringSliceP("target", "t", nil, "Targets to generate: sql, hooks, go (default sql,hooks)")
	cmd.Flags().String("go-package", "", "Package name of the Go models (default models)")
	cmd.Flags().Int("workers", 0, "Parallel renders and writes (default GOMAXPROCS)")
	cmd.Flags().BoolVarP(&watchMode, "watch", "w", false, "Regenerate when the input document changes")
	return cmd
}

func (a *app) generate(ctx context.Context, cc *compiler.Config) error {
	spinner, _ := pterm.DefaultSpinner.Start("Generating from " + cc.Input)
	res, err := compiler.Generate(ctx, cc)
	if err != nil {
		if spinner != nil {
			spinner.Fail("Generation failed")
		}
		return err
	}
	if spinner != nil {
		spinner.Success(fmt.Sprintf("Generated %d artifacts in %s", len(res.Artifacts), cc.Output))
	}
	pterm.Info.Printfln("%d tables, %d functions, %d bytes written",
		len(res.Spec.Tables), len(res.Spec.Functions), res.Metrics.TotalBytes)
	return nil
}

// watch generates once, then again after every change of the input
// document, until SIGINT or SIGTERM.
func (a *app) watch(ctx context.Context, cc *compiler.Config) error {
	ctx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()
	if err := a.generate(ctx, cc); err != nil {
		printError(os.Stderr, err)
	}
	w, err := watch.New(cc.Input, func(ctx context.Context) error {
		pterm.Info.Printfln("%s changed, regenerating", cc.Input)
		return a.generate(ctx, cc)
	}, watch.WithErrorHandler(func(err error) { printError(os.Stderr, err) }))
	if err != nil {
		return err
	}
	pterm.Info.Printfln("Watching %s (Ctrl+C to stop)", w.File())
	return w.Run(ctx)
}
