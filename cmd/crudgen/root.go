// Package main provides the crudgen CLI tool.
//
// Overview:
//   - Responsibility: Parse the model name and flags, run the generator, report the outcome
//   - Key Types: Cobra root command
//   - Concurrency Model: Single-threaded CLI execution
//   - Error Semantics: Exit code 1 on missing name, invalid config or I/O failure
//   - Performance Notes: Fast startup, templates are embedded
//
// Usage:
//
//	crudgen <name> [--nest] [flags]
package main

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"strconv"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	"go.eggybyte.com/egg/crudgen/internal/catalog"
	"go.eggybyte.com/egg/crudgen/internal/configx"
	"go.eggybyte.com/egg/crudgen/internal/core/errors"
	"go.eggybyte.com/egg/crudgen/internal/core/log"
	"go.eggybyte.com/egg/crudgen/internal/generators"
	"go.eggybyte.com/egg/crudgen/internal/logx"
	"go.eggybyte.com/egg/crudgen/internal/projectfs"
	"go.eggybyte.com/egg/crudgen/internal/ui"
	"go.eggybyte.com/egg/crudgen/internal/version"
)

const usageExample = `❌ Please provide a model name. Example:
   crudgen User
   crudgen User --nest
`

// rootFlags holds the parsed command line flags.
type rootFlags struct {
	nest       bool
	dir        string
	dryRun     bool
	verbose    bool
	jsonOutput bool
}

// reportedError marks an error whose message was already shown to the user.
type reportedError struct {
	err error
}

func (e *reportedError) Error() string { return e.err.Error() }
func (e *reportedError) Unwrap() error { return e.err }

// NewRootCmd builds the crudgen root command.
//
// Parameters:
//   - getenv: Environment lookup used for configuration
//
// Returns:
//   - *cobra.Command: Root command writing to its configured out and err streams
func NewRootCmd(getenv func(string) string) *cobra.Command {
	var flags rootFlags

	cmd := &cobra.Command{
		Use:   "crudgen <name> [--nest]",
		Short: "Scaffold CRUD files for a model",
		Long: `Scaffold a CRUD backend for one model.

Two styles are available:
  • Minimal (default): an Express project with model, controller and routes
  • Modular (--nest): a NestJS module with DTO, model, service and controller

Existing files at the generated paths are overwritten.`,
		Example: `  crudgen User
  crudgen invoice --nest
  crudgen Order --dir ./api --dry-run`,
		Args:          cobra.MaximumNArgs(1),
		Version:       version.GetFullVersionInfo(),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runGenerate(cmd, args, flags, getenv)
		},
	}
	cmd.SetVersionTemplate(`{{.Version}}
`)
	// Any word is a model name, so no completion command is registered.
	cmd.CompletionOptions.DisableDefaultCmd = true

	cmd.Flags().BoolVar(&flags.nest, "nest", false, "Generate the modular (NestJS) style")
	cmd.Flags().StringVarP(&flags.dir, "dir", "C", "", "Target directory (default from CRUDGEN_DIR or \".\")")
	cmd.Flags().BoolVar(&flags.dryRun, "dry-run", false, "Show the files that would be generated without writing them")
	cmd.PersistentFlags().BoolVarP(&flags.verbose, "verbose", "V", false, "Enable verbose output")
	cmd.PersistentFlags().BoolVar(&flags.jsonOutput, "json", false, "Output in JSON format")

	return cmd
}

// Run executes the CLI with explicit process dependencies and returns the exit code.
//
// Parameters:
//   - ctx: Context for the run
//   - args: Command line arguments without the program name
//   - getenv: Environment lookup
//   - stdout: Standard output
//   - stderr: Standard error
//
// Returns:
//   - int: Process exit code
func Run(ctx context.Context, args []string, getenv func(string) string, stdout, stderr io.Writer) int {
	if args == nil {
		// cobra falls back to os.Args for nil
		args = []string{}
	}

	cmd := NewRootCmd(getenv)
	cmd.SetArgs(shieldName(cmd, args))
	cmd.SetOut(stdout)
	cmd.SetErr(stderr)

	err := cmd.ExecuteContext(ctx)
	if err == nil {
		return 0
	}

	var reported *reportedError
	if !errors.As(err, &reported) {
		ui.New(stdout, stderr).Error("Command failed: %v", err)
	}
	return 1
}

// shieldName moves a model name that cobra routes to its hidden shell
// completion commands behind "--", so it reaches RunE as a positional argument.
// Flags are skipped the way cobra skips them when it looks for a subcommand.
func shieldName(cmd *cobra.Command, args []string) []string {
	for i := 0; i < len(args); i++ {
		arg := args[i]
		switch {
		case arg == "--":
			return args
		case strings.HasPrefix(arg, "--"):
			if !strings.Contains(arg, "=") && flagTakesValue(cmd, arg[2:], false) {
				i++
			}
		case strings.HasPrefix(arg, "-") && len(arg) > 1:
			if len(arg) == 2 && flagTakesValue(cmd, arg[1:], true) {
				i++
			}
		default:
			if arg != cobra.ShellCompRequestCmd && arg != cobra.ShellCompNoDescRequestCmd {
				return args
			}
			shielded := make([]string, 0, len(args)+1)
			shielded = append(shielded, args[:i]...)
			shielded = append(shielded, args[i+1:]...)
			return append(shielded, "--", arg)
		}
	}
	return args
}

// flagTakesValue reports whether the flag consumes the next argument.
// Unknown flags are assumed to, as cobra does.
func flagTakesValue(cmd *cobra.Command, name string, short bool) bool {
	for _, set := range []*pflag.FlagSet{cmd.Flags(), cmd.PersistentFlags()} {
		f := set.Lookup(name)
		if short {
			f = set.ShorthandLookup(name)
		}
		if f != nil {
			return f.NoOptDefVal == ""
		}
	}
	return true
}

func runGenerate(cmd *cobra.Command, args []string, flags rootFlags, getenv func(string) string) error {
	stdout, stderr := cmd.OutOrStdout(), cmd.ErrOrStderr()
	out := ui.New(stdout, stderr, ui.WithVerbose(flags.verbose), ui.WithJSON(flags.jsonOutput))

	if len(args) == 0 || args[0] == "" {
		err := errors.New(errors.CodeInvalidInput, "missing required name")
		if out.JSON() {
			out.Report(ui.LevelError, map[string]string{"code": string(errors.CodeInvalidInput)}, "%s", usageExample)
		} else {
			fmt.Fprint(stdout, usageExample)
		}
		return &reportedError{err: err}
	}

	cfg, err := configx.Load(configx.LookupFunc(getenv))
	if err != nil {
		out.Error("Invalid configuration: %v", err)
		return &reportedError{err: err}
	}

	logger, err := newLogger(cfg, flags.verbose, stderr)
	if err != nil {
		out.Error("Invalid configuration: %v", err)
		return &reportedError{err: err}
	}

	dir := cfg.Dir
	if flags.dir != "" {
		dir = flags.dir
	}

	pfs := projectfs.NewProjectFS(dir,
		projectfs.WithLogger(logger),
		projectfs.WithModes(cfg.DirPerm(), cfg.FilePerm()),
	)
	gen := generators.NewGenerator(pfs, generators.WithLogger(logger))

	in := generators.Input{
		Name:   args[0],
		Style:  catalog.StyleFromFlag(flags.nest),
		DryRun: flags.dryRun,
	}
	out.Debug("Generating %s style into %s", in.Style, pfs.RootDir())

	result, err := gen.Generate(cmd.Context(), in)
	if err != nil {
		if result != nil && len(result.Files) > 0 {
			out.Warning("%d files were written before the failure", len(result.Files))
		}
		out.Error("%v", err)
		return &reportedError{err: err}
	}

	report(out, result)
	return nil
}

func newLogger(cfg *configx.Config, verbose bool, w io.Writer) (log.Logger, error) {
	level, err := logx.ParseLevel(cfg.LogLevel)
	if err != nil {
		return nil, errors.Wrap(errors.CodeInvalidInput, "config", err)
	}
	if verbose && level > slog.LevelDebug {
		level = slog.LevelDebug
	}
	return logx.New(
		logx.WithLevel(level),
		logx.WithColor(cfg.LogColor),
		logx.WithTimestamp(cfg.LogTimestamp),
		logx.WithWriter(w),
	), nil
}

func report(out *ui.UI, result *generators.Result) {
	for _, path := range result.Overwritten() {
		out.Debug("replacing %s", path)
	}

	if result.DryRun {
		fields := make([]ui.Field, 0, len(result.Files))
		for _, f := range result.Files {
			value := "new"
			if f.Overwritten {
				value = "overwrite"
			}
			fields = append(fields, ui.Field{Label: f.Path, Value: value})
		}
		out.Report(ui.LevelInfo, result, "Dry run: %s project structure for %q, nothing written", result.Framework, result.Name.Pascal)
		out.Fields(fields)
		return
	}

	if n := len(result.Overwritten()); n > 0 {
		out.Warning("Overwrote %d existing files", n)
	}
	out.Report(ui.LevelSuccess, result, "%s project structure and CRUD files for %q generated.", result.Framework, result.Name.Pascal)
	out.Fields([]ui.Field{
		{Label: "Framework", Value: result.Framework},
		{Label: "Files", Value: strconv.Itoa(len(result.Files))},
	})
}
