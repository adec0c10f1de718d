package main

import (
	"context"
	"fmt"
	"io"

	"github.com/fatih/color"
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/reviewapps-dev/railstasks/internal/ansible"
	"github.com/reviewapps-dev/railstasks/internal/config"
	"github.com/reviewapps-dev/railstasks/internal/deploy"
	"github.com/reviewapps-dev/railstasks/internal/logging"
	"github.com/reviewapps-dev/railstasks/internal/version"
)

type cli struct {
	stdout io.Writer
	stderr io.Writer

	configPath string
	logLevel   string

	code int
}

func newCLI(stdout, stderr io.Writer) *cli {
	return &cli{stdout: stdout, stderr: stderr}
}

func (c *cli) execute(ctx context.Context, args []string) int {
	root := c.rootCmd()
	root.SetArgs(args)
	root.SetOut(c.stdout)
	root.SetErr(c.stderr)

	if err := root.ExecuteContext(ctx); err != nil {
		return 2
	}
	return c.code
}

func (c *cli) rootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:   "railstasks [args-file]",
		Short: "Run Rails migrations and asset precompilation for a release",
		Long: "railstasks runs db:migrate and assets:precompile in a freshly deployed Rails release,\n" +
			"skipping either when the previous release shows nothing relevant changed.\n\n" +
			"Given a single argument it behaves as an Ansible binary module: the argument is the\n" +
			"JSON arguments file and the result is printed as JSON on stdout.",
		Args:         cobra.MaximumNArgs(1),
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			if len(args) == 0 {
				return cmd.Help()
			}
			c.runModule(cmd.Context(), args[0])
			return nil
		},
	}

	root.PersistentFlags().StringVar(&c.configPath, "config", "", "path to config.toml (default $"+config.EnvVar+")")
	root.PersistentFlags().StringVar(&c.logLevel, "log-level", "", "log level: debug, info, warn, error")

	root.AddCommand(c.runCmd(), c.versionCmd())
	return root
}

func (c *cli) versionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print version information",
		Args:  cobra.NoArgs,
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Fprintln(c.stdout, version.String())
		},
	}
}

func (c *cli) runCmd() *cobra.Command {
	var (
		opts   deploy.Options
		asJSON bool
	)

	cmd := &cobra.Command{
		Use:   "run",
		Short: "Run the requested tasks for a release directory",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			params := ansible.Params{Path: opts.Path}
			if err := params.Validate(); err != nil {
				return err
			}

			cfg, log, err := c.setup()
			if err != nil {
				return err
			}

			res := execute(cmd.Context(), cfg, log, opts, c.stderr)
			c.code = res.ExitCode()

			if asJSON {
				return res.Write(c.stdout)
			}
			printSummary(c.stdout, res)
			return nil
		},
	}

	f := cmd.Flags()
	f.StringVar(&opts.Path, "path", "", "release directory to run tasks in (required)")
	f.StringVar(&opts.Current, "current", "", "previous release directory; enables skipping unchanged work")
	f.StringVar(&opts.RailsEnv, "rails-env", "", "RAILS_ENV for the tasks")
	f.BoolVar(&opts.Bundled, "bundled", false, "run tasks through bundle exec")
	f.BoolVar(&opts.Migrate, "migrate", false, "run db:migrate")
	f.BoolVar(&opts.Assets, "assets", false, "run assets:precompile")
	f.BoolVar(&opts.Force, "force", false, "always run, ignoring the previous release")
	f.BoolVar(&opts.CheckMode, "check", false, "report what would run without running it")
	f.BoolVar(&asJSON, "json", false, "print the result as JSON")
	_ = cmd.MarkFlagRequired("path")

	return cmd
}

// runModule implements the Ansible binary module contract: every outcome,
// including bad arguments, is reported as JSON on stdout.
func (c *cli) runModule(ctx context.Context, argsFile string) {
	var res ansible.Result

	params, err := ansible.LoadArgs(argsFile)
	if err != nil {
		res = ansible.Fail(err)
	} else if cfg, log, err := c.setup(); err != nil {
		res = ansible.Fail(err)
	} else {
		res = execute(ctx, cfg, log, params.Options(), c.stderr)
	}

	if err := res.Write(c.stdout); err != nil {
		fmt.Fprintf(c.stderr, "write result: %v\n", err)
		c.code = 1
		return
	}
	c.code = res.ExitCode()
}

func (c *cli) setup() (*config.Config, zerolog.Logger, error) {
	cfg, err := config.Load(c.configPath)
	if err != nil {
		return nil, zerolog.Nop(), err
	}
	level := cfg.Log.Level
	if c.logLevel != "" {
		level = c.logLevel
	}
	return cfg, logging.New(c.stderr, level), nil
}

func printSummary(w io.Writer, res ansible.Result) {
	for _, task := range res.Tasks {
		switch task.Status {
		case deploy.StatusRan:
			color.New(color.FgYellow).Fprintf(w, "changed: %s\n", task.Name)
		case deploy.StatusSkipped:
			color.New(color.FgGreen).Fprintf(w, "ok: %s (skipped, nothing changed)\n", task.Name)
		default:
			color.New(color.FgCyan).Fprintf(w, "check: %s\n", task.Name)
		}
	}

	if res.Failed {
		color.New(color.FgRed).Fprintf(w, "failed: %s\n", res.Msg)
		return
	}
	if res.Changed {
		color.New(color.FgYellow, color.Bold).Fprintln(w, "changed=true")
	} else {
		color.New(color.FgGreen, color.Bold).Fprintln(w, "changed=false")
	}
}
