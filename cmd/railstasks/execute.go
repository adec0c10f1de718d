package main

import (
	"context"
	"io"
	"os"

	"github.com/rs/zerolog"

	"github.com/reviewapps-dev/railstasks/internal/ansible"
	"github.com/reviewapps-dev/railstasks/internal/config"
	"github.com/reviewapps-dev/railstasks/internal/deploy"
	"github.com/reviewapps-dev/railstasks/internal/env"
	"github.com/reviewapps-dev/railstasks/internal/locate"
	"github.com/reviewapps-dev/railstasks/internal/logging"
	"github.com/reviewapps-dev/railstasks/internal/rake"
	"github.com/reviewapps-dev/railstasks/internal/tree"
)

// execute wires the components for one invocation and runs the
// requested steps. Child task output goes to taskOut so stdout stays
// reserved for the result.
func execute(ctx context.Context, cfg *config.Config, log zerolog.Logger, opts deploy.Options, taskOut io.Writer) ansible.Result {
	logger := logging.NewTaskLogger(log)

	home, err := os.UserHomeDir()
	if err != nil {
		home = ""
	}
	initFile := cfg.InitFilePath(home)
	if initFile == "" && cfg.Shell.InitFile != "" {
		logger.Warn("home directory unknown (%v), not loading %s", err, cfg.Shell.InitFile)
	}
	provider := &env.Cached{Provider: env.NewLoginShell(initFile, cfg.Shell.Shell)}

	runner := &rake.Runner{
		Finder:     locate.New(provider, cfg.Executables.PackageHomeVar),
		Logger:     logger,
		Dir:        opts.Path,
		RailsEnv:   opts.RailsEnv,
		Bundled:    opts.Bundled,
		CheckMode:  opts.CheckMode,
		BundleName: cfg.Executables.Bundle,
		RakeName:   cfg.Executables.Rake,
		Stdout:     taskOut,
		Stderr:     taskOut,
	}

	cmp := tree.NewShell(cfg.Tools.Diff, cfg.Tools.Copy, logger)

	report, err := deploy.NewPipeline(runner, cmp, logger).ForOptions(opts).Run(ctx, opts)
	return ansible.NewResult(report, err, logger.Lines())
}
