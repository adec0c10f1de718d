package deploy

import (
	"context"
	"path/filepath"
)

const MigrateTask = "db:migrate"

var schemaFiles = []string{
	filepath.Join("db", "schema.rb"),
	filepath.Join("db", "structure.sql"),
}

// MigrateStep runs db:migrate unless the schema of the previous release
// matches the new one.
type MigrateStep struct{}

func (s *MigrateStep) Name() string { return "migrate" }

func (s *MigrateStep) Run(ctx context.Context, sctx *StepContext) (Status, error) {
	opts := sctx.Options
	if opts.CheckMode {
		sctx.Logger.Log("check mode: would run %s", MigrateTask)
		return StatusCheck, nil
	}

	if opts.SkipHeuristics() {
		changed := changedPairs(ctx, sctx.Tree, pairs(opts.Current, opts.Path, schemaFiles...))
		if len(changed) == 0 {
			sctx.Logger.Log("DB schema unchanged. Skipping")
			return StatusSkipped, nil
		}
		for _, p := range changed {
			sctx.Logger.Log("schema changed: %s", p.New)
		}
	}

	if _, err := sctx.Runner.Run(ctx, MigrateTask); err != nil {
		return "", err
	}
	return StatusRan, nil
}
