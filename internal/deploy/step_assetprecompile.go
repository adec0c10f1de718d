package deploy

import (
	"context"
	"path/filepath"
)

const PrecompileTask = "assets:precompile"

var (
	compiledAssetsDir = filepath.Join("public", "assets")
	assetSources      = []string{
		filepath.Join("app", "assets"),
		filepath.Join("vendor", "assets"),
		"Gemfile.lock",
	}
)

// AssetPrecompileStep runs assets:precompile, or reuses the previous
// release's compiled assets when none of their sources changed.
type AssetPrecompileStep struct{}

func (s *AssetPrecompileStep) Name() string { return "asset-precompile" }

func (s *AssetPrecompileStep) Run(ctx context.Context, sctx *StepContext) (Status, error) {
	opts := sctx.Options
	if opts.CheckMode {
		sctx.Logger.Log("check mode: would run %s", PrecompileTask)
		return StatusCheck, nil
	}

	previous := filepath.Join(opts.Current, compiledAssetsDir)
	if opts.SkipHeuristics() && exists(previous) {
		changed := changedPairs(ctx, sctx.Tree, pairs(opts.Current, opts.Path, assetSources...))
		if len(changed) == 0 {
			target := filepath.Join(opts.Path, compiledAssetsDir)
			sctx.Logger.Log("assets unchanged. Copying %s to %s", previous, target)
			if err := sctx.Tree.CopyTree(ctx, previous, target); err != nil {
				return "", err
			}
			return StatusSkipped, nil
		}
		for _, p := range changed {
			sctx.Logger.Log("asset source changed: %s", p.New)
		}
	} else if opts.SkipHeuristics() {
		sctx.Logger.Log("no compiled assets in %s", opts.Current)
	}

	if _, err := sctx.Runner.Run(ctx, PrecompileTask); err != nil {
		return "", err
	}
	return StatusRan, nil
}
