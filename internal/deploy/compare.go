package deploy

import (
	"context"
	"os"
	"path/filepath"

	"github.com/reviewapps-dev/railstasks/internal/tree"
)

// Pair is one artifact as it exists in the previous release and in the
// new one.
type Pair struct {
	Current string
	New     string
}

// pairs builds a Pair per relative path under current and path.
func pairs(current, path string, rel ...string) []Pair {
	result := make([]Pair, 0, len(rel))
	for _, r := range rel {
		result = append(result, Pair{
			Current: filepath.Join(current, r),
			New:     filepath.Join(path, r),
		})
	}
	return result
}

// changedPairs returns the pairs that differ. A pair whose current side
// does not exist is not compared.
func changedPairs(ctx context.Context, cmp tree.Comparer, ps []Pair) []Pair {
	var changed []Pair
	for _, p := range ps {
		if !exists(p.Current) {
			continue
		}
		if cmp.Differs(ctx, p.Current, p.New) {
			changed = append(changed, p)
		}
	}
	return changed
}

func exists(path string) bool {
	_, err := os.Stat(path)
	return err == nil
}
