//go:build windows

package ioctx

import (
	"context"
	"os"
	"path/filepath"
	"time"

	"golang.org/x/sync/errgroup"

	"snow/pkg/snowerr"
)

// sampleDelay is the time between the two stat samples used to detect an
// active writer on Windows, where there is no lsof equivalent.
const sampleDelay = 500 * time.Millisecond

// performWriteLockChecks implements the Windows branch: stat every path,
// wait sampleDelay, stat again. A size change at the same path indicates
// an active writer.
func performWriteLockChecks(ctx context.Context, dir string, relPaths []string) error {
	before := make([]int64, len(relPaths))
	g, gctx := errgroup.WithContext(ctx)
	for i := range relPaths {
		i := i
		g.Go(func() error {
			size, err := statSize(filepath.Join(dir, relPaths[i]))
			if err != nil {
				return err
			}
			before[i] = size
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return err
	}

	select {
	case <-time.After(sampleDelay):
	case <-gctx.Done():
		return gctx.Err()
	}

	var violations []*snowerr.Error
	g2, _ := errgroup.WithContext(ctx)
	results := make([]int64, len(relPaths))
	for i := range relPaths {
		i := i
		g2.Go(func() error {
			size, err := statSize(filepath.Join(dir, relPaths[i]))
			if err != nil {
				return err
			}
			results[i] = size
			return nil
		})
	}
	if err := g2.Wait(); err != nil {
		return err
	}

	for i := range relPaths {
		if results[i] != before[i] {
			violations = append(violations, &snowerr.Error{
				Kind: snowerr.FileWrittenByAnotherProcess,
				Op:   "performWriteLockChecks",
				Path: filepath.Join(dir, relPaths[i]),
			})
		}
	}

	if len(violations) == 0 {
		return nil
	}
	return &snowerr.WriteLockViolation{Errors: violations}
}

func statSize(path string) (int64, error) {
	info, err := os.Stat(path)
	if err != nil {
		return 0, snowerr.Wrap(snowerr.IoError, "statSize", path, err)
	}
	return info.Size(), nil
}
