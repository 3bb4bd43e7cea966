package checker

import (
	"context"
	"fmt"

	"github.com/ralt/unold/internal/report"
	"github.com/sirupsen/logrus"
	"golang.org/x/sync/errgroup"
)

// CheckFiles checks up to jobs files concurrently. Results are handed to the
// reporter in the order of paths as soon as every earlier file is done. It
// returns whether every file passed.
func (c *Checker) CheckFiles(ctx context.Context, paths []string, jobs int, reporter *report.Reporter) (bool, error) {
	if jobs < 1 {
		jobs = 1
	}

	results := make([]report.FileResult, len(paths))
	done := make([]chan struct{}, len(paths))
	for i := range done {
		done[i] = make(chan struct{})
	}

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(jobs)

	go func() {
		for i, path := range paths {
			i, path := i, path
			g.Go(func() error {
				defer close(done[i])

				if err := gctx.Err(); err != nil {
					results[i] = report.FileResult{Path: path}
					return nil
				}

				result, err := c.CheckFile(gctx, path)
				results[i] = result
				if err != nil {
					return fmt.Errorf("%s: %w", path, err)
				}
				return nil
			})
		}
	}()

	success := true
	var writeErr error
	for i := range paths {
		<-done[i]
		if !results[i].Success {
			success = false
		}
		if err := reporter.Write(results[i]); err != nil && writeErr == nil {
			writeErr = fmt.Errorf("failed to write diagnostics: %w", err)
		}
	}

	if err := g.Wait(); err != nil {
		return false, err
	}
	if writeErr != nil {
		return false, writeErr
	}

	logrus.Infof("Checked %d files", len(paths))
	return success, nil
}
