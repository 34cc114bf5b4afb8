package app

import (
	"context"
	"os"
	"path/filepath"
	"runtime"

	"golang.org/x/sync/errgroup"

	"gobenford/domain/benford"
	"gobenford/domain/core"
)

// SubmitFiles analyses each file independently, at most concurrency at a
// time. Results keep the order of paths; a file that cannot be opened gets
// a Failure like any other bad input. The error is non-nil only when ctx
// is cancelled.
func (s *AnalysisService) SubmitFiles(ctx context.Context, paths []string, concurrency int) ([]*Submission, error) {
	if concurrency <= 0 {
		concurrency = runtime.NumCPU()
	}
	results := make([]*Submission, len(paths))

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(concurrency)

	for i, path := range paths {
		i, path := i, path
		g.Go(func() error {
			select {
			case <-ctx.Done():
				return ctx.Err()
			default:
			}
			results[i] = s.submitFile(ctx, path)
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return results, err
	}
	return results, nil
}

func (s *AnalysisService) submitFile(ctx context.Context, path string) *Submission {
	name := filepath.Base(path)
	f, err := os.Open(path)
	if err != nil {
		s.logger.Warn("cannot open %s: %v", path, err)
		return &Submission{
			ID:       core.NewAnalysisID(),
			Filename: name,
			Outcome:  benford.Failure{Message: "cannot open file: " + err.Error(), Err: err},
		}
	}
	defer f.Close()
	return s.Submit(ctx, name, f)
}
