package stats

import (
	"context"
	"fmt"
	"io"
	"strings"

	"golang.org/x/sync/errgroup"

	"github.com/zurustar/ippcode/pkg/fileutil"
)

// Sink receives the rendered values of one request.
type Sink interface {
	Emit(file string, values []string) error
}

// FileSink writes each request to its file, replacing previous content.
type FileSink struct{}

// Emit creates (or truncates) file and writes the values in order.
func (FileSink) Emit(file string, values []string) (err error) {
	f, err := fileutil.CreateOutput(file)
	if err != nil {
		return err
	}
	defer func() {
		if cerr := f.Close(); cerr != nil && err == nil {
			err = fmt.Errorf("failed to close %s: %w", file, cerr)
		}
	}()

	if _, err := io.WriteString(f, strings.Join(values, "")); err != nil {
		return fmt.Errorf("failed to write %s: %w", file, err)
	}
	return nil
}

// Report renders every request and hands it to sink. Requests target
// distinct files and are emitted concurrently; the first failure cancels
// the remaining ones and is returned.
func Report(ctx context.Context, e *Engine, reqs []Request, sink Sink) error {
	g, ctx := errgroup.WithContext(ctx)

	for _, req := range reqs {
		req := req
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			if err := sink.Emit(req.File, e.Render(req)); err != nil {
				return fmt.Errorf("statistics %s: %w", req.File, err)
			}
			return nil
		})
	}

	return g.Wait()
}
