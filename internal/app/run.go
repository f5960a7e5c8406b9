package app

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"slices"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/vk/semgraft/internal/conllu"
	"github.com/vk/semgraft/internal/ctxlog"
	"github.com/vk/semgraft/internal/rewrite"
	"github.com/vk/semgraft/internal/semgraph"
)

// batchPerWorker bounds how many sentences are held in memory per worker.
const batchPerWorker = 32

// Run reads sentences from the configured input, or from in when no input
// path is set, rewrites them with every compiled pattern and writes the
// results in input order.
func (app *App) Run(ctx context.Context, in io.Reader) error {
	ctx = ctxlog.WithLogger(ctx, app.logger)
	app.ctx = ctx
	logger := app.logger
	logger.Debug("App.Run method started.")

	app.healthCheckServer()
	defer app.closeHealthCheckServer()

	input, err := app.openInput(in)
	if err != nil {
		return err
	}
	defer input.Close()

	patterns := app.registry.Patterns()
	if len(patterns) == 0 {
		logger.Warn("No rules loaded, sentences will pass through unchanged.")
	}
	logger.Info("🚀 Starting rewrite run...", "rules", len(patterns), "mode", app.config.Mode, "workers", app.config.WorkerCount)

	reader := newSentenceReader(app.config.InputFormat, input)
	writer := newSentenceWriter(app.config.OutputFormat, app.outW)
	start := time.Now()
	var sentences, results int

	batchSize := app.config.WorkerCount * batchPerWorker
	for {
		batch, readErr := readBatch(reader, batchSize)
		if len(batch) > 0 {
			out, err := app.processBatch(ctx, patterns, sentences, batch)
			if err != nil {
				return err
			}
			for _, group := range out {
				for _, s := range group {
					if err := writer.Write(s); err != nil {
						return fmt.Errorf("failed to write result: %w", err)
					}
					results++
					app.metrics.Results.Inc()
				}
			}
			sentences += len(batch)
		}
		if errors.Is(readErr, io.EOF) {
			break
		}
		if readErr != nil {
			return fmt.Errorf("failed to read sentence %d: %w", sentences+len(batch)+1, readErr)
		}
	}
	if err := writer.Flush(); err != nil {
		return fmt.Errorf("failed to write results: %w", err)
	}

	logger.Info("🏁 Rewrite run finished.", "sentences", sentences, "results", results, "elapsed", time.Since(start))
	return nil
}

func (app *App) openInput(in io.Reader) (io.ReadCloser, error) {
	if app.config.InputPath == "" || app.config.InputPath == "-" {
		return io.NopCloser(in), nil
	}
	f, err := os.Open(app.config.InputPath)
	if err != nil {
		return nil, fmt.Errorf("failed to open input: %w", err)
	}
	return f, nil
}

// readBatch reads up to n sentences. It returns the sentences read so far
// along with io.EOF or the first read error.
func readBatch(r sentenceReader, n int) ([]*conllu.Sentence, error) {
	var batch []*conllu.Sentence
	for len(batch) < n {
		s, err := r.Next()
		if err != nil {
			return batch, err
		}
		batch = append(batch, s)
	}
	return batch, nil
}

// processBatch rewrites the batch on up to WorkerCount goroutines. The result
// slice is parallel to batch. offset is the number of sentences before it.
func (app *App) processBatch(ctx context.Context, patterns []*rewrite.Pattern, offset int, batch []*conllu.Sentence) ([][]*conllu.Sentence, error) {
	out := make([][]*conllu.Sentence, len(batch))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(app.config.WorkerCount)
	for i, s := range batch {
		g.Go(func() error {
			res, err := app.process(gctx, patterns, offset+i+1, s)
			if err != nil {
				return err
			}
			out[i] = res
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return out, nil
}

// process rewrites one sentence according to the configured mode. A panic
// from an edit means the graph broke an invariant; it fails the sentence.
func (app *App) process(ctx context.Context, patterns []*rewrite.Pattern, n int, s *conllu.Sentence) (out []*conllu.Sentence, err error) {
	ctx, logger := ctxlog.With(ctx, "sentence", n)
	defer func() {
		if r := recover(); r != nil {
			app.metrics.Sentences.WithLabelValues("error").Inc()
			out, err = nil, fmt.Errorf("sentence %d: rewrite failed: %v", n, r)
		}
	}()
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	start := time.Now()
	var (
		graphs  []*semgraph.Graph
		changed bool
	)
	switch app.config.Mode {
	case ModeExpand:
		graphs = rewrite.Expand(ctx, patterns, s.Graph)
		changed = len(graphs) > 0
	case ModeExhaust:
		graphs = rewrite.Exhaust(ctx, patterns, s.Graph)
		changed = len(graphs) > 0
	default:
		g := s.Graph
		for _, p := range patterns {
			var c bool
			g, c = p.Iterate(ctx, g)
			changed = changed || c
		}
		graphs = []*semgraph.Graph{g}
	}
	app.metrics.SentenceSeconds.Observe(time.Since(start).Seconds())

	status := "unchanged"
	if changed {
		status = "changed"
	}
	app.metrics.Sentences.WithLabelValues(status).Inc()
	logger.Debug("Sentence rewritten.", "status", status, "results", len(graphs))

	for i, g := range graphs {
		comments := slices.Clone(s.Comments)
		if app.config.Mode != ModeIterate {
			comments = append(comments, fmt.Sprintf("rewrite = %d", i+1))
		}
		out = append(out, &conllu.Sentence{Comments: comments, Graph: g})
	}
	return out, nil
}
