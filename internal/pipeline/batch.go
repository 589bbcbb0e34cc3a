package pipeline

import (
	"bytes"
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/dgallion1/markdoc/internal/parser"
	"github.com/dgallion1/markdoc/internal/render"
	"github.com/dgallion1/markdoc/internal/stats"
	"golang.org/x/sync/errgroup"
)

// Input is one document in a batch.
type Input struct {
	ID   string `json:"id,omitempty"`
	Text string `json:"text"`
}

// Result is the outcome for the Input at the same position.
type Result struct {
	ID     string `json:"id"`
	Hash   string `json:"hash"`
	Output string `json:"output"`
	Error  string `json:"error,omitempty"`
}

// Batch parses and renders many documents at once. Parsing shares no state
// between documents, so the only limit on parallelism is Concurrency.
type Batch struct {
	Renderer    render.Renderer
	Concurrency int
	Stats       *stats.LatencyStats // optional
	Log         *slog.Logger
}

// Run processes inputs and returns one Result per input, in input order.
// A document that fails to render carries its error in Result.Error; only
// cancellation of ctx fails the whole batch.
func (b *Batch) Run(ctx context.Context, inputs []Input) ([]Result, error) {
	log := b.Log
	if log == nil {
		log = slog.Default()
	}

	results := make([]Result, len(inputs))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(max(b.Concurrency, 1))

	for i, in := range inputs {
		if gctx.Err() != nil {
			break
		}
		i, in := i, in // per-iteration copies; go.mod targets go1.21 loop semantics
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			results[i] = b.process(in, log)
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, fmt.Errorf("run batch: %w", err)
	}
	if err := ctx.Err(); err != nil {
		return nil, fmt.Errorf("run batch: %w", err)
	}
	return results, nil
}

func (b *Batch) process(in Input, log *slog.Logger) Result {
	hash := ContentHashHex([]byte(in.Text))
	r := Result{ID: in.ID, Hash: hash}
	if r.ID == "" {
		r.ID = hash[:16]
	}

	start := time.Now()
	doc := parser.Parse(in.Text)
	if b.Stats != nil {
		b.Stats.Record(time.Since(start))
	}

	var buf bytes.Buffer
	if err := b.Renderer.Render(&buf, doc); err != nil {
		log.Warn("render failed", "id", r.ID, "error", err)
		r.Error = err.Error()
		return r
	}
	r.Output = buf.String()
	return r
}
