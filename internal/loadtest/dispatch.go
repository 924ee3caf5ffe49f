package loadtest

import (
	"context"
	"fmt"
	"time"

	"github.com/rs/zerolog"
	"golang.org/x/sync/errgroup"

	"github.com/gyeh/parseload/internal/model"
	"github.com/gyeh/parseload/internal/upload"
)

// Uploader sends one document to the parse service and returns the response
// body. *upload.Client satisfies it.
type Uploader interface {
	Upload(ctx context.Context, file model.InputFile) ([]byte, error)
}

// DispatchResult holds the outcomes and metrics of the dispatch phase.
type DispatchResult struct {
	Outcomes  []model.Outcome // same order as the dispatched files
	Succeeded int
	Failed    int
	Latency   *model.LatencyStats
	Duration  time.Duration
}

// Dispatch uploads every file concurrently, never holding more than
// limiter.Cap() requests in flight, and returns once every task has produced
// an outcome. Task failures are logged and recorded, never returned.
func Dispatch(ctx context.Context, up Uploader, limiter *upload.Limiter, files []model.InputFile, log zerolog.Logger) *DispatchResult {
	start := time.Now()
	outcomes := make([]model.Outcome, len(files))

	var g errgroup.Group
	for i, file := range files {
		i, file := i, file
		g.Go(func() error {
			outcomes[i] = runTask(ctx, up, limiter, file, log)
			return nil
		})
	}
	// Tasks never return errors; Wait is only the barrier.
	_ = g.Wait()

	res := &DispatchResult{
		Outcomes: outcomes,
		Latency:  latencyStats(outcomes),
		Duration: time.Since(start),
	}
	for _, o := range outcomes {
		if o.OK() {
			res.Succeeded++
		} else {
			res.Failed++
		}
	}

	log.Info().
		Int("files", len(files)).
		Int("succeeded", res.Succeeded).
		Int("failed", res.Failed).
		Int("max_concurrent", limiter.Cap()).
		Str("duration", res.Duration.String()).
		Float64("files_per_sec", perSecond(len(files), res.Duration)).
		Msg("dispatch complete")

	return res
}

// perSecond returns n per second of d, or 0 when d is not positive.
func perSecond(n int, d time.Duration) float64 {
	if d <= 0 {
		return 0
	}
	return float64(n) / d.Seconds()
}

// runTask performs one upload under a permit. It always returns an outcome.
func runTask(ctx context.Context, up Uploader, limiter *upload.Limiter, file model.InputFile, log zerolog.Logger) (out model.Outcome) {
	out.File = file
	defer func() {
		if r := recover(); r != nil {
			out.Body = nil
			out.Err = fmt.Errorf("upload panicked: %v", r)
			log.Error().Err(out.Err).Str("file", file.Name).Msg("upload failed")
		}
	}()

	if err := limiter.Acquire(ctx); err != nil {
		out.Err = err
		log.Error().Err(err).Str("file", file.Name).Msg("upload not started")
		return out
	}
	defer limiter.Release()

	start := time.Now()
	body, err := up.Upload(ctx, file)
	out.Latency = time.Since(start)
	if err != nil {
		out.Err = err
		log.Error().Err(err).Str("file", file.Name).Dur("latency", out.Latency).Msg("upload failed")
		return out
	}

	out.Body = body
	log.Info().Str("file", file.Name).Dur("latency", out.Latency).Msg("upload succeeded")
	return out
}

// latencyStats summarizes latency over every task that issued a request.
func latencyStats(outcomes []model.Outcome) *model.LatencyStats {
	var ls model.LatencyStats
	var total time.Duration
	for _, o := range outcomes {
		if o.Latency == 0 {
			continue
		}
		if ls.Count == 0 || o.Latency < ls.Min {
			ls.Min = o.Latency
		}
		if o.Latency > ls.Max {
			ls.Max = o.Latency
		}
		total += o.Latency
		ls.Count++
	}
	if ls.Count == 0 {
		return nil
	}
	ls.Mean = total / time.Duration(ls.Count)
	return &ls
}
