package crawl

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/ddobak/lawharvest"
	"github.com/google/uuid"
)

// RunResult aggregates one crawl run across all of a site's streams.
type RunResult struct {
	RunID          string
	StartedAt      string
	FilesWritten   int
	RecordsWritten int
	Streams        []*StreamResult
}

// Orchestrator iterates the pagination controller over a site's streams.
// It captures the single run-start timestamp reused as the watermark value
// for every stream updated during the run.
type Orchestrator struct {
	Site  lawharvest.Site
	Store lawharvest.ObjectStore

	// Fallback, when set, is the secondary store pages fall back to when
	// the primary store fails. Per-site policy, usually nil.
	Fallback lawharvest.ObjectStore

	// Watermarks enables the incremental protocol. When nil, streams are
	// always crawled in full and no watermark is written.
	Watermarks lawharvest.WatermarkStore

	Detail      lawharvest.Detail
	Incremental bool
	Logger      *slog.Logger

	// Now is overridable for tests. Defaults to time.Now.
	Now func() time.Time
}

// Run executes the crawl. The returned error is fatal setup failure only
// (authentication); per-page and per-stream problems are reported inside the
// result and never abort the run.
func (o *Orchestrator) Run(ctx context.Context) (*RunResult, error) {
	run := &RunResult{
		RunID:     uuid.NewString(),
		StartedAt: Timestamp(o.now()),
	}
	logger := o.logger().With("run_id", run.RunID, "site", o.Site.Name())
	logger.Info("crawl run started", "started_at", run.StartedAt, "detail", o.Detail, "incremental", o.Incremental)

	if auth, ok := o.Site.(lawharvest.Authenticator); ok {
		if err := auth.Login(ctx); err != nil {
			return nil, fmt.Errorf("login %s: %w", o.Site.Name(), err)
		}
		logger.Info("session established")
	}

	ctrl := &Controller{
		Site:        o.Site,
		Sink:        &Sink{Store: o.Store, Fallback: o.Fallback, Now: o.Now},
		Watermarks:  o.Watermarks,
		Detail:      o.Detail,
		Incremental: o.Incremental,
		Pacer:       NewPacer(o.Site.RequestInterval()),
		Logger:      logger,
	}

	for _, stream := range o.Site.Streams() {
		sr := ctrl.Run(ctx, stream)
		run.Streams = append(run.Streams, sr)
		run.FilesWritten += sr.FilesWritten
		run.RecordsWritten += sr.RecordsWritten
		logger.Info("stream finished",
			"stream", stream.Key,
			"pages", sr.PagesAttempted,
			"files", sr.FilesWritten,
			"records", sr.RecordsWritten,
			"stop", sr.StopReason,
		)

		if o.Incremental && o.Watermarks != nil && sr.Completed {
			if err := o.Watermarks.Write(ctx, stream.Key, run.StartedAt); err != nil {
				logger.Warn("watermark write failed", "stream", stream.Key, "error", err)
			} else {
				logger.Info("watermark updated", "stream", stream.Key, "watermark", run.StartedAt)
			}
		}
	}

	logger.Info("crawl run finished", "files", run.FilesWritten, "records", run.RecordsWritten)
	return run, nil
}

func (o *Orchestrator) now() time.Time {
	if o.Now != nil {
		return o.Now()
	}
	return time.Now()
}

func (o *Orchestrator) logger() *slog.Logger {
	if o.Logger != nil {
		return o.Logger
	}
	return slog.Default()
}
