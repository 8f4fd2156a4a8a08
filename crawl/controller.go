// Package crawl drives the paginated, checkpointed collection loop: fetch a
// page, extract records, evaluate stop conditions, persist, advance. The
// same controller serves every site integration through the
// lawharvest.Site capability interface.
package crawl

import (
	"context"
	"log/slog"

	"github.com/ddobak/lawharvest"
)

// StopReason is the terminal state of one stream's crawl.
type StopReason string

// Terminal states.
const (
	StopNone             StopReason = ""
	StopMaxEmptyPages    StopReason = "max_empty_pages"
	StopEarly            StopReason = "early_stop"
	StopEndOffsetReached StopReason = "end_offset_reached"
	StopNoMoreData       StopReason = "no_more_data_single_page"
)

// Per-page failure reasons reported in outcomes.
const (
	ReasonRequestFailed  = "request_failed"
	ReasonExtractFailed  = "extract_failed"
	ReasonSaveFailed     = "save_failed"
	ReasonNoData         = "no_data"
	ReasonNoValidRecords = "no_valid_records"
	ReasonEarlyStop      = "early_stop"
)

// PageOutcome is the structured result of processing one page. Failures are
// captured here, never raised past the controller boundary.
type PageOutcome struct {
	Offset    int    `json:"offset"`
	Success   bool   `json:"success"`
	Reason    string `json:"reason,omitempty"`
	Records   int    `json:"records"`
	Dropped   int    `json:"dropped,omitempty"`
	Key       string `json:"key,omitempty"`
	EarlyStop bool   `json:"earlyStop,omitempty"`
}

// StreamResult aggregates one stream's crawl.
type StreamResult struct {
	Stream         lawharvest.Stream
	PagesAttempted int
	FilesWritten   int
	RecordsWritten int
	StopReason     StopReason
	// Completed reports that the loop reached a terminal state rather than
	// being cut short by context cancellation. Watermarks are only advanced
	// for completed streams.
	Completed bool
	Pages     []PageOutcome
}

// Controller walks one stream's paged listing: fetch, extract, decide
// whether to stop, persist. Individual page failures are non-fatal; the loop
// terminates only on a stop condition or when the offset range is exhausted.
type Controller struct {
	Site       lawharvest.Site
	Sink       *Sink
	Watermarks lawharvest.WatermarkStore
	Detail     lawharvest.Detail
	// Incremental stops the stream at the first record older than its
	// watermark instead of collecting everything.
	Incremental bool
	Pacer       *Pacer
	Logger      *slog.Logger
}

// Run crawls one stream to completion. It never returns an error: every
// failure is recorded as a per-page outcome or a terminal stop reason.
func (c *Controller) Run(ctx context.Context, stream lawharvest.Stream) *StreamResult {
	logger := c.logger().With("site", c.Site.Name(), "stream", stream.Key)
	res := &StreamResult{Stream: stream}

	watermark := c.readWatermark(ctx, logger, stream)

	pageSize := c.Site.PageSize()
	threshold := c.Site.EmptyThreshold()
	singlePage := stream.EndOffset == nil
	end := stream.End(pageSize)

	empties := 0
	fileIndex := 0

	for offset := stream.StartOffset; offset < end; offset += pageSize {
		if err := c.Pacer.Wait(ctx); err != nil {
			return res
		}
		res.PagesAttempted++
		outcome := PageOutcome{Offset: offset}

		page, failReason := c.fetchPage(ctx, stream, offset)
		if page == nil {
			outcome.Reason = failReason
			res.Pages = append(res.Pages, outcome)
			logger.Warn("page failed", "offset", offset, "reason", failReason)
			continue
		}

		if !page.HasListing {
			empties++
			outcome.Reason = ReasonNoData
			res.Pages = append(res.Pages, outcome)
			logger.Info("no data", "offset", offset, "consecutive_empty", empties)
			if singlePage {
				res.StopReason = StopNoMoreData
				break
			}
			if empties >= threshold {
				res.StopReason = StopMaxEmptyPages
				break
			}
			continue
		}
		empties = 0
		outcome.Dropped = page.Dropped

		// The stop-check inspects raw record timestamps, before projection.
		kept, earlyStop := filterNew(page.Records, watermark)
		outcome.EarlyStop = earlyStop

		if len(kept) == 0 {
			if earlyStop {
				outcome.Reason = ReasonEarlyStop
			} else {
				outcome.Reason = ReasonNoValidRecords
			}
			res.Pages = append(res.Pages, outcome)
		} else {
			projected := make([]lawharvest.Record, 0, len(kept))
			for _, rec := range kept {
				projected = append(projected, rec.Project(c.Detail))
			}
			file := &PageFile{
				Stream:       stream.Key,
				Offset:       offset,
				Detail:       c.Detail,
				TotalFetched: len(projected),
				Records:      projected,
			}
			key, err := c.Sink.WritePage(ctx, stream.Key, fileIndex, file)
			if err != nil {
				outcome.Reason = ReasonSaveFailed
				res.Pages = append(res.Pages, outcome)
				logger.Warn("page save failed", "offset", offset, "error", err)
			} else {
				fileIndex++
				outcome.Success = true
				outcome.Records = len(projected)
				outcome.Key = key
				res.Pages = append(res.Pages, outcome)
				res.FilesWritten++
				res.RecordsWritten += len(projected)
				logger.Info("page saved", "offset", offset, "records", len(projected), "key", key)
			}
		}

		if earlyStop {
			res.StopReason = StopEarly
			logger.Info("early stop triggered", "offset", offset)
			break
		}
	}

	if res.StopReason == StopNone {
		res.StopReason = StopEndOffsetReached
	}
	res.Completed = ctx.Err() == nil
	return res
}

// fetchPage performs one fetch+extract round trip. An extraction error is
// treated like a transport failure for that page.
func (c *Controller) fetchPage(ctx context.Context, stream lawharvest.Stream, offset int) (*lawharvest.PageData, string) {
	raw, err := c.Site.FetchPage(ctx, stream, offset)
	if err != nil {
		return nil, ReasonRequestFailed
	}
	page, err := c.Site.ExtractPage(stream, raw)
	if err != nil {
		return nil, ReasonExtractFailed
	}
	return page, ""
}

func (c *Controller) readWatermark(ctx context.Context, logger *slog.Logger, stream lawharvest.Stream) string {
	if !c.Incremental || c.Watermarks == nil {
		return ""
	}
	ts, err := c.Watermarks.Read(ctx, stream.Key)
	if err != nil {
		if lawharvest.ErrorCode(err) == lawharvest.ENOTFOUND {
			logger.Info("no previous crawl watermark, processing all records")
		} else {
			logger.Warn("watermark read failed, processing all records", "error", err)
		}
		return ""
	}
	logger.Info("processing records updated after watermark only", "watermark", ts)
	return ts
}

func (c *Controller) logger() *slog.Logger {
	if c.Logger != nil {
		return c.Logger
	}
	return slog.Default()
}

// filterNew returns the prefix of records preceding the first one older than
// the watermark, and whether such a cut happened. An empty watermark keeps
// everything.
func filterNew(records []lawharvest.Record, watermark string) ([]lawharvest.Record, bool) {
	if watermark == "" {
		return records, false
	}
	for i, rec := range records {
		if ShouldStop(rec.UpdatedAt, watermark) {
			return records[:i], true
		}
	}
	return records, false
}
