package lawharvest

import "context"

// WatermarkObject is the reserved object name holding a stream's last
// successful crawl start time. The "00_" prefix sorts before the numeric
// page files in the same namespace so listings discover it first.
const WatermarkObject = "00_last_crawl_start_time.txt"

// WatermarkStore reads and writes the per-stream crawl watermark: a single
// ISO-8601 timestamp recording when the stream's previous successful crawl
// began. Absence of a watermark means "process all data, no early stop."
type WatermarkStore interface {
	// Read returns the stream's watermark.
	// Returns ENOTFOUND if the stream has never been crawled.
	Read(ctx context.Context, streamKey string) (string, error)

	// Write unconditionally overwrites the stream's watermark.
	Write(ctx context.Context, streamKey, timestamp string) error
}
