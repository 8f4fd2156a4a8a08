package crawl

import (
	"context"
	"path"
	"strings"
	"time"

	"github.com/ddobak/lawharvest"
)

// KST is the fixed offset the source systems write watermarks in.
var KST = time.FixedZone("KST", 9*60*60)

// Timestamp formats t as a crawl-run watermark value.
func Timestamp(t time.Time) string {
	return t.In(KST).Format("2006-01-02T15:04:05.000000-07:00")
}

// ShouldStop reports whether a record updated at itemTime predates the
// watermark. Record timestamps are UTC with a "Z" suffix; watermarks carry a
// +09:00 offset, assumed when none is present. The offset convention is
// fixed, not configurable per site. Unparseable values never trigger a stop.
func ShouldStop(itemTime, watermark string) bool {
	if itemTime == "" || watermark == "" {
		return false
	}

	item, err := time.Parse(time.RFC3339, itemTime)
	if err != nil {
		return false
	}

	wm := watermark
	if !strings.Contains(wm, "+") && !strings.Contains(wm, "Z") {
		wm += "+09:00"
	}
	wm = strings.Replace(wm, "Z", "+09:00", 1)
	mark, err := time.Parse(time.RFC3339, wm)
	if err != nil {
		return false
	}

	return item.Before(mark)
}

// Ensure watermarkStore implements lawharvest.WatermarkStore at compile time.
var _ lawharvest.WatermarkStore = (*watermarkStore)(nil)

// watermarkStore keeps each stream's watermark as a small text object inside
// the stream's storage namespace, under a name that sorts before the
// sequential page files.
type watermarkStore struct {
	store lawharvest.ObjectStore
}

// NewWatermarkStore returns a WatermarkStore layered over store.
func NewWatermarkStore(store lawharvest.ObjectStore) lawharvest.WatermarkStore {
	return &watermarkStore{store: store}
}

func (s *watermarkStore) Read(ctx context.Context, streamKey string) (string, error) {
	data, err := s.store.Get(ctx, path.Join(streamKey, lawharvest.WatermarkObject))
	if err != nil {
		return "", err
	}
	return strings.TrimSpace(string(data)), nil
}

func (s *watermarkStore) Write(ctx context.Context, streamKey, timestamp string) error {
	return s.store.Put(ctx, path.Join(streamKey, lawharvest.WatermarkObject), []byte(timestamp))
}
