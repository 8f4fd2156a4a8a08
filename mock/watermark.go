package mock

import (
	"context"

	"github.com/ddobak/lawharvest"
)

var _ lawharvest.WatermarkStore = (*WatermarkStore)(nil)

// WatermarkStore is a mock implementation of lawharvest.WatermarkStore.
type WatermarkStore struct {
	ReadFn  func(ctx context.Context, streamKey string) (string, error)
	WriteFn func(ctx context.Context, streamKey, timestamp string) error
}

func (s *WatermarkStore) Read(ctx context.Context, streamKey string) (string, error) {
	return s.ReadFn(ctx, streamKey)
}

func (s *WatermarkStore) Write(ctx context.Context, streamKey, timestamp string) error {
	return s.WriteFn(ctx, streamKey, timestamp)
}
