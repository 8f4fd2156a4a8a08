package crawl

import (
	"context"
	"encoding/json"
	"fmt"
	"path"
	"strings"
	"time"

	"github.com/ddobak/lawharvest"
)

// PageFile is the logical unit persisted for one page: the page's surviving
// records plus enough context to interpret them without the crawl run.
type PageFile struct {
	Stream       string              `json:"stream"`
	Offset       int                 `json:"offset"`
	Detail       lawharvest.Detail   `json:"detail"`
	TotalFetched int                 `json:"totalFetched"`
	Records      []lawharvest.Record `json:"records"`
}

// Sink persists page files to an ObjectStore under collision-safe keys.
// Page files are numbered sequentially in save order within a stream's
// namespace and grouped into a year bucket.
type Sink struct {
	Store lawharvest.ObjectStore

	// Fallback, when set, receives the page file if the primary store
	// fails. A per-site policy; most sites leave it nil.
	Fallback lawharvest.ObjectStore

	// Now is overridable for tests. Defaults to time.Now.
	Now func() time.Time
}

// WritePage persists one page file under the next collision-free key for
// fileIndex and returns the resolved key.
func (s *Sink) WritePage(ctx context.Context, streamKey string, fileIndex int, page *PageFile) (string, error) {
	data, err := json.MarshalIndent(page, "", "  ")
	if err != nil {
		return "", fmt.Errorf("encode page file: %w", err)
	}

	key := path.Join(streamKey, fmt.Sprintf("%d", s.now().Year()), fmt.Sprintf("%d.json", fileIndex))

	resolved, err := putUnique(ctx, s.Store, key, data)
	if err != nil && s.Fallback != nil {
		return putUnique(ctx, s.Fallback, key, data)
	}
	return resolved, err
}

func (s *Sink) now() time.Time {
	if s.Now != nil {
		return s.Now()
	}
	return time.Now()
}

func putUnique(ctx context.Context, store lawharvest.ObjectStore, key string, data []byte) (string, error) {
	resolved, err := UniqueKey(ctx, store, key)
	if err != nil {
		return "", err
	}
	if err := store.Put(ctx, resolved, data); err != nil {
		return "", err
	}
	return resolved, nil
}

// UniqueKey resolves key to one that does not yet exist in store by
// appending _2, _3, ... before the extension. This guarantees a new run
// never overwrites a prior run's output sharing the same file index.
func UniqueKey(ctx context.Context, store lawharvest.ObjectStore, key string) (string, error) {
	exists, err := store.Exists(ctx, key)
	if err != nil {
		return "", err
	}
	if !exists {
		return key, nil
	}

	ext := path.Ext(key)
	base := strings.TrimSuffix(key, ext)
	for n := 2; ; n++ {
		candidate := fmt.Sprintf("%s_%d%s", base, n, ext)
		exists, err := store.Exists(ctx, candidate)
		if err != nil {
			return "", err
		}
		if !exists {
			return candidate, nil
		}
	}
}
