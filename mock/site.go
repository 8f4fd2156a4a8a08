// Package mock provides function-field mock implementations of the domain
// interfaces for use in tests.
package mock

import (
	"context"
	"time"

	"github.com/ddobak/lawharvest"
)

var _ lawharvest.Site = (*Site)(nil)

// Site is a mock implementation of lawharvest.Site. Scalar capabilities fall
// back to sensible defaults when their function field is nil.
type Site struct {
	NameFn            func() string
	StreamsFn         func() []lawharvest.Stream
	PageSizeFn        func() int
	EmptyThresholdFn  func() int
	RequestIntervalFn func() time.Duration
	FetchPageFn       func(ctx context.Context, stream lawharvest.Stream, offset int) ([]byte, error)
	ExtractPageFn     func(stream lawharvest.Stream, raw []byte) (*lawharvest.PageData, error)
}

func (s *Site) Name() string {
	if s.NameFn == nil {
		return "mock"
	}
	return s.NameFn()
}

func (s *Site) Streams() []lawharvest.Stream {
	if s.StreamsFn == nil {
		return nil
	}
	return s.StreamsFn()
}

func (s *Site) PageSize() int {
	if s.PageSizeFn == nil {
		return 10
	}
	return s.PageSizeFn()
}

func (s *Site) EmptyThreshold() int {
	if s.EmptyThresholdFn == nil {
		return 3
	}
	return s.EmptyThresholdFn()
}

func (s *Site) RequestInterval() time.Duration {
	if s.RequestIntervalFn == nil {
		return 0
	}
	return s.RequestIntervalFn()
}

func (s *Site) FetchPage(ctx context.Context, stream lawharvest.Stream, offset int) ([]byte, error) {
	return s.FetchPageFn(ctx, stream, offset)
}

func (s *Site) ExtractPage(stream lawharvest.Stream, raw []byte) (*lawharvest.PageData, error) {
	return s.ExtractPageFn(stream, raw)
}

var _ lawharvest.Site = (*AuthSite)(nil)
var _ lawharvest.Authenticator = (*AuthSite)(nil)

// AuthSite is a mock Site that also requires a login.
type AuthSite struct {
	Site
	LoginFn func(ctx context.Context) error
}

func (s *AuthSite) Login(ctx context.Context) error {
	return s.LoginFn(ctx)
}
