// Package slog provides logging decorators for the domain interfaces.
package slog

import (
	"context"
	"log/slog"
	"time"

	"github.com/ddobak/lawharvest"
)

// Ensure LoggingSite implements lawharvest.Site and passes logins through.
var _ lawharvest.Site = (*LoggingSite)(nil)
var _ lawharvest.Authenticator = (*LoggingSite)(nil)

// LoggingSite wraps a Site with request-level logging: fetch durations and
// sizes, extraction drops, login outcomes.
type LoggingSite struct {
	next   lawharvest.Site
	logger *slog.Logger
}

// NewLoggingSite creates a new LoggingSite.
func NewLoggingSite(next lawharvest.Site, logger *slog.Logger) *LoggingSite {
	return &LoggingSite{next: next, logger: logger}
}

// Name delegates to the wrapped site.
func (s *LoggingSite) Name() string { return s.next.Name() }

// Streams delegates to the wrapped site.
func (s *LoggingSite) Streams() []lawharvest.Stream { return s.next.Streams() }

// PageSize delegates to the wrapped site.
func (s *LoggingSite) PageSize() int { return s.next.PageSize() }

// EmptyThreshold delegates to the wrapped site.
func (s *LoggingSite) EmptyThreshold() int { return s.next.EmptyThreshold() }

// RequestInterval delegates to the wrapped site.
func (s *LoggingSite) RequestInterval() time.Duration { return s.next.RequestInterval() }

// FetchPage logs the page request with its duration and payload size.
func (s *LoggingSite) FetchPage(ctx context.Context, stream lawharvest.Stream, offset int) ([]byte, error) {
	begin := time.Now()
	raw, err := s.next.FetchPage(ctx, stream, offset)
	if err != nil {
		s.logger.Warn("page fetch failed",
			"site", s.next.Name(),
			"stream", stream.Key,
			"offset", offset,
			"duration", time.Since(begin),
			"err", err,
		)
		return nil, err
	}
	s.logger.Debug("page fetched",
		"site", s.next.Name(),
		"stream", stream.Key,
		"offset", offset,
		"bytes", len(raw),
		"duration", time.Since(begin),
	)
	return raw, nil
}

// ExtractPage logs dropped records after delegating.
func (s *LoggingSite) ExtractPage(stream lawharvest.Stream, raw []byte) (*lawharvest.PageData, error) {
	page, err := s.next.ExtractPage(stream, raw)
	if err != nil {
		return nil, err
	}
	if page.Dropped > 0 {
		s.logger.Warn("records dropped during extraction",
			"site", s.next.Name(),
			"stream", stream.Key,
			"dropped", page.Dropped,
		)
	}
	return page, nil
}

// Login delegates when the wrapped site authenticates; sites without a
// login succeed trivially so the decorator can wrap either kind.
func (s *LoggingSite) Login(ctx context.Context) error {
	auth, ok := s.next.(lawharvest.Authenticator)
	if !ok {
		return nil
	}
	begin := time.Now()
	err := auth.Login(ctx)
	if err != nil {
		s.logger.Error("login failed", "site", s.next.Name(), "err", err)
		return err
	}
	s.logger.Info("login succeeded", "site", s.next.Name(), "duration", time.Since(begin))
	return nil
}
