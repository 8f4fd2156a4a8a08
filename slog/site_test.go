package slog_test

import (
	"bytes"
	"context"
	"errors"
	"log/slog"
	"testing"

	"github.com/ddobak/lawharvest"
	"github.com/ddobak/lawharvest/mock"
	lhslog "github.com/ddobak/lawharvest/slog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoggingSite_FetchPage(t *testing.T) {
	t.Parallel()

	t.Run("logs fetch with bytes and duration", func(t *testing.T) {
		t.Parallel()

		var buf bytes.Buffer
		logger := slog.New(slog.NewTextHandler(&buf, &slog.HandlerOptions{Level: slog.LevelDebug}))
		inner := &mock.Site{
			FetchPageFn: func(ctx context.Context, stream lawharvest.Stream, offset int) ([]byte, error) {
				return []byte(`{"questions":[]}`), nil
			},
		}

		site := lhslog.NewLoggingSite(inner, logger)
		raw, err := site.FetchPage(context.Background(), lawharvest.Stream{Key: "s"}, 20)

		require.NoError(t, err)
		assert.Equal(t, `{"questions":[]}`, string(raw))
		output := buf.String()
		assert.Contains(t, output, "page fetched")
		assert.Contains(t, output, "stream=s")
		assert.Contains(t, output, "offset=20")
		assert.Contains(t, output, "bytes=16")
		assert.Contains(t, output, "duration=")
	})

	t.Run("logs error on failure", func(t *testing.T) {
		t.Parallel()

		var buf bytes.Buffer
		logger := slog.New(slog.NewTextHandler(&buf, nil))
		inner := &mock.Site{
			FetchPageFn: func(ctx context.Context, stream lawharvest.Stream, offset int) ([]byte, error) {
				return nil, errors.New("network error")
			},
		}

		site := lhslog.NewLoggingSite(inner, logger)
		_, err := site.FetchPage(context.Background(), lawharvest.Stream{Key: "s"}, 0)

		require.Error(t, err)
		output := buf.String()
		assert.Contains(t, output, "page fetch failed")
		assert.Contains(t, output, "err=\"network error\"")
	})
}

func TestLoggingSite_ExtractPage(t *testing.T) {
	t.Parallel()

	t.Run("warns about dropped records", func(t *testing.T) {
		t.Parallel()

		var buf bytes.Buffer
		logger := slog.New(slog.NewTextHandler(&buf, nil))
		inner := &mock.Site{
			ExtractPageFn: func(stream lawharvest.Stream, raw []byte) (*lawharvest.PageData, error) {
				return &lawharvest.PageData{HasListing: true, Dropped: 3}, nil
			},
		}

		site := lhslog.NewLoggingSite(inner, logger)
		page, err := site.ExtractPage(lawharvest.Stream{Key: "s"}, nil)

		require.NoError(t, err)
		assert.Equal(t, 3, page.Dropped)
		assert.Contains(t, buf.String(), "records dropped during extraction")
		assert.Contains(t, buf.String(), "dropped=3")
	})

	t.Run("clean extraction stays quiet", func(t *testing.T) {
		t.Parallel()

		var buf bytes.Buffer
		logger := slog.New(slog.NewTextHandler(&buf, nil))
		inner := &mock.Site{
			ExtractPageFn: func(stream lawharvest.Stream, raw []byte) (*lawharvest.PageData, error) {
				return &lawharvest.PageData{HasListing: true}, nil
			},
		}

		site := lhslog.NewLoggingSite(inner, logger)
		_, err := site.ExtractPage(lawharvest.Stream{Key: "s"}, nil)

		require.NoError(t, err)
		assert.Empty(t, buf.String())
	})
}

func TestLoggingSite_Login(t *testing.T) {
	t.Parallel()

	t.Run("delegates to authenticating sites", func(t *testing.T) {
		t.Parallel()

		var buf bytes.Buffer
		logger := slog.New(slog.NewTextHandler(&buf, nil))
		var called bool
		inner := &mock.AuthSite{
			LoginFn: func(ctx context.Context) error {
				called = true
				return nil
			},
		}

		site := lhslog.NewLoggingSite(inner, logger)
		require.NoError(t, site.Login(context.Background()))
		assert.True(t, called)
		assert.Contains(t, buf.String(), "login succeeded")
	})

	t.Run("no-op for sites without a login", func(t *testing.T) {
		t.Parallel()

		var buf bytes.Buffer
		logger := slog.New(slog.NewTextHandler(&buf, nil))

		site := lhslog.NewLoggingSite(&mock.Site{}, logger)
		require.NoError(t, site.Login(context.Background()))
		assert.Empty(t, buf.String())
	})

	t.Run("logs and propagates failures", func(t *testing.T) {
		t.Parallel()

		var buf bytes.Buffer
		logger := slog.New(slog.NewTextHandler(&buf, nil))
		inner := &mock.AuthSite{
			LoginFn: func(ctx context.Context) error {
				return lawharvest.Errorf(lawharvest.EUNAUTHORIZED, "Login failed: session cookie not issued.")
			},
		}

		site := lhslog.NewLoggingSite(inner, logger)
		err := site.Login(context.Background())
		require.Error(t, err)
		assert.Equal(t, lawharvest.EUNAUTHORIZED, lawharvest.ErrorCode(err))
		assert.Contains(t, buf.String(), "login failed")
	})
}
