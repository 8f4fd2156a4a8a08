package main

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"text/tabwriter"

	"github.com/alecthomas/kong"

	"github.com/ddobak/lawharvest"
	"github.com/ddobak/lawharvest/caselaw"
	"github.com/ddobak/lawharvest/config"
	"github.com/ddobak/lawharvest/crawl"
	"github.com/ddobak/lawharvest/easylaw"
	"github.com/ddobak/lawharvest/fs"
	"github.com/ddobak/lawharvest/lawtalk"
	"github.com/ddobak/lawharvest/s3"
	lhslog "github.com/ddobak/lawharvest/slog"
)

// Run executes the CLI with the given arguments.
func Run(ctx context.Context, args []string, stdout, stderr io.Writer) error {
	deps := &Dependencies{
		Ctx:    ctx,
		Stdout: stdout,
		Stderr: stderr,
	}

	cli := &CLI{}
	parser, err := kong.New(cli,
		kong.Name("lawharvest"),
		kong.Description("Collects Korean legal Q&A and precedent records."),
		kong.Writers(stdout, stderr),
		kong.Exit(func(int) {}), // Don't exit on help
		kong.Bind(deps),
	)
	if err != nil {
		return fmt.Errorf("failed to create parser: %w", err)
	}

	if len(args) == 0 {
		_, _ = parser.Parse([]string{"--help"})
		return fmt.Errorf("no command specified. Run 'lawharvest --help' to see available commands")
	}

	kongCtx, err := parser.Parse(args)
	if err != nil {
		return err
	}
	return kongCtx.Run(deps)
}

// Run executes the crawl for one site.
func (c *RunCmd) Run(deps *Dependencies) error {
	cfg, err := config.Load(c.Config)
	if err != nil {
		return fmt.Errorf("load configuration %q: %w", c.Config, err)
	}

	logger := newLogger(cfg.Logging, deps.Stderr)
	slog.SetDefault(logger)

	site, localFallback, err := buildSite(c.Site, cfg)
	if err != nil {
		return err
	}

	detail := lawharvest.DetailSimple
	if c.Detail == "detail" {
		detail = lawharvest.DetailFull
	}

	var store, fallback lawharvest.ObjectStore
	var watermarks lawharvest.WatermarkStore
	switch c.Dest {
	case "s3":
		s3store, err := s3.NewStore(deps.Ctx, s3.Options{
			Bucket:  cfg.S3.Bucket,
			Region:  cfg.S3.Region,
			Profile: cfg.S3.Profile,
		})
		if err != nil {
			return err
		}
		store = s3store
		// The incremental protocol needs durable watermarks shared across
		// runs; the bucket is the only place every run can see.
		watermarks = crawl.NewWatermarkStore(s3store)
		if localFallback {
			fallback = fs.NewStore(cfg.DataDir)
		}
	default:
		store = fs.NewStore(cfg.DataDir)
	}

	o := &crawl.Orchestrator{
		Site:        lhslog.NewLoggingSite(site, logger),
		Store:       store,
		Fallback:    fallback,
		Watermarks:  watermarks,
		Detail:      detail,
		Incremental: c.Scope == "new",
		Logger:      logger,
	}
	run, err := o.Run(deps.Ctx)
	if err != nil {
		return err
	}

	printSummary(deps.Stdout, run)
	return nil
}

// buildSite constructs the requested site integration from the
// configuration. The second result reports whether the site wants a local
// fallback when the remote store rejects a page.
func buildSite(name string, cfg *config.Config) (lawharvest.Site, bool, error) {
	switch name {
	case "lawtalk":
		return lawtalk.New(lawtalk.Options{
			BaseURL:           cfg.Lawtalk.BaseURL,
			Username:          cfg.Lawtalk.Username,
			Password:          cfg.Lawtalk.Password,
			QnaStartOffset:    cfg.Lawtalk.QnaStartOffset,
			QnaEndOffset:      cfg.Lawtalk.QnaEndOffset,
			SolvedStartOffset: cfg.Lawtalk.SolvedStartOffset,
			SolvedEndOffset:   cfg.Lawtalk.SolvedEndOffset,
			SolvedCategories:  cfg.Lawtalk.SolvedCategories,
			GuideStartOffset:  cfg.Lawtalk.GuideStartOffset,
			GuideEndOffset:    cfg.Lawtalk.GuideEndOffset,
			GuideCategories:   cfg.Lawtalk.GuideCategories,
			Interval:          config.Duration(cfg.Lawtalk.Interval, 0),
		}), false, nil
	case "easylaw":
		return easylaw.New(easylaw.Options{
			BaseURL:       cfg.Easylaw.BaseURL,
			StartPage:     cfg.Easylaw.StartPage,
			MaxPages:      cfg.Easylaw.MaxPages,
			MaxEmptyPages: cfg.Easylaw.MaxEmptyPages,
			Categories:    cfg.Easylaw.Categories,
			Interval:      config.Duration(cfg.Easylaw.Interval, 0),
			Timeout:       config.Duration(cfg.Easylaw.Timeout, 0),
		}), cfg.Easylaw.LocalFallback, nil
	case "caselaw":
		return caselaw.New(caselaw.Options{
			BaseURL:  cfg.Caselaw.BaseURL,
			OC:       cfg.Caselaw.OC,
			Keywords: cfg.Caselaw.Keywords,
			MaxPages: cfg.Caselaw.MaxPages,
			Interval: config.Duration(cfg.Caselaw.Interval, 0),
			Timeout:  config.Duration(cfg.Caselaw.Timeout, 0),
		}), false, nil
	default:
		return nil, false, lawharvest.Errorf(lawharvest.EINVALID,
			"Unknown site %q. Valid sites: lawtalk, easylaw, caselaw.", name)
	}
}

func newLogger(cfg config.LoggingConfig, w io.Writer) *slog.Logger {
	var level slog.Level
	switch cfg.Level {
	case "debug":
		level = slog.LevelDebug
	case "warn":
		level = slog.LevelWarn
	case "error":
		level = slog.LevelError
	default:
		level = slog.LevelInfo
	}
	opts := &slog.HandlerOptions{Level: level}
	if cfg.Format == "json" {
		return slog.New(slog.NewJSONHandler(w, opts))
	}
	return slog.New(slog.NewTextHandler(w, opts))
}

func printSummary(w io.Writer, run *crawl.RunResult) {
	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "STREAM\tPAGES\tFILES\tRECORDS\tSTOP")
	for _, sr := range run.Streams {
		fmt.Fprintf(tw, "%s\t%d\t%d\t%d\t%s\n",
			sr.Stream.Key, sr.PagesAttempted, sr.FilesWritten, sr.RecordsWritten, sr.StopReason)
	}
	fmt.Fprintf(tw, "TOTAL\t\t%d\t%d\t\n", run.FilesWritten, run.RecordsWritten)
	tw.Flush()
}
