package app

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/hyperifyio/emailextract/internal/aggregate"
	"github.com/hyperifyio/emailextract/internal/cache"
	"github.com/hyperifyio/emailextract/internal/extract"
	"github.com/hyperifyio/emailextract/internal/fetch"
	"github.com/hyperifyio/emailextract/internal/match"
	"github.com/hyperifyio/emailextract/internal/sink"
	"github.com/hyperifyio/emailextract/internal/source"
	"github.com/hyperifyio/emailextract/internal/textfile"
	"github.com/hyperifyio/emailextract/internal/walk"
)

type App struct {
	cfg     Config
	log     zerolog.Logger
	stdout  io.Writer
	runID   string
	fetcher *fetch.Client
	walker  *walk.Walker
}

// Option customizes an App at construction time.
type Option func(*App)

// WithLogger replaces the global logger. Tests pass zerolog.Nop().
func WithLogger(l zerolog.Logger) Option { return func(a *App) { a.log = l } }

// WithStdout redirects address output when no output file is configured.
func WithStdout(w io.Writer) Option { return func(a *App) { a.stdout = w } }

// WithHTTPClient replaces the HTTP client used for URL sources.
func WithHTTPClient(c *http.Client) Option { return func(a *App) { a.fetcher.HTTPClient = c } }

func New(ctx context.Context, cfg Config, opts ...Option) (*App, error) {
	if err := ValidateConfig(cfg); err != nil {
		return nil, err
	}
	reader, err := textfile.NewReader(cfg.Encoding)
	if err != nil {
		return nil, err
	}

	a := &App{
		cfg:    cfg,
		log:    log.Logger,
		stdout: os.Stdout,
		runID:  uuid.NewString(),
		fetcher: &fetch.Client{
			HTTPClient:      newHTTPClient(),
			UserAgent:       cfg.UserAgent,
			Timeout:         cfg.Timeout,
			RedirectMaxHops: cfg.MaxRedirects,
		},
	}
	for _, opt := range opts {
		opt(a)
	}
	a.log = a.log.With().Str("run", a.runID).Logger()
	a.walker = &walk.Walker{
		Reader:    reader,
		Recursive: cfg.Recursive,
		Workers:   cfg.Workers,
		Logger:    a.log,
	}

	if cfg.CacheDir != "" {
		// Cache maintenance is best-effort; a broken cache must not stop a run.
		if cfg.CacheClear {
			if err := cache.ClearDir(cfg.CacheDir); err != nil {
				a.log.Warn().Err(err).Str("dir", cfg.CacheDir).Msg("cache clear failed")
			}
		}
		if cfg.CacheMaxAge > 0 {
			if n, err := cache.PurgeByAge(cfg.CacheDir, cfg.CacheMaxAge); err != nil {
				a.log.Warn().Err(err).Str("dir", cfg.CacheDir).Msg("cache purge failed")
			} else if n > 0 {
				a.log.Debug().Int("removed", n).Msg("purged expired cache entries")
			}
		}
		a.fetcher.Cache = &cache.HTTPCache{Dir: cfg.CacheDir, StrictPerms: cfg.CacheStrictPerms}
	}
	return a, nil
}

func (a *App) Close() {
	// nothing yet
}

// RunID identifies this run in logs and reports.
func (a *App) RunID() string { return a.runID }

// Extract classifies the configured source and runs exactly one extraction
// branch. A nil set with a non-nil error means the source could not be read;
// an empty set with a nil error means it was read and held no addresses.
func (a *App) Extract(ctx context.Context) (*aggregate.Set, error) {
	src := a.cfg.Source
	kind := source.Classify(src)
	a.log.Debug().Str("source", src).Stringer("kind", kind).Msg("classified source")

	switch kind {
	case source.KindURL:
		return a.extractURL(ctx, src)
	case source.KindFile:
		return a.walker.ExtractFile(src)
	case source.KindDirectory:
		emails, stats, err := a.walker.Walk(ctx, src)
		if err != nil {
			return nil, err
		}
		a.log.Info().
			Int("files", stats.Visited).
			Int("failed", stats.Failed).
			Int("skipped", stats.Skipped).
			Bool("recursive", a.cfg.Recursive).
			Msg("directory scanned")
		return emails, nil
	case source.KindInvalid:
		a.log.Error().Str("source", src).Msg("invalid source provided, must be a URL, file, or directory")
		return nil, fmt.Errorf("%w: %q", source.ErrInvalidSource, src)
	}
	return nil, fmt.Errorf("unhandled source kind %s", kind)
}

func (a *App) extractURL(ctx context.Context, url string) (*aggregate.Set, error) {
	page, err := a.fetcher.Get(ctx, url)
	if err != nil {
		a.log.Error().Err(err).Str("url", url).Msg("error fetching URL")
		return nil, err
	}
	doc, err := extract.FromHTML(page.Body)
	if err != nil {
		a.log.Error().Err(err).Str("url", url).Msg("error processing URL")
		return nil, fmt.Errorf("%w: %w", source.ErrUnreachable, err)
	}
	a.log.Debug().Str("url", url).Str("title", doc.Title).Bool("cached", page.FromCache).Msg("page fetched")
	return match.Emails(doc.Text), nil
}

// Run extracts and then writes the result to the configured sink. Every
// failure is logged here before it is returned. When extraction fails nothing
// is written.
func (a *App) Run(ctx context.Context) error {
	emails, err := a.Extract(ctx)
	if err != nil {
		// Invalid sources were already reported by Extract.
		if !errors.Is(err, source.ErrInvalidSource) {
			a.log.Error().Msg("no emails extracted or an error occurred")
		}
		return err
	}

	if a.cfg.OutputPath != "" {
		if err := sink.WriteFile(a.cfg.OutputPath, emails); err != nil {
			a.log.Error().Err(err).Str("out", a.cfg.OutputPath).Msg("error saving emails to file")
			return err
		}
		a.log.Info().Str("out", a.cfg.OutputPath).Int("count", emails.Len()).Msg("extracted emails saved")
	} else if err := sink.WriteLines(a.stdout, emails); err != nil {
		a.log.Error().Err(err).Msg("error writing emails to stdout")
		return fmt.Errorf("%w: %w", source.ErrWriteFailed, err)
	}

	if a.cfg.OutputPDFPath != "" {
		report := sink.Report{Source: a.cfg.Source, RunID: a.runID, GeneratedAt: time.Now()}
		if err := sink.WritePDF(a.cfg.OutputPDFPath, emails, report); err != nil {
			a.log.Error().Err(err).Str("out", a.cfg.OutputPDFPath).Msg("error saving PDF")
			return err
		}
		a.log.Info().Str("out", a.cfg.OutputPDFPath).Msg("wrote PDF")
	}

	a.log.Info().Int("count", emails.Len()).Msg("email extraction complete")
	return nil
}
