package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/spf13/pflag"

	"github.com/hyperifyio/emailextract/internal/app"
)

const usage = `Usage: emailextract [flags] <source>

Extracts email addresses from a web page (http:// or https://), a file, or a
directory of files.

Examples:
  emailextract https://www.example.com
  emailextract my_document.txt
  emailextract ./my_directory -r -o output.txt

Flags:
`

func main() {
	// Logging setup
	zerolog.TimeFieldFormat = time.RFC3339
	log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.RFC3339})
	zerolog.SetGlobalLevel(zerolog.InfoLevel)

	// A missing .env is fine; variables may come from the shell.
	if err := app.LoadEnvFiles(".env"); err != nil {
		log.Warn().Err(err).Msg("ignoring .env")
	}

	cfg, showVersion, err := parseConfig(os.Args[1:], os.Stderr)
	if errors.Is(err, pflag.ErrHelp) {
		return
	}
	if err != nil {
		log.Error().Err(err).Msg("invalid arguments")
		return
	}
	if showVersion {
		fmt.Printf("emailextract %s (%s)\n", app.BuildVersion, app.BuildCommit)
		return
	}
	if cfg.Verbose {
		zerolog.SetGlobalLevel(zerolog.DebugLevel)
	}

	// Exit code policy: always zero. Every failure has already been logged
	// by the time run returns.
	if err := run(cfg); err != nil {
		log.Debug().Err(err).Msg("run finished with error")
	}
}

// parseConfig layers defaults, an optional config file, the environment and
// finally any flags given explicitly on the command line.
func parseConfig(args []string, stderr io.Writer) (app.Config, bool, error) {
	def := app.DefaultConfig()
	fs := pflag.NewFlagSet("emailextract", pflag.ContinueOnError)
	fs.SetOutput(stderr)
	fs.SortFlags = false
	fs.Usage = func() {
		fmt.Fprint(stderr, usage)
		fs.PrintDefaults()
	}

	var (
		flagCfg     = def
		configPath  string
		showVersion bool
	)
	fs.BoolVarP(&flagCfg.Recursive, "recursive", "r", def.Recursive, "Recursively search directories")
	fs.StringVarP(&flagCfg.OutputPath, "output", "o", "", "Output file to save the extracted email addresses")
	fs.StringVar(&configPath, "config", os.Getenv(app.EnvPrefix+"CONFIG"), "Path to a YAML or JSON config file")
	fs.DurationVar(&flagCfg.Timeout, "timeout", def.Timeout, "Bound on the whole HTTP request for URL sources")
	fs.StringVar(&flagCfg.UserAgent, "user-agent", "", "User-Agent header for URL sources (default: Go's)")
	fs.IntVar(&flagCfg.MaxRedirects, "max-redirects", def.MaxRedirects, "Redirects followed for URL sources")
	fs.StringVar(&flagCfg.Encoding, "encoding", def.Encoding, "Text encoding assumed for files (WHATWG label)")
	fs.IntVar(&flagCfg.Workers, "workers", def.Workers, "Files read concurrently during a directory walk")
	fs.StringVar(&flagCfg.OutputPDFPath, "output.pdf", "", "Also write the addresses as a PDF to this path")
	fs.StringVar(&flagCfg.CacheDir, "cache.dir", "", "Cache fetched pages in this directory (disabled when empty)")
	fs.DurationVar(&flagCfg.CacheMaxAge, "cache.maxAge", 0, "Purge cache entries older than this before the run; 0 disables")
	fs.BoolVar(&flagCfg.CacheClear, "cache.clear", false, "Clear the cache directory before the run")
	fs.BoolVar(&flagCfg.CacheStrictPerms, "cache.strictPerms", false, "Restrict cache permissions (0700 dirs, 0600 files)")
	fs.BoolVarP(&flagCfg.Verbose, "verbose", "v", false, "Verbose logging")
	fs.BoolVar(&showVersion, "version", false, "Print version and exit")

	if err := fs.Parse(args); err != nil {
		return app.Config{}, false, err
	}
	if showVersion {
		return app.Config{}, true, nil
	}
	switch fs.NArg() {
	case 0:
		fs.Usage()
		return app.Config{}, false, errors.New("source is required")
	case 1:
	default:
		return app.Config{}, false, fmt.Errorf("unexpected arguments: %v", fs.Args()[1:])
	}

	cfg := def
	if configPath != "" {
		fc, err := app.LoadConfigFile(configPath)
		if err != nil {
			return app.Config{}, false, fmt.Errorf("load config %s: %w", configPath, err)
		}
		app.ApplyFileConfig(&cfg, fc)
	}
	app.ApplyEnvOverrides(&cfg)
	fs.Visit(func(f *pflag.Flag) {
		switch f.Name {
		case "recursive":
			cfg.Recursive = flagCfg.Recursive
		case "output":
			cfg.OutputPath = flagCfg.OutputPath
		case "timeout":
			cfg.Timeout = flagCfg.Timeout
		case "user-agent":
			cfg.UserAgent = flagCfg.UserAgent
		case "max-redirects":
			cfg.MaxRedirects = flagCfg.MaxRedirects
		case "encoding":
			cfg.Encoding = flagCfg.Encoding
		case "workers":
			cfg.Workers = flagCfg.Workers
		case "output.pdf":
			cfg.OutputPDFPath = flagCfg.OutputPDFPath
		case "cache.dir":
			cfg.CacheDir = flagCfg.CacheDir
		case "cache.maxAge":
			cfg.CacheMaxAge = flagCfg.CacheMaxAge
		case "cache.clear":
			cfg.CacheClear = flagCfg.CacheClear
		case "cache.strictPerms":
			cfg.CacheStrictPerms = flagCfg.CacheStrictPerms
		case "verbose":
			cfg.Verbose = flagCfg.Verbose
		}
	})
	cfg.Source = fs.Arg(0)
	return cfg, false, nil
}

func run(cfg app.Config) error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	a, err := app.New(ctx, cfg)
	if err != nil {
		log.Error().Err(err).Msg("init failed")
		return fmt.Errorf("init app: %w", err)
	}
	defer a.Close()

	return a.Run(ctx)
}
