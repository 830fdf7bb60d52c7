package app

import (
	"time"

	"github.com/hyperifyio/emailextract/internal/fetch"
	"github.com/hyperifyio/emailextract/internal/textfile"
)

// Config holds runtime configuration for the application.
type Config struct {
	// Source is the URL, file path or directory path to scan.
	Source    string
	Recursive bool

	// Output
	OutputPath    string
	OutputPDFPath string

	// URL sources
	Timeout      time.Duration
	UserAgent    string
	MaxRedirects int

	// File sources
	Encoding string
	Workers  int

	// Cache for fetched pages; disabled when CacheDir is empty.
	CacheDir         string
	CacheMaxAge      time.Duration
	CacheClear       bool
	CacheStrictPerms bool

	Verbose bool
}

// DefaultConfig returns the configuration used when nothing else is set.
func DefaultConfig() Config {
	return Config{
		Timeout:      fetch.DefaultTimeout,
		MaxRedirects: fetch.DefaultRedirectMaxHops,
		Encoding:     textfile.DefaultEncoding,
		Workers:      1,
	}
}
