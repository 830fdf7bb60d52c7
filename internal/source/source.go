// Package source classifies the single input argument and defines the error
// kinds shared by every reader.
package source

import (
	"errors"
	"os"
	"strings"
)

// Kind is the classification of a source descriptor.
type Kind int

const (
	KindInvalid Kind = iota
	KindURL
	KindFile
	KindDirectory
)

func (k Kind) String() string {
	switch k {
	case KindURL:
		return "url"
	case KindFile:
		return "file"
	case KindDirectory:
		return "directory"
	default:
		return "invalid"
	}
}

var (
	// ErrUnreachable covers network failures, timeouts and non-success HTTP status.
	ErrUnreachable = errors.New("source unreachable")
	// ErrFileNotFound is returned when a file vanished before it could be opened.
	ErrFileNotFound = errors.New("file not found")
	// ErrUnreadable covers every other I/O failure on files and directories.
	ErrUnreadable = errors.New("source unreadable")
	// ErrInvalidSource means the descriptor is neither a URL, a file nor a directory.
	ErrInvalidSource = errors.New("invalid source provided, must be a URL, file, or directory")
	// ErrWriteFailed means the output destination could not be opened or written.
	ErrWriteFailed = errors.New("output write failed")
)

// IsURL reports whether s starts with an http or https scheme prefix.
// The check is case-sensitive, matching the literal prefixes.
func IsURL(s string) bool {
	return strings.HasPrefix(s, "http://") || strings.HasPrefix(s, "https://")
}

// Classify determines the kind of s. The first matching rule wins: URL prefix,
// then existing regular file, then existing directory. Symlinks are followed.
func Classify(s string) Kind {
	if IsURL(s) {
		return KindURL
	}
	if s == "" {
		return KindInvalid
	}
	info, err := os.Stat(s)
	if err != nil {
		return KindInvalid
	}
	switch {
	case info.Mode().IsRegular():
		return KindFile
	case info.IsDir():
		return KindDirectory
	}
	return KindInvalid
}
