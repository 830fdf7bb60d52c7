// Package textfile reads local files as text with permissive decoding.
package textfile

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strings"
	"unicode/utf8"

	"golang.org/x/text/encoding/htmlindex"
	"golang.org/x/text/runes"
	"golang.org/x/text/transform"

	"github.com/hyperifyio/emailextract/internal/source"
)

// DefaultEncoding is assumed when no encoding is configured.
const DefaultEncoding = "utf-8"

// Reader decodes file contents into UTF-8 text. Under UTF-8, ill-formed byte
// sequences are dropped. Under any other encoding the decoder substitutes
// unmappable bytes. Decoding never fails a read.
type Reader struct {
	name      string
	newDecode func() transform.Transformer
}

// NewReader returns a Reader for the given WHATWG encoding label. An empty
// label means UTF-8.
func NewReader(encoding string) (*Reader, error) {
	label := strings.ToLower(strings.TrimSpace(encoding))
	if label == "" {
		label = DefaultEncoding
	}
	if label == "utf-8" || label == "utf8" || label == "unicode-1-1-utf-8" {
		return &Reader{name: DefaultEncoding, newDecode: dropIllFormedUTF8}, nil
	}
	enc, err := htmlindex.Get(label)
	if err != nil {
		return nil, fmt.Errorf("unknown encoding %q: %w", encoding, err)
	}
	name, _ := htmlindex.Name(enc)
	if name == "utf-8" {
		return &Reader{name: DefaultEncoding, newDecode: dropIllFormedUTF8}, nil
	}
	return &Reader{name: name, newDecode: func() transform.Transformer { return enc.NewDecoder() }}, nil
}

// dropIllFormedUTF8 maps each ill-formed sequence to U+FFFD and then removes
// every U+FFFD, which also drops literal replacement characters.
func dropIllFormedUTF8() transform.Transformer {
	return transform.Chain(
		runes.ReplaceIllFormed(),
		runes.Remove(runes.Predicate(func(r rune) bool { return r == utf8.RuneError })),
	)
}

// Encoding returns the canonical encoding name in use.
func (r *Reader) Encoding() string { return r.name }

// Decode converts raw bytes to text.
func (r *Reader) Decode(b []byte) string {
	out, _, err := transform.Bytes(r.newDecode(), b)
	if err != nil {
		// The transformers in use substitute instead of failing; fall back to
		// the standard library's dropping behavior just in case.
		return strings.ToValidUTF8(string(b), "")
	}
	return string(out)
}

// ReadFile reads the whole file at path and returns it decoded. A missing file
// is reported as source.ErrFileNotFound, any other failure as
// source.ErrUnreadable; both wrap the underlying cause.
func (r *Reader) ReadFile(path string) (string, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return "", fmt.Errorf("%w: %s: %w", source.ErrFileNotFound, path, err)
		}
		return "", fmt.Errorf("%w: %s: %w", source.ErrUnreadable, path, err)
	}
	return r.Decode(b), nil
}
