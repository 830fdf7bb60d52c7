// Package sink emits an extraction result, one address per line.
package sink

import (
	"bufio"
	"fmt"
	"io"
	"os"

	"github.com/hyperifyio/emailextract/internal/aggregate"
	"github.com/hyperifyio/emailextract/internal/source"
)

// WriteLines writes each address followed by a newline, in set order.
func WriteLines(w io.Writer, emails *aggregate.Set) error {
	bw := bufio.NewWriter(w)
	for _, e := range emails.Items() {
		if _, err := bw.WriteString(e + "\n"); err != nil {
			return err
		}
	}
	return bw.Flush()
}

// WriteFile creates or truncates path and writes the addresses to it.
// Failures wrap source.ErrWriteFailed.
func WriteFile(path string, emails *aggregate.Set) (err error) {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("%w: %w", source.ErrWriteFailed, err)
	}
	defer func() {
		if cerr := f.Close(); cerr != nil && err == nil {
			err = fmt.Errorf("%w: %w", source.ErrWriteFailed, cerr)
		}
	}()
	if werr := WriteLines(f, emails); werr != nil {
		return fmt.Errorf("%w: %w", source.ErrWriteFailed, werr)
	}
	return nil
}
