// Package walk extracts addresses from single files and directory trees.
package walk

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sync"

	"github.com/rs/zerolog"

	"github.com/hyperifyio/emailextract/internal/aggregate"
	"github.com/hyperifyio/emailextract/internal/match"
	"github.com/hyperifyio/emailextract/internal/source"
	"github.com/hyperifyio/emailextract/internal/textfile"
)

// Walker reads files and merges the addresses they contain.
type Walker struct {
	Reader *textfile.Reader
	// Recursive descends into subdirectories to any depth.
	Recursive bool
	// Workers bounds concurrent file reads. Values below 2 read sequentially.
	Workers int
	Logger  zerolog.Logger
}

// Stats summarizes a directory walk.
type Stats struct {
	Visited int
	Failed  int
	Skipped int
}

// ExtractFile reads one file and returns the addresses found in it. Failures
// are logged here and returned; a missing file is source.ErrFileNotFound.
func (w *Walker) ExtractFile(path string) (*aggregate.Set, error) {
	text, err := w.Reader.ReadFile(path)
	if err != nil {
		if errors.Is(err, source.ErrFileNotFound) {
			w.Logger.Error().Str("path", path).Msg("file not found")
		} else {
			w.Logger.Error().Err(err).Str("path", path).Msg("error processing file")
		}
		return nil, err
	}
	found := match.Emails(text)
	w.Logger.Debug().Str("path", path).Int("emails", found.Len()).Msg("file scanned")
	return found, nil
}

// Walk extracts addresses from every file under root. Files that fail are
// logged and skipped. The walk itself fails only when root cannot be listed.
func (w *Walker) Walk(ctx context.Context, root string) (*aggregate.Set, Stats, error) {
	files, stats, err := w.collect(root)
	if err != nil {
		w.Logger.Error().Err(err).Str("path", root).Msg("error processing directory")
		return nil, stats, err
	}

	results := make([]*aggregate.Set, len(files))
	if w.Workers > 1 {
		err = w.readParallel(ctx, files, results)
	} else {
		err = w.readSequential(ctx, files, results)
	}
	if err != nil {
		return nil, stats, err
	}

	// Merge in enumeration order so output does not depend on scheduling.
	all := &aggregate.Set{}
	for _, r := range results {
		stats.Visited++
		if r == nil {
			stats.Failed++
			continue
		}
		all.Merge(r)
	}
	return all, stats, nil
}

func (w *Walker) readSequential(ctx context.Context, files []string, results []*aggregate.Set) error {
	for i, p := range files {
		if err := ctx.Err(); err != nil {
			return err
		}
		results[i], _ = w.ExtractFile(p)
	}
	return nil
}

func (w *Walker) readParallel(ctx context.Context, files []string, results []*aggregate.Set) error {
	sem := make(chan struct{}, w.Workers)
	var wg sync.WaitGroup
	for i, p := range files {
		if ctx.Err() != nil {
			break
		}
		sem <- struct{}{}
		wg.Add(1)
		go func(i int, p string) {
			defer wg.Done()
			defer func() { <-sem }()
			// Each goroutine owns results[i]; no lock needed.
			results[i], _ = w.ExtractFile(p)
		}(i, p)
	}
	wg.Wait()
	return ctx.Err()
}

// collect lists the files to visit in filepath.WalkDir order. Symlinks are
// read through but never descended; links to directories and special files
// such as FIFOs and sockets are skipped.
func (w *Walker) collect(root string) ([]string, Stats, error) {
	var (
		files []string
		stats Stats
	)
	// A trailing separator makes WalkDir follow a symlinked root.
	walkRoot := root
	if info, err := os.Lstat(root); err == nil && info.Mode()&fs.ModeSymlink != 0 {
		walkRoot = root + string(filepath.Separator)
	}
	err := filepath.WalkDir(walkRoot, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			if path == walkRoot {
				return fmt.Errorf("%w: %s: %w", source.ErrUnreadable, root, err)
			}
			w.Logger.Warn().Err(err).Str("path", path).Msg("skipping unreadable entry")
			if d != nil && d.IsDir() {
				return filepath.SkipDir
			}
			return nil
		}
		if d.IsDir() {
			if path != walkRoot && !w.Recursive {
				return filepath.SkipDir
			}
			return nil
		}
		mode := d.Type()
		if mode&fs.ModeSymlink != 0 {
			if info, serr := os.Stat(path); serr == nil && info.IsDir() {
				stats.Skipped++
				return nil
			}
			// Broken links are kept so the read failure gets reported.
			files = append(files, path)
			return nil
		}
		if !mode.IsRegular() {
			w.Logger.Debug().Str("path", path).Str("mode", mode.String()).Msg("skipping special file")
			stats.Skipped++
			return nil
		}
		files = append(files, path)
		return nil
	})
	return files, stats, err
}
