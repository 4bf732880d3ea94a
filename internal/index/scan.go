package index

import (
	"database/sql"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"sync"

	"github.com/llehouerou/cratedex/internal/meta"
)

const (
	numWorkers = 8
	batchSize  = 50
)

// fileInfo is one discovered audio file.
type fileInfo struct {
	path string
	size int64
}

// ScanResult summarizes a directory scan.
type ScanResult struct {
	Indexed int
	Skipped int
}

// Scanner walks a directory tree and indexes every audio file found.
// Metadata extraction runs on a worker pool; writes go through a single
// goroutine because SQLite allows one writer.
type Scanner struct {
	db  *sql.DB
	log io.Writer

	// readMeta is swappable in tests.
	readMeta func(path string) (*meta.Meta, error)
}

func NewScanner(conn *sql.DB, log io.Writer) *Scanner {
	return &Scanner{
		db:       conn,
		log:      log,
		readMeta: meta.ReadFile,
	}
}

// Scan walks root, extracts metadata from each audio file, and upserts the
// results under the given source label. Per-file failures are logged and
// counted as skipped. Commits in batches of 50.
func (s *Scanner) Scan(root, label string) (*ScanResult, error) {
	info, err := os.Stat(root)
	if err != nil {
		return nil, fmt.Errorf("scan root: %w", err)
	}
	if !info.IsDir() {
		return nil, fmt.Errorf("scan root %s is not a directory", root)
	}

	files := discoverFiles(root)

	workCh := make(chan fileInfo, len(files))
	resultCh := make(chan *Track, len(files))
	result := &ScanResult{}
	var mu sync.Mutex

	var wg sync.WaitGroup
	for range numWorkers {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for f := range workCh {
				m, err := s.readMeta(f.path)
				if err != nil {
					fmt.Fprintf(s.log, "skip %s: %v\n", f.path, err)
					mu.Lock()
					result.Skipped++
					mu.Unlock()
					continue
				}
				resultCh <- trackFromMeta(f, label, m)
			}
		}()
	}

	go func() {
		for _, f := range files {
			workCh <- f
		}
		close(workCh)
	}()

	go func() {
		wg.Wait()
		close(resultCh)
	}()

	// Single writer, batched commits.
	tx, err := s.db.Begin()
	if err != nil {
		return nil, err
	}
	pending := 0
	for t := range resultCh {
		if err := UpsertScanned(tx, t); err != nil {
			fmt.Fprintf(s.log, "skip %s: %v\n", t.Filepath, err)
			result.Skipped++
			continue
		}
		result.Indexed++
		pending++
		if pending >= batchSize {
			if err := tx.Commit(); err != nil {
				return nil, err
			}
			if tx, err = s.db.Begin(); err != nil {
				return nil, err
			}
			pending = 0
		}
	}
	if err := tx.Commit(); err != nil {
		return nil, err
	}

	return result, nil
}

func trackFromMeta(f fileInfo, label string, m *meta.Meta) *Track {
	t := &Track{
		Filepath:    f.path,
		SourceLabel: label,
		Title:       m.Title,
		Artist:      m.Artist,
		Album:       m.Album,
		Genre:       m.Genre,
		BPM:         m.BPM,
		MusicalKey:  m.Key,
		FileFormat:  m.Format,
		Comments:    m.Comment,
		Label:       m.Label,
		Remixer:     m.Remixer,
	}
	if m.DurationSec > 0 {
		d := m.DurationSec
		t.DurationSec = &d
	}
	if m.Bitrate > 0 {
		b := int64(m.Bitrate)
		t.Bitrate = &b
	}
	if m.SampleRate > 0 {
		sr := int64(m.SampleRate)
		t.SampleRate = &sr
	}
	if f.size > 0 {
		size := f.size
		t.FileSize = &size
	}
	return t
}

// discoverFiles walks root and returns every audio file with its size.
// Walk errors skip the offending entry and keep going.
func discoverFiles(root string) []fileInfo {
	var files []fileInfo
	_ = filepath.WalkDir(root, func(path string, d fs.DirEntry, walkErr error) error {
		if walkErr != nil {
			return nil //nolint:nilerr // intentionally skipping errors
		}
		if d.IsDir() {
			return nil
		}
		if !meta.IsAudioFile(path) {
			return nil
		}
		info, infoErr := d.Info()
		if infoErr != nil {
			return nil //nolint:nilerr // intentionally skipping errors
		}
		files = append(files, fileInfo{path: path, size: info.Size()})
		return nil
	})
	return files
}
