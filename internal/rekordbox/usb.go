package rekordbox

import (
	"database/sql"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/llehouerou/cratedex/internal/db"
	"github.com/llehouerou/cratedex/internal/index"
	"github.com/llehouerou/cratedex/internal/meta"
)

// SourceLabelUSB marks tracks touched by a USB export import.
const SourceLabelUSB = "rekordbox_usb"

// UsbStats summarizes a USB export import.
type UsbStats struct {
	AnlzFiles int
	Matched   int
	Unmatched int
}

// ImportUSB inventories a rekordbox USB export. Audio files under the
// export are matched to existing tracks by lowercased filename and marked
// as catalog-known; matched tracks get an analysis record pointing at the
// PIONEER/USBANLZ tree. Decoding the ANLZ binaries themselves (beat grids,
// waveforms) is not implemented, so the content flags stay zero.
func (im *Importer) ImportUSB(usbPath string) (*UsbStats, error) {
	if _, err := os.Stat(usbPath); err != nil {
		return nil, fmt.Errorf("usb path: %w", err)
	}

	anlzRoot := filepath.Join(usbPath, "PIONEER", "USBANLZ")
	stats := &UsbStats{AnlzFiles: countAnlzFiles(anlzRoot)}

	audio := discoverAudio(usbPath)
	err := db.WithTx(im.conn, func(tx *sql.Tx) error {
		for _, path := range audio {
			matched, err := markCatalogKnown(tx, path, anlzRoot, stats.AnlzFiles > 0)
			if err != nil {
				return err
			}
			if matched {
				stats.Matched++
			} else {
				stats.Unmatched++
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return stats, nil
}

// markCatalogKnown flags the track matching path's filename as present on
// the USB export and records its analysis tree location.
func markCatalogKnown(tx *sql.Tx, path, anlzRoot string, hasAnlz bool) (bool, error) {
	lower := strings.ToLower(filepath.Base(path))
	var id int64
	err := tx.QueryRow(`SELECT id FROM tracks WHERE filename_lower = ? ORDER BY id LIMIT 1`, lower).Scan(&id)
	if err == sql.ErrNoRows {
		return false, nil
	}
	if err != nil {
		return false, err
	}

	// Keep the scan label when one exists; label USB-only tracks.
	if _, err := tx.Exec(`
		UPDATE tracks
		SET in_rekordbox = 1, rb_location = ?,
			source_label = COALESCE(NULLIF(source_label, ''), ?)
		WHERE id = ?`, path, SourceLabelUSB, id); err != nil {
		return false, err
	}

	if hasAnlz {
		// One record per import run; prior runs are replaced.
		if _, err := tx.Exec(`DELETE FROM analysis_records WHERE track_id = ?`, id); err != nil {
			return false, err
		}
		if err := index.AddAnalysisRecord(tx, id, anlzRoot); err != nil {
			return false, err
		}
	}
	return true, nil
}

func countAnlzFiles(root string) int {
	count := 0
	_ = filepath.WalkDir(root, func(path string, d fs.DirEntry, walkErr error) error {
		if walkErr != nil || d.IsDir() {
			return nil //nolint:nilerr // missing tree means zero files
		}
		ext := strings.ToUpper(filepath.Ext(path))
		if ext == ".DAT" || ext == ".EXT" || ext == ".2EX" {
			count++
		}
		return nil
	})
	return count
}

func discoverAudio(root string) []string {
	var files []string
	_ = filepath.WalkDir(root, func(path string, d fs.DirEntry, walkErr error) error {
		if walkErr != nil {
			return nil //nolint:nilerr // intentionally skipping errors
		}
		if d.IsDir() {
			if d.Name() == "PIONEER" {
				return filepath.SkipDir
			}
			return nil
		}
		if meta.IsAudioFile(path) {
			files = append(files, path)
		}
		return nil
	})
	return files
}
