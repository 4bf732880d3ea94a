package rekordbox

import (
	"database/sql"
	"fmt"
	"io"

	"github.com/llehouerou/cratedex/internal/db"
	"github.com/llehouerou/cratedex/internal/index"
)

const importBatchSize = 50

// SourceLabelXML marks tracks whose row originated from an XML import.
const SourceLabelXML = "rekordbox_xml"

// ImportStats summarizes an XML collection import.
type ImportStats struct {
	Imported  int
	Skipped   int
	Cues      int
	Playlists int
}

// Importer merges a rekordbox XML collection export into the index.
type Importer struct {
	conn *sql.DB
	ix   *index.Index
	log  io.Writer
}

func NewImporter(conn *sql.DB, log io.Writer) *Importer {
	return &Importer{conn: conn, ix: index.New(conn), log: log}
}

// ImportXML imports the collection at path: track merge, full cue
// replacement, full playlist rebuild. Tracks whose rekordbox id was seen
// by a previous import are skipped but still resolvable for playlists.
func (im *Importer) ImportXML(path string) (*ImportStats, error) {
	doc, err := Parse(path)
	if err != nil {
		return nil, err
	}

	existing, err := im.ix.ExistingRBIDs()
	if err != nil {
		return nil, fmt.Errorf("load imported ids: %w", err)
	}

	stats := &ImportStats{}
	// rekordbox TrackID -> index track id, for playlist resolution
	byRBID := make(map[string]int64, len(doc.Collection.Tracks))

	tx, err := im.conn.Begin()
	if err != nil {
		return nil, err
	}
	pending := 0
	for i := range doc.Collection.Tracks {
		t := &doc.Collection.Tracks[i]
		if t.TrackID != "" {
			if id, ok := existing[t.TrackID]; ok {
				byRBID[t.TrackID] = id
				stats.Skipped++
				continue
			}
		}

		id, cueCount, err := importTrack(tx, t)
		if err != nil {
			fmt.Fprintf(im.log, "skip %s: %v\n", t.Name, err)
			stats.Skipped++
			continue
		}
		if t.TrackID != "" {
			byRBID[t.TrackID] = id
		}
		stats.Imported++
		stats.Cues += cueCount

		pending++
		if pending >= importBatchSize {
			if err := tx.Commit(); err != nil {
				return nil, err
			}
			if tx, err = im.conn.Begin(); err != nil {
				return nil, err
			}
			pending = 0
		}
	}
	if err := tx.Commit(); err != nil {
		return nil, err
	}

	count, err := im.importPlaylists(&doc.Playlists.Root, byRBID)
	if err != nil {
		return nil, err
	}
	stats.Playlists = count

	return stats, nil
}

// importTrack merges one collection entry and replaces its cues.
func importTrack(tx *sql.Tx, t *Track) (int64, int, error) {
	track := &index.Track{
		Filepath:    DecodeLocation(t.Location),
		SourceLabel: SourceLabelXML,
		Title:       t.Name,
		Artist:      t.Artist,
		Album:       t.Album,
		Genre:       t.Genre,
		BPM:         db.SafeFloat(t.AverageBpm),
		MusicalKey:  t.Tonality,
		DurationSec: db.SafeFloat(t.TotalTime),
		FileSize:    db.SafeInt(t.Size),
		InRekordbox: true,
		RBTrackID:   t.TrackID,
		RBLocation:  t.Location,
		Comments:    t.Comments,
		Rating:      db.SafeInt(t.Rating),
		Label:       t.Label,
		Remixer:     t.Remixer,
		Color:       t.Colour,
	}
	if track.Filepath == "" {
		return 0, 0, fmt.Errorf("track %q has no location", t.Name)
	}

	id, err := index.MergeCatalog(tx, track)
	if err != nil {
		return 0, 0, err
	}

	cues := cuesFromMarks(t.Marks)
	if err := index.ReplaceCues(tx, id, cues); err != nil {
		return 0, 0, err
	}
	return id, len(cues), nil
}

// cuesFromMarks converts POSITION_MARK elements to cue rows. Num -1 is a
// memory cue; 0-7 map to hot cues A-H. Marks with an unparseable start
// position are dropped.
func cuesFromMarks(marks []PositionMark) []index.Cue {
	cues := make([]index.Cue, 0, len(marks))
	for _, m := range marks {
		start := db.SafeFloat(m.Start)
		if start == nil {
			continue
		}
		num := -1
		if n := db.SafeInt(m.Num); n != nil {
			num = int(*n)
		}

		c := index.Cue{
			Type:        cueType(num),
			Name:        m.Name,
			Num:         num,
			PositionSec: *start,
			LoopEndSec:  db.SafeFloat(m.End),
			ColorRed:    db.SafeInt(m.Red),
			ColorGreen:  db.SafeInt(m.Green),
			ColorBlue:   db.SafeInt(m.Blue),
		}
		// Type 4 is a loop marker.
		c.IsLoop = m.Type == "4" && c.LoopEndSec != nil
		cues = append(cues, c)
	}
	return cues
}

func cueType(num int) string {
	if num >= 0 && num <= 7 {
		return "hot_cue_" + string(rune('a'+num))
	}
	return "memory_cue"
}

// importPlaylists rebuilds playlist membership from the folder tree.
// All prior rows are cleared first; identity is the slash-joined path of
// ancestor folder names plus the playlist name. Returns the number of
// playlists imported.
func (im *Importer) importPlaylists(root *Node, byRBID map[string]int64) (int, error) {
	count := 0
	err := db.WithTx(im.conn, func(tx *sql.Tx) error {
		if err := index.ClearPlaylists(tx); err != nil {
			return err
		}
		var walkErr error
		count, walkErr = im.walkNode(tx, root, "", byRBID, true)
		return walkErr
	})
	return count, err
}

// walkNode does a depth-first traversal accumulating the hierarchical path.
// The synthetic ROOT node contributes nothing to the path.
func (im *Importer) walkNode(tx *sql.Tx, n *Node, parentPath string, byRBID map[string]int64, isRoot bool) (int, error) {
	if n.IsFolder() {
		path := parentPath
		if !isRoot {
			path = joinPath(parentPath, n.Name)
		}
		count := 0
		for i := range n.Children {
			c, err := im.walkNode(tx, &n.Children[i], path, byRBID, false)
			if err != nil {
				return count, err
			}
			count += c
		}
		return count, nil
	}

	path := joinPath(parentPath, n.Name)
	position := 0
	for _, ref := range n.Keys {
		id, ok := byRBID[ref.Key]
		if !ok {
			fmt.Fprintf(im.log, "playlist %s: unknown track key %s\n", path, ref.Key)
			continue
		}
		position++
		if err := index.AddPlaylistEntry(tx, n.Name, path, id, position); err != nil {
			return 0, err
		}
	}
	return 1, nil
}

func joinPath(parent, name string) string {
	if parent == "" {
		return name
	}
	return parent + "/" + name
}
