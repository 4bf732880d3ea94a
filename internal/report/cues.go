package report

import (
	"fmt"
	"io"
	"strings"

	"github.com/llehouerou/cratedex/internal/search"
)

// WriteCueDetails prints one track's header and its cue points in
// position order.
func WriteCueDetails(w io.Writer, track *search.TrackDetail, cues []search.CueDetail) {
	title := track.Title
	if title == "" {
		title = track.Filename
	}
	duration := FormatDuration(track.DurationSec)

	if track.Artist != "" {
		fmt.Fprintf(w, "\n%s - %s (%s)\n", track.Artist, title, duration)
	} else {
		fmt.Fprintf(w, "\n%s (%s)\n", title, duration)
	}

	bpm := "?"
	if track.BPM != nil {
		bpm = fmt.Sprintf("%.0f", *track.BPM)
	}
	key := track.MusicalKey
	if key == "" {
		key = "?"
	}
	fmt.Fprintf(w, "   %s BPM | %s | %s\n", bpm, key, track.SourceLabel)

	if len(cues) == 0 {
		fmt.Fprintf(w, "   Cue points: None\n\n")
		return
	}

	fmt.Fprintf(w, "   Cue points (%d):\n", len(cues))
	for _, c := range cues {
		label := cueLabel(c.Type)
		if c.Name != "" {
			label += ": " + c.Name
		}
		pos := c.PositionSec
		fmt.Fprintf(w, "     [%s] %s\n", FormatDuration(&pos), label)
	}
	fmt.Fprintln(w)
}

func cueLabel(cueType string) string {
	switch {
	case cueType == "memory_cue":
		return "Memory Cue"
	case strings.HasPrefix(cueType, "hot_cue_"):
		return "Hot Cue " + strings.ToUpper(cueType[len(cueType)-1:])
	default:
		return cueType
	}
}

// FormatDuration renders seconds as M:SS, or H:MM:SS past an hour.
// Nil means unknown.
func FormatDuration(seconds *float64) string {
	if seconds == nil {
		return "?"
	}
	total := int(*seconds)
	hours := total / 3600
	minutes := (total % 3600) / 60
	secs := total % 60
	if hours > 0 {
		return fmt.Sprintf("%d:%02d:%02d", hours, minutes, secs)
	}
	return fmt.Sprintf("%d:%02d", minutes, secs)
}
