// Package meta extracts audio metadata relevant to DJ library indexing:
// tags (including BPM and musical key) plus stream properties.
package meta

import (
	"strconv"
	"strings"
)

// File extensions indexed by the scanner.
const (
	ExtMP3  = ".mp3"
	ExtWAV  = ".wav"
	ExtFLAC = ".flac"
	ExtAIFF = ".aiff"
	ExtAIF  = ".aif"
	ExtAAC  = ".aac"
	ExtM4A  = ".m4a"
	ExtOGG  = ".ogg"
	ExtOPUS = ".opus"
	ExtWMA  = ".wma"
	ExtALAC = ".alac"
)

var audioExtensions = map[string]bool{
	ExtMP3: true, ExtWAV: true, ExtFLAC: true, ExtAIFF: true, ExtAIF: true,
	ExtAAC: true, ExtM4A: true, ExtOGG: true, ExtOPUS: true, ExtWMA: true,
	ExtALAC: true,
}

// Meta holds the normalized attribute set for one audio file.
type Meta struct {
	Title  string
	Artist string
	Album  string
	Genre  string

	BPM *float64 // beats per minute, nil when unknown
	Key string   // musical key token, e.g. "2A" or "Fm"

	DurationSec float64
	Bitrate     int
	SampleRate  int
	Format      string // lowercased extension including the dot

	Comment string
	Label   string
	Remixer string
}

// IsAudioFile returns true if the path has a supported audio extension.
func IsAudioFile(path string) bool {
	return audioExtensions[ext(path)]
}

func ext(path string) string {
	s := strings.ToLower(path)
	if idx := strings.LastIndex(s, "."); idx >= 0 {
		return s[idx:]
	}
	return ""
}

// parseBPM parses a BPM tag value, which may be an integer or a float.
// Returns nil for empty or unparseable input.
func parseBPM(s string) *float64 {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil
	}
	f, err := strconv.ParseFloat(s, 64)
	if err != nil || f <= 0 {
		return nil
	}
	return &f
}
