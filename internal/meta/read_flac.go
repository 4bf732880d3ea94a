package meta

import (
	"strings"

	goflac "github.com/go-flac/go-flac"
)

// readFLACExtended reads DJ-relevant Vorbis comments from a FLAC file:
// BPM, INITIALKEY, LABEL, REMIXER, COMMENT.
func readFLACExtended(path string, m *Meta) {
	f, err := goflac.ParseFile(path)
	if err != nil {
		return
	}

	var comments map[string]string
	for _, block := range f.Meta {
		if block.Type == goflac.VorbisComment {
			comments = parseVorbisComments(block.Data)
			break
		}
	}
	if comments == nil {
		return
	}

	if m.BPM == nil {
		m.BPM = parseBPM(comments["BPM"])
	}
	if m.Key == "" {
		m.Key = firstNonEmpty(comments["INITIALKEY"], comments["KEY"])
	}
	if m.Label == "" {
		m.Label = firstNonEmpty(comments["LABEL"], comments["ORGANIZATION"])
	}
	if m.Remixer == "" {
		m.Remixer = comments["REMIXER"]
	}
	if m.Comment == "" {
		m.Comment = firstNonEmpty(comments["COMMENT"], comments["DESCRIPTION"])
	}
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}

// parseVorbisComments parses raw Vorbis comment data into a map with
// upper-cased keys.
func parseVorbisComments(data []byte) map[string]string {
	comments := make(map[string]string)

	if len(data) < 4 {
		return comments
	}

	// Skip vendor string
	vendorLen := int(data[0]) | int(data[1])<<8 | int(data[2])<<16 | int(data[3])<<24
	pos := 4 + vendorLen
	if pos+4 > len(data) {
		return comments
	}

	commentCount := int(data[pos]) | int(data[pos+1])<<8 | int(data[pos+2])<<16 | int(data[pos+3])<<24
	pos += 4

	for i := 0; i < commentCount && pos+4 <= len(data); i++ {
		commentLen := int(data[pos]) | int(data[pos+1])<<8 | int(data[pos+2])<<16 | int(data[pos+3])<<24
		pos += 4

		if pos+commentLen > len(data) {
			break
		}

		comment := string(data[pos : pos+commentLen])
		pos += commentLen

		if idx := strings.Index(comment, "="); idx > 0 {
			key := strings.ToUpper(comment[:idx])
			comments[key] = comment[idx+1:]
		}
	}

	return comments
}
