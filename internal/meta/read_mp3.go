package meta

import (
	"github.com/bogem/id3v2/v2"
)

// readID3Extended reads DJ-relevant extended frames from an ID3v2 tag:
// TBPM (tempo), TKEY (initial key), TPUB (label), TPE4 (remixer), COMM.
func readID3Extended(path string, m *Meta) {
	id3tag, err := id3v2.Open(path, id3v2.Options{Parse: true})
	if err != nil {
		return
	}
	defer id3tag.Close()

	if m.BPM == nil {
		m.BPM = parseBPM(getID3TextFrame(id3tag, "TBPM"))
	}
	if m.Key == "" {
		m.Key = getID3TextFrame(id3tag, "TKEY")
	}
	if m.Label == "" {
		m.Label = getID3TextFrame(id3tag, "TPUB")
	}
	if m.Remixer == "" {
		m.Remixer = getID3TextFrame(id3tag, "TPE4")
	}
	if m.Comment == "" {
		m.Comment = getID3CommentFrame(id3tag)
	}
}

// getID3TextFrame reads a text frame value from an ID3v2 tag.
func getID3TextFrame(id3tag *id3v2.Tag, frameID string) string {
	frames := id3tag.GetFrames(frameID)
	if len(frames) == 0 {
		return ""
	}
	if tf, ok := frames[0].(id3v2.TextFrame); ok {
		return tf.Text
	}
	return ""
}

// getID3CommentFrame reads the first COMM frame text.
func getID3CommentFrame(id3tag *id3v2.Tag) string {
	for _, frame := range id3tag.GetFrames(id3tag.CommonID("Comments")) {
		if cf, ok := frame.(id3v2.CommentFrame); ok {
			return cf.Text
		}
	}
	return ""
}
