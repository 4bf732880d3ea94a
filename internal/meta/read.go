package meta

import (
	"os"
	"path/filepath"

	"github.com/dhowden/tag"
	"go.senan.xyz/taglib"
)

// ReadFile reads tags and stream properties from one audio file.
// Tag failures fall back to TagLib; stream property failures leave the
// corresponding fields zero rather than failing the whole file.
func ReadFile(path string) (*Meta, error) {
	m, err := readTags(path)
	if err != nil {
		return nil, err
	}

	m.Format = ext(path)
	readProperties(path, m)

	// Extended DJ tags (BPM, key, label, remixer) per dialect.
	switch m.Format {
	case ExtMP3, ExtWAV, ExtAIFF, ExtAIF:
		readID3Extended(path, m)
	case ExtFLAC:
		readFLACExtended(path, m)
	default:
		readTaglibExtended(path, m)
	}

	return m, nil
}

// readTags reads the base tag set using dhowden/tag, falling back to
// TagLib when it can't parse the file.
func readTags(path string) (*Meta, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	t, err := tag.ReadFrom(f)
	if err != nil {
		return readTagsWithTaglib(path)
	}

	title := t.Title()
	if title == "" {
		title = filepath.Base(path)
	}

	return &Meta{
		Title:   title,
		Artist:  t.Artist(),
		Album:   t.Album(),
		Genre:   t.Genre(),
		Comment: t.Comment(),
	}, nil
}

// readTagsWithTaglib reads the base tag set using TagLib as fallback when
// dhowden/tag fails.
func readTagsWithTaglib(path string) (*Meta, error) {
	rawTags, err := taglib.ReadTags(path)
	if err != nil {
		return nil, err
	}
	tags := tagValues(rawTags)

	title := tags.get(taglib.Title)
	if title == "" {
		title = filepath.Base(path)
	}

	return &Meta{
		Title:   title,
		Artist:  tags.get(taglib.Artist),
		Album:   tags.get(taglib.Album),
		Genre:   tags.get(taglib.Genre),
		Comment: tags.get(taglib.Comment),
	}, nil
}

// readProperties fills duration, bitrate, and sample rate from the audio
// stream. Failures are non-fatal.
func readProperties(path string, m *Meta) {
	props, err := taglib.ReadProperties(path)
	if err != nil {
		return
	}
	m.DurationSec = props.Length.Seconds()
	m.Bitrate = int(props.Bitrate)
	m.SampleRate = int(props.SampleRate)
}

// readTaglibExtended reads BPM, key, label, and remixer via TagLib's
// generic key/value map. Used for formats without a dedicated reader.
func readTaglibExtended(path string, m *Meta) {
	rawTags, err := taglib.ReadTags(path)
	if err != nil {
		return
	}
	tags := tagValues(rawTags)

	if m.BPM == nil {
		m.BPM = parseBPM(tags.get("BPM"))
	}
	if m.Key == "" {
		m.Key = tags.get("INITIALKEY", "KEY")
	}
	if m.Label == "" {
		m.Label = tags.get("LABEL", "ORGANIZATION", "PUBLISHER")
	}
	if m.Remixer == "" {
		m.Remixer = tags.get("REMIXER", "MIXARTIST")
	}
	if m.Comment == "" {
		m.Comment = tags.get(taglib.Comment)
	}
}

// tagValues wraps a TagLib result map with lookup helpers.
type tagValues map[string][]string

// get returns the first value for any of the given keys, or empty string
// if not found.
func (t tagValues) get(keys ...string) string {
	for _, key := range keys {
		if values, ok := t[key]; ok && len(values) > 0 {
			return values[0]
		}
	}
	return ""
}
