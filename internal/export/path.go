package export

import (
	"fmt"
	"strings"
)

// Style is a file-path notation.
type Style string

const (
	StyleMac     Style = "mac"     // /Volumes/<name>/... with forward slashes
	StyleWindows Style = "windows" // <LETTER>:\... with backslashes
)

// Conversion names the source and target path styles.
type Conversion struct {
	From Style
	To   Style
}

// ParseConversion parses "mac-to-windows" or "windows-to-mac".
func ParseConversion(s string) (*Conversion, error) {
	switch strings.ToLower(s) {
	case "mac-to-windows":
		return &Conversion{From: StyleMac, To: StyleWindows}, nil
	case "windows-to-mac":
		return &Conversion{From: StyleWindows, To: StyleMac}, nil
	default:
		return nil, fmt.Errorf("unknown path conversion %q, want mac-to-windows or windows-to-mac", s)
	}
}

// ConvertPath rewrites a path between the two styles. Conversion never
// fails hard: empty values, a nil conversion, equal styles, or a path
// that doesn't match the source shape all pass through unchanged.
func ConvertPath(path string, conv *Conversion, volumes VolumeMap) string {
	if path == "" || conv == nil || conv.From == "" || conv.To == "" || conv.From == conv.To {
		return path
	}
	switch {
	case conv.From == StyleMac && conv.To == StyleWindows:
		return macToWindows(path, volumes)
	case conv.From == StyleWindows && conv.To == StyleMac:
		return windowsToMac(path, volumes)
	}
	return path
}

// macToWindows converts /Volumes/USB1/Music/song.mp3 to E:\Music\song.mp3
// given a USB1=E mapping. An unmapped volume falls back to its upper-cased
// first letter.
func macToWindows(path string, volumes VolumeMap) string {
	if !strings.HasPrefix(path, "/Volumes/") {
		return path
	}
	parts := strings.Split(path, "/")
	if len(parts) < 3 {
		return path
	}
	volume := parts[2]

	drive, ok := volumes.Letter(volume)
	if !ok {
		if volume == "" {
			drive = "X"
		} else {
			drive = strings.ToUpper(volume[:1])
		}
	}

	if len(parts) > 3 {
		return drive + `:\` + strings.Join(parts[3:], `\`)
	}
	return drive + `:\`
}

// windowsToMac converts E:\Music\song.mp3 back to /Volumes/USB1/Music/song.mp3.
// An unmapped letter synthesizes a Volume<LETTER> name.
func windowsToMac(path string, volumes VolumeMap) string {
	if !strings.Contains(path, `:\`) {
		return path
	}
	drive := strings.ToUpper(path[:1])

	volume, ok := volumes.Name(drive)
	if !ok {
		volume = "Volume" + drive
	}

	if len(path) > 3 {
		return "/Volumes/" + volume + "/" + strings.ReplaceAll(path[3:], `\`, "/")
	}
	return "/Volumes/" + volume
}
