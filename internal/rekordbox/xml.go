// Package rekordbox imports rekordbox collection exports: the DJ_PLAYLISTS
// XML format and the PIONEER/USBANLZ analysis tree of a USB export.
package rekordbox

import (
	"encoding/xml"
	"fmt"
	"net/url"
	"os"
	"strings"
)

// Document is the root of a rekordbox XML collection export.
type Document struct {
	XMLName    xml.Name   `xml:"DJ_PLAYLISTS"`
	Version    string     `xml:"Version,attr"`
	Collection Collection `xml:"COLLECTION"`
	Playlists  Playlists  `xml:"PLAYLISTS"`
}

type Collection struct {
	Entries string  `xml:"Entries,attr"`
	Tracks  []Track `xml:"TRACK"`
}

// Track is one COLLECTION entry. Numeric attributes stay strings because
// rekordbox emits empty strings for unset values; coercion happens at
// import time.
type Track struct {
	TrackID    string         `xml:"TrackID,attr"`
	Name       string         `xml:"Name,attr"`
	Artist     string         `xml:"Artist,attr"`
	Album      string         `xml:"Album,attr"`
	Genre      string         `xml:"Genre,attr"`
	Kind       string         `xml:"Kind,attr"`
	Size       string         `xml:"Size,attr"`
	TotalTime  string         `xml:"TotalTime,attr"`
	AverageBpm string         `xml:"AverageBpm,attr"`
	BitRate    string         `xml:"BitRate,attr"`
	SampleRate string         `xml:"SampleRate,attr"`
	Comments   string         `xml:"Comments,attr"`
	Rating     string         `xml:"Rating,attr"`
	Location   string         `xml:"Location,attr"`
	Remixer    string         `xml:"Remixer,attr"`
	Tonality   string         `xml:"Tonality,attr"`
	Label      string         `xml:"Label,attr"`
	Colour     string         `xml:"Colour,attr"`
	Marks      []PositionMark `xml:"POSITION_MARK"`
}

// PositionMark is one cue marker. Num is -1 for memory cues and 0-7 for
// hot cues A-H. Type 4 marks a loop with End set.
type PositionMark struct {
	Name  string `xml:"Name,attr"`
	Type  string `xml:"Type,attr"`
	Start string `xml:"Start,attr"`
	End   string `xml:"End,attr"`
	Num   string `xml:"Num,attr"`
	Red   string `xml:"Red,attr"`
	Green string `xml:"Green,attr"`
	Blue  string `xml:"Blue,attr"`
}

type Playlists struct {
	Root Node `xml:"NODE"`
}

// Node is one PLAYLISTS tree node: Type "0" is a folder with child nodes,
// Type "1" is a playlist whose TRACK children reference collection TrackIDs.
type Node struct {
	Name     string     `xml:"Name,attr"`
	Type     string     `xml:"Type,attr"`
	Children []Node     `xml:"NODE"`
	Keys     []TrackRef `xml:"TRACK"`
}

type TrackRef struct {
	Key string `xml:"Key,attr"`
}

func (n *Node) IsFolder() bool {
	return n.Type == "0"
}

// Parse reads and decodes a rekordbox XML collection export.
func Parse(path string) (*Document, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open collection xml: %w", err)
	}
	defer f.Close()

	var doc Document
	if err := xml.NewDecoder(f).Decode(&doc); err != nil {
		return nil, fmt.Errorf("parse collection xml: %w", err)
	}
	return &doc, nil
}

// DecodeLocation turns a rekordbox Location attribute (a file:// URL) into
// a plain filesystem path. Unparseable values come back as-is.
func DecodeLocation(location string) string {
	s := strings.TrimPrefix(location, "file://localhost")
	s = strings.TrimPrefix(s, "file://")
	decoded, err := url.PathUnescape(s)
	if err != nil {
		return s
	}
	return decoded
}
