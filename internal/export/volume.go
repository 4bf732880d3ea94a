// Package export serializes query results to CSV, optionally rewriting
// path columns between mac and windows volume notations.
package export

import (
	"fmt"
	"strings"
)

// VolumeMapping pairs a mac volume name with a windows drive letter.
type VolumeMapping struct {
	Name   string
	Letter string
}

// VolumeMap is an ordered list of mappings. Order matters: reverse
// lookups return the first entry whose letter matches.
type VolumeMap []VolumeMapping

// ParseVolumeMap parses NAME=LETTER pairs as given on the command line.
func ParseVolumeMap(pairs []string) (VolumeMap, error) {
	var m VolumeMap
	for _, pair := range pairs {
		name, letter, ok := strings.Cut(pair, "=")
		if !ok || name == "" || letter == "" {
			return nil, fmt.Errorf("invalid volume mapping %q, want NAME=LETTER", pair)
		}
		m = append(m, VolumeMapping{Name: name, Letter: letter})
	}
	return m, nil
}

// Letter returns the drive letter mapped to a volume name.
func (m VolumeMap) Letter(name string) (string, bool) {
	for _, v := range m {
		if v.Name == name {
			return v.Letter, true
		}
	}
	return "", false
}

// Name returns the first volume name whose letter matches,
// case-insensitively.
func (m VolumeMap) Name(letter string) (string, bool) {
	for _, v := range m {
		if strings.EqualFold(v.Letter, letter) {
			return v.Name, true
		}
	}
	return "", false
}
