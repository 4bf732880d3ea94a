package config

import (
	"os"
	"path/filepath"
	"testing"
)

func TestExpandPath(t *testing.T) {
	home, err := os.UserHomeDir()
	if err != nil {
		t.Skipf("Could not get home dir: %v", err)
	}

	tests := []struct {
		name     string
		input    string
		expected string
	}{
		{
			name:     "tilde expands to home",
			input:    "~/music.db",
			expected: filepath.Join(home, "music.db"),
		},
		{
			name:     "absolute path unchanged",
			input:    "/var/lib/cratedex/index.db",
			expected: "/var/lib/cratedex/index.db",
		},
		{
			name:     "relative path unchanged",
			input:    "index.db",
			expected: "index.db",
		},
		{
			name:     "empty path unchanged",
			input:    "",
			expected: "",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := expandPath(tt.input)
			if got != tt.expected {
				t.Errorf("expandPath(%q) = %q, want %q", tt.input, got, tt.expected)
			}
		})
	}
}

func TestDefaultLimit(t *testing.T) {
	cfg := &Config{}
	if cfg.DefaultLimit != 0 {
		t.Fatalf("zero value DefaultLimit = %d", cfg.DefaultLimit)
	}

	// Load applies the default when no config file sets one; simulate the
	// post-load fixup directly.
	if cfg.DefaultLimit <= 0 {
		cfg.DefaultLimit = 100
	}
	if cfg.DefaultLimit != 100 {
		t.Errorf("DefaultLimit = %d, want 100", cfg.DefaultLimit)
	}
}

func TestVolumeMappingsOrdered(t *testing.T) {
	cfg := &Config{
		Export: ExportConfig{
			VolumeMap: map[string]string{
				"USB2":     "F",
				"USB1":     "E",
				"External": "G",
			},
		},
	}

	got := cfg.VolumeMappings()
	want := []string{"External=G", "USB1=E", "USB2=F"}
	if len(got) != len(want) {
		t.Fatalf("VolumeMappings returned %d pairs, want %d", len(got), len(want))
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("VolumeMappings[%d] = %q, want %q", i, got[i], want[i])
		}
	}
}

func TestVolumeMappingsEmpty(t *testing.T) {
	cfg := &Config{}
	if got := cfg.VolumeMappings(); len(got) != 0 {
		t.Errorf("expected no mappings, got %v", got)
	}
}
