package kdict_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/FAU-CDI/kdict"
	"github.com/FAU-CDI/kdict/internal/source"
)

func TestFindSource(t *testing.T) {
	t.Parallel()

	base := t.TempDir()
	single := filepath.Join(base, "single")
	double := filepath.Join(base, "double")
	for _, dir := range []string{single, double} {
		if err := os.Mkdir(dir, 0o755); err != nil {
			t.Fatal(err)
		}
	}
	for _, file := range []string{
		filepath.Join(single, "artists.csv"),
		filepath.Join(double, "a.csv"),
		filepath.Join(double, "b.csv"),
	} {
		if err := os.WriteFile(file, []byte("artist,company,debut_year\n"), 0o644); err != nil {
			t.Fatal(err)
		}
	}

	tests := []struct {
		name    string
		argv    []string
		want    string
		wantErr bool
	}{
		{"no arguments", nil, source.DefaultURL, false},
		{"empty argument", []string{""}, source.DefaultURL, false},
		{"remote", []string{"https://example.com/artists.csv"}, "https://example.com/artists.csv", false},
		{"file", []string{filepath.Join(single, "artists.csv")}, filepath.Join(single, "artists.csv"), false},
		{"directory", []string{single}, filepath.Join(single, "artists.csv"), false},
		{"ambiguous directory", []string{double}, "", true},
		{"missing", []string{filepath.Join(base, "missing.csv")}, "", true},
		{"too many", []string{"a.csv", "b.csv"}, "", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			got, err := kdict.FindSource(tt.argv...)
			if (err != nil) != tt.wantErr {
				t.Fatalf("FindSource() error = %v, wantErr %v", err, tt.wantErr)
			}
			if got != tt.want {
				t.Errorf("FindSource() = %q, want %q", got, tt.want)
			}
		})
	}
}
