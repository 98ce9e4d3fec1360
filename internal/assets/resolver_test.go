package assets

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
)

func TestResolver_Resolve(t *testing.T) {
	dir := t.TempDir()
	if err := os.WriteFile(filepath.Join(dir, "pizza.png"), []byte("img"), 0o644); err != nil {
		t.Fatalf("failed to write fixture: %v", err)
	}
	if err := os.Mkdir(filepath.Join(dir, "thumbs"), 0o755); err != nil {
		t.Fatalf("failed to create subdir: %v", err)
	}
	if err := os.WriteFile(filepath.Join(dir, "thumbs", "cake.png"), []byte("img"), 0o644); err != nil {
		t.Fatalf("failed to write fixture: %v", err)
	}

	r := NewResolver(dir)

	tests := []struct {
		name    string
		img     string
		wantErr bool
	}{
		{name: "existing file", img: "pizza.png", wantErr: false},
		{name: "existing file in subdirectory", img: "thumbs/cake.png", wantErr: false},
		{name: "missing file", img: "ghee.png", wantErr: true},
		{name: "directory instead of file", img: "thumbs", wantErr: true},
		{name: "path escaping base directory", img: "../outside.png", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := r.Resolve(tt.img)

			if tt.wantErr {
				var missing *MissingError
				if !errors.As(err, &missing) {
					t.Fatalf("Resolve() error = %v, want *MissingError", err)
				}
				if missing.Img != tt.img {
					t.Errorf("missing image = %s, want %s", missing.Img, tt.img)
				}
				return
			}

			if err != nil {
				t.Fatalf("Resolve() unexpected error = %v", err)
			}
			if !filepath.IsAbs(got) {
				t.Errorf("Resolve() = %s, want absolute path", got)
			}
			if _, statErr := os.Stat(got); statErr != nil {
				t.Errorf("resolved path not readable: %v", statErr)
			}
		})
	}
}
