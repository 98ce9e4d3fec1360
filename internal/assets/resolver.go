package assets

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// MissingError reports an item image that could not be located or read.
type MissingError struct {
	Img string
	Err error
}

func (e *MissingError) Error() string {
	return fmt.Sprintf("image file not found: %s", e.Img)
}

func (e *MissingError) Unwrap() error {
	return e.Err
}

// Resolver maps relative item image paths onto a fixed base directory.
type Resolver struct {
	baseDir string
}

// NewResolver creates a resolver rooted at baseDir.
func NewResolver(baseDir string) *Resolver {
	return &Resolver{baseDir: baseDir}
}

// Resolve joins relativeImg against the base directory and confirms the
// result is readable right now. This is a check, not a lock: the file can
// still disappear before it is sent.
func (r *Resolver) Resolve(relativeImg string) (string, error) {
	joined := filepath.Join(r.baseDir, relativeImg)

	abs, err := filepath.Abs(joined)
	if err != nil {
		return "", &MissingError{Img: relativeImg, Err: err}
	}

	// Relative paths must stay inside the asset directory.
	base, err := filepath.Abs(r.baseDir)
	if err != nil {
		return "", &MissingError{Img: relativeImg, Err: err}
	}
	if abs != base && !strings.HasPrefix(abs, base+string(filepath.Separator)) {
		return "", &MissingError{Img: relativeImg, Err: os.ErrNotExist}
	}

	f, err := os.Open(abs)
	if err != nil {
		return "", &MissingError{Img: relativeImg, Err: err}
	}
	defer f.Close()

	info, err := f.Stat()
	if err != nil {
		return "", &MissingError{Img: relativeImg, Err: err}
	}
	if info.IsDir() {
		return "", &MissingError{Img: relativeImg, Err: os.ErrNotExist}
	}

	return abs, nil
}
