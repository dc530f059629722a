// Package staging manages the per-request temporary directory that holds an
// uploaded source document, the intermediate spreadsheet when a PDF
// pre-conversion occurred, and the produced store file. One workspace per
// conversion request; no state is shared across requests.
package staging

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"
)

// Workspace is a temporary directory scoped to one conversion request.
type Workspace struct {
	dir string
}

// NewWorkspace creates a fresh workspace directory under baseDir. An empty
// baseDir falls back to the system temp directory.
func NewWorkspace(baseDir string) (*Workspace, error) {
	if baseDir != "" {
		if err := os.MkdirAll(baseDir, 0o755); err != nil {
			return nil, fmt.Errorf("failed to create staging base directory: %w", err)
		}
	}
	dir, err := os.MkdirTemp(baseDir, "tabulite-*")
	if err != nil {
		return nil, fmt.Errorf("failed to create workspace directory: %w", err)
	}
	return &Workspace{dir: dir}, nil
}

// Dir returns the workspace directory path.
func (w *Workspace) Dir() string {
	return w.dir
}

// Save writes an uploaded document into the workspace under a unique name
// derived from the original filename, and returns its path.
func (w *Workspace) Save(filename string, r io.Reader) (string, error) {
	ext := filepath.Ext(filename)
	base := strings.TrimSuffix(filepath.Base(filename), ext)
	if base == "" {
		base = "upload"
	}
	timestamp := time.Now().Format("20060102_150405")
	unique := fmt.Sprintf("%s_%s_%s%s", base, timestamp, uuid.New().String()[:8], ext)

	path := filepath.Join(w.dir, unique)
	dest, err := os.Create(path)
	if err != nil {
		return "", fmt.Errorf("failed to create staged file: %w", err)
	}
	defer dest.Close()

	if _, err := io.Copy(dest, r); err != nil {
		os.Remove(path)
		return "", fmt.Errorf("failed to write staged file: %w", err)
	}
	return path, nil
}

// Path joins a file name onto the workspace directory.
func (w *Workspace) Path(name string) string {
	return filepath.Join(w.dir, name)
}

// Exists checks whether a file is present in the workspace.
func (w *Workspace) Exists(name string) bool {
	_, err := os.Stat(w.Path(name))
	return err == nil
}

// Cleanup removes the workspace directory and everything in it.
func (w *Workspace) Cleanup() error {
	if err := os.RemoveAll(w.dir); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("failed to remove workspace: %w", err)
	}
	return nil
}
