// Package diagnostics writes debugging artifacts (http message dumps,
// rendered page text) to disk. Nothing in here is allowed to fail a run.
package diagnostics

import (
	"log/slog"
	"os"
	"path/filepath"
)

// Output is satisfied by telemetry.MessageOutput as well.
type Output interface {
	Write(id string, contents string)
}

type FilesystemOutput struct {
	directory string
}

// NewFilesystemOutput creates dir if needed, reset removes whatever a
// previous run left in it first.
func NewFilesystemOutput(dir string, reset bool) (FilesystemOutput, error) {
	dir, err := filepath.Abs(dir)
	if err != nil {
		return FilesystemOutput{}, err
	}
	if reset {
		err = os.RemoveAll(dir)
		if err != nil {
			return FilesystemOutput{}, err
		}
	}
	err = os.MkdirAll(dir, 0777)
	if err != nil {
		return FilesystemOutput{}, err
	}
	return FilesystemOutput{directory: dir}, nil
}

func (o FilesystemOutput) Directory() string {
	return o.directory
}

func (o FilesystemOutput) Path(id string) string {
	return filepath.Join(o.directory, id)
}

func (o FilesystemOutput) Write(id string, contents string) {
	err := os.WriteFile(o.Path(id), []byte(contents), 0600)
	if err != nil {
		slog.Warn("failed to write diagnostic file", "id", id, "err", err)
	}
}

// Discard drops everything written to it.
type Discard struct{}

func (Discard) Write(string, string) {}
