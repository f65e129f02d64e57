package restyutil

import (
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
)

type FilesystemOutput struct {
	directory string
}

var ErrOutputNotEmpty = errors.New("output directory is not empty")

// NewFilesystemOutput returns an output writing one file per message into
// dir. dir is created if missing and must otherwise be empty, so that
// earlier dumps are never overwritten.
func NewFilesystemOutput(dir string) (FilesystemOutput, error) {
	entries, err := os.ReadDir(dir)
	if err == nil && len(entries) > 0 {
		return FilesystemOutput{}, fmt.Errorf("%w: %s", ErrOutputNotEmpty, dir)
	}
	if err != nil && !errors.Is(err, fs.ErrNotExist) {
		return FilesystemOutput{}, err
	}
	err = os.MkdirAll(dir, 0777)
	if err != nil {
		return FilesystemOutput{}, err
	}
	return FilesystemOutput{directory: dir}, nil
}

func (o FilesystemOutput) Write(id string, contents string) {
	err := os.WriteFile(filepath.Join(o.directory, id), []byte(contents), 0600)
	if err != nil {
		slog.Warn("failed to write message info file", "id", id, "err", err)
	}
}
