package restyutil

import (
	"log/slog"
	"os"
	"path/filepath"

	devenv "ccapi/dev/env"
)

// FilesystemOutput writes each message into its own file in a directory,
// the file name is the message id.
type FilesystemOutput struct {
	directory string
}

// NewFilesystemOutput clears and recreates dir, dir may start with
// <dev_state> to place it under the workspace's dev/.state directory.
func NewFilesystemOutput(dir string) (FilesystemOutput, error) {
	dir, err := devenv.ResolvePath(dir)
	if err != nil {
		return FilesystemOutput{}, err
	}
	err = os.RemoveAll(dir)
	if err != nil {
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
