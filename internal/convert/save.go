// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package convert

import (
	"io"
	"os"
	"path/filepath"

	"github.com/atotto/clipboard"
	"github.com/rotisserie/eris"
)

// FileSaver writes conversions into Dir. Each file is written to a temporary
// file first and renamed into place, so a partial write never leaves a
// truncated markdown file behind.
type FileSaver struct {
	Dir string
}

// Path returns where filename will be written.
func (f FileSaver) Path(filename string) string {
	return filepath.Join(f.Dir, filepath.Base(filename))
}

// SaveTextFile implements Saver.
func (f FileSaver) SaveTextFile(filename, _ string, content string) error {
	dir := f.Dir
	if dir == "" {
		dir = "."
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return eris.Wrapf(err, "creating directory %s", dir)
	}

	tmpFile, err := os.CreateTemp(dir, ".url2md-*.tmp")
	if err != nil {
		return eris.Wrap(err, "creating temp file")
	}
	tmpPath := tmpFile.Name()

	_, writeErr := io.WriteString(tmpFile, content)
	closeErr := tmpFile.Close()
	if writeErr != nil {
		os.Remove(tmpPath)
		return eris.Wrap(writeErr, "writing markdown")
	}
	if closeErr != nil {
		os.Remove(tmpPath)
		return eris.Wrap(closeErr, "closing temp file")
	}

	if err := os.Chmod(tmpPath, 0o644); err != nil {
		os.Remove(tmpPath)
		return eris.Wrap(err, "setting file mode")
	}
	if err := os.Rename(tmpPath, f.Path(filename)); err != nil {
		os.Remove(tmpPath)
		return eris.Wrap(err, "renaming temp file")
	}
	return nil
}

// WriterSaver streams the markdown body to W and ignores the file name.
type WriterSaver struct {
	W io.Writer
}

// SaveTextFile implements Saver.
func (w WriterSaver) SaveTextFile(_, _ string, content string) error {
	_, err := io.WriteString(w.W, content)
	return eris.Wrap(err, "writing markdown")
}

// ClipboardSaver places the markdown body on the system clipboard.
type ClipboardSaver struct{}

// SaveTextFile implements Saver.
func (ClipboardSaver) SaveTextFile(_, _ string, content string) error {
	if clipboard.Unsupported {
		return eris.New("clipboard is not supported on this system")
	}
	return eris.Wrap(clipboard.WriteAll(content), "writing clipboard")
}
