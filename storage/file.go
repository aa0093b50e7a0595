// Package storage writes generated artifacts to flat files.
//
// Files are written through a temporary file in the same directory and
// renamed into place, so readers never observe a partially written file and
// two writers of identical bytes leave the same content behind.
package storage

import (
	"bytes"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
)

// Mode selects what happens when the target file already exists.
type Mode int

const (
	// ModeOverwrite replaces the file. Last writer wins.
	ModeOverwrite Mode = iota

	// ModeWriteOnce creates the file if absent. An existing file with
	// identical bytes is left alone; different bytes fail with
	// ErrContentConflict.
	ModeWriteOnce
)

// String returns the config spelling of the mode.
func (m Mode) String() string {
	switch m {
	case ModeOverwrite:
		return "overwrite"
	case ModeWriteOnce:
		return "write_once"
	default:
		return fmt.Sprintf("Mode(%d)", int(m))
	}
}

// ParseMode parses "overwrite" or "write_once". An empty string selects
// ModeOverwrite.
func ParseMode(s string) (Mode, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "overwrite":
		return ModeOverwrite, nil
	case "write_once", "write-once":
		return ModeWriteOnce, nil
	default:
		return ModeOverwrite, fmt.Errorf("unknown publish mode %q (want overwrite or write_once)", s)
	}
}

// WriteFile creates dir if needed and writes data to dir/name according to
// mode. It returns the path of the file.
func WriteFile(dir, name string, data []byte, mode Mode) (string, error) {
	if name == "" || name != filepath.Base(name) || name == "." || name == ".." {
		return "", fmt.Errorf("%w: %q", ErrInvalidName, name)
	}
	if err := os.MkdirAll(dir, 0755); err != nil {
		return "", fmt.Errorf("create directory %s: %w", dir, err)
	}
	path := filepath.Join(dir, name)

	switch mode {
	case ModeOverwrite:
	case ModeWriteOnce:
		existing, err := os.ReadFile(path)
		switch {
		case err == nil:
			if !bytes.Equal(existing, data) {
				return "", fmt.Errorf("%w: %s", ErrContentConflict, path)
			}
			return path, nil
		case !errors.Is(err, fs.ErrNotExist):
			return "", fmt.Errorf("read %s: %w", path, err)
		}
	default:
		return "", fmt.Errorf("write %s: unknown mode %v", path, mode)
	}

	if err := writeAtomic(dir, path, data); err != nil {
		return "", err
	}
	return path, nil
}

func writeAtomic(dir, path string, data []byte) error {
	tmp, err := os.CreateTemp(dir, "."+filepath.Base(path)+".*.tmp")
	if err != nil {
		return fmt.Errorf("create temp file for %s: %w", path, err)
	}
	tmpName := tmp.Name()

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		return fmt.Errorf("write %s: %w", path, err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("close %s: %w", path, err)
	}
	if err := os.Chmod(tmpName, 0644); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("chmod %s: %w", path, err)
	}
	if err := os.Rename(tmpName, path); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("rename %s: %w", path, err)
	}
	return nil
}
