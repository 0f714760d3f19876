// Package artifact inspects task target files. It never creates, mutates or
// deletes them; that is left to the subprocess that produces them.
package artifact

import (
	"encoding/hex"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"time"

	"github.com/zeebo/blake3"
)

// Info describes a target path at one point in time.
type Info struct {
	Path    string
	Exists  bool
	ModTime time.Time
	Size    int64
}

// Stat reports whether path exists. A missing path is not an error.
func Stat(path string) (Info, error) {
	info := Info{Path: path}
	fi, err := os.Stat(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return info, nil
		}
		return info, fmt.Errorf("stat %s: %w", path, err)
	}
	if fi.IsDir() {
		return info, fmt.Errorf("target %s is a directory", path)
	}
	info.Exists = true
	info.ModTime = fi.ModTime()
	info.Size = fi.Size()
	return info, nil
}

// UpToDate applies make's rule: a missing target is stale, and an existing one
// is stale only if some prerequisite is newer. A missing prerequisite is an error.
func UpToDate(target string, prerequisites ...string) (bool, error) {
	t, err := Stat(target)
	if err != nil {
		return false, err
	}
	if !t.Exists {
		return false, nil
	}

	for _, p := range prerequisites {
		pi, err := Stat(p)
		if err != nil {
			return false, err
		}
		if !pi.Exists {
			return false, fmt.Errorf("prerequisite %s does not exist", p)
		}
		if pi.ModTime.After(t.ModTime) {
			return false, nil
		}
	}
	return true, nil
}

// Digest computes the hex BLAKE3-256 hash of a file.
func Digest(path string) (string, error) {
	f, err := os.Open(path)
	if err != nil {
		return "", fmt.Errorf("failed to open file: %w", err)
	}
	defer f.Close()

	h := blake3.New()
	if _, err := io.Copy(h, f); err != nil {
		return "", fmt.Errorf("failed to read file: %w", err)
	}
	return hex.EncodeToString(h.Sum(nil)), nil
}
