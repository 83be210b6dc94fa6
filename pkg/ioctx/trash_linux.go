//go:build linux

package ioctx

import (
	"fmt"
	"io"
	"net/url"
	"os"
	"path/filepath"
	"strconv"
	"syscall"
	"time"

	"snow/pkg/snowerr"
)

// xdgTrash implements the freedesktop.org Trash specification's "home
// trash" directory: $XDG_DATA_HOME/Trash (falling back to
// ~/.local/share/Trash), with files/ holding the moved content and
// info/ holding a <name>.trashinfo sidecar recording the original
// path and deletion time. This sidesteps the per-mountpoint
// $topdir/.Trash-$uid variant of the spec; checkout only ever trashes
// files already inside the repository's working directory, which in
// practice shares a filesystem with the user's home.
func xdgTrash(path string) error {
	trashDir, err := xdgTrashDir()
	if err != nil {
		return snowerr.Wrap(snowerr.IoError, "xdgTrash", path, err)
	}
	filesDir := filepath.Join(trashDir, "files")
	infoDir := filepath.Join(trashDir, "info")
	if err := os.MkdirAll(filesDir, 0o700); err != nil {
		return snowerr.Wrap(snowerr.IoError, "xdgTrash", filesDir, err)
	}
	if err := os.MkdirAll(infoDir, 0o700); err != nil {
		return snowerr.Wrap(snowerr.IoError, "xdgTrash", infoDir, err)
	}

	absPath, err := filepath.Abs(path)
	if err != nil {
		return snowerr.Wrap(snowerr.IoError, "xdgTrash", path, err)
	}

	name, err := trashReserveName(filesDir, filepath.Base(absPath))
	if err != nil {
		return snowerr.Wrap(snowerr.IoError, "xdgTrash", absPath, err)
	}

	infoPath := filepath.Join(infoDir, name+".trashinfo")
	info := fmt.Sprintf("[Trash Info]\nPath=%s\nDeletionDate=%s\n",
		trashEncodePath(absPath), time.Now().Format("2006-01-02T15:04:05"))
	if err := os.WriteFile(infoPath, []byte(info), 0o600); err != nil {
		return snowerr.Wrap(snowerr.IoError, "xdgTrash", infoPath, err)
	}

	destPath := filepath.Join(filesDir, name)
	if err := os.Rename(absPath, destPath); err != nil {
		if linkErr, ok := err.(*os.LinkError); ok && linkErr.Err == syscall.EXDEV {
			if err := trashCopyAcrossDevices(absPath, destPath); err != nil {
				os.Remove(infoPath)
				return snowerr.Wrap(snowerr.IoError, "xdgTrash", absPath, err)
			}
			return nil
		}
		os.Remove(infoPath)
		return snowerr.Wrap(snowerr.IoError, "xdgTrash", absPath, err)
	}
	return nil
}

func xdgTrashDir() (string, error) {
	if dataHome := os.Getenv("XDG_DATA_HOME"); dataHome != "" {
		return filepath.Join(dataHome, "Trash"), nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ".local", "share", "Trash"), nil
}

// trashReserveName finds a name under filesDir not already taken,
// appending " (n)" the way most trash implementations disambiguate
// collisions rather than overwriting an earlier deletion of the same
// basename.
func trashReserveName(filesDir, base string) (string, error) {
	candidate := base
	for n := 1; ; n++ {
		if _, err := os.Lstat(filepath.Join(filesDir, candidate)); os.IsNotExist(err) {
			return candidate, nil
		} else if err != nil {
			return "", err
		}
		ext := filepath.Ext(base)
		stem := base[:len(base)-len(ext)]
		candidate = stem + " (" + strconv.Itoa(n) + ")" + ext
	}
}

func trashEncodePath(absPath string) string {
	u := &url.URL{Path: absPath}
	return u.EscapedPath()
}

func trashCopyAcrossDevices(src, dst string) error {
	in, err := os.Open(src)
	if err != nil {
		return err
	}
	defer in.Close()

	fi, err := in.Stat()
	if err != nil {
		return err
	}

	out, err := os.OpenFile(dst, os.O_WRONLY|os.O_CREATE|os.O_EXCL, fi.Mode().Perm())
	if err != nil {
		return err
	}
	if _, err := io.Copy(out, in); err != nil {
		out.Close()
		os.Remove(dst)
		return err
	}
	if err := out.Close(); err != nil {
		os.Remove(dst)
		return err
	}
	return os.Remove(src)
}
