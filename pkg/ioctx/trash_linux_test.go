//go:build linux

package ioctx

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestXDGTrash(t *testing.T) {
	dataHome := t.TempDir()
	t.Setenv("XDG_DATA_HOME", dataHome)

	workdir := t.TempDir()
	target := filepath.Join(workdir, "untracked.txt")
	if err := os.WriteFile(target, []byte("gone"), 0o644); err != nil {
		t.Fatal(err)
	}

	if err := xdgTrash(target); err != nil {
		t.Fatalf("xdgTrash: %v", err)
	}

	if _, err := os.Stat(target); !os.IsNotExist(err) {
		t.Fatalf("expected %s to be gone, stat err=%v", target, err)
	}

	filesDir := filepath.Join(dataHome, "Trash", "files")
	infoDir := filepath.Join(dataHome, "Trash", "info")

	entries, err := os.ReadDir(filesDir)
	if err != nil || len(entries) != 1 {
		t.Fatalf("expected one trashed file, got %v (err=%v)", entries, err)
	}
	if entries[0].Name() != "untracked.txt" {
		t.Errorf("trashed file name = %q", entries[0].Name())
	}

	data, err := os.ReadFile(filepath.Join(infoDir, "untracked.txt.trashinfo"))
	if err != nil {
		t.Fatalf("reading .trashinfo: %v", err)
	}
	if !strings.Contains(string(data), "Path="+target) {
		t.Errorf(".trashinfo missing original path: %s", data)
	}
}

func TestXDGTrashCollision(t *testing.T) {
	dataHome := t.TempDir()
	t.Setenv("XDG_DATA_HOME", dataHome)

	workdir := t.TempDir()
	for i := 0; i < 2; i++ {
		sub := filepath.Join(workdir, "run"+string(rune('a'+i)))
		if err := os.Mkdir(sub, 0o755); err != nil {
			t.Fatal(err)
		}
		target := filepath.Join(sub, "dup.txt")
		if err := os.WriteFile(target, []byte("x"), 0o644); err != nil {
			t.Fatal(err)
		}
		if err := xdgTrash(target); err != nil {
			t.Fatalf("xdgTrash #%d: %v", i, err)
		}
	}

	entries, err := os.ReadDir(filepath.Join(dataHome, "Trash", "files"))
	if err != nil || len(entries) != 2 {
		t.Fatalf("expected two distinct trashed entries, got %v (err=%v)", entries, err)
	}
}
