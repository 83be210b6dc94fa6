package ioctx

import (
	"context"
	"os"
	"path/filepath"
	"testing"
)

func TestFilesystemString(t *testing.T) {
	cases := map[Filesystem]string{APFS: "APFS", REFS: "REFS", NTFS: "NTFS", FAT32: "FAT32", FAT16: "FAT16", OTHER: "OTHER"}
	for fs, want := range cases {
		if got := fs.String(); got != want {
			t.Errorf("Filesystem(%d).String() = %q, want %q", fs, got, want)
		}
	}
}

func TestSortLongestFirst(t *testing.T) {
	mounts := []string{"/", "/mnt/data", "/mnt"}
	sortLongestFirst(mounts)
	if mounts[0] != "/mnt/data" {
		t.Errorf("expected /mnt/data first, got %v", mounts)
	}
}

func TestAreFilesOnSameDrive(t *testing.T) {
	c := &Context{
		mountpoints: []string{"/mnt/data", "/"},
		drives: map[string]Drive{
			"/mnt/data": {DisplayName: "data", Filesystem: OTHER},
			"/":         {DisplayName: "root", Filesystem: OTHER},
		},
	}

	if !c.AreFilesOnSameDrive("/mnt/data/a", "/mnt/data/b") {
		t.Error("expected files under the same mountpoint to be on the same drive")
	}
	if c.AreFilesOnSameDrive("/mnt/data/a", "/tmp/b") {
		t.Error("expected files under different mountpoint depths to differ")
	}
}

func TestIsSystemReserved(t *testing.T) {
	if !isSystemReserved("/System/Volumes/Data") {
		t.Error("expected /System/... to be reserved")
	}
	if isSystemReserved("/mnt/data") {
		t.Error("did not expect /mnt/data to be reserved")
	}
}

func TestCopyFileRoundTrip(t *testing.T) {
	dir := t.TempDir()
	src := filepath.Join(dir, "src.bin")
	dst := filepath.Join(dir, "dst.bin")
	if err := os.WriteFile(src, []byte("hello world"), 0o644); err != nil {
		t.Fatal(err)
	}

	ctx, err := New(context.Background())
	if err != nil {
		t.Fatalf("New: %v", err)
	}

	if err := ctx.CopyFile(context.Background(), src, dst); err != nil {
		t.Fatalf("CopyFile: %v", err)
	}

	got, err := os.ReadFile(dst)
	if err != nil {
		t.Fatal(err)
	}
	if string(got) != "hello world" {
		t.Errorf("copied content = %q", got)
	}
}
