//go:build linux

package ioctx

import (
	"bufio"
	"context"
	"os"
	"strings"
)

// enumerateDrives parses /proc/mounts. Linux filesystems are never
// distinguished beyond OTHER: the spec reserves reflink-aware
// classification for APFS and ReFS only, and copy_linux.go attempts a
// reflink unconditionally with a graceful fallback instead of gating on
// filesystem type.
func enumerateDrives(_ context.Context) (map[string]Drive, error) {
	f, err := os.Open("/proc/mounts")
	if err != nil {
		return nil, err
	}
	defer f.Close()

	drives := map[string]Drive{}
	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		fields := strings.Fields(scanner.Text())
		if len(fields) < 2 {
			continue
		}
		mountpoint := fields[1]
		if _, ok := drives[mountpoint]; ok {
			continue
		}
		drives[mountpoint] = Drive{DisplayName: fields[0], Filesystem: OTHER}
	}
	return drives, scanner.Err()
}
