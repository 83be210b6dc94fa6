//go:build darwin

package ioctx

import (
	"bufio"
	"context"
	"os/exec"
	"strings"
)

// enumerateDrives shells out to `mount` for the current mountpoints, then
// to `diskutil info` per mountpoint to classify APFS volumes. There is no
// ecosystem package for either; see DESIGN.md.
func enumerateDrives(ctx context.Context) (map[string]Drive, error) {
	out, err := exec.CommandContext(ctx, "mount").Output()
	if err != nil {
		return nil, err
	}

	drives := map[string]Drive{}
	scanner := bufio.NewScanner(strings.NewReader(string(out)))
	for scanner.Scan() {
		line := scanner.Text()
		onIdx := strings.Index(line, " on ")
		if onIdx < 0 {
			continue
		}
		device := line[:onIdx]
		rest := line[onIdx+len(" on "):]
		parenIdx := strings.LastIndex(rest, " (")
		mountpoint := rest
		if parenIdx >= 0 {
			mountpoint = rest[:parenIdx]
		}
		if mountpoint == "" {
			continue
		}
		drives[mountpoint] = Drive{
			DisplayName: device,
			Filesystem:  classifyDarwin(ctx, mountpoint),
		}
	}
	return drives, scanner.Err()
}

func classifyDarwin(ctx context.Context, mountpoint string) Filesystem {
	out, err := exec.CommandContext(ctx, "diskutil", "info", mountpoint).Output()
	if err != nil {
		return OTHER
	}
	if strings.Contains(string(out), "AppleAPFSMedia") {
		return APFS
	}
	return OTHER
}
