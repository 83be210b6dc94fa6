//go:build darwin

package ioctx

import (
	"context"
	"os"
	"os/exec"

	"golang.org/x/sys/unix"
)

// platformCopyFile implements the macOS branch of the copy dispatch: on
// same-drive APFS, small files get a direct clonefile() reflink, larger
// files go through the platform's reflink-capable `cp -c`. Off-APFS or
// cross-drive copies fall back to a best-effort reflink attempt, per the
// "otherwise" bucket, then a portable copy.
func platformCopyFile(ctx context.Context, src, dst string, size int64, sameDrive bool, fs Filesystem) error {
	if sameDrive && fs == APFS {
		if size < smallFileThreshold {
			if err := unix.Clonefile(src, dst, 0); err == nil {
				return nil
			}
			return portableCopy(src, dst)
		}
		if err := exec.CommandContext(ctx, "cp", "-c", src, dst).Run(); err == nil {
			return nil
		}
		return portableCopy(src, dst)
	}

	if err := unix.Clonefile(src, dst, 0); err == nil {
		return nil
	}
	os.Remove(dst) // clonefile may leave a partial link target on some failures
	return portableCopy(src, dst)
}
