package ioctx

import (
	"io"
	"os"

	"snow/pkg/snowerr"
)

// smallFileThreshold is the size below which the APFS/ReFS branches
// prefer a direct reflink call over shelling out to a platform tool;
// small-file reflinks have higher relative overhead than a plain copy on
// these filesystems (observed empirically), so the tool path is reserved
// for larger files.
const smallFileThreshold = 1 << 20 // 1 MB

// portableCopy is the fallback used on every platform when a
// copy-on-write reflink isn't available or is rejected by the kernel or
// filesystem.
func portableCopy(src, dst string) error {
	in, err := os.Open(src)
	if err != nil {
		return snowerr.Wrap(snowerr.IoError, "copyFile", src, err)
	}
	defer in.Close()

	info, err := in.Stat()
	if err != nil {
		return snowerr.Wrap(snowerr.IoError, "copyFile", src, err)
	}

	out, err := os.OpenFile(dst, os.O_WRONLY|os.O_CREATE|os.O_TRUNC, info.Mode().Perm())
	if err != nil {
		return snowerr.Wrap(snowerr.IoError, "copyFile", dst, err)
	}
	defer out.Close()

	if _, err := io.Copy(out, in); err != nil {
		return snowerr.Wrap(snowerr.IoError, "copyFile", dst, err)
	}
	return out.Close()
}

// asExitError extracts the process exit code from err, if err (or
// something it wraps) carries one.
func asExitError(err error) (int, bool) {
	type exitCoder interface{ ExitCode() int }
	if ee, ok := err.(exitCoder); ok {
		return ee.ExitCode(), true
	}
	return 0, false
}
