package ioctx

import (
	"context"
	"os"
	"os/exec"
	"runtime"

	"snow/pkg/snowerr"
)

// trashExecPath is a process-wide override for the trash helper's
// location, guarded by a one-shot setter. Prefer SetResourceDir (threaded
// through construction) where possible; this exists for callers that
// can't.
var trashExecPath string

// SetTrashExecPath overrides the trash helper's path. First call wins.
func SetTrashExecPath(path string) {
	if trashExecPath == "" {
		trashExecPath = path
	}
}

func trashHelperName() (string, bool) {
	switch runtime.GOOS {
	case "darwin":
		return "trash", true
	case "windows":
		return "recycle-bin.exe", true
	default:
		return "", false
	}
}

func putToTrash(ctx context.Context, path string) error {
	if _, err := os.Stat(path); err != nil {
		return snowerr.Wrap(snowerr.IoError, "putToTrash", path, err)
	}

	// Linux has no single trash helper worth bundling: desktop
	// environments disagree on one (gio, trash-cli, kioclient5, ...),
	// and none of them is guaranteed present on a headless box. The
	// freedesktop.org trash spec is implementable directly, so do that
	// instead of shelling out.
	if runtime.GOOS == "linux" {
		return xdgTrash(path)
	}

	helperPath := trashExecPath
	if helperPath == "" {
		name, ok := trashHelperName()
		if !ok {
			return snowerr.New(snowerr.UnsupportedPlatform, "putToTrash", path)
		}
		resolved, err := resolveHelper(name)
		if err != nil {
			return err
		}
		helperPath = resolved
	}

	cmd := exec.CommandContext(ctx, helperPath, path)
	out, err := cmd.CombinedOutput()
	if err != nil {
		if exitCode, ok := asExitError(err); ok {
			return &snowerr.Error{Kind: snowerr.HelperExitNonZero, Op: "putToTrash", Path: helperPath, ExitCode: exitCode, Stderr: string(out)}
		}
		return snowerr.Wrap(snowerr.IoError, "putToTrash", helperPath, err)
	}
	return nil
}
