//go:build windows

package ioctx

import (
	"context"
	"os/exec"

	"snow/pkg/snowerr"
)

// platformCopyFile implements the Windows branch: same-drive ReFS copies
// go through a reflink-enabled copy for small files, and a bundled
// block-clone PowerShell script for larger ones, falling back to the
// reflink-enabled copy if the script resource is missing. Anything else
// gets a portable copy directly; no reflink is attempted outside
// same-drive ReFS.
func platformCopyFile(ctx context.Context, src, dst string, size int64, sameDrive bool, fs Filesystem) error {
	if sameDrive && fs == REFS {
		if size < smallFileThreshold {
			return reflinkEnabledCopy(ctx, src, dst)
		}
		if err := blockCloneScript(ctx, src, dst); err != nil {
			if snowerr.Is(err, snowerr.HelperNotFound) {
				return reflinkEnabledCopy(ctx, src, dst)
			}
			return err
		}
		return nil
	}
	return portableCopy(src, dst)
}

// reflinkEnabledCopy invokes `xcopy /j` in single-file mode, which is
// ReFS block-clone aware on recent Windows, falling back to a plain copy
// if unavailable.
func reflinkEnabledCopy(ctx context.Context, src, dst string) error {
	if err := exec.CommandContext(ctx, "xcopy", src, dst, "/j", "/y").Run(); err == nil {
		return nil
	}
	return portableCopy(src, dst)
}

// blockCloneScript shells out to the bundled Clone-FileViaBlockClone.ps1
// helper, which performs an explicit ReFS block clone via PowerShell's
// storage cmdlets.
func blockCloneScript(ctx context.Context, src, dst string) error {
	script, err := resolveHelper("Clone-FileViaBlockClone.ps1")
	if err != nil {
		return err
	}
	cmd := exec.CommandContext(ctx, "powershell", "-NoProfile", "-ExecutionPolicy", "Bypass", "-File", script, src, dst)
	out, err := cmd.CombinedOutput()
	if err != nil {
		if exitErr, ok := asExitError(err); ok {
			return &snowerr.Error{Kind: snowerr.HelperExitNonZero, Op: "blockCloneScript", Path: script, ExitCode: exitErr, Stderr: string(out)}
		}
		return snowerr.Wrap(snowerr.IoError, "blockCloneScript", script, err)
	}
	return nil
}
