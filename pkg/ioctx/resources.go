package ioctx

import (
	"os"
	"path/filepath"

	"snow/pkg/snowerr"
)

// resourceDir is an optional process-wide override for where bundled
// helper executables live, set once by SetResourceDir. Most callers
// should prefer threading a resource directory through construction, but
// a process-wide fallback exists for call sites that can't.
var resourceDir string

// SetResourceDir overrides the bundled-resource search path. It is a
// one-shot setter: the first call wins, later calls are no-ops. This
// mirrors the process-wide trashExecPath override used for the trash
// helper specifically.
func SetResourceDir(dir string) {
	if resourceDir == "" {
		resourceDir = dir
	}
}

// resolveHelper locates a bundled helper executable by name, searching
// <SetResourceDir override>/<name> (if set), then
// <executable-dir>/resources/<name>, then <cwd>/resources/<name>. The
// module's own source directory is not searched.
func resolveHelper(name string) (string, error) {
	if resourceDir != "" {
		candidate := filepath.Join(resourceDir, name)
		if _, err := os.Stat(candidate); err == nil {
			return candidate, nil
		}
	}

	if exe, err := os.Executable(); err == nil {
		candidate := filepath.Join(filepath.Dir(exe), "resources", name)
		if _, err := os.Stat(candidate); err == nil {
			return candidate, nil
		}
	}

	if wd, err := os.Getwd(); err == nil {
		candidate := filepath.Join(wd, "resources", name)
		if _, err := os.Stat(candidate); err == nil {
			return candidate, nil
		}
	}

	return "", snowerr.New(snowerr.HelperNotFound, "resolveHelper", name)
}
