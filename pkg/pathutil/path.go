// Package pathutil normalizes repository-relative paths to a single,
// platform-independent forward-slash form.
package pathutil

import (
	"path"
	"strings"
)

// Normalize converts p to forward slashes, strips ".", and removes a
// trailing separator except on a bare root. Normalize("") and
// Normalize(".") both yield "".
func Normalize(p string) string {
	p = strings.ReplaceAll(p, "\\", "/")
	p = path.Clean(p)
	if p == "." {
		return ""
	}
	if p == "/" {
		return "/"
	}
	return strings.TrimSuffix(p, "/")
}

// Join joins elements, normalizing the result.
func Join(elem ...string) string {
	return Normalize(path.Join(elem...))
}

// Dirname returns the normalized parent of p.
func Dirname(p string) string {
	return Normalize(path.Dir(Normalize(p)))
}

// Resolve joins base and p then normalizes; p may be absolute, in which
// case base is discarded.
func Resolve(base, p string) string {
	p = strings.ReplaceAll(p, "\\", "/")
	if strings.HasPrefix(p, "/") {
		return Normalize(p)
	}
	return Join(base, p)
}

// Relative returns p expressed relative to base, both already normalized
// forward-slash paths. If p is not under base, p is returned unchanged.
func Relative(base, p string) string {
	base = Normalize(base)
	p = Normalize(p)
	if base == "" {
		return p
	}
	prefix := base + "/"
	if strings.HasPrefix(p, prefix) {
		return p[len(prefix):]
	}
	if p == base {
		return ""
	}
	return p
}
