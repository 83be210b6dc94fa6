// Package ignore decides whether a relative path should be excluded from
// scanning, status, and commits.
package ignore

import (
	"bufio"
	"os"
	"path/filepath"
	"regexp"
	"strings"

	gitignore "github.com/sabhiram/go-gitignore"
)

// IgnoreFileName is the user-supplied ignore file looked up at the
// repository root, analogous to .gitignore.
const IgnoreFileName = ".snowignore"

// defaultRules are enforced unconditionally, independent of any user file.
var defaultRules = []string{
	"**/.DS_Store",
	"**/thumbs.db",
	"**/.git",
	"**/.git/**",
	"**/.snowignore",
	"**/backup/**",
	"**/*.bkp",
	"**/tmp/**",
	"**/cache/**",
	"**/*.lnk",
	"**/*.log",
	"**/.idea/**",
	"**/.Spotlight-V100",
	"**/*.blend[0-9]+",
	"**/.snow",
}

// Matcher decides whether a path is ignored, combining the built-in
// defaults with an optional user-supplied ignore file.
type Matcher struct {
	ignorer *gitignore.GitIgnore
}

// NewMatcher builds a Matcher for the repository rooted at rootPath,
// loading <rootPath>/.snowignore if present.
func NewMatcher(rootPath string) (*Matcher, error) {
	lines := append([]string{}, defaultRules...)

	ignoreFilePath := filepath.Join(rootPath, IgnoreFileName)
	if _, err := os.Stat(ignoreFilePath); err == nil {
		userLines, err := loadFile(ignoreFilePath)
		if err != nil {
			return nil, err
		}
		lines = append(lines, userLines...)
	}

	for i, line := range lines {
		lines[i] = strings.ToLower(line)
	}

	return &Matcher{ignorer: gitignore.CompileIgnoreLines(lines...)}, nil
}

var blockComment = regexp.MustCompile(`/\*.*?\*/`)

// loadFile reads an ignore file, stripping comments and blank lines, and
// expanding each non-directory pattern with an implicit sibling that also
// matches it as a directory.
func loadFile(path string) ([]string, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	var out []string
	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		line := scanner.Text()
		line = blockComment.ReplaceAllString(line, "")
		if idx := strings.Index(line, "//"); idx >= 0 {
			line = line[:idx]
		}
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}

		out = append(out, line)

		negated := strings.HasPrefix(line, "!")
		bare := strings.TrimPrefix(line, "!")
		if !strings.HasSuffix(bare, "/") {
			dirPattern := bare + "/**"
			if negated {
				dirPattern = "!" + dirPattern
			}
			out = append(out, dirPattern)
		}
	}
	return out, scanner.Err()
}

// Ignored reports whether p, a path relative to the repository root, is
// excluded by the built-in or user-supplied patterns.
func (m *Matcher) Ignored(p string) bool {
	if m == nil || m.ignorer == nil {
		return false
	}
	return m.ignorer.MatchesPath(strings.ToLower(p))
}
