package ignore

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMatcher_Defaults(t *testing.T) {
	tmpDir := t.TempDir()

	matcher, err := NewMatcher(tmpDir)
	require.NoError(t, err)

	tests := []struct {
		path     string
		shouldIg bool
	}{
		{".snow", true},
		{".git", true},
		{".git/HEAD", true},
		{"config.yaml", false},
		{".DS_Store", true},
		{"Thumbs.db", true},
		{"backup/old.bin", true},
		{"model.bkp", true},
		{"main.go", false},
		{"data/model.bin", false},
	}

	for _, tt := range tests {
		t.Run(tt.path, func(t *testing.T) {
			assert.Equal(t, tt.shouldIg, matcher.Ignored(tt.path), "path: %s", tt.path)
		})
	}
}

func TestMatcher_WithUserFileAndNegation(t *testing.T) {
	tmpDir := t.TempDir()

	ignoreContent := `
// a comment
*.log
temp
!important.log
`
	err := os.WriteFile(filepath.Join(tmpDir, IgnoreFileName), []byte(ignoreContent), 0644)
	require.NoError(t, err)

	matcher, err := NewMatcher(tmpDir)
	require.NoError(t, err)

	tests := []struct {
		path     string
		shouldIg bool
	}{
		{".snow", true},
		{"config.yaml", false},
		{"app.log", true},
		{"logs/error.log", true},
		{"temp", true},
		{"temp/file", true},
		{"main.go", false},
		{"important.log", false},
	}

	for _, tt := range tests {
		t.Run(tt.path, func(t *testing.T) {
			assert.Equal(t, tt.shouldIg, matcher.Ignored(tt.path), "path: %s", tt.path)
		})
	}
}

func TestMatcher_BlockComments(t *testing.T) {
	tmpDir := t.TempDir()
	content := "*.tmp /* ignore temp files */\n"
	err := os.WriteFile(filepath.Join(tmpDir, IgnoreFileName), []byte(content), 0644)
	require.NoError(t, err)

	matcher, err := NewMatcher(tmpDir)
	require.NoError(t, err)

	assert.True(t, matcher.Ignored("a.tmp"))
}
