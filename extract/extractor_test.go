package extract

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeFile(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
	return path
}

func TestFileExtractorText(t *testing.T) {
	path := writeFile(t, "notes.txt", "plain text body")

	text, err := NewFileExtractor().Extract(context.Background(), path)
	require.NoError(t, err)
	assert.Equal(t, "plain text body", text)
}

func TestFileExtractorMarkdown(t *testing.T) {
	path := writeFile(t, "readme.md", "# Title\n\nBody with [[Linked Note]].")

	text, err := NewFileExtractor().Extract(context.Background(), path)
	require.NoError(t, err)
	assert.Contains(t, text, "[[Linked Note]]")
}

func TestFileExtractorUnsupportedFormat(t *testing.T) {
	path := writeFile(t, "binary.xyz", "\x00\x01\x02")

	text, err := NewFileExtractor().Extract(context.Background(), path)
	require.NoError(t, err)
	assert.Empty(t, text)
}

func TestFileExtractorMissingFile(t *testing.T) {
	_, err := NewFileExtractor().Extract(context.Background(), filepath.Join(t.TempDir(), "absent.txt"))
	assert.Error(t, err)
}

func TestFormatTag(t *testing.T) {
	assert.Equal(t, "text", FormatTag("a/b/doc.txt"))
	assert.Equal(t, "markdown", FormatTag("doc.MD"))
	assert.Equal(t, "unknown", FormatTag("doc.pdf"))
}

func TestWikiLinks(t *testing.T) {
	text := "See [[Alpha]] and [[Beta]], then [[Alpha]] again."
	assert.Equal(t, []string{"Alpha", "Beta"}, WikiLinks(text))

	assert.Nil(t, WikiLinks("no links here"))
}
