package chunker

import (
	"strings"
	"testing"
	"unicode/utf8"

	"github.com/sefirot-labs/sefirot/core"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewValidation(t *testing.T) {
	tests := []struct {
		name       string
		targetSize int
		overlap    int
		wantErr    bool
	}{
		{"valid", 512, 50, false},
		{"zero overlap", 512, 0, false},
		{"zero size", 0, 0, true},
		{"negative size", -1, 0, true},
		{"negative overlap", 512, -1, true},
		{"overlap equals size", 100, 100, true},
		{"overlap exceeds size", 100, 150, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c, err := New(tt.targetSize, tt.overlap)
			if tt.wantErr {
				assert.ErrorIs(t, err, core.ErrInvalidConfiguration)
				assert.Nil(t, c)
			} else {
				require.NoError(t, err)
				assert.NotNil(t, c)
			}
		})
	}
}

func TestChunkEmptyText(t *testing.T) {
	c, err := New(512, 50)
	require.NoError(t, err)

	assert.Empty(t, c.Chunk(""))
	assert.Empty(t, c.Chunk("   \n\t  "))
}

func TestChunkShortText(t *testing.T) {
	c, err := New(512, 50)
	require.NoError(t, err)

	chunks := c.Chunk("A short sentence.")
	require.Len(t, chunks, 1)
	assert.Equal(t, "A short sentence.", chunks[0])
}

func TestChunkThousandCharacters(t *testing.T) {
	c, err := New(512, 50)
	require.NoError(t, err)

	// 1000 characters, no sentence punctuation.
	text := strings.Repeat("abcdefghi ", 100)
	require.Len(t, text, 1000)

	chunks := c.Chunk(text)
	require.Len(t, chunks, 2)
	assert.NotEmpty(t, chunks[0])
	assert.NotEmpty(t, chunks[1])

	// The second window starts at or before 512-50=462.
	secondStart := strings.Index(text, chunks[1])
	require.GreaterOrEqual(t, secondStart, 0)
	assert.LessOrEqual(t, secondStart, 462)
}

func TestChunkDeterministic(t *testing.T) {
	c, err := New(128, 16)
	require.NoError(t, err)

	text := strings.Repeat("The quick brown fox jumps over the lazy dog. ", 30)

	first := c.Chunk(text)
	second := c.Chunk(text)
	assert.Equal(t, first, second)
}

func TestChunkBreaksAtSentenceBoundary(t *testing.T) {
	c, err := New(100, 10)
	require.NoError(t, err)

	// A period sits in the second half of the first window; the first chunk
	// must end just after it instead of at the raw 100-char cut.
	text := strings.Repeat("x", 70) + ". " + strings.Repeat("y", 300)

	chunks := c.Chunk(text)
	require.NotEmpty(t, chunks)
	assert.True(t, strings.HasSuffix(chunks[0], "."), "first chunk should end at the sentence boundary, got %q", chunks[0])
	assert.Len(t, chunks[0], 71)
}

func TestChunkNoCharactersInvented(t *testing.T) {
	c, err := New(64, 8)
	require.NoError(t, err)

	text := strings.Repeat("Pack my box with five dozen liquor jugs! ", 20)
	for _, chunk := range c.Chunk(text) {
		assert.Contains(t, text, chunk)
	}
}

func TestChunkAlwaysAdvances(t *testing.T) {
	// overlap one less than size is the worst case for the advance guard
	c, err := New(4, 3)
	require.NoError(t, err)

	chunks := c.Chunk("abcdefghij")
	assert.NotEmpty(t, chunks)
	// Finite output proves the walk terminated despite overlap >= window
	// remainder on each step.
	assert.LessOrEqual(t, len(chunks), 10)
}

func TestChunkNeverSplitsMultiByteRunes(t *testing.T) {
	c, err := New(4, 1)
	require.NoError(t, err)

	// Every character is three bytes; byte-indexed windows would cut
	// mid-sequence.
	text := strings.Repeat("日本語だ", 3)
	chunks := c.Chunk(text)
	require.NotEmpty(t, chunks)

	for _, chunk := range chunks {
		assert.True(t, utf8.ValidString(chunk), "chunk %q is not valid UTF-8", chunk)
		assert.LessOrEqual(t, utf8.RuneCountInString(chunk), 4)
	}
}

func TestChunkWindowsCountCharactersNotBytes(t *testing.T) {
	c, err := New(4, 1)
	require.NoError(t, err)

	chunks := c.Chunk("ααααββββ")
	require.NotEmpty(t, chunks)
	assert.Equal(t, "αααα", chunks[0])
}

func TestChunkOverlapSharesText(t *testing.T) {
	c, err := New(100, 20)
	require.NoError(t, err)

	text := strings.Repeat("q", 250)
	chunks := c.Chunk(text)
	require.GreaterOrEqual(t, len(chunks), 2)

	// Consecutive chunks share the overlap region.
	tail := chunks[0][len(chunks[0])-20:]
	assert.True(t, strings.HasPrefix(chunks[1], tail))
}
