package frontmatter

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSplit_NoFrontmatter_ReturnsBodyOnly(t *testing.T) {
	input := []byte("# Title\n\nHello\n")

	fm, body, had, err := Split(input)
	require.NoError(t, err)
	require.False(t, had)
	require.Empty(t, fm)
	require.Equal(t, input, body)
}

func TestSplit_YAMLFrontmatter_SplitsFrontmatterAndBody(t *testing.T) {
	input := []byte("---\ntitle: Post\n---\n# Title\n")

	fm, body, had, err := Split(input)
	require.NoError(t, err)
	require.True(t, had)
	require.Equal(t, []byte("title: Post\n"), fm)
	require.Equal(t, []byte("# Title\n"), body)
}

func TestSplit_CRLF_SplitsFrontmatterAndBody(t *testing.T) {
	input := []byte("---\r\ntitle: Post\r\n---\r\n# Title\r\n")

	fm, body, had, err := Split(input)
	require.NoError(t, err)
	require.True(t, had)
	require.Equal(t, []byte("title: Post\r\n"), fm)
	require.Equal(t, []byte("# Title\r\n"), body)
}

func TestSplit_EmptyFrontmatterBlock(t *testing.T) {
	fm, body, had, err := Split([]byte("---\n---\n# Title\n"))
	require.NoError(t, err)
	require.True(t, had)
	require.Empty(t, fm)
	require.Equal(t, []byte("# Title\n"), body)
}

func TestSplit_ClosingDelimiterAtEOF(t *testing.T) {
	fm, body, had, err := Split([]byte("---\ntitle: Post\n---"))
	require.NoError(t, err)
	require.True(t, had)
	require.Equal(t, []byte("title: Post"), fm)
	require.Empty(t, body)
}

func TestSplit_MissingClosingDelimiter_ReturnsError(t *testing.T) {
	_, _, had, err := Split([]byte("---\ntitle: Post\n# Title\n"))
	require.ErrorIs(t, err, ErrMissingClosingDelimiter)
	require.False(t, had)
}

func TestParse_DecodesTypedValues(t *testing.T) {
	input := []byte("---\ntitle: Post\nog: true\ntags: [a, b]\npublished: 2020-01-02\nimage:\n  url: a.png\n  width: 1200\n---\nbody\n")

	fields, body, err := Parse(input)
	require.NoError(t, err)
	assert.Equal(t, []byte("body\n"), body)
	assert.Equal(t, "Post", fields["title"])
	assert.Equal(t, true, fields["og"])
	assert.Equal(t, []any{"a", "b"}, fields["tags"])
	assert.Equal(t, map[string]any{"url": "a.png", "width": 1200}, fields["image"])
	assert.NotNil(t, fields["published"])
}

func TestParse_InvalidYAML(t *testing.T) {
	_, _, err := Parse([]byte("---\ntitle: [unclosed\n---\nbody\n"))
	require.Error(t, err)
}

func TestCanonical_SortedAndStable(t *testing.T) {
	a, err := Canonical(map[string]any{"b": 1, "a": "x"})
	require.NoError(t, err)
	b, err := Canonical(map[string]any{"a": "x", "b": 1})
	require.NoError(t, err)

	assert.Equal(t, "a: x\nb: 1\n", string(a))
	assert.Equal(t, a, b)

	empty, err := Canonical(nil)
	require.NoError(t, err)
	assert.Empty(t, empty)
}
