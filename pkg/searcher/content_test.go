package searcher

import (
	"os"
	"path/filepath"
	"regexp"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func scanTestFile(t *testing.T, content, pattern string) []Match {
	t.Helper()
	path := filepath.Join(t.TempDir(), "f.txt")
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))

	s := &contentScanner{re: regexp.MustCompile(pattern), opener: osOpener{}}
	matches, err := s.scanFile(path)
	require.NoError(t, err)
	return matches
}

func TestScanFileLineNumbersAndOffsets(t *testing.T) {
	matches := scanTestFile(t, "alpha\nbeta\ngamma beta\n", "beta")

	require.Len(t, matches, 2)

	assert.Equal(t, 2, matches[0].LineNumber)
	assert.Equal(t, int64(6), matches[0].ByteStart)
	assert.Equal(t, int64(10), matches[0].ByteEnd)
	assert.Equal(t, "beta", matches[0].Text)

	assert.Equal(t, 3, matches[1].LineNumber)
	assert.Equal(t, int64(11), matches[1].ByteStart)
	assert.Equal(t, int64(21), matches[1].ByteEnd)
	assert.Equal(t, "gamma beta", matches[1].Text)
}

func TestScanFileNoTrailingNewline(t *testing.T) {
	matches := scanTestFile(t, "foo\nbar", "bar")

	require.Len(t, matches, 1)
	assert.Equal(t, 2, matches[0].LineNumber)
	assert.Equal(t, int64(4), matches[0].ByteStart)
	assert.Equal(t, int64(7), matches[0].ByteEnd)
}

func TestScanFileCRLFOffsets(t *testing.T) {
	matches := scanTestFile(t, "one\r\ntwo\r\n", "two")

	require.Len(t, matches, 1)
	assert.Equal(t, 2, matches[0].LineNumber)
	// The CR is part of the first line's on-disk bytes but not the match.
	assert.Equal(t, int64(5), matches[0].ByteStart)
	assert.Equal(t, int64(8), matches[0].ByteEnd)
	assert.Equal(t, "two", matches[0].Text)
}

func TestScanFileBinaryShortCircuit(t *testing.T) {
	matches := scanTestFile(t, "match\x00me\nmatch again\n", "match")
	assert.Empty(t, matches, "NUL on the first line marks the file binary")
}

func TestScanFileBinaryDiscardsEarlierMatches(t *testing.T) {
	matches := scanTestFile(t, "match first\nbin\x00ary\n", "match")
	assert.Empty(t, matches, "a NUL later in the file discards prior matches")
}

func TestScanFileInvalidUTF8Replaced(t *testing.T) {
	matches := scanTestFile(t, "ok \xff\xfe match\n", "match")

	require.Len(t, matches, 1)
	// ToValidUTF8 collapses each run of invalid bytes into one replacement.
	assert.Equal(t, "ok � match", matches[0].Text)
}

func TestScanFileOpenError(t *testing.T) {
	s := &contentScanner{re: regexp.MustCompile("x"), opener: osOpener{}}
	_, err := s.scanFile(filepath.Join(t.TempDir(), "does-not-exist"))
	assert.Error(t, err)
}

func TestCompilePatternIgnoreCase(t *testing.T) {
	re, err := compilePattern("foo", true)
	require.NoError(t, err)
	assert.True(t, re.MatchString("FOO"))

	re, err = compilePattern("foo", false)
	require.NoError(t, err)
	assert.False(t, re.MatchString("FOO"))

	_, err = compilePattern("(unclosed", false)
	assert.Error(t, err)
}
