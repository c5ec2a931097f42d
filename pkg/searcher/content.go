package searcher

import (
	"bufio"
	"bytes"
	"io"
	"regexp"
	"strings"
)

// contentScanner extracts line-level matches from one file at a time. The
// compiled pattern is shared across workers; regexp.Regexp is safe for
// concurrent use.
type contentScanner struct {
	re     *regexp.Regexp
	opener FileOpener
}

const scanBufSize = 64 * 1024

// scanFile reads the file line by line and returns one Match per matching
// line. A NUL byte anywhere in the bytes read so far marks the file as
// binary: scanning stops and any matches already recorded are discarded.
// This is the same leading-NUL heuristic grep tools use, not a guaranteed
// classifier. Open and read errors are returned so the caller can skip the
// file.
func (s *contentScanner) scanFile(path string) ([]Match, error) {
	f, err := s.opener.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	r := bufio.NewReaderSize(f, scanBufSize)
	var matches []Match
	var offset int64
	lineNumber := 0

	for {
		line, err := r.ReadBytes('\n')
		if len(line) > 0 {
			lineNumber++
			if bytes.IndexByte(line, 0) >= 0 {
				return nil, nil
			}
			trimmed := trimLineEnding(line)
			if s.re.Match(trimmed) {
				matches = append(matches, Match{
					LineNumber: lineNumber,
					ByteStart:  offset,
					ByteEnd:    offset + int64(len(trimmed)),
					Text:       decodeLine(trimmed),
				})
			}
			offset += int64(len(line))
		}
		if err != nil {
			if err == io.EOF {
				return matches, nil
			}
			return nil, err
		}
	}
}

func trimLineEnding(line []byte) []byte {
	line = bytes.TrimSuffix(line, []byte("\n"))
	return bytes.TrimSuffix(line, []byte("\r"))
}

// decodeLine converts line bytes to a string, replacing invalid UTF-8
// sequences instead of failing.
func decodeLine(line []byte) string {
	return strings.ToValidUTF8(string(line), "�")
}

func compilePattern(pattern string, ignoreCase bool) (*regexp.Regexp, error) {
	if ignoreCase {
		pattern = "(?i)" + pattern
	}
	re, err := regexp.Compile(pattern)
	if err != nil {
		return nil, err
	}
	return re, nil
}
