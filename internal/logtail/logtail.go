package logtail

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
)

const chunkSize = 8 * 1024

// Read returns at most maxLines from the end of the file at path, oldest
// first. maxLines <= 0 returns every line. A missing file yields no lines.
func Read(path string, maxLines int) ([]string, error) {
	file, err := os.Open(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, nil
		}
		return nil, fmt.Errorf("open log: %w", err)
	}
	defer file.Close()

	info, err := file.Stat()
	if err != nil {
		return nil, fmt.Errorf("stat log: %w", err)
	}

	// Walk backwards in chunks until enough newlines have been seen.
	var tail []byte
	offset := info.Size()
	for offset > 0 {
		if maxLines > 0 && bytes.Count(bytes.TrimRight(tail, "\n"), []byte{'\n'}) >= maxLines {
			break
		}
		n := int64(chunkSize)
		if offset < n {
			n = offset
		}
		offset -= n
		buf := make([]byte, n)
		if _, err := file.ReadAt(buf, offset); err != nil && !errors.Is(err, io.EOF) {
			return nil, fmt.Errorf("read log: %w", err)
		}
		tail = append(buf, tail...)
	}

	trimmed := bytes.TrimRight(tail, "\n")
	if len(trimmed) == 0 {
		return nil, nil
	}
	parts := bytes.Split(trimmed, []byte{'\n'})
	if maxLines > 0 && len(parts) > maxLines {
		parts = parts[len(parts)-maxLines:]
	}
	lines := make([]string, len(parts))
	for i, p := range parts {
		lines[i] = string(bytes.TrimSuffix(p, []byte{'\r'}))
	}
	return lines, nil
}
