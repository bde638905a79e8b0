package tail

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
)

// DefaultBlockSize is the backward scan step used when callers pass a
// non-positive block size.
const DefaultBlockSize = 512

// Lines returns the last maxLines lines of r in file order.
//
// The scan is anchored to the size observed when Lines starts, so bytes
// appended concurrently are not included. A non-positive maxLines yields no
// lines. Errors from seeking or reading r are returned as-is, wrapped.
func Lines(r io.ReadSeeker, maxLines, blockSize int) ([]string, error) {
	if maxLines <= 0 {
		return nil, nil
	}
	if blockSize <= 0 {
		blockSize = DefaultBlockSize
	}

	size, err := r.Seek(0, io.SeekEnd)
	if err != nil {
		return nil, fmt.Errorf("seek end: %w", err)
	}
	if size == 0 {
		return nil, nil
	}

	var (
		chunks   [][]byte
		newlines int
		block    int64 = 1
	)
	// A partial leading line is only safe to drop once more than maxLines
	// breaks have been seen.
	for newlines <= maxLines {
		span := block * int64(blockSize)
		if span > size {
			data, err := readAll(r, size)
			if err != nil {
				return nil, err
			}
			return lastN(splitLines(data), maxLines), nil
		}

		offset := size - span
		if _, err := r.Seek(offset, io.SeekStart); err != nil {
			return nil, fmt.Errorf("seek offset %d: %w", offset, err)
		}
		chunk := make([]byte, blockSize)
		n, err := io.ReadFull(r, chunk)
		if err != nil && !errors.Is(err, io.ErrUnexpectedEOF) && !errors.Is(err, io.EOF) {
			return nil, fmt.Errorf("read block at %d: %w", offset, err)
		}
		chunk = chunk[:n]
		chunks = append(chunks, chunk)
		newlines += bytes.Count(chunk, []byte{'\n'})
		if offset == 0 {
			break
		}
		block++
	}

	data := make([]byte, 0, len(chunks)*blockSize)
	for i := len(chunks) - 1; i >= 0; i-- {
		data = append(data, chunks[i]...)
	}
	return lastN(splitLines(data), maxLines), nil
}

// ReadFile opens path, returns its last maxLines lines and closes it.
// A missing file surfaces as an error matching fs.ErrNotExist.
func ReadFile(path string, maxLines, blockSize int) ([]string, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open log file: %w", err)
	}
	defer file.Close()

	lines, err := Lines(file, maxLines, blockSize)
	if err != nil {
		return nil, fmt.Errorf("tail %s: %w", path, err)
	}
	return lines, nil
}

func readAll(r io.ReadSeeker, size int64) ([]byte, error) {
	if _, err := r.Seek(0, io.SeekStart); err != nil {
		return nil, fmt.Errorf("seek start: %w", err)
	}
	data, err := io.ReadAll(io.LimitReader(r, size))
	if err != nil {
		return nil, fmt.Errorf("read file: %w", err)
	}
	return data, nil
}

// splitLines breaks data on \n, \r\n and lone \r. A terminating break does
// not produce a trailing empty line.
func splitLines(data []byte) []string {
	var lines []string
	start := 0
	for i := 0; i < len(data); i++ {
		switch data[i] {
		case '\n':
			lines = append(lines, string(data[start:i]))
			start = i + 1
		case '\r':
			lines = append(lines, string(data[start:i]))
			if i+1 < len(data) && data[i+1] == '\n' {
				i++
			}
			start = i + 1
		}
	}
	if start < len(data) {
		lines = append(lines, string(data[start:]))
	}
	return lines
}

func lastN(lines []string, n int) []string {
	if len(lines) <= n {
		return lines
	}
	return lines[len(lines)-n:]
}
