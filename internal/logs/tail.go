package logs

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"time"
)

// TailOptions controls how much history Tail emits and whether it keeps
// following the file afterwards.
type TailOptions struct {
	// Limit is how many trailing lines to emit initially. Zero emits none.
	Limit int
	// Follow keeps polling for appended lines until the context ends.
	Follow bool
	// Poll is the follow interval. Zero uses a 250ms default.
	Poll time.Duration
}

// Tail emits the last opts.Limit lines of the file through emit, then, when
// opts.Follow is set, keeps emitting lines appended to the file until the
// context is cancelled. A missing file is not an error; in follow mode Tail
// waits for it to appear.
func Tail(ctx context.Context, path string, opts TailOptions, emit func(line string)) error {
	if emit == nil {
		return errors.New("emit callback required")
	}
	if info, err := os.Stat(path); err == nil && info.IsDir() {
		return fmt.Errorf("log path %q is a directory", path)
	}

	lines, offset, err := readLastLines(path, opts.Limit)
	if err != nil {
		return err
	}
	for _, line := range lines {
		emit(line)
	}
	if !opts.Follow {
		return nil
	}

	poll := opts.Poll
	if poll <= 0 {
		poll = 250 * time.Millisecond
	}
	ticker := time.NewTicker(poll)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
		}

		appended, newOffset, err := readFrom(path, offset)
		if err != nil {
			return err
		}
		// A shrinking file means rotation; start over from the top.
		if newOffset < offset {
			offset = 0
			continue
		}
		offset = newOffset
		for _, line := range appended {
			emit(line)
		}
	}
}

// readLastLines returns up to limit trailing lines and the end-of-file
// offset. A missing file yields no lines and offset zero.
func readLastLines(path string, limit int) ([]string, int64, error) {
	file, err := os.Open(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, 0, nil
		}
		return nil, 0, fmt.Errorf("open log file: %w", err)
	}
	defer file.Close()

	if limit <= 0 {
		offset, err := file.Seek(0, io.SeekEnd)
		if err != nil {
			return nil, 0, fmt.Errorf("seek log file: %w", err)
		}
		return nil, offset, nil
	}

	scanner := bufio.NewScanner(file)
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)

	ring := make([]string, limit)
	count := 0
	idx := 0
	for scanner.Scan() {
		ring[idx] = scanner.Text()
		idx = (idx + 1) % limit
		if count < limit {
			count++
		}
	}
	if err := scanner.Err(); err != nil {
		return nil, 0, fmt.Errorf("read log file: %w", err)
	}

	offset, err := file.Seek(0, io.SeekEnd)
	if err != nil {
		return nil, 0, fmt.Errorf("seek log file: %w", err)
	}

	lines := make([]string, count)
	if count == limit {
		for i := 0; i < count; i++ {
			lines[i] = ring[(idx+i)%limit]
		}
	} else {
		copy(lines, ring[:count])
	}
	return lines, offset, nil
}

// readFrom returns the complete lines appended after offset and the new
// end-of-file offset.
func readFrom(path string, offset int64) ([]string, int64, error) {
	file, err := os.Open(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, 0, nil
		}
		return nil, 0, fmt.Errorf("open log file: %w", err)
	}
	defer file.Close()

	info, err := file.Stat()
	if err != nil {
		return nil, 0, fmt.Errorf("stat log file: %w", err)
	}
	if offset > info.Size() {
		return nil, info.Size(), nil
	}

	if _, err := file.Seek(offset, io.SeekStart); err != nil {
		return nil, 0, fmt.Errorf("seek log file: %w", err)
	}

	scanner := bufio.NewScanner(file)
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)
	var lines []string
	for scanner.Scan() {
		lines = append(lines, scanner.Text())
	}
	if err := scanner.Err(); err != nil {
		return nil, 0, fmt.Errorf("read log file: %w", err)
	}

	newOffset, err := file.Seek(0, io.SeekCurrent)
	if err != nil {
		return nil, 0, fmt.Errorf("determine log offset: %w", err)
	}
	return lines, newOffset, nil
}
