package acquire

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strings"
)

type replaySource struct {
	f       *os.File
	scanner *bufio.Scanner
}

// OpenReplay replays a recorded sample log, one raw line per Next call.
// The source reports io.EOF once the log is exhausted.
func OpenReplay(name string) (Source, error) {
	f, err := os.Open(name)
	if err != nil {
		return nil, fmt.Errorf("open replay log: %w", err)
	}
	return &replaySource{f: f, scanner: bufio.NewScanner(f)}, nil
}

func (r *replaySource) Next() (string, error) {
	if !r.scanner.Scan() {
		if err := r.scanner.Err(); err != nil {
			return "", fmt.Errorf("replay read: %w", err)
		}
		return "", io.EOF
	}
	return strings.TrimRight(r.scanner.Text(), "\r"), nil
}

func (r *replaySource) Close() error { return r.f.Close() }
