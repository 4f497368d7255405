package feed

import (
	"bufio"
	"io"

	tomb "gopkg.in/tomb.v2"
)

const lineBufferSize = 256

// Reader tokenizes an io.Reader into lines on a background goroutine
// supervised by a tomb.Tomb. It holds no book state and applies no
// commands — it is pure I/O, so the command loop it feeds remains the
// only consumer of the feed.
type Reader struct {
	lines chan string
}

// NewReader starts the background scan and returns a Reader whose Lines
// channel closes at EOF or when t is told to die.
func NewReader(t *tomb.Tomb, r io.Reader) *Reader {
	reader := &Reader{lines: make(chan string, lineBufferSize)}

	t.Go(func() error {
		defer close(reader.lines)

		scanner := bufio.NewScanner(r)
		scanner.Buffer(make([]byte, 64*1024), 1024*1024)

		for scanner.Scan() {
			select {
			case <-t.Dying():
				return nil
			case reader.lines <- scanner.Text():
			}
		}
		return scanner.Err()
	})

	return reader
}

// Lines returns the channel of raw input lines. It closes when input is
// exhausted or the supervising tomb is dying.
func (r *Reader) Lines() <-chan string {
	return r.lines
}
