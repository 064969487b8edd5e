// Package progress writes progress of long-running operations to a terminal line.
package progress

import (
	"fmt"
	"io"
	"strings"
	"sync"
	"time"

	"github.com/dustin/go-humanize"
)

// Reader wraps an io.Reader and reports the number of bytes read to a Rewritable.
type Reader struct {
	io.Reader

	Bytes int64 // bytes read so far
	Total int64 // expected number of bytes, or <= 0 when unknown

	Rewritable
}

func (pr *Reader) Read(p []byte) (int, error) {
	n, err := pr.Reader.Read(p)
	pr.Bytes += int64(n)
	pr.Rewritable.Write(pr.status())
	return n, err
}

func (pr *Reader) status() string {
	read := humanize.Bytes(uint64(pr.Bytes))
	if pr.Total <= 0 {
		return "Read " + read
	}
	return fmt.Sprintf("Read %s of %s", read, humanize.Bytes(uint64(pr.Total)))
}

// DefaultFlushInterval is the flush interval used by most callers.
const DefaultFlushInterval = time.Second / 30

// Rewritable is a single terminal line that is overwritten on every flush.
//
// A Rewritable with a nil Writer discards all output.
// A Rewritable is safe for concurrent use.
type Rewritable struct {
	Writer        io.Writer
	FlushInterval time.Duration // minimum time between two flushes

	m       sync.Mutex
	flushed time.Time // time of the last flush
	width   int       // widest content ever flushed
	content string
}

// Write replaces the content of the line, and flushes it unless a flush happened recently.
func (rw *Rewritable) Write(value string) {
	rw.m.Lock()
	defer rw.m.Unlock()

	rw.content = value
	rw.flush(false)
}

// Flush writes the current content to Writer.
// Unless force is true, nothing is written when the last flush was within FlushInterval.
func (rw *Rewritable) Flush(force bool) {
	rw.m.Lock()
	defer rw.m.Unlock()

	rw.flush(force)
}

func (rw *Rewritable) flush(force bool) {
	if rw.Writer == nil || (!force && time.Since(rw.flushed) <= rw.FlushInterval) {
		return
	}

	rw.width = max(rw.width, len(rw.content))
	fmt.Fprintf(rw.Writer, "\r%s%s", rw.content, strings.Repeat(" ", rw.width-len(rw.content)))
	rw.flushed = time.Now()
}

// Close clears the line.
func (rw *Rewritable) Close() {
	rw.m.Lock()
	defer rw.m.Unlock()

	if rw.Writer == nil {
		return
	}
	rw.content = ""
	rw.flush(true)
	_, _ = io.WriteString(rw.Writer, "\r")
}
