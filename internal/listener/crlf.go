package listener

import (
	"bytes"
	"io"
)

// crlfReadWriter normalizes client line endings to \n on read and writes \n
// as \r\n. Telnet sends \r\n, ssh clients without a pty may send a bare \r.
type crlfReadWriter struct {
	rw io.ReadWriter

	// the previous read ended in \r, so a leading \n belongs to it
	pendingCR bool
}

func newCRLFReadWriter(rw io.ReadWriter) io.ReadWriter {
	return &crlfReadWriter{rw: rw}
}

func (c *crlfReadWriter) Read(p []byte) (int, error) {
	n, err := c.rw.Read(p)
	if n == 0 {
		return n, err
	}

	data := p[:n]
	if c.pendingCR && data[0] == '\n' {
		data = data[1:]
	}
	c.pendingCR = len(data) > 0 && data[len(data)-1] == '\r'

	data = bytes.ReplaceAll(data, []byte("\r\n"), []byte("\n"))
	data = bytes.ReplaceAll(data, []byte("\r"), []byte("\n"))
	return copy(p, data), err
}

func (c *crlfReadWriter) Write(p []byte) (int, error) {
	_, err := c.rw.Write(bytes.ReplaceAll(p, []byte("\n"), []byte("\r\n")))
	// Report the caller's length, not the expanded one.
	return len(p), err
}
