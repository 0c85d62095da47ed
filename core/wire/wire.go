// Package wire decodes HTTP/1.1 message body framing from a raw connection
// and exposes the result as an incoming body.
//
// The receivers in this package only understand body framing (chunked
// transfer coding and Content-Length). Parsing the request line and headers
// is the caller's job.
package wire

import (
	"bufio"
	"errors"
	"io"
	"net/http"
	"strconv"
	"strings"

	"github.com/dmitrymomot/httpbody/core/body"
)

// DefaultMaxLineBytes bounds chunk-size and trailer lines.
const DefaultMaxLineBytes = 4 << 10

var (
	ErrChunkFormat      = errors.New("wire: invalid chunk format")
	ErrLineTooLong      = errors.New("wire: line too long")
	ErrBadContentLength = errors.New("wire: invalid content length")
	ErrBadTrailer       = errors.New("wire: invalid trailer field")
)

// NewBody picks the body framing announced by header and returns the
// matching incoming body. Chunked transfer coding wins over Content-Length;
// with neither the body is empty. conn is closed when the body is closed
// before it was fully received.
func NewBody(br *bufio.Reader, header http.Header, conn io.Closer, maxLine int) (*body.Body, error) {
	if isChunked(header) {
		return body.NewIncoming(NewChunked(br, conn, maxLine)), nil
	}
	v := strings.TrimSpace(header.Get("Content-Length"))
	if v == "" {
		return body.Empty(), nil
	}
	n, err := strconv.ParseInt(v, 10, 64)
	if err != nil || n < 0 {
		return nil, ErrBadContentLength
	}
	if n == 0 {
		return body.Empty(), nil
	}
	return body.NewIncoming(NewLength(br, conn, n), body.WithContentLength(n)), nil
}

func isChunked(h http.Header) bool {
	for _, v := range h.Values("Transfer-Encoding") {
		for _, coding := range strings.Split(v, ",") {
			if strings.EqualFold(strings.TrimSpace(coding), "chunked") {
				return true
			}
		}
	}
	return false
}

// Length reads exactly n bytes of body from the connection.
type Length struct {
	lr   io.LimitedReader
	conn io.Closer
}

// NewLength returns a receiver for a Content-Length delimited body.
func NewLength(br *bufio.Reader, conn io.Closer, n int64) *Length {
	return &Length{lr: io.LimitedReader{R: br, N: n}, conn: conn}
}

func (l *Length) Read(p []byte) (int, error) {
	if l.lr.N <= 0 {
		return 0, io.EOF
	}
	n, err := l.lr.Read(p)
	if err == io.EOF && l.lr.N > 0 {
		return n, io.ErrUnexpectedEOF
	}
	return n, err
}

// Close aborts the receive by closing the connection when body bytes are
// still outstanding. A fully read body leaves the connection open for reuse.
func (l *Length) Close() error {
	if l.lr.N > 0 && l.conn != nil {
		return l.conn.Close()
	}
	return nil
}

// Chunked decodes Transfer-Encoding: chunked and collects trailers.
type Chunked struct {
	br       *bufio.Reader
	conn     io.Closer
	maxLine  int
	remain   int64
	finished bool
	trailer  http.Header
}

// NewChunked returns a receiver for a chunked body. maxLine bounds the
// chunk-size and trailer lines; zero selects DefaultMaxLineBytes.
func NewChunked(br *bufio.Reader, conn io.Closer, maxLine int) *Chunked {
	if maxLine <= 0 {
		maxLine = DefaultMaxLineBytes
	}
	return &Chunked{br: br, conn: conn, maxLine: maxLine}
}

func (c *Chunked) Read(p []byte) (int, error) {
	if c.finished {
		return 0, io.EOF
	}
	if c.remain == 0 {
		size, err := c.readChunkSize()
		if err != nil {
			return 0, err
		}
		if size == 0 {
			if err := c.readTrailers(); err != nil {
				return 0, err
			}
			c.finished = true
			return 0, io.EOF
		}
		c.remain = size
	}
	if len(p) == 0 {
		return 0, nil
	}
	if int64(len(p)) > c.remain {
		p = p[:c.remain]
	}
	n, err := io.ReadFull(c.br, p)
	c.remain -= int64(n)
	if err != nil {
		if err == io.EOF {
			err = io.ErrUnexpectedEOF
		}
		return n, err
	}
	if c.remain == 0 {
		if err := c.expectCRLF(); err != nil {
			return n, err
		}
	}
	return n, nil
}

// Trailer returns the trailer fields once the last chunk was read.
func (c *Chunked) Trailer() http.Header {
	return c.trailer
}

// Close aborts an unfinished body by closing the connection.
func (c *Chunked) Close() error {
	if !c.finished && c.conn != nil {
		return c.conn.Close()
	}
	return nil
}

func (c *Chunked) readChunkSize() (int64, error) {
	line, err := readLine(c.br, c.maxLine)
	if err != nil {
		return 0, err
	}
	if i := strings.IndexByte(line, ';'); i >= 0 {
		line = line[:i]
	}
	line = strings.TrimSpace(line)
	if line == "" {
		return 0, ErrChunkFormat
	}
	n, err := strconv.ParseInt(line, 16, 64)
	if err != nil || n < 0 {
		return 0, ErrChunkFormat
	}
	return n, nil
}

func (c *Chunked) expectCRLF() error {
	var crlf [2]byte
	if _, err := io.ReadFull(c.br, crlf[:]); err != nil {
		if err == io.EOF {
			err = io.ErrUnexpectedEOF
		}
		return err
	}
	if crlf[0] != '\r' || crlf[1] != '\n' {
		return ErrChunkFormat
	}
	return nil
}

func (c *Chunked) readTrailers() error {
	for {
		line, err := readLine(c.br, c.maxLine)
		if err != nil {
			return err
		}
		if line == "" {
			return nil
		}
		i := strings.IndexByte(line, ':')
		if i <= 0 {
			return ErrBadTrailer
		}
		if c.trailer == nil {
			c.trailer = make(http.Header)
		}
		c.trailer.Add(strings.TrimSpace(line[:i]), strings.TrimSpace(line[i+1:]))
	}
}

// readLine reads one CRLF or LF terminated line without the terminator.
func readLine(br *bufio.Reader, limit int) (string, error) {
	var sb strings.Builder
	for {
		b, err := br.ReadByte()
		if err != nil {
			if err == io.EOF {
				err = io.ErrUnexpectedEOF
			}
			return "", err
		}
		if b == '\n' {
			break
		}
		if b != '\r' {
			sb.WriteByte(b)
		}
		if sb.Len() > limit {
			return "", ErrLineTooLong
		}
	}
	return sb.String(), nil
}
