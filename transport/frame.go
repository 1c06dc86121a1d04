package transport

import (
	"bufio"
	"encoding/binary"
	"fmt"
	"io"
	"net"
)

// maxFrameSize bounds a single incoming message so a misbehaving peer
// can't make the server allocate unbounded memory by sending a huge
// length prefix.
const maxFrameSize = 1 << 20

// frameConn wraps a net.Conn in the wire framing every non-WebSocket
// transport in this package shares: a 4-byte big-endian length prefix
// followed by that many bytes of UTF-8 text.
type frameConn struct {
	conn net.Conn
	r    *bufio.Reader
}

func newFrameConn(conn net.Conn) *frameConn {
	return &frameConn{conn: conn, r: bufio.NewReader(conn)}
}

// readFrame blocks until one full frame has arrived, the connection is
// closed, or a protocol error occurs.
func (f *frameConn) readFrame() (string, error) {
	var header [4]byte
	if _, err := io.ReadFull(f.r, header[:]); err != nil {
		return "", err
	}
	length := binary.BigEndian.Uint32(header[:])
	if length > maxFrameSize {
		return "", fmt.Errorf("frame of %d bytes exceeds the %d byte limit", length, maxFrameSize)
	}
	body := make([]byte, length)
	if _, err := io.ReadFull(f.r, body); err != nil {
		return "", err
	}
	return string(body), nil
}

func (f *frameConn) writeFrame(text string) error {
	var header [4]byte
	binary.BigEndian.PutUint32(header[:], uint32(len(text)))
	if _, err := f.conn.Write(header[:]); err != nil {
		return err
	}
	_, err := f.conn.Write([]byte(text))
	return err
}

func (f *frameConn) Close() error {
	return f.conn.Close()
}
