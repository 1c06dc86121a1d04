package transport

import (
	"net"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestParseAddressInet(t *testing.T) {
	addr, err := ParseAddress("inet:127.0.0.1:4321")
	require.NoError(t, err)
	require.Equal(t, "inet", addr.Kind)
	require.Equal(t, "127.0.0.1:4321", addr.Value)
}

func TestParseAddressUnix(t *testing.T) {
	addr, err := ParseAddress("unix:/tmp/dezl.sock")
	require.NoError(t, err)
	require.Equal(t, "unix", addr.Kind)
	require.Equal(t, "/tmp/dezl.sock", addr.Value)
}

func TestParseAddressRejectsUnknownKind(t *testing.T) {
	_, err := ParseAddress("carrier-pigeon:somewhere")
	require.Error(t, err)
}

func TestParseAddressRejectsMissingColon(t *testing.T) {
	_, err := ParseAddress("justtcp")
	require.Error(t, err)
}

func TestTCPServerAcceptsAndExchangesMessages(t *testing.T) {
	server, err := ListenTCP("127.0.0.1:0", nil)
	require.NoError(t, err)
	defer server.Close()

	streamSrv := server.(*streamServer)
	addr := streamSrv.listener.Addr().String()

	clientConn, err := dialAndFrame(addr)
	require.NoError(t, err)
	defer clientConn.Close()

	require.NoError(t, clientConn.writeFrame("hello"))

	var id ConnectionID
	require.Eventually(t, func() bool {
		ids := server.Accept()
		if len(ids) > 0 {
			id = ids[0]
			return true
		}
		return false
	}, time.Second, 5*time.Millisecond)

	var msg Message
	require.Eventually(t, func() bool {
		updates := server.Poll()
		if len(updates.Messages) > 0 {
			msg = updates.Messages[0]
			return true
		}
		return false
	}, time.Second, 5*time.Millisecond)

	require.Equal(t, id, msg.Connection)
	require.Equal(t, "hello", msg.Content)

	require.NoError(t, server.Send(id, "world"))
	reply, err := clientConn.readFrame()
	require.NoError(t, err)
	require.Equal(t, "world", reply)
}

func TestSendToUnknownConnectionFails(t *testing.T) {
	server, err := ListenTCP("127.0.0.1:0", nil)
	require.NoError(t, err)
	defer server.Close()

	err = server.Send(ConnectionID(999), "nobody")
	require.ErrorIs(t, err, ErrUnknownConnection)
}

func dialAndFrame(addr string) (*frameConn, error) {
	conn, err := net.Dial("tcp", addr)
	if err != nil {
		return nil, err
	}
	return newFrameConn(conn), nil
}
