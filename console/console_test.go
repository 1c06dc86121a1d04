package console

import (
	"context"
	"log/slog"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/jmdejong/dezl/world"
)

type fakeServer struct {
	players    []world.PlayerID
	broadcasts []string
	kicked     map[world.PlayerID]string
	saved      int
	shutdown   bool
}

func newFakeServer() *fakeServer {
	return &fakeServer{kicked: make(map[world.PlayerID]string)}
}

func (f *fakeServer) Players() []world.PlayerID { return f.players }
func (f *fakeServer) Broadcast(text string)      { f.broadcasts = append(f.broadcasts, text) }
func (f *fakeServer) Kick(player world.PlayerID, reason string) error {
	f.kicked[player] = reason
	return nil
}
func (f *fakeServer) Save() error { f.saved++; return nil }
func (f *fakeServer) Shutdown()   { f.shutdown = true }

func runLines(t *testing.T, srv Server, lines string) {
	t.Helper()
	c := New(srv, slog.Default()).WithReader(strings.NewReader(lines))
	c.Run(context.Background())
}

func TestBroadcastCommandForwardsMessage(t *testing.T) {
	srv := newFakeServer()
	runLines(t, srv, "/broadcast hello world\n")
	require.Equal(t, []string{"hello world"}, srv.broadcasts)
}

func TestKickCommandWithReason(t *testing.T) {
	srv := newFakeServer()
	runLines(t, srv, "/kick alice being rude\n")
	require.Equal(t, "being rude", srv.kicked[world.PlayerID("alice")])
}

func TestKickCommandWithoutReasonUsesDefault(t *testing.T) {
	srv := newFakeServer()
	runLines(t, srv, "/kick alice\n")
	require.Equal(t, "kicked by an admin", srv.kicked[world.PlayerID("alice")])
}

func TestSaveCommandCallsSave(t *testing.T) {
	srv := newFakeServer()
	runLines(t, srv, "/save\n")
	require.Equal(t, 1, srv.saved)
}

func TestShutdownCommandStopsServer(t *testing.T) {
	srv := newFakeServer()
	runLines(t, srv, "/shutdown\n")
	require.True(t, srv.shutdown)
}

func TestCommandsWorkWithoutLeadingSlash(t *testing.T) {
	srv := newFakeServer()
	runLines(t, srv, "save\n")
	require.Equal(t, 1, srv.saved)
}

func TestBlankLinesAreIgnored(t *testing.T) {
	srv := newFakeServer()
	runLines(t, srv, "\n\n/save\n\n")
	require.Equal(t, 1, srv.saved)
}
