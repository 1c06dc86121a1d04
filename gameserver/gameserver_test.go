package gameserver

import (
	"encoding/json"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/jmdejong/dezl/transport"
)

// fakeServer is an in-memory transport.Server for tests: messages are
// queued directly instead of arriving over a real socket.
type fakeServer struct {
	nextID  transport.ConnectionID
	pending []transport.ConnectionID
	queued  []transport.Message
	closed  []transport.ConnectionID
	sent    map[transport.ConnectionID][]string
}

func newFakeServer() *fakeServer {
	return &fakeServer{sent: make(map[transport.ConnectionID][]string)}
}

func (f *fakeServer) connect() transport.ConnectionID {
	f.nextID++
	f.pending = append(f.pending, f.nextID)
	return f.nextID
}

func (f *fakeServer) deliver(id transport.ConnectionID, text string) {
	f.queued = append(f.queued, transport.Message{Connection: id, Content: text})
}

func (f *fakeServer) disconnect(id transport.ConnectionID) {
	f.closed = append(f.closed, id)
}

func (f *fakeServer) Accept() []transport.ConnectionID {
	ids := f.pending
	f.pending = nil
	return ids
}

func (f *fakeServer) Poll() transport.Updates {
	updates := transport.Updates{Messages: f.queued, Closed: f.closed}
	f.queued = nil
	f.closed = nil
	return updates
}

func (f *fakeServer) Send(id transport.ConnectionID, text string) error {
	f.sent[id] = append(f.sent[id], text)
	return nil
}

func (f *fakeServer) Broadcast(text string) {
	for id := range f.sent {
		f.sent[id] = append(f.sent[id], text)
	}
}

func (f *fakeServer) Name(id transport.ConnectionID) (string, bool) { return "", false }
func (f *fakeServer) Close() error                                  { return nil }

func TestIntroductionProducesJoinAction(t *testing.T) {
	fake := newFakeServer()
	g := New([]transport.Server{fake}, slog.Default())
	id := fake.connect()
	g.Update()
	fake.deliver(id, `["introduction","alice"]`)

	actions := g.Update()
	require.Len(t, actions, 1)
	require.Equal(t, ActionJoin, actions[0].Kind)
	require.Equal(t, "alice", string(actions[0].Player))
}

func TestDuplicateNameIsRejected(t *testing.T) {
	fake := newFakeServer()
	g := New([]transport.Server{fake}, slog.Default())
	first := fake.connect()
	second := fake.connect()
	g.Update()
	fake.deliver(first, `["introduction","alice"]`)
	g.Update()

	fake.deliver(second, `["introduction","alice"]`)
	actions := g.Update()
	require.Empty(t, actions)
	require.Contains(t, fake.sent[second][len(fake.sent[second])-1], "nametaken")
}

func TestDuplicateNameIsRejectedCaseInsensitively(t *testing.T) {
	fake := newFakeServer()
	g := New([]transport.Server{fake}, slog.Default())
	first := fake.connect()
	second := fake.connect()
	g.Update()
	fake.deliver(first, `["introduction","Alice"]`)
	g.Update()

	fake.deliver(second, `["introduction","alice"]`)
	actions := g.Update()
	require.Empty(t, actions)
	require.Contains(t, fake.sent[second][len(fake.sent[second])-1], "nametaken")
}

func TestChatBeforeIntroductionIsRejected(t *testing.T) {
	fake := newFakeServer()
	g := New([]transport.Server{fake}, slog.Default())
	id := fake.connect()
	g.Update()
	fake.deliver(id, `["chat","hello"]`)

	actions := g.Update()
	require.Empty(t, actions)
	require.Contains(t, fake.sent[id][len(fake.sent[id])-1], "invalidaction")
}

func TestInputProducesInputAction(t *testing.T) {
	fake := newFakeServer()
	g := New([]transport.Server{fake}, slog.Default())
	id := fake.connect()
	g.Update()
	fake.deliver(id, `["introduction","bob"]`)
	g.Update()

	fake.deliver(id, `["input",{"move":"north"},1000]`)
	actions := g.Update()
	require.Len(t, actions, 1)
	require.Equal(t, ActionInput, actions[0].Kind)
	require.Equal(t, "bob", string(actions[0].Player))
}

func TestDisconnectProducesLeaveAction(t *testing.T) {
	fake := newFakeServer()
	g := New([]transport.Server{fake}, slog.Default())
	id := fake.connect()
	g.Update()
	fake.deliver(id, `["introduction","carol"]`)
	g.Update()

	fake.disconnect(id)
	actions := g.Update()
	require.Len(t, actions, 1)
	require.Equal(t, ActionLeave, actions[0].Kind)
	require.Equal(t, "carol", string(actions[0].Player))
}

func TestInvalidJSONSendsMessageError(t *testing.T) {
	fake := newFakeServer()
	g := New([]transport.Server{fake}, slog.Default())
	id := fake.connect()
	g.Update()
	fake.deliver(id, `not json`)

	g.Update()
	require.NotEmpty(t, fake.sent[id])
	var parsed []string
	require.NoError(t, json.Unmarshal([]byte(fake.sent[id][len(fake.sent[id])-1]), &parsed))
	require.Equal(t, "error", parsed[0])
	require.Equal(t, "invalidmessage", parsed[1])
}
