package transport

import (
	"log/slog"
	"net"
	"sync"
)

// streamServer implements Server over any net.Listener (TCP or unix
// domain socket) using the shared frame wire format. Each connection
// gets its own reader goroutine feeding a shared inbox channel, since
// Go's net package blocks on Read rather than offering the original's
// non-blocking mio poll loop.
type streamServer struct {
	listener net.Listener
	log      *slog.Logger

	ids idGenerator

	mu          sync.Mutex
	connections map[ConnectionID]*frameConn
	names       map[ConnectionID]string

	accepted chan ConnectionID
	inbox    chan Message
	closed   chan ConnectionID
}

func newStreamServer(listener net.Listener, log *slog.Logger) *streamServer {
	s := &streamServer{
		listener:    listener,
		log:         log,
		connections: make(map[ConnectionID]*frameConn),
		names:       make(map[ConnectionID]string),
		accepted:    make(chan ConnectionID, 64),
		inbox:       make(chan Message, 256),
		closed:      make(chan ConnectionID, 64),
	}
	go s.acceptLoop()
	return s
}

// ListenTCP starts a stream server bound to a TCP address such as
// "0.0.0.0:4321".
func ListenTCP(address string, log *slog.Logger) (Server, error) {
	listener, err := net.Listen("tcp", address)
	if err != nil {
		return nil, err
	}
	return newStreamServer(listener, log), nil
}

// ListenUnix starts a stream server bound to a unix domain socket path.
func ListenUnix(path string, log *slog.Logger) (Server, error) {
	listener, err := net.Listen("unix", path)
	if err != nil {
		return nil, err
	}
	return newStreamServer(listener, log), nil
}

func (s *streamServer) acceptLoop() {
	for {
		conn, err := s.listener.Accept()
		if err != nil {
			return
		}
		id := s.ids.nextID()
		fc := newFrameConn(conn)
		s.mu.Lock()
		s.connections[id] = fc
		s.names[id] = conn.RemoteAddr().String()
		s.mu.Unlock()
		s.accepted <- id
		go s.readLoop(id, fc)
	}
}

func (s *streamServer) readLoop(id ConnectionID, fc *frameConn) {
	for {
		text, err := fc.readFrame()
		if err != nil {
			s.closed <- id
			return
		}
		s.inbox <- Message{Connection: id, Content: text}
	}
}

func (s *streamServer) Accept() []ConnectionID {
	var ids []ConnectionID
	for {
		select {
		case id := <-s.accepted:
			ids = append(ids, id)
		default:
			return ids
		}
	}
}

func (s *streamServer) Poll() Updates {
	var updates Updates
	for {
		select {
		case msg := <-s.inbox:
			updates.Messages = append(updates.Messages, msg)
		case id := <-s.closed:
			updates.Closed = append(updates.Closed, id)
			s.forget(id)
		default:
			return updates
		}
	}
}

func (s *streamServer) forget(id ConnectionID) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.connections, id)
	delete(s.names, id)
}

func (s *streamServer) Send(id ConnectionID, text string) error {
	s.mu.Lock()
	fc, ok := s.connections[id]
	s.mu.Unlock()
	if !ok {
		return ErrUnknownConnection
	}
	return fc.writeFrame(text)
}

func (s *streamServer) Broadcast(text string) {
	s.mu.Lock()
	targets := make([]*frameConn, 0, len(s.connections))
	for _, fc := range s.connections {
		targets = append(targets, fc)
	}
	s.mu.Unlock()
	for _, fc := range targets {
		if err := fc.writeFrame(text); err != nil {
			logRejected(s.log, "broadcast", 0, err)
		}
	}
}

func (s *streamServer) Name(id ConnectionID) (string, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	name, ok := s.names[id]
	return name, ok
}

func (s *streamServer) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, fc := range s.connections {
		fc.Close()
	}
	return s.listener.Close()
}
