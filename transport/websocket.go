package transport

import (
	"log/slog"
	"net"
	"net/http"
	"sync"

	"github.com/gorilla/websocket"
)

func listen(address string) (net.Listener, error) {
	return net.Listen("tcp", address)
}

// websocketServer implements Server by running an http.Server whose
// single handler upgrades every request to a WebSocket connection.
type websocketServer struct {
	http     *http.Server
	upgrader websocket.Upgrader
	log      *slog.Logger

	ids idGenerator

	mu          sync.Mutex
	connections map[ConnectionID]*websocket.Conn
	names       map[ConnectionID]string

	accepted chan ConnectionID
	inbox    chan Message
	closed   chan ConnectionID
}

// ListenWebSocket starts an HTTP server on address that upgrades every
// incoming request to a WebSocket connection.
func ListenWebSocket(address string, log *slog.Logger) (Server, error) {
	s := &websocketServer{
		upgrader:    websocket.Upgrader{CheckOrigin: func(*http.Request) bool { return true }},
		log:         log,
		connections: make(map[ConnectionID]*websocket.Conn),
		names:       make(map[ConnectionID]string),
		accepted:    make(chan ConnectionID, 64),
		inbox:       make(chan Message, 256),
		closed:      make(chan ConnectionID, 64),
	}
	mux := http.NewServeMux()
	mux.HandleFunc("/", s.handle)
	s.http = &http.Server{Addr: address, Handler: mux}

	listener, err := listen(address)
	if err != nil {
		return nil, err
	}
	go func() {
		_ = s.http.Serve(listener)
	}()
	return s, nil
}

func (s *websocketServer) handle(w http.ResponseWriter, r *http.Request) {
	conn, err := s.upgrader.Upgrade(w, r, nil)
	if err != nil {
		logRejected(s.log, "websocket upgrade", 0, err)
		return
	}
	id := s.ids.nextID()
	s.mu.Lock()
	s.connections[id] = conn
	s.names[id] = r.RemoteAddr
	s.mu.Unlock()
	s.accepted <- id
	s.readLoop(id, conn)
}

func (s *websocketServer) readLoop(id ConnectionID, conn *websocket.Conn) {
	for {
		kind, data, err := conn.ReadMessage()
		if err != nil {
			s.closed <- id
			s.forget(id)
			return
		}
		if kind != websocket.TextMessage {
			continue
		}
		s.inbox <- Message{Connection: id, Content: string(data)}
	}
}

func (s *websocketServer) forget(id ConnectionID) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.connections, id)
	delete(s.names, id)
}

func (s *websocketServer) Accept() []ConnectionID {
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

func (s *websocketServer) Poll() Updates {
	var updates Updates
	for {
		select {
		case msg := <-s.inbox:
			updates.Messages = append(updates.Messages, msg)
		case id := <-s.closed:
			updates.Closed = append(updates.Closed, id)
		default:
			return updates
		}
	}
}

func (s *websocketServer) Send(id ConnectionID, text string) error {
	s.mu.Lock()
	conn, ok := s.connections[id]
	s.mu.Unlock()
	if !ok {
		return ErrUnknownConnection
	}
	return conn.WriteMessage(websocket.TextMessage, []byte(text))
}

func (s *websocketServer) Broadcast(text string) {
	s.mu.Lock()
	targets := make([]*websocket.Conn, 0, len(s.connections))
	for _, conn := range s.connections {
		targets = append(targets, conn)
	}
	s.mu.Unlock()
	for _, conn := range targets {
		if err := conn.WriteMessage(websocket.TextMessage, []byte(text)); err != nil {
			logRejected(s.log, "broadcast", 0, err)
		}
	}
}

func (s *websocketServer) Name(id ConnectionID) (string, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	name, ok := s.names[id]
	return name, ok
}

func (s *websocketServer) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, conn := range s.connections {
		conn.Close()
	}
	return s.http.Close()
}
