// Package gameserver sits between the raw transports and the world:
// it turns introduction/chat/input messages from clients into Actions
// the rest of the program can apply to a World, and turns broadcasts
// and per-player messages back into JSON text frames.
package gameserver

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"time"
	"unicode"

	"golang.org/x/text/cases"

	"github.com/jmdejong/dezl/transport"
	"github.com/jmdejong/dezl/world"
)

// foldCaser normalizes names for case-insensitive duplicate checks, so
// "Alice" and "alice" can't both hold a connection at once even though
// the PlayerID itself keeps whatever case the client introduced with.
var foldCaser = cases.Fold()

const maxNameLength = 60

// ActionKind tags which variant of Action a value holds (the same
// flattened-struct pattern used for tile actions and world controls).
type ActionKind uint8

const (
	ActionJoin ActionKind = iota
	ActionLeave
	ActionInput
)

// Action is one event the game server produced this tick, ready for
// the caller to fold into the World.
type Action struct {
	Kind    ActionKind
	Player  world.PlayerID
	Control world.Control
	At      time.Time
}

type serverID int

type clientID struct {
	server     serverID
	connection transport.ConnectionID
}

// incoming is the wire shape of a message from a client: a JSON array
// whose first element names the kind, e.g. ["introduction","alice"] or
// ["input",{"move":"north"},1700000000000].
type incoming struct {
	Kind    string
	Name    string
	Text    string
	Control world.Control
	Millis  int64
}

func (m *incoming) UnmarshalJSON(data []byte) error {
	var raw []json.RawMessage
	if err := json.Unmarshal(data, &raw); err != nil {
		return fmt.Errorf("message is not a json array: %w", err)
	}
	if len(raw) == 0 {
		return fmt.Errorf("empty message")
	}
	if err := json.Unmarshal(raw[0], &m.Kind); err != nil {
		return fmt.Errorf("message kind is not a string: %w", err)
	}
	switch m.Kind {
	case "introduction":
		if len(raw) != 2 {
			return fmt.Errorf("introduction takes exactly one argument")
		}
		return json.Unmarshal(raw[1], &m.Name)
	case "chat":
		if len(raw) != 2 {
			return fmt.Errorf("chat takes exactly one argument")
		}
		return json.Unmarshal(raw[1], &m.Text)
	case "input":
		if len(raw) != 3 {
			return fmt.Errorf("input takes exactly two arguments")
		}
		if err := json.Unmarshal(raw[1], &m.Control); err != nil {
			return err
		}
		return json.Unmarshal(raw[2], &m.Millis)
	default:
		return fmt.Errorf("unknown message kind %q", m.Kind)
	}
}

// messageError is a rejected message, reported back to the sender as
// ["error", type, text] rather than silently dropped.
type messageError struct {
	Type string
	Text string
}

func (e messageError) Error() string { return e.Type + ": " + e.Text }

func invalidName(text string) messageError    { return messageError{"invalidname", text} }
func invalidAction(text string) messageError   { return messageError{"invalidaction", text} }
func invalidMessage(text string) messageError  { return messageError{"invalidmessage", text} }
func nameTaken(text string) messageError       { return messageError{"nametaken", text} }
func serverError(text string) messageError     { return messageError{"server", text} }

// GameServer multiplexes any number of transports, assigning each
// connection a PlayerID once it introduces itself.
type GameServer struct {
	servers      *world.Holder[transport.Server]
	players      map[clientID]world.PlayerID
	connections  map[world.PlayerID]clientID
	foldedNames  map[string]world.PlayerID
	log          *slog.Logger
}

// New wraps a set of already-listening transports.
func New(servers []transport.Server, log *slog.Logger) *GameServer {
	holder := world.NewHolder[transport.Server]()
	for _, s := range servers {
		holder.Insert(s)
	}
	return &GameServer{
		servers:     holder,
		players:     make(map[clientID]world.PlayerID),
		connections: make(map[world.PlayerID]clientID),
		foldedNames: make(map[string]world.PlayerID),
		log:         log,
	}
}

// Update accepts pending connections, decodes and dispatches pending
// messages, and reports disconnects, returning every Action produced.
func (g *GameServer) Update() []Action {
	g.servers.Each(func(_ int, s transport.Server) {
		s.Accept()
	})

	var actions []Action
	type rawMsg struct {
		id   clientID
		text string
	}
	var raws []rawMsg
	var disconnected []clientID

	g.servers.Each(func(key int, s transport.Server) {
		updates := s.Poll()
		for _, id := range updates.Closed {
			disconnected = append(disconnected, clientID{serverID(key), id})
		}
		for _, msg := range updates.Messages {
			raws = append(raws, rawMsg{clientID{serverID(key), msg.Connection}, msg.Content})
		}
	})

	for _, m := range raws {
		var msg incoming
		if err := json.Unmarshal([]byte(m.text), &msg); err != nil {
			g.sendError(m.id, invalidMessage(fmt.Sprintf("invalid message structure: %s", m.text)))
			continue
		}
		action, msgErr := g.handle(m.id, msg)
		switch {
		case msgErr != nil:
			g.sendError(m.id, *msgErr)
		case action != nil:
			actions = append(actions, *action)
		}
	}

	for _, id := range disconnected {
		player, ok := g.players[id]
		if !ok {
			continue
		}
		delete(g.players, id)
		delete(g.connections, player)
		delete(g.foldedNames, foldCaser.String(string(player)))
		g.BroadcastMessage(fmt.Sprintf("%s disconnected", player))
		actions = append(actions, Action{Kind: ActionLeave, Player: player})
	}
	return actions
}

func (g *GameServer) handle(id clientID, msg incoming) (*Action, *messageError) {
	switch msg.Kind {
	case "introduction":
		return g.handleIntroduction(id, msg.Name)
	case "chat":
		player, ok := g.players[id]
		if !ok {
			err := invalidAction("set a valid name before you send any other messages")
			return nil, &err
		}
		g.BroadcastMessage(fmt.Sprintf("%s: %s", player, msg.Text))
		return nil, nil
	case "input":
		player, ok := g.players[id]
		if !ok {
			err := invalidAction("set a name before you send any other messages")
			return nil, &err
		}
		return &Action{
			Kind:    ActionInput,
			Player:  player,
			Control: msg.Control,
			At:      time.UnixMilli(msg.Millis),
		}, nil
	default:
		err := invalidMessage(fmt.Sprintf("unknown message kind %q", msg.Kind))
		return nil, &err
	}
}

func (g *GameServer) handleIntroduction(id clientID, name string) (*Action, *messageError) {
	if err := validateName(name); err != nil {
		wrapped := invalidName(err.Error())
		return nil, &wrapped
	}
	if _, ok := g.players[id]; ok {
		err := invalidAction("you cannot change your name")
		return nil, &err
	}
	player := world.PlayerID(name)
	folded := foldCaser.String(name)
	if _, ok := g.connections[player]; ok {
		err := nameTaken("another connection to this player exists already")
		return nil, &err
	}
	if existing, ok := g.foldedNames[folded]; ok {
		err := nameTaken(fmt.Sprintf("a player named %q is already connected", existing))
		return nil, &err
	}
	g.BroadcastMessage(fmt.Sprintf("%s connected", player))
	g.players[id] = player
	g.connections[player] = id
	g.foldedNames[folded] = player
	if err := g.Send(player, []any{"connected", fmt.Sprintf("successfully connected as %s", player)}); err != nil {
		errMsg := serverError("unable to send connected message")
		return nil, &errMsg
	}
	return &Action{Kind: ActionJoin, Player: player}, nil
}

// validateName enforces the same name shape every client must follow:
// non-empty, at most 60 bytes, letters, numbers and connector
// punctuation (such as underscore) only.
func validateName(name string) error {
	if len(name) > maxNameLength {
		return fmt.Errorf("a name cannot be longer than %d bytes", maxNameLength)
	}
	if name == "" {
		return fmt.Errorf("a name must have at least one character")
	}
	for _, r := range name {
		if !unicode.IsLetter(r) && !unicode.IsNumber(r) && !unicode.Is(unicode.Pc, r) {
			return fmt.Errorf("a name can only contain letters, numbers and connector punctuation")
		}
	}
	return nil
}

func (g *GameServer) sendError(id clientID, err messageError) {
	s, ok := g.servers.Get(int(id.server))
	if !ok {
		return
	}
	data, marshalErr := json.Marshal([]any{"error", err.Type, err.Text})
	if marshalErr != nil {
		return
	}
	_ = s.Send(id.connection, string(data))
}

// BroadcastMessage sends a chat-style broadcast to every connected
// client.
func (g *GameServer) BroadcastMessage(text string) {
	g.log.Info("broadcast", "text", text)
	g.BroadcastJSON([]any{"message", text, ""})
}

// BroadcastJSON marshals value and sends it to every connected client.
func (g *GameServer) BroadcastJSON(value any) {
	data, err := json.Marshal(value)
	if err != nil {
		return
	}
	g.Broadcast(string(data))
}

// Broadcast sends raw text to every connected client across every
// transport.
func (g *GameServer) Broadcast(text string) {
	g.servers.Each(func(_ int, s transport.Server) {
		s.Broadcast(text)
	})
}

// Send marshals value as JSON and delivers it to one player.
func (g *GameServer) Send(player world.PlayerID, value any) error {
	id, ok := g.connections[player]
	if !ok {
		return fmt.Errorf("unknown player name %s", player)
	}
	s, ok := g.servers.Get(int(id.server))
	if !ok {
		return fmt.Errorf("server for player %s is gone", player)
	}
	data, err := json.Marshal(value)
	if err != nil {
		return err
	}
	return s.Send(id.connection, string(data))
}

// SendPlayerError reports an application-level error to a single
// connected player.
func (g *GameServer) SendPlayerError(player world.PlayerID, errname, text string) error {
	return g.Send(player, []any{"error", errname, text})
}

// Kick sends a connected player a "kicked" error followed by an empty
// message and forgets their session in this GameServer. It does not
// close the transport connection and produces no ActionLeave, so the
// player's body stays in the world.
func (g *GameServer) Kick(player world.PlayerID, reason string) error {
	id, ok := g.connections[player]
	if !ok {
		return fmt.Errorf("unknown player name %s", player)
	}
	_ = g.SendPlayerError(player, "kicked", reason)
	s, ok := g.servers.Get(int(id.server))
	if ok {
		_ = s.Send(id.connection, "")
	}
	delete(g.connections, player)
	delete(g.foldedNames, foldCaser.String(string(player)))
	for cid, p := range g.players {
		if p == player {
			delete(g.players, cid)
		}
	}
	return nil
}

// Players lists every currently connected player id.
func (g *GameServer) Players() []world.PlayerID {
	out := make([]world.PlayerID, 0, len(g.connections))
	for p := range g.connections {
		out = append(out, p)
	}
	return out
}
