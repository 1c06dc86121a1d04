package world

import "github.com/jmdejong/dezl/geom"

// PlayerID is a player's stable, human-chosen identity (their login
// name), used as the key for both the live session table and the
// persisted save directory.
type PlayerID string

// Player is a connected player's session state: their pending control
// for the next tick, which body they're driving, and the view window
// the server last sent them.
type Player struct {
	Plan      *Control
	Body      CreatureID
	IsNew     bool
	ViewArea  *geom.Area
	Movement  *geom.Vec2
}

// NewPlayer starts a fresh session driving the given body.
func NewPlayer(body CreatureID) *Player {
	return &Player{Body: body, IsNew: true}
}

// ViewAreaSize is the width/height, in tiles, of a player's loaded
// viewport window.
var ViewAreaSize = geom.New(128, 128)
