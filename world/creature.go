package world

import (
	"github.com/jmdejong/dezl/geom"
	"github.com/jmdejong/dezl/inventory"
	"github.com/jmdejong/dezl/tile"
)

// CreatureID identifies one simulated body within a World's Holder.
type CreatureID = int

// Mind is who is driving a creature. Currently only players do, but
// the type exists so non-player creatures have somewhere to grow into.
type Mind struct {
	PlayerID PlayerID
}

// Creature is a simulated body: a position, an inventory, a movement
// cooldown, and whatever it most recently heard (for client sound
// playback).
type Creature struct {
	Mind          Mind
	Pos           geom.Vec2
	Cooldown      int
	WalkCooldown  int
	Sprite        tile.Sprite
	Inventory     *inventory.Inventory
	HeardSounds   []HeardSound
	dead          bool
}

// HeardSound is one sound event a creature should play on the client,
// carrying both a sound category and a human-readable message (e.g.
// for build failures).
type HeardSound struct {
	Type    tile.SoundType
	Message string
}

// LoadPlayer builds the body for a player freshly joining or
// reconnecting from its saved state.
func LoadPlayer(playerID PlayerID, saved PlayerSave) Creature {
	return Creature{
		Mind:      Mind{PlayerID: playerID},
		Pos:       saved.Pos,
		Sprite:    tile.Sprite("player-default"),
		Inventory: inventory.Load(saved.Inventory),
	}
}

// Kill marks the creature for removal at the next cleanup pass.
func (c *Creature) Kill() {
	c.dead = true
}

// Dead reports whether Kill has been called.
func (c *Creature) Dead() bool {
	return c.dead
}

// Save returns the persisted representation of a player's body.
func (c *Creature) Save() PlayerSave {
	return PlayerSave{Pos: c.Pos, Inventory: c.Inventory.Save()}
}

// PlayerSave is the persisted shape of a player's body: where they
// were standing and what they were carrying.
type PlayerSave struct {
	Pos       geom.Vec2
	Inventory inventory.Save
}

// NewPlayerSave builds a fresh save for a player spawning for the
// first time, with an empty inventory.
func NewPlayerSave(pos geom.Vec2) PlayerSave {
	return PlayerSave{Pos: pos}
}
