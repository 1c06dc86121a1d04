// Package view builds the per-player update messages a World sends
// each tick: the player's own position and inventory, any changed
// tiles since the last flush, newly visible map sections when their
// viewport shifts, and sounds they should hear.
package view

import (
	"github.com/jmdejong/dezl/geom"
	"github.com/jmdejong/dezl/tile"
)

// ChangeEntry is one tile whose rendered sprites changed.
type ChangeEntry struct {
	Pos     geom.Pos
	Sprites []tile.Sprite
}

// Sound is one sound event a player should hear, with an optional
// human-readable message (e.g. explaining a build failure).
type Sound struct {
	Type    tile.SoundType
	Message string
}

// ViewArea tells the client the full bounds of the map section it now
// has loaded.
type ViewArea struct {
	Area geom.Area
}

// Section is a compressed map section: field holds one palette index
// per position (row-major over Area), and Mapping is the palette of
// distinct sprite stacks those indices refer to, so a section with few
// distinct tiles sends its repeated tiles only once.
type Section struct {
	Area    geom.Area
	Field   []int
	Mapping [][]tile.Sprite
}

// CreatureView is the renderable state of one creature, sent to every
// player so they can draw each other (and eventually non-player
// creatures) without revealing anything but position and sprite.
type CreatureView struct {
	Pos    geom.Vec2
	Sprite tile.Sprite
}

// InventoryRow is one displayed inventory entry.
type InventoryRow struct {
	Name  string
	Count uint
}

// Inventory is a player's inventory view plus which slot is selected.
type Inventory struct {
	Entries  []InventoryRow
	Selector int
}

// WorldMessage is everything a World may tell one player about after a
// tick. Every field is a pointer or a slice, and nil means "unset"
// (nothing changed, don't resend), distinguishable from a present zero
// value.
type WorldMessage struct {
	Pos       *geom.Vec2
	Change    []ChangeEntry
	Inventory *Inventory
	Sounds    []Sound
	ViewArea  *ViewArea
	Section   *Section
	Dynamics  []CreatureView
}

// IsEmpty reports whether the message carries nothing worth sending.
func (m WorldMessage) IsEmpty() bool {
	return m.Pos == nil && m.Change == nil && m.Inventory == nil &&
		m.Sounds == nil && m.ViewArea == nil && m.Section == nil && m.Dynamics == nil
}
