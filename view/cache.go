package view

import "reflect"

// MessageCache remembers the last WorldMessage sent to each player, so
// Trim can drop fields that haven't changed since and avoid resending
// them every tick.
type MessageCache struct {
	last map[string]WorldMessage
}

// NewMessageCache returns an empty cache.
func NewMessageCache() *MessageCache {
	return &MessageCache{last: make(map[string]WorldMessage)}
}

// Trim clears any field of msg that's identical to what was last sent
// to player, then records the merged result as the new baseline.
// Sounds are never trimmed: a repeated identical sound should still
// play again.
func (c *MessageCache) Trim(player string, msg *WorldMessage) {
	cached, ok := c.last[player]
	if !ok {
		c.last[player] = *msg
		return
	}
	if reflect.DeepEqual(msg.Pos, cached.Pos) {
		msg.Pos = nil
	}
	if reflect.DeepEqual(msg.Change, cached.Change) {
		msg.Change = nil
	}
	if reflect.DeepEqual(msg.Inventory, cached.Inventory) {
		msg.Inventory = nil
	}
	if reflect.DeepEqual(msg.ViewArea, cached.ViewArea) {
		msg.ViewArea = nil
	}
	if reflect.DeepEqual(msg.Section, cached.Section) {
		msg.Section = nil
	}
	if reflect.DeepEqual(msg.Dynamics, cached.Dynamics) {
		msg.Dynamics = nil
	}
	merged := cached
	if msg.Pos != nil {
		merged.Pos = msg.Pos
	}
	if msg.Change != nil {
		merged.Change = msg.Change
	}
	if msg.Inventory != nil {
		merged.Inventory = msg.Inventory
	}
	if msg.ViewArea != nil {
		merged.ViewArea = msg.ViewArea
	}
	if msg.Section != nil {
		merged.Section = msg.Section
	}
	if msg.Dynamics != nil {
		merged.Dynamics = msg.Dynamics
	}
	c.last[player] = merged
}

// Remove drops a disconnected player's cached baseline.
func (c *MessageCache) Remove(player string) {
	delete(c.last, player)
}
