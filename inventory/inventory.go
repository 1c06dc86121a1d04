// Package inventory implements a player's carried items: a small fixed
// set of always-available tools (the player's own eyes and hands) plus
// an ordered list of collected items, any of which can be selected as
// the item currently in use.
package inventory

import (
	"encoding/json"
	"fmt"

	"github.com/jmdejong/dezl/tile"
)

// fixedEntries is the number of always-present slots before the
// collected items: slot 0 is the player's eyes, slot 1 their hands.
const fixedEntries = 2

// entry pairs an item with how many of it the player is carrying.
type entry struct {
	item  tile.Item
	count uint
}

// Inventory is a player's item collection and current selection.
type Inventory struct {
	items    []entry
	selector int
}

// New returns an empty inventory with eyes selected.
func New() *Inventory {
	return &Inventory{}
}

// Add increments the carried count of item, appending a new entry if
// the player doesn't have any yet.
func (inv *Inventory) Add(item tile.Item) {
	for i := range inv.items {
		if inv.items[i].item == item {
			inv.items[i].count++
			return
		}
	}
	inv.items = append(inv.items, entry{item: item, count: 1})
}

// View describes the inventory for the client: every carried item's
// name and count, in display order, plus the selected slot index.
type View struct {
	Entries  []ItemCount
	Selector int
}

// ItemCount is one displayed inventory row.
type ItemCount struct {
	Name  string
	Count uint
}

// View returns the client-facing inventory listing, with the eyes and
// hands entries always shown first.
func (inv *Inventory) View() View {
	out := make([]ItemCount, 0, fixedEntries+len(inv.items))
	out = append(out, ItemCount{Name: tile.ItemEyes.Name(), Count: 1})
	out = append(out, ItemCount{Name: tile.ItemHands.Name(), Count: 1})
	for _, e := range inv.items {
		out = append(out, ItemCount{Name: e.item.Name(), Count: e.count})
	}
	return View{Entries: out, Selector: inv.selector}
}

// Save is the persisted shape of an inventory: the collected items and
// counts, excluding the fixed eyes/hands slots and the current
// selection (selection always resets to eyes on load).
type Save []ItemCount

// Save returns the persisted representation of the inventory.
func (inv *Inventory) Save() Save {
	out := make(Save, len(inv.items))
	for i, e := range inv.items {
		out[i] = ItemCount{Name: e.item.Name(), Count: e.count}
	}
	return out
}

// Load rebuilds an Inventory from its persisted representation.
// Entries whose name no longer resolves to a known item (e.g. a save
// written by a future version) are dropped.
func Load(saved Save) *Inventory {
	inv := &Inventory{}
	for _, ic := range saved {
		if item, ok := tile.ItemByName(ic.Name); ok {
			inv.items = append(inv.items, entry{item: item, count: ic.Count})
		}
	}
	return inv
}

// count is the total number of selectable slots: the fixed entries
// plus one per distinct carried item.
func (inv *Inventory) count() int {
	return len(inv.items) + fixedEntries
}

// Selector describes a relative or absolute slot selection.
type Selector struct {
	kind selectorKind
	idx  int
}

type selectorKind uint8

const (
	selectNext selectorKind = iota
	selectPrevious
	selectIdx
)

func SelectNext() Selector     { return Selector{kind: selectNext} }
func SelectPrevious() Selector { return Selector{kind: selectPrevious} }
func SelectIdx(idx int) Selector {
	return Selector{kind: selectIdx, idx: idx}
}

// MarshalJSON encodes a Selector as the wire shape a client sends: the
// bare string "next"/"previous", or {"idx": n}.
func (s Selector) MarshalJSON() ([]byte, error) {
	switch s.kind {
	case selectNext:
		return json.Marshal("next")
	case selectPrevious:
		return json.Marshal("previous")
	default:
		return json.Marshal(struct {
			Idx int `json:"idx"`
		}{Idx: s.idx})
	}
}

// UnmarshalJSON accepts either the bare string "next"/"previous" or an
// object {"idx": n}, matching the select/moveselected control shape in
// the wire protocol.
func (s *Selector) UnmarshalJSON(data []byte) error {
	var name string
	if err := json.Unmarshal(data, &name); err == nil {
		switch name {
		case "next":
			*s = Selector{kind: selectNext}
			return nil
		case "previous":
			*s = Selector{kind: selectPrevious}
			return nil
		default:
			return fmt.Errorf("not a selector: %q", name)
		}
	}
	var idx struct {
		Idx int `json:"idx"`
	}
	if err := json.Unmarshal(data, &idx); err != nil {
		return fmt.Errorf("selector is neither a known string nor {\"idx\":n}: %w", err)
	}
	*s = Selector{kind: selectIdx, idx: idx.Idx}
	return nil
}

func euclidMod(a, b int) int {
	r := a % b
	if r < 0 {
		r += b
	}
	return r
}

// Select moves the current selection according to sel: Next and
// Previous wrap around at either end, Idx is clamped to the valid range.
func (inv *Inventory) Select(sel Selector) {
	n := inv.count()
	switch sel.kind {
	case selectNext:
		inv.selector = euclidMod(inv.selector+1, n)
	case selectPrevious:
		inv.selector = euclidMod(inv.selector-1, n)
	case selectIdx:
		inv.selector = max(0, min(sel.idx, n-1))
	}
}

// MoveSelected reorders the currently selected carried item to the
// position sel describes, then follows the selection there. Moving a
// fixed entry (eyes or hands) is a no-op: they are never reordered.
func (inv *Inventory) MoveSelected(sel Selector) {
	if inv.selector < fixedEntries {
		return
	}
	var target int
	switch sel.kind {
	case selectNext:
		target = inv.selector + 1
	case selectPrevious:
		target = inv.selector - 1
	case selectIdx:
		target = sel.idx
	}
	if target < fixedEntries || target >= inv.count() {
		return
	}
	from := inv.selector - fixedEntries
	to := target - fixedEntries
	item := inv.items[from]
	inv.items = append(inv.items[:from], inv.items[from+1:]...)
	inv.items = append(inv.items[:to], append([]entry{item}, inv.items[to:]...)...)
	inv.Select(sel)
}

// Selected returns the item currently selected.
func (inv *Inventory) Selected() tile.Item {
	switch {
	case inv.selector == 0:
		return tile.ItemEyes
	case inv.selector == 1:
		return tile.ItemHands
	default:
		return inv.items[inv.selector-fixedEntries].item
	}
}

// Pay attempts to deduct cost from the carried items, succeeding only
// if every required item is available in sufficient quantity; on
// failure the inventory is left unchanged.
func (inv *Inventory) Pay(cost map[tile.Item]uint) bool {
	if len(cost) == 0 {
		return true
	}
	remaining := make(map[tile.Item]uint, len(cost))
	for k, v := range cost {
		remaining[k] = v
	}
	next := make([]entry, 0, len(inv.items))
	for _, e := range inv.items {
		owed := remaining[e.item]
		if owed > e.count {
			return false
		}
		delete(remaining, e.item)
		if left := e.count - owed; left > 0 {
			next = append(next, entry{item: e.item, count: left})
		}
	}
	if len(remaining) > 0 {
		return false
	}
	inv.items = next
	if n := inv.count(); inv.selector >= n {
		inv.selector = n - 1
	}
	return true
}
