package view

import (
	"github.com/jmdejong/dezl/geom"
	"github.com/jmdejong/dezl/tile"
)

// spriteKey turns a sprite stack into a comparable map key so equal
// stacks reuse the same palette entry.
func spriteKey(sprites []tile.Sprite) string {
	var key string
	for _, s := range sprites {
		key += string(s) + "\x00"
	}
	return key
}

// DrawField renders area as a palette-compressed Section: cells gives
// the resolved tile at every position in area (typically
// worldmap.Map.LoadArea's result), and repeated sprite stacks are sent
// only once.
func DrawField(area geom.Area, cells map[geom.Pos]tile.Tile) Section {
	field := make([]int, 0, area.Size())
	mapping := make([][]tile.Sprite, 0)
	index := make(map[string]int)
	area.Iter(func(pos geom.Pos) bool {
		sprites := cells[pos].Sprites()
		key := spriteKey(sprites)
		i, ok := index[key]
		if !ok {
			i = len(mapping)
			mapping = append(mapping, sprites)
			index[key] = i
		}
		field = append(field, i)
		return true
	})
	return Section{Area: area, Field: field, Mapping: mapping}
}
