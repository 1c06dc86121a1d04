package world

import (
	"encoding/json"
	"fmt"

	"github.com/jmdejong/dezl/geom"
	"github.com/jmdejong/dezl/inventory"
)

// ControlKind tags which field of a Control is meaningful, the same
// flattened-struct pattern tile.Action uses instead of an interface.
type ControlKind uint8

const (
	ControlMove ControlKind = iota
	ControlMovement
	ControlSuicide
	ControlSelect
	ControlMoveSelected
	ControlInteract
)

// Control is one client input for a single tick.
type Control struct {
	Kind         ControlKind
	Direction    geom.Direction
	Movement     geom.Vec2
	Selector     inventory.Selector
	HasDirection bool // for ControlInteract: whether Direction is set
}

// UnmarshalJSON decodes the tagged <control> shape the wire protocol
// sends: {"move":"north"}, {"movement":[dx,dy]}, the bare string
// "suicide", {"interact": null|"north"}, {"select": <selector>} or
// {"moveselected": <selector>}.
func (c *Control) UnmarshalJSON(data []byte) error {
	var bare string
	if err := json.Unmarshal(data, &bare); err == nil {
		if bare != "suicide" {
			return fmt.Errorf("unknown control %q", bare)
		}
		*c = Control{Kind: ControlSuicide}
		return nil
	}

	var tagged map[string]json.RawMessage
	if err := json.Unmarshal(data, &tagged); err != nil {
		return fmt.Errorf("control is neither a known string nor a tagged object: %w", err)
	}
	if len(tagged) != 1 {
		return fmt.Errorf("control object must have exactly one field, got %d", len(tagged))
	}
	for key, raw := range tagged {
		switch key {
		case "move":
			var dir geom.Direction
			if err := json.Unmarshal(raw, &dir); err != nil {
				return fmt.Errorf("move: %w", err)
			}
			*c = Control{Kind: ControlMove, Direction: dir, HasDirection: true}
		case "movement":
			var xy [2]float32
			if err := json.Unmarshal(raw, &xy); err != nil {
				return fmt.Errorf("movement: %w", err)
			}
			*c = Control{Kind: ControlMovement, Movement: geom.NewVec2(xy[0], xy[1])}
		case "interact":
			if string(raw) == "null" {
				*c = Control{Kind: ControlInteract}
				return nil
			}
			var dir geom.Direction
			if err := json.Unmarshal(raw, &dir); err != nil {
				return fmt.Errorf("interact: %w", err)
			}
			*c = Control{Kind: ControlInteract, Direction: dir, HasDirection: true}
		case "select":
			var sel inventory.Selector
			if err := json.Unmarshal(raw, &sel); err != nil {
				return fmt.Errorf("select: %w", err)
			}
			*c = Control{Kind: ControlSelect, Selector: sel}
		case "moveselected":
			var sel inventory.Selector
			if err := json.Unmarshal(raw, &sel); err != nil {
				return fmt.Errorf("moveselected: %w", err)
			}
			*c = Control{Kind: ControlMoveSelected, Selector: sel}
		default:
			return fmt.Errorf("unknown control field %q", key)
		}
	}
	return nil
}

// MarshalJSON is mostly useful for tests that round-trip a Control;
// the server itself only ever decodes controls, never sends them.
func (c Control) MarshalJSON() ([]byte, error) {
	switch c.Kind {
	case ControlMove:
		return json.Marshal(map[string]geom.Direction{"move": c.Direction})
	case ControlMovement:
		return json.Marshal(map[string][2]float32{"movement": {c.Movement.X(), c.Movement.Y()}})
	case ControlSuicide:
		return json.Marshal("suicide")
	case ControlInteract:
		if !c.HasDirection {
			return json.Marshal(map[string]any{"interact": nil})
		}
		return json.Marshal(map[string]geom.Direction{"interact": c.Direction})
	case ControlSelect:
		return json.Marshal(map[string]inventory.Selector{"select": c.Selector})
	case ControlMoveSelected:
		return json.Marshal(map[string]inventory.Selector{"moveselected": c.Selector})
	default:
		return nil, fmt.Errorf("unknown control kind %d", c.Kind)
	}
}
