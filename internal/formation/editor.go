package formation

import (
	"encoding/json"
	"errors"
	"slices"
)

// Mode is the editor state
type Mode int

const (
	Idle     Mode = iota // Nothing selected
	Selected             // A roster player waits to be placed
	Dragging             // A placed player follows the pointer
)

func (m Mode) String() string {
	switch m {
	case Selected:
		return "selected"
	case Dragging:
		return "dragging"
	default:
		return "idle"
	}
}

var (
	ErrUnknownPlayer = errors.New("player is not in the roster")
	ErrAlreadyPlaced = errors.New("player is already on the pitch")
	ErrNotPlaced     = errors.New("player is not on the pitch")
	ErrNoSelection   = errors.New("no player selected")
	ErrDragging      = errors.New("cannot select while dragging")
)

// Editor holds the placement state of one lineup
type Editor struct {
	roster    []string
	positions []Position
	mode      Mode
	active    string // Selected or dragged player
}

// NewEditor starts an editor over roster with an existing layout. Initial
// positions of players outside the roster are dropped and coordinates are
// clamped.
func NewEditor(roster []string, initial []Position) *Editor {
	e := &Editor{roster: slices.Clone(roster)}
	for _, p := range initial {
		if !e.inRoster(p.PlayerID) || e.index(p.PlayerID) >= 0 {
			continue
		}
		e.positions = append(e.positions, Position{PlayerID: p.PlayerID, PositionX: Clamp(p.PositionX), PositionY: Clamp(p.PositionY)})
	}
	return e
}

// Mode returns the current state
func (e *Editor) Mode() Mode { return e.mode }

// Active returns the selected or dragged player, empty when idle
func (e *Editor) Active() string { return e.active }

// Unplaced lists roster players not yet on the pitch, in roster order
func (e *Editor) Unplaced() []string {
	out := make([]string, 0, len(e.roster))
	for _, id := range e.roster {
		if e.index(id) < 0 {
			out = append(out, id)
		}
	}
	return out
}

// Select picks an unplaced roster player for placement
func (e *Editor) Select(playerID string) error {
	if e.mode == Dragging {
		return ErrDragging
	}
	if !e.inRoster(playerID) {
		return ErrUnknownPlayer
	}
	if e.index(playerID) >= 0 {
		return ErrAlreadyPlaced
	}
	e.mode, e.active = Selected, playerID
	return nil
}

// ClickPitch places the selected player at (x, y) and returns to idle
func (e *Editor) ClickPitch(x, y float64) error {
	if e.mode != Selected {
		return ErrNoSelection
	}
	e.positions = append(e.positions, Position{PlayerID: e.active, PositionX: Clamp(x), PositionY: Clamp(y)})
	e.mode, e.active = Idle, ""
	return nil
}

// Press captures the pointer on a placed player
func (e *Editor) Press(playerID string) error {
	if e.index(playerID) < 0 {
		return ErrNotPlaced
	}
	e.mode, e.active = Dragging, playerID
	return nil
}

// Move updates the dragged player's coordinate; ignored unless dragging
func (e *Editor) Move(x, y float64) {
	if e.mode != Dragging {
		return
	}
	if i := e.index(e.active); i >= 0 {
		e.positions[i].PositionX = Clamp(x)
		e.positions[i].PositionY = Clamp(y)
	}
}

// Release ends a drag
func (e *Editor) Release() {
	if e.mode == Dragging {
		e.mode, e.active = Idle, ""
	}
}

// Remove takes a player off the pitch. Removing a player that is not placed
// is a no-op.
func (e *Editor) Remove(playerID string) {
	i := e.index(playerID)
	if i < 0 {
		return
	}
	e.positions = slices.Delete(e.positions, i, i+1)
	if e.active == playerID {
		e.mode, e.active = Idle, ""
	}
}

// Positions returns a copy of the layout in placement order
func (e *Editor) Positions() []Position {
	out := make([]Position, len(e.positions))
	copy(out, e.positions)
	return out
}

// Serialize encodes the layout for the hidden form field
func (e *Editor) Serialize() (string, error) {
	b, err := json.Marshal(e.Positions())
	if err != nil {
		return "", err
	}
	return string(b), nil
}

func (e *Editor) inRoster(id string) bool {
	return id != "" && slices.Contains(e.roster, id)
}

func (e *Editor) index(id string) int {
	return slices.IndexFunc(e.positions, func(p Position) bool { return p.PlayerID == id })
}
