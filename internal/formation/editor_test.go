package formation

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEditorPlaceDragRemove(t *testing.T) {
	e := NewEditor([]string{"p1", "p2", "p3"}, nil)
	assert.Equal(t, Idle, e.Mode())

	require.NoError(t, e.Select("p1"))
	assert.Equal(t, Selected, e.Mode())
	assert.Equal(t, "p1", e.Active())

	require.NoError(t, e.ClickPitch(50, 80))
	assert.Equal(t, Idle, e.Mode())
	assert.Equal(t, []Position{{PlayerID: "p1", PositionX: 50, PositionY: 80}}, e.Positions())
	assert.Equal(t, []string{"p2", "p3"}, e.Unplaced())

	require.NoError(t, e.Press("p1"))
	assert.Equal(t, Dragging, e.Mode())
	e.Move(20, 30)
	e.Move(150, -10)
	e.Release()
	assert.Equal(t, Idle, e.Mode())
	assert.Equal(t, []Position{{PlayerID: "p1", PositionX: 100, PositionY: 0}}, e.Positions())

	e.Remove("p1")
	assert.Empty(t, e.Positions())
	assert.Equal(t, []string{"p1", "p2", "p3"}, e.Unplaced())
}

func TestEditorClampsPlacement(t *testing.T) {
	e := NewEditor([]string{"p1"}, nil)
	require.NoError(t, e.Select("p1"))
	require.NoError(t, e.ClickPitch(-5, 120))
	assert.Equal(t, []Position{{PlayerID: "p1", PositionX: 0, PositionY: 100}}, e.Positions())
}

func TestEditorRejectsInvalidTransitions(t *testing.T) {
	e := NewEditor([]string{"p1", "p2"}, []Position{{PlayerID: "p1", PositionX: 10, PositionY: 10}})

	assert.ErrorIs(t, e.ClickPitch(1, 1), ErrNoSelection)
	assert.ErrorIs(t, e.Select("stranger"), ErrUnknownPlayer)
	assert.ErrorIs(t, e.Select("p1"), ErrAlreadyPlaced)
	assert.ErrorIs(t, e.Press("p2"), ErrNotPlaced)

	require.NoError(t, e.Press("p1"))
	assert.ErrorIs(t, e.Select("p2"), ErrDragging)
	assert.Equal(t, Dragging, e.Mode(), "a rejected select keeps the drag")

	e.Release()
	e.Move(90, 90)
	assert.Equal(t, 10.0, e.Positions()[0].PositionX, "moves outside a drag are ignored")
}

func TestEditorSelectionCanChange(t *testing.T) {
	e := NewEditor([]string{"p1", "p2"}, nil)
	require.NoError(t, e.Select("p1"))
	require.NoError(t, e.Select("p2"))
	require.NoError(t, e.ClickPitch(40, 40))
	assert.Equal(t, "p2", e.Positions()[0].PlayerID)
}

func TestEditorRemoveWhileDraggingResets(t *testing.T) {
	e := NewEditor([]string{"p1"}, []Position{{PlayerID: "p1", PositionX: 10, PositionY: 10}})
	require.NoError(t, e.Press("p1"))
	e.Remove("p1")
	assert.Equal(t, Idle, e.Mode())
	assert.Empty(t, e.Active())
	e.Remove("p1") // Not placed, nothing happens
}

func TestNewEditorDropsUnknownAndDuplicatePlayers(t *testing.T) {
	e := NewEditor([]string{"p1"}, []Position{
		{PlayerID: "p1", PositionX: 120, PositionY: 50},
		{PlayerID: "p1", PositionX: 10, PositionY: 10},
		{PlayerID: "gone", PositionX: 10, PositionY: 10},
	})
	assert.Equal(t, []Position{{PlayerID: "p1", PositionX: 100, PositionY: 50}}, e.Positions())
}

func TestEditorSerializeRoundTripsThroughParse(t *testing.T) {
	e := NewEditor([]string{"p1", "p2"}, nil)
	require.NoError(t, e.Select("p2"))
	require.NoError(t, e.ClickPitch(25.5, 75))
	require.NoError(t, e.Select("p1"))
	require.NoError(t, e.ClickPitch(50, 50))

	raw, err := e.Serialize()
	require.NoError(t, err)
	assert.JSONEq(t, `[{"playerId":"p2","positionX":25.5,"positionY":75},{"playerId":"p1","positionX":50,"positionY":50}]`, raw)

	parsed, err := ParsePositions(raw)
	require.NoError(t, err)
	assert.Equal(t, e.Positions(), parsed)
}

func TestEmptyEditorSerializesToEmptyArray(t *testing.T) {
	raw, err := NewEditor(nil, nil).Serialize()
	require.NoError(t, err)
	assert.Equal(t, "[]", raw)
}
