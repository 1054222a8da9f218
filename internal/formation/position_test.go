package formation

import (
	"math"
	"testing"

	"fangemeinschaft/internal/apperr"

	"github.com/cockroachdb/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestClamp(t *testing.T) {
	assert.Equal(t, 0.0, Clamp(-1))
	assert.Equal(t, 100.0, Clamp(100.1))
	assert.Equal(t, 42.0, Clamp(42))
	assert.Equal(t, 0.0, Clamp(math.NaN()))
}

func TestPitchNormalize(t *testing.T) {
	p := Pitch{Width: 400, Height: 600}
	x, y := p.Normalize(100, 300)
	assert.Equal(t, 25.0, x)
	assert.Equal(t, 50.0, y)

	x, y = p.Normalize(500, -20)
	assert.Equal(t, 100.0, x)
	assert.Equal(t, 0.0, y)

	x, y = Pitch{}.Normalize(10, 10)
	assert.Equal(t, 0.0, x)
	assert.Equal(t, 0.0, y)
}

func TestParsePositions(t *testing.T) {
	positions, err := ParsePositions("")
	require.NoError(t, err)
	assert.Empty(t, positions)

	positions, err = ParsePositions(`[{"playerId":"p1","positionX":10,"positionY":90}]`)
	require.NoError(t, err)
	assert.Equal(t, []Position{{PlayerID: "p1", PositionX: 10, PositionY: 90}}, positions)
}

func TestParsePositionsRejectsInvalidInput(t *testing.T) {
	cases := map[string]struct {
		raw  string
		path string
	}{
		"not json":     {raw: `{`, path: "positions"},
		"missing id":   {raw: `[{"positionX":1,"positionY":1}]`, path: "positions.0.playerId"},
		"out of range": {raw: `[{"playerId":"p1","positionX":101,"positionY":1}]`, path: "positions.0.positionX"},
		"negative":     {raw: `[{"playerId":"p1","positionX":1,"positionY":-1}]`, path: "positions.0.positionY"},
		"duplicate":    {raw: `[{"playerId":"p1","positionX":1,"positionY":1},{"playerId":"p1","positionX":2,"positionY":2}]`, path: "positions.1.playerId"},
	}
	for name, tc := range cases {
		t.Run(name, func(t *testing.T) {
			_, err := ParsePositions(tc.raw)
			require.Error(t, err)
			var ae *apperr.Error
			require.True(t, errors.As(err, &ae))
			assert.Equal(t, apperr.KindValidation, ae.Kind)
			require.NotEmpty(t, ae.Issues)
			assert.Equal(t, tc.path, ae.Issues[0].Path)
		})
	}
}
