// Package formation models the lineup editor: players placed on a pitch
// diagram at percentage coordinates.
package formation

import (
	"encoding/json"
	"math"
	"strconv"
	"strings"

	"fangemeinschaft/internal/apperr"
)

// Coordinate bounds, in percent of pitch width or height
const (
	MinCoord = 0.0
	MaxCoord = 100.0
)

// Position is one placed player. This is also the wire format of the hidden
// "positions" form field.
type Position struct {
	PlayerID  string  `json:"playerId"`
	PositionX float64 `json:"positionX"`
	PositionY float64 `json:"positionY"`
}

// Clamp limits v to [MinCoord, MaxCoord]; NaN maps to MinCoord
func Clamp(v float64) float64 {
	if math.IsNaN(v) {
		return MinCoord
	}
	return math.Max(MinCoord, math.Min(MaxCoord, v))
}

// Pitch is the rendered size of the pitch image
type Pitch struct {
	Width  float64
	Height float64
}

// Normalize converts a pixel offset from the pitch's top-left corner into
// clamped percentages
func (p Pitch) Normalize(px, py float64) (x, y float64) {
	if p.Width <= 0 || p.Height <= 0 {
		return MinCoord, MinCoord
	}
	return Clamp(px / p.Width * 100), Clamp(py / p.Height * 100)
}

// ParsePositions decodes and validates a serialized position list. An empty
// string is an empty lineup.
func ParsePositions(raw string) ([]Position, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return []Position{}, nil
	}
	var positions []Position
	if err := json.Unmarshal([]byte(raw), &positions); err != nil {
		return nil, apperr.Validation("Validation failed", apperr.Issue{Path: "positions", Message: "must be a JSON array of positions"})
	}
	if positions == nil {
		positions = []Position{}
	}
	if issues := Validate(positions); len(issues) > 0 {
		return nil, apperr.Validation("Validation failed", issues...)
	}
	return positions, nil
}

// Validate checks ids, ranges and duplicates
func Validate(positions []Position) []apperr.Issue {
	var issues []apperr.Issue
	seen := make(map[string]bool, len(positions))
	for i, p := range positions {
		path := "positions." + strconv.Itoa(i)
		if strings.TrimSpace(p.PlayerID) == "" {
			issues = append(issues, apperr.Issue{Path: path + ".playerId", Message: "is required"})
		} else if seen[p.PlayerID] {
			issues = append(issues, apperr.Issue{Path: path + ".playerId", Message: "player is placed twice"})
		}
		seen[p.PlayerID] = true
		if !inRange(p.PositionX) {
			issues = append(issues, apperr.Issue{Path: path + ".positionX", Message: "must be between 0 and 100"})
		}
		if !inRange(p.PositionY) {
			issues = append(issues, apperr.Issue{Path: path + ".positionY", Message: "must be between 0 and 100"})
		}
	}
	return issues
}

func inRange(v float64) bool {
	return !math.IsNaN(v) && v >= MinCoord && v <= MaxCoord
}
