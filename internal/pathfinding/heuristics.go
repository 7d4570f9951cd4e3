package pathfinding

import (
	"errors"
	"fmt"
	"math"

	"unitnav/internal/core"
)

// ManhattanDistance calculates Manhattan distance between two points on the ground plane
func ManhattanDistance(a, b core.Vector3D) float64 {
	return math.Abs(a[0]-b[0]) + math.Abs(a[1]-b[1])
}

// EuclideanDistance calculates Euclidean distance between two points
func EuclideanDistance(a, b core.Vector3D) float64 {
	return a.Sub(b).Len()
}

// GroundDistance calculates Euclidean distance ignoring height
func GroundDistance(a, b core.Vector3D) float64 {
	return a.Vec2().Sub(b.Vec2()).Len()
}

// OctileDistance calculates octile distance (8-directional movement)
func OctileDistance(a, b core.Vector3D) float64 {
	dx := math.Abs(a[0] - b[0])
	dy := math.Abs(a[1] - b[1])
	return (dx + dy) + (math.Sqrt2-2)*math.Min(dx, dy)
}

// ErrUnknownHeuristic is returned for an unrecognised heuristic name
var ErrUnknownHeuristic = errors.New("unknown heuristic")

// HeuristicByName looks up a heuristic by its configuration name
func HeuristicByName(name string) (core.HeuristicFunc, error) {
	switch name {
	case "", "euclidean":
		return EuclideanDistance, nil
	case "ground":
		return GroundDistance, nil
	case "manhattan":
		return ManhattanDistance, nil
	case "octile":
		return OctileDistance, nil
	}
	return nil, fmt.Errorf("%q: %w", name, ErrUnknownHeuristic)
}
