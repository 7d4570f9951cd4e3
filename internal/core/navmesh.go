package core

// NavDirection is a compass direction on the navigation mesh.
// North is -Y, East is +X, South is +Y, West is -X.
type NavDirection uint8

const (
	North NavDirection = iota
	East
	South
	West
	NumDirections

	DirNone = NumDirections
)

// Opposite returns the reverse direction
func (d NavDirection) Opposite() NavDirection {
	switch d {
	case North:
		return South
	case East:
		return West
	case South:
		return North
	case West:
		return East
	}
	return DirNone
}

func (d NavDirection) String() string {
	switch d {
	case North:
		return "north"
	case East:
		return "east"
	case South:
		return "south"
	case West:
		return "west"
	}
	return "none"
}

// Corner names the corners of a rectangular area
type Corner uint8

const (
	NorthWest Corner = iota
	NorthEast
	SouthEast
	SouthWest
)

// AreaID identifies a navigation area
type AreaID uint32

// NavArea is a walkable region of the navigation mesh
type NavArea interface {
	ID() AreaID
	Center() Vector3D
	Corner(c Corner) Vector3D
	SizeX() float64
	SizeY() float64
	// Z returns the ground height of the area under pos
	Z(pos Vector3D) float64
	Contains(pos Vector3D) bool
	ClosestPoint(pos Vector3D) Vector3D
	IsBlocked() bool
	Adjacent(dir NavDirection) []NavArea
	IsConnected(other NavArea) bool
	// IsContiguous reports whether other can be walked into without a climb or drop
	IsContiguous(other NavArea) bool
	// ConnectionHeightChange is positive when other is higher
	ConnectionHeightChange(other NavArea) float64
	// ComputeSemiPortal returns the middle of this area's edge facing other in dir
	// and the half width of the shared edge
	ComputeSemiPortal(other NavArea, dir NavDirection) (center Vector3D, halfWidth float64)
}

// CostFunc returns the incremental cost of moving from one area into another
// in direction dir. A negative value means the move is not possible.
// from is nil for the start area.
type CostFunc func(to, from NavArea, dir NavDirection) float64

// RouteStep is one area along a search result. How is the direction travelled
// from the previous step's area into Area; it is DirNone for the start area.
type RouteStep struct {
	Area NavArea
	How  NavDirection
}

// SearchResult holds a route from the start area to the closest reachable area
type SearchResult struct {
	Steps       []RouteStep
	Closest     NavArea
	ReachedGoal bool
}

// PathNode represents a node in the area search
type PathNode struct {
	Area    NavArea
	How     NavDirection
	G, H, F float64 // G: cost from start, H: heuristic, F: G+H
	Parent  *PathNode
	Index   int // Index in priority queue
}

// Pathfinder searches the area graph
type Pathfinder interface {
	FindPath(start, goal NavArea, goalPos Vector3D, cost CostFunc) SearchResult
	SetHeuristic(heuristic HeuristicFunc)
}

// NavMesh is the navigation mesh service
type NavMesh interface {
	// AreaAt returns the area under pos no further than beneathLimit below it
	AreaAt(pos Vector3D, beneathLimit float64) NavArea
	NearestArea(pos Vector3D) NavArea
	Area(id AreaID) NavArea
	BuildPath(start, goal NavArea, goalPos Vector3D, cost CostFunc) SearchResult
}

// SameArea compares two possibly nil areas by id
func SameArea(a, b NavArea) bool {
	if a == nil || b == nil {
		return a == nil && b == nil
	}
	return a.ID() == b.ID()
}
