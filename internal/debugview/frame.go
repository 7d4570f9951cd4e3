package debugview

// Frame is one simulation tick as seen by a debug client
type Frame struct {
	Type      string          `json:"type"`
	Tick      uint64          `json:"tick"`
	Time      float64         `json:"time"`
	Units     []UnitFrame     `json:"units"`
	Obstacles []ObstacleFrame `json:"obstacles"`
	Areas     []AreaFrame     `json:"areas,omitempty"`
}

// UnitFrame is the state of one steered unit
type UnitFrame struct {
	ID         uint64       `json:"id"`
	Player     int          `json:"player"`
	X          float64      `json:"x"`
	Y          float64      `json:"y"`
	Z          float64      `json:"z"`
	Yaw        float64      `json:"yaw"`
	Radius     float64      `json:"radius"`
	Goal       string       `json:"goal"`
	Status     string       `json:"status"`
	GoalX      float64      `json:"goalX"`
	GoalY      float64      `json:"goalY"`
	Waypoints  [][2]float64 `json:"waypoints,omitempty"`
	Density    float64      `json:"density"`
	Discomfort float64      `json:"discomfort"`
}

// ObstacleFrame is a static blocker footprint
type ObstacleFrame struct {
	ID   uint64  `json:"id"`
	MinX float64 `json:"minX"`
	MinY float64 `json:"minY"`
	MaxX float64 `json:"maxX"`
	MaxY float64 `json:"maxY"`
}

// AreaFrame is a navigation area footprint
type AreaFrame struct {
	ID      uint32  `json:"id"`
	MinX    float64 `json:"minX"`
	MinY    float64 `json:"minY"`
	MaxX    float64 `json:"maxX"`
	MaxY    float64 `json:"maxY"`
	Z       float64 `json:"z"`
	Blocked bool    `json:"blocked"`
}

// welcomeMessage is the first message a subscriber receives
type welcomeMessage struct {
	Type    string `json:"type"`
	Session string `json:"session"`
}
