package entity

// DrawingText is a single text entity inside an open CAD drawing.
type DrawingText struct {
	Handle  string `json:"handle"`
	Content string `json:"content"`
	Layer   string `json:"layer,omitempty"`
}

// DrawingEntity is the generic shape record returned by drawing queries.
type DrawingEntity struct {
	Handle string `json:"handle"`
	Type   string `json:"type"`
	Layer  string `json:"layer,omitempty"`
}

// Frame is one detected drawing frame (border plus title block region).
type Frame struct {
	Name string  `json:"name"`
	MinX float64 `json:"min_x"`
	MinY float64 `json:"min_y"`
	MaxX float64 `json:"max_x"`
	MaxY float64 `json:"max_y"`
}
