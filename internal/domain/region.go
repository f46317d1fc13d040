package domain

import "math"

// Point is a 2D coordinate in image space (pixels, origin top-left).
type Point struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

// Region is one detected text region as returned by the OCR capability.
// The polygon holds four ordered corners: top-left, top-right, bottom-right,
// bottom-left. It is not necessarily axis-aligned.
type Region struct {
	Polygon    [4]Point `json:"polygon"`
	Text       string   `json:"text"`
	Confidence float64  `json:"confidence"`
}

// CenterX is the horizontal midpoint of the region's top edge.
func (r Region) CenterX() float64 {
	return (r.Polygon[0].X + r.Polygon[1].X) / 2
}

// CenterY is the vertical midpoint between the top-left and bottom-right corners.
func (r Region) CenterY() float64 {
	return (r.Polygon[0].Y + r.Polygon[2].Y) / 2
}

// Top is the y-coordinate of the region's upper edge.
func (r Region) Top() float64 { return r.Polygon[0].Y }

// Bottom is the y-coordinate of the region's lower edge.
func (r Region) Bottom() float64 { return r.Polygon[2].Y }

// Height is the glyph height of the region.
func (r Region) Height() float64 { return r.Polygon[2].Y - r.Polygon[0].Y }

// CenterDistance is the straight-line distance between two region centers.
func (r Region) CenterDistance(other Region) float64 {
	dx := r.CenterX() - other.CenterX()
	dy := r.CenterY() - other.CenterY()
	return math.Sqrt(dx*dx + dy*dy)
}
