package geom

// Point is a screen coordinate in pixels.
type Point struct {
	X float64
	Y float64
}

// Polygon is an ordered vertex list. The closing edge from the last vertex
// back to the first is implicit.
type Polygon []Point

// Contains reports whether (x, y) lies inside the polygon using the
// even-odd ray casting rule. The result depends only on the set of edges,
// so any rotation of the vertex list gives the same answer.
// Polygons with fewer than three vertices contain nothing.
func (p Polygon) Contains(x, y float64) bool {
	n := len(p)
	if n < 3 {
		return false
	}
	inside := false
	for i, j := 0, n-1; i < n; j, i = i, i+1 {
		xi, yi := p[i].X, p[i].Y
		xj, yj := p[j].X, p[j].Y
		if (yi > y) != (yj > y) {
			xCross := (xj-xi)*(y-yi)/(yj-yi) + xi
			if x < xCross {
				inside = !inside
			}
		}
	}
	return inside
}
