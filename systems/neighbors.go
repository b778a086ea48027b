package systems

import "github.com/pthm-cable/ecosim/components"

// Neighborhood enumerates passable cells in a square window around a cell.
type Neighborhood struct {
	terrain  *Terrain
	radius   int
	toroidal bool

	buf []components.Position
}

// NewNeighborhood creates a neighbour finder. Radii below 1 act as 1.
func NewNeighborhood(t *Terrain, radius int, toroidal bool) *Neighborhood {
	return &Neighborhood{
		terrain:  t,
		radius:   max(1, radius),
		toroidal: toroidal,
	}
}

// Radius returns the effective search radius.
func (n *Neighborhood) Radius() int { return n.radius }

// Around returns the passable cells within the radius of pos, excluding pos
// itself, scanned row by row from the top-left offset. With wrapping enabled
// out-of-range coordinates wrap on both axes; otherwise they are discarded.
//
// The returned slice is reused by the next call.
func (n *Neighborhood) Around(pos components.Position) []components.Position {
	w, h := n.terrain.Width(), n.terrain.Height()
	n.buf = n.buf[:0]
	for dy := -n.radius; dy <= n.radius; dy++ {
		for dx := -n.radius; dx <= n.radius; dx++ {
			if dx == 0 && dy == 0 {
				continue
			}
			p := pos.Offset(dx, dy)
			if n.toroidal {
				p.X = modInt(p.X, w)
				p.Y = modInt(p.Y, h)
			}
			if !n.terrain.InBounds(p.X, p.Y) || !n.terrain.At(p.X, p.Y).Passable() {
				continue
			}
			n.buf = append(n.buf, p)
		}
	}
	return n.buf
}
