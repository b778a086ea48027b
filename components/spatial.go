package components

// Position is an agent's grid cell.
type Position struct {
	X, Y int
}

// Offset returns the position shifted by (dx, dy) without wrapping.
func (p Position) Offset(dx, dy int) Position {
	return Position{X: p.X + dx, Y: p.Y + dy}
}
