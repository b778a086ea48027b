package components

import "testing"

func TestPositionOffset(t *testing.T) {
	p := Position{X: 2, Y: 3}
	if got := p.Offset(-3, 1); got != (Position{X: -1, Y: 4}) {
		t.Errorf("Offset(-3, 1) = %+v, want {-1 4}", got)
	}
	if p != (Position{X: 2, Y: 3}) {
		t.Errorf("Offset modified receiver: %+v", p)
	}
}
