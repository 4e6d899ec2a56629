package domain

import (
	"math"
	"testing"
)

func TestNormalizedFeetRoundTrip(t *testing.T) {
	room := RoomSettings{WidthFeet: 24, DepthFeet: 18, PixelsPerFoot: 30}
	for x := 0.0; x <= 1.0; x += 0.0625 {
		feet := NormalizedToFeet(x, room.WidthFeet)
		back := FeetToNormalized(feet, room.WidthFeet)
		if math.Abs(back-x) > 1e-9 {
			t.Fatalf("round trip drifted: %v -> %v -> %v", x, feet, back)
		}
	}
}

func TestPixelFeetRoundTrip(t *testing.T) {
	const ppf = 30.0
	for _, feet := range []float64{0, 0.5, 1, 7.25, 24} {
		px := FeetToPixels(feet, ppf)
		if got := PixelsToFeet(px, ppf); math.Abs(got-feet) > 1e-9 {
			t.Fatalf("feet %v -> px %v -> %v", feet, px, got)
		}
	}
}

func TestWorldMappingRoundTrip(t *testing.T) {
	room := RoomSettings{WidthFeet: 24, DepthFeet: 18}
	p := NormalizedToWorld(0.25, 0.75, 1.5, room)
	if p.Y != 1.5 {
		t.Fatalf("elevation not preserved: %v", p.Y)
	}
	x, y := WorldToNormalized(p, room)
	if math.Abs(x-0.25) > 1e-9 || math.Abs(y-0.75) > 1e-9 {
		t.Fatalf("world round trip drifted: %v %v", x, y)
	}
}

func TestZeroExtentDoesNotDivide(t *testing.T) {
	if got := FeetToNormalized(3, 0); got != 0.5 {
		t.Fatalf("expected center fallback, got %v", got)
	}
	if got := PixelsToFeet(10, 0); got != 0 {
		t.Fatalf("expected zero, got %v", got)
	}
}

func TestClampCartPosition(t *testing.T) {
	cases := []struct{ in, want float64 }{
		{-1, 0.1}, {0, 0.1}, {0.1, 0.1}, {0.5, 0.5}, {0.9, 0.9}, {1.2, 0.9},
	}
	for _, c := range cases {
		if got := ClampCartPosition(c.in); got != c.want {
			t.Fatalf("clamp(%v) = %v, want %v", c.in, got, c.want)
		}
	}
}

func TestSnapNormalized(t *testing.T) {
	// 24ft room, 1ft grid: 0.52 normalized is 0.48ft from center, snaps to 0ft.
	got := SnapNormalized(0.52, 24, 1)
	if math.Abs(got-0.5) > 1e-9 {
		t.Fatalf("snap drifted: %v", got)
	}
	// Disabled grid passes values through.
	if got := SnapNormalized(0.52, 24, 0); got != 0.52 {
		t.Fatalf("disabled snap changed value: %v", got)
	}
}
