package domain

import "math"

// Vec2 is a 2D vector. Units depend on context (normalized, feet, or pixels).
type Vec2 struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

// Vec3 is a 3D vector in feet from the room center unless stated otherwise.
type Vec3 struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
	Z float64 `json:"z"`
}

// Interactive cart positions stay inside this inset so carts remain visible.
const (
	CartMinNormalized = 0.1
	CartMaxNormalized = 0.9
)

// ClampCartPosition clamps a normalized coordinate to the interactive inset.
func ClampCartPosition(v float64) float64 {
	return math.Min(CartMaxNormalized, math.Max(CartMinNormalized, v))
}

// NormalizedToFeet converts a normalized [0,1] room coordinate to feet from
// the room center along the given room extent.
func NormalizedToFeet(v, extentFeet float64) float64 {
	return (v - 0.5) * extentFeet
}

// FeetToNormalized converts feet from the room center back to a normalized
// [0,1] coordinate along the given room extent.
func FeetToNormalized(feet, extentFeet float64) float64 {
	if extentFeet == 0 {
		return 0.5
	}
	return feet/extentFeet + 0.5
}

// FeetToPixels converts a length in feet to canvas pixels.
func FeetToPixels(feet, pixelsPerFoot float64) float64 {
	return feet * pixelsPerFoot
}

// PixelsToFeet converts canvas pixels back to feet.
func PixelsToFeet(px, pixelsPerFoot float64) float64 {
	if pixelsPerFoot == 0 {
		return 0
	}
	return px / pixelsPerFoot
}

// NormalizedToPixels converts a normalized room coordinate straight to canvas
// pixels given the room extent in feet.
func NormalizedToPixels(v, extentFeet, pixelsPerFoot float64) float64 {
	return v * extentFeet * pixelsPerFoot
}

// PixelsToNormalized converts canvas pixels back to a normalized coordinate.
func PixelsToNormalized(px, extentFeet, pixelsPerFoot float64) float64 {
	if extentFeet == 0 || pixelsPerFoot == 0 {
		return 0
	}
	return px / (extentFeet * pixelsPerFoot)
}

// NormalizedToWorld maps a cart's normalized (x, y) room position to a 3D
// world position in feet from the room center. The y normalized axis maps to
// world Z (depth); world Y is the vertical elevation.
func NormalizedToWorld(x, y, elevationFeet float64, room RoomSettings) Vec3 {
	return Vec3{
		X: NormalizedToFeet(x, room.WidthFeet),
		Y: elevationFeet,
		Z: NormalizedToFeet(y, room.DepthFeet),
	}
}

// WorldToNormalized maps a world position back to normalized room coordinates.
func WorldToNormalized(p Vec3, room RoomSettings) (x, y float64) {
	return FeetToNormalized(p.X, room.WidthFeet), FeetToNormalized(p.Z, room.DepthFeet)
}

// SnapFeet rounds a value in feet to the nearest grid step. A non-positive
// step disables snapping.
func SnapFeet(feet, gridFeet float64) float64 {
	if gridFeet <= 0 {
		return feet
	}
	return math.Round(feet/gridFeet) * gridFeet
}

// SnapNormalized snaps a normalized coordinate to a grid defined in feet.
func SnapNormalized(v, extentFeet, gridFeet float64) float64 {
	if gridFeet <= 0 || extentFeet == 0 {
		return v
	}
	return FeetToNormalized(SnapFeet(NormalizedToFeet(v, extentFeet), gridFeet), extentFeet)
}
