package common

import (
	"fmt"
	"strings"
)

// Curve maps normalized progress in [0,1] to an eased value.
type Curve func(t float64) float64

func Linear(t float64) float64 { return Clamp01(t) }

// EaseInOut is a cubic with flat tangents at both ends.
func EaseInOut(t float64) float64 {
	t = Clamp01(t)
	return t * t * (3 - 2*t)
}

// SmoothStep interpolates from a to b with a flat start and end.
func SmoothStep(a, b, t float64) float64 {
	return Lerp(a, b, EaseInOut(t))
}

func EaseOutQuad(t float64) float64 {
	t = Clamp01(t)
	return 1 - (1-t)*(1-t)
}

func EaseInQuad(t float64) float64 {
	t = Clamp01(t)
	return t * t
}

var curves = map[string]Curve{
	"linear":      Linear,
	"ease_in_out": EaseInOut,
	"smoothstep":  EaseInOut,
	"ease_in":     EaseInQuad,
	"ease_out":    EaseOutQuad,
}

// ParseCurve resolves a curve by name. The empty name is ease_in_out.
func ParseCurve(name string) (Curve, error) {
	key := strings.ToLower(strings.TrimSpace(name))
	if key == "" {
		return EaseInOut, nil
	}
	c, ok := curves[key]
	if !ok {
		return nil, fmt.Errorf("common: unknown curve %q", name)
	}
	return c, nil
}

// Eval evaluates c, falling back to EaseInOut when c is nil.
func (c Curve) Eval(t float64) float64 {
	if c == nil {
		return EaseInOut(t)
	}
	return c(t)
}
