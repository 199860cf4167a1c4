package common

import (
	"math"

	"github.com/jakecoffman/cp"
)

// snapEpsilonSq is the squared magnitude below which a decaying vector is
// treated as zero.
const snapEpsilonSq = 0.0001

func Lerp(a, b, t float64) float64 {
	return a + t*(b-a)
}

// LerpClamped is Lerp with t clamped to [0,1].
func LerpClamped(a, b, t float64) float64 {
	return Lerp(a, b, Clamp01(t))
}

func Clamp01(t float64) float64 {
	if t < 0 {
		return 0
	}
	if t > 1 {
		return 1
	}
	return t
}

func Clamp(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

// MoveToward moves v toward target by at most maxDelta. The result never
// passes target; once within maxDelta it lands on target exactly.
func MoveToward(v, target cp.Vector, maxDelta float64) cp.Vector {
	delta := target.Sub(v)
	dist := delta.Length()
	if dist <= maxDelta || dist == 0 {
		return target
	}
	return v.Add(delta.Mult(maxDelta / dist))
}

// DecayToZero linearly reduces v toward zero by rate*dt and snaps tiny
// remainders to exactly zero.
func DecayToZero(v cp.Vector, rate, dt float64) cp.Vector {
	if v.LengthSq() <= snapEpsilonSq {
		return cp.Vector{}
	}
	if rate <= 0 || dt <= 0 {
		return v
	}
	return MoveToward(v, cp.Vector{}, rate*dt)
}

// ExpSmoothFactor returns the blend factor for exponential smoothing with
// time constant tau. tau <= 0 snaps immediately.
func ExpSmoothFactor(dt, tau float64) float64 {
	if tau <= 0 {
		return 1
	}
	if dt <= 0 {
		return 0
	}
	return 1 - math.Exp(-dt/tau)
}

// Normalize180 wraps an angle in degrees into [-180, 180].
func Normalize180(a float64) float64 {
	a = math.Mod(a, 360)
	if a > 180 {
		a -= 360
	}
	if a < -180 {
		a += 360
	}
	return a
}

// DeltaAngle is the shortest signed difference b-a in degrees.
func DeltaAngle(a, b float64) float64 {
	d := math.Mod(b-a, 360)
	if d < 0 {
		d += 360
	}
	if d > 180 {
		d -= 360
	}
	return d
}

// LerpAngle interpolates between two angles in degrees along the shortest
// arc. t is clamped to [0,1].
func LerpAngle(a, b, t float64) float64 {
	return a + DeltaAngle(a, b)*Clamp01(t)
}

func Deg2Rad(d float64) float64 { return d * math.Pi / 180 }

func Rad2Deg(r float64) float64 { return r * 180 / math.Pi }

// AngleOf returns the direction of v in degrees.
func AngleOf(v cp.Vector) float64 {
	return Rad2Deg(math.Atan2(v.Y, v.X))
}

// DirFromAngle returns the unit vector pointing at angle degrees.
func DirFromAngle(deg float64) cp.Vector {
	r := Deg2Rad(deg)
	return cp.Vector{X: math.Cos(r), Y: math.Sin(r)}
}

// SafeNormalize returns the unit vector of v, or zero when v has no length.
func SafeNormalize(v cp.Vector) cp.Vector {
	l := v.Length()
	if l <= 1e-9 {
		return cp.Vector{}
	}
	return v.Mult(1 / l)
}
