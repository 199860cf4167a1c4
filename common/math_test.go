package common

import (
	"math"
	"testing"

	"github.com/jakecoffman/cp"
)

func TestMoveTowardNeverOvershoots(t *testing.T) {
	cases := []struct {
		name     string
		from     cp.Vector
		maxDelta float64
		want     cp.Vector
	}{
		{"partial", cp.Vector{X: 10}, 3, cp.Vector{X: 7}},
		{"exact", cp.Vector{X: 3}, 3, cp.Vector{}},
		{"past_zero", cp.Vector{X: 0, Y: -1}, 5, cp.Vector{}},
		{"diagonal", cp.Vector{X: 3, Y: 4}, 2.5, cp.Vector{X: 1.5, Y: 2}},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			got := MoveToward(c.from, cp.Vector{}, c.maxDelta)
			if math.Abs(got.X-c.want.X) > 1e-9 || math.Abs(got.Y-c.want.Y) > 1e-9 {
				t.Fatalf("MoveToward(%v) = %v, want %v", c.from, got, c.want)
			}
		})
	}
}

func TestDecayToZeroStrictlyDecreasesAndTerminates(t *testing.T) {
	v := cp.Vector{X: 6, Y: -2}
	rate, dt := 10.0, 1.0/60.0
	bound := int(math.Ceil(v.Length()/(rate*dt))) + 1

	prev := v.Length()
	ticks := 0
	for v.LengthSq() > 0 {
		v = DecayToZero(v, rate, dt)
		ticks++
		if cur := v.Length(); cur >= prev {
			t.Fatalf("tick %d: magnitude %v did not decrease from %v", ticks, cur, prev)
		} else {
			prev = cur
		}
		if ticks > bound {
			t.Fatalf("did not reach zero within %d ticks", bound)
		}
	}
	if v.X != 0 || v.Y != 0 {
		t.Fatalf("expected exact zero, got %v", v)
	}
}

func TestDecayToZeroSnapsTinyValues(t *testing.T) {
	got := DecayToZero(cp.Vector{X: 0.005, Y: 0.005}, 0, 1)
	if got.X != 0 || got.Y != 0 {
		t.Fatalf("expected snap to zero, got %v", got)
	}
}

func TestAngles(t *testing.T) {
	if got := Normalize180(270); got != -90 {
		t.Fatalf("Normalize180(270) = %v", got)
	}
	if got := Normalize180(-190); got != 170 {
		t.Fatalf("Normalize180(-190) = %v", got)
	}
	if got := LerpAngle(170, -170, 0.5); math.Abs(Normalize180(got)-180) > 1e-9 && math.Abs(Normalize180(got)+180) > 1e-9 {
		t.Fatalf("LerpAngle should cross the short way, got %v", got)
	}
	if got := LerpAngle(0, 90, 2); got != 90 {
		t.Fatalf("LerpAngle should clamp t, got %v", got)
	}
}

func TestExpSmoothFactor(t *testing.T) {
	if ExpSmoothFactor(0.016, 0) != 1 {
		t.Fatal("tau 0 must snap")
	}
	f := ExpSmoothFactor(0.08, 0.08)
	if math.Abs(f-(1-math.Exp(-1))) > 1e-12 {
		t.Fatalf("unexpected factor %v", f)
	}
}

func TestParseCurve(t *testing.T) {
	for _, name := range []string{"", "linear", "EASE_IN_OUT", "smoothstep", "ease_out"} {
		c, err := ParseCurve(name)
		if err != nil {
			t.Fatalf("ParseCurve(%q): %v", name, err)
		}
		if c(0) != 0 || c(1) != 1 {
			t.Fatalf("curve %q must map 0->0 and 1->1", name)
		}
	}
	if _, err := ParseCurve("bounce"); err == nil {
		t.Fatal("expected error for unknown curve")
	}
}

func TestFrameClock(t *testing.T) {
	c := NewFrameClock()
	c.Advance(0.25)
	c.Advance(-1)
	c.Advance(0.05)
	if math.Abs(c.Now()-0.3) > 1e-12 || c.Frame() != 2 {
		t.Fatalf("now=%v frame=%d", c.Now(), c.Frame())
	}
}
