package combat

import (
	"github.com/jakecoffman/cp"
	"github.com/milk9111/slimearena/common"
)

// Phase is the melee swing state.
type Phase int

const (
	PhaseIdle Phase = iota
	PhaseSwinging
	PhaseReturning
)

func (p Phase) String() string {
	switch p {
	case PhaseIdle:
		return "idle"
	case PhaseSwinging:
		return "swinging"
	case PhaseReturning:
		return "returning"
	default:
		return "unknown"
	}
}

// SwingConfig is the tuning for an orbiting melee weapon. Angles are in
// degrees, times in seconds. ActiveStart and ActiveEnd are fractions of the
// swing.
type SwingConfig struct {
	SwingAngle        float64
	SwingTime         float64
	ReturnTime        float64
	Cooldown          float64
	Ease              common.Curve
	ActiveStart       float64
	ActiveEnd         float64
	TurnSmooth        float64
	VisualAngleOffset float64
	Radius            float64
	HitRadius         float64
	Damage            int
	Knockback         float64
	TargetLayers      uint32
}

// DefaultSwingConfig is the player sword.
func DefaultSwingConfig() SwingConfig {
	return SwingConfig{
		SwingAngle:        110,
		SwingTime:         0.25,
		ReturnTime:        0.18,
		Cooldown:          0.30,
		Ease:              common.EaseInOut,
		ActiveStart:       0.25,
		ActiveEnd:         0.80,
		TurnSmooth:        0.08,
		VisualAngleOffset: -90,
		Radius:            0.6,
		HitRadius:         0.35,
		Damage:            1,
		Knockback:         6,
	}
}

// minPhaseTime guards the progress divisions against zero durations.
const minPhaseTime = 0.0001

// neverSwung is far enough in the past that the first swing is never on
// cooldown.
const neverSwung = -999.0

// Swing drives one melee weapon: aim tracking, the swing and return arcs,
// the hit window and per-swing hit deduplication.
type Swing struct {
	cfg   SwingConfig
	clock common.Clock
	// owner is reported as the source of every hit.
	owner ID

	phase        Phase
	elapsed      float64
	returnTimer  float64
	direction    float64
	lastSwingEnd float64

	aimAngle    float64
	position    cp.Vector
	orientation float64
	orbitDir    cp.Vector

	hitboxOn bool
	onHitbox func(bool)
	hitSet   map[ID]struct{}
}

func NewSwing(cfg SwingConfig, clock common.Clock) *Swing {
	if clock == nil {
		clock = common.NewFrameClock()
	}
	if cfg.Ease == nil {
		cfg.Ease = common.EaseInOut
	}
	return &Swing{
		cfg:          cfg,
		clock:        clock,
		direction:    1,
		lastSwingEnd: neverSwung,
		orbitDir:     cp.Vector{X: 1},
		hitSet:       make(map[ID]struct{}),
	}
}

func (s *Swing) Config() SwingConfig { return s.cfg }

// Reconfigure swaps tuning. A swing in progress keeps its elapsed time.
func (s *Swing) Reconfigure(cfg SwingConfig) {
	if cfg.Ease == nil {
		cfg.Ease = common.EaseInOut
	}
	s.cfg = cfg
}

// SetOwner sets the wielder identity reported as the source of hits.
func (s *Swing) SetOwner(id ID) { s.owner = id }

func (s *Swing) Owner() ID { return s.owner }

// OnHitbox registers fn to be called whenever the hit window opens or
// closes. It is not called on frames where the state is unchanged.
func (s *Swing) OnHitbox(fn func(open bool)) {
	s.onHitbox = fn
}

// Ready reports whether TryStart would accept a swing now.
func (s *Swing) Ready() bool {
	return s.phase == PhaseIdle && s.clock.Now() >= s.lastSwingEnd+s.cfg.Cooldown
}

// TryStart begins a swing toward aim. It is rejected while swinging, while
// returning and while on cooldown.
func (s *Swing) TryStart(wielder, aim cp.Vector) bool {
	if !s.Ready() {
		return false
	}
	if aim.X >= wielder.X {
		s.direction = 1
	} else {
		s.direction = -1
	}
	s.phase = PhaseSwinging
	s.elapsed = 0
	clear(s.hitSet)
	return true
}

// Update advances the weapon by dt. wielder is the orbit center and aim the
// world point the weapon should face.
func (s *Swing) Update(dt float64, wielder, aim cp.Vector) {
	if dt < 0 {
		dt = 0
	}
	target := common.AngleOf(aim.Sub(wielder))
	if s.cfg.TurnSmooth > 0 {
		s.aimAngle = common.Normalize180(common.LerpAngle(s.aimAngle, target, common.ExpSmoothFactor(dt, s.cfg.TurnSmooth)))
	} else {
		s.aimAngle = target
	}

	s.orbitDir = common.DirFromAngle(s.aimAngle)
	s.position = wielder.Add(s.orbitDir.Mult(s.cfg.Radius))

	half := s.cfg.SwingAngle * 0.5
	switch s.phase {
	case PhaseSwinging:
		t := common.Clamp01(s.elapsed / max(minPhaseTime, s.cfg.SwingTime))
		offset := common.Lerp(-half, half, s.cfg.Ease.Eval(t)) * s.direction
		s.orientation = s.aimAngle + offset + s.cfg.VisualAngleOffset
		s.setHitbox(t >= s.cfg.ActiveStart && t <= s.cfg.ActiveEnd)

		s.elapsed += dt
		if s.elapsed >= s.cfg.SwingTime {
			s.lastSwingEnd = s.clock.Now()
			s.setHitbox(false)
			s.phase = PhaseReturning
			s.returnTimer = 0
		}
	case PhaseReturning:
		s.returnTimer += dt
		t := common.Clamp01(s.returnTimer / max(minPhaseTime, s.cfg.ReturnTime))
		from := s.aimAngle + half*s.direction + s.cfg.VisualAngleOffset
		to := s.aimAngle + s.cfg.VisualAngleOffset
		s.orientation = common.LerpAngle(from, to, common.SmoothStep(0, 1, t))
		if t >= 1 {
			s.phase = PhaseIdle
		}
	default:
		s.orientation = s.aimAngle + s.cfg.VisualAngleOffset
		s.setHitbox(false)
	}
}

func (s *Swing) setHitbox(open bool) {
	if s.hitboxOn == open {
		return
	}
	s.hitboxOn = open
	if s.onHitbox != nil {
		s.onHitbox(open)
	}
}

// TryHit attempts to strike target, identified by id. It succeeds at most once per target per
// swing and only while the hit window is open. A target that is
// invulnerable is not recorded, so it can still be struck later in the same
// window once its invulnerability ends.
func (s *Swing) TryHit(id ID, target *Damageable, wielder, targetPos cp.Vector) bool {
	if !s.hitboxOn || target == nil || target.IsInvulnerable() {
		return false
	}
	if _, ok := s.hitSet[id]; ok {
		return false
	}
	dir := common.SafeNormalize(targetPos.Sub(wielder))
	s.hitSet[id] = struct{}{}
	return target.ApplyDamageFrom(s.owner, s.cfg.Damage, dir, s.cfg.Knockback)
}

// Cancel drops the current swing and closes the hit window.
func (s *Swing) Cancel() {
	if s.phase == PhaseSwinging {
		s.lastSwingEnd = s.clock.Now()
	}
	s.phase = PhaseIdle
	s.elapsed = 0
	s.returnTimer = 0
	s.setHitbox(false)
}

func (s *Swing) Phase() Phase { return s.phase }

// Progress is the normalized swing or return progress, 0 when idle.
func (s *Swing) Progress() float64 {
	switch s.phase {
	case PhaseSwinging:
		return common.Clamp01(s.elapsed / max(minPhaseTime, s.cfg.SwingTime))
	case PhaseReturning:
		return common.Clamp01(s.returnTimer / max(minPhaseTime, s.cfg.ReturnTime))
	default:
		return 0
	}
}

func (s *Swing) HitboxActive() bool { return s.hitboxOn }

// Position is the weapon's orbit point from the last Update.
func (s *Swing) Position() cp.Vector { return s.position }

// Orientation is the sprite rotation in degrees, including the visual
// alignment offset.
func (s *Swing) Orientation() float64 { return s.orientation }

func (s *Swing) AimAngle() float64 { return s.aimAngle }

// Direction is +1 for a swing started toward the right, -1 otherwise.
func (s *Swing) Direction() float64 { return s.direction }

// FlipY reports whether the sprite should be mirrored because the weapon
// points into the left half plane.
func (s *Swing) FlipY() bool {
	a := common.Normalize180(s.aimAngle)
	return a > 90 || a < -90
}

// SortBehind reports whether the weapon should draw behind its wielder.
func (s *Swing) SortBehind() bool { return s.orbitDir.Y >= 0 }

// Struck reports whether id was already hit during the current swing.
func (s *Swing) Struck(id ID) bool {
	_, ok := s.hitSet[id]
	return ok
}
