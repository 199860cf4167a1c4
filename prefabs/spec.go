package prefabs

import (
	"errors"
	"fmt"
	"image/color"
	"strconv"
	"strings"

	"github.com/jakecoffman/cp"
	"github.com/milk9111/slimearena/combat"
	"github.com/milk9111/slimearena/common"
	"gopkg.in/yaml.v3"
)

// ErrInvalidSpec wraps every validation failure.
var ErrInvalidSpec = errors.New("prefabs: invalid spec")

func invalid(file, format string, args ...any) error {
	return fmt.Errorf("%w: %s: %s", ErrInvalidSpec, file, fmt.Sprintf(format, args...))
}

func LoadSpec[T any](filename string) (T, error) {
	var zero T
	data, err := Load(filename)
	if err != nil {
		return zero, fmt.Errorf("prefabs: load %s: %w", filename, err)
	}

	var spec T
	if err := yaml.Unmarshal(data, &spec); err != nil {
		return zero, fmt.Errorf("prefabs: unmarshal %s: %w", filename, err)
	}

	return spec, nil
}

type VectorSpec struct {
	X float64 `yaml:"x"`
	Y float64 `yaml:"y"`
}

func (v VectorSpec) Vector() cp.Vector {
	return cp.Vector{X: v.X, Y: v.Y}
}

type SpriteSpec struct {
	Image   string     `yaml:"image"`
	Color   *YAMLColor `yaml:"color"`
	Width   float64    `yaml:"width"`
	Height  float64    `yaml:"height"`
	OriginX float64    `yaml:"origin_x"`
	OriginY float64    `yaml:"origin_y"`
}

// NRGBA returns the placeholder color, white when unset.
func (s SpriteSpec) NRGBA() color.NRGBA {
	if s.Color == nil || s.Color.Color == nil {
		return color.NRGBA{R: 255, G: 255, B: 255, A: 255}
	}
	return color.NRGBAModel.Convert(s.Color.Color).(color.NRGBA)
}

type ColliderSpec struct {
	Radius     float64 `yaml:"radius"`
	Mass       float64 `yaml:"mass"`
	Friction   float64 `yaml:"friction"`
	Elasticity float64 `yaml:"elasticity"`
}

type HurtboxSpec struct {
	Radius  float64 `yaml:"radius"`
	OffsetX float64 `yaml:"offset_x"`
	OffsetY float64 `yaml:"offset_y"`
}

type FlashSpec struct {
	Count    int        `yaml:"count"`
	Interval float64    `yaml:"interval"`
	Color    *YAMLColor `yaml:"color"`
}

type DeathSpec struct {
	Animate           bool       `yaml:"animate"`
	Style             string     `yaml:"style"`
	Duration          float64    `yaml:"duration"`
	Ease              string     `yaml:"ease"`
	FadeOut           bool       `yaml:"fade_out"`
	DisableColliders  bool       `yaml:"disable_colliders"`
	DisablePhysics    bool       `yaml:"disable_physics"`
	DisableBehaviours bool       `yaml:"disable_behaviours"`
	DestroyOnFinish   bool       `yaml:"destroy_on_finish"`
	FallOffset        VectorSpec `yaml:"fall_offset"`
	CorpseSprite      string     `yaml:"corpse_sprite"`
}

type SpawnSpec struct {
	Animate  bool    `yaml:"animate"`
	Duration float64 `yaml:"duration"`
	Ease     string  `yaml:"ease"`
	FadeIn   bool    `yaml:"fade_in"`
}

type DamageableSpec struct {
	MaxHealth        int       `yaml:"max_health"`
	InvulnTime       float64   `yaml:"invuln_time"`
	KnockbackToSpeed float64   `yaml:"knockback_to_speed"`
	KnockbackDamp    float64   `yaml:"knockback_damp"`
	StunTime         float64   `yaml:"stun_time"`
	Flash            FlashSpec `yaml:"flash"`
	Death            DeathSpec `yaml:"death"`
	Spawn            SpawnSpec `yaml:"spawn"`
}

// Config converts the prefab values into combat tuning. file is used in errors.
func (s DamageableSpec) Config(file string) (combat.DamageableConfig, error) {
	if s.MaxHealth <= 0 {
		return combat.DamageableConfig{}, invalid(file, "max_health must be positive, got %d", s.MaxHealth)
	}
	if s.InvulnTime < 0 || s.StunTime < 0 || s.KnockbackDamp < 0 {
		return combat.DamageableConfig{}, invalid(file, "invuln_time, stun_time and knockback_damp must not be negative")
	}

	deathEase, err := common.ParseCurve(s.Death.Ease)
	if err != nil {
		return combat.DamageableConfig{}, invalid(file, "death.ease: %v", err)
	}
	spawnEase, err := common.ParseCurve(s.Spawn.Ease)
	if err != nil {
		return combat.DamageableConfig{}, invalid(file, "spawn.ease: %v", err)
	}

	style := combat.DeathStyle(strings.ToLower(strings.TrimSpace(s.Death.Style)))
	switch style {
	case "":
		style = combat.DeathShrink
	case combat.DeathShrink, combat.DeathFall:
	default:
		return combat.DamageableConfig{}, invalid(file, "death.style %q", s.Death.Style)
	}

	var flashColor color.Color = color.NRGBA{R: 255, G: 51, B: 51, A: 255}
	if s.Flash.Color != nil && s.Flash.Color.Color != nil {
		flashColor = s.Flash.Color.Color
	}

	return combat.DamageableConfig{
		MaxHealth:        s.MaxHealth,
		InvulnTime:       s.InvulnTime,
		KnockbackToSpeed: s.KnockbackToSpeed,
		KnockbackDamp:    s.KnockbackDamp,
		StunTime:         s.StunTime,
		Flash: combat.FlashConfig{
			Count:    s.Flash.Count,
			Interval: s.Flash.Interval,
			Color:    flashColor,
		},
		Death: combat.DeathConfig{
			Animate:           s.Death.Animate,
			Style:             style,
			Duration:          s.Death.Duration,
			Ease:              deathEase,
			FadeOut:           s.Death.FadeOut,
			DisableColliders:  s.Death.DisableColliders,
			DisablePhysics:    s.Death.DisablePhysics,
			DisableBehaviours: s.Death.DisableBehaviours,
			DestroyOnFinish:   s.Death.DestroyOnFinish,
			FallOffset:        s.Death.FallOffset.Vector(),
			CorpseSprite:      s.Death.CorpseSprite,
		},
		Spawn: combat.SpawnConfig{
			Animate:  s.Spawn.Animate,
			Duration: s.Spawn.Duration,
			Ease:     spawnEase,
			FadeIn:   s.Spawn.FadeIn,
		},
	}, nil
}

type ContactSpec struct {
	Damage         int      `yaml:"damage"`
	Cooldown       float64  `yaml:"cooldown"`
	KnockbackForce float64  `yaml:"knockback_force"`
	HostileLayers  []string `yaml:"hostile_layers"`
	HostileTag     string   `yaml:"hostile_tag"`
}

func (s ContactSpec) Config(file string) (combat.ContactConfig, error) {
	if s.Cooldown < 0 {
		return combat.ContactConfig{}, invalid(file, "contact.cooldown must not be negative")
	}
	mask, err := ParseLayers(s.HostileLayers)
	if err != nil {
		return combat.ContactConfig{}, invalid(file, "contact.hostile_layers: %v", err)
	}
	return combat.ContactConfig{
		Damage:         s.Damage,
		Cooldown:       s.Cooldown,
		KnockbackForce: s.KnockbackForce,
		HostileLayers:  mask,
		HostileTag:     s.HostileTag,
	}, nil
}

type PlayerSpec struct {
	Name       string         `yaml:"name"`
	MaxSpeed   float64        `yaml:"max_speed"`
	Accel      float64        `yaml:"accel"`
	Decel      float64        `yaml:"decel"`
	Layer      string         `yaml:"layer"`
	Sprite     SpriteSpec     `yaml:"sprite"`
	Collider   ColliderSpec   `yaml:"collider"`
	Hurtbox    HurtboxSpec    `yaml:"hurtbox"`
	Damageable DamageableSpec `yaml:"damageable"`
	Contact    ContactSpec    `yaml:"contact"`
	Weapon     string         `yaml:"weapon"`
}

func (s *PlayerSpec) Validate() error {
	const file = "player.yaml"
	if s.MaxSpeed <= 0 {
		return invalid(file, "max_speed must be positive")
	}
	if s.Accel < 0 || s.Decel < 0 {
		return invalid(file, "accel and decel must not be negative")
	}
	if _, err := ParseLayer(s.Layer); err != nil {
		return invalid(file, "layer: %v", err)
	}
	if _, err := s.Damageable.Config(file); err != nil {
		return err
	}
	_, err := s.Contact.Config(file)
	return err
}

func LoadPlayerSpec() (*PlayerSpec, error) {
	spec, err := LoadSpec[PlayerSpec]("player.yaml")
	if err != nil {
		return nil, err
	}
	if err := spec.Validate(); err != nil {
		return nil, err
	}
	return &spec, nil
}

type SlimeSpec struct {
	Name         string         `yaml:"name"`
	MoveSpeed    float64        `yaml:"move_speed"`
	StopDistance float64        `yaml:"stop_distance"`
	Script       string         `yaml:"script"`
	Layer        string         `yaml:"layer"`
	Tag          string         `yaml:"tag"`
	Sprite       SpriteSpec     `yaml:"sprite"`
	Collider     ColliderSpec   `yaml:"collider"`
	Hurtbox      HurtboxSpec    `yaml:"hurtbox"`
	Damageable   DamageableSpec `yaml:"damageable"`
}

func (s *SlimeSpec) Validate() error {
	const file = "slime.yaml"
	if s.MoveSpeed < 0 || s.StopDistance < 0 {
		return invalid(file, "move_speed and stop_distance must not be negative")
	}
	if _, err := ParseLayer(s.Layer); err != nil {
		return invalid(file, "layer: %v", err)
	}
	_, err := s.Damageable.Config(file)
	return err
}

func LoadSlimeSpec() (*SlimeSpec, error) {
	spec, err := LoadSpec[SlimeSpec]("slime.yaml")
	if err != nil {
		return nil, err
	}
	if err := spec.Validate(); err != nil {
		return nil, err
	}
	return &spec, nil
}

type SwordSpec struct {
	Name              string     `yaml:"name"`
	Radius            float64    `yaml:"radius"`
	HitRadius         float64    `yaml:"hit_radius"`
	TurnSmooth        float64    `yaml:"turn_smooth"`
	VisualAngleOffset float64    `yaml:"visual_angle_offset"`
	SwingAngle        float64    `yaml:"swing_angle"`
	SwingTime         float64    `yaml:"swing_time"`
	ReturnTime        float64    `yaml:"return_time"`
	Cooldown          float64    `yaml:"cooldown"`
	Ease              string     `yaml:"ease"`
	ActiveStart       float64    `yaml:"active_start"`
	ActiveEnd         float64    `yaml:"active_end"`
	Damage            int        `yaml:"damage"`
	Knockback         float64    `yaml:"knockback"`
	TargetLayers      []string   `yaml:"target_layers"`
	Sprite            SpriteSpec `yaml:"sprite"`
}

func (s SwordSpec) Config(file string) (combat.SwingConfig, error) {
	if s.SwingTime <= 0 {
		return combat.SwingConfig{}, invalid(file, "swing_time must be positive")
	}
	if s.ReturnTime < 0 || s.Cooldown < 0 {
		return combat.SwingConfig{}, invalid(file, "return_time and cooldown must not be negative")
	}
	if s.ActiveStart < 0 || s.ActiveEnd > 1 || s.ActiveStart > s.ActiveEnd {
		return combat.SwingConfig{}, invalid(file, "hit window [%v, %v] must lie within [0, 1]", s.ActiveStart, s.ActiveEnd)
	}
	ease, err := common.ParseCurve(s.Ease)
	if err != nil {
		return combat.SwingConfig{}, invalid(file, "ease: %v", err)
	}
	mask, err := ParseLayers(s.TargetLayers)
	if err != nil {
		return combat.SwingConfig{}, invalid(file, "target_layers: %v", err)
	}
	return combat.SwingConfig{
		SwingAngle:        s.SwingAngle,
		SwingTime:         s.SwingTime,
		ReturnTime:        s.ReturnTime,
		Cooldown:          s.Cooldown,
		Ease:              ease,
		ActiveStart:       s.ActiveStart,
		ActiveEnd:         s.ActiveEnd,
		TurnSmooth:        s.TurnSmooth,
		VisualAngleOffset: s.VisualAngleOffset,
		Radius:            s.Radius,
		HitRadius:         s.HitRadius,
		Damage:            s.Damage,
		Knockback:         s.Knockback,
		TargetLayers:      mask,
	}, nil
}

func LoadSwordSpec(name string) (*SwordSpec, error) {
	if name == "" {
		name = "sword.yaml"
	}
	spec, err := LoadSpec[SwordSpec](name)
	if err != nil {
		return nil, err
	}
	if _, err := spec.Config(name); err != nil {
		return nil, err
	}
	return &spec, nil
}

type ArenaSpec struct {
	Name             string       `yaml:"name"`
	Width            float64      `yaml:"width"`
	Height           float64      `yaml:"height"`
	FixedStep        float64      `yaml:"fixed_step"`
	MaxStepsPerFrame int          `yaml:"max_steps_per_frame"`
	PixelsPerUnit    float64      `yaml:"pixels_per_unit"`
	ClearedEvent     string       `yaml:"cleared_event"`
	PlayerSpawn      VectorSpec   `yaml:"player_spawn"`
	Slimes           []VectorSpec `yaml:"slimes"`
}

func (s *ArenaSpec) Validate() error {
	const file = "arena.yaml"
	if s.Width <= 0 || s.Height <= 0 {
		return invalid(file, "width and height must be positive")
	}
	if s.FixedStep <= 0 {
		return invalid(file, "fixed_step must be positive")
	}
	for i, p := range append([]VectorSpec{s.PlayerSpawn}, s.Slimes...) {
		if p.X < 0 || p.Y < 0 || p.X > s.Width || p.Y > s.Height {
			return invalid(file, "spawn %d (%v, %v) outside the arena", i, p.X, p.Y)
		}
	}
	return nil
}

func LoadArenaSpec() (*ArenaSpec, error) {
	spec, err := LoadSpec[ArenaSpec]("arena.yaml")
	if err != nil {
		return nil, err
	}
	if spec.MaxStepsPerFrame <= 0 {
		spec.MaxStepsPerFrame = 5
	}
	if spec.ClearedEvent == "" {
		spec.ClearedEvent = "level_cleared"
	}
	if err := spec.Validate(); err != nil {
		return nil, err
	}
	return &spec, nil
}

type YAMLColor struct {
	color.Color
}

func (c *YAMLColor) UnmarshalYAML(value *yaml.Node) error {
	if value.Kind != yaml.ScalarNode {
		return fmt.Errorf("color must be a string")
	}

	s := strings.TrimPrefix(value.Value, "#")

	if len(s) != 6 && len(s) != 8 {
		return fmt.Errorf("invalid color format: %s", value.Value)
	}

	parse := func(start int) (uint8, error) {
		v, err := strconv.ParseUint(s[start:start+2], 16, 8)
		return uint8(v), err
	}

	r, err := parse(0)
	if err != nil {
		return err
	}
	g, err := parse(2)
	if err != nil {
		return err
	}
	b, err := parse(4)
	if err != nil {
		return err
	}

	a := uint8(255)
	if len(s) == 8 {
		a, err = parse(6)
		if err != nil {
			return err
		}
	}

	c.Color = color.NRGBA{R: r, G: g, B: b, A: a}
	return nil
}
