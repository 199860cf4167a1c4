package component

// Hurtbox is the circular area, relative to the entity transform, that a
// melee weapon must overlap to land a hit.
type Hurtbox struct {
	Radius  float64
	OffsetX float64
	OffsetY float64
	// Layer is the bit a weapon's target mask must contain.
	Layer uint32
}

var HurtboxComponent = NewComponent[Hurtbox]()
