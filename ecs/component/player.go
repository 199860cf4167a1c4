package component

// Player is the player's movement tuning. Speeds are world units per second.
type Player struct {
	MaxSpeed float64
	Accel    float64
	Decel    float64
}

var PlayerComponent = NewComponent[Player]()
