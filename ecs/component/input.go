package component

// Input stores per-frame input state for an entity. AimX and AimY are a
// world-space point.
type Input struct {
	MoveX         float64
	MoveY         float64
	AimX          float64
	AimY          float64
	AttackPressed bool
}

var InputComponent = NewComponent[Input]()
