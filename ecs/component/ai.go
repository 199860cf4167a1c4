package component

// AI makes an entity chase Target until within StopDistance.
type AI struct {
	MoveSpeed    float64
	StopDistance float64
	// Target is the chased entity. Zero means chase the player.
	Target uint64
	// Script optionally names a compiled chase script that scales speed.
	Script string
}

var AIComponent = NewComponent[AI]()
