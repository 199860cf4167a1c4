package component

// LevelTracker counts tracked enemies and fires once when they are all dead.
type LevelTracker struct {
	Tracked  map[uint64]struct{}
	Killed   int
	Summoned bool
	// Event is the world event type pushed when the level is cleared.
	Event string
}

var LevelTrackerComponent = NewComponent[LevelTracker]()
