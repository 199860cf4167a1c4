package component

import "github.com/jakecoffman/cp"

// Locomotion is the self-directed velocity chosen by control or AI. The
// movement system adds knockback on top of it.
type Locomotion struct {
	Velocity cp.Vector
}

var LocomotionComponent = NewComponent[Locomotion]()

type Facing struct {
	Left bool
}

var FacingComponent = NewComponent[Facing]()
