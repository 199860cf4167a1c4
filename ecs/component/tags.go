package component

type PlayerTag struct{}

var PlayerTagComponent = NewComponent[PlayerTag]()

type AITag struct{}

var AITagComponent = NewComponent[AITag]()

// WeaponTag marks the visual entity of a wielded weapon.
type WeaponTag struct{}

var WeaponTagComponent = NewComponent[WeaponTag]()

// CollidersDisabled stops an entity from producing or receiving contacts and
// weapon hits.
type CollidersDisabled struct{}

var CollidersDisabledComponent = NewComponent[CollidersDisabled]()

// PhysicsDisabled removes an entity from the physics space and freezes its
// transform.
type PhysicsDisabled struct{}

var PhysicsDisabledComponent = NewComponent[PhysicsDisabled]()

// Inert turns off every behaviour system for an entity; only rendering and
// the death animation keep running.
type Inert struct{}

var InertComponent = NewComponent[Inert]()
