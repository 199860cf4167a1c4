package component

import "github.com/milk9111/slimearena/combat"

// Damageable attaches a combat state machine to an entity.
type Damageable struct {
	State *combat.Damageable
}

var DamageableComponent = NewComponent[Damageable]()

// MeleeWeapon lets an entity swing a weapon. Visual is the entity drawn at
// the weapon's orbit position, zero when there is none.
type MeleeWeapon struct {
	Swing  *combat.Swing
	Visual uint64
}

var MeleeWeaponComponent = NewComponent[MeleeWeapon]()

// ContactVictim takes damage from touching hostile objects.
type ContactVictim struct {
	Resolver *combat.ContactResolver
	// Pending holds contacts collected by the physics step, resolved at the
	// start of the next one.
	Pending []combat.Contact
}

var ContactVictimComponent = NewComponent[ContactVictim]()

// Hostile marks an object that deals contact damage.
type Hostile struct {
	Layer uint32
	Tag   string
}

var HostileComponent = NewComponent[Hostile]()
