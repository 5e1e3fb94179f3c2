package component

// Player holds the physical body of a player actor.
type Player struct {
	Height float64
	Radius float64

	// FallVelocity is the vertical speed owned by the walking state; other
	// states zero it on entry.
	FallVelocity float64
	Grounded     bool
	// HoldingObject locks out interactions such as grabbing a ladder.
	HoldingObject bool
}

var PlayerComponent = NewComponent[Player]()
