package component

import "github.com/go-gl/mathgl/mgl64"

// StateIndex selects a movement state in a PlayerStateMachine table.
type StateIndex int

const (
	StateWalking StateIndex = iota
	StateLadder

	StateCount
)

func (i StateIndex) String() string {
	switch i {
	case StateWalking:
		return "walking"
	case StateLadder:
		return "ladder"
	default:
		return "unknown"
	}
}

// MovementState is one entry of the player's movement state table.
type MovementState interface {
	Name() string
	SetValues(actor *Actor)
	Activate()
	Deactivate()
}

// FixedUpdater is implemented by states that run on the fixed physics tick.
// It is called every tick whether or not the state is active.
type FixedUpdater interface {
	FixedUpdate(dt float64)
}

// FrameUpdater is implemented by states that sample input once per frame.
// It is called every frame whether or not the state is active.
type FrameUpdater interface {
	FrameUpdate(dt float64)
}

// TriggerListener receives a contact for every fixed tick the actor overlaps
// a volume.
type TriggerListener interface {
	OnTriggerStay(other Surface)
}

// Jumper is the jump entry point a state exposes to the dispatcher.
type Jumper interface {
	Jump()
}

// Actor is the host a movement state drives. It uses callbacks to avoid tight
// coupling to the ECS package.
type Actor struct {
	Height   float64
	Input    *Input
	Anim     AnimationSink
	Surfaces SurfaceLookup

	StateIndex      func() StateIndex
	SwitchState     func(next StateIndex)
	Jump            func()
	Move            func(delta mgl64.Vec3)
	Position        func() mgl64.Vec3
	SetYaw          func(yaw float64)
	IsGrounded      func() bool
	FallVelocity    func() float64
	SetFallVelocity func(v float64)
	IsHoldingObject func() bool
}

// PlayerStateMachine stores the state table and the active index.
type PlayerStateMachine struct {
	States [StateCount]MovementState
	Active StateIndex
	// Initial is activated when the actor is first bound.
	Initial StateIndex

	Actor *Actor
}

var PlayerStateMachineComponent = NewComponent[PlayerStateMachine]()
