package system

import (
	"testing"

	"github.com/go-gl/mathgl/mgl64"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"

	"github.com/milk9111/ladderclimb/ecs"
	"github.com/milk9111/ladderclimb/ecs/component"
	"github.com/milk9111/ladderclimb/logger"
	"github.com/milk9111/ladderclimb/prefabs"
)

type worldHarness struct {
	w      *ecs.World
	sched  *ecs.Scheduler
	player ecs.Entity
	events []ecs.Event
}

func newWorldHarness(t *testing.T, playerPos mgl64.Vec3) *worldHarness {
	t.Helper()
	h := &worldHarness{w: ecs.NewWorld()}
	h.w.SetPhysicsWorld(ecs.NewPhysicsWorld(0))

	spec := prefabs.DefaultPlayerSpec()
	h.player = ecs.CreateEntity(h.w)
	mustAdd(t, ecs.Add(h.w, h.player, component.PlayerComponent.Kind(), &component.Player{Height: spec.Height, Radius: spec.Radius}))
	mustAdd(t, ecs.Add(h.w, h.player, component.TransformComponent.Kind(), &component.Transform{Position: playerPos}))
	mustAdd(t, ecs.Add(h.w, h.player, component.InputComponent.Kind(), &component.Input{}))
	mustAdd(t, ecs.Add(h.w, h.player, component.AnimatorComponent.Kind(), &component.Animator{}))
	mustAdd(t, ecs.Add(h.w, h.player, component.PlayerStateMachineComponent.Kind(), &component.PlayerStateMachine{
		States:  NewPlayerStates(spec, prefabs.DefaultLadderSpec(), nil),
		Initial: component.StateWalking,
	}))

	h.sched = ecs.NewScheduler(physicsDT, 8)
	Install(h.sched, nil, spec.Timing.StepTolerance, nil, func(_ ecs.Clock, evt ecs.Event) {
		h.events = append(h.events, evt)
	})
	return h
}

func mustAdd(t *testing.T, err error) {
	t.Helper()
	if err != nil {
		t.Fatalf("add component: %v", err)
	}
}

func (h *worldHarness) addVolume(t *testing.T, tag string, pos mgl64.Vec3, yaw float64, size mgl64.Vec3, solid bool) ecs.Entity {
	t.Helper()
	e := ecs.CreateEntity(h.w)
	mustAdd(t, ecs.Add(h.w, e, component.TransformComponent.Kind(), &component.Transform{Position: pos, Yaw: yaw}))
	mustAdd(t, ecs.Add(h.w, e, component.VolumeComponent.Kind(), &component.Volume{Tag: tag, Size: size, Solid: solid}))
	return e
}

func (h *worldHarness) input() *component.Input {
	in, _ := ecs.Get(h.w, h.player, component.InputComponent.Kind())
	return in
}

func (h *worldHarness) machine() *component.PlayerStateMachine {
	sm, _ := ecs.Get(h.w, h.player, component.PlayerStateMachineComponent.Kind())
	return sm
}

func (h *worldHarness) position() mgl64.Vec3 {
	tr, _ := ecs.Get(h.w, h.player, component.TransformComponent.Kind())
	return tr.Position
}

func (h *worldHarness) ladder() *LadderClimbState {
	return h.machine().States[component.StateLadder].(*LadderClimbState)
}

func TestPlayerFixedUpdateBindsActor(t *testing.T) {
	h := newWorldHarness(t, mgl64.Vec3{0, 0, -3})
	if n := h.sched.Update(h.w, physicsDT); n != 1 {
		t.Fatalf("expected one fixed step, got %d", n)
	}

	sm := h.machine()
	if sm.Actor == nil {
		t.Fatalf("expected actor to be bound")
	}
	if sm.Active != component.StateWalking || !sm.States[component.StateWalking].(*WalkState).Active() {
		t.Fatalf("expected walking to be active")
	}
	anim, _ := ecs.Get(h.w, h.player, component.AnimatorComponent.Kind())
	if anim.Clip != component.AnimClipLocomotion {
		t.Fatalf("expected Locomotion clip, got %q", anim.Clip)
	}
	p, _ := ecs.Get(h.w, h.player, component.PlayerComponent.Kind())
	if !p.Grounded {
		t.Fatalf("expected player on the ground plane")
	}
}

func TestPlayerFixedUpdateSkipsIncompletePlayer(t *testing.T) {
	w := ecs.NewWorld()
	e := ecs.CreateEntity(w)
	sm := &component.PlayerStateMachine{States: NewPlayerStates(prefabs.DefaultPlayerSpec(), prefabs.DefaultLadderSpec(), nil)}
	mustAdd(t, ecs.Add(w, e, component.PlayerStateMachineComponent.Kind(), sm))

	sched := ecs.NewScheduler(physicsDT, 8)
	Install(sched, nil, 0, nil, nil)
	sched.Update(w, physicsDT)
	if sm.Actor != nil {
		t.Fatalf("expected no binding without a body and transform")
	}
}

func TestTriggerSystemGrabsLadder(t *testing.T) {
	h := newWorldHarness(t, mgl64.Vec3{0.2, 0, -0.45})
	ladder := h.addVolume(t, component.TagLadder, mgl64.Vec3{0, 2, 0}, 0, mgl64.Vec3{1, 4, 0.2}, false)
	h.input().MoveY = 1

	h.sched.Update(h.w, physicsDT)

	sm := h.machine()
	if sm.Active != component.StateLadder {
		t.Fatalf("expected ladder state, got %v", sm.Active)
	}
	if pos := h.position(); pos.X() != 0 || pos.Z() != 0 {
		t.Fatalf("expected snap onto the ladder, got %v", pos)
	}
	if h.ladder().Surface() != component.SurfaceID(ladder) {
		t.Fatalf("expected grabbed surface %v, got %v", ladder, h.ladder().Surface())
	}

	var changed, grabbed bool
	for _, evt := range h.events {
		switch data := evt.Data.(type) {
		case ecs.StateChangedEvent:
			changed = data.From == "walking" && data.To == "ladder" && data.Entity == h.player
		case ecs.LadderGrabEvent:
			grabbed = data.Ladder == ladder && data.Entity == h.player
		}
	}
	if !changed || !grabbed {
		t.Fatalf("expected state change and grab events, got %+v", h.events)
	}
	if len(h.w.Events().Peek()) != 0 {
		t.Fatalf("expected event queue drained at frame end")
	}
}

func TestTriggerSystemIgnoresFloors(t *testing.T) {
	h := newWorldHarness(t, mgl64.Vec3{0, 0, 0})
	h.addVolume(t, component.TagFloor, mgl64.Vec3{0, 0.5, 0}, 0, mgl64.Vec3{2, 1, 2}, false)

	h.sched.Update(h.w, physicsDT)
	if h.machine().Active != component.StateWalking {
		t.Fatalf("expected to keep walking inside a floor volume")
	}
}

func TestTriggerSystemSyncsVolumes(t *testing.T) {
	h := newWorldHarness(t, mgl64.Vec3{0, 0, -5})
	e := h.addVolume(t, component.TagLadder, mgl64.Vec3{0, 2, 0}, 0, mgl64.Vec3{1, 4, 0.2}, false)
	pw := h.w.PhysicsWorld()

	h.sched.Update(h.w, physicsDT)
	if !pw.HasVolume(e) {
		t.Fatalf("expected volume registered")
	}

	tr, _ := ecs.Get(h.w, e, component.TransformComponent.Kind())
	tr.Position = mgl64.Vec3{0, 2, -5}
	h.sched.Update(h.w, physicsDT)
	if got := pw.Overlapping(mgl64.Vec3{0, 0, -5}, 0.3, 1); len(got) != 1 || got[0] != e {
		t.Fatalf("expected moved volume to be found at its new position, got %v", got)
	}

	ecs.DestroyEntity(h.w, e)
	h.sched.Update(h.w, physicsDT)
	if pw.HasVolume(e) {
		t.Fatalf("expected destroyed volume to be unregistered")
	}
}

func TestPlayerJumpsOffLadder(t *testing.T) {
	h := newWorldHarness(t, mgl64.Vec3{0, 0, -0.45})
	h.addVolume(t, component.TagLadder, mgl64.Vec3{0, 2, 0}, 0, mgl64.Vec3{1, 4, 0.2}, false)
	h.input().MoveY = 1

	// climb for a third of a second, past the debounce window
	for i := 0; i < 17; i++ {
		h.sched.Update(h.w, physicsDT)
	}
	if h.machine().Active != component.StateLadder {
		t.Fatalf("expected to be on the ladder")
	}

	h.input().MoveY = 0
	h.input().Latch(true, false)
	h.sched.Update(h.w, physicsDT)

	if h.machine().Active != component.StateWalking {
		t.Fatalf("expected jump to hand off to walking")
	}
	p, _ := ecs.Get(h.w, h.player, component.PlayerComponent.Kind())
	if p.FallVelocity != prefabs.DefaultPlayerSpec().JumpSpeed {
		t.Fatalf("expected the walking state to receive the jump, fall velocity %v", p.FallVelocity)
	}
}

func TestNewPlayerStatesNamesLoggers(t *testing.T) {
	core, logs := observer.New(zapcore.DebugLevel)
	states := NewPlayerStates(prefabs.DefaultPlayerSpec(), prefabs.DefaultLadderSpec(), zap.New(core).Sugar())

	states[component.StateLadder].SetValues(nil)
	states[component.StateLadder].Activate()

	entries := logs.All()
	if len(entries) != 2 {
		t.Fatalf("expected two ladder warnings, got %d", len(entries))
	}
	for _, e := range entries {
		if e.LoggerName != logger.ComponentLadder {
			t.Fatalf("expected logger %q, got %q for %q", logger.ComponentLadder, e.LoggerName, e.Message)
		}
	}
}
