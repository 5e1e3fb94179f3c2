package entity

import (
	"math"
	"testing"

	"github.com/go-gl/mathgl/mgl64"

	"github.com/milk9111/ladderclimb/ecs"
	"github.com/milk9111/ladderclimb/ecs/component"
	"github.com/milk9111/ladderclimb/ecs/system"
	"github.com/milk9111/ladderclimb/levels"
	"github.com/milk9111/ladderclimb/prefabs"
)

type sceneRun struct {
	scene       *Scene
	transitions []string
	grabs       int
	maxY        float64
}

func runScene(t *testing.T, level, script string, seconds float64) *sceneRun {
	t.Helper()
	lvl, err := levels.LoadLevelFromFS(level)
	if err != nil {
		t.Fatalf("load level: %v", err)
	}
	player := prefabs.DefaultPlayerSpec()
	scene, err := NewScene(lvl, player, prefabs.DefaultLadderSpec(), nil)
	if err != nil {
		t.Fatalf("new scene: %v", err)
	}
	input, err := system.NewScriptedInputSystem(script, nil)
	if err != nil {
		t.Fatalf("load script: %v", err)
	}

	run := &sceneRun{scene: scene}
	sched := ecs.NewScheduler(player.Timing.FixedStep, player.Timing.MaxFixedSteps)
	system.Install(sched, input, player.Timing.StepTolerance, nil, func(_ ecs.Clock, evt ecs.Event) {
		switch data := evt.Data.(type) {
		case ecs.StateChangedEvent:
			run.transitions = append(run.transitions, data.From+">"+data.To)
		case ecs.LadderGrabEvent:
			run.grabs++
		}
	})

	for f := 0; f < int(seconds*60); f++ {
		sched.Update(scene.World, 1.0/60)
		run.maxY = math.Max(run.maxY, run.position().Y())
	}
	return run
}

func (r *sceneRun) position() mgl64.Vec3 {
	tr, _ := ecs.Get(r.scene.World, r.scene.Player, component.TransformComponent.Kind())
	return tr.Position
}

func (r *sceneRun) machine() *component.PlayerStateMachine {
	sm, _ := ecs.Get(r.scene.World, r.scene.Player, component.PlayerStateMachineComponent.Kind())
	return sm
}

func (r *sceneRun) expectTransitions(t *testing.T, want ...string) {
	t.Helper()
	if len(r.transitions) != len(want) {
		t.Fatalf("expected transitions %v, got %v", want, r.transitions)
	}
	for i := range want {
		if r.transitions[i] != want[i] {
			t.Fatalf("expected transitions %v, got %v", want, r.transitions)
		}
	}
}

func TestSceneClimbToLedge(t *testing.T) {
	r := runScene(t, "tower", "climb_to_ledge", 3.5)

	r.expectTransitions(t, "walking>ladder", "ladder>walking")
	if r.grabs != 1 {
		t.Fatalf("expected one grab, got %d", r.grabs)
	}
	pos := r.position()
	if math.Abs(pos.Y()-4) > 1e-6 {
		t.Fatalf("expected to stand on the ledge at 4, got %v", pos)
	}
	if pos.Z() < 1 {
		t.Fatalf("expected to have moved onto the ledge, got %v", pos)
	}
	// rise tops out 1.8 above the point where the head cleared the ladder
	if r.maxY < 4.7 || r.maxY > 5.1 {
		t.Fatalf("expected mount apex near 4.8, got %v", r.maxY)
	}
	p, _ := ecs.Get(r.scene.World, r.scene.Player, component.PlayerComponent.Kind())
	if !p.Grounded {
		t.Fatalf("expected to be grounded on the ledge")
	}
}

func TestSceneDropOff(t *testing.T) {
	r := runScene(t, "tower", "drop_off", 2.5)

	r.expectTransitions(t, "walking>ladder", "ladder>walking")
	pos := r.position()
	if math.Abs(pos.X()-2) > 1e-6 || math.Abs(pos.Z()) > 1e-6 {
		t.Fatalf("expected drop 2 units along +X from the ladder, got %v", pos)
	}
	if pos.Y() != 0 {
		t.Fatalf("expected to land on the ground, got %v", pos)
	}
	if r.maxY < 1.5 {
		t.Fatalf("expected to have climbed before dropping, apex %v", r.maxY)
	}
}

func TestSceneJumpOff(t *testing.T) {
	r := runScene(t, "tower", "jump_off", 2.5)

	r.expectTransitions(t, "walking>ladder", "ladder>walking")
	if r.machine().Active != component.StateWalking {
		t.Fatalf("expected to end walking")
	}
	pos := r.position()
	if pos.Y() != 0 || pos.Z() > -1 {
		t.Fatalf("expected to land and walk back, got %v", pos)
	}

	ladder := r.machine().States[component.StateLadder].(*system.LadderClimbState)
	if ladder.Phase() != system.PhaseInactive {
		t.Fatalf("expected ladder phase inactive, got %s", ladder.Phase())
	}
}

func TestApplySpecs(t *testing.T) {
	lvl, err := levels.LoadLevelFromFS("tower")
	if err != nil {
		t.Fatalf("load level: %v", err)
	}
	scene, err := NewScene(lvl, prefabs.DefaultPlayerSpec(), prefabs.DefaultLadderSpec(), nil)
	if err != nil {
		t.Fatalf("new scene: %v", err)
	}

	if n := scene.ApplyLadderSpec(prefabs.DefaultLadderSpec()); n != 1 {
		t.Fatalf("expected one ladder state updated, got %d", n)
	}
	player := prefabs.DefaultPlayerSpec()
	player.Radius = 0.5
	if n := scene.ApplyPlayerSpec(player); n != 1 {
		t.Fatalf("expected one walking state updated, got %d", n)
	}
	p, _ := ecs.Get(scene.World, scene.Player, component.PlayerComponent.Kind())
	if p.Radius != 0.5 {
		t.Fatalf("expected radius 0.5, got %v", p.Radius)
	}
}

func TestNewPlayerRejectsInvalidSpecs(t *testing.T) {
	w := ecs.NewWorld()
	player := prefabs.DefaultPlayerSpec()
	player.Height = 0
	if _, err := NewPlayer(w, player, prefabs.DefaultLadderSpec(), mgl64.Vec3{}, 0, nil); err == nil {
		t.Fatalf("expected invalid player spec to be rejected")
	}

	ladder := prefabs.DefaultLadderSpec()
	ladder.RiseDuration = 1
	if _, err := NewPlayer(w, prefabs.DefaultPlayerSpec(), ladder, mgl64.Vec3{}, 0, nil); err == nil {
		t.Fatalf("expected invalid ladder spec to be rejected")
	}
}

func TestLoadLevelToWorldRegistersVolumes(t *testing.T) {
	lvl, err := levels.LoadLevelFromFS("yard")
	if err != nil {
		t.Fatalf("load level: %v", err)
	}
	w := ecs.NewWorld()
	vols, err := LoadLevelToWorld(w, lvl)
	if err != nil {
		t.Fatalf("load to world: %v", err)
	}
	if len(vols) != len(lvl.Volumes) {
		t.Fatalf("expected %d volumes, got %d", len(lvl.Volumes), len(vols))
	}
	pw := w.PhysicsWorld()
	for _, e := range vols {
		if !pw.HasVolume(e) {
			t.Fatalf("expected %v registered", e)
		}
	}
	if pw.GroundPlane() != lvl.GroundY {
		t.Fatalf("expected ground plane %v, got %v", lvl.GroundY, pw.GroundPlane())
	}
}
