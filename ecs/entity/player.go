package entity

import (
	"fmt"

	"github.com/go-gl/mathgl/mgl64"
	"go.uber.org/zap"

	"github.com/milk9111/ladderclimb/ecs"
	"github.com/milk9111/ladderclimb/ecs/component"
	"github.com/milk9111/ladderclimb/ecs/system"
	"github.com/milk9111/ladderclimb/prefabs"
)

// NewPlayer creates a player standing at pos. The movement states are bound
// on the first fixed tick.
func NewPlayer(w *ecs.World, player prefabs.PlayerSpec, ladder prefabs.LadderSpec, pos mgl64.Vec3, yaw float64, log *zap.SugaredLogger) (ecs.Entity, error) {
	if err := player.Validate(); err != nil {
		return 0, fmt.Errorf("player: %w", err)
	}
	if err := ladder.Validate(); err != nil {
		return 0, fmt.Errorf("player: ladder tuning: %w", err)
	}

	e := ecs.CreateEntity(w)
	if err := ecs.Add(w, e, component.PlayerComponent.Kind(), &component.Player{
		Height: player.Height,
		Radius: player.Radius,
	}); err != nil {
		return 0, fmt.Errorf("player: add body: %w", err)
	}
	if err := ecs.Add(w, e, component.TransformComponent.Kind(), &component.Transform{Position: pos, Yaw: yaw}); err != nil {
		return 0, fmt.Errorf("player: add transform: %w", err)
	}
	if err := ecs.Add(w, e, component.InputComponent.Kind(), &component.Input{}); err != nil {
		return 0, fmt.Errorf("player: add input: %w", err)
	}
	if err := ecs.Add(w, e, component.AnimatorComponent.Kind(), &component.Animator{Speed: 1}); err != nil {
		return 0, fmt.Errorf("player: add animator: %w", err)
	}
	if err := ecs.Add(w, e, component.PlayerStateMachineComponent.Kind(), &component.PlayerStateMachine{
		States:  system.NewPlayerStates(player, ladder, log),
		Initial: component.StateWalking,
	}); err != nil {
		return 0, fmt.Errorf("player: add state machine: %w", err)
	}
	return e, nil
}
