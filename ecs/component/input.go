package component

import (
	"fmt"
	"strings"
)

// InputAction names an input that can be switched off independently.
type InputAction uint8

const (
	ActionMove InputAction = 1 << iota
	ActionJump
	ActionDrop
)

var actionNames = map[string]InputAction{
	"move": ActionMove,
	"jump": ActionJump,
	"drop": ActionDrop,
}

// ParseInputActions reads a comma separated list such as "jump,drop".
// An empty list is no actions.
func ParseInputActions(list string) (InputAction, error) {
	var out InputAction
	for _, name := range strings.Split(list, ",") {
		name = strings.ToLower(strings.TrimSpace(name))
		if name == "" {
			continue
		}
		a, ok := actionNames[name]
		if !ok {
			return 0, fmt.Errorf("unknown input action %q", name)
		}
		out |= a
	}
	return out, nil
}

// Input stores per-frame input state for an entity. MoveY is the vertical
// climb axis; MoveX strafes while walking. *Pressed fields are true only on
// the frame the button went down.
type Input struct {
	MoveX float64
	MoveY float64

	Jump        bool
	JumpPressed bool
	Drop        bool
	DropPressed bool

	disabled InputAction
}

var InputComponent = NewComponent[Input]()

// Enable turns the given actions back on.
func (i *Input) Enable(a InputAction) {
	if i == nil {
		return
	}
	i.disabled &^= a
}

// Disable suppresses the given actions; reads return their zero value.
func (i *Input) Disable(a InputAction) {
	if i == nil {
		return
	}
	i.disabled |= a
}

// Enabled reports whether every action in a is enabled.
func (i *Input) Enabled(a InputAction) bool {
	return i != nil && i.disabled&a == 0
}

// ClimbAxis returns the vertical axis clamped to [-1, 1].
func (i *Input) ClimbAxis() float64 {
	if !i.Enabled(ActionMove) {
		return 0
	}
	return clampAxis(i.MoveY)
}

// MoveAxes returns both axes clamped to [-1, 1].
func (i *Input) MoveAxes() (x, y float64) {
	if !i.Enabled(ActionMove) {
		return 0, 0
	}
	return clampAxis(i.MoveX), clampAxis(i.MoveY)
}

// WasJumpPressed reports a jump press this frame.
func (i *Input) WasJumpPressed() bool {
	return i.Enabled(ActionJump) && i.JumpPressed
}

// WasDropPressed reports a drop press this frame.
func (i *Input) WasDropPressed() bool {
	return i.Enabled(ActionDrop) && i.DropPressed
}

// Latch records the held state of jump and drop and derives the
// edge-triggered presses from the previous frame.
func (i *Input) Latch(jump, drop bool) {
	if i == nil {
		return
	}
	i.JumpPressed = jump && !i.Jump
	i.DropPressed = drop && !i.Drop
	i.Jump = jump
	i.Drop = drop
}

func clampAxis(v float64) float64 {
	if v != v {
		return 0
	}
	if v < -1 {
		return -1
	}
	if v > 1 {
		return 1
	}
	return v
}
