package system

import (
	"math"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/inpututil"

	"github.com/milk9111/ladderclimb/ecs"
	"github.com/milk9111/ladderclimb/ecs/component"
)

const stickDeadzone = 0.2

// actionBinding maps one button action to keys and a standard gamepad button.
type actionBinding struct {
	keys   []ebiten.Key
	button ebiten.StandardGamepadButton
}

func (b actionBinding) read(pad ebiten.GamepadID, hasPad bool) (held, pressed bool) {
	for _, k := range b.keys {
		held = held || ebiten.IsKeyPressed(k)
		pressed = pressed || inpututil.IsKeyJustPressed(k)
	}
	if hasPad {
		held = held || ebiten.IsStandardGamepadButtonPressed(pad, b.button)
		pressed = pressed || inpututil.IsStandardGamepadButtonJustPressed(pad, b.button)
	}
	return held, pressed
}

// axisBinding is a digital key pair with an analog stick override.
type axisBinding struct {
	neg, pos []ebiten.Key
	stick    ebiten.StandardGamepadAxis
	invert   bool
}

func (b axisBinding) read(pad ebiten.GamepadID, hasPad bool) float64 {
	v := 0.0
	if anyKey(b.neg) {
		v--
	}
	if anyKey(b.pos) {
		v++
	}
	if hasPad {
		s := ebiten.StandardGamepadAxisValue(pad, b.stick)
		if b.invert {
			s = -s
		}
		if math.Abs(s) > stickDeadzone {
			v = s
		}
	}
	return v
}

func anyKey(keys []ebiten.Key) bool {
	for _, k := range keys {
		if ebiten.IsKeyPressed(k) {
			return true
		}
	}
	return false
}

// InputSystem samples keyboard and the first gamepad into every Input
// component once per frame.
type InputSystem struct {
	moveX, moveY axisBinding
	jump, drop   actionBinding
	pads         []ebiten.GamepadID
}

func NewInputSystem() *InputSystem {
	return &InputSystem{
		moveX: axisBinding{
			neg:   []ebiten.Key{ebiten.KeyA, ebiten.KeyArrowLeft},
			pos:   []ebiten.Key{ebiten.KeyD, ebiten.KeyArrowRight},
			stick: ebiten.StandardGamepadAxisLeftStickHorizontal,
		},
		// stick up reports negative values
		moveY: axisBinding{
			neg:    []ebiten.Key{ebiten.KeyS, ebiten.KeyArrowDown},
			pos:    []ebiten.Key{ebiten.KeyW, ebiten.KeyArrowUp},
			stick:  ebiten.StandardGamepadAxisLeftStickVertical,
			invert: true,
		},
		jump: actionBinding{keys: []ebiten.Key{ebiten.KeySpace}, button: ebiten.StandardGamepadButtonRightBottom},
		drop: actionBinding{keys: []ebiten.Key{ebiten.KeyC}, button: ebiten.StandardGamepadButtonRightRight},
	}
}

func (i *InputSystem) Update(w *ecs.World) {
	if w == nil {
		return
	}

	i.pads = ebiten.AppendGamepadIDs(i.pads[:0])
	var pad ebiten.GamepadID
	hasPad := len(i.pads) > 0
	if hasPad {
		pad = i.pads[0]
	}

	moveX := i.moveX.read(pad, hasPad)
	moveY := i.moveY.read(pad, hasPad)
	jump, jumpPressed := i.jump.read(pad, hasPad)
	drop, dropPressed := i.drop.read(pad, hasPad)

	ecs.ForEach(w, component.InputComponent.Kind(), func(e ecs.Entity, input *component.Input) {
		input.MoveX = moveX
		input.MoveY = moveY
		input.Jump = jump
		input.JumpPressed = jumpPressed
		input.Drop = drop
		input.DropPressed = dropPressed
	})
}
