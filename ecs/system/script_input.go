package system

import (
	"fmt"

	"github.com/d5/tengo/v2"
	"github.com/d5/tengo/v2/stdlib"
	"go.uber.org/zap"

	"github.com/milk9111/ladderclimb/ecs"
	"github.com/milk9111/ladderclimb/ecs/component"
	"github.com/milk9111/ladderclimb/prefabs"
)

// ScriptedInputSystem feeds every Input component from a tengo script that
// is run once per frame. The script reads `tick` and `elapsed` and writes
// `move_x`, `move_y`, `jump` and `drop`.
type ScriptedInputSystem struct {
	name     string
	compiled *tengo.Compiled
	log      *zap.SugaredLogger
	failed   bool
}

// NewScriptedInputSystem compiles the named script from prefabs/scripts.
func NewScriptedInputSystem(name string, log *zap.SugaredLogger) (*ScriptedInputSystem, error) {
	src, err := prefabs.LoadScript(name)
	if err != nil {
		return nil, err
	}
	return NewScriptedInputSystemFromSource(name, src, log)
}

func NewScriptedInputSystemFromSource(name string, src []byte, log *zap.SugaredLogger) (*ScriptedInputSystem, error) {
	if log == nil {
		log = zap.NewNop().Sugar()
	}
	compiled, err := compileInputScript(src)
	if err != nil {
		return nil, fmt.Errorf("input script %s: %w", name, err)
	}
	return &ScriptedInputSystem{name: name, compiled: compiled, log: log}, nil
}

func compileInputScript(src []byte) (*tengo.Compiled, error) {
	script := tengo.NewScript(src)
	_ = script.Add("tick", 0)
	_ = script.Add("elapsed", 0.0)
	_ = script.Add("move_x", 0.0)
	_ = script.Add("move_y", 0.0)
	_ = script.Add("jump", false)
	_ = script.Add("drop", false)

	script.SetImports(stdlib.GetModuleMap("math", "fmt"))

	return script.Compile()
}

// Name returns the script the system runs.
func (s *ScriptedInputSystem) Name() string { return s.name }

func (s *ScriptedInputSystem) Update(w *ecs.World) {
	if w == nil || s.compiled == nil {
		return
	}

	clock := w.Clock()
	moveX, moveY, jump, drop, err := s.run(clock.Tick, clock.Elapsed)
	if err != nil {
		if !s.failed {
			s.log.Errorw("input script failed, inputs released", "script", s.name, "error", err)
		}
		s.failed = true
		moveX, moveY, jump, drop = 0, 0, false, false
	} else {
		s.failed = false
	}

	ecs.ForEach(w, component.InputComponent.Kind(), func(e ecs.Entity, input *component.Input) {
		input.MoveX = moveX
		input.MoveY = moveY
		input.Latch(jump, drop)
	})
}

func (s *ScriptedInputSystem) run(tick uint64, elapsed float64) (moveX, moveY float64, jump, drop bool, err error) {
	// tengo surfaces some runtime faults, such as integer division by zero,
	// as Go panics
	defer func() {
		if r := recover(); r != nil {
			moveX, moveY, jump, drop = 0, 0, false, false
			err = fmt.Errorf("input script %s: %v", s.name, r)
		}
	}()
	if err := s.compiled.Set("tick", int64(tick)); err != nil {
		return 0, 0, false, false, err
	}
	if err := s.compiled.Set("elapsed", elapsed); err != nil {
		return 0, 0, false, false, err
	}
	if err := s.compiled.Run(); err != nil {
		return 0, 0, false, false, err
	}
	return s.compiled.Get("move_x").Float(),
		s.compiled.Get("move_y").Float(),
		s.compiled.Get("jump").Bool(),
		s.compiled.Get("drop").Bool(),
		nil
}
