// Command climbsim runs a level headlessly, driving the player from a tengo
// input script, and logs the movement trace.
package main

import (
	"flag"
	"os"
	"strings"

	"go.uber.org/zap"

	"github.com/milk9111/ladderclimb/ecs"
	"github.com/milk9111/ladderclimb/ecs/component"
	"github.com/milk9111/ladderclimb/ecs/entity"
	"github.com/milk9111/ladderclimb/ecs/system"
	"github.com/milk9111/ladderclimb/levels"
	"github.com/milk9111/ladderclimb/logger"
	"github.com/milk9111/ladderclimb/prefabs"
)

func main() {
	levelName := flag.String("level", "tower", "level name in levels/")
	scriptName := flag.String("script", "climb_to_ledge", "input script: "+strings.Join(prefabs.ScriptNames(), ", "))
	seconds := flag.Float64("seconds", 4, "simulated seconds")
	fps := flag.Int("fps", 60, "frames per simulated second")
	traceEvery := flag.Int("trace-every", 5, "log the player every N frames, 0 to disable")
	disable := flag.String("disable", "", "comma separated input actions to switch off: move, jump, drop")
	logLevel := flag.String("log", "info", "log level: debug, info, warn, error")
	logFormat := flag.String("log-format", string(logger.FormatConsole), "log format: console or json")
	flag.Parse()

	base := logger.New(*logLevel, logger.Format(*logFormat))
	defer func() { _ = base.Sync() }()
	log := logger.For(base, logger.ComponentSim)

	disabled, err := component.ParseInputActions(*disable)
	if err != nil {
		log.Errorw("bad -disable", "error", err)
		_ = base.Sync()
		os.Exit(2)
	}

	if err := run(*levelName, *scriptName, *seconds, *fps, *traceEvery, disabled, base, log); err != nil {
		log.Errorw("simulation failed", "error", err)
		_ = base.Sync()
		os.Exit(1)
	}
}

func run(levelName, scriptName string, seconds float64, fps, traceEvery int, disabled component.InputAction, base, log *zap.SugaredLogger) error {
	if fps <= 0 {
		fps = 60
	}

	ladderSpec, err := prefabs.LoadLadderSpec()
	if err != nil {
		return err
	}
	playerSpec, err := prefabs.LoadPlayerSpec()
	if err != nil {
		return err
	}
	lvl, err := levels.LoadLevelFromFS(levelName)
	if err != nil {
		return err
	}
	scene, err := entity.NewScene(lvl, *playerSpec, *ladderSpec, base)
	if err != nil {
		return err
	}
	if in, ok := ecs.Get(scene.World, scene.Player, component.InputComponent.Kind()); ok && disabled != 0 {
		in.Disable(disabled)
		log.Infow("input actions disabled", "mask", disabled)
	}
	input, err := system.NewScriptedInputSystem(scriptName, logger.For(base, logger.ComponentInput))
	if err != nil {
		return err
	}

	sched := ecs.NewScheduler(playerSpec.Timing.FixedStep, playerSpec.Timing.MaxFixedSteps)
	transitions := 0
	system.Install(sched, input, playerSpec.Timing.StepTolerance, base, func(_ ecs.Clock, evt ecs.Event) {
		if evt.Type == ecs.EventStateChanged {
			transitions++
		}
	})

	frames := int(seconds * float64(fps))
	dt := 1.0 / float64(fps)
	log.Infow("simulation start", "level", lvl.Name, "script", input.Name(), "frames", frames, "fixed_step", sched.FixedStep())

	for f := 1; f <= frames; f++ {
		sched.Update(scene.World, dt)
		if traceEvery > 0 && f%traceEvery == 0 {
			trace(log, scene, f, dt)
		}
	}

	t, _ := ecs.Get(scene.World, scene.Player, component.TransformComponent.Kind())
	sm, _ := ecs.Get(scene.World, scene.Player, component.PlayerStateMachineComponent.Kind())
	if t != nil && sm != nil {
		log.Infow("simulation done", "state", sm.Active, "position", t.Position, "transitions", transitions)
	}
	return nil
}

func trace(log *zap.SugaredLogger, scene *entity.Scene, frame int, dt float64) {
	t, ok := ecs.Get(scene.World, scene.Player, component.TransformComponent.Kind())
	if !ok {
		return
	}
	sm, ok := ecs.Get(scene.World, scene.Player, component.PlayerStateMachineComponent.Kind())
	if !ok {
		return
	}
	fields := []any{"t", float64(frame) * dt, "state", sm.Active, "x", t.Position.X(), "y", t.Position.Y(), "z", t.Position.Z()}
	if ladder, ok := sm.States[component.StateLadder].(*system.LadderClimbState); ok {
		fields = append(fields, "phase", ladder.Phase())
	}
	log.Infow("trace", fields...)
}
