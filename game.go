package main

import (
	"fmt"
	"image/color"
	"math"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/ebitenutil"
	"github.com/hajimehoshi/ebiten/v2/vector"
	"go.uber.org/zap"
	"golang.org/x/image/colornames"

	"github.com/milk9111/ladderclimb/common"
	"github.com/milk9111/ladderclimb/ecs"
	"github.com/milk9111/ladderclimb/ecs/component"
	"github.com/milk9111/ladderclimb/ecs/entity"
	"github.com/milk9111/ladderclimb/ecs/system"
	"github.com/milk9111/ladderclimb/levels"
	"github.com/milk9111/ladderclimb/logger"
	"github.com/milk9111/ladderclimb/prefabs"
)

const (
	baseWidth  = 1280
	baseHeight = 720

	// pixels per world unit in both debug views
	viewScale = 60.0
)

type Game struct {
	frames int

	log       *zap.SugaredLogger
	prefabLog *zap.SugaredLogger

	scene     *entity.Scene
	scheduler *ecs.Scheduler
	watcher   *prefabs.Watcher
}

func NewGame(levelName string, watch bool, base *zap.SugaredLogger) (*Game, error) {
	log := logger.For(base, logger.ComponentGame)
	prefabLog := logger.For(base, logger.ComponentPrefabs)

	ladderSpec := prefabs.DefaultLadderSpec()
	if spec, err := prefabs.LoadLadderSpec(); err != nil {
		prefabLog.Errorw("ladder tunables rejected, using defaults", "error", err)
	} else {
		ladderSpec = *spec
	}
	playerSpec := prefabs.DefaultPlayerSpec()
	if spec, err := prefabs.LoadPlayerSpec(); err != nil {
		prefabLog.Errorw("player tunables rejected, using defaults", "error", err)
	} else {
		playerSpec = *spec
	}

	lvl, err := levels.LoadLevelFromFS(levelName)
	if err != nil {
		return nil, err
	}
	scene, err := entity.NewScene(lvl, playerSpec, ladderSpec, base)
	if err != nil {
		return nil, err
	}

	sched := ecs.NewScheduler(playerSpec.Timing.FixedStep, playerSpec.Timing.MaxFixedSteps)
	system.Install(sched, system.NewInputSystem(), playerSpec.Timing.StepTolerance, base, nil)

	g := &Game{log: log, prefabLog: prefabLog, scene: scene, scheduler: sched}
	if watch {
		w, err := prefabs.NewWatcher(prefabs.DefaultQuiet, prefabs.Dir)
		if err != nil {
			prefabLog.Warnw("hot reload disabled", "dir", prefabs.Dir, "error", err)
		} else {
			g.watcher = w
		}
	}
	log.Infow("game ready", "level", lvl.Name, "volumes", len(scene.Volumes), "fixed_step", sched.FixedStep())
	return g, nil
}

func (g *Game) Close() {
	if g.watcher != nil {
		_ = g.watcher.Close()
	}
}

func (g *Game) Update() error {
	g.frames++
	g.reloadChanged()
	g.scheduler.Update(g.scene.World, 1.0/float64(ebiten.TPS()))
	return nil
}

// reloadChanged applies tunable files the watcher reported since the last
// frame. A rejected file keeps the previous values.
func (g *Game) reloadChanged() {
	if g.watcher == nil {
		return
	}
	changes, errs := g.watcher.Drain()
	for _, err := range errs {
		g.prefabLog.Warnw("watcher error", "error", err)
	}
	for _, c := range changes {
		if c.Kind != prefabs.ChangeTunables {
			g.prefabLog.Debugw("change ignored", "file", c.File)
			continue
		}
		g.reload(c.File)
	}
}

func (g *Game) reload(name string) {
	switch name {
	case prefabs.LadderSpecFile:
		spec, err := prefabs.LoadLadderSpec()
		if err != nil {
			g.prefabLog.Errorw("reload rejected", "file", name, "error", err)
			return
		}
		n := g.scene.ApplyLadderSpec(*spec)
		g.prefabLog.Infow("reloaded", "file", name, "states", n)
	case prefabs.PlayerSpecFile:
		spec, err := prefabs.LoadPlayerSpec()
		if err != nil {
			g.prefabLog.Errorw("reload rejected", "file", name, "error", err)
			return
		}
		n := g.scene.ApplyPlayerSpec(*spec)
		g.scheduler.SetFixedStep(spec.Timing.FixedStep)
		g.prefabLog.Infow("reloaded", "file", name, "states", n)
	}
}

func (g *Game) Draw(screen *ebiten.Image) {
	screen.Fill(colornames.Midnightblue)

	w := g.scene.World
	top := viewport{originX: baseWidth * 0.25, originY: baseHeight * 0.5}
	side := viewport{originX: baseWidth * 0.75, originY: baseHeight * 0.85}

	vector.StrokeLine(screen, baseWidth/2, 0, baseWidth/2, baseHeight, 1, colornames.Slategray, false)
	gy := float32(side.originY - g.scene.Level.GroundY*viewScale)
	vector.StrokeLine(screen, baseWidth/2, gy, baseWidth, gy, 1, colornames.Darkolivegreen, false)

	ecs.ForEach2(w, component.VolumeComponent.Kind(), component.TransformComponent.Kind(), func(_ ecs.Entity, v *component.Volume, t *component.Transform) {
		clr := color.Color(colornames.Sienna)
		if v.Tag == component.TagLadder {
			clr = colornames.Gold
		}
		top.strokeFootprint(screen, t.Position, t.Yaw, v.Size, clr)
		side.strokeElevation(screen, t.Position, t.Yaw, v.Size, clr)
	})

	ecs.ForEach3(w, component.PlayerComponent.Kind(), component.TransformComponent.Kind(), component.PlayerStateMachineComponent.Kind(), func(_ ecs.Entity, p *component.Player, t *component.Transform, sm *component.PlayerStateMachine) {
		clr := colornames.Crimson
		if sm.Active == component.StateLadder {
			clr = colornames.Limegreen
		}
		x, y := top.project(t.Position.X(), t.Position.Z())
		vector.DrawFilledCircle(screen, x, y, float32(p.Radius*viewScale), clr, true)
		fx, fz := common.YawForward(t.Yaw)
		x2, y2 := top.project(t.Position.X()+fx*p.Radius*2, t.Position.Z()+fz*p.Radius*2)
		vector.StrokeLine(screen, x, y, x2, y2, 2, colornames.White, true)

		sx, sy := side.project(t.Position.Z(), t.Position.Y()+p.Height)
		vector.DrawFilledRect(screen, sx-float32(p.Radius*viewScale), sy, float32(2*p.Radius*viewScale), float32(p.Height*viewScale), clr, false)

		ebitenutil.DebugPrint(screen, g.status(sm, p, t))
	})
}

func (g *Game) status(sm *component.PlayerStateMachine, p *component.Player, t *component.Transform) string {
	s := fmt.Sprintf("FPS: %.1f  level: %s\nstate: %s  grounded: %v  fall: %.2f\npos: %.2f %.2f %.2f  yaw: %.0f",
		ebiten.ActualFPS(), g.scene.Level.Name, sm.Active, p.Grounded, p.FallVelocity,
		t.Position.X(), t.Position.Y(), t.Position.Z(), t.Yaw)
	if ladder, ok := sm.States[component.StateLadder].(*system.LadderClimbState); ok {
		lo, hi := ladder.Span()
		s += fmt.Sprintf("\nphase: %s  span: %.2f..%.2f  regrab: %.2f  debounce: %.2f",
			ladder.Phase(), lo, hi, math.Max(ladder.RegrabCooldown(), 0), math.Max(ladder.ActionDebounce(), 0))
	}
	return s + "\nW/S climb  A/D strafe  Space jump  C drop"
}

func (g *Game) Layout(outsideWidth, outsideHeight int) (int, int) {
	return baseWidth, baseHeight
}

// viewport maps two world axes to screen pixels; the second axis points up.
type viewport struct {
	originX float64
	originY float64
}

func (v viewport) project(a, b float64) (float32, float32) {
	return float32(v.originX + a*viewScale), float32(v.originY - b*viewScale)
}

func (v viewport) strokeFootprint(dst *ebiten.Image, pos mgl64.Vec3, yaw float64, size mgl64.Vec3, clr color.Color) {
	corners := boxCorners(pos.X(), pos.Z(), yaw, size.X()/2, size.Z()/2)
	for i := range corners {
		a, b := corners[i], corners[(i+1)%len(corners)]
		x0, y0 := v.project(a[0], a[1])
		x1, y1 := v.project(b[0], b[1])
		vector.StrokeLine(dst, x0, y0, x1, y1, 2, clr, true)
	}
}

// strokeElevation draws the volume seen from +X: its Z extent against its
// height.
func (v viewport) strokeElevation(dst *ebiten.Image, pos mgl64.Vec3, yaw float64, size mgl64.Vec3, clr color.Color) {
	corners := boxCorners(pos.X(), pos.Z(), yaw, size.X()/2, size.Z()/2)
	minZ, maxZ := math.Inf(1), math.Inf(-1)
	for _, c := range corners {
		minZ = math.Min(minZ, c[1])
		maxZ = math.Max(maxZ, c[1])
	}
	x, y := v.project(minZ, pos.Y()+size.Y()/2)
	vector.StrokeRect(dst, x, y, float32((maxZ-minZ)*viewScale), float32(size.Y()*viewScale), 2, clr, false)
}

func boxCorners(cx, cz, yaw, hx, hz float64) [4][2]float64 {
	// local +Z turns to the yaw direction, local +X to its right
	fx, fz := common.YawForward(yaw)
	rx, rz := fz, -fx
	var out [4][2]float64
	for i, s := range [4][2]float64{{-1, -1}, {1, -1}, {1, 1}, {-1, 1}} {
		out[i] = [2]float64{
			cx + s[0]*hx*rx + s[1]*hz*fx,
			cz + s[0]*hx*rz + s[1]*hz*fz,
		}
	}
	return out
}
