package ecs

// Stage identifies which cadence a system runs at.
type Stage int

const (
	// StageFixed runs at a constant timestep from an accumulator.
	StageFixed Stage = iota
	// StageFrame runs once per rendered frame with the real frame delta.
	StageFrame
)

func (s Stage) String() string {
	switch s {
	case StageFixed:
		return "fixed"
	case StageFrame:
		return "frame"
	default:
		return "unknown"
	}
}

// Clock describes the step a system is being run for.
type Clock struct {
	Stage Stage
	// Delta is the seconds covered by this step.
	Delta float64
	// Elapsed is the simulated seconds at the end of this step for the stage.
	Elapsed float64
	// Tick counts steps of this stage, starting at 1.
	Tick uint64
}

const (
	DefaultFixedStep     = 1.0 / 50.0
	DefaultMaxFixedSteps = 8
)

// Scheduler runs two ordered system lists per frame. Every frame first runs
// all fixed steps that are due, then the frame systems once. Both lists run
// strictly sequentially.
type Scheduler struct {
	fixed []System
	frame []System

	fixedStep     float64
	maxFixedSteps int
	accumulator   float64

	fixedTicks   uint64
	frameTicks   uint64
	fixedElapsed float64
	frameElapsed float64
}

// NewScheduler creates a scheduler with the given fixed timestep in seconds.
// Non-positive values fall back to DefaultFixedStep.
func NewScheduler(fixedStep float64, maxFixedSteps int) *Scheduler {
	if fixedStep <= 0 {
		fixedStep = DefaultFixedStep
	}
	if maxFixedSteps <= 0 {
		maxFixedSteps = DefaultMaxFixedSteps
	}
	return &Scheduler{fixedStep: fixedStep, maxFixedSteps: maxFixedSteps}
}

// Add appends a system to the given stage.
func (s *Scheduler) Add(stage Stage, system System) {
	if s == nil || system == nil {
		return
	}
	switch stage {
	case StageFixed:
		s.fixed = append(s.fixed, system)
	case StageFrame:
		s.frame = append(s.frame, system)
	}
}

// FixedStep returns the fixed timestep in seconds.
func (s *Scheduler) FixedStep() float64 {
	if s == nil {
		return 0
	}
	return s.fixedStep
}

// SetFixedStep changes the fixed timestep for subsequent frames.
func (s *Scheduler) SetFixedStep(step float64) {
	if s == nil || step <= 0 {
		return
	}
	s.fixedStep = step
}

// Update advances the world by one frame of frameDelta seconds and returns
// the number of fixed steps that ran.
func (s *Scheduler) Update(w *World, frameDelta float64) int {
	if s == nil || w == nil {
		return 0
	}
	if frameDelta < 0 {
		frameDelta = 0
	}

	s.accumulator += frameDelta
	steps := 0
	// small epsilon keeps 0.02+0.02+... from dropping a step to rounding
	for s.accumulator+1e-9 >= s.fixedStep && steps < s.maxFixedSteps {
		s.accumulator -= s.fixedStep
		s.fixedTicks++
		s.fixedElapsed += s.fixedStep
		w.clock = Clock{Stage: StageFixed, Delta: s.fixedStep, Elapsed: s.fixedElapsed, Tick: s.fixedTicks}
		for _, system := range s.fixed {
			system.Update(w)
		}
		steps++
	}
	if steps == s.maxFixedSteps && s.accumulator >= s.fixedStep {
		// drop the backlog instead of spiralling
		s.accumulator = 0
	}
	if s.accumulator < 0 {
		s.accumulator = 0
	}

	s.frameTicks++
	s.frameElapsed += frameDelta
	w.clock = Clock{Stage: StageFrame, Delta: frameDelta, Elapsed: s.frameElapsed, Tick: s.frameTicks}
	for _, system := range s.frame {
		system.Update(w)
	}
	w.events.reset()
	return steps
}

// Systems returns a copy of the systems registered for stage.
func (s *Scheduler) Systems(stage Stage) []System {
	if s == nil {
		return nil
	}
	var src []System
	switch stage {
	case StageFixed:
		src = s.fixed
	case StageFrame:
		src = s.frame
	}
	return append([]System(nil), src...)
}
