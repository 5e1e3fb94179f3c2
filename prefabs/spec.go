package prefabs

import (
	"errors"
	"fmt"
	"math"

	"gopkg.in/yaml.v3"
)

// ErrInvalidSpec is wrapped by every validation failure.
var ErrInvalidSpec = errors.New("prefabs: invalid spec")

const (
	LadderSpecFile = "ladder.yaml"
	PlayerSpecFile = "player.yaml"
)

type validator interface {
	Validate() error
}

// loadOver decodes filename on top of spec, so omitted keys keep the value
// spec already carries, then validates the result.
func loadOver[T validator](filename string, spec T) (T, error) {
	var zero T
	data, err := Load(filename)
	if err != nil {
		return zero, fmt.Errorf("prefabs: load %s: %w", filename, err)
	}
	if err := yaml.Unmarshal(data, &spec); err != nil {
		return zero, fmt.Errorf("prefabs: unmarshal %s: %w", filename, err)
	}
	if err := spec.Validate(); err != nil {
		return zero, fmt.Errorf("prefabs: %s: %w", filename, err)
	}
	return spec, nil
}

// LadderSpec holds the ladder climb tunables. Durations are seconds, speeds
// units per second.
type LadderSpec struct {
	ActionDebounce   float64 `yaml:"action_debounce"`
	RegrabCooldown   float64 `yaml:"regrab_cooldown"`
	RiseDuration     float64 `yaml:"rise_duration"`
	ApproachDuration float64 `yaml:"approach_duration"`
	ClimbSpeed       float64 `yaml:"climb_speed"`
	ClimbAnimScale   float64 `yaml:"climb_anim_scale"`
	RiseSpeed        float64 `yaml:"rise_speed"`
	ApproachSpeed    float64 `yaml:"approach_speed"`
	DropDistance     float64 `yaml:"drop_distance"`
}

// DefaultLadderSpec returns the shipped tuning.
func DefaultLadderSpec() LadderSpec {
	return LadderSpec{
		ActionDebounce:   0.1,
		RegrabCooldown:   1.5,
		RiseDuration:     0.4,
		ApproachDuration: 0.8,
		ClimbSpeed:       5.0,
		ClimbAnimScale:   3.5,
		RiseSpeed:        4.5,
		ApproachSpeed:    3.0,
		DropDistance:     2.0,
	}
}

func (s LadderSpec) Validate() error {
	fields := []struct {
		name string
		v    float64
	}{
		{"action_debounce", s.ActionDebounce},
		{"regrab_cooldown", s.RegrabCooldown},
		{"rise_duration", s.RiseDuration},
		{"approach_duration", s.ApproachDuration},
		{"climb_speed", s.ClimbSpeed},
		{"climb_anim_scale", s.ClimbAnimScale},
		{"rise_speed", s.RiseSpeed},
		{"approach_speed", s.ApproachSpeed},
		{"drop_distance", s.DropDistance},
	}
	for _, f := range fields {
		if err := positive(f.name, f.v); err != nil {
			return err
		}
	}
	if s.RiseDuration >= s.ApproachDuration {
		return fmt.Errorf("%w: rise_duration %.3f must be below approach_duration %.3f", ErrInvalidSpec, s.RiseDuration, s.ApproachDuration)
	}
	return nil
}

// LoadLadderSpec reads ladder.yaml over the defaults, so omitted keys keep
// their shipped value.
func LoadLadderSpec() (*LadderSpec, error) {
	spec, err := loadOver(LadderSpecFile, DefaultLadderSpec())
	if err != nil {
		return nil, err
	}
	return &spec, nil
}

type PlayerSpec struct {
	Name      string     `yaml:"name"`
	Height    float64    `yaml:"height"`
	Radius    float64    `yaml:"radius"`
	WalkSpeed float64    `yaml:"walk_speed"`
	JumpSpeed float64    `yaml:"jump_speed"`
	Gravity   float64    `yaml:"gravity"`
	Timing    TimingSpec `yaml:"timing"`
}

// TimingSpec configures the fixed physics tick.
type TimingSpec struct {
	FixedStep     float64 `yaml:"fixed_step"`
	MaxFixedSteps int     `yaml:"max_fixed_steps"`
	// StepTolerance is how far below the feet a floor top may sit and still
	// count as ground after a move.
	StepTolerance float64 `yaml:"step_tolerance"`
}

func DefaultPlayerSpec() PlayerSpec {
	return PlayerSpec{
		Name:      "player",
		Height:    1.0,
		Radius:    0.3,
		WalkSpeed: 4.0,
		JumpSpeed: 6.0,
		Gravity:   20.0,
		Timing: TimingSpec{
			FixedStep:     0.02,
			MaxFixedSteps: 8,
			StepTolerance: 0.05,
		},
	}
}

func (s PlayerSpec) Validate() error {
	if err := positive("height", s.Height); err != nil {
		return err
	}
	if err := positive("radius", s.Radius); err != nil {
		return err
	}
	if err := positive("gravity", s.Gravity); err != nil {
		return err
	}
	if err := positive("timing.fixed_step", s.Timing.FixedStep); err != nil {
		return err
	}
	if s.WalkSpeed < 0 || s.JumpSpeed < 0 || s.Timing.StepTolerance < 0 {
		return fmt.Errorf("%w: walk_speed, jump_speed and timing.step_tolerance must not be negative", ErrInvalidSpec)
	}
	if s.Timing.MaxFixedSteps <= 0 {
		return fmt.Errorf("%w: timing.max_fixed_steps must be positive, got %d", ErrInvalidSpec, s.Timing.MaxFixedSteps)
	}
	return nil
}

func LoadPlayerSpec() (*PlayerSpec, error) {
	spec, err := loadOver(PlayerSpecFile, DefaultPlayerSpec())
	if err != nil {
		return nil, err
	}
	return &spec, nil
}

func positive(name string, v float64) error {
	if !(v > 0) || math.IsInf(v, 0) {
		return fmt.Errorf("%w: %s must be a positive number, got %v", ErrInvalidSpec, name, v)
	}
	return nil
}
