package component

// Animator parameter names written by the movement states.
const (
	AnimParamSpeed = "animSpeed"
	AnimParamLean  = "x"

	AnimClipLadder     = "Ladder"
	AnimClipLocomotion = "Locomotion"
)

// AnimationSink receives animation parameter writes from movement states.
type AnimationSink interface {
	SetFloat(name string, v float64)
	SetSpeed(v float64)
	CrossFade(clip string, duration float64)
}

// Animator is a minimal blend-tree driver: float parameters, a playback
// speed and a current clip faded in from the previous one.
type Animator struct {
	Params map[string]float64
	Speed  float64

	Clip         string
	PrevClip     string
	FadeDuration float64
	FadeElapsed  float64
	// Time is the normalized playback position of Clip.
	Time float64
}

var AnimatorComponent = NewComponent[Animator]()

func (a *Animator) SetFloat(name string, v float64) {
	if a == nil {
		return
	}
	if a.Params == nil {
		a.Params = make(map[string]float64)
	}
	a.Params[name] = v
}

func (a *Animator) Float(name string) float64 {
	if a == nil {
		return 0
	}
	return a.Params[name]
}

func (a *Animator) SetSpeed(v float64) {
	if a == nil {
		return
	}
	a.Speed = v
}

func (a *Animator) CrossFade(clip string, duration float64) {
	if a == nil {
		return
	}
	if duration < 0 {
		duration = 0
	}
	a.PrevClip = a.Clip
	a.Clip = clip
	a.FadeDuration = duration
	a.FadeElapsed = 0
	a.Time = 0
}

// Weight returns how far the fade into Clip has progressed, in [0, 1].
func (a *Animator) Weight() float64 {
	if a == nil {
		return 0
	}
	if a.FadeDuration <= 0 || a.FadeElapsed >= a.FadeDuration {
		return 1
	}
	return a.FadeElapsed / a.FadeDuration
}
