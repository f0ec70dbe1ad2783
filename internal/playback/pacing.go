package playback

import "time"

// Tick is the suspension granularity.
const Tick = 100 * time.Millisecond

// Pacing holds the delays the scheduler inserts around steps.
type Pacing struct {
	Tick            time.Duration
	CharDelay       time.Duration // after each revealed composer unit
	TypeHold        time.Duration // after the full text is revealed
	UserTrail       time.Duration // after an operator message
	AssistantTyping time.Duration // typing indicator before an assistant message
	AssistantTrail  time.Duration // after an assistant message
	PatchTrail      time.Duration // after a patch
}

// DefaultPacing returns the demo pacing.
func DefaultPacing() Pacing {
	return Pacing{
		Tick:            Tick,
		CharDelay:       30 * time.Millisecond,
		TypeHold:        400 * time.Millisecond,
		UserTrail:       600 * time.Millisecond,
		AssistantTyping: 800 * time.Millisecond,
		AssistantTrail:  800 * time.Millisecond,
		PatchTrail:      800 * time.Millisecond,
	}
}

func (p Pacing) withDefaults() Pacing {
	if p.Tick <= 0 {
		p.Tick = Tick
	}
	return p
}
