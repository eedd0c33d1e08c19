package playback

import (
	"errors"
	"strings"
	"time"
)

// ErrPlayBlocked is returned by Play when the play policy rejects playback.
var ErrPlayBlocked = errors.New("play blocked by policy")

// Instance is one rendered video element. Requests are fire-and-forget from
// the controller's point of view.
type Instance interface {
	Play() error
	Pause()
	Seek(pos time.Duration)
}

// Factory builds an instance for a device frame when it mounts.
type Factory func(deviceID string) Instance

// Policy decides whether Play requests succeed.
type Policy string

const (
	PolicyAllow Policy = "allow"
	PolicyBlock Policy = "block"
)

// ParsePolicy maps a config value to a policy, defaulting to allow.
func ParsePolicy(raw string) Policy {
	if Policy(strings.ToLower(strings.TrimSpace(raw))) == PolicyBlock {
		return PolicyBlock
	}
	return PolicyAllow
}

// Clock is an Instance that tracks a looping playhead. The UI advances it on
// each tick.
type Clock struct {
	policy   Policy
	duration time.Duration // zero when unknown; no looping then
	position time.Duration
	playing  bool
}

// NewClock returns a paused clock at position zero.
func NewClock(policy Policy, duration time.Duration) *Clock {
	return &Clock{policy: policy, duration: duration}
}

// Play starts the playhead unless the policy blocks it.
func (c *Clock) Play() error {
	if c.policy == PolicyBlock {
		return ErrPlayBlocked
	}
	c.playing = true
	return nil
}

// Pause stops the playhead.
func (c *Clock) Pause() {
	c.playing = false
}

// Seek moves the playhead, clamped to the duration when known.
func (c *Clock) Seek(pos time.Duration) {
	if pos < 0 {
		pos = 0
	}
	if c.duration > 0 && pos > c.duration {
		pos = c.duration
	}
	c.position = pos
}

// Advance moves a playing clock forward by dt, looping at the end.
func (c *Clock) Advance(dt time.Duration) {
	if !c.playing || dt <= 0 {
		return
	}
	c.position += dt
	if c.duration > 0 {
		c.position %= c.duration
	}
}

// SetDuration records the media duration once it is known.
func (c *Clock) SetDuration(d time.Duration) {
	if d < 0 {
		d = 0
	}
	c.duration = d
	if d > 0 {
		c.position %= d
	}
}

// Position returns the playhead.
func (c *Clock) Position() time.Duration { return c.position }

// Duration returns the known duration, or zero.
func (c *Clock) Duration() time.Duration { return c.duration }

// Playing reports the instance's actual play state.
func (c *Clock) Playing() bool { return c.playing }
