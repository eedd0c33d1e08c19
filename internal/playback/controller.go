package playback

import (
	"log"
	"sort"
)

// Controller issues play, pause and restart to every registered instance in
// lockstep and holds the shared play-intent flag.
//
// The flag is optimistic: a rejected Play leaves it set, matching what the
// user asked for. Each instance keeps its own actual state.
type Controller struct {
	instances map[string]Instance
	playing   bool
}

// NewController returns a controller with the play-intent flag set to playing.
func NewController(playing bool) *Controller {
	return &Controller{instances: make(map[string]Instance), playing: playing}
}

// Playing returns the play-intent flag.
func (c *Controller) Playing() bool {
	return c.playing
}

// SetPlaying sets the flag without touching instances.
func (c *Controller) SetPlaying(playing bool) {
	c.playing = playing
}

// Mount registers inst for deviceID and, when the flag is set, asks it to play.
// An already mounted device keeps its instance.
func (c *Controller) Mount(deviceID string, inst Instance) bool {
	if inst == nil {
		return false
	}
	if _, ok := c.instances[deviceID]; ok {
		return false
	}
	c.instances[deviceID] = inst
	if c.playing {
		tryPlay(deviceID, inst)
	}
	return true
}

// Retain deregisters every instance whose device is not in keep.
func (c *Controller) Retain(keep map[string]bool) {
	for id := range c.instances {
		if !keep[id] {
			delete(c.instances, id)
		}
	}
}

// Reset deregisters every instance.
func (c *Controller) Reset() {
	clear(c.instances)
}

// Instance returns the registered instance for deviceID.
func (c *Controller) Instance(deviceID string) (Instance, bool) {
	inst, ok := c.instances[deviceID]
	return inst, ok
}

// Len returns the number of registered instances.
func (c *Controller) Len() int {
	return len(c.instances)
}

// TogglePlayPause pauses every instance when the flag is set, otherwise plays
// every instance. The flag flips either way.
func (c *Controller) TogglePlayPause() {
	if c.playing {
		c.each(func(_ string, inst Instance) { inst.Pause() })
		c.playing = false
		return
	}
	c.each(tryPlay)
	c.playing = true
}

// Restart seeks every instance to zero, plays it, and sets the flag.
func (c *Controller) Restart() {
	c.each(func(id string, inst Instance) {
		inst.Seek(0)
		tryPlay(id, inst)
	})
	c.playing = true
}

// Each visits registered instances in device id order.
func (c *Controller) Each(fn func(deviceID string, inst Instance)) {
	c.each(fn)
}

func (c *Controller) each(fn func(string, Instance)) {
	ids := make([]string, 0, len(c.instances))
	for id := range c.instances {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	for _, id := range ids {
		fn(id, c.instances[id])
	}
}

func tryPlay(deviceID string, inst Instance) {
	if err := inst.Play(); err != nil {
		log.Printf("playback: play %s rejected: %v", deviceID, err)
	}
}
