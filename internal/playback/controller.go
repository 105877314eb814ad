// Package playback keeps multiple camera tracks aligned during review
// playback by periodically reseeking any follower that drifts from the
// master timeline.
package playback

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"slate/internal/logging"
	"slate/internal/media"
)

// Track is a seekable media transport under the controller's command.
type Track interface {
	Position() time.Duration
	Duration() time.Duration
	Play()
	Pause()
	Seek(pos time.Duration)
}

const (
	// driftCheckInterval is how often follower positions are compared
	// against the master timeline.
	driftCheckInterval = 100 * time.Millisecond
	// driftTolerance is the largest master/follower divergence left
	// uncorrected. Reseeking below this threshold causes audible stutter.
	driftTolerance = 50 * time.Millisecond
)

type follower struct {
	track  Track
	offset time.Duration
}

// Controller drives synchronized playback of one master track and its
// followers. Each follower plays at master position plus its offset.
type Controller struct {
	mu        sync.Mutex
	master    Track
	followers map[media.CameraAngle]*follower
	logger    *slog.Logger
	cancel    context.CancelFunc
	done      chan struct{}
}

// NewController builds a controller around the master track.
func NewController(master Track, logger *slog.Logger) *Controller {
	if logger == nil {
		logger = logging.NewNop()
	}
	return &Controller{
		master:    master,
		followers: make(map[media.CameraAngle]*follower),
		logger:    logger.With(logging.FieldComponent, "playback"),
	}
}

// AddFollower registers a camera track to be held at master plus offset.
func (c *Controller) AddFollower(angle media.CameraAngle, track Track, offsetMS int) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.followers[angle] = &follower{track: track, offset: time.Duration(offsetMS) * time.Millisecond}
}

// SetOffset updates a follower's offset and realigns it immediately so an
// operator nudge is heard on the next frame, not the next drift check.
func (c *Controller) SetOffset(angle media.CameraAngle, offsetMS int) {
	c.mu.Lock()
	defer c.mu.Unlock()
	f, ok := c.followers[angle]
	if !ok {
		return
	}
	f.offset = time.Duration(offsetMS) * time.Millisecond
	c.realign(f)
}

// Start begins playback on all tracks and launches the drift-check loop.
// The loop runs until the context is canceled or Close is called.
func (c *Controller) Start(ctx context.Context) {
	c.mu.Lock()
	ctx, c.cancel = context.WithCancel(ctx)
	c.done = make(chan struct{})
	c.master.Play()
	for _, f := range c.followers {
		f.track.Play()
	}
	c.mu.Unlock()

	go func() {
		defer close(c.done)
		ticker := time.NewTicker(driftCheckInterval)
		defer ticker.Stop()
		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				c.step()
			}
		}
	}()
}

// Pause halts all tracks. The drift loop keeps running so positions stay
// pinned while paused.
func (c *Controller) Pause() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.master.Pause()
	for _, f := range c.followers {
		f.track.Pause()
	}
}

// Play resumes all tracks.
func (c *Controller) Play() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.master.Play()
	for _, f := range c.followers {
		f.track.Play()
	}
}

// SeekMaster moves the master to pos and snaps every follower to its new
// expected position in the same call, rather than waiting out a drift tick.
func (c *Controller) SeekMaster(pos time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.master.Seek(pos)
	for _, f := range c.followers {
		c.realign(f)
	}
}

// Close stops the drift loop and waits for it to exit.
func (c *Controller) Close() {
	c.mu.Lock()
	cancel, done := c.cancel, c.done
	c.cancel, c.done = nil, nil
	c.mu.Unlock()
	if cancel != nil {
		cancel()
		<-done
	}
}

// step runs one drift check: followers beyond tolerance are reseeked to
// their expected position, clamped to the track's playable range.
func (c *Controller) step() {
	c.mu.Lock()
	defer c.mu.Unlock()
	for angle, f := range c.followers {
		expected := c.master.Position() + f.offset
		drift := f.track.Position() - expected
		if drift < 0 {
			drift = -drift
		}
		if drift > driftTolerance {
			c.logger.Debug("correcting drift",
				logging.FieldAngle, string(angle),
				"drift_ms", drift.Milliseconds())
			f.track.Seek(clampPosition(expected, f.track.Duration()))
		}
	}
}

// realign snaps a follower to its expected position unconditionally.
// Caller holds c.mu.
func (c *Controller) realign(f *follower) {
	f.track.Seek(clampPosition(c.master.Position()+f.offset, f.track.Duration()))
}

func clampPosition(pos, duration time.Duration) time.Duration {
	if pos < 0 {
		return 0
	}
	if pos > duration {
		return duration
	}
	return pos
}
