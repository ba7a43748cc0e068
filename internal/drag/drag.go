// Package drag runs divider drag gestures: one gesture at a time, resolved
// live against the snapshot taken when the gesture started.
package drag

import (
	"errors"
	"fmt"
	"log/slog"

	"github.com/jask/tilework/internal/panel"
)

var (
	ErrDragActive  = errors.New("a drag is already in progress")
	ErrNotDragging = errors.New("no drag in progress")
)

type State int

const (
	Idle State = iota
	Dragging
)

func (s State) String() string {
	if s == Dragging {
		return "dragging"
	}
	return "idle"
}

// UnmountPolicy decides what happens to a gesture's live snapshot when the
// container goes away mid-drag.
type UnmountPolicy int

const (
	KeepLive UnmountPolicy = iota
	DiscardLive
)

// ParseUnmountPolicy accepts "keep" and "discard". The empty string is keep.
func ParseUnmountPolicy(s string) (UnmountPolicy, error) {
	switch s {
	case "", "keep":
		return KeepLive, nil
	case "discard":
		return DiscardLive, nil
	}
	return KeepLive, fmt.Errorf("unknown unmount policy %q (want keep or discard)", s)
}

func (p UnmountPolicy) String() string {
	if p == DiscardLive {
		return "discard"
	}
	return "keep"
}

// Point is a pointer position in cells.
type Point struct {
	X, Y int
}

// Handle identifies the divider between children Index and Index+1 of a
// group, together with the group's extent along its direction.
type Handle struct {
	GroupID   string
	Index     int
	Direction panel.Direction
	Extent    float64
	MinPx     float64
}

func (h Handle) axis(p Point) int {
	if h.Direction == panel.Vertical {
		return p.Y
	}
	return p.X
}

// Capture acquires a resource held for the length of a gesture and returns
// the function that gives it back.
type Capture func() (release func())

type Options struct {
	// Capture routes every pointer event to the controller while dragging.
	Capture Capture
	// Suppress stops embedded content from reacting to the pointer. It is
	// only acquired when DisablePointerEvents is set.
	Suppress             Capture
	DisablePointerEvents bool
	UnmountPolicy        UnmountPolicy
	Logger               *slog.Logger
}

// Controller is the drag state machine for one layout container.
type Controller struct {
	opts     Options
	log      *slog.Logger
	state    State
	handle   Handle
	origin   int
	base     panel.Tree
	live     panel.Tree
	last     panel.ResizeResult
	releases []func()
}

func New(opts Options) *Controller {
	log := opts.Logger
	if log == nil {
		log = slog.New(slog.DiscardHandler)
	}
	return &Controller{opts: opts, log: log}
}

func (c *Controller) State() State { return c.state }

func (c *Controller) Dragging() bool { return c.state == Dragging }

// Handle returns the divider being dragged.
func (c *Controller) Handle() (Handle, bool) {
	return c.handle, c.state == Dragging
}

// Live returns the snapshot to render while dragging.
func (c *Controller) Live() (panel.Tree, bool) {
	return c.live, c.state == Dragging
}

// Begin starts a gesture on h at pos. The divider must exist in t.
func (c *Controller) Begin(t panel.Tree, h Handle, pos Point) error {
	if c.state == Dragging {
		return ErrDragActive
	}
	g, ok := panel.Find(t, h.GroupID)
	switch {
	case !ok:
		return fmt.Errorf("begin drag: %w", &panel.OpError{Op: "drag", ID: h.GroupID, Err: panel.ErrNotFound})
	case !g.IsGroup():
		return fmt.Errorf("begin drag: %w", &panel.OpError{Op: "drag", ID: h.GroupID, Err: panel.ErrNotGroup})
	case h.Index < 0 || h.Index+1 >= len(g.Items):
		return fmt.Errorf("begin drag: %w", &panel.OpError{Op: "drag", ID: h.GroupID, Err: panel.ErrNotAdjacent})
	case h.Extent <= 0:
		return fmt.Errorf("begin drag: %w", &panel.OpError{Op: "drag", ID: h.GroupID, Err: panel.ErrBadExtent})
	}
	if h.Direction == "" {
		h.Direction = g.Direction
	}

	c.acquire(c.opts.Capture)
	if c.opts.DisablePointerEvents {
		c.acquire(c.opts.Suppress)
	}
	c.state = Dragging
	c.handle = h
	c.origin = h.axis(pos)
	c.base = t
	c.live = t
	c.last = panel.ResizeResult{CollapseIndex: -1}
	c.log.Debug("drag begin", "group", h.GroupID, "index", h.Index, "extent", h.Extent)
	return nil
}

func (c *Controller) acquire(capture Capture) {
	if capture == nil {
		return
	}
	if release := capture(); release != nil {
		c.releases = append(c.releases, release)
	}
}

// Move resolves the gesture at pos against the snapshot taken by Begin and
// stores the result as the live snapshot.
func (c *Controller) Move(pos Point) (panel.Tree, panel.ResizeResult, error) {
	if c.state != Dragging {
		return panel.Tree{}, panel.ResizeResult{CollapseIndex: -1}, ErrNotDragging
	}
	delta := float64(c.origin - c.handle.axis(pos))
	out, res, err := panel.ApplyResize(c.base, c.handle.GroupID, c.handle.Index, delta, c.handle.Extent, c.handle.MinPx)
	if err != nil {
		return c.live, c.last, err
	}
	c.live, c.last = out, res
	return out, res, nil
}

// End applies the final position and commits the live snapshot. It reports
// false when no gesture was running.
func (c *Controller) End(pos Point) (panel.Tree, bool) {
	if c.state != Dragging {
		return panel.Tree{}, false
	}
	if _, _, err := c.Move(pos); err != nil {
		c.log.Debug("drag end: final move rejected", "err", err)
	}
	out := c.live
	c.log.Debug("drag commit", "group", c.handle.GroupID, "collapse", c.last.Collapse, "clamped", c.last.Clamped)
	c.reset()
	return out, true
}

// Cancel stops the gesture without committing and returns the tree as it was
// when the gesture started.
func (c *Controller) Cancel() (panel.Tree, bool) {
	if c.state != Dragging {
		return panel.Tree{}, false
	}
	base := c.base
	c.log.Debug("drag cancel", "group", c.handle.GroupID)
	c.reset()
	return base, true
}

// Unmount releases everything held by a running gesture. With KeepLive the
// last live snapshot is returned for committing; with DiscardLive nothing is.
func (c *Controller) Unmount() (panel.Tree, bool) {
	if c.state != Dragging {
		c.release()
		return panel.Tree{}, false
	}
	live := c.live
	keep := c.opts.UnmountPolicy == KeepLive
	c.log.Debug("drag interrupted by unmount", "group", c.handle.GroupID, "policy", c.opts.UnmountPolicy)
	c.reset()
	if !keep {
		return panel.Tree{}, false
	}
	return live, true
}

func (c *Controller) reset() {
	c.release()
	c.state = Idle
	c.handle = Handle{}
	c.origin = 0
	c.base = panel.Tree{}
	c.live = panel.Tree{}
	c.last = panel.ResizeResult{CollapseIndex: -1}
}

// release gives back every acquired resource, latest first. Calling it again
// is a no-op.
func (c *Controller) release() {
	for i := len(c.releases) - 1; i >= 0; i-- {
		c.releases[i]()
	}
	c.releases = nil
}
