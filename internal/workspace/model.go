// Package workspace hosts a panel tree as a Bubble Tea component: it lays the
// tree out in cells, draws tab headers, strips and dividers, turns mouse
// gestures into tree operations and reports every change to its host.
package workspace

import (
	"errors"
	"fmt"
	"log/slog"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/x/ansi"

	"github.com/jask/tilework/internal/drag"
	"github.com/jask/tilework/internal/panel"
)

var ErrClosed = errors.New("workspace is closed")

type TabLabel struct {
	Icon  string
	Label string
}

// HandleProps skins a divider. Glyph is repeated along the divider.
type HandleProps struct {
	Glyph       string
	Style       lipgloss.Style
	ActiveStyle lipgloss.Style
}

// Layout is the set of operations available to tab content.
type Layout interface {
	Tree() panel.Tree
	AddTab(itemID string, tab panel.Tab, activate bool) (tea.Cmd, error)
	CloseTab(itemID, tabID string) (tea.Cmd, error)
	SetActiveTab(itemID, tabID string) (tea.Cmd, error)
	Collapse(id string) (tea.Cmd, error)
	Expand(id string) (tea.Cmd, error)
	ToggleCollapse(id string) (tea.Cmd, error)
	Split(target string, dir panel.Direction, item panel.Node, after bool) (tea.Cmd, error)
	MoveTab(fromItem, tabID, toItem string) (tea.Cmd, error)
	RemoveItem(itemID string) (tea.Cmd, error)
}

// RenderContext describes the body a tab is drawn into.
type RenderContext struct {
	ItemID  string
	Tab     panel.Tab
	Width   int
	Height  int
	Focused bool
	// PointerEvents is false while a drag suppresses content input.
	PointerEvents bool
	Layout        Layout
}

type Callbacks struct {
	TabLabel     func(tabID string) TabLabel
	RenderTab    func(ctx RenderContext) string
	ResizeHandle func(dir panel.Direction) HandleProps
	// ContentMouse receives mouse events landing in a tab body, in body
	// coordinates.
	ContentMouse func(ctx RenderContext, msg tea.MouseMsg) tea.Cmd
}

type Options struct {
	// Initial is the tree an uncontrolled container starts from.
	Initial panel.Tree
	// Value makes the container controlled: it shows Value, reports changes
	// through OnChange and ChangedMsg, and only moves on via SetValue.
	Value    *panel.Tree
	OnChange func(panel.Tree)

	Callbacks Callbacks
	Theme     *Theme

	DisablePointerEventsDuringResize bool
	UnmountPolicy                    drag.UnmountPolicy
	MinPaneCells                     int
	CollapsedCells                   int
	Logger                           *slog.Logger
}

// ChangedMsg is emitted after every committed change.
type ChangedMsg struct {
	Op   string
	Tree panel.Tree
}

type Model struct {
	opts       Options
	cb         Callbacks
	theme      Theme
	log        *slog.Logger
	controlled bool
	tree       panel.Tree
	drag       *drag.Controller
	captured   bool
	suppressed int
	width      int
	height     int
	focused    string
	closed     bool
}

// New validates the starting tree and builds the container.
func New(opts Options) (*Model, error) {
	start := opts.Initial
	if opts.Value != nil {
		start = *opts.Value
	}
	if err := panel.Validate(start); err != nil {
		return nil, fmt.Errorf("workspace: %w", err)
	}
	m := &Model{
		opts:       opts,
		cb:         opts.Callbacks,
		theme:      MochaTheme(),
		log:        opts.Logger,
		controlled: opts.Value != nil,
		tree:       start.Clone(),
	}
	if opts.Theme != nil {
		m.theme = *opts.Theme
	}
	if m.log == nil {
		m.log = slog.New(slog.DiscardHandler)
	}
	m.drag = drag.New(drag.Options{
		Capture:              m.capturePointer,
		Suppress:             m.suppressContent,
		DisablePointerEvents: opts.DisablePointerEventsDuringResize,
		UnmountPolicy:        opts.UnmountPolicy,
		Logger:               m.log,
	})
	m.fixFocus()
	return m, nil
}

func (m *Model) capturePointer() func() {
	m.captured = true
	return func() { m.captured = false }
}

func (m *Model) suppressContent() func() {
	m.suppressed++
	return func() { m.suppressed-- }
}

// Tree returns the committed tree. A running drag is not included.
func (m *Model) Tree() panel.Tree { return m.tree }

// viewTree is what gets drawn: the live drag snapshot if there is one.
func (m *Model) viewTree() panel.Tree {
	if live, ok := m.drag.Live(); ok {
		return live
	}
	return m.tree
}

func (m *Model) Controlled() bool { return m.controlled }

func (m *Model) Dragging() bool { return m.drag.Dragging() }

// SetValue replaces the shown tree. It is how a controlled host accepts a
// change; an uncontrolled container is reset to t.
func (m *Model) SetValue(t panel.Tree) error {
	if err := panel.Validate(t); err != nil {
		return fmt.Errorf("workspace: %w", err)
	}
	m.tree = t.Clone()
	m.fixFocus()
	return nil
}

func (m *Model) SetSize(width, height int) {
	m.width, m.height = max(0, width), max(0, height)
}

func (m *Model) Size() (int, int) { return m.width, m.height }

// Frame returns the geometry of what is currently drawn.
func (m *Model) Frame() Frame {
	return Arrange(m.viewTree(), Rect{W: m.width, H: m.height}, ArrangeOptions{
		CollapsedCells: m.opts.CollapsedCells,
		TabWidth:       func(tab panel.Tab) int { return ansi.StringWidth(m.tabText(tab)) },
	})
}

// Focused returns the focused item and its active tab.
func (m *Model) Focused() (string, panel.Tab, bool) {
	n, ok := panel.Find(m.tree, m.focused)
	if !ok || !n.IsItem() {
		return "", panel.Tab{}, false
	}
	tab, ok := n.ActiveTab()
	return n.ID, tab, ok
}

func (m *Model) Focus(itemID string) error {
	n, ok := panel.Find(m.tree, itemID)
	if !ok {
		return &panel.OpError{Op: "focus", ID: itemID, Err: panel.ErrNotFound}
	}
	if !n.IsItem() {
		return &panel.OpError{Op: "focus", ID: itemID, Err: panel.ErrNotItem}
	}
	m.focused = itemID
	return nil
}

// FocusNext moves focus to the next expanded item in visual order, wrapping
// around. A negative step moves backwards.
func (m *Model) FocusNext(step int) {
	var ids []string
	for _, it := range panel.Items(m.tree) {
		if !it.Collapsed {
			ids = append(ids, it.ID)
		}
	}
	if len(ids) == 0 {
		return
	}
	cur := 0
	for i, id := range ids {
		if id == m.focused {
			cur = i
		}
	}
	next := ((cur+step)%len(ids) + len(ids)) % len(ids)
	m.focused = ids[next]
}

func (m *Model) fixFocus() {
	if n, ok := panel.Find(m.tree, m.focused); ok && n.IsItem() && !n.Collapsed {
		return
	}
	m.focused = ""
	for _, it := range panel.Items(m.tree) {
		if !it.Collapsed {
			m.focused = it.ID
			return
		}
	}
}

func (m *Model) Init() tea.Cmd { return nil }

func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	if m.closed {
		return m, nil
	}
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.SetSize(msg.Width, msg.Height)
	case tea.MouseMsg:
		return m, m.handleMouse(msg)
	}
	return m, nil
}

func (m *Model) View() string {
	if m.closed {
		return ""
	}
	return m.render(m.viewTree(), m.Frame())
}

func (m *Model) handleMouse(msg tea.MouseMsg) tea.Cmd {
	pt := drag.Point{X: msg.X, Y: msg.Y}
	if m.captured {
		if tea.MouseEvent(msg).IsWheel() {
			return m.forwardContent(m.Frame().HitTest(msg.X, msg.Y), msg)
		}
		switch msg.Action {
		case tea.MouseActionMotion:
			if _, _, err := m.drag.Move(pt); err != nil {
				m.log.Debug("drag move rejected", "err", err)
			}
		case tea.MouseActionRelease:
			if final, ok := m.drag.End(pt); ok {
				return m.commit("resize", final)
			}
		}
		return nil
	}

	hit := m.Frame().HitTest(msg.X, msg.Y)
	if msg.Action != tea.MouseActionPress || msg.Button != tea.MouseButtonLeft {
		return m.forwardContent(hit, msg)
	}
	switch hit.Kind {
	case HitDivider:
		d := hit.Divider
		err := m.drag.Begin(m.tree, drag.Handle{
			GroupID:   d.GroupID,
			Index:     d.Index,
			Direction: d.Direction,
			Extent:    float64(d.Extent),
			MinPx:     float64(m.opts.MinPaneCells),
		}, pt)
		if err != nil {
			m.log.Debug("drag not started", "err", err)
		}
		return nil
	case HitStrip:
		cmd, _ := m.Expand(hit.NodeID)
		return cmd
	case HitToggle:
		cmd, _ := m.Collapse(hit.NodeID)
		return cmd
	case HitClose:
		m.focused = hit.NodeID
		cmd, _ := m.CloseTab(hit.NodeID, hit.TabID)
		return cmd
	case HitTab:
		m.focused = hit.NodeID
		cmd, _ := m.SetActiveTab(hit.NodeID, hit.TabID)
		return cmd
	case HitHeader:
		m.focused = hit.NodeID
	case HitBody:
		m.focused = hit.NodeID
		return m.forwardContent(hit, msg)
	}
	return nil
}

func (m *Model) forwardContent(hit Hit, msg tea.MouseMsg) tea.Cmd {
	if hit.Kind != HitBody || m.cb.ContentMouse == nil || m.suppressed > 0 {
		return nil
	}
	n, ok := panel.Find(m.tree, hit.NodeID)
	if !ok {
		return nil
	}
	it, ok := m.Frame().Item(hit.NodeID)
	if !ok {
		return nil
	}
	ctx, ok := m.renderContext(n, it.Body)
	if !ok {
		return nil
	}
	msg.X -= it.Body.X
	msg.Y -= it.Body.Y
	return m.cb.ContentMouse(ctx, msg)
}

func (m *Model) renderContext(n panel.Node, body Rect) (RenderContext, bool) {
	tab, ok := n.ActiveTab()
	if !ok {
		return RenderContext{}, false
	}
	return RenderContext{
		ItemID:        n.ID,
		Tab:           tab,
		Width:         body.W,
		Height:        body.H,
		Focused:       n.ID == m.focused,
		PointerEvents: m.suppressed == 0,
		Layout:        m,
	}, true
}

// Close unmounts the container. A drag still running is ended according to
// the unmount policy. Close is safe to call more than once.
func (m *Model) Close() tea.Cmd {
	if m.closed {
		return nil
	}
	live, keep := m.drag.Unmount()
	var cmd tea.Cmd
	if keep {
		cmd = m.commit("resize", live)
	}
	m.closed = true
	return cmd
}

func (m *Model) commit(op string, next panel.Tree) tea.Cmd {
	if !m.controlled {
		m.tree = next
		m.fixFocus()
	}
	if m.opts.OnChange != nil {
		m.opts.OnChange(next)
	}
	m.log.Debug("layout changed", "op", op, "controlled", m.controlled)
	return func() tea.Msg { return ChangedMsg{Op: op, Tree: next} }
}

func (m *Model) apply(op string, fn func(panel.Tree) (panel.Tree, error)) (tea.Cmd, error) {
	switch {
	case m.closed:
		return nil, ErrClosed
	case m.drag.Dragging():
		return nil, drag.ErrDragActive
	}
	next, err := fn(m.tree)
	if err != nil {
		m.log.Debug("layout operation rejected", "op", op, "err", err)
		return nil, err
	}
	return m.commit(op, next), nil
}

func (m *Model) AddTab(itemID string, tab panel.Tab, activate bool) (tea.Cmd, error) {
	return m.apply("add tab", func(t panel.Tree) (panel.Tree, error) {
		return panel.AddTab(t, itemID, tab, activate)
	})
}

func (m *Model) CloseTab(itemID, tabID string) (tea.Cmd, error) {
	return m.apply("close tab", func(t panel.Tree) (panel.Tree, error) {
		return panel.CloseTab(t, itemID, tabID)
	})
}

func (m *Model) SetActiveTab(itemID, tabID string) (tea.Cmd, error) {
	return m.apply("activate tab", func(t panel.Tree) (panel.Tree, error) {
		return panel.SetActiveTab(t, itemID, tabID)
	})
}

func (m *Model) Collapse(id string) (tea.Cmd, error) {
	return m.apply("collapse", func(t panel.Tree) (panel.Tree, error) {
		return panel.Collapse(t, id)
	})
}

func (m *Model) Expand(id string) (tea.Cmd, error) {
	return m.apply("expand", func(t panel.Tree) (panel.Tree, error) {
		return panel.Expand(t, id)
	})
}

func (m *Model) ToggleCollapse(id string) (tea.Cmd, error) {
	return m.apply("toggle collapse", func(t panel.Tree) (panel.Tree, error) {
		return panel.ToggleCollapse(t, id)
	})
}

func (m *Model) Split(target string, dir panel.Direction, item panel.Node, after bool) (tea.Cmd, error) {
	return m.apply("split", func(t panel.Tree) (panel.Tree, error) {
		return panel.Split(t, target, dir, item, after)
	})
}

func (m *Model) MoveTab(fromItem, tabID, toItem string) (tea.Cmd, error) {
	return m.apply("move tab", func(t panel.Tree) (panel.Tree, error) {
		return panel.MoveTab(t, fromItem, tabID, toItem)
	})
}

func (m *Model) RemoveItem(itemID string) (tea.Cmd, error) {
	return m.apply("remove item", func(t panel.Tree) (panel.Tree, error) {
		return panel.RemoveItem(t, itemID)
	})
}
