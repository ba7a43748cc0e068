package workbench

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"sync"

	"github.com/charmbracelet/bubbles/help"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/x/ansi"
	"github.com/google/uuid"

	"github.com/jask/tilework/internal/drag"
	"github.com/jask/tilework/internal/panel"
	"github.com/jask/tilework/internal/workspace"
)

// Store persists the layout. *service.LayoutService satisfies it.
type Store interface {
	Save(ctx context.Context, name, op string, t panel.Tree) error
	Revert(ctx context.Context, name string, steps int) (panel.Tree, error)
}

type Options struct {
	Tree       panel.Tree
	LayoutName string
	// Store may be nil, in which case nothing is saved.
	Store         Store
	Problem       Problem
	Theme         *workspace.Theme
	MarkdownStyle string

	MinPaneCells         int
	CollapsedCells       int
	DisablePointerEvents bool
	UnmountPolicy        drag.UnmountPolicy
	Logger               *slog.Logger
}

type savedMsg struct {
	task *storeTask
	op   string
	err  error
}

type revertedMsg struct {
	task *storeTask
	tree panel.Tree
	err  error
}

// storeJob is a queued call to the Store: a save of tree, or a one step
// revert.
type storeJob struct {
	op     string
	tree   panel.Tree
	revert bool
}

// storeTask runs one job at most once. Bubble Tea calls do from a command
// goroutine; quit may call it too, and then waits for the same result.
type storeTask struct {
	once sync.Once
	run  func() tea.Msg
	msg  tea.Msg
}

func (t *storeTask) do() tea.Msg {
	t.once.Do(func() { t.msg = t.run() })
	return t.msg
}

type editMsg struct {
	itemID string
	tabID  string
}

var (
	statusStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#a6e3a1"))
	errorStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("#f38ba8"))
	keyStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("#89b4fa")).Bold(true)
	descStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("#a6adc8"))
)

// Model hosts a controlled workspace. The workspace reports each change, the
// model accepts it with SetValue and saves it under LayoutName.
type Model struct {
	ctx     context.Context
	opts    Options
	ws      *workspace.Model
	content *Content
	keys    *KeyRegistry
	help    help.Model
	log     *slog.Logger

	width     int
	height    int
	status    string
	statusErr bool
	saves     int

	// store calls run one at a time, in the order the changes happened
	queue    []storeJob
	inflight *storeTask
}

func New(ctx context.Context, opts Options) (*Model, error) {
	if opts.LayoutName == "" {
		opts.LayoutName = "default"
	}
	if opts.Problem.Title == "" {
		opts.Problem = SampleProblem()
	}
	m := &Model{
		ctx:     ctx,
		opts:    opts,
		content: NewContent(opts.Problem, opts.MarkdownStyle),
		keys:    NewKeyRegistry(),
		help:    help.New(),
		log:     opts.Logger,
	}
	if m.log == nil {
		m.log = slog.New(slog.DiscardHandler)
	}
	m.help.Styles.ShortKey = keyStyle
	m.help.Styles.ShortDesc = descStyle

	tree := opts.Tree
	ws, err := workspace.New(workspace.Options{
		Value:    &tree,
		OnChange: m.accept,
		Callbacks: workspace.Callbacks{
			TabLabel:     m.content.TabLabel,
			RenderTab:    m.content.Render,
			ContentMouse: m.content.Mouse,
		},
		Theme:                            opts.Theme,
		DisablePointerEventsDuringResize: opts.DisablePointerEvents,
		UnmountPolicy:                    opts.UnmountPolicy,
		MinPaneCells:                     opts.MinPaneCells,
		CollapsedCells:                   opts.CollapsedCells,
		Logger:                           m.log,
	})
	if err != nil {
		return nil, fmt.Errorf("workbench: %w", err)
	}
	m.ws = ws
	return m, nil
}

// accept takes a change reported by the workspace.
func (m *Model) accept(t panel.Tree) {
	if err := m.ws.SetValue(t); err != nil {
		m.log.Warn("layout change refused", "err", err)
	}
}

func (m *Model) Tree() panel.Tree { return m.ws.Tree() }

func (m *Model) Content() *Content { return m.content }

func (m *Model) Workspace() *workspace.Model { return m.ws }

// Status returns the footer message and whether it reports an error.
func (m *Model) Status() (string, bool) { return m.status, m.statusErr }

func (m *Model) Init() tea.Cmd { return nil }

func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width, m.height = msg.Width, msg.Height
		m.ws.SetSize(msg.Width, max(0, msg.Height-1))
		m.help.Width = msg.Width
		return m, nil
	case tea.KeyMsg:
		return m, m.handleKey(msg)
	case tea.MouseMsg:
		_, cmd := m.ws.Update(msg)
		return m, cmd
	case workspace.ChangedMsg:
		return m, m.persist(msg)
	case savedMsg:
		m.finished(msg.task)
		if msg.err != nil {
			m.fail(msg.err)
		} else {
			m.saves++
			m.log.Debug("layout persisted", "op", msg.op)
		}
		return m, m.nextStoreCall()
	case revertedMsg:
		m.finished(msg.task)
		if msg.err != nil {
			m.fail(msg.err)
		} else {
			m.accept(msg.tree)
			m.setStatus("layout reverted")
		}
		return m, m.nextStoreCall()
	case editMsg:
		m.focus(msg.itemID)
		return m, m.startEditing(msg.tabID)
	}
	if m.content.Editing() != "" {
		return m, m.content.UpdateEditor(msg)
	}
	return m, nil
}

func (m *Model) handleKey(msg tea.KeyMsg) tea.Cmd {
	scope := scopeWorkspace
	if m.content.Editing() != "" {
		scope = scopeEditing
	}
	b := m.keys.Lookup(msg.String(), scope)
	if b == nil {
		if scope == scopeEditing {
			return m.content.UpdateEditor(msg)
		}
		return nil
	}

	itemID, tab, hasTab := m.ws.Focused()
	switch b.Action {
	case actionQuit:
		return m.quit()
	case actionStopEditing:
		m.content.StopEditing()
	case actionFocusNext:
		m.ws.FocusNext(1)
	case actionFocusPrev:
		m.ws.FocusNext(-1)
	case actionNextTab:
		return m.cycleTab(itemID, tab.ID, 1)
	case actionPrevTab:
		return m.cycleTab(itemID, tab.ID, -1)
	case actionEdit:
		if !hasTab || !m.content.Editable(tab.ID) {
			m.setStatus("nothing to edit here")
			return nil
		}
		return m.startEditing(tab.ID)
	case actionToggleConsole:
		return m.op(m.ws.ToggleCollapse(consoleID))
	case actionCloseTab:
		if !hasTab {
			return nil
		}
		cmd, err := m.ws.CloseTab(itemID, tab.ID)
		if err == nil {
			m.content.Forget(tab.ID)
		}
		return m.op(cmd, err)
	case actionNewScratch:
		id := m.content.NewScratch()
		return m.op(m.ws.AddTab(itemID, panel.Tab{ID: id, Closeable: true}, true))
	case actionSplit:
		return m.split(itemID)
	case actionMoveTab:
		if !hasTab {
			return nil
		}
		return m.moveTab(itemID, tab.ID)
	case actionRun:
		return m.run()
	case actionUndo:
		return m.undo()
	}
	return nil
}

func (m *Model) startEditing(tabID string) tea.Cmd {
	cmd, ok := m.content.StartEditing(tabID)
	if !ok {
		return nil
	}
	m.setStatus("editing " + tabID + ", esc to stop")
	return cmd
}

func (m *Model) cycleTab(itemID, tabID string, step int) tea.Cmd {
	n, ok := panel.Find(m.ws.Tree(), itemID)
	if !ok || len(n.Tabs) < 2 {
		return nil
	}
	i := n.TabIndex(tabID)
	next := n.Tabs[((i+step)%len(n.Tabs)+len(n.Tabs))%len(n.Tabs)]
	return m.op(m.ws.SetActiveTab(itemID, next.ID))
}

func (m *Model) split(itemID string) tea.Cmd {
	scratch := m.content.NewScratch()
	pane := panel.Node{
		Kind: panel.KindItem,
		ID:   "pane-" + uuid.NewString()[:8],
		Tabs: []panel.Tab{{ID: scratch, Closeable: true}},
	}
	cmd, err := m.ws.Split(itemID, panel.Horizontal, pane, true)
	if err != nil {
		m.content.Forget(scratch)
		return m.op(nil, err)
	}
	m.focus(pane.ID)
	return cmd
}

// moveTab sends a tab to the next expanded item in visual order.
func (m *Model) moveTab(itemID, tabID string) tea.Cmd {
	var ids []string
	for _, it := range panel.Items(m.ws.Tree()) {
		if !it.Collapsed {
			ids = append(ids, it.ID)
		}
	}
	if len(ids) < 2 {
		m.setStatus("no other pane to move to")
		return nil
	}
	target := ids[0]
	for i, id := range ids {
		if id == itemID {
			target = ids[(i+1)%len(ids)]
		}
	}
	cmd, err := m.ws.MoveTab(itemID, tabID, target)
	if err == nil {
		m.focus(target)
	}
	return m.op(cmd, err)
}

// run executes main.go and brings the console output forward.
func (m *Model) run() tea.Cmd {
	m.content.Run()
	console, ok := panel.Find(m.ws.Tree(), consoleID)
	if !ok {
		m.setStatus("ran " + tabSource)
		return nil
	}
	var cmds []tea.Cmd
	if console.Collapsed {
		cmd, err := m.ws.Expand(consoleID)
		if err != nil {
			return m.op(nil, err)
		}
		cmds = append(cmds, cmd)
	}
	if console.TabIndex(tabOutput) >= 0 {
		cmd, err := m.ws.SetActiveTab(consoleID, tabOutput)
		if err != nil {
			return m.op(nil, err)
		}
		cmds = append(cmds, cmd)
	}
	m.setStatus("ran " + tabSource)
	return tea.Batch(cmds...)
}

func (m *Model) undo() tea.Cmd {
	if m.opts.Store == nil {
		m.fail(errors.New("layouts are not being saved"))
		return nil
	}
	if m.ws.Dragging() {
		m.fail(drag.ErrDragActive)
		return nil
	}
	return m.enqueue(storeJob{revert: true})
}

func (m *Model) quit() tea.Cmd {
	m.content.StopEditing()
	m.flushStore()
	if cmd := m.ws.Close(); cmd != nil {
		if changed, ok := cmd().(workspace.ChangedMsg); ok && m.opts.Store != nil {
			if err := m.opts.Store.Save(m.ctx, m.opts.LayoutName, changed.Op, changed.Tree); err != nil {
				m.log.Error("save layout on quit", "err", err)
			}
		}
	}
	return tea.Quit
}

func (m *Model) persist(msg workspace.ChangedMsg) tea.Cmd {
	if m.opts.Store == nil {
		return nil
	}
	return m.enqueue(storeJob{op: msg.Op, tree: msg.Tree})
}

func (m *Model) enqueue(job storeJob) tea.Cmd {
	m.queue = append(m.queue, job)
	return m.nextStoreCall()
}

// nextStoreCall starts the oldest queued job unless one is still running.
func (m *Model) nextStoreCall() tea.Cmd {
	if m.inflight != nil || len(m.queue) == 0 {
		return nil
	}
	job := m.queue[0]
	m.queue = m.queue[1:]
	m.inflight = m.newStoreTask(job)
	return m.inflight.do
}

func (m *Model) newStoreTask(job storeJob) *storeTask {
	store, ctx, name := m.opts.Store, m.ctx, m.opts.LayoutName
	task := &storeTask{}
	task.run = func() tea.Msg {
		if job.revert {
			t, err := store.Revert(ctx, name, 1)
			return revertedMsg{task: task, tree: t, err: err}
		}
		return savedMsg{task: task, op: job.op, err: store.Save(ctx, name, job.op, job.tree)}
	}
	return task
}

func (m *Model) finished(task *storeTask) {
	if task == m.inflight {
		m.inflight = nil
	}
}

// flushStore waits for the running store call and then runs every queued
// one in order.
func (m *Model) flushStore() {
	if m.inflight != nil {
		m.inflight.do()
		m.inflight = nil
	}
	for _, job := range m.queue {
		switch msg := m.newStoreTask(job).do().(type) {
		case savedMsg:
			if msg.err != nil {
				m.log.Error("save layout on quit", "op", msg.op, "err", msg.err)
			}
		case revertedMsg:
			if msg.err != nil {
				m.log.Error("revert layout on quit", "err", msg.err)
			}
		}
	}
	m.queue = nil
}

func (m *Model) focus(itemID string) {
	if err := m.ws.Focus(itemID); err != nil {
		m.log.Debug("focus pane", "item", itemID, "err", err)
	}
}

// op reports the error of a layout operation in the footer.
func (m *Model) op(cmd tea.Cmd, err error) tea.Cmd {
	if err != nil {
		m.fail(err)
		return nil
	}
	return cmd
}

func (m *Model) setStatus(s string) {
	m.status, m.statusErr = s, false
}

func (m *Model) fail(err error) {
	m.log.Debug("workbench action failed", "err", err)
	m.status, m.statusErr = err.Error(), true
}

func (m *Model) View() string {
	return m.ws.View() + "\n" + m.footer()
}

func (m *Model) footer() string {
	scope := scopeWorkspace
	if m.content.Editing() != "" {
		scope = scopeEditing
	}
	line := m.help.ShortHelpView(m.keys.HelpBindings(scope))
	if m.status != "" {
		style := statusStyle
		if m.statusErr {
			style = errorStyle
		}
		line = style.Render(m.status) + "  " + line
	}
	if m.width <= 0 {
		return line
	}
	line = strings.ReplaceAll(line, "\n", " ")
	if ansi.StringWidth(line) > m.width {
		line = ansi.Truncate(line, m.width, "…")
	}
	if pad := m.width - ansi.StringWidth(line); pad > 0 {
		line += strings.Repeat(" ", pad)
	}
	return line
}
