package workbench

import (
	"bytes"
	"fmt"
	"strings"

	"github.com/alecthomas/chroma/v2/quick"
	"github.com/charmbracelet/bubbles/textarea"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/glamour"
	"github.com/charmbracelet/lipgloss"
	"github.com/google/uuid"

	"github.com/jask/tilework/internal/workspace"
)

const scratchPrefix = "scratch-"

// TestCase is one example shown in the tests tab.
type TestCase struct {
	Name  string
	Input string
	Want  string
}

// Problem is what the candidate works on.
type Problem struct {
	Title       string
	Description string
	Hints       string
	Starter     string
	Tests       []TestCase
}

// SampleProblem is shown when no other problem is configured.
func SampleProblem() Problem {
	return Problem{
		Title: "Two Sum",
		Description: "# Two Sum\n\n" +
			"Given a slice of integers `nums` and an integer `target`, return the " +
			"indices of the two numbers that add up to `target`.\n\n" +
			"Each input has exactly one solution and the same element may not be used twice.\n\n" +
			"## Constraints\n\n" +
			"- `2 <= len(nums) <= 10^4`\n" +
			"- `-10^9 <= nums[i] <= 10^9`\n",
		Hints: "## Hints\n\n" +
			"1. A brute force pass over every pair is O(n²).\n" +
			"2. Remember what you have seen: a map from value to index answers the question in one pass.\n",
		Starter: "package main\n\n" +
			"func twoSum(nums []int, target int) []int {\n" +
			"\tseen := make(map[int]int, len(nums))\n" +
			"\tfor i, n := range nums {\n" +
			"\t\tif j, ok := seen[target-n]; ok {\n" +
			"\t\t\treturn []int{j, i}\n" +
			"\t\t}\n" +
			"\t\tseen[n] = i\n" +
			"\t}\n" +
			"\treturn nil\n" +
			"}\n\n" +
			"func main() {}\n",
		Tests: []TestCase{
			{Name: "example 1", Input: "[2 7 11 15], 9", Want: "[0 1]"},
			{Name: "example 2", Input: "[3 2 4], 6", Want: "[1 2]"},
			{Name: "duplicates", Input: "[3 3], 6", Want: "[0 1]"},
		},
	}
}

var (
	labelStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("#a6adc8"))
	passStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("#a6e3a1"))
	consoleStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#cdd6f4"))
)

// Content owns the state behind every tab and renders it for the workspace.
type Content struct {
	problem       Problem
	markdownStyle string
	codeStyle     string

	editors  map[string]*textarea.Model
	console  viewport.Model
	lines    []string
	editing  string
	runs     int
	rendered map[string]string
}

func NewContent(p Problem, markdownStyle string) *Content {
	if markdownStyle == "" {
		markdownStyle = "dark"
	}
	c := &Content{
		problem:       p,
		markdownStyle: markdownStyle,
		codeStyle:     "catppuccin-mocha",
		editors:       make(map[string]*textarea.Model),
		console:       viewport.New(0, 0),
		rendered:      make(map[string]string),
	}
	c.editors[tabSource] = newEditor(p.Starter, "")
	c.editors[tabNotes] = newEditor("", "notes for the interviewer")
	c.appendConsole("ready. press r to run " + tabSource)
	return c
}

func newEditor(value, placeholder string) *textarea.Model {
	ta := textarea.New()
	ta.ShowLineNumbers = true
	ta.Placeholder = placeholder
	ta.CharLimit = 0
	ta.SetValue(value)
	ta.Blur()
	return &ta
}

// TabLabel names the tabs of the coding workspace.
func (c *Content) TabLabel(id string) workspace.TabLabel {
	switch id {
	case tabDescription:
		return workspace.TabLabel{Icon: "≡", Label: c.problem.Title}
	case tabHints:
		return workspace.TabLabel{Icon: "?", Label: "Hints"}
	case tabSource:
		return workspace.TabLabel{Icon: "λ", Label: tabSource}
	case tabSolution:
		return workspace.TabLabel{Icon: "◆", Label: "Preview"}
	case tabOutput:
		return workspace.TabLabel{Icon: "▶", Label: "Output"}
	case tabTests:
		return workspace.TabLabel{Icon: "✓", Label: "Tests"}
	case tabNotes:
		return workspace.TabLabel{Icon: "✎", Label: "Notes"}
	}
	if strings.HasPrefix(id, scratchPrefix) {
		return workspace.TabLabel{Icon: "✎", Label: "scratch " + strings.TrimPrefix(id, scratchPrefix)}
	}
	return workspace.TabLabel{}
}

// Render draws the body of one tab.
func (c *Content) Render(ctx workspace.RenderContext) string {
	switch ctx.Tab.ID {
	case tabDescription:
		return c.markdown(ctx.Tab.ID, c.problem.Description, ctx.Width)
	case tabHints:
		return c.markdown(ctx.Tab.ID, c.problem.Hints, ctx.Width)
	case tabSolution:
		return c.highlight(c.Source())
	case tabOutput:
		c.console.Width = ctx.Width
		c.console.Height = ctx.Height
		c.console.SetYOffset(c.console.YOffset)
		return c.console.View()
	case tabTests:
		return c.testList()
	}
	if ed, ok := c.editors[ctx.Tab.ID]; ok {
		ed.SetWidth(ctx.Width)
		ed.SetHeight(ctx.Height)
		return ed.View()
	}
	return labelStyle.Render("nothing to show for " + ctx.Tab.ID)
}

// Mouse handles pointer input inside a tab body. Wheel events scroll the
// console; a click in an editor starts editing it.
func (c *Content) Mouse(ctx workspace.RenderContext, msg tea.MouseMsg) tea.Cmd {
	switch {
	case ctx.Tab.ID == tabOutput:
		var cmd tea.Cmd
		c.console, cmd = c.console.Update(msg)
		return cmd
	case c.Editable(ctx.Tab.ID) && msg.Action == tea.MouseActionPress && msg.Button == tea.MouseButtonLeft:
		itemID, tabID := ctx.ItemID, ctx.Tab.ID
		return func() tea.Msg { return editMsg{itemID: itemID, tabID: tabID} }
	}
	return nil
}

func (c *Content) Editable(tabID string) bool {
	_, ok := c.editors[tabID]
	return ok
}

// Editing returns the tab being edited, or "".
func (c *Content) Editing() string { return c.editing }

// StartEditing gives keyboard focus to the editor behind tabID.
func (c *Content) StartEditing(tabID string) (tea.Cmd, bool) {
	ed, ok := c.editors[tabID]
	if !ok {
		return nil, false
	}
	c.StopEditing()
	c.editing = tabID
	return ed.Focus(), true
}

func (c *Content) StopEditing() {
	if ed, ok := c.editors[c.editing]; ok {
		ed.Blur()
	}
	c.editing = ""
}

// UpdateEditor forwards msg to the editor being edited.
func (c *Content) UpdateEditor(msg tea.Msg) tea.Cmd {
	ed, ok := c.editors[c.editing]
	if !ok {
		return nil
	}
	next, cmd := ed.Update(msg)
	*ed = next
	return cmd
}

// Source is the current text of main.go.
func (c *Content) Source() string {
	if ed, ok := c.editors[tabSource]; ok {
		return ed.Value()
	}
	return ""
}

func (c *Content) Notes() string {
	if ed, ok := c.editors[tabNotes]; ok {
		return ed.Value()
	}
	return ""
}

// NewScratch creates an empty editor and returns its tab id.
func (c *Content) NewScratch() string {
	id := scratchPrefix + uuid.NewString()[:8]
	c.editors[id] = newEditor("", "scratch")
	return id
}

// Forget drops the state of a scratch tab that was closed.
func (c *Content) Forget(tabID string) {
	if !strings.HasPrefix(tabID, scratchPrefix) {
		return
	}
	if c.editing == tabID {
		c.StopEditing()
	}
	delete(c.editors, tabID)
}

// Run records a run of main.go in the console.
func (c *Content) Run() {
	c.runs++
	src := c.Source()
	lines := strings.Count(src, "\n")
	if src != "" && !strings.HasSuffix(src, "\n") {
		lines++
	}
	c.appendConsole(fmt.Sprintf("$ go run %s  (run %d)", tabSource, c.runs))
	c.appendConsole(fmt.Sprintf("%d lines, %d bytes", lines, len(src)))
	c.appendConsole("exit status 0")
}

// Console returns the console text.
func (c *Content) Console() string { return strings.Join(c.lines, "\n") }

func (c *Content) appendConsole(line string) {
	c.lines = append(c.lines, consoleStyle.Render(line))
	c.console.SetContent(strings.Join(c.lines, "\n"))
	c.console.GotoBottom()
}

func (c *Content) testList() string {
	var b strings.Builder
	for i, tc := range c.problem.Tests {
		if i > 0 {
			b.WriteString("\n")
		}
		mark := labelStyle.Render("○")
		if c.runs > 0 {
			mark = passStyle.Render("●")
		}
		fmt.Fprintf(&b, "%s %s  %s → %s", mark, tc.Name, tc.Input, tc.Want)
	}
	return b.String()
}

// markdown renders md wrapped at width, caching by tab and width.
func (c *Content) markdown(tabID, md string, width int) string {
	if width <= 0 {
		return ""
	}
	key := fmt.Sprintf("%s@%d", tabID, width)
	if out, ok := c.rendered[key]; ok {
		return out
	}
	r, err := glamour.NewTermRenderer(
		glamour.WithStylePath(c.markdownStyle),
		glamour.WithWordWrap(width),
	)
	if err != nil {
		return md
	}
	out, err := r.Render(md)
	if err != nil {
		return md
	}
	out = strings.Trim(out, "\n")
	c.rendered[key] = out
	return out
}

func (c *Content) highlight(src string) string {
	var buf bytes.Buffer
	if err := quick.Highlight(&buf, src, "go", "terminal256", c.codeStyle); err != nil {
		return src
	}
	return buf.String()
}
