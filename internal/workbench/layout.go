// Package workbench is the interview coding workspace: a problem statement,
// an editor with a highlighted preview and a collapsible console, hosted in a
// controlled workspace whose every change is saved as a named layout.
package workbench

import "github.com/jask/tilework/internal/panel"

// Tab ids of the coding workspace.
const (
	tabDescription = "description"
	tabHints       = "hints"
	tabSource      = "main.go"
	tabSolution    = "solution"
	tabOutput      = "output"
	tabTests       = "tests"
	tabNotes       = "notes"
)

const (
	problemID = "problem"
	editorID  = "editor"
	consoleID = "console"
)

func tab(id string, closeable bool) panel.TabConfig {
	return panel.TabConfig{ID: id, Closeable: closeable}
}

func share(v float64) *float64 { return &v }

// DefaultLayout is the problem pane on the left and the editor above a
// collapsible console on the right.
func DefaultLayout() panel.NodeConfig {
	return panel.NodeConfig{
		Type:      "group",
		ID:        "root",
		Direction: string(panel.Horizontal),
		Items: []panel.NodeConfig{
			{
				Type:        "item",
				ID:          problemID,
				DefaultSize: share(40),
				MinSize:     15,
				Tabs:        []panel.TabConfig{tab(tabDescription, false), tab(tabHints, true)},
			},
			{
				Type:        "group",
				ID:          "right",
				Direction:   string(panel.Vertical),
				DefaultSize: share(60),
				Items: []panel.NodeConfig{
					{
						Type:        "item",
						ID:          editorID,
						DefaultSize: share(70),
						Tabs:        []panel.TabConfig{tab(tabSource, false), tab(tabSolution, true)},
					},
					{
						Type:        "item",
						ID:          consoleID,
						DefaultSize: share(30),
						Collapsible: true,
						Tabs:        []panel.TabConfig{tab(tabOutput, false), tab(tabTests, true), tab(tabNotes, true)},
					},
				},
			},
		},
	}
}

// DefaultTree builds DefaultLayout.
func DefaultTree() (panel.Tree, error) {
	return panel.Build(DefaultLayout())
}
