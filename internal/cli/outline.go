package cli

import (
	"fmt"
	"strings"

	"github.com/jask/tilework/internal/panel"
)

// outline draws the tree one node per line:
//
//	root  horizontal
//	├─ problem  40%  [description* hints]
//	└─ right  vertical  60%
func outline(t panel.Tree) string {
	var b strings.Builder
	b.WriteString(describe(t.Root, true) + "\n")
	writeChildren(&b, t.Root, "")
	return b.String()
}

func writeChildren(b *strings.Builder, n panel.Node, prefix string) {
	for i, c := range n.Items {
		branch, next := "├─ ", "│  "
		if i == len(n.Items)-1 {
			branch, next = "└─ ", "   "
		}
		b.WriteString(prefix + branch + describe(c, false) + "\n")
		writeChildren(b, c, prefix+next)
	}
}

func describe(n panel.Node, root bool) string {
	parts := []string{n.ID}
	if n.IsGroup() {
		parts = append(parts, string(n.Direction))
	}
	if !root {
		if n.Collapsed {
			parts = append(parts, fmt.Sprintf("collapsed (%.0f%%)", n.RestoreSize))
		} else {
			parts = append(parts, fmt.Sprintf("%.0f%%", n.Size))
		}
	}
	if n.IsItem() {
		if len(n.Tabs) == 0 {
			parts = append(parts, "(empty)")
		} else {
			tabs := make([]string, len(n.Tabs))
			for i, tab := range n.Tabs {
				tabs[i] = tab.ID
				if tab.ID == n.ActiveTabID {
					tabs[i] += "*"
				}
			}
			parts = append(parts, "["+strings.Join(tabs, " ")+"]")
		}
	}
	return strings.Join(parts, "  ")
}
