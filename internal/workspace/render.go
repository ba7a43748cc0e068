package workspace

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/x/ansi"

	"github.com/jask/tilework/internal/panel"
)

func (m *Model) render(t panel.Tree, f Frame) string {
	if f.Bounds.Empty() {
		return ""
	}
	return m.renderNode(t.Root, f, true)
}

func (m *Model) renderNode(n panel.Node, f Frame, root bool) string {
	r, _ := f.Rect(n.ID)
	if n.Collapsed && !root {
		for _, s := range f.Strips {
			if s.ID == n.ID {
				return m.renderStrip(n, s)
			}
		}
		return fit("", r.W, r.H)
	}
	if n.IsItem() {
		it, ok := f.Item(n.ID)
		if !ok {
			return fit("", r.W, r.H)
		}
		return m.renderItem(n, it)
	}

	parts := make([]string, 0, 2*len(n.Items))
	for i, c := range n.Items {
		if cr, _ := f.Rect(c.ID); !cr.Empty() {
			parts = append(parts, m.renderNode(c, f, false))
		}
		if d, ok := f.Divider(n.ID, i); ok && !d.Rect.Empty() {
			parts = append(parts, m.renderDivider(d))
		}
	}
	if len(parts) == 0 {
		return fit("", r.W, r.H)
	}
	if n.Direction == panel.Vertical {
		return lipgloss.JoinVertical(lipgloss.Left, parts...)
	}
	return lipgloss.JoinHorizontal(lipgloss.Top, parts...)
}

func (m *Model) renderItem(n panel.Node, it ItemFrame) string {
	header := m.renderHeader(n, it)
	if it.Body.Empty() {
		return header
	}
	var content string
	switch {
	case n.Empty():
		content = m.theme.Placeholder.Render("no open tabs")
	case m.cb.RenderTab != nil:
		if ctx, ok := m.renderContext(n, it.Body); ok {
			content = m.cb.RenderTab(ctx)
		}
	}
	return header + "\n" + fit(content, it.Body.W, it.Body.H)
}

func (m *Model) renderHeader(n panel.Node, it ItemFrame) string {
	if it.Header.Empty() {
		return ""
	}
	var b strings.Builder
	x := it.Header.X
	for _, box := range it.Tabs {
		idx := n.TabIndex(box.TabID)
		if idx < 0 {
			continue
		}
		style := m.theme.InactiveTab
		if box.Active {
			style = m.theme.ActiveTab
			if n.ID == m.focused {
				style = m.theme.FocusedTab
			}
		}
		b.WriteString(style.Render(fitLine(truncateTail(m.tabText(n.Tabs[idx]), box.Label.W), box.Label.W)))
		x += box.Label.W
		if !box.Close.Empty() {
			b.WriteString(m.theme.Close.Render(fitLine("×", box.Close.W)))
			x += box.Close.W
		}
	}
	end := it.Header.X + it.Header.W
	if !it.Toggle.Empty() {
		end = it.Toggle.X
	}
	if gap := end - x; gap > 0 {
		b.WriteString(m.theme.Header.Render(strings.Repeat(" ", gap)))
	}
	if !it.Toggle.Empty() {
		b.WriteString(m.theme.Toggle.Render(fitLine(" ▾", it.Toggle.W)))
	}
	return b.String()
}

// tabText is the header text of a tab, padded by one cell on each side.
func (m *Model) tabText(tab panel.Tab) string {
	label := m.label(tab.ID)
	text := label.Label
	if label.Icon != "" {
		text = label.Icon + " " + text
	}
	return " " + text + " "
}

func (m *Model) label(tabID string) TabLabel {
	if m.cb.TabLabel != nil {
		if l := m.cb.TabLabel(tabID); l.Label != "" || l.Icon != "" {
			return l
		}
	}
	return TabLabel{Label: tabID}
}

// nodeLabel names a collapsed node by its active tab, or the first one found
// below a group.
func (m *Model) nodeLabel(n panel.Node) string {
	if n.IsItem() {
		if tab, ok := n.ActiveTab(); ok {
			return m.label(tab.ID).Label
		}
		return n.ID
	}
	for _, c := range n.Items {
		if l := m.nodeLabel(c); l != "" {
			return l
		}
	}
	return n.ID
}

func (m *Model) renderStrip(n panel.Node, s StripFrame) string {
	w, h := s.Rect.W, s.Rect.H
	if w <= 0 || h <= 0 {
		return ""
	}
	label := m.nodeLabel(n)
	lines := make([]string, h)
	if s.Direction == panel.Vertical {
		lines[0] = "▸ " + label
	} else {
		lines[0] = "▸"
		for i, r := range []rune(label) {
			if i+1 >= h {
				break
			}
			lines[i+1] = string(r)
		}
	}
	for i := range lines {
		lines[i] = m.theme.Strip.Render(fitLine(truncateTail(lines[i], w), w))
	}
	return strings.Join(lines, "\n")
}

func (m *Model) handleProps(dir panel.Direction) HandleProps {
	var props HandleProps
	if m.cb.ResizeHandle != nil {
		props = m.cb.ResizeHandle(dir)
	}
	if props.Glyph == "" {
		props.Glyph = "│"
		if dir == panel.Vertical {
			props.Glyph = "─"
		}
		props.Style = m.theme.Divider
		props.ActiveStyle = m.theme.DividerActive
	}
	return props
}

func (m *Model) renderDivider(d DividerFrame) string {
	props := m.handleProps(d.Direction)
	style := props.Style
	if h, ok := m.drag.Handle(); ok && h.GroupID == d.GroupID && h.Index == d.Index {
		style = props.ActiveStyle
	}
	if d.Direction == panel.Vertical {
		return style.Render(fitLine(strings.Repeat(props.Glyph, d.Rect.W), d.Rect.W))
	}
	lines := make([]string, d.Rect.H)
	for i := range lines {
		lines[i] = style.Render(fitLine(props.Glyph, d.Rect.W))
	}
	return strings.Join(lines, "\n")
}

// fit cuts or pads s to exactly w cells by h lines.
func fit(s string, w, h int) string {
	if w <= 0 || h <= 0 {
		return ""
	}
	lines := strings.Split(s, "\n")
	if len(lines) > h {
		lines = lines[:h]
	}
	for len(lines) < h {
		lines = append(lines, "")
	}
	for i, line := range lines {
		lines[i] = fitLine(line, w)
	}
	return strings.Join(lines, "\n")
}

func fitLine(s string, w int) string {
	if ansi.StringWidth(s) > w {
		s = ansi.Truncate(s, w, "")
	}
	if pad := w - ansi.StringWidth(s); pad > 0 {
		s += strings.Repeat(" ", pad)
	}
	return s
}

func truncateTail(s string, w int) string {
	if ansi.StringWidth(s) <= w {
		return s
	}
	if w <= 1 {
		return ansi.Truncate(s, w, "")
	}
	return ansi.Truncate(s, w, "…")
}
