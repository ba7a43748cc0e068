package panel

import "errors"

// NodeConfig is the declarative form of a layout, as written by hosts and
// layout files.
type NodeConfig struct {
	Type        string       `json:"type" yaml:"type" toml:"type"`
	ID          string       `json:"id" yaml:"id" toml:"id"`
	Direction   string       `json:"direction,omitempty" yaml:"direction,omitempty" toml:"direction,omitempty"`
	Items       []NodeConfig `json:"items,omitempty" yaml:"items,omitempty" toml:"items,omitempty"`
	Tabs        []TabConfig  `json:"tabs,omitempty" yaml:"tabs,omitempty" toml:"tabs,omitempty"`
	ActiveTabID string       `json:"activeTabId,omitempty" yaml:"activeTabId,omitempty" toml:"activeTabId,omitempty"`
	Collapsible bool         `json:"collapsible,omitempty" yaml:"collapsible,omitempty" toml:"collapsible,omitempty"`
	Collapsed   bool         `json:"collapsed,omitempty" yaml:"collapsed,omitempty" toml:"collapsed,omitempty"`
	DefaultSize *float64     `json:"defaultSize,omitempty" yaml:"defaultSize,omitempty" toml:"defaultSize,omitempty"`
	MinSize     float64      `json:"minSize,omitempty" yaml:"minSize,omitempty" toml:"minSize,omitempty"`
}

type TabConfig struct {
	ID        string `json:"id" yaml:"id" toml:"id"`
	Closeable bool   `json:"closeable" yaml:"closeable" toml:"closeable"`
}

// Build turns a configuration into a tree. Shares are normalized to Total,
// nodes configured as collapsed hand their share to their siblings, and any
// malformed input is rejected with a *ValidationError naming every offending
// node. Build never repairs a broken configuration.
func Build(cfg NodeConfig) (Tree, error) {
	var vs violations
	root := convert(cfg, &vs)
	root.Size = Total
	root.Collapsed = false
	t := Tree{Root: root}
	var ve *ValidationError
	if err := Validate(t); errors.As(err, &ve) {
		for _, v := range ve.Violations {
			if !vs.has(v.NodeID, v.Invariant) {
				vs = append(vs, v)
			}
		}
	}
	if err := vs.err(); err != nil {
		return Tree{}, err
	}
	return t, nil
}

// Config converts a tree back into its declarative form. Collapsed nodes
// report the share they will expand back to.
func Config(t Tree) NodeConfig {
	return toConfig(&t.Root)
}

func toConfig(n *Node) NodeConfig {
	return toConfigScaled(n, 1)
}

// toConfigScaled emits n with its share multiplied by scale. Expanded
// children of a group with collapsed members are scaled down so that Build
// hands the collapsed shares back to them and restores the same tree.
func toConfigScaled(n *Node, scale float64) NodeConfig {
	size := n.Size * scale
	if n.Collapsed {
		size = n.RestoreSize
	}
	cfg := NodeConfig{
		Type:        string(n.Kind),
		ID:          n.ID,
		Collapsible: n.Collapsible,
		Collapsed:   n.Collapsed,
		DefaultSize: &size,
		MinSize:     n.MinSize,
	}
	switch n.Kind {
	case KindGroup:
		cfg.Direction = string(n.Direction)
		var restored float64
		for _, c := range n.Items {
			if c.Collapsed {
				restored += c.RestoreSize
			}
		}
		childScale := 1.0
		if restored > 0 && restored < Total {
			childScale = (Total - restored) / Total
		}
		for i := range n.Items {
			cfg.Items = append(cfg.Items, toConfigScaled(&n.Items[i], childScale))
		}
	case KindItem:
		cfg.ActiveTabID = n.ActiveTabID
		for _, tab := range n.Tabs {
			cfg.Tabs = append(cfg.Tabs, TabConfig(tab))
		}
	}
	return cfg
}

func convert(cfg NodeConfig, vs *violations) Node {
	n := Node{
		Kind:        Kind(cfg.Type),
		ID:          cfg.ID,
		Collapsible: cfg.Collapsible,
		Collapsed:   cfg.Collapsible && cfg.Collapsed,
		MinSize:     cfg.MinSize,
	}
	if cfg.MinSize < 0 || cfg.MinSize > Total {
		vs.add(cfg.ID, InvShareSum, "minSize %v outside [0, %.0f]", cfg.MinSize, Total)
	}
	switch n.Kind {
	case KindGroup:
		n.Direction = Direction(cfg.Direction)
		if len(cfg.Tabs) > 0 {
			vs.add(cfg.ID, InvStructure, "group must not carry tabs")
		}
		if len(cfg.Items) < 2 {
			vs.add(cfg.ID, InvGroupArity, "group has %d children, needs at least 2", len(cfg.Items))
		}
		n.Items = make([]Node, len(cfg.Items))
		for i, child := range cfg.Items {
			n.Items[i] = convert(child, vs)
		}
		applyDefaultSizes(&n, cfg.Items, vs)
	case KindItem:
		if len(cfg.Items) > 0 {
			vs.add(cfg.ID, InvStructure, "item must not contain child nodes")
		}
		if len(cfg.Tabs) == 0 {
			vs.add(cfg.ID, InvItemTabs, "item has no tabs")
		}
		for _, tab := range cfg.Tabs {
			n.Tabs = append(n.Tabs, Tab(tab))
		}
		n.ActiveTabID = cfg.ActiveTabID
		if n.ActiveTabID == "" && len(n.Tabs) > 0 {
			n.ActiveTabID = n.Tabs[0].ID
		}
	default:
		vs.add(cfg.ID, InvStructure, "unknown node type %q", cfg.Type)
	}
	return n
}

// applyDefaultSizes turns configured default sizes into normalized shares.
// Children without a default get the mean of the configured ones, or an
// equal split when none is configured.
func applyDefaultSizes(g *Node, items []NodeConfig, vs *violations) {
	var given float64
	count := 0
	for _, c := range items {
		if c.DefaultSize == nil {
			continue
		}
		if *c.DefaultSize < 0 {
			vs.add(c.ID, InvShareSum, "defaultSize %v is negative", *c.DefaultSize)
			continue
		}
		given += *c.DefaultSize
		count++
	}
	fallback := 1.0
	if count > 0 && given > 0 {
		fallback = given / float64(count)
	}
	for i, c := range items {
		switch {
		case c.DefaultSize != nil && *c.DefaultSize >= 0:
			g.Items[i].Size = *c.DefaultSize
		default:
			g.Items[i].Size = fallback
		}
	}
	collapsed := make([]bool, len(g.Items))
	for i := range g.Items {
		collapsed[i] = g.Items[i].Collapsed
		g.Items[i].Collapsed = false
	}
	normalize(g, -1)

	var freed, kept float64
	for i := range g.Items {
		if collapsed[i] {
			freed += g.Items[i].Size
		} else {
			kept += g.Items[i].Size
		}
	}
	if freed == 0 {
		for i := range g.Items {
			g.Items[i].Collapsed = collapsed[i]
		}
		return
	}
	if kept <= 0 {
		// every child collapsed: Validate reports it on the group
		for i := range g.Items {
			g.Items[i].Collapsed = collapsed[i]
		}
		return
	}
	for i := range g.Items {
		c := &g.Items[i]
		if collapsed[i] {
			c.Collapsed = true
			c.RestoreSize = c.Size
			c.Size = 0
			continue
		}
		c.Size += freed * c.Size / kept
	}
	normalize(g, -1)
}
