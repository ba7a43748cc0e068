package workbench

import (
	"strings"

	"github.com/charmbracelet/bubbles/key"
)

type Action string

type Binding struct {
	Action Action
	Keys   []string
	Help   string
	Scopes []string
}

type KeyRegistry struct {
	bindingsByScope map[string][]*Binding
	indexByScope    map[string]map[string]*Binding
}

const (
	scopeGlobal    = "global"
	scopeWorkspace = "workspace"
	scopeEditing   = "editing"
)

const (
	actionQuit          Action = "quit"
	actionFocusNext     Action = "focus_next"
	actionFocusPrev     Action = "focus_prev"
	actionNextTab       Action = "next_tab"
	actionPrevTab       Action = "prev_tab"
	actionToggleConsole Action = "toggle_console"
	actionCloseTab      Action = "close_tab"
	actionNewScratch    Action = "new_scratch"
	actionSplit         Action = "split"
	actionMoveTab       Action = "move_tab"
	actionEdit          Action = "edit"
	actionRun           Action = "run"
	actionUndo          Action = "undo"
	actionStopEditing   Action = "stop_editing"
)

func NewKeyRegistry() *KeyRegistry {
	r := &KeyRegistry{
		bindingsByScope: make(map[string][]*Binding),
		indexByScope:    make(map[string]map[string]*Binding),
	}

	reg := func(scope string, action Action, keys []string, help string) {
		r.Register(Binding{Action: action, Keys: keys, Help: help, Scopes: []string{scope}})
	}

	reg(scopeGlobal, actionQuit, []string{"ctrl+c"}, "quit")

	reg(scopeWorkspace, actionFocusNext, []string{"tab"}, "next pane")
	reg(scopeWorkspace, actionFocusPrev, []string{"shift+tab"}, "prev pane")
	reg(scopeWorkspace, actionNextTab, []string{"]", "l", "right"}, "next tab")
	reg(scopeWorkspace, actionPrevTab, []string{"[", "h", "left"}, "prev tab")
	reg(scopeWorkspace, actionEdit, []string{"e", "enter"}, "edit")
	reg(scopeWorkspace, actionRun, []string{"r"}, "run")
	reg(scopeWorkspace, actionToggleConsole, []string{"c"}, "console")
	reg(scopeWorkspace, actionNewScratch, []string{"n"}, "new tab")
	reg(scopeWorkspace, actionSplit, []string{"s"}, "split")
	reg(scopeWorkspace, actionMoveTab, []string{"m"}, "move tab")
	reg(scopeWorkspace, actionCloseTab, []string{"x"}, "close tab")
	reg(scopeWorkspace, actionUndo, []string{"u"}, "undo layout")
	reg(scopeWorkspace, actionQuit, []string{"q", "ctrl+c"}, "quit")

	reg(scopeEditing, actionStopEditing, []string{"esc"}, "done")
	reg(scopeEditing, actionQuit, []string{"ctrl+c"}, "quit")

	return r
}

func (r *KeyRegistry) Register(b Binding) {
	if r == nil {
		return
	}
	for _, scope := range b.Scopes {
		scope = strings.TrimSpace(scope)
		if scope == "" || len(b.Keys) == 0 {
			continue
		}
		if _, ok := r.indexByScope[scope]; !ok {
			r.indexByScope[scope] = make(map[string]*Binding)
		}
		normKeys := normalizeKeyList(b.Keys)
		if len(normKeys) == 0 || r.scopeHasAnyKey(scope, normKeys) {
			continue
		}

		copyBinding := b
		copyBinding.Keys = normKeys
		copyBinding.Scopes = []string{scope}
		r.bindingsByScope[scope] = append(r.bindingsByScope[scope], &copyBinding)
		for _, k := range copyBinding.Keys {
			r.indexByScope[scope][k] = &copyBinding
		}
	}
}

func (r *KeyRegistry) BindingsForScope(scope string) []Binding {
	if r == nil {
		return nil
	}
	items := r.bindingsByScope[scope]
	out := make([]Binding, 0, len(items))
	for _, b := range items {
		out = append(out, *b)
	}
	return out
}

// Lookup finds the binding for keyName in scope, falling back to the global
// scope.
func (r *KeyRegistry) Lookup(keyName, scope string) *Binding {
	if r == nil || keyName == "" {
		return nil
	}
	keyName = normalizeKeyName(keyName)
	if b := r.lookupInScope(keyName, scope); b != nil {
		return b
	}
	if scope != scopeGlobal {
		return r.lookupInScope(keyName, scopeGlobal)
	}
	return nil
}

func (r *KeyRegistry) HelpBindings(scope string) []key.Binding {
	items := r.BindingsForScope(scope)
	out := make([]key.Binding, 0, len(items))
	for _, b := range items {
		out = append(out, key.NewBinding(key.WithKeys(b.Keys...), key.WithHelp(b.Keys[0], b.Help)))
	}
	return out
}

func (r *KeyRegistry) lookupInScope(keyName, scope string) *Binding {
	lookup, ok := r.indexByScope[scope]
	if !ok {
		return nil
	}
	return lookup[keyName]
}

func (r *KeyRegistry) scopeHasAnyKey(scope string, keys []string) bool {
	lookup := r.indexByScope[scope]
	for _, k := range keys {
		if _, exists := lookup[k]; exists {
			return true
		}
	}
	return false
}

func normalizeKeyList(keys []string) []string {
	out := make([]string, 0, len(keys))
	seen := make(map[string]bool)
	for _, k := range keys {
		n := normalizeKeyName(k)
		if n == "" || seen[n] {
			continue
		}
		seen[n] = true
		out = append(out, n)
	}
	return out
}

// normalizeKeyName lowercases named keys but keeps single characters as typed
// so that "G" and "g" stay distinct.
func normalizeKeyName(k string) string {
	if k == " " {
		return "space"
	}
	trimmed := strings.TrimSpace(k)
	if len(trimmed) <= 1 {
		return trimmed
	}
	return strings.ToLower(trimmed)
}
