package panel

import (
	"errors"
	"fmt"
	"strings"

	"github.com/agnivade/levenshtein"
)

var (
	ErrNotFound         = errors.New("node not found")
	ErrNotItem          = errors.New("node is not an item")
	ErrNotGroup         = errors.New("node is not a group")
	ErrTabNotFound      = errors.New("tab not found")
	ErrNotCloseable     = errors.New("tab is not closeable")
	ErrNotCollapsible   = errors.New("node is not collapsible")
	ErrAlreadyCollapsed = errors.New("node is collapsed")
	ErrNotCollapsed     = errors.New("node is not collapsed")
	ErrLastExpanded     = errors.New("cannot collapse the last expanded child of a group")
	ErrRoot             = errors.New("not allowed on the root node")
	ErrDuplicateID      = errors.New("id already in use")
	ErrEmptyID          = errors.New("id is empty")
	ErrNotAdjacent      = errors.New("siblings are not adjacent")
	ErrBadExtent        = errors.New("group extent must be positive")
	ErrBadDelta         = errors.New("drag delta must be a finite number")
	ErrInvalidNode      = errors.New("invalid node")
)

// OpError reports a rejected operation. The tree returned alongside it is the
// unchanged input.
type OpError struct {
	Op         string
	ID         string
	Err        error
	Suggestion string
}

func (e *OpError) Error() string {
	msg := fmt.Sprintf("%s %q: %v", e.Op, e.ID, e.Err)
	if e.Suggestion != "" {
		msg += fmt.Sprintf(" (did you mean %q?)", e.Suggestion)
	}
	return msg
}

func (e *OpError) Unwrap() error { return e.Err }

func opErr(op, id string, err error) *OpError {
	return &OpError{Op: op, ID: id, Err: err}
}

func notFound(op, id string, err error, candidates []string) *OpError {
	return &OpError{Op: op, ID: id, Err: err, Suggestion: suggest(id, candidates)}
}

// suggest returns the candidate closest to id by edit distance, or "" when
// nothing is close enough to be a plausible typo.
func suggest(id string, candidates []string) string {
	if id == "" {
		return ""
	}
	best, bestDist := "", -1
	for _, c := range candidates {
		if c == id {
			continue
		}
		d := levenshtein.ComputeDistance(strings.ToLower(id), strings.ToLower(c))
		if bestDist < 0 || d < bestDist {
			best, bestDist = c, d
		}
	}
	limit := len(id) / 3
	if limit < 2 {
		limit = 2
	}
	if bestDist < 0 || bestDist > limit {
		return ""
	}
	return best
}

// Invariant names a structural rule of the tree.
type Invariant int

const (
	InvStructure Invariant = iota + 1
	InvGroupArity
	InvShareSum
	InvItemTabs
	InvActiveTab
	InvUniqueID
)

func (i Invariant) String() string {
	switch i {
	case InvStructure:
		return "structure"
	case InvGroupArity:
		return "group-arity"
	case InvShareSum:
		return "share-sum"
	case InvItemTabs:
		return "item-tabs"
	case InvActiveTab:
		return "active-tab"
	case InvUniqueID:
		return "unique-id"
	default:
		return fmt.Sprintf("invariant(%d)", int(i))
	}
}

// Violation is one broken rule at one node.
type Violation struct {
	NodeID    string
	Invariant Invariant
	Message   string
}

func (v Violation) String() string {
	return fmt.Sprintf("node %q: %s: %s", v.NodeID, v.Invariant, v.Message)
}

// ValidationError lists every violation found in a layout.
type ValidationError struct {
	Violations []Violation
}

func (e *ValidationError) Error() string {
	parts := make([]string, len(e.Violations))
	for i, v := range e.Violations {
		parts[i] = v.String()
	}
	return fmt.Sprintf("invalid layout (%d violations): %s", len(e.Violations), strings.Join(parts, "; "))
}

// Has reports whether any violation of inv was recorded for nodeID.
func (e *ValidationError) Has(nodeID string, inv Invariant) bool {
	for _, v := range e.Violations {
		if v.NodeID == nodeID && v.Invariant == inv {
			return true
		}
	}
	return false
}

type violations []Violation

func (vs *violations) add(id string, inv Invariant, format string, args ...any) {
	*vs = append(*vs, Violation{NodeID: id, Invariant: inv, Message: fmt.Sprintf(format, args...)})
}

func (vs violations) has(id string, inv Invariant) bool {
	for _, v := range vs {
		if v.NodeID == id && v.Invariant == inv {
			return true
		}
	}
	return false
}

func (vs violations) err() error {
	if len(vs) == 0 {
		return nil
	}
	return &ValidationError{Violations: vs}
}
