package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"

	"github.com/jask/tilework/internal/database/repository"
	"github.com/jask/tilework/internal/panel"
)

var ErrLayoutNotFound = errors.New("layout not found")

// DefaultHistoryLimit is how many revisions of a layout are kept.
const DefaultHistoryLimit = 20

// LayoutService persists panel trees under a name.
type LayoutService struct {
	Layouts      *repository.LayoutRepo
	HistoryLimit int
	Logger       *slog.Logger
}

func (s *LayoutService) log() *slog.Logger {
	if s.Logger == nil {
		return slog.New(slog.DiscardHandler)
	}
	return s.Logger
}

// Load returns the stored layout called name. When nothing usable is stored
// it returns fallback and reports false; a stored tree that no longer
// validates is logged and skipped rather than failing startup.
func (s *LayoutService) Load(ctx context.Context, name string, fallback panel.Tree) (panel.Tree, bool, error) {
	if s.Layouts == nil {
		return fallback, false, fmt.Errorf("layouts: repository not configured")
	}
	row, err := s.Layouts.Get(ctx, name)
	if err != nil {
		return fallback, false, fmt.Errorf("load layout %q: %w", name, err)
	}
	if row == nil {
		return fallback, false, nil
	}
	tree, err := decodeTree(row.Tree)
	if err != nil {
		s.log().Warn("stored layout ignored", "name", name, "err", err)
		return fallback, false, nil
	}
	return tree, true, nil
}

// Show returns the stored layout called name.
func (s *LayoutService) Show(ctx context.Context, name string) (panel.Tree, error) {
	row, err := s.Layouts.Get(ctx, name)
	if err != nil {
		return panel.Tree{}, fmt.Errorf("load layout %q: %w", name, err)
	}
	if row == nil {
		return panel.Tree{}, fmt.Errorf("%w: %q", ErrLayoutNotFound, name)
	}
	return decodeTree(row.Tree)
}

// Save stores t as the layout called name. op names the change that
// produced t and is kept in the layout's history.
func (s *LayoutService) Save(ctx context.Context, name, op string, t panel.Tree) error {
	data, err := s.encode(name, t)
	if err != nil {
		return err
	}
	if err := s.Layouts.Save(ctx, repository.Layout{Name: name, Tree: data}, op, s.historyLimit()); err != nil {
		return fmt.Errorf("save layout %q: %w", name, err)
	}
	s.log().Debug("layout saved", "name", name, "op", op)
	return nil
}

func (s *LayoutService) encode(name string, t panel.Tree) ([]byte, error) {
	if s.Layouts == nil {
		return nil, fmt.Errorf("layouts: repository not configured")
	}
	if err := panel.Validate(t); err != nil {
		return nil, fmt.Errorf("save layout %q: %w", name, err)
	}
	data, err := json.Marshal(t)
	if err != nil {
		return nil, fmt.Errorf("encode layout %q: %w", name, err)
	}
	return data, nil
}

func (s *LayoutService) historyLimit() int {
	if s.HistoryLimit == 0 {
		return DefaultHistoryLimit
	}
	return s.HistoryLimit
}

func (s *LayoutService) List(ctx context.Context) ([]repository.Layout, error) {
	return s.Layouts.List(ctx)
}

func (s *LayoutService) Delete(ctx context.Context, name string) error {
	removed, err := s.Layouts.Delete(ctx, name)
	if err != nil {
		return fmt.Errorf("delete layout %q: %w", name, err)
	}
	if !removed {
		return fmt.Errorf("%w: %q", ErrLayoutNotFound, name)
	}
	return nil
}

// History returns up to limit stored revisions of name, newest first.
func (s *LayoutService) History(ctx context.Context, name string, limit int) ([]repository.LayoutRevision, error) {
	revs, err := s.Layouts.History(ctx, name, limit)
	if err != nil {
		return nil, fmt.Errorf("layout history %q: %w", name, err)
	}
	return revs, nil
}

// Revert goes steps saves back from the current state and stores that
// revision as the current layout. Reverts are not counted as saves: after a
// revert, the next one continues from the revision it restored, so repeated
// single-step reverts walk further back instead of undoing each other.
func (s *LayoutService) Revert(ctx context.Context, name string, steps int) (panel.Tree, error) {
	if steps < 1 {
		return panel.Tree{}, fmt.Errorf("revert layout %q: steps must be positive", name)
	}
	revs, err := s.Layouts.History(ctx, name, 0)
	if err != nil {
		return panel.Tree{}, fmt.Errorf("revert layout %q: %w", name, err)
	}
	if len(revs) == 0 {
		return panel.Tree{}, fmt.Errorf("%w: %q", ErrLayoutNotFound, name)
	}
	pos, ok := resolveRevision(revs, 0)
	if !ok || pos+steps >= len(revs) {
		return panel.Tree{}, fmt.Errorf("revert layout %q: no revision %d saves back is stored", name, steps)
	}
	target, _ := resolveRevision(revs, pos+steps)
	tree, err := decodeTree(revs[target].Tree)
	if err != nil {
		return panel.Tree{}, err
	}
	data, err := s.encode(name, tree)
	if err != nil {
		return panel.Tree{}, err
	}
	restored := repository.Layout{Name: name, Tree: data}
	if err := s.Layouts.Restore(ctx, restored, revs[target].ID, s.historyLimit()); err != nil {
		return panel.Tree{}, fmt.Errorf("revert layout %q: %w", name, err)
	}
	s.log().Debug("layout reverted", "name", name, "steps", steps, "revision", revs[target].ID)
	return tree, nil
}

// resolveRevision follows revert revisions from revs[i] to the revision they
// restored. revs is ordered newest first. It reports false when a restored
// revision has already been pruned.
func resolveRevision(revs []repository.LayoutRevision, i int) (int, bool) {
	index := make(map[string]int, len(revs))
	for j, rev := range revs {
		index[rev.ID] = j
	}
	for revs[i].Restores != "" {
		j, ok := index[revs[i].Restores]
		if !ok || j <= i {
			return i, false
		}
		i = j
	}
	return i, true
}

func decodeTree(data []byte) (panel.Tree, error) {
	var t panel.Tree
	if err := json.Unmarshal(data, &t); err != nil {
		return panel.Tree{}, fmt.Errorf("decode layout: %w", err)
	}
	if err := panel.Validate(t); err != nil {
		return panel.Tree{}, err
	}
	return t, nil
}
