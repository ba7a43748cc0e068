package service

import (
	"context"
	"fmt"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/jask/tilework/internal/database"
	"github.com/jask/tilework/internal/database/repository"
	"github.com/jask/tilework/internal/panel"
)

func newLayoutService(t *testing.T) (*LayoutService, *repository.LayoutRepo) {
	t.Helper()
	db, err := database.OpenMigrated(filepath.Join(t.TempDir(), "test.db"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })
	repo := repository.NewLayoutRepo(db)
	return &LayoutService{Layouts: repo, HistoryLimit: 5}, repo
}

func sampleTree(t *testing.T) panel.Tree {
	t.Helper()
	tree, err := panel.Build(panel.NodeConfig{Type: "group", ID: "root", Direction: "horizontal", Items: []panel.NodeConfig{
		{Type: "item", ID: "left", Tabs: []panel.TabConfig{{ID: "a", Closeable: true}}},
		{Type: "item", ID: "right", Tabs: []panel.TabConfig{{ID: "b", Closeable: true}}, Collapsible: true},
	}})
	require.NoError(t, err)
	return tree
}

func TestLayoutServiceRoundTrip(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	svc, _ := newLayoutService(t)
	tree := sampleTree(t)

	got, ok, err := svc.Load(ctx, "default", tree)
	require.NoError(t, err)
	require.False(t, ok)
	require.Equal(t, tree, got)

	collapsed, err := panel.Collapse(tree, "right")
	require.NoError(t, err)
	require.NoError(t, svc.Save(ctx, "default", "collapse", collapsed))

	got, ok, err = svc.Load(ctx, "default", tree)
	require.NoError(t, err)
	require.True(t, ok)
	require.Equal(t, collapsed, got)
}

func TestLayoutServiceSkipsBrokenSnapshot(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	svc, repo := newLayoutService(t)
	tree := sampleTree(t)

	require.NoError(t, repo.Save(ctx, repository.Layout{Name: "default", Tree: []byte(`{"root":{"type":"group","id":"g"}}`)}, "manual", 0))
	got, ok, err := svc.Load(ctx, "default", tree)
	require.NoError(t, err)
	require.False(t, ok)
	require.Equal(t, tree, got)

	_, err = svc.Show(ctx, "default")
	var ve *panel.ValidationError
	require.ErrorAs(t, err, &ve)
}

func TestLayoutServiceRejectsInvalidTree(t *testing.T) {
	t.Parallel()
	svc, _ := newLayoutService(t)
	err := svc.Save(context.Background(), "default", "init", panel.Tree{})
	require.Error(t, err)
}

func TestLayoutServiceDeleteAndRevert(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	svc, _ := newLayoutService(t)
	tree := sampleTree(t)

	require.NoError(t, svc.Save(ctx, "default", "init", tree))
	closed, err := panel.CloseTab(tree, "left", "a")
	require.NoError(t, err)
	require.NoError(t, svc.Save(ctx, "default", "close tab", closed))

	back, err := svc.Revert(ctx, "default", 1)
	require.NoError(t, err)
	require.Equal(t, tree, back)

	shown, err := svc.Show(ctx, "default")
	require.NoError(t, err)
	require.Equal(t, tree, shown)

	_, err = svc.Revert(ctx, "default", 10)
	require.Error(t, err)

	require.NoError(t, svc.Delete(ctx, "default"))
	require.ErrorIs(t, svc.Delete(ctx, "default"), ErrLayoutNotFound)
	_, err = svc.Show(ctx, "default")
	require.ErrorIs(t, err, ErrLayoutNotFound)
}

func TestLayoutServiceRevertWalksBack(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	svc, _ := newLayoutService(t)

	t0 := sampleTree(t)
	t1, _, err := panel.ApplyResize(t0, "root", 0, 10, 100, 0)
	require.NoError(t, err)
	t2, err := panel.Collapse(t1, "right")
	require.NoError(t, err)
	for i, tree := range []panel.Tree{t0, t1, t2} {
		require.NoError(t, svc.Save(ctx, "default", fmt.Sprintf("op%d", i), tree))
	}

	back, err := svc.Revert(ctx, "default", 1)
	require.NoError(t, err)
	require.Equal(t, t1, back)

	back, err = svc.Revert(ctx, "default", 1)
	require.NoError(t, err)
	require.Equal(t, t0, back)

	shown, err := svc.Show(ctx, "default")
	require.NoError(t, err)
	require.Equal(t, t0, shown)

	_, err = svc.Revert(ctx, "default", 1)
	require.Error(t, err)

	// a new change after reverting is undone back to the reverted state
	require.NoError(t, svc.Save(ctx, "default", "collapse", t2))
	back, err = svc.Revert(ctx, "default", 1)
	require.NoError(t, err)
	require.Equal(t, t0, back)
}

func TestLayoutServiceRevertUnknown(t *testing.T) {
	t.Parallel()
	svc, _ := newLayoutService(t)
	_, err := svc.Revert(context.Background(), "nobody", 1)
	require.ErrorIs(t, err, ErrLayoutNotFound)
}
