package objectstore

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"snow/pkg/model"
)

func TestJournal_RecordAndHistory(t *testing.T) {
	ctx := context.Background()
	j, err := OpenJournal(ctx, JournalConfig{Driver: "sqlite", DSN: filepath.Join(t.TempDir(), "journal.db")})
	require.NoError(t, err)
	defer j.Close()

	older, err := model.NewCommit("first", time.Now().Add(-time.Hour).UTC(), model.TreeDir{}, nil, nil, nil)
	require.NoError(t, err)
	newer, err := model.NewCommit("second", time.Now().UTC(), model.TreeDir{}, []string{older.Hash}, nil, nil)
	require.NoError(t, err)

	require.NoError(t, j.RecordCommit(older))
	require.NoError(t, j.RecordCommit(newer))

	history, err := j.History(0)
	require.NoError(t, err)
	require.Len(t, history, 2)
	require.Equal(t, newer.Hash, history[0].Hash)
	require.Equal(t, older.Hash, history[1].Hash)

	limited, err := j.History(1)
	require.NoError(t, err)
	require.Len(t, limited, 1)
}

func TestJournal_ReferenceLifecycle(t *testing.T) {
	ctx := context.Background()
	j, err := OpenJournal(ctx, JournalConfig{Driver: "sqlite", DSN: filepath.Join(t.TempDir(), "journal.db")})
	require.NoError(t, err)
	defer j.Close()

	require.NoError(t, j.RecordReference(model.Reference{Name: "main", Hash: "abc"}))
	require.NoError(t, j.RemoveReference("main"))
}
