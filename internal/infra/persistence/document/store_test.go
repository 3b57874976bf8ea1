package document

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/sebdah/goldie/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"neonpm/internal/infra/persistence/memory"
	"neonpm/internal/kv"
	"neonpm/pkg/domain"
)

var fixedNow = time.Date(2024, 3, 1, 9, 0, 0, 0, time.UTC)

type recordingLogger struct{ warnings []string }

func (l *recordingLogger) Warn(msg string, _ ...any) { l.warnings = append(l.warnings, msg) }

func testOptions() Options {
	return Options{Memory: []memory.Option{
		memory.WithClock(func() time.Time { return fixedNow }),
		memory.WithIDGenerator(memory.SequentialIDs("id")),
	}}
}

func TestOpenWithoutDocumentLoadsSeed(t *testing.T) {
	ctx := context.Background()
	backend := kv.NewMemory()
	store, err := Open(ctx, backend, testOptions())
	require.NoError(t, err)

	state := store.ExportState()
	assert.Len(t, state.Projects, 5)
	assert.Len(t, state.Tasks, 6)
	assert.Len(t, state.Meetings, 2)
	assert.Len(t, state.ChatMessages, 3)
	assert.Len(t, state.Users, 5)
	assert.Empty(t, state.Conversations)

	_, err = backend.Load(ctx, DefaultKey)
	assert.ErrorIs(t, err, kv.ErrNotFound, "opening must not write the seed")
}

func TestCommittedTransactionIsPersisted(t *testing.T) {
	ctx := context.Background()
	backend := kv.NewMemory()
	store, err := Open(ctx, backend, testOptions())
	require.NoError(t, err)

	_, err = store.RunInTransaction(ctx, func(tx domain.Transaction) error {
		_, err := tx.CreateProject(domain.Project{Name: "Persisted"})
		return err
	})
	require.NoError(t, err)

	reopened, err := Open(ctx, backend, testOptions())
	require.NoError(t, err)
	state := reopened.ExportState()
	require.Len(t, state.Projects, 6)
	assert.Equal(t, "Persisted", state.Projects[5].Name)
	require.Len(t, state.Notifications, 1)
	assert.Equal(t, "New Project", state.Notifications[0].Title)
}

func TestFailedTransactionIsNotPersisted(t *testing.T) {
	ctx := context.Background()
	backend := kv.NewMemory()
	store, err := Open(ctx, backend, testOptions())
	require.NoError(t, err)

	_, err = store.RunInTransaction(ctx, func(tx domain.Transaction) error {
		return tx.DeleteTask("missing")
	})
	require.ErrorIs(t, err, domain.ErrNotFound)
	_, err = backend.Load(ctx, DefaultKey)
	assert.ErrorIs(t, err, kv.ErrNotFound)
}

func TestCorruptDocumentFallsBackToSeedAndBacksUp(t *testing.T) {
	ctx := context.Background()
	backend := kv.NewMemory()
	require.NoError(t, backend.Save(ctx, DefaultKey, []byte("{not json")))
	logger := &recordingLogger{}
	opts := testOptions()
	opts.Logger = logger

	store, err := Open(ctx, backend, opts)
	require.NoError(t, err)
	assert.Len(t, store.ExportState().Projects, 5)
	assert.Len(t, logger.warnings, 1)

	backup, err := backend.Load(ctx, DefaultKey+CorruptSuffix)
	require.NoError(t, err)
	assert.Equal(t, "{not json", string(backup))
}

func TestStrictLoadRejectsCorruptDocument(t *testing.T) {
	ctx := context.Background()
	backend := kv.NewMemory()
	require.NoError(t, backend.Save(ctx, DefaultKey, []byte(`{"version":99,"state":{}}`)))
	opts := testOptions()
	opts.StrictLoad = true
	_, err := Open(ctx, backend, opts)
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrCorruptDocument))
}

func TestDecodeAcceptsLegacyShapes(t *testing.T) {
	cases := map[string]string{
		"envelope": `{"version":1,"state":{"projects":[{"id":"p1","name":"A"}]}}`,
		"zustand":  `{"state":{"projects":[{"id":"p1","name":"A"}]},"version":0}`,
		"bare":     `{"projects":[{"id":"p1","name":"A"}]}`,
	}
	seed := domain.SeedState()
	for name, raw := range cases {
		t.Run(name, func(t *testing.T) {
			state, err := DecodeOnto(domain.SeedState(), []byte(raw))
			require.NoError(t, err)
			require.Len(t, state.Projects, 1)
			assert.Equal(t, "A", state.Projects[0].Name)
			assert.NotNil(t, state.Projects[0].Team)
			assert.Equal(t, seed.Tasks, state.Tasks, "fields the document omits keep their base value")
			assert.Equal(t, seed.Users, state.Users)

			bare, err := Decode([]byte(raw))
			require.NoError(t, err)
			assert.Len(t, bare.Projects, 1)
			assert.NotNil(t, bare.Tasks)
			assert.Empty(t, bare.Tasks)
		})
	}
	_, err := Decode([]byte(`[1,2,3]`))
	assert.Error(t, err)
	_, err = Decode([]byte(`{"projects":"nope"}`))
	assert.Error(t, err)
}

func TestOpenOverlaysPartialDocumentOnSeed(t *testing.T) {
	ctx := context.Background()
	backend := kv.NewMemory()
	raw := `{"state":{"projects":[{"id":"x","name":"only"}],"activeConversationId":"c9"},"version":0}`
	require.NoError(t, backend.Save(ctx, DefaultKey, []byte(raw)))

	store, err := Open(ctx, backend, testOptions())
	require.NoError(t, err)
	state := store.ExportState()
	require.Len(t, state.Projects, 1)
	assert.Equal(t, "only", state.Projects[0].Name)
	assert.Equal(t, "c9", state.ActiveConversationID)
	assert.Len(t, state.Tasks, 6)
	assert.Len(t, state.Meetings, 2)
	assert.Len(t, state.ChatMessages, 3)
	assert.Len(t, state.Users, 5)
}

func TestOpenNullDocumentLoadsSeed(t *testing.T) {
	ctx := context.Background()
	for _, raw := range []string{`null`, `{"state":null,"version":0}`} {
		backend := kv.NewMemory()
		require.NoError(t, backend.Save(ctx, DefaultKey, []byte(raw)))
		logger := &recordingLogger{}
		opts := testOptions()
		opts.Logger = logger

		store, err := Open(ctx, backend, opts)
		require.NoError(t, err, raw)
		assert.Len(t, store.ExportState().Projects, 5, raw)
		assert.Len(t, store.ExportState().Users, 5, raw)
		assert.Empty(t, logger.warnings, raw)
	}
}

func TestRepeatedCorruptionKeepsEveryBackup(t *testing.T) {
	ctx := context.Background()
	backend := kv.NewMemory()
	var store *Store
	for _, raw := range []string{"{first", "{second"} {
		require.NoError(t, backend.Save(ctx, DefaultKey, []byte(raw)))
		var err error
		store, err = Open(ctx, backend, testOptions())
		require.NoError(t, err)
	}
	backups, err := store.Backups(ctx)
	require.NoError(t, err)
	assert.Equal(t, []string{DefaultKey + CorruptSuffix, DefaultKey + CorruptSuffix + ".1"}, backups)

	second, err := backend.Load(ctx, DefaultKey+CorruptSuffix+".1")
	require.NoError(t, err)
	assert.Equal(t, "{second", string(second))
}

func TestChecksumFailureOnFilesystemFallsBackToSeed(t *testing.T) {
	ctx := context.Background()
	root := t.TempDir()
	backend, err := kv.Open(ctx, kv.Config{Driver: kv.DriverFilesystem, Path: root})
	require.NoError(t, err)
	store, err := Open(ctx, backend, testOptions())
	require.NoError(t, err)
	require.NoError(t, store.Flush(ctx))
	require.NoError(t, os.WriteFile(filepath.Join(root, DefaultKey), []byte("{not json"), 0o600))

	logger := &recordingLogger{}
	opts := testOptions()
	opts.Logger = logger
	reopened, err := Open(ctx, backend, opts)
	require.NoError(t, err)
	assert.Len(t, reopened.ExportState().Projects, 5)
	assert.Len(t, logger.warnings, 1)

	backup, err := backend.Load(ctx, DefaultKey+CorruptSuffix)
	require.NoError(t, err)
	assert.Equal(t, "{not json", string(backup))

	strict := testOptions()
	strict.StrictLoad = true
	_, err = Open(ctx, backend, strict)
	assert.ErrorIs(t, err, ErrCorruptDocument)
}

func TestEncodeEmptyDocumentGolden(t *testing.T) {
	data, err := Encode(domain.EmptyState())
	require.NoError(t, err)
	g := goldie.New(t,
		goldie.WithFixtureDir("testdata/golden"),
		goldie.WithNameSuffix(".golden"),
	)
	g.Assert(t, "empty_document", data)
}

func TestEncodeDecodeSeedRoundTrip(t *testing.T) {
	seed := domain.SeedState()
	data, err := Encode(seed)
	require.NoError(t, err)
	decoded, err := Decode(data)
	require.NoError(t, err)
	assert.Equal(t, seed.Clone().Normalize(), decoded)
}

func TestImportResetAndFlush(t *testing.T) {
	ctx := context.Background()
	backend := kv.NewMemory()
	store, err := Open(ctx, backend, testOptions())
	require.NoError(t, err)
	assert.Equal(t, DefaultKey, store.Key())
	assert.Equal(t, backend, store.KV())

	require.NoError(t, store.ImportState(ctx, domain.EmptyState()))
	raw, err := backend.Load(ctx, DefaultKey)
	require.NoError(t, err)
	state, err := Decode(raw)
	require.NoError(t, err)
	assert.Empty(t, state.Projects)

	require.NoError(t, store.Reset(ctx))
	assert.Len(t, store.ExportState().Projects, 5)
	_, err = backend.Load(ctx, DefaultKey)
	assert.ErrorIs(t, err, kv.ErrNotFound)

	require.NoError(t, store.Flush(ctx))
	_, err = backend.Load(ctx, DefaultKey)
	assert.NoError(t, err)
}

func TestCurrentUser(t *testing.T) {
	ctx := context.Background()
	backend := kv.NewMemory()
	store, err := Open(ctx, backend, testOptions())
	require.NoError(t, err)

	u, err := store.CurrentUser(ctx)
	require.NoError(t, err)
	assert.True(t, u.IsZero())

	require.NoError(t, store.SetCurrentUser(ctx, domain.CurrentUser{ID: "demo", Name: "Demo User", Email: "demo@neonpm.com"}))
	u, err = store.CurrentUser(ctx)
	require.NoError(t, err)
	assert.Equal(t, "demo@neonpm.com", u.Email)

	require.NoError(t, store.ClearCurrentUser(ctx))
	u, err = store.CurrentUser(ctx)
	require.NoError(t, err)
	assert.True(t, u.IsZero())

	require.NoError(t, backend.Save(ctx, UserKey, []byte("garbage")))
	u, err = store.CurrentUser(ctx)
	require.NoError(t, err)
	assert.True(t, u.IsZero(), "unreadable user record reads as signed out")
}

func TestOpenOnS3MockBackend(t *testing.T) {
	ctx := context.Background()
	backend := kv.NewS3Mock("tenant-a/")
	store, err := Open(ctx, backend, testOptions())
	require.NoError(t, err)
	_, err = store.RunInTransaction(ctx, func(tx domain.Transaction) error {
		_, err := tx.CreateTimesheet(domain.TimesheetEntry{ProjectID: "1", UserEmail: "a@x.io", Date: "2024-03-01", Hours: 1.5})
		return err
	})
	require.NoError(t, err)
	reopened, err := Open(ctx, backend, testOptions())
	require.NoError(t, err)
	require.Len(t, reopened.ExportState().Timesheets, 1)
	assert.Equal(t, "a@x.io • 1.5h", reopened.ExportState().Notifications[0].Body)
}

func TestOpenRequiresBackend(t *testing.T) {
	_, err := Open(context.Background(), nil, Options{})
	assert.Error(t, err)
}
