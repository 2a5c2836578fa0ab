package sync

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"testing"

	"hermes/internal/store"
)

// memStore is an in-memory Store that counts writes.
type memStore struct {
	docs    map[string]map[string]store.Document
	upserts int
	creates int
}

func newMemStore() *memStore {
	return &memStore{docs: map[string]map[string]store.Document{}}
}

func (m *memStore) ReadAll(_ context.Context, collection string) ([]store.Document, error) {
	var out []store.Document
	for id, fields := range m.docs[collection] {
		doc := store.Document{"id": id}
		for k, v := range fields {
			doc[k] = v
		}
		out = append(out, doc)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID() < out[j].ID() })
	return out, nil
}

func (m *memStore) Upsert(_ context.Context, collection, id string, fields store.Document) error {
	m.upserts++
	if m.docs[collection] == nil {
		m.docs[collection] = map[string]store.Document{}
	}
	existing := m.docs[collection][id]
	if existing == nil {
		existing = store.Document{}
	}
	for k, v := range fields {
		if v == nil {
			delete(existing, k)
			continue
		}
		existing[k] = v
	}
	m.docs[collection][id] = existing
	return nil
}

func (m *memStore) Create(ctx context.Context, collection string, fields store.Document) (string, error) {
	m.creates++
	id := fmt.Sprintf("generated-%06d", m.creates)
	upserts := m.upserts
	err := m.Upsert(ctx, collection, id, fields)
	m.upserts = upserts
	return id, err
}

func (m *memStore) Delete(_ context.Context, collection, id string) error {
	delete(m.docs[collection], id)
	return nil
}

func (m *memStore) Subscribe(string, func()) func() { return func() {} }

func (m *memStore) Close() error { return nil }

// spyVCS records how often the repository is touched.
type spyVCS struct {
	pulls  int
	pushes int
}

func (s *spyVCS) Pull(context.Context) error { s.pulls++; return nil }

func (s *spyVCS) CommitPush(context.Context, string) error { s.pushes++; return nil }

func newTestDaemon(t *testing.T) (*Daemon, *memStore, *spyVCS) {
	t.Helper()
	ms := newMemStore()
	vcs := &spyVCS{}
	d := New(ms, vcs, Options{
		Collections: []string{"tasks", "notes"},
		FilePath:    filepath.Join(t.TempDir(), "hermes_full_database.json"),
	})
	return d, ms, vcs
}

func TestExportWritesFileAndPushes(t *testing.T) {
	d, ms, vcs := newTestDaemon(t)
	ctx := context.Background()

	ms.Upsert(ctx, "tasks", "abcdef123456", store.Document{"title": "write report"})
	ms.upserts = 0

	if err := d.Export(ctx); err != nil {
		t.Fatalf("Export() error = %v", err)
	}

	raw, err := os.ReadFile(d.opts.FilePath)
	if err != nil {
		t.Fatalf("reading mirror file: %v", err)
	}
	snap, err := Parse(string(raw))
	if err != nil {
		t.Fatalf("parsing mirror file: %v", err)
	}
	if got := len(snap["tasks"]); got != 1 {
		t.Errorf("exported tasks = %d, want 1", got)
	}
	if vcs.pushes != 1 {
		t.Errorf("pushes = %d, want 1", vcs.pushes)
	}
}

func TestExportSkipsWhenNothingChanged(t *testing.T) {
	d, ms, vcs := newTestDaemon(t)
	ctx := context.Background()

	ms.Upsert(ctx, "tasks", "abcdef123456", store.Document{"title": "write report"})

	if err := d.Export(ctx); err != nil {
		t.Fatalf("first Export() error = %v", err)
	}
	if err := d.Export(ctx); err != nil {
		t.Fatalf("second Export() error = %v", err)
	}
	if vcs.pushes != 1 {
		t.Errorf("pushes = %d, want 1 (unchanged state must not push again)", vcs.pushes)
	}
}

func TestImportUnchangedContentIsNoOp(t *testing.T) {
	d, ms, vcs := newTestDaemon(t)
	ctx := context.Background()

	ms.Upsert(ctx, "tasks", "abcdef123456", store.Document{"title": "write report"})
	ms.upserts = 0
	if err := d.Export(ctx); err != nil {
		t.Fatalf("Export() error = %v", err)
	}
	pushesAfterExport := vcs.pushes

	// The file on disk is byte-identical to the last exported state, as
	// after a spurious watcher event.
	if err := d.Import(ctx); err != nil {
		t.Fatalf("Import() error = %v", err)
	}
	if ms.upserts != 0 || ms.creates != 0 {
		t.Errorf("store writes = %d upserts, %d creates, want none", ms.upserts, ms.creates)
	}
	if vcs.pushes != pushesAfterExport {
		t.Errorf("pushes = %d, want %d (no-op import must not touch the vcs)", vcs.pushes, pushesAfterExport)
	}
}

func TestImportShortIDCreatesNewDocument(t *testing.T) {
	d, ms, _ := newTestDaemon(t)
	ctx := context.Background()

	content, err := Serialize(Snapshot{
		"tasks": {
			{"id": "t-1", "title": "buy milk", "status": "pending"},
		},
	})
	if err != nil {
		t.Fatalf("Serialize() error = %v", err)
	}
	if err := os.WriteFile(d.opts.FilePath, []byte(content), 0o644); err != nil {
		t.Fatalf("writing mirror file: %v", err)
	}

	if err := d.Import(ctx); err != nil {
		t.Fatalf("Import() error = %v", err)
	}
	if ms.creates != 1 {
		t.Errorf("creates = %d, want 1 (hand-written id must become a new document)", ms.creates)
	}
	if ms.upserts != 0 {
		t.Errorf("upserts = %d, want 0", ms.upserts)
	}
	if _, ok := ms.docs["tasks"]["t-1"]; ok {
		t.Error("hand-written id was stored verbatim, want a generated id instead")
	}
}

func TestImportGeneratedIDUpserts(t *testing.T) {
	d, ms, _ := newTestDaemon(t)
	ctx := context.Background()

	ms.Upsert(ctx, "tasks", "abcdef123456", store.Document{"title": "write report", "status": "pending"})
	ms.upserts = 0

	content, err := Serialize(Snapshot{
		"tasks": {
			{"id": "abcdef123456", "title": "write report", "status": "done"},
		},
	})
	if err != nil {
		t.Fatalf("Serialize() error = %v", err)
	}
	if err := os.WriteFile(d.opts.FilePath, []byte(content), 0o644); err != nil {
		t.Fatalf("writing mirror file: %v", err)
	}

	if err := d.Import(ctx); err != nil {
		t.Fatalf("Import() error = %v", err)
	}
	if ms.upserts != 1 || ms.creates != 0 {
		t.Errorf("writes = %d upserts, %d creates, want 1 upsert only", ms.upserts, ms.creates)
	}
	if got := ms.docs["tasks"]["abcdef123456"]["status"]; got != "done" {
		t.Errorf("status after import = %v, want done", got)
	}
}

func TestImportRewritesFileWithGeneratedIDs(t *testing.T) {
	d, _, _ := newTestDaemon(t)
	ctx := context.Background()

	content, err := Serialize(Snapshot{
		"notes": {
			{"id": "n1", "text": "call dentist"},
		},
	})
	if err != nil {
		t.Fatalf("Serialize() error = %v", err)
	}
	if err := os.WriteFile(d.opts.FilePath, []byte(content), 0o644); err != nil {
		t.Fatalf("writing mirror file: %v", err)
	}

	if err := d.Import(ctx); err != nil {
		t.Fatalf("Import() error = %v", err)
	}

	raw, err := os.ReadFile(d.opts.FilePath)
	if err != nil {
		t.Fatalf("reading mirror file: %v", err)
	}
	snap, err := Parse(string(raw))
	if err != nil {
		t.Fatalf("parsing re-exported file: %v", err)
	}
	notes := snap["notes"]
	if len(notes) != 1 {
		t.Fatalf("re-exported notes = %d, want 1", len(notes))
	}
	if id := notes[0].ID(); !machineGeneratedID(id) {
		t.Errorf("re-exported id = %q, want a generated one", id)
	}
}

func TestMachineGeneratedID(t *testing.T) {
	cases := []struct {
		id   string
		want bool
	}{
		{"", false},
		{"t-1", false},
		{"elevenchars", false},
		{"twelvechars!", true},
		{"6ba7b810-9dad-11d1-80b4-00c04fd430c8", true},
	}
	for _, tc := range cases {
		if got := machineGeneratedID(tc.id); got != tc.want {
			t.Errorf("machineGeneratedID(%q) = %v, want %v", tc.id, got, tc.want)
		}
	}
}
