// Package sync mirrors the document store to a local JSON file and back.
// Export (store to file) and Import (file to store) are both full-snapshot
// one-way mirrors; two guard flags suppress the feedback loop between
// them. Every failure is logged and swallowed: the daemon relies on the
// next change event or the periodic pull for recovery, never on retries.
package sync

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/robfig/cron/v3"

	"hermes/internal/gitrepo"
	applog "hermes/internal/log"
	"hermes/internal/store"
)

// VCS abstracts the external version-control repository holding the
// mirror file. Operations are best-effort.
type VCS interface {
	Pull(ctx context.Context) error
	CommitPush(ctx context.Context, message string) error
}

// GitVCS runs VCS operations through the git CLI.
type GitVCS struct {
	Dir  string // working tree
	File string // mirror file path inside the tree
}

func (g GitVCS) Pull(ctx context.Context) error {
	return gitrepo.Pull(ctx, g.Dir)
}

func (g GitVCS) CommitPush(ctx context.Context, message string) error {
	return gitrepo.CommitPush(ctx, g.Dir, message, g.File)
}

// NoVCS disables version control.
type NoVCS struct{}

func (NoVCS) Pull(context.Context) error               { return nil }
func (NoVCS) CommitPush(context.Context, string) error { return nil }

// Options configures the daemon.
type Options struct {
	Collections  []string
	FilePath     string
	Debounce     time.Duration // local file-change settle window
	PullInterval time.Duration // periodic VCS pull
}

type triggerKind int

const (
	triggerExport triggerKind = iota
	triggerImport
	triggerPull
)

// Daemon is the reconciliation loop. Reconciliations run one at a time
// on the Run goroutine; the exporting/importing flags only keep the two
// directions from echoing into each other, exactly like the reference
// daemon's booleans. A lost race costs one redundant full-snapshot pass,
// never corruption.
type Daemon struct {
	store store.Store
	vcs   VCS
	opts  Options

	exporting bool
	importing bool
	lastState string

	triggers chan triggerKind
}

// New creates a daemon. vcs may be NoVCS when no repository is configured.
func New(s store.Store, vcs VCS, opts Options) *Daemon {
	if opts.Debounce <= 0 {
		opts.Debounce = 500 * time.Millisecond
	}
	if opts.PullInterval <= 0 {
		opts.PullInterval = 10 * time.Minute
	}
	return &Daemon{
		store:    s,
		vcs:      vcs,
		opts:     opts,
		triggers: make(chan triggerKind, 16),
	}
}

// Export mirrors the store to the local file. Skipped while an import is
// in flight. The file is only written, and the VCS only touched, when
// the serialized snapshot actually changed.
func (d *Daemon) Export(ctx context.Context) error {
	if d.importing {
		return nil
	}
	d.exporting = true
	defer func() { d.exporting = false }()

	snap := Snapshot{}
	for _, col := range d.opts.Collections {
		docs, err := d.store.ReadAll(ctx, col)
		if err != nil {
			return fmt.Errorf("reading collection %s: %w", col, err)
		}
		snap[col] = docs
	}

	content, err := Serialize(snap)
	if err != nil {
		return err
	}
	if content == d.lastState {
		return nil
	}

	if err := os.MkdirAll(filepath.Dir(d.opts.FilePath), 0o755); err != nil {
		return fmt.Errorf("creating mirror directory: %w", err)
	}
	if err := os.WriteFile(d.opts.FilePath, []byte(content), 0o644); err != nil {
		return fmt.Errorf("writing mirror file: %w", err)
	}
	d.lastState = content
	applog.Info("mirror file updated", "path", d.opts.FilePath)

	if err := d.vcs.CommitPush(ctx, ""); err != nil {
		// Best-effort: the next export retries naturally.
		applog.Error("vcs commit/push failed", err)
	}
	return nil
}

// Import mirrors the local file into the store. Skipped while an export
// is in flight or when the file content matches the last-known snapshot.
// Documents with machine-generated ids are upserted in place; anything
// else is created fresh. A follow-up export re-normalizes the file so
// generated ids land back in it.
func (d *Daemon) Import(ctx context.Context) error {
	if d.exporting {
		return nil
	}

	raw, err := os.ReadFile(d.opts.FilePath)
	if err != nil {
		return fmt.Errorf("reading mirror file: %w", err)
	}
	content := string(raw)
	if content == d.lastState {
		return nil
	}

	snap, err := Parse(content)
	if err != nil {
		return err
	}

	d.importing = true
	d.lastState = content
	applog.Info("local change detected, importing", "path", d.opts.FilePath)

	var importErr error
	for col, docs := range snap {
		for _, doc := range docs {
			if err := d.writeDocument(ctx, col, doc); err != nil {
				applog.Error("import write failed", err, "collection", col, "id", doc.ID())
				importErr = err
			}
		}
	}
	d.importing = false

	// Re-normalize: generated ids and canonical ordering go back to the file.
	if err := d.Export(ctx); err != nil {
		applog.Error("post-import export failed", err)
	}
	return importErr
}

func (d *Daemon) writeDocument(ctx context.Context, collection string, doc store.Document) error {
	id := doc.ID()
	fields := store.Document{}
	for k, v := range doc {
		if k != "id" {
			fields[k] = v
		}
	}
	if machineGeneratedID(id) {
		return d.store.Upsert(ctx, collection, id, fields)
	}
	_, err := d.store.Create(ctx, collection, fields)
	return err
}

// Run starts the daemon: initial pull and export, per-collection change
// listeners, a debounced watcher on the mirror file, and the periodic
// pull. Blocks until ctx is cancelled.
func (d *Daemon) Run(ctx context.Context) error {
	if err := d.vcs.Pull(ctx); err != nil {
		applog.Error("initial vcs pull failed", err)
	}
	if err := d.Export(ctx); err != nil {
		applog.Error("initial export failed", err)
	}

	for _, col := range d.opts.Collections {
		cancel := d.store.Subscribe(col, func() {
			if !d.importing {
				d.schedule(triggerExport)
			}
		})
		defer cancel()
	}

	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("creating watcher: %w", err)
	}
	defer watcher.Close()
	// Watch the directory, not the file: editors replace files by rename,
	// which silently drops a file-level watch.
	if err := watcher.Add(filepath.Dir(d.opts.FilePath)); err != nil {
		return fmt.Errorf("watching mirror directory: %w", err)
	}

	c := cron.New()
	if _, err := c.AddFunc(fmt.Sprintf("@every %s", d.opts.PullInterval), func() {
		d.schedule(triggerPull)
	}); err != nil {
		return fmt.Errorf("scheduling periodic pull: %w", err)
	}
	c.Start()
	defer c.Stop()

	applog.Info("sync daemon started",
		"file", d.opts.FilePath,
		"collections", len(d.opts.Collections),
		"pull_interval", d.opts.PullInterval,
	)

	var debounce *time.Timer
	defer func() {
		if debounce != nil {
			debounce.Stop()
		}
	}()

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()

		case ev, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			if filepath.Clean(ev.Name) != filepath.Clean(d.opts.FilePath) {
				continue
			}
			if !ev.Has(fsnotify.Write) && !ev.Has(fsnotify.Create) {
				continue
			}
			if d.exporting {
				continue // our own write
			}
			if debounce != nil {
				debounce.Stop()
			}
			debounce = time.AfterFunc(d.opts.Debounce, func() {
				d.schedule(triggerImport)
			})

		case err, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			applog.Error("watcher error", err)

		case trig := <-d.triggers:
			d.reconcile(ctx, trig)
		}
	}
}

// schedule enqueues a trigger without blocking; a full queue means a
// reconciliation is already pending, which covers this trigger too.
func (d *Daemon) schedule(t triggerKind) {
	select {
	case d.triggers <- t:
	default:
	}
}

func (d *Daemon) reconcile(ctx context.Context, t triggerKind) {
	switch t {
	case triggerExport:
		if err := d.Export(ctx); err != nil {
			applog.Error("export failed", err)
		}
	case triggerImport:
		if err := d.Import(ctx); err != nil {
			applog.Error("import failed", err)
		}
	case triggerPull:
		if err := d.vcs.Pull(ctx); err != nil {
			applog.Error("periodic vcs pull failed", err)
		}
		if err := d.Export(ctx); err != nil {
			applog.Error("export after pull failed", err)
		}
	}
}
