package ui

import (
	"context"
	"errors"
	"fmt"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"hermes/internal/gitrepo"
	applog "hermes/internal/log"
	hsync "hermes/internal/sync"
)

func (a *App) syncCmd() *cobra.Command {
	var (
		once    bool
		verbose bool
	)

	cmd := &cobra.Command{
		Use:   "sync",
		Short: "Run the sync daemon",
		Long: `Mirror the database to the configured JSON file and back.

The daemon watches the file for edits, listens for database changes,
and periodically pulls the configured git repository. With --once it
performs a single pull and export, then exits.`,
		RunE: func(_ *cobra.Command, _ []string) error {
			if verbose {
				applog.SetLevel(applog.LevelDebug)
			}

			s, err := a.openStore()
			if err != nil {
				return err
			}

			var vcs hsync.VCS = hsync.NoVCS{}
			if dir := a.config.Sync.RepoDir; dir != "" {
				if !gitrepo.IsRepo(context.Background(), dir) {
					return fmt.Errorf("sync repo_dir %s is not a git repository", dir)
				}
				vcs = hsync.GitVCS{Dir: dir, File: a.config.Sync.FilePath}
			}

			d := hsync.New(s, vcs, hsync.Options{
				Collections:  a.config.Sync.Collections,
				FilePath:     a.config.Sync.FilePath,
				Debounce:     time.Duration(a.config.Sync.DebounceMs) * time.Millisecond,
				PullInterval: time.Duration(a.config.Sync.PullIntervalMin) * time.Minute,
			})

			ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
			defer stop()

			if once {
				if err := vcs.Pull(ctx); err != nil {
					applog.Error("vcs pull failed", err)
				}
				if err := d.Export(ctx); err != nil {
					return err
				}
				fmt.Printf("Exported to %s\n", a.config.Sync.FilePath)
				return nil
			}

			err = d.Run(ctx)
			if errors.Is(err, context.Canceled) {
				return nil
			}
			return err
		},
	}

	cmd.Flags().BoolVar(&once, "once", false, "Export once and exit")
	cmd.Flags().BoolVarP(&verbose, "verbose", "v", false, "Enable debug logging")
	return cmd
}
