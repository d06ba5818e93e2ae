package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/alfredjeanlab/contacts/internal/config"
	"github.com/alfredjeanlab/contacts/internal/sync"
)

var backupCmd = &cobra.Command{
	Use:   "backup",
	Short: "Copy an export to the configured backup destinations",
	Long: `Copy an export to every configured backup destination: a snapshot
directory (backup.dir), an S3 bucket (backup.s3_bucket) and a git clone
(backup.git_repo). With --every the backup repeats until interrupted.`,
	GroupID: "data",
	Args:    cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		flags := cmd.Flags()
		if flags.Changed("dir") {
			cfg.Backup.Dir, _ = flags.GetString("dir")
		}
		if flags.Changed("format") {
			cfg.Backup.Format, _ = flags.GetString("format")
		}
		every, err := cfg.BackupInterval()
		if err != nil {
			return err
		}
		if flags.Changed("every") {
			every, _ = flags.GetDuration("every")
		}

		format, err := sync.ParseFormat(cfg.Backup.Format)
		if err != nil {
			return err
		}
		dests, err := backupDestinations(cmd.Context(), cfg.Backup, format)
		if err != nil {
			return err
		}

		out := cmd.OutOrStdout()
		if every <= 0 {
			n, err := sync.Backup(cmd.Context(), backupSource(), format, dests)
			if err != nil {
				return err
			}
			fmt.Fprintf(out, "Backed up %d bytes to %d destination(s)\n", n, len(dests))
			return nil
		}

		ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
		defer stop()

		sched := sync.NewScheduler(backupSource(), format, dests, every, logger)
		sched.Start()
		fmt.Fprintf(out, "Backing up every %s to %d destination(s); press Ctrl-C to stop\n", every, len(dests))
		<-ctx.Done()
		sched.Stop()
		return nil
	},
}

// backupSource returns what backups export. The json file is reread on
// every run so a scheduled backup picks up edits made by other invocations.
func backupSource() sync.Lister {
	if fileStore != nil {
		return fileStore.Reloader()
	}
	return contactBook
}

// backupDestinations builds one destination per configured target.
func backupDestinations(ctx context.Context, bc config.BackupConfig, format sync.Format) ([]sync.Destination, error) {
	var dests []sync.Destination
	if bc.Dir != "" {
		dests = append(dests, sync.NewFileDestination(bc.Dir, format, bc.Keep))
	}
	if bc.S3Bucket != "" {
		s3, err := sync.NewS3Destination(ctx, bc.S3Bucket, bc.S3Key, bc.S3Region, bc.S3Endpoint, format)
		if err != nil {
			return nil, err
		}
		dests = append(dests, s3)
	}
	if bc.GitRepo != "" {
		file := bc.GitFile
		if file == "" {
			file = "contacts." + format.Ext()
		}
		dests = append(dests, sync.NewGitDestination(bc.GitRepo, file, bc.GitBranch))
	}
	if len(dests) == 0 {
		return nil, errors.New("no backup destinations configured (set backup.dir, backup.s3_bucket or backup.git_repo, or pass --dir)")
	}
	return dests, nil
}

func init() {
	backupCmd.Flags().String("dir", "", "snapshot directory (overrides backup.dir)")
	backupCmd.Flags().StringP("format", "f", "", "export format (json, jsonl, yaml)")
	backupCmd.Flags().Duration("every", 0, "repeat at this interval until interrupted (e.g. 1h)")
}
