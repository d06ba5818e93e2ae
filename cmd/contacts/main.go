package main

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/alfredjeanlab/contacts/internal/book"
	"github.com/alfredjeanlab/contacts/internal/config"
	"github.com/alfredjeanlab/contacts/internal/events"
	"github.com/alfredjeanlab/contacts/internal/logging"
	"github.com/alfredjeanlab/contacts/internal/store"
	"github.com/alfredjeanlab/contacts/internal/store/jsonfile"
	"github.com/alfredjeanlab/contacts/internal/store/sqlite"
	"github.com/alfredjeanlab/contacts/internal/ui"
)

var (
	configPath string
	dataFile   string
	backend    string
	logLevel   string
	jsonOutput bool

	cfg         *config.Config
	logger      *slog.Logger
	contactBook *book.Book
	fileStore   *jsonfile.Store // nil unless the json backend is open
	closers     []io.Closer
)

// skipStore marks commands that never touch the address book.
const skipStore = "skip-store"

func defaultConfigPath() string {
	p, err := config.DefaultPath()
	if err != nil {
		return ""
	}
	return p
}

var rootCmd = &cobra.Command{
	Use:           "contacts <command>",
	Short:         "A small address book kept in a local file",
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		if !ui.ShouldUseColor() {
			ui.ForceNoColor()
		}

		var err error
		cfg, err = config.Load(configPath)
		if err != nil {
			return err
		}
		applyFlagOverrides(cmd)
		if err := cfg.Validate(); err != nil {
			return err
		}

		l, c, err := logging.New(logging.Options{
			Level:  cfg.Log.Level,
			Format: cfg.Log.Format,
			File:   cfg.Log.File,
			Stderr: cmd.ErrOrStderr(),
		})
		if err != nil {
			return err
		}
		logger = l
		closers = append(closers, c)

		if skipsStore(cmd) {
			return nil
		}
		return openBook(cmd.Context())
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		closeAll()
	},
}

func applyFlagOverrides(cmd *cobra.Command) {
	flags := cmd.Flags()
	if flags.Changed("backend") {
		cfg.Backend = backend
	}
	if flags.Changed("file") {
		if cfg.Backend == config.BackendSQLite {
			cfg.SQLitePath = dataFile
		} else {
			cfg.File = dataFile
		}
	}
	if flags.Changed("log-level") {
		cfg.Log.Level = logLevel
	}
}

func skipsStore(cmd *cobra.Command) bool {
	for c := cmd; c != nil; c = c.Parent() {
		if c.Annotations[skipStore] == "true" {
			return true
		}
	}
	return false
}

// openBook opens the configured store and publisher and builds the book.
func openBook(ctx context.Context) error {
	var s store.Store
	fileStore = nil
	switch cfg.Backend {
	case config.BackendSQLite:
		db, err := sqlite.New(ctx, cfg.SQLitePath)
		if err != nil {
			return fmt.Errorf("opening %s: %w", cfg.SQLitePath, err)
		}
		s = db
	default:
		js, res := jsonfile.Open(cfg.File, jsonfile.WithLogger(logger))
		logger.Debug("contacts loaded", "path", cfg.File, "status", res.Status, "count", res.Count)
		s = js
		fileStore = js
	}
	closers = append(closers, s)

	var pub events.Publisher
	if cfg.NATSURL != "" {
		p, err := events.NewNATSPublisher(cfg.NATSURL)
		if err != nil {
			// Events are optional; the address book still works without them.
			logger.Warn("nats unavailable, events disabled", "url", cfg.NATSURL, "err", err)
		} else {
			pub = p
			closers = append(closers, p)
		}
	}

	contactBook = book.New(s, pub, logger)
	return nil
}

func closeAll() {
	for i := len(closers) - 1; i >= 0; i-- {
		if err := closers[i].Close(); err != nil && logger != nil {
			logger.Warn("close failed", "err", err)
		}
	}
	closers = nil
}

func init() {
	rootCmd.PersistentFlags().StringVar(&configPath, "config", defaultConfigPath(), "config file")
	rootCmd.PersistentFlags().StringVar(&dataFile, "file", jsonfile.DefaultPath, "data file (JSON file or sqlite database)")
	rootCmd.PersistentFlags().StringVar(&backend, "backend", config.BackendJSON, "storage backend (json or sqlite)")
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "", "log level (debug, info, warn, error)")
	rootCmd.PersistentFlags().BoolVar(&jsonOutput, "json", false, "output as JSON")

	rootCmd.AddGroup(
		&cobra.Group{ID: "contacts", Title: "Contacts:"},
		&cobra.Group{ID: "data", Title: "Data:"},
		&cobra.Group{ID: "system", Title: "System:"},
	)

	cobra.EnableCommandSorting = false
	rootCmd.SetHelpFunc(colorizedHelpFunc())

	// Contacts
	rootCmd.AddCommand(listCmd)
	rootCmd.AddCommand(searchCmd)
	rootCmd.AddCommand(showCmd)
	rootCmd.AddCommand(addCmd)
	rootCmd.AddCommand(editCmd)
	rootCmd.AddCommand(deleteCmd)

	// Data
	rootCmd.AddCommand(exportCmd)
	rootCmd.AddCommand(backupCmd)
	rootCmd.AddCommand(watchCmd)

	// System
	rootCmd.AddCommand(configCmd)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		closeAll()
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
