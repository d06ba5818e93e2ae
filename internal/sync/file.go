package sync

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/alfredjeanlab/contacts/internal/idgen"
)

// snapshotLayout sorts lexically in time order.
const snapshotLayout = "20060102T150405.000Z"

// FileDestination writes each export as a new timestamped file in a
// directory and keeps at most Keep of them.
type FileDestination struct {
	dir  string
	ext  string
	keep int
	now  func() time.Time
}

// NewFileDestination creates a directory destination. keep <= 0 keeps every snapshot.
func NewFileDestination(dir string, format Format, keep int) *FileDestination {
	return &FileDestination{dir: dir, ext: "." + format.Ext(), keep: keep, now: time.Now}
}

// Write stores data as contacts-<timestamp>-<token>.<ext> and prunes old
// snapshots. The random token keeps two writes in the same millisecond apart.
func (d *FileDestination) Write(ctx context.Context, data []byte) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if err := os.MkdirAll(d.dir, 0o755); err != nil {
		return fmt.Errorf("mkdir: %w", err)
	}

	tok, err := idgen.Token()
	if err != nil {
		return err
	}
	name := "contacts-" + d.now().UTC().Format(snapshotLayout) + "-" + tok + d.ext
	tmp := filepath.Join(d.dir, ".snapshot-"+tok)
	if err := os.WriteFile(tmp, data, 0o644); err != nil {
		return fmt.Errorf("write snapshot: %w", err)
	}
	if err := os.Rename(tmp, filepath.Join(d.dir, name)); err != nil {
		os.Remove(tmp)
		return fmt.Errorf("rename snapshot: %w", err)
	}
	return d.prune()
}

// Snapshots returns the snapshot file names in the directory, oldest first.
func (d *FileDestination) Snapshots() ([]string, error) {
	entries, err := os.ReadDir(d.dir)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, err
	}
	var names []string
	for _, e := range entries {
		n := e.Name()
		if e.Type().IsRegular() && strings.HasPrefix(n, "contacts-") && strings.HasSuffix(n, d.ext) {
			names = append(names, n)
		}
	}
	sort.Strings(names)
	return names, nil
}

func (d *FileDestination) prune() error {
	if d.keep <= 0 {
		return nil
	}
	names, err := d.Snapshots()
	if err != nil {
		return fmt.Errorf("list snapshots: %w", err)
	}
	for len(names) > d.keep {
		if err := os.Remove(filepath.Join(d.dir, names[0])); err != nil && !os.IsNotExist(err) {
			return fmt.Errorf("prune snapshot: %w", err)
		}
		names = names[1:]
	}
	return nil
}

func (d *FileDestination) String() string {
	return "dir:" + d.dir
}
