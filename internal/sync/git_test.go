package sync

import (
	"context"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
	"testing"
)

// newTestClone creates a bare remote with one commit on main and returns the
// path of a working clone.
func newTestClone(t *testing.T) string {
	t.Helper()
	if _, err := exec.LookPath("git"); err != nil {
		t.Skip("git not found in PATH")
	}

	remote := t.TempDir()
	git(t, remote, "init", "--bare")

	work := t.TempDir()
	git(t, work, "clone", remote, "repo")
	repo := filepath.Join(work, "repo")

	git(t, repo, "config", "user.email", "test@test.com")
	git(t, repo, "config", "user.name", "Test")
	git(t, repo, "checkout", "-b", "main")

	if err := os.WriteFile(filepath.Join(repo, ".gitkeep"), nil, 0o644); err != nil {
		t.Fatalf("write .gitkeep: %v", err)
	}
	git(t, repo, "add", ".")
	git(t, repo, "commit", "-m", "init")
	git(t, repo, "push", "origin", "main")
	return repo
}

func TestGitDestination(t *testing.T) {
	repo := newTestClone(t)
	dest := NewGitDestination(repo, "contacts.jsonl", "")
	ctx := context.Background()

	data1 := []byte(`{"version":"1","type":"header","contact_count":0}` + "\n")
	if err := dest.Write(ctx, data1); err != nil {
		t.Fatalf("first write: %v", err)
	}
	assertFile(t, filepath.Join(repo, "contacts.jsonl"), data1)
	if n := commitCount(t, repo); n != "2" {
		t.Fatalf("commits after first write = %s, want 2", n)
	}

	// Same content makes no commit.
	if err := dest.Write(ctx, data1); err != nil {
		t.Fatalf("second write: %v", err)
	}
	if n := commitCount(t, repo); n != "2" {
		t.Fatalf("commits after unchanged write = %s, want 2", n)
	}

	data2 := []byte(`{"version":"1","type":"header","contact_count":1}` + "\n")
	if err := dest.Write(ctx, data2); err != nil {
		t.Fatalf("third write: %v", err)
	}
	assertFile(t, filepath.Join(repo, "contacts.jsonl"), data2)
	if n := commitCount(t, repo); n != "3" {
		t.Fatalf("commits after changed write = %s, want 3", n)
	}

	msg := gitOutput(t, repo, "log", "-1", "--format=%s")
	if msg != "backup: update contacts export" {
		t.Errorf("commit message = %q", msg)
	}
}

func TestGitDestination_SubDirectory(t *testing.T) {
	repo := newTestClone(t)
	dest := NewGitDestination(repo, "backup/contacts.jsonl", "main")

	data := []byte(`{"type":"header"}` + "\n")
	if err := dest.Write(context.Background(), data); err != nil {
		t.Fatalf("write: %v", err)
	}
	assertFile(t, filepath.Join(repo, "backup", "contacts.jsonl"), data)
}

func TestGitDestination_NotARepo(t *testing.T) {
	if _, err := exec.LookPath("git"); err != nil {
		t.Skip("git not found in PATH")
	}
	dest := NewGitDestination(t.TempDir(), "contacts.json", "main")
	if err := dest.Write(context.Background(), []byte("[]")); err == nil {
		t.Fatal("expected error writing outside a git repository")
	}
}

func TestGitDestination_String(t *testing.T) {
	dest := NewGitDestination("/srv/backup", "contacts.json", "")
	if got := dest.String(); got != "git:/srv/backup/contacts.json@main" {
		t.Errorf("String() = %q", got)
	}
}

func assertFile(t *testing.T, path string, want []byte) {
	t.Helper()
	got, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read file: %v", err)
	}
	if string(got) != string(want) {
		t.Fatalf("file content = %q, want %q", got, want)
	}
}

func commitCount(t *testing.T, repo string) string {
	t.Helper()
	return gitOutput(t, repo, "rev-list", "--count", "HEAD")
}

func gitOutput(t *testing.T, dir string, args ...string) string {
	t.Helper()
	cmd := exec.Command("git", args...)
	cmd.Dir = dir
	out, err := cmd.Output()
	if err != nil {
		t.Fatalf("git %v failed: %v", args, err)
	}
	return strings.TrimSpace(string(out))
}

func git(t *testing.T, dir string, args ...string) {
	t.Helper()
	cmd := exec.Command("git", args...)
	cmd.Dir = dir
	if out, err := cmd.CombinedOutput(); err != nil {
		t.Fatalf("git %v failed: %v\n%s", args, err, out)
	}
}
