package testing

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/google/go-cmp/cmp"

	"github.com/go-redul/redul/pkg/host/memhost"
)

// TestingT is the subset of *testing.T used by MatchesFile, allowing
// test doubles to intercept failures.
type TestingT interface {
	Helper()
	Fatalf(format string, args ...any)
	Errorf(format string, args ...any)
	Name() string
}

// updateSnapshotsEnv names the variable that rewrites golden files.
const updateSnapshotsEnv = "REDUL_UPDATE_SNAPSHOTS"

// Snapshot captures the host tree and the mutations that produced it.
type Snapshot struct {
	Tree      []*SnapshotNode `json:"tree"`
	Mutations []string        `json:"mutations,omitempty"`
}

// SnapshotNode is a serialized host node.
type SnapshotNode struct {
	Tag      string            `json:"tag"`
	Text     string            `json:"text,omitempty"`
	Attrs    map[string]string `json:"attrs,omitempty"`
	Children []*SnapshotNode   `json:"children,omitempty"`
}

// CaptureSnapshot captures the container's subtree and the mutation log.
func (t *Tester) CaptureSnapshot() *Snapshot {
	snap := &Snapshot{Mutations: t.Mutations()}
	for _, c := range t.container.Children {
		snap.Tree = append(snap.Tree, captureNode(c))
	}
	return snap
}

func captureNode(n *memhost.Node) *SnapshotNode {
	out := &SnapshotNode{Tag: n.Tag, Text: n.Text}
	if len(n.Attrs) > 0 {
		out.Attrs = make(map[string]string, len(n.Attrs))
		for k, v := range n.Attrs {
			out.Attrs[k] = v
		}
	}
	for _, c := range n.Children {
		out.Children = append(out.Children, captureNode(c))
	}
	return out
}

// MatchesFile compares this snapshot against a golden file. On mismatch it
// reports a diff and instructions for updating. When REDUL_UPDATE_SNAPSHOTS=1
// is set, the file is silently updated instead.
func (s *Snapshot) MatchesFile(t TestingT, path string) {
	t.Helper()

	if os.Getenv(updateSnapshotsEnv) == "1" {
		if err := s.UpdateFile(path); err != nil {
			t.Fatalf("failed to update snapshot: %v", err)
		}
		return
	}

	expected, err := loadSnapshot(path)
	if err != nil {
		if os.IsNotExist(err) {
			t.Fatalf("snapshot file missing: %s\n\nTo create: %s=1 go test -run %s", path, updateSnapshotsEnv, t.Name())
			return
		}
		t.Fatalf("failed to load snapshot: %v", err)
		return
	}

	if diff := s.Diff(expected); diff != "" {
		t.Errorf("snapshot mismatch: %s\n%s\n\nTo update: %s=1 go test -run %s", path, diff, updateSnapshotsEnv, t.Name())
	}
}

// UpdateFile writes this snapshot to the given path, creating directories
// as needed.
func (s *Snapshot) UpdateFile(path string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}
	data, err := json.MarshalIndent(s, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(path, append(data, '\n'), 0o644)
}

// Diff returns a diff from other to this snapshot, or "" if they are equal.
func (s *Snapshot) Diff(other *Snapshot) string {
	return cmp.Diff(other, s)
}

func loadSnapshot(path string) (*Snapshot, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var snap Snapshot
	if err := json.Unmarshal(data, &snap); err != nil {
		return nil, fmt.Errorf("parse %s: %w", path, err)
	}
	return &snap, nil
}
