package session

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/matzehuels/cortex/pkg/errors"
)

func TestFileStore(t *testing.T) {
	s, err := NewFileStore(t.TempDir())
	if err != nil {
		t.Fatalf("NewFileStore() error = %v", err)
	}
	testStore(t, s)
}

func TestFileStorePermissions(t *testing.T) {
	dir := t.TempDir()
	s, err := NewFileStore(dir)
	if err != nil {
		t.Fatal(err)
	}
	if s.Path() != dir {
		t.Errorf("Path() = %q, want %q", s.Path(), dir)
	}
	if err := s.Set(context.Background(), sampleState("p", time.Now())); err != nil {
		t.Fatal(err)
	}
	info, err := os.Stat(filepath.Join(dir, "p.json"))
	if err != nil {
		t.Fatal(err)
	}
	if perm := info.Mode().Perm(); perm != 0600 {
		t.Errorf("plan file mode = %o, want 600", perm)
	}
}

func TestFileStorePersistsAcrossInstances(t *testing.T) {
	dir := t.TempDir()
	ctx := context.Background()

	a, _ := NewFileStore(dir)
	if err := a.Set(ctx, sampleState("p", time.Now())); err != nil {
		t.Fatal(err)
	}

	b, _ := NewFileStore(dir)
	st, err := b.Latest(ctx)
	if err != nil {
		t.Fatalf("Latest() error = %v", err)
	}
	if st.ID != "p" || st.Selections.Vertical != "Tech" {
		t.Errorf("Latest() = %+v", st)
	}
}

func TestFileStoreCorruptFile(t *testing.T) {
	dir := t.TempDir()
	s, _ := NewFileStore(dir)
	if err := os.WriteFile(filepath.Join(dir, "bad.json"), []byte("{"), 0600); err != nil {
		t.Fatal(err)
	}
	_, err := s.Get(context.Background(), "bad")
	if err == nil || errors.Is(err, errors.ErrCodePlanNotFound) {
		t.Errorf("Get(corrupt) error = %v, want parse error", err)
	}
}

func TestFileStoreRejectsTraversal(t *testing.T) {
	s, _ := NewFileStore(t.TempDir())
	for _, id := range []string{"../x", "a/b", `a\b`} {
		if _, err := s.Get(context.Background(), id); !errors.Is(err, errors.ErrCodeInvalidInput) {
			t.Errorf("Get(%q) error = %v, want %s", id, err, errors.ErrCodeInvalidInput)
		}
		if err := s.Delete(context.Background(), id); !errors.Is(err, errors.ErrCodeInvalidInput) {
			t.Errorf("Delete(%q) error = %v, want %s", id, err, errors.ErrCodeInvalidInput)
		}
	}
}
