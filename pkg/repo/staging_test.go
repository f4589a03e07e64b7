package repo

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/jotvcs/jot/pkg/object"
)

func TestAdd_StagesEntry(t *testing.T) {
	r := newTestRepo(t)
	writeWorkFile(t, r, "a.txt", "hello")

	staged, err := r.Add([]string{"a.txt"})
	if err != nil {
		t.Fatalf("Add: %v", err)
	}
	if len(staged) != 1 {
		t.Fatalf("Add returned %d entries, want 1", len(staged))
	}
	if staged[0].ObjectID != object.HashBytes([]byte("hello")) {
		t.Errorf("staged digest = %s, want digest of content", staged[0].ObjectID)
	}

	// The index must be durable: a fresh open observes the staging.
	r2, err := Open(r.RootDir)
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	entries, err := r2.Staged()
	if err != nil {
		t.Fatalf("Staged: %v", err)
	}
	if len(entries) != 1 || entries[0].Path != "a.txt" || entries[0].ObjectID != staged[0].ObjectID {
		t.Errorf("persisted index = %+v", entries)
	}
}

func TestAdd_ReplacesInPlace(t *testing.T) {
	r := newTestRepo(t)
	writeWorkFile(t, r, "a.txt", "one")
	writeWorkFile(t, r, "b.txt", "two")

	if _, err := r.Add([]string{"a.txt", "b.txt"}); err != nil {
		t.Fatalf("Add: %v", err)
	}

	// Restage a.txt with new content: digest replaced, position kept.
	writeWorkFile(t, r, "a.txt", "one updated")
	if _, err := r.Add([]string{"a.txt"}); err != nil {
		t.Fatalf("re-Add: %v", err)
	}

	entries, err := r.Staged()
	if err != nil {
		t.Fatalf("Staged: %v", err)
	}
	if len(entries) != 2 {
		t.Fatalf("index has %d entries %+v, want 2", len(entries), entries)
	}
	if entries[0].Path != "a.txt" || entries[1].Path != "b.txt" {
		t.Errorf("entry order = [%s, %s], want [a.txt, b.txt]", entries[0].Path, entries[1].Path)
	}
	if entries[0].ObjectID != object.HashBytes([]byte("one updated")) {
		t.Errorf("a.txt digest not replaced: %s", entries[0].ObjectID)
	}
}

func TestAdd_IdenticalContentReusesObject(t *testing.T) {
	r := newTestRepo(t)
	writeWorkFile(t, r, "a.txt", "same")
	writeWorkFile(t, r, "b.txt", "same")

	if _, err := r.Add([]string{"a.txt"}); err != nil {
		t.Fatalf("Add a.txt: %v", err)
	}
	before := countObjects(t, r)

	if _, err := r.Add([]string{"b.txt"}); err != nil {
		t.Fatalf("Add b.txt: %v", err)
	}
	if after := countObjects(t, r); after != before {
		t.Errorf("object count grew from %d to %d for identical content", before, after)
	}

	entries, err := r.Staged()
	if err != nil {
		t.Fatalf("Staged: %v", err)
	}
	if len(entries) != 2 {
		t.Fatalf("index has %d entries, want 2", len(entries))
	}
	if entries[0].ObjectID != entries[1].ObjectID {
		t.Errorf("identical content staged under different digests")
	}
}

func TestAdd_MissingFileLeavesIndexUntouched(t *testing.T) {
	r := newTestRepo(t)
	writeWorkFile(t, r, "a.txt", "hello")
	if _, err := r.Add([]string{"a.txt"}); err != nil {
		t.Fatalf("Add: %v", err)
	}

	if _, err := r.Add([]string{"nope.txt"}); err == nil {
		t.Fatal("Add of a missing file succeeded, want error")
	}

	entries, err := r.Staged()
	if err != nil {
		t.Fatalf("Staged: %v", err)
	}
	if len(entries) != 1 || entries[0].Path != "a.txt" {
		t.Errorf("index after failed Add = %+v, want only a.txt", entries)
	}

	// The failed add must not leave a lock behind either.
	if _, err := os.Stat(r.indexPath() + ".lock"); !errors.Is(err, os.ErrNotExist) {
		t.Errorf("index lock still present after failed Add: %v", err)
	}
}

func TestReadIndex_Corrupt(t *testing.T) {
	r := newTestRepo(t)
	if err := os.WriteFile(filepath.Join(r.JotDir, "index"), []byte("not json{"), 0o644); err != nil {
		t.Fatalf("corrupt index: %v", err)
	}

	if _, err := r.Staged(); !errors.Is(err, ErrCorruptIndex) {
		t.Fatalf("Staged on corrupt index: err = %v, want ErrCorruptIndex", err)
	}
	writeWorkFile(t, r, "a.txt", "hello")
	if _, err := r.Add([]string{"a.txt"}); !errors.Is(err, ErrCorruptIndex) {
		t.Fatalf("Add on corrupt index: err = %v, want ErrCorruptIndex", err)
	}
}
