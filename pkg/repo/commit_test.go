package repo

import (
	"errors"
	"testing"

	"github.com/jotvcs/jot/pkg/diff"
	"github.com/jotvcs/jot/pkg/object"
)

// Scenario: a single commit yields a one-record history rooted at a commit
// with no parent.
func TestCommit_First(t *testing.T) {
	r := newTestRepo(t)
	h1 := stageAndCommit(t, r, "a.txt", "hello", "first")

	head, err := r.Head()
	if err != nil {
		t.Fatalf("Head: %v", err)
	}
	if head != h1 {
		t.Errorf("HEAD = %s, want %s", head, h1)
	}

	var entries []LogEntry
	for entry, err := range r.History() {
		if err != nil {
			t.Fatalf("History: %v", err)
		}
		entries = append(entries, entry)
	}
	if len(entries) != 1 {
		t.Fatalf("history has %d records, want 1", len(entries))
	}
	if entries[0].Commit.Parent != "" {
		t.Errorf("root commit parent = %q, want empty", entries[0].Commit.Parent)
	}
	if entries[0].Commit.Message != "first" {
		t.Errorf("message = %q, want %q", entries[0].Commit.Message, "first")
	}

	// The commit clears the staging index.
	staged, err := r.Staged()
	if err != nil {
		t.Fatalf("Staged: %v", err)
	}
	if len(staged) != 0 {
		t.Errorf("index after commit = %+v, want empty", staged)
	}
}

// Scenario: a second commit of the same path links to the first and its
// file diff classifies the appended text as Inserted.
func TestCommit_SecondLinksParent(t *testing.T) {
	r := newTestRepo(t)
	h1 := stageAndCommit(t, r, "a.txt", "hello", "first")
	h2 := stageAndCommit(t, r, "a.txt", "hello world", "second")

	c2, err := r.GetCommit(h2)
	if err != nil {
		t.Fatalf("GetCommit(h2): %v", err)
	}
	if c2.Parent != h1 {
		t.Errorf("parent of h2 = %s, want %s", c2.Parent, h1)
	}

	segs, err := r.FileDiff(h2, "a.txt")
	if err != nil {
		t.Fatalf("FileDiff: %v", err)
	}
	want := []diff.Segment{
		{Kind: diff.Equal, Text: "hello"},
		{Kind: diff.Inserted, Text: " world"},
	}
	if len(segs) != len(want) {
		t.Fatalf("diff = %+v, want %+v", segs, want)
	}
	for i := range want {
		if segs[i] != want[i] {
			t.Errorf("segment %d = %+v, want %+v", i, segs[i], want[i])
		}
	}
}

// Scenario: a path with no counterpart in the parent commit has no prior
// version to diff against.
func TestFileDiff_NewFile(t *testing.T) {
	r := newTestRepo(t)
	stageAndCommit(t, r, "a.txt", "hello", "first")
	stageAndCommit(t, r, "a.txt", "hello world", "second")
	h3 := stageAndCommit(t, r, "b.txt", "new", "third")

	if _, err := r.FileDiff(h3, "b.txt"); !errors.Is(err, ErrNoPriorVersion) {
		t.Fatalf("FileDiff of new file: err = %v, want ErrNoPriorVersion", err)
	}
}

func TestFileDiff_RootCommit(t *testing.T) {
	r := newTestRepo(t)
	h1 := stageAndCommit(t, r, "a.txt", "hello", "first")

	if _, err := r.FileDiff(h1, "a.txt"); !errors.Is(err, ErrNoPriorVersion) {
		t.Fatalf("FileDiff at root: err = %v, want ErrNoPriorVersion", err)
	}
}

func TestCommit_EmptyStageRejected(t *testing.T) {
	r := newTestRepo(t)
	h1 := stageAndCommit(t, r, "a.txt", "hello", "first")
	objects := countObjects(t, r)

	_, err := r.Commit("empty", CommitOptions{Author: "test"})
	if !errors.Is(err, ErrEmptyStaging) {
		t.Fatalf("Commit with empty stage: err = %v, want ErrEmptyStaging", err)
	}

	head, err := r.Head()
	if err != nil {
		t.Fatalf("Head: %v", err)
	}
	if head != h1 {
		t.Errorf("HEAD moved to %s on rejected commit", head)
	}
	if n := countObjects(t, r); n != objects {
		t.Errorf("object count changed from %d to %d on rejected commit", objects, n)
	}
}

func TestHistory_WalksAllCommits(t *testing.T) {
	r := newTestRepo(t)

	const n = 5
	var ids []object.Hash
	for i := 0; i < n; i++ {
		ids = append(ids, stageAndCommit(t, r, "a.txt", string(rune('a'+i)), "commit"))
	}

	var got []LogEntry
	for entry, err := range r.History() {
		if err != nil {
			t.Fatalf("History: %v", err)
		}
		got = append(got, entry)
	}
	if len(got) != n {
		t.Fatalf("history has %d records, want %d", len(got), n)
	}
	// Newest first, ending at the root.
	for i, entry := range got {
		if entry.ID != ids[n-1-i] {
			t.Errorf("record %d = %s, want %s", i, entry.ID, ids[n-1-i])
		}
	}
	if got[n-1].Commit.Parent != "" {
		t.Errorf("last record parent = %q, want empty", got[n-1].Commit.Parent)
	}
}

func TestHistory_Restartable(t *testing.T) {
	r := newTestRepo(t)
	stageAndCommit(t, r, "a.txt", "one", "first")

	seq := r.History()

	count := func() int {
		n := 0
		for _, err := range seq {
			if err != nil {
				t.Fatalf("History: %v", err)
			}
			n++
		}
		return n
	}

	if n := count(); n != 1 {
		t.Fatalf("first walk saw %d records, want 1", n)
	}

	stageAndCommit(t, r, "a.txt", "two", "second")

	// The same sequence restarted picks up the advanced HEAD.
	if n := count(); n != 2 {
		t.Fatalf("second walk saw %d records, want 2", n)
	}
}

func TestGetCommit_NotFoundVsCorrupt(t *testing.T) {
	r := newTestRepo(t)
	stageAndCommit(t, r, "a.txt", "hello", "first")

	if _, err := r.GetCommit(object.HashBytes([]byte("no such commit"))); !errors.Is(err, object.ErrNotFound) {
		t.Fatalf("GetCommit of unknown digest: err = %v, want object.ErrNotFound", err)
	}

	// A stored object that is not a commit record is corrupt, not absent.
	blobID, err := r.Store.Put([]byte("just a blob"))
	if err != nil {
		t.Fatalf("Put: %v", err)
	}
	_, err = r.GetCommit(blobID)
	if !errors.Is(err, ErrCorruptCommit) {
		t.Fatalf("GetCommit of blob: err = %v, want ErrCorruptCommit", err)
	}
	if errors.Is(err, object.ErrNotFound) {
		t.Fatal("corrupt commit error must not match ErrNotFound")
	}
}

func TestCommit_Signed(t *testing.T) {
	r := newTestRepo(t)
	writeWorkFile(t, r, "a.txt", "hello")
	if _, err := r.Add([]string{"a.txt"}); err != nil {
		t.Fatalf("Add: %v", err)
	}

	var signedPayload []byte
	signer := func(payload []byte) (string, error) {
		signedPayload = append([]byte(nil), payload...)
		return "sig-test", nil
	}

	h, err := r.Commit("signed", CommitOptions{Author: "test", Signer: signer})
	if err != nil {
		t.Fatalf("Commit: %v", err)
	}
	c, err := r.GetCommit(h)
	if err != nil {
		t.Fatalf("GetCommit: %v", err)
	}
	if c.Signature != "sig-test" {
		t.Errorf("signature = %q, want %q", c.Signature, "sig-test")
	}

	payload, err := object.SigningPayload(c)
	if err != nil {
		t.Fatalf("SigningPayload: %v", err)
	}
	if string(payload) != string(signedPayload) {
		t.Error("stored record's signing payload differs from what was signed")
	}
}
