package model

import (
	"testing"
	"time"
)

func TestNewCommitDeterministic(t *testing.T) {
	date := time.Unix(1700000000, 0).UTC()
	root := TreeDir{
		Path: "",
		Files: []TreeFile{
			{Path: "b.txt", Hash: "h2", Size: 2},
			{Path: "a.txt", Hash: "h1", Size: 1},
		},
	}

	c1, err := NewCommit("msg", date, root, nil, nil, nil)
	if err != nil {
		t.Fatal(err)
	}
	c2, err := NewCommit("msg", date, root, nil, nil, nil)
	if err != nil {
		t.Fatal(err)
	}
	if c1.Hash != c2.Hash {
		t.Fatalf("expected deterministic hash, got %q and %q", c1.Hash, c2.Hash)
	}
	if len(c1.Hash) != 64 {
		t.Fatalf("expected 64-char hex hash, got %q", c1.Hash)
	}

	// child ordering must not affect the hash
	if c1.Root.Files[0].Path != "a.txt" {
		t.Fatalf("expected sorted children, got %v", c1.Root.Files)
	}
}

func TestNewCommitMessageChangesHash(t *testing.T) {
	date := time.Unix(0, 0).UTC()
	c1, _ := NewCommit("one", date, TreeDir{}, nil, nil, nil)
	c2, _ := NewCommit("two", date, TreeDir{}, nil, nil, nil)
	if c1.Hash == c2.Hash {
		t.Fatal("expected different hashes for different messages")
	}
}

func TestTreeDirFlatten(t *testing.T) {
	d := TreeDir{
		Files: []TreeFile{{Path: "a.txt"}},
		Children: []TreeDir{
			{Path: "sub", Files: []TreeFile{{Path: "sub/b.txt"}}},
		},
	}
	flat := d.Flatten()
	if _, ok := flat["a.txt"]; !ok {
		t.Error("missing a.txt")
	}
	if _, ok := flat["sub/b.txt"]; !ok {
		t.Error("missing sub/b.txt")
	}
}

func TestHeadAttached(t *testing.T) {
	if (Head{Name: HeadName}).Attached() {
		t.Error("detached head reported attached")
	}
	if !(Head{Name: "Main"}).Attached() {
		t.Error("attached head reported detached")
	}
}
