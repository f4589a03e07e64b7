package object

import (
	"bytes"
	"encoding/json"
	"fmt"
)

// FileEntry maps a repository path to the digest of its content. The staging
// index and each commit's file list are ordered sequences of these; order is
// preserved for display but carries no semantic weight.
type FileEntry struct {
	Path     string `json:"path"`
	ObjectID Hash   `json:"object_id"`
}

// Commit is one immutable record in the chain. Field order here is part of
// the canonical serialization; do not reorder.
//
// Parent is empty for the root commit. Signature is empty for unsigned
// commits and omitted from the canonical form so that unsigned hashing is
// unaffected by the field's existence.
type Commit struct {
	Timestamp int64       `json:"timestamp"`
	Author    string      `json:"author"`
	Message   string      `json:"message"`
	Files     []FileEntry `json:"files"`
	Parent    Hash        `json:"parent"`
	Signature string      `json:"signature,omitempty"`
}

// EncodeCommit produces the canonical byte form of a commit: compact JSON
// with the struct's declared key order. The commit id is the digest of
// exactly these bytes, so encoding the same record always yields the same
// bytes.
func EncodeCommit(c *Commit) ([]byte, error) {
	cc := *c
	if cc.Files == nil {
		cc.Files = []FileEntry{}
	}
	data, err := json.Marshal(&cc)
	if err != nil {
		return nil, fmt.Errorf("encode commit: %w", err)
	}
	return data, nil
}

// DecodeCommit parses canonical commit bytes. Parsing is strict: malformed
// JSON, unknown fields, or a record missing its required shape all fail, so
// a blob or a damaged object cannot silently pass as a commit.
func DecodeCommit(data []byte) (*Commit, error) {
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.DisallowUnknownFields()

	var c Commit
	if err := dec.Decode(&c); err != nil {
		return nil, fmt.Errorf("decode commit: %w", err)
	}
	if c.Timestamp == 0 || c.Files == nil {
		return nil, fmt.Errorf("decode commit: missing required fields")
	}
	return &c, nil
}

// HashCommit returns the commit id: the digest of the record's canonical
// form.
func HashCommit(c *Commit) (Hash, error) {
	data, err := EncodeCommit(c)
	if err != nil {
		return "", err
	}
	return HashBytes(data), nil
}

// SigningPayload returns the bytes a commit signature covers: the canonical
// form with the signature field cleared. Signing therefore commits to the
// timestamp, author, message, file list, and parent, but not to itself.
func SigningPayload(c *Commit) ([]byte, error) {
	cc := *c
	cc.Signature = ""
	return EncodeCommit(&cc)
}
