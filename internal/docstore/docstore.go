// Package docstore is a transactional key-document store.
//
// Documents are JSON objects addressed by a collection and an id. Reads and
// writes inside RunTransaction are applied atomically: every document read in
// the transaction must be unchanged when the buffered writes commit, otherwise
// the attempt is discarded and the transaction function runs again with fresh
// reads. Storage engines (memory, postgres) implement Engine; Client adds the
// transaction handle and the retry policy on top.
package docstore

import (
	"context"
	"errors"
	"fmt"

	json "github.com/goccy/go-json"
)

var (
	// ErrNotFound is returned when an update targets a missing document.
	ErrNotFound = errors.New("document not found")
	// ErrAlreadyExists is returned when a create targets an existing document.
	ErrAlreadyExists = errors.New("document already exists")
	// ErrInvalidDocument is returned when a document does not decode into the requested type.
	ErrInvalidDocument = errors.New("invalid document")
	// ErrInvalidRef is returned for refs with an empty collection or id.
	ErrInvalidRef = errors.New("invalid document reference")
	// ErrReadAfterWrite is returned when a transaction reads after it has written.
	ErrReadAfterWrite = errors.New("transaction reads must precede writes")
	// ErrConflict aborts a single commit attempt whose reads went stale.
	ErrConflict = errors.New("document changed during transaction")
	// ErrTransactionConflict is returned once every attempt has conflicted.
	ErrTransactionConflict = errors.New("transaction conflict: retries exhausted")
)

// Ref addresses a single document.
type Ref struct {
	Collection string
	ID         string
}

// NewRef returns the ref of document id in collection.
func NewRef(collection, id string) Ref {
	return Ref{Collection: collection, ID: id}
}

func (r Ref) String() string {
	return r.Collection + "/" + r.ID
}

// Validate rejects refs that cannot address a document.
func (r Ref) Validate() error {
	if r.Collection == "" || r.ID == "" {
		return fmt.Errorf("%w: %q", ErrInvalidRef, r.String())
	}
	return nil
}

// Less orders refs by collection, then id. Engines lock in this order.
func (r Ref) Less(other Ref) bool {
	if r.Collection != other.Collection {
		return r.Collection < other.Collection
	}
	return r.ID < other.ID
}

// Snapshot is a document as read at a given version.
// A missing document has nil Data and Version 0.
type Snapshot struct {
	Ref     Ref
	Version int64
	Data    []byte
}

// Exists reports whether the document was present when read.
func (s *Snapshot) Exists() bool {
	return s != nil && s.Data != nil
}

// DataTo decodes the document body into v.
func (s *Snapshot) DataTo(v any) error {
	if !s.Exists() {
		return fmt.Errorf("%w: %s", ErrNotFound, s.Ref)
	}
	if err := json.Unmarshal(s.Data, v); err != nil {
		return fmt.Errorf("%w: %s: %v", ErrInvalidDocument, s.Ref, err)
	}
	return nil
}

// Direction is a query sort direction.
type Direction int

const (
	Asc Direction = iota
	Desc
)

// Filter matches documents whose top-level Field equals Value.
type Filter struct {
	Field string
	Value string
}

// Query selects documents from one collection.
type Query struct {
	Collection string
	Filters    []Filter
	// OrderBy names a top-level field; ties and unordered queries sort by id.
	OrderBy   string
	Direction Direction
	Offset    int
	// Limit of 0 means no limit.
	Limit int
}

// Where returns a copy of q with an additional equality filter.
func (q Query) Where(field, value string) Query {
	q.Filters = append(append([]Filter(nil), q.Filters...), Filter{Field: field, Value: value})
	return q
}

// TxFunc is the body of a transaction. It may run more than once and must
// not keep state outside the handle between runs.
type TxFunc func(ctx context.Context, tx Tx) error

// Tx is the transaction-scoped read/write handle.
type Tx interface {
	Get(ctx context.Context, ref Ref) (*Snapshot, error)
	Create(ref Ref, v any) error
	Set(ref Ref, v any) error
	Update(ref Ref, updates ...Update) error
	Delete(ref Ref) error
}

// Store is the document store used by services.
type Store interface {
	Get(ctx context.Context, ref Ref) (*Snapshot, error)
	Query(ctx context.Context, q Query) ([]*Snapshot, error)
	RunTransaction(ctx context.Context, fn TxFunc) error
	Close() error
}

// ReadVersion records the version a transaction observed for a document.
type ReadVersion struct {
	Ref     Ref
	Version int64
}

// Engine is a storage backend.
//
// Commit must atomically verify that every ReadVersion still matches
// (returning ErrConflict otherwise) and apply writes in order using ApplyWrite.
type Engine interface {
	Read(ctx context.Context, ref Ref) (*Snapshot, error)
	Query(ctx context.Context, q Query) ([]*Snapshot, error)
	Commit(ctx context.Context, reads []ReadVersion, writes []Write) error
	Close() error
}
