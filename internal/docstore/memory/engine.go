// Package memory is an in-process docstore engine.
package memory

import (
	"context"
	"fmt"
	"slices"
	"sort"
	"sync"

	"github.com/tidwall/gjson"

	"github.com/dtroode/trivia-server/internal/docstore"
)

type document struct {
	data    []byte
	version int64
}

// Engine keeps documents in a map guarded by a single lock. Versions come
// from one counter so a deleted and recreated document never reuses one.
type Engine struct {
	mu   sync.RWMutex
	docs map[docstore.Ref]document
	seq  int64
}

var _ docstore.Engine = (*Engine)(nil)

// New creates an empty Engine.
func New() *Engine {
	return &Engine{docs: make(map[docstore.Ref]document)}
}

// Read returns a copy of the document at ref.
func (e *Engine) Read(ctx context.Context, ref docstore.Ref) (*docstore.Snapshot, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	e.mu.RLock()
	defer e.mu.RUnlock()

	doc, ok := e.docs[ref]
	if !ok {
		return &docstore.Snapshot{Ref: ref}, nil
	}
	return &docstore.Snapshot{Ref: ref, Version: doc.version, Data: slices.Clone(doc.data)}, nil
}

// Query scans the collection, filters, sorts and pages in memory.
func (e *Engine) Query(ctx context.Context, q docstore.Query) ([]*docstore.Snapshot, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	e.mu.RLock()
	var out []*docstore.Snapshot
	for ref, doc := range e.docs {
		if ref.Collection != q.Collection || !matches(doc.data, q.Filters) {
			continue
		}
		out = append(out, &docstore.Snapshot{Ref: ref, Version: doc.version, Data: slices.Clone(doc.data)})
	}
	e.mu.RUnlock()

	sort.Slice(out, func(i, j int) bool {
		if q.OrderBy != "" {
			a := gjson.GetBytes(out[i].Data, q.OrderBy).String()
			b := gjson.GetBytes(out[j].Data, q.OrderBy).String()
			if a != b {
				if q.Direction == docstore.Desc {
					return a > b
				}
				return a < b
			}
		}
		return out[i].Ref.ID < out[j].Ref.ID
	})

	if q.Offset > 0 {
		if q.Offset >= len(out) {
			return []*docstore.Snapshot{}, nil
		}
		out = out[q.Offset:]
	}
	if q.Limit > 0 && len(out) > q.Limit {
		out = out[:q.Limit]
	}
	if out == nil {
		out = []*docstore.Snapshot{}
	}

	return out, nil
}

// Commit validates read versions and applies writes under the write lock.
func (e *Engine) Commit(ctx context.Context, reads []docstore.ReadVersion, writes []docstore.Write) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	e.mu.Lock()
	defer e.mu.Unlock()

	for _, r := range reads {
		if e.docs[r.Ref].version != r.Version {
			return fmt.Errorf("%w: %s", docstore.ErrConflict, r.Ref)
		}
	}

	staged := make(map[docstore.Ref][]byte)
	var order []docstore.Ref
	for _, w := range writes {
		current, ok := staged[w.Ref]
		if !ok {
			current = e.docs[w.Ref].data
			order = append(order, w.Ref)
		}

		next, err := docstore.ApplyWrite(current, w)
		if err != nil {
			return err
		}
		staged[w.Ref] = next
	}

	for _, ref := range order {
		data := staged[ref]
		if data == nil {
			delete(e.docs, ref)
			continue
		}
		e.seq++
		e.docs[ref] = document{data: data, version: e.seq}
	}

	return nil
}

// Close is a no-op.
func (e *Engine) Close() error {
	return nil
}

func matches(data []byte, filters []docstore.Filter) bool {
	for _, f := range filters {
		v := gjson.GetBytes(data, f.Field)
		if !v.Exists() || v.String() != f.Value {
			return false
		}
	}
	return true
}
