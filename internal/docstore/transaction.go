package docstore

import (
	"context"
	"fmt"

	json "github.com/goccy/go-json"
)

// transaction buffers writes and records read versions for one attempt.
type transaction struct {
	engine Engine
	reads  map[Ref]int64
	order  []Ref
	writes []Write
}

var _ Tx = (*transaction)(nil)

func newTransaction(engine Engine) *transaction {
	return &transaction{
		engine: engine,
		reads:  make(map[Ref]int64),
	}
}

func (t *transaction) Get(ctx context.Context, ref Ref) (*Snapshot, error) {
	if err := ref.Validate(); err != nil {
		return nil, err
	}
	if len(t.writes) > 0 {
		return nil, fmt.Errorf("%w: get %s", ErrReadAfterWrite, ref)
	}

	snap, err := t.engine.Read(ctx, ref)
	if err != nil {
		return nil, err
	}

	// The first observation is the one validated at commit.
	if _, seen := t.reads[ref]; !seen {
		t.reads[ref] = snap.Version
		t.order = append(t.order, ref)
	}

	return snap, nil
}

func (t *transaction) Create(ref Ref, v any) error {
	return t.put(ref, WriteCreate, v)
}

func (t *transaction) Set(ref Ref, v any) error {
	return t.put(ref, WriteSet, v)
}

func (t *transaction) Update(ref Ref, updates ...Update) error {
	if err := ref.Validate(); err != nil {
		return err
	}
	for _, u := range updates {
		if u.Path == "" {
			return fmt.Errorf("%w: %s", ErrInvalidUpdate, ref)
		}
	}
	t.writes = append(t.writes, Write{Ref: ref, Kind: WriteUpdate, Updates: updates})
	return nil
}

func (t *transaction) Delete(ref Ref) error {
	if err := ref.Validate(); err != nil {
		return err
	}
	t.writes = append(t.writes, Write{Ref: ref, Kind: WriteDelete})
	return nil
}

func (t *transaction) put(ref Ref, kind WriteKind, v any) error {
	if err := ref.Validate(); err != nil {
		return err
	}
	data, err := json.Marshal(v)
	if err != nil {
		return fmt.Errorf("encode %s: %w", ref, err)
	}
	t.writes = append(t.writes, Write{Ref: ref, Kind: kind, Data: data})
	return nil
}

func (t *transaction) readSet() []ReadVersion {
	out := make([]ReadVersion, 0, len(t.order))
	for _, ref := range t.order {
		out = append(out, ReadVersion{Ref: ref, Version: t.reads[ref]})
	}
	return out
}
