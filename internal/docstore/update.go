package docstore

import (
	"errors"
	"fmt"
	"slices"

	"github.com/tidwall/gjson"
	"github.com/tidwall/sjson"
)

// ErrInvalidUpdate is returned for updates without a field path.
var ErrInvalidUpdate = errors.New("invalid field update")

// Update sets the field at Path. Value is either a plain JSON-encodable
// value or one of the transforms returned by Increment, ArrayUnion and
// ArrayRemove.
type Update struct {
	Path  string
	Value any
}

type increment struct{ by int64 }

type arrayUnion struct{ values []string }

type arrayRemove struct{ values []string }

// Increment adds n to a numeric field. A missing or non-numeric field counts as 0.
func Increment(n int64) any {
	return increment{by: n}
}

// ArrayUnion adds each value to an array field unless already present.
// A missing or non-array field is replaced by the values.
func ArrayUnion(values ...string) any {
	return arrayUnion{values: values}
}

// ArrayRemove removes every occurrence of each value from an array field.
// A missing or non-array field becomes an empty array.
func ArrayRemove(values ...string) any {
	return arrayRemove{values: values}
}

// WriteKind is the kind of a buffered write.
type WriteKind int

const (
	WriteCreate WriteKind = iota
	WriteSet
	WriteUpdate
	WriteDelete
)

func (k WriteKind) String() string {
	switch k {
	case WriteCreate:
		return "create"
	case WriteSet:
		return "set"
	case WriteUpdate:
		return "update"
	case WriteDelete:
		return "delete"
	default:
		return "unknown"
	}
}

// Write is a single buffered mutation.
type Write struct {
	Ref     Ref
	Kind    WriteKind
	Data    []byte
	Updates []Update
}

// ApplyWrite returns the body of the document after w, given its current
// body (nil when missing). A nil result means the document is deleted.
func ApplyWrite(current []byte, w Write) ([]byte, error) {
	switch w.Kind {
	case WriteCreate:
		if current != nil {
			return nil, fmt.Errorf("%w: %s", ErrAlreadyExists, w.Ref)
		}
		return w.Data, nil
	case WriteSet:
		return w.Data, nil
	case WriteUpdate:
		if current == nil {
			return nil, fmt.Errorf("%w: %s", ErrNotFound, w.Ref)
		}
		return ApplyUpdates(current, w.Updates)
	case WriteDelete:
		return nil, nil
	default:
		return nil, fmt.Errorf("unknown write kind %d for %s", w.Kind, w.Ref)
	}
}

// ApplyUpdates applies field updates to a JSON document and returns the
// new body. The input is not modified.
func ApplyUpdates(data []byte, updates []Update) ([]byte, error) {
	out := slices.Clone(data)

	for _, u := range updates {
		if u.Path == "" {
			return nil, ErrInvalidUpdate
		}

		var (
			value any
			err   error
		)
		cur := gjson.GetBytes(out, u.Path)

		switch t := u.Value.(type) {
		case increment:
			var base int64
			if cur.Type == gjson.Number {
				base = cur.Int()
			}
			value = base + t.by
		case arrayUnion:
			value = unionValues(cur, t.values)
		case arrayRemove:
			value = removeValues(cur, t.values)
		default:
			value = u.Value
		}

		out, err = sjson.SetBytes(out, u.Path, value)
		if err != nil {
			return nil, fmt.Errorf("set %q: %w", u.Path, err)
		}
	}

	return out, nil
}

func unionValues(cur gjson.Result, values []string) []any {
	out := make([]any, 0, len(values))
	seen := make(map[string]struct{})

	if cur.IsArray() {
		for _, elem := range cur.Array() {
			out = append(out, elem.Value())
			if elem.Type == gjson.String {
				seen[elem.Str] = struct{}{}
			}
		}
	}

	for _, v := range values {
		if _, ok := seen[v]; ok {
			continue
		}
		seen[v] = struct{}{}
		out = append(out, v)
	}

	return out
}

func removeValues(cur gjson.Result, values []string) []any {
	out := []any{}
	if !cur.IsArray() {
		return out
	}

	for _, elem := range cur.Array() {
		if elem.Type == gjson.String && slices.Contains(values, elem.Str) {
			continue
		}
		out = append(out, elem.Value())
	}

	return out
}
