// Package postgres is a docstore engine over a single JSONB table.
package postgres

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strconv"
	"strings"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"

	"github.com/dtroode/trivia-server/internal/docstore"
)

const (
	codeSerializationFailure = "40001"
	codeDeadlockDetected     = "40P01"
	codeUniqueViolation      = "23505"
)

// Engine stores every document as a row of the documents table. Commit locks
// the touched rows in ref order and compares their versions with the ones the
// transaction observed.
type Engine struct {
	conn *Connection
}

var _ docstore.Engine = (*Engine)(nil)

// NewEngine creates an Engine over conn.
func NewEngine(conn *Connection) *Engine {
	return &Engine{conn: conn}
}

func (e *Engine) Read(ctx context.Context, ref docstore.Ref) (*docstore.Snapshot, error) {
	query := `SELECT data, version FROM documents WHERE collection = $1 AND id = $2`

	snap := &docstore.Snapshot{Ref: ref}
	err := e.conn.QueryRow(ctx, query, ref.Collection, ref.ID).Scan(&snap.Data, &snap.Version)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return &docstore.Snapshot{Ref: ref}, nil
		}
		return nil, fmt.Errorf("failed to read %s: %w", ref, err)
	}

	return snap, nil
}

func (e *Engine) Query(ctx context.Context, q docstore.Query) ([]*docstore.Snapshot, error) {
	query, args := buildQuery(q)

	rows, err := e.conn.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query %s: %w", q.Collection, err)
	}
	defer rows.Close()

	out := []*docstore.Snapshot{}
	for rows.Next() {
		snap := &docstore.Snapshot{Ref: docstore.Ref{Collection: q.Collection}}
		if err := rows.Scan(&snap.Ref.ID, &snap.Data, &snap.Version); err != nil {
			return nil, fmt.Errorf("failed to scan %s row: %w", q.Collection, err)
		}
		out = append(out, snap)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate %s rows: %w", q.Collection, err)
	}

	return out, nil
}

type row struct {
	data    []byte
	version int64
}

func (e *Engine) Commit(ctx context.Context, reads []docstore.ReadVersion, writes []docstore.Write) (err error) {
	tx, err := e.conn.Begin(ctx)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer func() {
		if err != nil {
			_ = tx.Rollback(ctx)
		}
	}()

	locked, err := lockRows(ctx, tx, touchedRefs(reads, writes))
	if err != nil {
		return mapError(err)
	}

	for _, r := range reads {
		if locked[r.Ref].version != r.Version {
			return fmt.Errorf("%w: %s", docstore.ErrConflict, r.Ref)
		}
	}

	staged := make(map[docstore.Ref][]byte)
	var order []docstore.Ref
	for _, w := range writes {
		current, ok := staged[w.Ref]
		if !ok {
			current = locked[w.Ref].data
			order = append(order, w.Ref)
		}

		next, applyErr := docstore.ApplyWrite(current, w)
		if applyErr != nil {
			return applyErr
		}
		staged[w.Ref] = next
	}

	for _, ref := range order {
		if err = persist(ctx, tx, ref, locked[ref].data != nil, staged[ref]); err != nil {
			return mapError(err)
		}
	}

	if err = tx.Commit(ctx); err != nil {
		return mapError(fmt.Errorf("failed to commit transaction: %w", err))
	}

	return nil
}

func (e *Engine) Close() error {
	return e.conn.Close()
}

func lockRows(ctx context.Context, tx pgx.Tx, refs []docstore.Ref) (map[docstore.Ref]row, error) {
	query := `SELECT data, version FROM documents WHERE collection = $1 AND id = $2 FOR UPDATE`

	locked := make(map[docstore.Ref]row, len(refs))
	for _, ref := range refs {
		var r row
		err := tx.QueryRow(ctx, query, ref.Collection, ref.ID).Scan(&r.data, &r.version)
		if err != nil && !errors.Is(err, pgx.ErrNoRows) {
			return nil, fmt.Errorf("failed to lock %s: %w", ref, err)
		}
		locked[ref] = r
	}

	return locked, nil
}

func persist(ctx context.Context, tx pgx.Tx, ref docstore.Ref, existed bool, data []byte) error {
	var (
		query string
		args  []any
	)

	switch {
	case data == nil && !existed:
		return nil
	case data == nil:
		query = `DELETE FROM documents WHERE collection = $1 AND id = $2`
		args = []any{ref.Collection, ref.ID}
	case existed:
		query = `UPDATE documents SET data = $3, version = nextval('documents_version_seq'), updated_at = NOW()
			WHERE collection = $1 AND id = $2`
		args = []any{ref.Collection, ref.ID, data}
	default:
		query = `INSERT INTO documents (collection, id, data) VALUES ($1, $2, $3)`
		args = []any{ref.Collection, ref.ID, data}
	}

	if _, err := tx.Exec(ctx, query, args...); err != nil {
		return fmt.Errorf("failed to write %s: %w", ref, err)
	}
	return nil
}

// touchedRefs returns the distinct refs of reads and writes in lock order.
func touchedRefs(reads []docstore.ReadVersion, writes []docstore.Write) []docstore.Ref {
	seen := make(map[docstore.Ref]struct{}, len(reads)+len(writes))
	var refs []docstore.Ref

	add := func(ref docstore.Ref) {
		if _, ok := seen[ref]; ok {
			return
		}
		seen[ref] = struct{}{}
		refs = append(refs, ref)
	}
	for _, r := range reads {
		add(r.Ref)
	}
	for _, w := range writes {
		add(w.Ref)
	}

	sort.Slice(refs, func(i, j int) bool { return refs[i].Less(refs[j]) })
	return refs
}

func buildQuery(q docstore.Query) (string, []any) {
	var b strings.Builder
	args := []any{q.Collection}

	b.WriteString(`SELECT id, data, version FROM documents WHERE collection = $1`)
	for _, f := range q.Filters {
		args = append(args, f.Field, f.Value)
		fmt.Fprintf(&b, ` AND data->>$%d::text = $%d`, len(args)-1, len(args))
	}

	b.WriteString(` ORDER BY `)
	if q.OrderBy != "" {
		args = append(args, q.OrderBy)
		fmt.Fprintf(&b, `(data->>$%d::text) COLLATE "C"`, len(args))
		if q.Direction == docstore.Desc {
			b.WriteString(` DESC`)
		}
		b.WriteString(`, `)
	}
	b.WriteString(`id COLLATE "C"`)

	if q.Limit > 0 {
		b.WriteString(` LIMIT ` + strconv.Itoa(q.Limit))
	}
	if q.Offset > 0 {
		b.WriteString(` OFFSET ` + strconv.Itoa(q.Offset))
	}

	return b.String(), args
}

func isRetryable(err error) bool {
	var pgErr *pgconn.PgError
	if !errors.As(err, &pgErr) {
		return false
	}
	switch pgErr.Code {
	case codeSerializationFailure, codeDeadlockDetected, codeUniqueViolation:
		return true
	}
	return false
}

func mapError(err error) error {
	if isRetryable(err) {
		return fmt.Errorf("%w: %v", docstore.ErrConflict, err)
	}
	return err
}
