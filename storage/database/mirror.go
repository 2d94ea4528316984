package database

import (
	"encoding/json"
	"fmt"

	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"
	"github.com/pkg/errors"

	"github.com/dartalib/backend/storage/memstore"
)

// Mirror persists store writes into the keyed jsonb tables.
type Mirror struct {
	db *sqlx.DB
}

var _ memstore.Mirror = (*Mirror)(nil)

func NewMirror(db *sqlx.DB) *Mirror {
	return &Mirror{db: db}
}

func (m *Mirror) Insert(table, id string, v interface{}) error {
	data, err := json.Marshal(v)
	if err != nil {
		return errors.Wrap(err, "marshaling row")
	}
	q := fmt.Sprintf("INSERT INTO %s (id, data) VALUES ($1, $2)", pq.QuoteIdentifier(table))
	_, err = m.db.Exec(q, id, data)
	return errors.Wrapf(err, "inserting into %s", table)
}

func (m *Mirror) Update(table, id string, v interface{}) error {
	data, err := json.Marshal(v)
	if err != nil {
		return errors.Wrap(err, "marshaling row")
	}
	q := fmt.Sprintf("UPDATE %s SET data = $2 WHERE id = $1", pq.QuoteIdentifier(table))
	res, err := m.db.Exec(q, id, data)
	if err != nil {
		return errors.Wrapf(err, "updating %s", table)
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return errors.Errorf("updating %s: row %s not found", table, id)
	}
	return nil
}

func (m *Mirror) Upsert(table, id string, v interface{}) error {
	data, err := json.Marshal(v)
	if err != nil {
		return errors.Wrap(err, "marshaling row")
	}
	q := fmt.Sprintf(
		"INSERT INTO %s (id, data) VALUES ($1, $2) ON CONFLICT (id) DO UPDATE SET data = EXCLUDED.data",
		pq.QuoteIdentifier(table),
	)
	_, err = m.db.Exec(q, id, data)
	return errors.Wrapf(err, "upserting into %s", table)
}

func (m *Mirror) Delete(table, id string) error {
	q := fmt.Sprintf("DELETE FROM %s WHERE id = $1", pq.QuoteIdentifier(table))
	_, err := m.db.Exec(q, id)
	return errors.Wrapf(err, "deleting from %s", table)
}

func (m *Mirror) SelectAll(table string) ([]memstore.MirrorRow, error) {
	var rows []struct {
		ID   string `db:"id"`
		Data []byte `db:"data"`
	}
	q := fmt.Sprintf("SELECT id, data FROM %s", pq.QuoteIdentifier(table))
	if err := m.db.Select(&rows, q); err != nil {
		return nil, errors.Wrapf(err, "selecting from %s", table)
	}

	out := make([]memstore.MirrorRow, 0, len(rows))
	for _, row := range rows {
		out = append(out, memstore.MirrorRow{ID: row.ID, Data: row.Data})
	}
	return out, nil
}
