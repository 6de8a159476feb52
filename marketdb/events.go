package marketdb

import (
	"encoding/json"
	"time"

	"github.com/pkg/errors"

	"github.com/seradyn/gavel/ledger"
	"github.com/seradyn/gavel/market"
)

type EventRow struct {
	ID      int64           `json:"id"`
	Label   string          `json:"label"`
	Payload json.RawMessage `json:"payload"`
	Slot    ledger.Slot     `json:"slot"`
}

func RecordEvent(tx Transactor, ev market.Event, slot ledger.Slot) error {
	payload, err := json.Marshal(ev)
	if err != nil {
		return errors.WithStack(err)
	}
	_, err = tx.Exec(
		"INSERT INTO events(label, payload, slot, created_at) VALUES(?, ?, ?, ?)",
		ev.Label(),
		payload,
		uint64(slot),
		time.Now().Unix(),
	)
	return errors.WithStack(err)
}

// GetEvents returns journal entries newest-first, optionally filtered
// by label. Label "" means all.
func GetEvents(tx Transactor, label string, count int) ([]*EventRow, error) {
	q := "SELECT id, label, payload, slot FROM events"
	var args []interface{}
	if label != "" {
		q += " WHERE label = ?"
		args = append(args, label)
	}
	q += " ORDER BY id DESC LIMIT ?"
	args = append(args, count)

	rows, err := tx.Query(q, args...)
	if err != nil {
		return nil, errors.WithStack(err)
	}
	defer rows.Close()

	var out []*EventRow
	for rows.Next() {
		row := new(EventRow)
		var payload []byte
		var slot uint64
		if err := rows.Scan(&row.ID, &row.Label, &payload, &slot); err != nil {
			return nil, errors.WithStack(err)
		}
		row.Payload = json.RawMessage(payload)
		row.Slot = ledger.Slot(slot)
		out = append(out, row)
	}
	return out, errors.WithStack(rows.Err())
}
