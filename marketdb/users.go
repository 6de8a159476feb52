package marketdb

import (
	"database/sql"

	"github.com/pkg/errors"

	"github.com/seradyn/gavel/ledger"
	"github.com/seradyn/gavel/market"
)

func CreateUser(tx Transactor, marketplace ledger.Identity, u *market.UserAccount) error {
	_, err := tx.Exec(`
INSERT INTO users(
	address,
	marketplace_address,
	owner,
	total_bids_placed,
	total_auctions_participated,
	total_auctions_won,
	total_auctions_created,
	points,
	bump
) VALUES(?, ?, ?, ?, ?, ?, ?, ?, ?)
`,
		u.Address(marketplace),
		marketplace,
		u.Owner,
		u.TotalBidsPlaced,
		u.TotalAuctionsParticipated,
		u.TotalAuctionsWon,
		u.TotalAuctionsCreated,
		u.Points,
		u.Bump,
	)
	return errors.WithStack(err)
}

func UpdateUser(tx Transactor, marketplace ledger.Identity, u *market.UserAccount) error {
	_, err := tx.Exec(`
UPDATE users SET
	total_bids_placed = ?,
	total_auctions_participated = ?,
	total_auctions_won = ?,
	total_auctions_created = ?,
	points = ?
WHERE address = ?
`,
		u.TotalBidsPlaced,
		u.TotalAuctionsParticipated,
		u.TotalAuctionsWon,
		u.TotalAuctionsCreated,
		u.Points,
		u.Address(marketplace),
	)
	return errors.WithStack(err)
}

func GetUser(tx Transactor, marketplace, owner ledger.Identity) (*market.UserAccount, error) {
	addr, _ := market.UserAccountAddress(marketplace, owner)
	row := tx.QueryRow(`
SELECT owner, total_bids_placed, total_auctions_participated,
	total_auctions_won, total_auctions_created, points, bump
FROM users WHERE address = ?
`, addr)

	u := new(market.UserAccount)
	err := row.Scan(
		&u.Owner,
		&u.TotalBidsPlaced,
		&u.TotalAuctionsParticipated,
		&u.TotalAuctionsWon,
		&u.TotalAuctionsCreated,
		&u.Points,
		&u.Bump,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, errors.WithStack(err)
	}
	return u, nil
}
