package marketdb

import (
	"database/sql"

	"github.com/pkg/errors"

	"github.com/seradyn/gavel/ledger"
	"github.com/seradyn/gavel/market"
)

const listingSelect = `
SELECT
	marketplace_address,
	asset,
	seller,
	bid_cost,
	bid_increment,
	current_bid,
	highest_bidder,
	timer_extension,
	start_time,
	end_time,
	is_active,
	buyout_price,
	seed,
	bump
FROM listings
`

// ListingRow pairs a domain listing with the marketplace it belongs
// to; the wire record keys listings by derived address, the store
// keeps the parent explicit.
type ListingRow struct {
	Marketplace ledger.Identity
	Listing     *market.Listing
}

func CreateListing(tx Transactor, marketplace ledger.Identity, l *market.Listing) error {
	_, err := tx.Exec(`
INSERT INTO listings(
	address,
	marketplace_address,
	asset,
	seller,
	bid_cost,
	bid_increment,
	current_bid,
	highest_bidder,
	timer_extension,
	start_time,
	end_time,
	is_active,
	buyout_price,
	seed,
	bump
) VALUES(?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
`,
		l.Address(marketplace),
		marketplace,
		l.Asset,
		l.Seller,
		l.BidCost,
		l.BidIncrement,
		l.CurrentBid,
		bidderValue(l.HighestBidder),
		uint64(l.TimerExtension),
		uint64(l.StartTime),
		uint64(l.EndTime),
		l.IsActive,
		l.BuyoutPrice,
		int64(l.Seed),
		l.Bump,
	)
	return errors.WithStack(err)
}

// UpdateListing persists the mutable fields after an accepted bid or
// a settlement.
func UpdateListing(tx Transactor, addr ledger.Identity, l *market.Listing) error {
	_, err := tx.Exec(`
UPDATE listings SET
	current_bid = ?,
	highest_bidder = ?,
	end_time = ?,
	is_active = ?
WHERE address = ?
`,
		l.CurrentBid,
		bidderValue(l.HighestBidder),
		uint64(l.EndTime),
		l.IsActive,
		addr,
	)
	return errors.WithStack(err)
}

func GetListing(tx Transactor, addr ledger.Identity) (*ListingRow, error) {
	row := tx.QueryRow(listingSelect+" WHERE address = ?", addr)
	out, err := scanListingRow(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	return out, err
}

// GetExpiredActiveListings returns active listings whose deadline has
// passed as of the given slot. The expiry monitor uses it; nothing is
// auto-settled.
func GetExpiredActiveListings(tx Transactor, now ledger.Slot) ([]*ListingRow, error) {
	rows, err := tx.Query(listingSelect+" WHERE is_active AND end_time < ?", uint64(now))
	if err != nil {
		return nil, errors.WithStack(err)
	}
	defer rows.Close()

	var out []*ListingRow
	for rows.Next() {
		l, err := scanListingRow(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, l)
	}
	return out, errors.WithStack(rows.Err())
}

func scanListingRow(scanner Scanner) (*ListingRow, error) {
	row := new(ListingRow)
	l := new(market.Listing)
	var bidder sql.NullString
	var timerExt, start, end uint64
	var seed int64

	err := scanner.Scan(
		&row.Marketplace,
		&l.Asset,
		&l.Seller,
		&l.BidCost,
		&l.BidIncrement,
		&l.CurrentBid,
		&bidder,
		&timerExt,
		&start,
		&end,
		&l.IsActive,
		&l.BuyoutPrice,
		&seed,
		&l.Bump,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, err
		}
		return nil, errors.WithStack(err)
	}

	if bidder.Valid {
		id, err := ledger.NewIdentityFromHex(bidder.String)
		if err != nil {
			return nil, err
		}
		l.HighestBidder = id
	}
	l.TimerExtension = ledger.Slot(timerExt)
	l.StartTime = ledger.Slot(start)
	l.EndTime = ledger.Slot(end)
	l.Seed = uint64(seed)
	row.Listing = l
	return row, nil
}

func bidderValue(id ledger.Identity) interface{} {
	if id.IsZero() {
		return nil
	}
	return id
}
