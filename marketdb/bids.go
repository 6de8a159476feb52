package marketdb

import (
	"github.com/pkg/errors"

	"github.com/seradyn/gavel/ledger"
)

// RecordBid appends an accepted bid to the journal. bidAfter and
// endTimeAfter are the listing's values after the bid was applied.
func RecordBid(tx Transactor, listing, bidder ledger.Identity, bidAfter uint64, endTimeAfter, slot ledger.Slot) error {
	_, err := tx.Exec(`
INSERT INTO bids(listing_address, bidder, bid_after, end_time_after, slot)
VALUES(?, ?, ?, ?, ?)
`,
		listing,
		bidder,
		bidAfter,
		uint64(endTimeAfter),
		uint64(slot),
	)
	return errors.WithStack(err)
}

// HasBidOnListing reports whether the bidder appears in the listing's
// journal. Drives the auctions-participated counter.
func HasBidOnListing(tx Transactor, listing, bidder ledger.Identity) (bool, error) {
	row := tx.QueryRow(
		"SELECT COUNT(*) FROM bids WHERE listing_address = ? AND bidder = ?",
		listing,
		bidder,
	)
	var count int
	if err := row.Scan(&count); err != nil {
		return false, errors.WithStack(err)
	}
	return count > 0, nil
}

func CountBids(tx Transactor, listing ledger.Identity) (int, error) {
	row := tx.QueryRow("SELECT COUNT(*) FROM bids WHERE listing_address = ?", listing)
	var count int
	if err := row.Scan(&count); err != nil {
		return 0, errors.WithStack(err)
	}
	return count, nil
}
