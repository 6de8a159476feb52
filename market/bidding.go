package market

import (
	"github.com/pkg/errors"

	"github.com/seradyn/gavel/ledger"
)

// PlaceBid applies the client-supplied compare-and-swap bid
// transition. The caller passes the highestBidder/currentBid pair it
// last observed; a mismatch means another bid landed since that read
// and the transition is rejected rather than silently bidding a
// different amount than the client displayed. The expected values are
// untrusted input, validated and never used as state.
//
// On success: currentBid rises by exactly one increment, the bidder
// becomes highest, and endTime is pushed out by the timer extension
// with no cap. The per-bid credit debit is the caller's to perform
// alongside this transition.
func (l *Listing) PlaceBid(
	bidder ledger.Identity,
	expectedHighestBidder ledger.Identity,
	expectedCurrentBid uint64,
	now ledger.Slot,
) error {
	if !l.IsActive {
		return errors.WithStack(ErrAuctionInactive)
	}
	if now < l.StartTime {
		return errors.WithStack(ErrAuctionNotStarted)
	}
	if now > l.EndTime {
		return errors.WithStack(ErrAuctionExpired)
	}
	if bidder.Equal(l.HighestBidder) {
		return errors.WithStack(ErrBidderIsHighestBidder)
	}
	if !expectedHighestBidder.Equal(l.HighestBidder) || expectedCurrentBid != l.CurrentBid {
		return errors.WithStack(ErrInvalidCurrentHighestBidderAndPrice)
	}

	l.CurrentBid += l.BidIncrement
	l.HighestBidder = bidder
	l.EndTime += l.TimerExtension
	return nil
}
