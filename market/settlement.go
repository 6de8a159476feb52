package market

import (
	"github.com/pkg/errors"

	"github.com/seradyn/gavel/ledger"
)

// SettlementOutcome describes the fund and asset movements a
// settlement requires. The caller executes them against the token
// ledger; the listing itself is already closed when this returns.
type SettlementOutcome struct {
	// Winner is zero when the auction expired without bids.
	Winner ledger.Identity `json:"winner"`

	// PriceToTreasury is the full final price, paid by the winner.
	// Zero when there was no bidder. Observed behavior sweeps the
	// whole amount to the treasury with no seller split.
	PriceToTreasury uint64 `json:"price_to_treasury"`

	// AssetRecipient receives the escrowed asset: the winner, or the
	// seller when nobody bid.
	AssetRecipient ledger.Identity `json:"asset_recipient"`
}

// Settle terminates an expired listing. It cannot run early and it
// cannot run twice: once isActive flips false it stays false.
func (l *Listing) Settle(now ledger.Slot) (*SettlementOutcome, error) {
	if !l.IsActive {
		return nil, errors.WithStack(ErrAlreadySettled)
	}
	if now < l.EndTime {
		return nil, errors.WithStack(ErrAuctionNotYetExpired)
	}

	out := &SettlementOutcome{}
	if l.HasBids() {
		out.Winner = l.HighestBidder
		out.PriceToTreasury = l.CurrentBid
		out.AssetRecipient = l.HighestBidder
	} else {
		out.AssetRecipient = l.Seller
	}

	l.IsActive = false
	return out, nil
}

// BuyoutOutcome describes the movements for an outright purchase at
// the listing's buyout price: the fee share goes to the treasury and
// the remainder to the seller.
type BuyoutOutcome struct {
	Buyer          ledger.Identity `json:"buyer"`
	FeeToTreasury  uint64          `json:"fee_to_treasury"`
	PriceToSeller  uint64          `json:"price_to_seller"`
	AssetRecipient ledger.Identity `json:"asset_recipient"`
}

// Buyout closes an active listing at its buyout price. feeBasisPoints
// is the marketplace's configured rate.
func (l *Listing) Buyout(buyer ledger.Identity, feeBasisPoints uint16) (*BuyoutOutcome, error) {
	if !l.IsActive {
		return nil, errors.WithStack(ErrAuctionInactive)
	}
	if l.BuyoutPrice == 0 {
		return nil, errors.WithStack(ErrNoBuyoutPrice)
	}

	fee := l.BuyoutPrice * uint64(feeBasisPoints) / MaxFeeBasisPoints
	out := &BuyoutOutcome{
		Buyer:          buyer,
		FeeToTreasury:  fee,
		PriceToSeller:  l.BuyoutPrice - fee,
		AssetRecipient: buyer,
	}

	l.IsActive = false
	return out, nil
}
