package market

import (
	"github.com/seradyn/gavel/ledger"
)

// Wire labels for the event journal.
const (
	LabelMarketInitialized = "market_initialized"
	LabelListingCreated    = "listing_created"
	LabelBidPlaced         = "bid_placed"
	LabelListingEnded      = "listing_ended"
	LabelUserCreated       = "user_created"
)

type Event interface {
	Label() string
}

type MarketInitialized struct {
	Marketplace ledger.Identity `json:"marketplace"`
	Admin       ledger.Identity `json:"admin"`
	Name        string          `json:"name"`
}

func (e *MarketInitialized) Label() string { return LabelMarketInitialized }

type ListingCreated struct {
	Listing ledger.Identity `json:"listing"`
	Asset   ledger.Identity `json:"asset"`
	Seller  ledger.Identity `json:"seller"`
	EndTime ledger.Slot     `json:"end_time"`
}

func (e *ListingCreated) Label() string { return LabelListingCreated }

type BidPlaced struct {
	Listing    ledger.Identity `json:"listing"`
	Bidder     ledger.Identity `json:"bidder"`
	CurrentBid uint64          `json:"current_bid"`
	EndTime    ledger.Slot     `json:"end_time"`
}

func (e *BidPlaced) Label() string { return LabelBidPlaced }

type ListingEnded struct {
	Listing ledger.Identity `json:"listing"`
	Winner  ledger.Identity `json:"winner"`
}

func (e *ListingEnded) Label() string { return LabelListingEnded }

type UserCreated struct {
	User  ledger.Identity `json:"user"`
	Owner ledger.Identity `json:"owner"`
}

func (e *UserCreated) Label() string { return LabelUserCreated }
