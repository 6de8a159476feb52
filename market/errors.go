package market

import (
	"github.com/pkg/errors"
)

// Validation errors: rejected before any state mutation, retriable
// after correcting input.
var (
	ErrMarketplaceNameInvalid = errors.New("marketplace name must be 1-32 characters")
	ErrInvalidFeeRate         = errors.New("fee rate must be between 0 and 10000 basis points")
	ErrInvalidTierSchedule    = errors.New("tier schedule must contain tiers 1 through 3 in order")
	ErrInvalidTier            = errors.New("no such mint tier")
	ErrInvalidDuration        = errors.New("auction duration must be greater than zero")
	ErrInvalidBidIncrement    = errors.New("bid increment must be greater than zero")
	ErrInvalidAsset           = errors.New("asset ownership or collection verification failed")
	ErrNoBuyoutPrice          = errors.New("listing has no buyout price")
)

// Staleness errors: retriable after refetching the listing.
var (
	ErrBidderIsHighestBidder               = errors.New("incoming bidder is already the highest bidder")
	ErrInvalidCurrentHighestBidderAndPrice = errors.New("invalid current highest bidder and price")
)

// Temporal errors: the action is not valid for the listing's current
// lifecycle phase.
var (
	ErrAuctionInactive      = errors.New("the auction is not active")
	ErrAuctionNotStarted    = errors.New("the auction has not started")
	ErrAuctionExpired       = errors.New("the auction has already ended")
	ErrAuctionNotYetExpired = errors.New("the auction has not ended yet")
	ErrAlreadySettled       = errors.New("the auction has already been settled")
)

// Authorization errors: fatal for the given caller.
var (
	ErrUnauthorized = errors.New("only the marketplace admin may perform this action")
)
