package market

import (
	"bytes"
	"io"

	"github.com/pkg/errors"

	"github.com/seradyn/gavel/bio"
	"github.com/seradyn/gavel/ledger"
)

var ListingDiscriminator = ledger.AccountDiscriminator("ListingV2")

// DefaultBidCost is the flat per-bid fee in whole credits. Fixed at
// listing creation.
const DefaultBidCost = 1

// Listing is the auction record for one escrowed asset. Created by
// list, mutated only by accepted bids (monotonic fields), terminated
// by settlement or buyout. The record stays active until someone
// transacts against it; elapsed time alone never flips it.
type Listing struct {
	Asset          ledger.Identity `json:"asset"`
	Seller         ledger.Identity `json:"seller"`
	BidCost        uint64          `json:"bid_cost"`
	BidIncrement   uint64          `json:"bid_increment"`
	CurrentBid     uint64          `json:"current_bid"`
	HighestBidder  ledger.Identity `json:"highest_bidder"`
	TimerExtension ledger.Slot     `json:"timer_extension"`
	StartTime      ledger.Slot     `json:"start_time"`
	EndTime        ledger.Slot     `json:"end_time"`
	IsActive       bool            `json:"is_active"`
	BuyoutPrice    uint64          `json:"buyout_price"`
	Seed           uint64          `json:"seed"`
	Bump           uint8           `json:"bump"`
}

type ListingParams struct {
	BidIncrement   uint64
	TimerExtension ledger.Slot
	StartTime      ledger.Slot
	Duration       ledger.Slot
	BuyoutPrice    uint64
	Seed           uint64
}

func NewListing(marketplace, seller, asset ledger.Identity, params ListingParams) (*Listing, error) {
	if params.Duration == 0 {
		return nil, errors.WithStack(ErrInvalidDuration)
	}
	if params.BidIncrement == 0 {
		return nil, errors.WithStack(ErrInvalidBidIncrement)
	}

	_, bump := ListingAddress(marketplace, asset, params.Seed)

	return &Listing{
		Asset:          asset,
		Seller:         seller,
		BidCost:        DefaultBidCost,
		BidIncrement:   params.BidIncrement,
		CurrentBid:     0,
		HighestBidder:  ledger.ZeroIdentity,
		TimerExtension: params.TimerExtension,
		StartTime:      params.StartTime,
		EndTime:        params.StartTime + params.Duration,
		IsActive:       true,
		BuyoutPrice:    params.BuyoutPrice,
		Seed:           params.Seed,
		Bump:           bump,
	}, nil
}

func (l *Listing) Address(marketplace ledger.Identity) ledger.Identity {
	addr, _ := ListingAddress(marketplace, l.Asset, l.Seed)
	return addr
}

func (l *Listing) Escrow(marketplace ledger.Identity) ledger.Identity {
	escrow, _ := EscrowAddress(l.Address(marketplace), l.Asset)
	return escrow
}

// BidFee is the per-bid debit in credit base units.
func (l *Listing) BidFee() uint64 {
	return l.BidCost * CreditUnit
}

func (l *Listing) HasBids() bool {
	return !l.HighestBidder.IsZero()
}

const (
	listingPaddingLen  = 6
	listingReservedLen = 32

	// EncodedListingLen is the fixed wire size of a listing record.
	EncodedListingLen = 8 + 32 + 32 + 8 + 8 + 8 + 32 + 8 + 8 + 8 + 1 + 8 + 8 + 1 +
		listingPaddingLen + listingReservedLen
)

func (l *Listing) WriteTo(w io.Writer) (int64, error) {
	g := bio.NewGuardWriter(w)
	bio.WriteRawBytes(g, ListingDiscriminator.Bytes())
	l.Asset.WriteTo(g)
	l.Seller.WriteTo(g)
	bio.WriteUint64LE(g, l.BidCost)
	bio.WriteUint64LE(g, l.BidIncrement)
	bio.WriteUint64LE(g, l.CurrentBid)
	l.HighestBidder.WriteTo(g)
	bio.WriteUint64LE(g, uint64(l.TimerExtension))
	bio.WriteUint64LE(g, uint64(l.StartTime))
	bio.WriteUint64LE(g, uint64(l.EndTime))
	bio.WriteBool(g, l.IsActive)
	bio.WriteUint64LE(g, l.BuyoutPrice)
	bio.WriteUint64LE(g, l.Seed)
	bio.WriteByte(g, l.Bump)
	bio.WriteZeroBytes(g, listingPaddingLen)
	bio.WriteZeroBytes(g, listingReservedLen)
	return g.N, g.Err
}

func (l *Listing) ReadFrom(r io.Reader) (int64, error) {
	g := bio.NewGuardReader(r)
	disc, err := bio.ReadFixedBytes(g, ledger.DiscriminatorLen)
	if err != nil {
		return g.N, err
	}
	if !bytes.Equal(disc, ListingDiscriminator.Bytes()) {
		return g.N, errors.New("not a listing record")
	}

	asset, _ := bio.ReadFixedBytes(g, ledger.IdentityLen)
	seller, _ := bio.ReadFixedBytes(g, ledger.IdentityLen)
	l.BidCost, _ = bio.ReadUint64LE(g)
	l.BidIncrement, _ = bio.ReadUint64LE(g)
	l.CurrentBid, _ = bio.ReadUint64LE(g)
	bidder, _ := bio.ReadFixedBytes(g, ledger.IdentityLen)
	timerExt, _ := bio.ReadUint64LE(g)
	start, _ := bio.ReadUint64LE(g)
	end, _ := bio.ReadUint64LE(g)
	l.IsActive, _ = bio.ReadBool(g)
	l.BuyoutPrice, _ = bio.ReadUint64LE(g)
	l.Seed, _ = bio.ReadUint64LE(g)
	l.Bump, _ = bio.ReadByte(g)
	bio.ReadFixedBytes(g, listingPaddingLen)
	bio.ReadFixedBytes(g, listingReservedLen)
	if g.Err != nil {
		return g.N, g.Err
	}

	l.Asset, _ = ledger.NewIdentityFromBytes(asset)
	l.Seller, _ = ledger.NewIdentityFromBytes(seller)
	l.HighestBidder, _ = ledger.NewIdentityFromBytes(bidder)
	l.TimerExtension = ledger.Slot(timerExt)
	l.StartTime = ledger.Slot(start)
	l.EndTime = ledger.Slot(end)
	return g.N, nil
}

func (l *Listing) Encode() []byte {
	var buf bytes.Buffer
	if _, err := l.WriteTo(&buf); err != nil {
		panic(err)
	}
	return buf.Bytes()
}

func DecodeListing(b []byte) (*Listing, error) {
	l := new(Listing)
	if _, err := l.ReadFrom(bytes.NewReader(b)); err != nil {
		return nil, errors.Wrap(err, "error decoding listing")
	}
	return l, nil
}
