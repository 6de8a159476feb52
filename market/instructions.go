package market

import (
	"bytes"
	"io"

	"github.com/pkg/errors"

	"github.com/seradyn/gavel/bio"
	"github.com/seradyn/gavel/ledger"
)

// Instruction discriminators. Wire payloads are the 8-byte
// discriminator followed by the typed arguments in declaration order.
var (
	InitializeDiscriminator  = ledger.InstructionDiscriminator("initialize")
	UpdateTiersDiscriminator = ledger.InstructionDiscriminator("update_marketplace_mint_tiers")
	ListDiscriminator        = ledger.InstructionDiscriminator("list")
	PlaceBidDiscriminator    = ledger.InstructionDiscriminator("place_bid")
	EndListingDiscriminator  = ledger.InstructionDiscriminator("end_listing")
	MintCreditsDiscriminator = ledger.InstructionDiscriminator("mint_bid_token")
	BuyoutDiscriminator      = ledger.InstructionDiscriminator("purchase")
)

type Instruction interface {
	Discriminator() ledger.Discriminator
	WriteTo(w io.Writer) (int64, error)
	ReadFrom(r io.Reader) (int64, error)
}

type InitializeArgs struct {
	Name string
	Fee  uint16
}

func (a *InitializeArgs) Discriminator() ledger.Discriminator { return InitializeDiscriminator }

func (a *InitializeArgs) WriteTo(w io.Writer) (int64, error) {
	g := bio.NewGuardWriter(w)
	bio.WriteLenBytes(g, []byte(a.Name))
	bio.WriteUint16LE(g, a.Fee)
	return g.N, g.Err
}

func (a *InitializeArgs) ReadFrom(r io.Reader) (int64, error) {
	g := bio.NewGuardReader(r)
	name, _ := bio.ReadLenBytes(g, MaxMarketplaceNameLen)
	a.Fee, _ = bio.ReadUint16LE(g)
	if g.Err != nil {
		return g.N, g.Err
	}
	a.Name = string(name)
	return g.N, nil
}

type UpdateTiersArgs struct {
	Tiers TierSchedule
}

func (a *UpdateTiersArgs) Discriminator() ledger.Discriminator { return UpdateTiersDiscriminator }

func (a *UpdateTiersArgs) WriteTo(w io.Writer) (int64, error) {
	return a.Tiers.WriteTo(w)
}

func (a *UpdateTiersArgs) ReadFrom(r io.Reader) (int64, error) {
	return a.Tiers.ReadFrom(r)
}

type ListArgs struct {
	Seed           uint64
	BidIncrement   uint64
	TimerExtension ledger.Slot
	StartTime      ledger.Slot
	Duration       ledger.Slot
	BuyoutPrice    uint64
}

func (a *ListArgs) Discriminator() ledger.Discriminator { return ListDiscriminator }

func (a *ListArgs) WriteTo(w io.Writer) (int64, error) {
	g := bio.NewGuardWriter(w)
	bio.WriteUint64LE(g, a.Seed)
	bio.WriteUint64LE(g, a.BidIncrement)
	bio.WriteUint64LE(g, uint64(a.TimerExtension))
	bio.WriteUint64LE(g, uint64(a.StartTime))
	bio.WriteUint64LE(g, uint64(a.Duration))
	bio.WriteUint64LE(g, a.BuyoutPrice)
	return g.N, g.Err
}

func (a *ListArgs) ReadFrom(r io.Reader) (int64, error) {
	g := bio.NewGuardReader(r)
	a.Seed, _ = bio.ReadUint64LE(g)
	a.BidIncrement, _ = bio.ReadUint64LE(g)
	timerExt, _ := bio.ReadUint64LE(g)
	start, _ := bio.ReadUint64LE(g)
	duration, _ := bio.ReadUint64LE(g)
	a.BuyoutPrice, _ = bio.ReadUint64LE(g)
	if g.Err != nil {
		return g.N, g.Err
	}
	a.TimerExtension = ledger.Slot(timerExt)
	a.StartTime = ledger.Slot(start)
	a.Duration = ledger.Slot(duration)
	return g.N, nil
}

// PlaceBidArgs carries the caller's last-observed state for the CAS
// check; both fields are untrusted input.
type PlaceBidArgs struct {
	ExpectedHighestBidder ledger.Identity
	ExpectedCurrentBid    uint64
}

func (a *PlaceBidArgs) Discriminator() ledger.Discriminator { return PlaceBidDiscriminator }

func (a *PlaceBidArgs) WriteTo(w io.Writer) (int64, error) {
	g := bio.NewGuardWriter(w)
	a.ExpectedHighestBidder.WriteTo(g)
	bio.WriteUint64LE(g, a.ExpectedCurrentBid)
	return g.N, g.Err
}

func (a *PlaceBidArgs) ReadFrom(r io.Reader) (int64, error) {
	g := bio.NewGuardReader(r)
	bidder, _ := bio.ReadFixedBytes(g, ledger.IdentityLen)
	a.ExpectedCurrentBid, _ = bio.ReadUint64LE(g)
	if g.Err != nil {
		return g.N, g.Err
	}
	a.ExpectedHighestBidder, _ = ledger.NewIdentityFromBytes(bidder)
	return g.N, nil
}

type EndListingArgs struct{}

func (a *EndListingArgs) Discriminator() ledger.Discriminator { return EndListingDiscriminator }

func (a *EndListingArgs) WriteTo(w io.Writer) (int64, error) { return 0, nil }

func (a *EndListingArgs) ReadFrom(r io.Reader) (int64, error) { return 0, nil }

type MintCreditsArgs struct {
	Tier MintCostTier
}

func (a *MintCreditsArgs) Discriminator() ledger.Discriminator { return MintCreditsDiscriminator }

func (a *MintCreditsArgs) WriteTo(w io.Writer) (int64, error) {
	n, err := bio.WriteByte(w, byte(a.Tier))
	return int64(n), err
}

func (a *MintCreditsArgs) ReadFrom(r io.Reader) (int64, error) {
	b, err := bio.ReadByte(r)
	if err != nil {
		return 0, err
	}
	a.Tier = MintCostTier(b)
	return 1, nil
}

type BuyoutArgs struct{}

func (a *BuyoutArgs) Discriminator() ledger.Discriminator { return BuyoutDiscriminator }

func (a *BuyoutArgs) WriteTo(w io.Writer) (int64, error) { return 0, nil }

func (a *BuyoutArgs) ReadFrom(r io.Reader) (int64, error) { return 0, nil }

func EncodeInstruction(in Instruction) []byte {
	var buf bytes.Buffer
	buf.Write(in.Discriminator().Bytes())
	if _, err := in.WriteTo(&buf); err != nil {
		panic(err)
	}
	return buf.Bytes()
}

func DecodeInstruction(b []byte) (Instruction, error) {
	r := bytes.NewReader(b)
	discRaw, err := bio.ReadFixedBytes(r, ledger.DiscriminatorLen)
	if err != nil {
		return nil, errors.Wrap(err, "error reading instruction discriminator")
	}

	var disc ledger.Discriminator
	copy(disc[:], discRaw)

	var in Instruction
	switch disc {
	case InitializeDiscriminator:
		in = new(InitializeArgs)
	case UpdateTiersDiscriminator:
		in = new(UpdateTiersArgs)
	case ListDiscriminator:
		in = new(ListArgs)
	case PlaceBidDiscriminator:
		in = new(PlaceBidArgs)
	case EndListingDiscriminator:
		in = new(EndListingArgs)
	case MintCreditsDiscriminator:
		in = new(MintCreditsArgs)
	case BuyoutDiscriminator:
		in = new(BuyoutArgs)
	default:
		return nil, errors.Errorf("unknown instruction discriminator %s", disc)
	}

	if _, err := in.ReadFrom(r); err != nil {
		return nil, errors.Wrap(err, "error decoding instruction args")
	}
	return in, nil
}
