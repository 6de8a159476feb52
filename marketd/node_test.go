package marketd

import (
	"testing"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/require"

	"github.com/seradyn/gavel/ledger"
	"github.com/seradyn/gavel/market"
	"github.com/seradyn/gavel/marketdb"
	"github.com/seradyn/gavel/memledger"
)

var (
	admin      = ledger.MustIdentityFromHex("aaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaa")
	creditMint = ledger.MustIdentityFromHex("bbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbb")
	collection = ledger.MustIdentityFromHex("cccccccccccccccccccccccccccccccccccccccccccccccccccccccccccccccc")
	seller     = ledger.MustIdentityFromHex("2222222222222222222222222222222222222222222222222222222222222222")
	asset      = ledger.MustIdentityFromHex("3333333333333333333333333333333333333333333333333333333333333333")
	alice      = ledger.MustIdentityFromHex("4444444444444444444444444444444444444444444444444444444444444444")
	bob        = ledger.MustIdentityFromHex("5555555555555555555555555555555555555555555555555555555555555555")
)

type harness struct {
	ml   *memledger.Ledger
	node *Node
	m    *market.Marketplace
}

func newHarness(t *testing.T) *harness {
	engine, err := marketdb.NewMemoryEngine()
	require.NoError(t, err)
	t.Cleanup(func() {
		require.NoError(t, engine.Close())
	})
	require.NoError(t, marketdb.MigrateDB(engine))

	ml := memledger.NewLedger()
	ml.SetSlot(1000)
	node := NewNode(engine, ml, ml, ml)

	m, err := node.Initialize(admin, creditMint, "gavel", 250, market.DefaultTierSchedule())
	require.NoError(t, err)

	ml.RegisterAsset(asset, seller, collection, market.AssetStandard)
	return &harness{
		ml:   ml,
		node: node,
		m:    m,
	}
}

func (h *harness) list(t *testing.T) *market.Listing {
	l, err := h.node.List(h.m.Address(), seller, asset, collection, market.ListingParams{
		BidIncrement:   1_000_000,
		TimerExtension: 150,
		Duration:       5000,
		BuyoutPrice:    500_000_000,
	})
	require.NoError(t, err)
	return l
}

func (h *harness) fundBidder(id ledger.Identity) {
	h.ml.FundCredits(id, 100*market.CreditUnit)
}

// faultyLedger simulates a ledger runtime whose escrow release call
// fails mid-instruction.
type faultyLedger struct {
	*memledger.Ledger
	failEscrowRelease bool
}

func (f *faultyLedger) EscrowReleaseAsset(asset, escrow, to ledger.Identity) error {
	if f.failEscrowRelease {
		return errors.New("ledger rpc: connection reset")
	}
	return f.Ledger.EscrowReleaseAsset(asset, escrow, to)
}

func newFaultyHarness(t *testing.T) (*harness, *faultyLedger) {
	engine, err := marketdb.NewMemoryEngine()
	require.NoError(t, err)
	t.Cleanup(func() {
		require.NoError(t, engine.Close())
	})
	require.NoError(t, marketdb.MigrateDB(engine))

	fl := &faultyLedger{Ledger: memledger.NewLedger()}
	fl.SetSlot(1000)
	node := NewNode(engine, fl, fl, fl)

	m, err := node.Initialize(admin, creditMint, "gavel", 250, market.DefaultTierSchedule())
	require.NoError(t, err)

	fl.RegisterAsset(asset, seller, collection, market.AssetStandard)
	return &harness{
		ml:   fl.Ledger,
		node: node,
		m:    m,
	}, fl
}

func TestNode_PurchaseCredits(t *testing.T) {
	h := newHarness(t)
	h.ml.FundNative(alice, 150_000_000)

	tier, err := h.node.PurchaseCredits(h.m.Address(), alice, market.Tier1)
	require.NoError(t, err)
	require.EqualValues(t, 85*market.CreditUnit, tier.Credited())

	require.EqualValues(t, 50_000_000, h.ml.NativeBalance(alice))
	require.EqualValues(t, 100_000_000, h.ml.NativeBalance(h.m.Treasury()))
	require.EqualValues(t, 85*market.CreditUnit, h.ml.CreditBalance(alice))

	u, err := h.node.GetUser(h.m.Address(), alice)
	require.NoError(t, err)
	require.EqualValues(t, market.PointsForPurchase, u.Points)

	// Underfunded buyer is rejected with nothing credited.
	_, err = h.node.PurchaseCredits(h.m.Address(), bob, market.Tier1)
	require.Error(t, err)
	require.EqualValues(t, 0, h.ml.CreditBalance(bob))
}

func TestNode_List(t *testing.T) {
	h := newHarness(t)
	l := h.list(t)

	holder, err := h.ml.AssetHolder(asset)
	require.NoError(t, err)
	require.Equal(t, l.Escrow(h.m.Address()), holder)

	u, err := h.node.GetUser(h.m.Address(), seller)
	require.NoError(t, err)
	require.EqualValues(t, 1, u.TotalAuctionsCreated)
	require.EqualValues(t, market.PointsForListing, u.Points)

	// The asset is escrowed, so relisting it fails.
	_, err = h.node.List(h.m.Address(), seller, asset, collection, market.ListingParams{
		BidIncrement: 1,
		Duration:     100,
		Seed:         1,
	})
	require.Error(t, err)
}

func TestNode_PlaceBid(t *testing.T) {
	h := newHarness(t)
	l := h.list(t)
	addr := l.Address(h.m.Address())
	h.fundBidder(alice)

	got, err := h.node.PlaceBid(addr, alice, ledger.ZeroIdentity, 0)
	require.NoError(t, err)
	require.Equal(t, alice, got.HighestBidder)
	require.EqualValues(t, 1_000_000, got.CurrentBid)
	require.Equal(t, l.EndTime+150, got.EndTime)

	require.EqualValues(t, 99*market.CreditUnit, h.ml.CreditBalance(alice))
	require.EqualValues(t, market.CreditUnit, h.ml.CreditBalance(h.m.CreditVault))

	u, err := h.node.GetUser(h.m.Address(), alice)
	require.NoError(t, err)
	require.EqualValues(t, 1, u.TotalBidsPlaced)
	require.EqualValues(t, 1, u.TotalAuctionsParticipated)

	// A stale observation is rejected and debits nothing.
	_, err = h.node.PlaceBid(addr, bob, ledger.ZeroIdentity, 0)
	require.ErrorIs(t, err, market.ErrInvalidCurrentHighestBidderAndPrice)
	require.EqualValues(t, market.CreditUnit, h.ml.CreditBalance(h.m.CreditVault))

	// Without credits the bid fails and the record stays unchanged.
	_, err = h.node.PlaceBid(addr, bob, alice, uint64(got.CurrentBid))
	require.Error(t, err)
	back, err := h.node.GetListing(addr)
	require.NoError(t, err)
	require.Equal(t, alice, back.HighestBidder)
}

func TestNode_ParticipationCountedOncePerListing(t *testing.T) {
	h := newHarness(t)
	l := h.list(t)
	addr := l.Address(h.m.Address())
	h.fundBidder(alice)
	h.fundBidder(bob)

	_, err := h.node.PlaceBid(addr, alice, ledger.ZeroIdentity, 0)
	require.NoError(t, err)
	_, err = h.node.PlaceBid(addr, bob, alice, 1_000_000)
	require.NoError(t, err)
	_, err = h.node.PlaceBid(addr, alice, bob, 2_000_000)
	require.NoError(t, err)

	u, err := h.node.GetUser(h.m.Address(), alice)
	require.NoError(t, err)
	require.EqualValues(t, 2, u.TotalBidsPlaced)
	require.EqualValues(t, 1, u.TotalAuctionsParticipated)
}

func TestNode_SettleWithWinner(t *testing.T) {
	h := newHarness(t)
	l := h.list(t)
	addr := l.Address(h.m.Address())
	h.fundBidder(alice)
	h.fundBidder(bob)
	h.ml.FundNative(bob, 10_000_000)

	_, err := h.node.PlaceBid(addr, alice, ledger.ZeroIdentity, 0)
	require.NoError(t, err)
	got, err := h.node.PlaceBid(addr, bob, alice, 1_000_000)
	require.NoError(t, err)

	// Not yet expired.
	_, err = h.node.Settle(addr)
	require.ErrorIs(t, err, market.ErrAuctionNotYetExpired)

	h.ml.SetSlot(got.EndTime + 1)
	out, err := h.node.Settle(addr)
	require.NoError(t, err)
	require.Equal(t, bob, out.Winner)
	require.EqualValues(t, 2_000_000, out.PriceToTreasury)

	// The winner pays the full final price to the treasury and takes
	// the asset.
	require.EqualValues(t, 8_000_000, h.ml.NativeBalance(bob))
	require.EqualValues(t, 2_000_000, h.ml.NativeBalance(h.m.Treasury()))
	holder, err := h.ml.AssetHolder(asset)
	require.NoError(t, err)
	require.Equal(t, bob, holder)

	u, err := h.node.GetUser(h.m.Address(), bob)
	require.NoError(t, err)
	require.EqualValues(t, 1, u.TotalAuctionsWon)
	require.EqualValues(t, market.PointsForBid+market.PointsForWin, u.Points)

	_, err = h.node.Settle(addr)
	require.ErrorIs(t, err, market.ErrAlreadySettled)
}

func TestNode_SettleNoBids(t *testing.T) {
	h := newHarness(t)
	l := h.list(t)
	addr := l.Address(h.m.Address())

	h.ml.SetSlot(l.EndTime + 1)
	out, err := h.node.Settle(addr)
	require.NoError(t, err)
	require.True(t, out.Winner.IsZero())
	require.EqualValues(t, 0, out.PriceToTreasury)

	require.EqualValues(t, 0, h.ml.NativeBalance(h.m.Treasury()))
	holder, err := h.ml.AssetHolder(asset)
	require.NoError(t, err)
	require.Equal(t, seller, holder)
}

func TestNode_Buyout(t *testing.T) {
	h := newHarness(t)
	l := h.list(t)
	addr := l.Address(h.m.Address())
	h.ml.FundNative(alice, 600_000_000)

	out, err := h.node.Buyout(addr, alice)
	require.NoError(t, err)
	require.EqualValues(t, 12_500_000, out.FeeToTreasury)
	require.EqualValues(t, 487_500_000, out.PriceToSeller)

	require.EqualValues(t, 100_000_000, h.ml.NativeBalance(alice))
	require.EqualValues(t, 12_500_000, h.ml.NativeBalance(h.m.Treasury()))
	require.EqualValues(t, 487_500_000, h.ml.NativeBalance(seller))
	holder, err := h.ml.AssetHolder(asset)
	require.NoError(t, err)
	require.Equal(t, alice, holder)

	_, err = h.node.Buyout(addr, bob)
	require.ErrorIs(t, err, market.ErrAuctionInactive)
}

// Relisting a settled listing under the same seed collides with the
// old record. The rejection must leave the asset with the seller, not
// locked at the escrow address of a listing that never existed.
func TestNode_RelistAfterSettle(t *testing.T) {
	h := newHarness(t)
	l := h.list(t)
	addr := l.Address(h.m.Address())

	h.ml.SetSlot(l.EndTime + 1)
	_, err := h.node.Settle(addr)
	require.NoError(t, err)

	_, err = h.node.List(h.m.Address(), seller, asset, collection, market.ListingParams{
		BidIncrement:   1_000_000,
		TimerExtension: 150,
		Duration:       5000,
		BuyoutPrice:    500_000_000,
	})
	require.Error(t, err)
	holder, err := h.ml.AssetHolder(asset)
	require.NoError(t, err)
	require.Equal(t, seller, holder)

	// A fresh seed relists cleanly.
	relisted, err := h.node.List(h.m.Address(), seller, asset, collection, market.ListingParams{
		BidIncrement:   1_000_000,
		TimerExtension: 150,
		Duration:       5000,
		Seed:           1,
	})
	require.NoError(t, err)
	holder, err = h.ml.AssetHolder(asset)
	require.NoError(t, err)
	require.Equal(t, relisted.Escrow(h.m.Address()), holder)
}

// A failed escrow release rolls the settlement back whole: the sweep
// is returned, the listing stays active, and a retry charges the
// winner exactly once.
func TestNode_SettleReleaseFailure(t *testing.T) {
	h, fl := newFaultyHarness(t)
	l := h.list(t)
	addr := l.Address(h.m.Address())
	h.fundBidder(alice)
	h.ml.FundNative(alice, 10_000_000)

	got, err := h.node.PlaceBid(addr, alice, ledger.ZeroIdentity, 0)
	require.NoError(t, err)
	h.ml.SetSlot(got.EndTime + 1)

	fl.failEscrowRelease = true
	_, err = h.node.Settle(addr)
	require.Error(t, err)

	require.EqualValues(t, 10_000_000, h.ml.NativeBalance(alice))
	require.EqualValues(t, 0, h.ml.NativeBalance(h.m.Treasury()))
	back, err := h.node.GetListing(addr)
	require.NoError(t, err)
	require.True(t, back.IsActive)

	fl.failEscrowRelease = false
	out, err := h.node.Settle(addr)
	require.NoError(t, err)
	require.Equal(t, alice, out.Winner)
	require.EqualValues(t, 9_000_000, h.ml.NativeBalance(alice))
	require.EqualValues(t, 1_000_000, h.ml.NativeBalance(h.m.Treasury()))
	holder, err := h.ml.AssetHolder(asset)
	require.NoError(t, err)
	require.Equal(t, alice, holder)
}

// A failed escrow release during buyout refunds both transfers made
// before it, so the buyer is made whole and can retry.
func TestNode_BuyoutReleaseFailure(t *testing.T) {
	h, fl := newFaultyHarness(t)
	l := h.list(t)
	addr := l.Address(h.m.Address())
	h.ml.FundNative(alice, 600_000_000)

	fl.failEscrowRelease = true
	_, err := h.node.Buyout(addr, alice)
	require.Error(t, err)

	require.EqualValues(t, 600_000_000, h.ml.NativeBalance(alice))
	require.EqualValues(t, 0, h.ml.NativeBalance(h.m.Treasury()))
	require.EqualValues(t, 0, h.ml.NativeBalance(seller))
	back, err := h.node.GetListing(addr)
	require.NoError(t, err)
	require.True(t, back.IsActive)

	fl.failEscrowRelease = false
	out, err := h.node.Buyout(addr, alice)
	require.NoError(t, err)
	require.EqualValues(t, 12_500_000, out.FeeToTreasury)
	require.EqualValues(t, 100_000_000, h.ml.NativeBalance(alice))
	require.EqualValues(t, 12_500_000, h.ml.NativeBalance(h.m.Treasury()))
	require.EqualValues(t, 487_500_000, h.ml.NativeBalance(seller))
}

func TestNode_RestrictedAssetAuthRecords(t *testing.T) {
	h := newHarness(t)
	restricted := ledger.MustIdentityFromHex("6666666666666666666666666666666666666666666666666666666666666666")
	h.ml.RegisterAsset(restricted, seller, collection, market.AssetRestricted)

	l, err := h.node.List(h.m.Address(), seller, restricted, collection, market.ListingParams{
		BidIncrement:   1_000_000,
		TimerExtension: 150,
		Duration:       5000,
	})
	require.NoError(t, err)
	addr := l.Address(h.m.Address())
	require.Equal(t, l.Escrow(h.m.Address()), h.ml.AuthorizedAccount(restricted))

	h.ml.SetSlot(l.EndTime + 1)
	_, err = h.node.Settle(addr)
	require.NoError(t, err)
	require.Equal(t, seller, h.ml.AuthorizedAccount(restricted))
}

// A user who buys credits, bids once, and wins ends with 52 points.
func TestNode_PointsScenario(t *testing.T) {
	h := newHarness(t)
	l := h.list(t)
	addr := l.Address(h.m.Address())
	h.ml.FundNative(alice, 200_000_000)

	_, err := h.node.PurchaseCredits(h.m.Address(), alice, market.Tier1)
	require.NoError(t, err)
	got, err := h.node.PlaceBid(addr, alice, ledger.ZeroIdentity, 0)
	require.NoError(t, err)

	h.ml.SetSlot(got.EndTime + 1)
	_, err = h.node.Settle(addr)
	require.NoError(t, err)

	u, err := h.node.GetUser(h.m.Address(), alice)
	require.NoError(t, err)
	require.EqualValues(t, 52, u.Points)
}

func TestNode_EventJournal(t *testing.T) {
	h := newHarness(t)
	l := h.list(t)
	addr := l.Address(h.m.Address())
	h.fundBidder(alice)

	got, err := h.node.PlaceBid(addr, alice, ledger.ZeroIdentity, 0)
	require.NoError(t, err)
	h.ml.SetSlot(got.EndTime + 1)
	h.ml.FundNative(alice, 10_000_000)
	_, err = h.node.Settle(addr)
	require.NoError(t, err)

	events, err := h.node.GetEvents("", 50)
	require.NoError(t, err)
	labels := make([]string, len(events))
	for i, ev := range events {
		labels[i] = ev.Label
	}
	// Newest first.
	require.Equal(t, []string{
		market.LabelListingEnded,
		market.LabelBidPlaced,
		market.LabelUserCreated,
		market.LabelListingCreated,
		market.LabelUserCreated,
		market.LabelMarketInitialized,
	}, labels)
}
