package marketdb

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/seradyn/gavel/ledger"
	"github.com/seradyn/gavel/market"
)

var (
	dbAdmin      = ledger.MustIdentityFromHex("aaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaa")
	dbCreditMint = ledger.MustIdentityFromHex("bbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbb")
	dbSeller     = ledger.MustIdentityFromHex("2222222222222222222222222222222222222222222222222222222222222222")
	dbAsset      = ledger.MustIdentityFromHex("3333333333333333333333333333333333333333333333333333333333333333")
	dbBidder     = ledger.MustIdentityFromHex("4444444444444444444444444444444444444444444444444444444444444444")
)

func testEngine(t *testing.T) *Engine {
	engine, err := NewMemoryEngine()
	require.NoError(t, err)
	t.Cleanup(func() {
		require.NoError(t, engine.Close())
	})
	require.NoError(t, MigrateDB(engine))
	return engine
}

func testMarketplace(t *testing.T) *market.Marketplace {
	m, err := market.NewMarketplace(dbAdmin, dbCreditMint, "gavel", 250, market.DefaultTierSchedule())
	require.NoError(t, err)
	return m
}

func TestMigrateDB_Idempotent(t *testing.T) {
	engine := testEngine(t)
	require.NoError(t, MigrateDB(engine))
}

func TestMarketplaceStorage(t *testing.T) {
	engine := testEngine(t)
	m := testMarketplace(t)

	err := engine.Transaction(func(tx Transactor) error {
		return CreateMarketplace(tx, m)
	})
	require.NoError(t, err)

	next := market.DefaultTierSchedule()
	next[2].Bonus = 150 * market.CreditUnit

	err = engine.Transaction(func(tx Transactor) error {
		got, err := GetMarketplace(tx, m.Address())
		require.NoError(t, err)
		require.Equal(t, m, got)

		missing, err := GetMarketplace(tx, dbAsset)
		require.NoError(t, err)
		require.Nil(t, missing)

		return UpdateMarketplaceTiers(tx, m.Address(), next)
	})
	require.NoError(t, err)

	err = engine.Transaction(func(tx Transactor) error {
		got, err := GetMarketplace(tx, m.Address())
		require.NoError(t, err)
		require.Equal(t, next, got.Tiers)
		return nil
	})
	require.NoError(t, err)
}

func TestListingStorage(t *testing.T) {
	engine := testEngine(t)
	m := testMarketplace(t)

	l, err := market.NewListing(m.Address(), dbSeller, dbAsset, market.ListingParams{
		BidIncrement:   1_000_000,
		TimerExtension: 150,
		StartTime:      1000,
		Duration:       5000,
		Seed:           7,
	})
	require.NoError(t, err)
	addr := l.Address(m.Address())

	err = engine.Transaction(func(tx Transactor) error {
		if err := CreateMarketplace(tx, m); err != nil {
			return err
		}
		return CreateListing(tx, m.Address(), l)
	})
	require.NoError(t, err)

	err = engine.Transaction(func(tx Transactor) error {
		row, err := GetListing(tx, addr)
		require.NoError(t, err)
		require.Equal(t, m.Address(), row.Marketplace)
		require.Equal(t, l, row.Listing)

		missing, err := GetListing(tx, dbBidder)
		require.NoError(t, err)
		require.Nil(t, missing)
		return nil
	})
	require.NoError(t, err)

	require.NoError(t, l.PlaceBid(dbBidder, ledger.ZeroIdentity, 0, 2000))
	err = engine.Transaction(func(tx Transactor) error {
		return UpdateListing(tx, addr, l)
	})
	require.NoError(t, err)

	err = engine.Transaction(func(tx Transactor) error {
		row, err := GetListing(tx, addr)
		require.NoError(t, err)
		require.Equal(t, dbBidder, row.Listing.HighestBidder)
		require.Equal(t, l.CurrentBid, row.Listing.CurrentBid)
		require.Equal(t, l.EndTime, row.Listing.EndTime)

		// Still running at the deadline, expired one slot past it.
		expired, err := GetExpiredActiveListings(tx, l.EndTime)
		require.NoError(t, err)
		require.Len(t, expired, 0)

		expired, err = GetExpiredActiveListings(tx, l.EndTime+1)
		require.NoError(t, err)
		require.Len(t, expired, 1)
		return nil
	})
	require.NoError(t, err)
}

func TestUserStorage(t *testing.T) {
	engine := testEngine(t)
	m := testMarketplace(t)
	u := market.NewUserAccount(m.Address(), dbBidder)

	err := engine.Transaction(func(tx Transactor) error {
		if err := CreateMarketplace(tx, m); err != nil {
			return err
		}
		return CreateUser(tx, m.Address(), u)
	})
	require.NoError(t, err)

	u.CreditBidPlaced(true)
	u.CreditAuctionWon()
	err = engine.Transaction(func(tx Transactor) error {
		return UpdateUser(tx, m.Address(), u)
	})
	require.NoError(t, err)

	err = engine.Transaction(func(tx Transactor) error {
		got, err := GetUser(tx, m.Address(), dbBidder)
		require.NoError(t, err)
		require.Equal(t, u, got)

		missing, err := GetUser(tx, m.Address(), dbSeller)
		require.NoError(t, err)
		require.Nil(t, missing)
		return nil
	})
	require.NoError(t, err)
}

func TestBidJournal(t *testing.T) {
	engine := testEngine(t)

	err := engine.Transaction(func(tx Transactor) error {
		has, err := HasBidOnListing(tx, dbAsset, dbBidder)
		require.NoError(t, err)
		require.False(t, has)

		if err := RecordBid(tx, dbAsset, dbBidder, 1_000_000, 6150, 2000); err != nil {
			return err
		}
		if err := RecordBid(tx, dbAsset, dbBidder, 2_000_000, 6300, 2001); err != nil {
			return err
		}

		has, err = HasBidOnListing(tx, dbAsset, dbBidder)
		require.NoError(t, err)
		require.True(t, has)

		count, err := CountBids(tx, dbAsset)
		require.NoError(t, err)
		require.Equal(t, 2, count)
		return nil
	})
	require.NoError(t, err)
}

func TestEventJournal(t *testing.T) {
	engine := testEngine(t)

	err := engine.Transaction(func(tx Transactor) error {
		err := RecordEvent(tx, &market.ListingCreated{
			Listing: dbAsset,
			Asset:   dbAsset,
			Seller:  dbSeller,
			EndTime: 6000,
		}, 1000)
		if err != nil {
			return err
		}
		return RecordEvent(tx, &market.BidPlaced{
			Listing:    dbAsset,
			Bidder:     dbBidder,
			CurrentBid: 1_000_000,
			EndTime:    6150,
		}, 2000)
	})
	require.NoError(t, err)

	err = engine.Transaction(func(tx Transactor) error {
		all, err := GetEvents(tx, "", 50)
		require.NoError(t, err)
		require.Len(t, all, 2)
		// Newest first.
		require.Equal(t, market.LabelBidPlaced, all[0].Label)

		bids, err := GetEvents(tx, market.LabelBidPlaced, 50)
		require.NoError(t, err)
		require.Len(t, bids, 1)
		require.EqualValues(t, 2000, bids[0].Slot)
		return nil
	})
	require.NoError(t, err)
}
