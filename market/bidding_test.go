package market

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/seradyn/gavel/ledger"
)

func TestPlaceBid_FirstBid(t *testing.T) {
	l := testListing(t)
	endBefore := l.EndTime

	err := l.PlaceBid(testBidderA, ledger.ZeroIdentity, 0, 2000)
	require.NoError(t, err)
	require.Equal(t, l.BidIncrement, l.CurrentBid)
	require.Equal(t, testBidderA, l.HighestBidder)
	require.Equal(t, endBefore+l.TimerExtension, l.EndTime)
}

func TestPlaceBid_Lifecycle(t *testing.T) {
	l := testListing(t)

	l.IsActive = false
	require.ErrorIs(t, l.PlaceBid(testBidderA, ledger.ZeroIdentity, 0, 2000), ErrAuctionInactive)
	l.IsActive = true

	require.ErrorIs(t, l.PlaceBid(testBidderA, ledger.ZeroIdentity, 0, l.StartTime-1), ErrAuctionNotStarted)
	require.ErrorIs(t, l.PlaceBid(testBidderA, ledger.ZeroIdentity, 0, l.EndTime+1), ErrAuctionExpired)

	// Boundary slots are biddable on both ends.
	require.NoError(t, l.PlaceBid(testBidderA, ledger.ZeroIdentity, 0, l.StartTime))
	require.NoError(t, l.PlaceBid(testBidderB, testBidderA, l.CurrentBid, l.EndTime))
}

func TestPlaceBid_RejectsCurrentHighestBidder(t *testing.T) {
	l := testListing(t)
	require.NoError(t, l.PlaceBid(testBidderA, ledger.ZeroIdentity, 0, 2000))
	err := l.PlaceBid(testBidderA, testBidderA, l.CurrentBid, 2001)
	require.ErrorIs(t, err, ErrBidderIsHighestBidder)
}

func TestPlaceBid_CompareAndSwap(t *testing.T) {
	l := testListing(t)
	require.NoError(t, l.PlaceBid(testBidderA, ledger.ZeroIdentity, 0, 2000))

	// Stale bidder observation.
	err := l.PlaceBid(testBidderB, ledger.ZeroIdentity, l.CurrentBid, 2001)
	require.ErrorIs(t, err, ErrInvalidCurrentHighestBidderAndPrice)

	// Stale price observation.
	err = l.PlaceBid(testBidderB, testBidderA, 0, 2001)
	require.ErrorIs(t, err, ErrInvalidCurrentHighestBidderAndPrice)

	// Rejected bids must leave the record untouched.
	require.Equal(t, testBidderA, l.HighestBidder)
	require.Equal(t, l.BidIncrement, l.CurrentBid)

	require.NoError(t, l.PlaceBid(testBidderB, testBidderA, l.CurrentBid, 2001))
	require.Equal(t, testBidderB, l.HighestBidder)
	require.Equal(t, 2*l.BidIncrement, l.CurrentBid)
}

func TestPlaceBid_DeadlineExtensionAccumulates(t *testing.T) {
	l := testListing(t)
	endBefore := l.EndTime

	bidders := []ledger.Identity{testBidderA, testBidderB, testBidderA, testBidderB}
	for i, bidder := range bidders {
		expected := ledger.ZeroIdentity
		if i > 0 {
			expected = bidders[i-1]
		}
		require.NoError(t, l.PlaceBid(bidder, expected, l.CurrentBid, 2000+ledger.Slot(i)))
	}

	require.Equal(t, endBefore+4*l.TimerExtension, l.EndTime)
	require.Equal(t, 4*l.BidIncrement, l.CurrentBid)
}
