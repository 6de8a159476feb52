package market

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/seradyn/gavel/ledger"
)

var (
	testMarketplace = ledger.MustIdentityFromHex("1111111111111111111111111111111111111111111111111111111111111111")
	testSeller      = ledger.MustIdentityFromHex("2222222222222222222222222222222222222222222222222222222222222222")
	testAsset       = ledger.MustIdentityFromHex("3333333333333333333333333333333333333333333333333333333333333333")
	testBidderA     = ledger.MustIdentityFromHex("4444444444444444444444444444444444444444444444444444444444444444")
	testBidderB     = ledger.MustIdentityFromHex("5555555555555555555555555555555555555555555555555555555555555555")
)

func testListing(t *testing.T) *Listing {
	l, err := NewListing(testMarketplace, testSeller, testAsset, ListingParams{
		BidIncrement:   1_000_000,
		TimerExtension: 150,
		StartTime:      1000,
		Duration:       5000,
		BuyoutPrice:    500_000_000,
		Seed:           7,
	})
	require.NoError(t, err)
	return l
}

func TestNewListing_Validation(t *testing.T) {
	_, err := NewListing(testMarketplace, testSeller, testAsset, ListingParams{
		BidIncrement: 1,
		Duration:     0,
	})
	require.ErrorIs(t, err, ErrInvalidDuration)

	_, err = NewListing(testMarketplace, testSeller, testAsset, ListingParams{
		BidIncrement: 0,
		Duration:     100,
	})
	require.ErrorIs(t, err, ErrInvalidBidIncrement)
}

func TestNewListing_Defaults(t *testing.T) {
	l := testListing(t)
	require.True(t, l.IsActive)
	require.EqualValues(t, 0, l.CurrentBid)
	require.True(t, l.HighestBidder.IsZero())
	require.False(t, l.HasBids())
	require.EqualValues(t, DefaultBidCost, l.BidCost)
	require.EqualValues(t, 6000, l.EndTime)
	require.EqualValues(t, DefaultBidCost*CreditUnit, l.BidFee())
}

func TestListing_AddressDeterminism(t *testing.T) {
	l := testListing(t)
	addr, bump := ListingAddress(testMarketplace, testAsset, l.Seed)
	require.Equal(t, addr, l.Address(testMarketplace))
	require.Equal(t, bump, l.Bump)

	otherSeed, _ := ListingAddress(testMarketplace, testAsset, l.Seed+1)
	require.NotEqual(t, addr, otherSeed)
}

func TestListing_Codec(t *testing.T) {
	l := testListing(t)
	l.CurrentBid = 3_000_000
	l.HighestBidder = testBidderA
	l.IsActive = true

	raw := l.Encode()
	require.Len(t, raw, EncodedListingLen)
	require.Equal(t, ListingDiscriminator.Bytes(), raw[:8])

	back, err := DecodeListing(raw)
	require.NoError(t, err)
	require.Equal(t, l, back)
}

func TestDecodeListing_RejectsWrongDiscriminator(t *testing.T) {
	raw := testListing(t).Encode()
	copy(raw[:8], UserAccountDiscriminator.Bytes())
	_, err := DecodeListing(raw)
	require.Error(t, err)
}
