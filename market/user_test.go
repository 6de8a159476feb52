package market

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestUserAccount_PointsAccrual(t *testing.T) {
	u := NewUserAccount(testMarketplace, testBidderA)
	require.EqualValues(t, 0, u.Points)

	u.CreditListingCreated()
	require.EqualValues(t, PointsForListing, u.Points)
	require.EqualValues(t, 1, u.TotalAuctionsCreated)

	u.CreditBidPlaced(true)
	u.CreditBidPlaced(false)
	require.EqualValues(t, 2, u.TotalBidsPlaced)
	require.EqualValues(t, 1, u.TotalAuctionsParticipated)

	u.CreditAuctionWon()
	require.EqualValues(t, 1, u.TotalAuctionsWon)

	u.CreditPurchase()
	require.EqualValues(t, PointsForListing+2*PointsForBid+PointsForWin+PointsForPurchase, u.Points)
}

func TestUserAccount_Codec(t *testing.T) {
	u := NewUserAccount(testMarketplace, testBidderA)
	u.CreditListingCreated()
	u.CreditBidPlaced(true)

	raw := u.Encode()
	require.Len(t, raw, EncodedUserAccountLen)
	require.Equal(t, UserAccountDiscriminator.Bytes(), raw[:8])

	back, err := DecodeUserAccount(raw)
	require.NoError(t, err)
	require.Equal(t, u, back)
}

func TestUserAccount_Address(t *testing.T) {
	u := NewUserAccount(testMarketplace, testBidderA)
	addr, bump := UserAccountAddress(testMarketplace, testBidderA)
	require.Equal(t, addr, u.Address(testMarketplace))
	require.Equal(t, bump, u.Bump)

	other, _ := UserAccountAddress(testMarketplace, testBidderB)
	require.NotEqual(t, addr, other)
}
