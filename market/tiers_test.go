package market

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestDefaultTierSchedule(t *testing.T) {
	tiers := DefaultTierSchedule()
	require.NoError(t, tiers.Validate())

	require.EqualValues(t, 75*CreditUnit, tiers[Tier1].Amount)
	require.EqualValues(t, 100_000_000, tiers[Tier1].Cost)
	require.EqualValues(t, 10*CreditUnit, tiers[Tier1].Bonus)

	require.EqualValues(t, 200*CreditUnit, tiers[Tier2].Amount)
	require.EqualValues(t, 200_000_000, tiers[Tier2].Cost)
	require.EqualValues(t, 25*CreditUnit, tiers[Tier2].Bonus)

	require.EqualValues(t, 500*CreditUnit, tiers[Tier3].Amount)
	require.EqualValues(t, 400_000_000, tiers[Tier3].Cost)
	require.EqualValues(t, 100*CreditUnit, tiers[Tier3].Bonus)
}

func TestTierSchedule_Validate(t *testing.T) {
	tiers := DefaultTierSchedule()
	tiers[1], tiers[2] = tiers[2], tiers[1]
	require.ErrorIs(t, tiers.Validate(), ErrInvalidTierSchedule)
}

func TestTierSchedule_Lookup(t *testing.T) {
	tiers := DefaultTierSchedule()

	tier, err := tiers.Lookup(Tier2)
	require.NoError(t, err)
	require.EqualValues(t, 225*CreditUnit, tier.Credited())

	_, err = tiers.Lookup(MintCostTier(3))
	require.ErrorIs(t, err, ErrInvalidTier)
}
