package market

import (
	"io"

	"github.com/pkg/errors"

	"github.com/seradyn/gavel/bio"
)

// Credits are denominated in base units of 10^6 per whole credit,
// matching the utility token's decimals.
const (
	CreditDecimals = 6
	CreditUnit     = 1_000_000
)

type MintCostTier uint8

const (
	Tier1 MintCostTier = iota
	Tier2
	Tier3
)

const NumMintTiers = 3

func (t MintCostTier) Valid() bool {
	return t <= Tier3
}

func (t MintCostTier) String() string {
	switch t {
	case Tier1:
		return "tier1"
	case Tier2:
		return "tier2"
	case Tier3:
		return "tier3"
	default:
		return "invalid"
	}
}

// MintTier is one fixed purchase option: Cost in native currency buys
// Amount credits plus Bonus. Immutable once fetched for a transaction.
type MintTier struct {
	Tier   MintCostTier `json:"tier"`
	Amount uint64       `json:"amount"`
	Cost   uint64       `json:"cost"`
	Bonus  uint64       `json:"bonus"`
}

func (t *MintTier) Credited() uint64 {
	return t.Amount + t.Bonus
}

func (t *MintTier) WriteTo(w io.Writer) (int64, error) {
	g := bio.NewGuardWriter(w)
	bio.WriteByte(g, byte(t.Tier))
	bio.WriteUint64LE(g, t.Amount)
	bio.WriteUint64LE(g, t.Cost)
	bio.WriteUint64LE(g, t.Bonus)
	return g.N, g.Err
}

func (t *MintTier) ReadFrom(r io.Reader) (int64, error) {
	g := bio.NewGuardReader(r)
	tier, _ := bio.ReadByte(g)
	t.Tier = MintCostTier(tier)
	t.Amount, _ = bio.ReadUint64LE(g)
	t.Cost, _ = bio.ReadUint64LE(g)
	t.Bonus, _ = bio.ReadUint64LE(g)
	return g.N, g.Err
}

// TierSchedule is the marketplace's fixed 3-entry pricing table,
// indexed by tier.
type TierSchedule [NumMintTiers]MintTier

func DefaultTierSchedule() TierSchedule {
	return TierSchedule{
		{Tier: Tier1, Amount: 75 * CreditUnit, Cost: 100_000_000, Bonus: 10 * CreditUnit},
		{Tier: Tier2, Amount: 200 * CreditUnit, Cost: 200_000_000, Bonus: 25 * CreditUnit},
		{Tier: Tier3, Amount: 500 * CreditUnit, Cost: 400_000_000, Bonus: 100 * CreditUnit},
	}
}

func (s TierSchedule) Validate() error {
	for i, tier := range s {
		if tier.Tier != MintCostTier(i) {
			return errors.WithStack(ErrInvalidTierSchedule)
		}
	}
	return nil
}

func (s TierSchedule) Lookup(t MintCostTier) (MintTier, error) {
	if !t.Valid() {
		return MintTier{}, errors.WithStack(ErrInvalidTier)
	}
	return s[t], nil
}

func (s *TierSchedule) WriteTo(w io.Writer) (int64, error) {
	g := bio.NewGuardWriter(w)
	for i := range s {
		s[i].WriteTo(g)
	}
	return g.N, g.Err
}

func (s *TierSchedule) ReadFrom(r io.Reader) (int64, error) {
	g := bio.NewGuardReader(r)
	for i := range s {
		s[i].ReadFrom(g)
	}
	return g.N, g.Err
}
