package market

import (
	"bytes"
	"io"

	"github.com/pkg/errors"

	"github.com/seradyn/gavel/bio"
	"github.com/seradyn/gavel/ledger"
)

const (
	MaxMarketplaceNameLen = 32
	MaxFeeBasisPoints     = 10000
)

var MarketplaceDiscriminator = ledger.AccountDiscriminator("Marketplace")

// Marketplace is the singleton registry for one (admin, credit mint,
// name) triple: global configuration plus the tier schedule. Created
// once; only the tier schedule is ever replaced, and only by admin.
type Marketplace struct {
	Admin       ledger.Identity `json:"admin"`
	CreditMint  ledger.Identity `json:"credit_mint"`
	CreditVault ledger.Identity `json:"credit_vault"`
	Fee         uint16          `json:"fee"`
	Name        string          `json:"name"`
	Tiers       TierSchedule    `json:"tiers"`

	Bump         uint8 `json:"bump"`
	RewardsBump  uint8 `json:"rewards_bump"`
	TreasuryBump uint8 `json:"treasury_bump"`
}

func NewMarketplace(admin, creditMint ledger.Identity, name string, fee uint16, tiers TierSchedule) (*Marketplace, error) {
	if len(name) == 0 || len(name) > MaxMarketplaceNameLen {
		return nil, errors.WithStack(ErrMarketplaceNameInvalid)
	}
	if fee > MaxFeeBasisPoints {
		return nil, errors.WithStack(ErrInvalidFeeRate)
	}
	if err := tiers.Validate(); err != nil {
		return nil, err
	}

	addr, bump := MarketplaceAddress(admin, creditMint, name)
	_, rewardsBump := RewardsAddress(addr)
	_, treasuryBump := TreasuryAddress(addr)
	vault, _ := ledger.Derive(ledger.TagEscrow, addr.Bytes(), creditMint.Bytes())

	return &Marketplace{
		Admin:        admin,
		CreditMint:   creditMint,
		CreditVault:  vault,
		Fee:          fee,
		Name:         name,
		Tiers:        tiers,
		Bump:         bump,
		RewardsBump:  rewardsBump,
		TreasuryBump: treasuryBump,
	}, nil
}

func (m *Marketplace) Address() ledger.Identity {
	addr, _ := MarketplaceAddress(m.Admin, m.CreditMint, m.Name)
	return addr
}

func (m *Marketplace) Treasury() ledger.Identity {
	addr, _ := TreasuryAddress(m.Address())
	return addr
}

// UpdateTiers fully replaces the 3-entry schedule. Admin only.
func (m *Marketplace) UpdateTiers(caller ledger.Identity, tiers TierSchedule) error {
	if !caller.Equal(m.Admin) {
		return errors.WithStack(ErrUnauthorized)
	}
	if err := tiers.Validate(); err != nil {
		return err
	}
	m.Tiers = tiers
	return nil
}

// FeeShare returns the treasury's cut of amount at the configured
// basis-point rate, rounding down.
func (m *Marketplace) FeeShare(amount uint64) uint64 {
	return amount * uint64(m.Fee) / MaxFeeBasisPoints
}

const marketplaceReservedLen = 64

func (m *Marketplace) WriteTo(w io.Writer) (int64, error) {
	g := bio.NewGuardWriter(w)
	bio.WriteRawBytes(g, MarketplaceDiscriminator.Bytes())
	m.Admin.WriteTo(g)
	m.CreditMint.WriteTo(g)
	m.CreditVault.WriteTo(g)
	bio.WriteUint16LE(g, m.Fee)
	bio.WriteLenBytes(g, []byte(m.Name))
	m.Tiers.WriteTo(g)
	bio.WriteByte(g, m.Bump)
	bio.WriteByte(g, m.RewardsBump)
	bio.WriteByte(g, m.TreasuryBump)
	bio.WriteZeroBytes(g, marketplaceReservedLen)
	return g.N, g.Err
}

func (m *Marketplace) ReadFrom(r io.Reader) (int64, error) {
	g := bio.NewGuardReader(r)
	disc, err := bio.ReadFixedBytes(g, ledger.DiscriminatorLen)
	if err != nil {
		return g.N, err
	}
	if !bytes.Equal(disc, MarketplaceDiscriminator.Bytes()) {
		return g.N, errors.New("not a marketplace record")
	}

	admin, _ := bio.ReadFixedBytes(g, ledger.IdentityLen)
	creditMint, _ := bio.ReadFixedBytes(g, ledger.IdentityLen)
	creditVault, _ := bio.ReadFixedBytes(g, ledger.IdentityLen)
	m.Fee, _ = bio.ReadUint16LE(g)
	name, _ := bio.ReadLenBytes(g, MaxMarketplaceNameLen)
	m.Tiers.ReadFrom(g)
	m.Bump, _ = bio.ReadByte(g)
	m.RewardsBump, _ = bio.ReadByte(g)
	m.TreasuryBump, _ = bio.ReadByte(g)
	bio.ReadFixedBytes(g, marketplaceReservedLen)
	if g.Err != nil {
		return g.N, g.Err
	}

	m.Admin, _ = ledger.NewIdentityFromBytes(admin)
	m.CreditMint, _ = ledger.NewIdentityFromBytes(creditMint)
	m.CreditVault, _ = ledger.NewIdentityFromBytes(creditVault)
	m.Name = string(name)
	return g.N, nil
}

func (m *Marketplace) Encode() []byte {
	var buf bytes.Buffer
	if _, err := m.WriteTo(&buf); err != nil {
		panic(err)
	}
	return buf.Bytes()
}

func DecodeMarketplace(b []byte) (*Marketplace, error) {
	m := new(Marketplace)
	if _, err := m.ReadFrom(bytes.NewReader(b)); err != nil {
		return nil, errors.Wrap(err, "error decoding marketplace")
	}
	return m, nil
}
