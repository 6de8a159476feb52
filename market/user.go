package market

import (
	"bytes"
	"io"

	"github.com/pkg/errors"

	"github.com/seradyn/gavel/bio"
	"github.com/seradyn/gavel/ledger"
)

var UserAccountDiscriminator = ledger.AccountDiscriminator("UserAccount")

// Reputation points per economic action. Points only accumulate;
// nothing ever spends them.
const (
	PointsForBid      = 1
	PointsForPurchase = 1
	PointsForListing  = 10
	PointsForWin      = 50
)

// UserAccount is the per-(marketplace, user) reputation record,
// created lazily on the user's first economic action. All counters
// are monotonically non-decreasing.
type UserAccount struct {
	Owner                     ledger.Identity `json:"owner"`
	TotalBidsPlaced           uint32          `json:"total_bids_placed"`
	TotalAuctionsParticipated uint32          `json:"total_auctions_participated"`
	TotalAuctionsWon          uint32          `json:"total_auctions_won"`
	TotalAuctionsCreated      uint32          `json:"total_auctions_created"`
	Points                    uint32          `json:"points"`
	Bump                      uint8           `json:"bump"`
}

func NewUserAccount(marketplace, owner ledger.Identity) *UserAccount {
	_, bump := UserAccountAddress(marketplace, owner)
	return &UserAccount{
		Owner: owner,
		Bump:  bump,
	}
}

func (u *UserAccount) Address(marketplace ledger.Identity) ledger.Identity {
	addr, _ := UserAccountAddress(marketplace, u.Owner)
	return addr
}

func (u *UserAccount) CreditListingCreated() {
	u.TotalAuctionsCreated++
	u.Points += PointsForListing
}

// CreditBidPlaced records an accepted bid. firstOnListing marks the
// user's first bid on that particular listing.
func (u *UserAccount) CreditBidPlaced(firstOnListing bool) {
	u.TotalBidsPlaced++
	if firstOnListing {
		u.TotalAuctionsParticipated++
	}
	u.Points += PointsForBid
}

func (u *UserAccount) CreditAuctionWon() {
	u.TotalAuctionsWon++
	u.Points += PointsForWin
}

func (u *UserAccount) CreditPurchase() {
	u.Points += PointsForPurchase
}

const (
	userPaddingLen  = 3
	userReservedLen = 32

	// EncodedUserAccountLen is the fixed wire size of a user record.
	EncodedUserAccountLen = 8 + 32 + 4*5 + 1 + userPaddingLen + userReservedLen
)

func (u *UserAccount) WriteTo(w io.Writer) (int64, error) {
	g := bio.NewGuardWriter(w)
	bio.WriteRawBytes(g, UserAccountDiscriminator.Bytes())
	u.Owner.WriteTo(g)
	bio.WriteUint32LE(g, u.TotalBidsPlaced)
	bio.WriteUint32LE(g, u.TotalAuctionsParticipated)
	bio.WriteUint32LE(g, u.TotalAuctionsWon)
	bio.WriteUint32LE(g, u.TotalAuctionsCreated)
	bio.WriteUint32LE(g, u.Points)
	bio.WriteByte(g, u.Bump)
	bio.WriteZeroBytes(g, userPaddingLen)
	bio.WriteZeroBytes(g, userReservedLen)
	return g.N, g.Err
}

func (u *UserAccount) ReadFrom(r io.Reader) (int64, error) {
	g := bio.NewGuardReader(r)
	disc, err := bio.ReadFixedBytes(g, ledger.DiscriminatorLen)
	if err != nil {
		return g.N, err
	}
	if !bytes.Equal(disc, UserAccountDiscriminator.Bytes()) {
		return g.N, errors.New("not a user account record")
	}

	owner, _ := bio.ReadFixedBytes(g, ledger.IdentityLen)
	u.TotalBidsPlaced, _ = bio.ReadUint32LE(g)
	u.TotalAuctionsParticipated, _ = bio.ReadUint32LE(g)
	u.TotalAuctionsWon, _ = bio.ReadUint32LE(g)
	u.TotalAuctionsCreated, _ = bio.ReadUint32LE(g)
	u.Points, _ = bio.ReadUint32LE(g)
	u.Bump, _ = bio.ReadByte(g)
	bio.ReadFixedBytes(g, userPaddingLen)
	bio.ReadFixedBytes(g, userReservedLen)
	if g.Err != nil {
		return g.N, g.Err
	}

	u.Owner, _ = ledger.NewIdentityFromBytes(owner)
	return g.N, nil
}

func (u *UserAccount) Encode() []byte {
	var buf bytes.Buffer
	if _, err := u.WriteTo(&buf); err != nil {
		panic(err)
	}
	return buf.Bytes()
}

func DecodeUserAccount(b []byte) (*UserAccount, error) {
	u := new(UserAccount)
	if _, err := u.ReadFrom(bytes.NewReader(b)); err != nil {
		return nil, errors.Wrap(err, "error decoding user account")
	}
	return u, nil
}
