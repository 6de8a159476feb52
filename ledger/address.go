package ledger

import (
	"github.com/seradyn/gavel/gcrypto"
)

// Record addresses are content-derived: blake2b-256 over the record
// tag, its parent identities/seeds in declaration order, and a bump
// byte. Callers can recompute any record's address offline before
// submitting a transaction against it.

const DerivationBump uint8 = 255

const (
	TagMarketplace = "marketplace"
	TagListing     = "listing"
	TagUser        = "user"
	TagTreasury    = "treasury"
	TagRewards     = "rewards"
	TagEscrow      = "escrow"
)

func Derive(tag string, seeds ...[]byte) (Identity, uint8) {
	preimage := []byte(tag)
	for _, seed := range seeds {
		preimage = append(preimage, seed...)
	}
	preimage = append(preimage, DerivationBump)

	var id Identity
	copy(id[:], gcrypto.Blake256(preimage))
	return id, DerivationBump
}

// VerifyDerivation checks a stored (address, bump) pair against a
// fresh derivation. Records carry their bump for layout compatibility;
// a mismatch means the record was not created by this derivation.
func VerifyDerivation(addr Identity, bump uint8, tag string, seeds ...[]byte) bool {
	derived, derivedBump := Derive(tag, seeds...)
	return bump == derivedBump && addr.Equal(derived)
}
