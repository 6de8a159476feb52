package market

import (
	"github.com/seradyn/gavel/bio"
	"github.com/seradyn/gavel/ledger"
)

// Address derivations for every record kind. These mirror the wire
// addressing rules: tag string, then parent identities in declaration
// order, then (for listings) the little-endian seed.

func MarketplaceAddress(admin, creditMint ledger.Identity, name string) (ledger.Identity, uint8) {
	return ledger.Derive(ledger.TagMarketplace, admin.Bytes(), creditMint.Bytes(), []byte(name))
}

func ListingAddress(marketplace, asset ledger.Identity, seed uint64) (ledger.Identity, uint8) {
	return ledger.Derive(ledger.TagListing, marketplace.Bytes(), asset.Bytes(), bio.Uint64LE(seed))
}

func UserAccountAddress(marketplace, owner ledger.Identity) (ledger.Identity, uint8) {
	return ledger.Derive(ledger.TagUser, marketplace.Bytes(), owner.Bytes())
}

func TreasuryAddress(marketplace ledger.Identity) (ledger.Identity, uint8) {
	return ledger.Derive(ledger.TagTreasury, marketplace.Bytes())
}

func RewardsAddress(marketplace ledger.Identity) (ledger.Identity, uint8) {
	return ledger.Derive(ledger.TagRewards, marketplace.Bytes())
}

// EscrowAddress is the token account owned by the listing that holds
// the asset for the listing's active lifetime.
func EscrowAddress(listing, asset ledger.Identity) (ledger.Identity, uint8) {
	return ledger.Derive(ledger.TagEscrow, listing.Bytes(), asset.Bytes())
}
