package market

import (
	"github.com/seradyn/gavel/ledger"
)

// Clock reads the ledger-native tick. Expiry is always checked
// against this at transition time, never via background timers.
type Clock interface {
	Slot() (ledger.Slot, error)
}

// TokenLedger is the boundary to the external asset ledger's
// fungible-token and asset primitives. Implementations must apply
// each call atomically; the core never retries.
type TokenLedger interface {
	TransferNative(from, to ledger.Identity, amount uint64) error
	TransferCredits(from, to ledger.Identity, amount uint64) error
	MintCredits(to ledger.Identity, amount uint64) error
	EscrowLockAsset(asset, owner, escrow ledger.Identity) error
	EscrowReleaseAsset(asset, escrow, to ledger.Identity) error
}

// AssetRegistry verifies collection membership and manages the
// authorization records restricted assets require on transfer.
type AssetRegistry interface {
	// VerifyAsset checks that owner holds asset and that asset is a
	// verified member of collection, returning the asset's kind.
	VerifyAsset(asset, owner, collection ledger.Identity) (*AssetInfo, error)

	// AssetInfo resolves an already-listed asset's kind without an
	// ownership check.
	AssetInfo(asset ledger.Identity) (*AssetInfo, error)

	// UpdateAuthorizationRecord refreshes the authorization record
	// binding asset to a token account. Called for both the escrow
	// and destination accounts when moving restricted assets.
	UpdateAuthorizationRecord(asset, account ledger.Identity) error
}
