package memledger

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/seradyn/gavel/ledger"
	"github.com/seradyn/gavel/market"
)

var (
	alice      = ledger.MustIdentityFromHex("4444444444444444444444444444444444444444444444444444444444444444")
	bob        = ledger.MustIdentityFromHex("5555555555555555555555555555555555555555555555555555555555555555")
	asset      = ledger.MustIdentityFromHex("3333333333333333333333333333333333333333333333333333333333333333")
	collection = ledger.MustIdentityFromHex("cccccccccccccccccccccccccccccccccccccccccccccccccccccccccccccccc")
)

func TestTransfers(t *testing.T) {
	l := NewLedger()
	l.FundNative(alice, 100)

	require.NoError(t, l.TransferNative(alice, bob, 60))
	require.EqualValues(t, 40, l.NativeBalance(alice))
	require.EqualValues(t, 60, l.NativeBalance(bob))

	err := l.TransferNative(alice, bob, 41)
	require.ErrorIs(t, err, ErrInsufficientFunds)
	require.EqualValues(t, 40, l.NativeBalance(alice))

	require.NoError(t, l.MintCredits(bob, 25))
	require.NoError(t, l.TransferCredits(bob, alice, 10))
	require.EqualValues(t, 10, l.CreditBalance(alice))
	require.EqualValues(t, 15, l.CreditBalance(bob))
}

func TestEscrow(t *testing.T) {
	l := NewLedger()
	l.RegisterAsset(asset, alice, collection, market.AssetStandard)
	escrow := ledger.MustIdentityFromHex("9999999999999999999999999999999999999999999999999999999999999999")

	require.ErrorIs(t, l.EscrowLockAsset(asset, bob, escrow), ErrAssetNotHeld)
	require.NoError(t, l.EscrowLockAsset(asset, alice, escrow))

	holder, err := l.AssetHolder(asset)
	require.NoError(t, err)
	require.Equal(t, escrow, holder)

	require.NoError(t, l.EscrowReleaseAsset(asset, escrow, bob))
	holder, err = l.AssetHolder(asset)
	require.NoError(t, err)
	require.Equal(t, bob, holder)
}

func TestVerifyAsset(t *testing.T) {
	l := NewLedger()
	l.RegisterAsset(asset, alice, collection, market.AssetRestricted)

	info, err := l.VerifyAsset(asset, alice, collection)
	require.NoError(t, err)
	require.Equal(t, market.AssetRestricted, info.Kind)

	_, err = l.VerifyAsset(asset, bob, collection)
	require.ErrorIs(t, err, ErrAssetNotHeld)

	_, err = l.VerifyAsset(asset, alice, bob)
	require.ErrorIs(t, err, ErrWrongCollection)

	_, err = l.VerifyAsset(bob, alice, collection)
	require.ErrorIs(t, err, ErrUnknownAsset)
}

func TestClock(t *testing.T) {
	l := NewLedger()
	l.SetSlot(100)
	l.AdvanceSlot(50)
	slot, err := l.Slot()
	require.NoError(t, err)
	require.EqualValues(t, 150, slot)
}
