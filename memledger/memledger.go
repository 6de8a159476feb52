// Package memledger is an in-memory implementation of the token
// ledger, asset registry, and clock boundaries. The simulated network
// and the test suites run against it.
package memledger

import (
	"sync"

	"github.com/pkg/errors"

	"github.com/seradyn/gavel/ledger"
	"github.com/seradyn/gavel/market"
)

var (
	ErrInsufficientFunds = errors.New("insufficient funds")
	ErrUnknownAsset      = errors.New("unknown asset")
	ErrAssetNotHeld      = errors.New("asset not held by owner")
	ErrWrongCollection   = errors.New("asset not in collection")
)

type assetState struct {
	info   market.AssetInfo
	holder ledger.Identity
}

// Ledger holds native and credit balances plus asset ownership in
// maps. Every mutation takes the lock; there is no partial failure,
// each call either applies fully or returns an error with nothing
// changed.
type Ledger struct {
	mtx     sync.Mutex
	slot    ledger.Slot
	native  map[ledger.Identity]uint64
	credits map[ledger.Identity]uint64
	assets  map[ledger.Identity]*assetState
	auths   map[ledger.Identity]ledger.Identity
}

func NewLedger() *Ledger {
	return &Ledger{
		native:  make(map[ledger.Identity]uint64),
		credits: make(map[ledger.Identity]uint64),
		assets:  make(map[ledger.Identity]*assetState),
		auths:   make(map[ledger.Identity]ledger.Identity),
	}
}

func (l *Ledger) Slot() (ledger.Slot, error) {
	l.mtx.Lock()
	defer l.mtx.Unlock()
	return l.slot, nil
}

func (l *Ledger) SetSlot(slot ledger.Slot) {
	l.mtx.Lock()
	defer l.mtx.Unlock()
	l.slot = slot
}

func (l *Ledger) AdvanceSlot(by ledger.Slot) {
	l.mtx.Lock()
	defer l.mtx.Unlock()
	l.slot += by
}

func (l *Ledger) FundNative(to ledger.Identity, amount uint64) {
	l.mtx.Lock()
	defer l.mtx.Unlock()
	l.native[to] += amount
}

func (l *Ledger) FundCredits(to ledger.Identity, amount uint64) {
	l.mtx.Lock()
	defer l.mtx.Unlock()
	l.credits[to] += amount
}

func (l *Ledger) NativeBalance(of ledger.Identity) uint64 {
	l.mtx.Lock()
	defer l.mtx.Unlock()
	return l.native[of]
}

func (l *Ledger) CreditBalance(of ledger.Identity) uint64 {
	l.mtx.Lock()
	defer l.mtx.Unlock()
	return l.credits[of]
}

// RegisterAsset creates an asset held by owner as a verified member
// of collection.
func (l *Ledger) RegisterAsset(asset, owner, collection ledger.Identity, kind market.AssetKind) {
	l.mtx.Lock()
	defer l.mtx.Unlock()
	l.assets[asset] = &assetState{
		info: market.AssetInfo{
			Asset:      asset,
			Collection: collection,
			Kind:       kind,
		},
		holder: owner,
	}
}

func (l *Ledger) AssetHolder(asset ledger.Identity) (ledger.Identity, error) {
	l.mtx.Lock()
	defer l.mtx.Unlock()
	state, ok := l.assets[asset]
	if !ok {
		return ledger.ZeroIdentity, errors.WithStack(ErrUnknownAsset)
	}
	return state.holder, nil
}

// AuthorizedAccount returns the account the asset's authorization
// record currently points at.
func (l *Ledger) AuthorizedAccount(asset ledger.Identity) ledger.Identity {
	l.mtx.Lock()
	defer l.mtx.Unlock()
	return l.auths[asset]
}

func (l *Ledger) TransferNative(from, to ledger.Identity, amount uint64) error {
	l.mtx.Lock()
	defer l.mtx.Unlock()
	return l.transfer(l.native, from, to, amount)
}

func (l *Ledger) TransferCredits(from, to ledger.Identity, amount uint64) error {
	l.mtx.Lock()
	defer l.mtx.Unlock()
	return l.transfer(l.credits, from, to, amount)
}

func (l *Ledger) MintCredits(to ledger.Identity, amount uint64) error {
	l.mtx.Lock()
	defer l.mtx.Unlock()
	l.credits[to] += amount
	return nil
}

func (l *Ledger) transfer(balances map[ledger.Identity]uint64, from, to ledger.Identity, amount uint64) error {
	if balances[from] < amount {
		return errors.WithStack(ErrInsufficientFunds)
	}
	balances[from] -= amount
	balances[to] += amount
	return nil
}

func (l *Ledger) EscrowLockAsset(asset, owner, escrow ledger.Identity) error {
	return l.moveAsset(asset, owner, escrow)
}

func (l *Ledger) EscrowReleaseAsset(asset, escrow, to ledger.Identity) error {
	return l.moveAsset(asset, escrow, to)
}

func (l *Ledger) moveAsset(asset, from, to ledger.Identity) error {
	l.mtx.Lock()
	defer l.mtx.Unlock()
	state, ok := l.assets[asset]
	if !ok {
		return errors.WithStack(ErrUnknownAsset)
	}
	if !state.holder.Equal(from) {
		return errors.WithStack(ErrAssetNotHeld)
	}
	state.holder = to
	return nil
}

func (l *Ledger) VerifyAsset(asset, owner, collection ledger.Identity) (*market.AssetInfo, error) {
	l.mtx.Lock()
	defer l.mtx.Unlock()
	state, ok := l.assets[asset]
	if !ok {
		return nil, errors.WithStack(ErrUnknownAsset)
	}
	if !state.holder.Equal(owner) {
		return nil, errors.WithStack(ErrAssetNotHeld)
	}
	if !state.info.Collection.Equal(collection) {
		return nil, errors.WithStack(ErrWrongCollection)
	}
	info := state.info
	return &info, nil
}

func (l *Ledger) AssetInfo(asset ledger.Identity) (*market.AssetInfo, error) {
	l.mtx.Lock()
	defer l.mtx.Unlock()
	state, ok := l.assets[asset]
	if !ok {
		return nil, errors.WithStack(ErrUnknownAsset)
	}
	info := state.info
	return &info, nil
}

func (l *Ledger) UpdateAuthorizationRecord(asset, account ledger.Identity) error {
	l.mtx.Lock()
	defer l.mtx.Unlock()
	if _, ok := l.assets[asset]; !ok {
		return errors.WithStack(ErrUnknownAsset)
	}
	l.auths[asset] = account
	return nil
}
