package marketd

import (
	"github.com/pkg/errors"

	"github.com/seradyn/gavel/ledger"
	"github.com/seradyn/gavel/log"
	"github.com/seradyn/gavel/market"
	"github.com/seradyn/gavel/marketdb"
)

var (
	ErrMarketplaceNotFound = errors.New("marketplace not found")
	ErrListingNotFound     = errors.New("listing not found")
)

// Node applies marketplace instructions. Every operation reads the
// clock once, then runs as a single storage transaction with token
// ledger movements sequenced after every fallible record write: a
// rejected write rolls the instruction back before anything has moved,
// and a failed transfer rolls the records back. Instructions that need
// more than one ledger movement undo the movements already made before
// surfacing the error, so a retry never double-applies.
type Node struct {
	engine *marketdb.Engine
	tokens market.TokenLedger
	assets market.AssetRegistry
	clock  market.Clock
	lgr    log.Logger
}

func NewNode(engine *marketdb.Engine, tokens market.TokenLedger, assets market.AssetRegistry, clock market.Clock) *Node {
	return &Node{
		engine: engine,
		tokens: tokens,
		assets: assets,
		clock:  clock,
		lgr:    log.ModuleLogger("node"),
	}
}

func (n *Node) Initialize(admin, creditMint ledger.Identity, name string, fee uint16, tiers market.TierSchedule) (*market.Marketplace, error) {
	slot, err := n.clock.Slot()
	if err != nil {
		return nil, err
	}

	m, err := market.NewMarketplace(admin, creditMint, name, fee, tiers)
	if err != nil {
		return nil, err
	}

	err = n.engine.Transaction(func(tx marketdb.Transactor) error {
		if err := marketdb.CreateMarketplace(tx, m); err != nil {
			return err
		}
		return marketdb.RecordEvent(tx, &market.MarketInitialized{
			Marketplace: m.Address(),
			Admin:       admin,
			Name:        name,
		}, slot)
	})
	if err != nil {
		return nil, err
	}

	n.lgr.Info(
		"initialized marketplace",
		"address", m.Address(),
		"name", name,
		"fee", fee,
	)
	return m, nil
}

func (n *Node) UpdateTiers(marketplace, caller ledger.Identity, tiers market.TierSchedule) (*market.Marketplace, error) {
	var m *market.Marketplace
	err := n.engine.Transaction(func(tx marketdb.Transactor) error {
		var err error
		m, err = n.getMarketplace(tx, marketplace)
		if err != nil {
			return err
		}
		if err := m.UpdateTiers(caller, tiers); err != nil {
			return err
		}
		return marketdb.UpdateMarketplaceTiers(tx, marketplace, tiers)
	})
	if err != nil {
		return nil, err
	}

	n.lgr.Info("updated mint tiers", "marketplace", marketplace)
	return m, nil
}

// List escrows the asset and opens the auction. The asset must be a
// verified member of collection and held by seller; restricted assets
// get their authorization record repointed at the escrow account.
func (n *Node) List(marketplace, seller, asset, collection ledger.Identity, params market.ListingParams) (*market.Listing, error) {
	slot, err := n.clock.Slot()
	if err != nil {
		return nil, err
	}

	info, err := n.assets.VerifyAsset(asset, seller, collection)
	if err != nil {
		return nil, errors.WithStack(market.ErrInvalidAsset)
	}

	if params.StartTime == 0 {
		params.StartTime = slot
	}

	var l *market.Listing
	err = n.engine.Transaction(func(tx marketdb.Transactor) error {
		if _, err := n.getMarketplace(tx, marketplace); err != nil {
			return err
		}

		var err error
		l, err = market.NewListing(marketplace, seller, asset, params)
		if err != nil {
			return err
		}

		if err := marketdb.CreateListing(tx, marketplace, l); err != nil {
			return err
		}

		user, err := n.getOrCreateUser(tx, marketplace, seller, slot)
		if err != nil {
			return err
		}
		user.CreditListingCreated()
		if err := marketdb.UpdateUser(tx, marketplace, user); err != nil {
			return err
		}

		err = marketdb.RecordEvent(tx, &market.ListingCreated{
			Listing: l.Address(marketplace),
			Asset:   asset,
			Seller:  seller,
			EndTime: l.EndTime,
		}, slot)
		if err != nil {
			return err
		}

		// Ledger movements last. A seed collision on the insert above
		// must not leave the asset locked at a dead escrow address.
		escrow := l.Escrow(marketplace)
		if err := n.tokens.EscrowLockAsset(asset, seller, escrow); err != nil {
			return err
		}
		if info.Kind == market.AssetRestricted {
			if err := n.assets.UpdateAuthorizationRecord(asset, escrow); err != nil {
				if relErr := n.tokens.EscrowReleaseAsset(asset, escrow, seller); relErr != nil {
					n.lgr.Error(
						"failed to release escrow for aborted listing",
						"asset", asset,
						"err", relErr,
					)
				}
				return err
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	n.lgr.Info(
		"created listing",
		"listing", l.Address(marketplace),
		"asset", asset,
		"end_time", l.EndTime,
	)
	return l, nil
}

// PlaceBid debits the flat bid fee in credits to the marketplace
// vault and applies the compare-and-swap transition. The expected pair
// is the state the bidder last observed.
func (n *Node) PlaceBid(listing, bidder, expectedHighestBidder ledger.Identity, expectedCurrentBid uint64) (*market.Listing, error) {
	slot, err := n.clock.Slot()
	if err != nil {
		return nil, err
	}

	var l *market.Listing
	err = n.engine.Transaction(func(tx marketdb.Transactor) error {
		row, err := n.getListing(tx, listing)
		if err != nil {
			return err
		}
		l = row.Listing

		m, err := n.getMarketplace(tx, row.Marketplace)
		if err != nil {
			return err
		}

		if err := l.PlaceBid(bidder, expectedHighestBidder, expectedCurrentBid, slot); err != nil {
			return err
		}

		if err := marketdb.UpdateListing(tx, listing, l); err != nil {
			return err
		}

		bidBefore, err := marketdb.HasBidOnListing(tx, listing, bidder)
		if err != nil {
			return err
		}
		if err := marketdb.RecordBid(tx, listing, bidder, l.CurrentBid, l.EndTime, slot); err != nil {
			return err
		}

		user, err := n.getOrCreateUser(tx, row.Marketplace, bidder, slot)
		if err != nil {
			return err
		}
		user.CreditBidPlaced(!bidBefore)
		if err := marketdb.UpdateUser(tx, row.Marketplace, user); err != nil {
			return err
		}

		err = marketdb.RecordEvent(tx, &market.BidPlaced{
			Listing:    listing,
			Bidder:     bidder,
			CurrentBid: l.CurrentBid,
			EndTime:    l.EndTime,
		}, slot)
		if err != nil {
			return err
		}

		return n.tokens.TransferCredits(bidder, m.CreditVault, l.BidFee())
	})
	if err != nil {
		return nil, err
	}

	n.lgr.Info(
		"accepted bid",
		"listing", listing,
		"bidder", bidder,
		"current_bid", l.CurrentBid,
		"end_time", l.EndTime,
	)
	return l, nil
}

// Settle closes an expired listing. Any party may call it; when a
// winner exists the final price moves from the winner to the treasury
// in full and the asset leaves escrow for the winner. With no bids the
// asset returns to the seller and no funds move.
func (n *Node) Settle(listing ledger.Identity) (*market.SettlementOutcome, error) {
	slot, err := n.clock.Slot()
	if err != nil {
		return nil, err
	}

	var out *market.SettlementOutcome
	err = n.engine.Transaction(func(tx marketdb.Transactor) error {
		row, err := n.getListing(tx, listing)
		if err != nil {
			return err
		}
		l := row.Listing

		m, err := n.getMarketplace(tx, row.Marketplace)
		if err != nil {
			return err
		}

		out, err = l.Settle(slot)
		if err != nil {
			return err
		}

		if err := marketdb.UpdateListing(tx, listing, l); err != nil {
			return err
		}

		if !out.Winner.IsZero() {
			user, err := n.getOrCreateUser(tx, row.Marketplace, out.Winner, slot)
			if err != nil {
				return err
			}
			user.CreditAuctionWon()
			if err := marketdb.UpdateUser(tx, row.Marketplace, user); err != nil {
				return err
			}
		}

		err = marketdb.RecordEvent(tx, &market.ListingEnded{
			Listing: listing,
			Winner:  out.Winner,
		}, slot)
		if err != nil {
			return err
		}

		if out.PriceToTreasury > 0 {
			if err := n.tokens.TransferNative(out.Winner, m.Treasury(), out.PriceToTreasury); err != nil {
				return err
			}
		}
		if err := n.releaseEscrow(l, row.Marketplace, out.AssetRecipient); err != nil {
			// The rollback reopens the listing, so the sweep has to be
			// returned or a retried settle would charge the winner twice.
			n.refundNative(listing, m.Treasury(), out.Winner, out.PriceToTreasury)
			return err
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	n.lgr.Info(
		"settled listing",
		"listing", listing,
		"winner", out.Winner,
		"price", out.PriceToTreasury,
	)
	return out, nil
}

// Buyout closes an active listing at its fixed buyout price: the fee
// share goes to the treasury, the remainder to the seller, and the
// asset leaves escrow for the buyer.
func (n *Node) Buyout(listing, buyer ledger.Identity) (*market.BuyoutOutcome, error) {
	slot, err := n.clock.Slot()
	if err != nil {
		return nil, err
	}

	var out *market.BuyoutOutcome
	err = n.engine.Transaction(func(tx marketdb.Transactor) error {
		row, err := n.getListing(tx, listing)
		if err != nil {
			return err
		}
		l := row.Listing

		m, err := n.getMarketplace(tx, row.Marketplace)
		if err != nil {
			return err
		}

		out, err = l.Buyout(buyer, m.Fee)
		if err != nil {
			return err
		}

		if err := marketdb.UpdateListing(tx, listing, l); err != nil {
			return err
		}

		err = marketdb.RecordEvent(tx, &market.ListingEnded{
			Listing: listing,
			Winner:  buyer,
		}, slot)
		if err != nil {
			return err
		}

		if out.FeeToTreasury > 0 {
			if err := n.tokens.TransferNative(buyer, m.Treasury(), out.FeeToTreasury); err != nil {
				return err
			}
		}
		if err := n.tokens.TransferNative(buyer, l.Seller, out.PriceToSeller); err != nil {
			n.refundNative(listing, m.Treasury(), buyer, out.FeeToTreasury)
			return err
		}
		if err := n.releaseEscrow(l, row.Marketplace, buyer); err != nil {
			n.refundNative(listing, l.Seller, buyer, out.PriceToSeller)
			n.refundNative(listing, m.Treasury(), buyer, out.FeeToTreasury)
			return err
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	n.lgr.Info(
		"bought out listing",
		"listing", listing,
		"buyer", buyer,
		"price", out.FeeToTreasury+out.PriceToSeller,
	)
	return out, nil
}

// PurchaseCredits exchanges native currency for bid credits at one of
// the marketplace's fixed tiers. The cost goes to the treasury and the
// tier's amount plus bonus is minted to the buyer.
func (n *Node) PurchaseCredits(marketplace, buyer ledger.Identity, tier market.MintCostTier) (*market.MintTier, error) {
	slot, err := n.clock.Slot()
	if err != nil {
		return nil, err
	}

	var bought market.MintTier
	err = n.engine.Transaction(func(tx marketdb.Transactor) error {
		m, err := n.getMarketplace(tx, marketplace)
		if err != nil {
			return err
		}

		bought, err = m.Tiers.Lookup(tier)
		if err != nil {
			return err
		}

		user, err := n.getOrCreateUser(tx, marketplace, buyer, slot)
		if err != nil {
			return err
		}
		user.CreditPurchase()
		if err := marketdb.UpdateUser(tx, marketplace, user); err != nil {
			return err
		}

		if err := n.tokens.TransferNative(buyer, m.Treasury(), bought.Cost); err != nil {
			return err
		}
		if err := n.tokens.MintCredits(buyer, bought.Credited()); err != nil {
			n.refundNative(m.Address(), m.Treasury(), buyer, bought.Cost)
			return err
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	n.lgr.Info(
		"purchased credits",
		"marketplace", marketplace,
		"buyer", buyer,
		"tier", bought.Tier,
		"credited", bought.Credited(),
	)
	return &bought, nil
}

func (n *Node) GetMarketplace(addr ledger.Identity) (*market.Marketplace, error) {
	var m *market.Marketplace
	err := n.engine.Transaction(func(tx marketdb.Transactor) error {
		var err error
		m, err = n.getMarketplace(tx, addr)
		return err
	})
	if err != nil {
		return nil, err
	}
	return m, nil
}

func (n *Node) GetListing(addr ledger.Identity) (*market.Listing, error) {
	row, err := n.GetListingRow(addr)
	if err != nil {
		return nil, err
	}
	return row.Listing, nil
}

func (n *Node) GetListingRow(addr ledger.Identity) (*marketdb.ListingRow, error) {
	var row *marketdb.ListingRow
	err := n.engine.Transaction(func(tx marketdb.Transactor) error {
		var err error
		row, err = n.getListing(tx, addr)
		return err
	})
	if err != nil {
		return nil, err
	}
	return row, nil
}

func (n *Node) GetUser(marketplace, owner ledger.Identity) (*market.UserAccount, error) {
	var user *market.UserAccount
	err := n.engine.Transaction(func(tx marketdb.Transactor) error {
		var err error
		user, err = marketdb.GetUser(tx, marketplace, owner)
		if err != nil {
			return err
		}
		if user == nil {
			user = market.NewUserAccount(marketplace, owner)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return user, nil
}

func (n *Node) GetEvents(label string, count int) ([]*marketdb.EventRow, error) {
	var out []*marketdb.EventRow
	err := n.engine.Transaction(func(tx marketdb.Transactor) error {
		var err error
		out, err = marketdb.GetEvents(tx, label, count)
		return err
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}

func (n *Node) Slot() (ledger.Slot, error) {
	return n.clock.Slot()
}

func (n *Node) getMarketplace(tx marketdb.Transactor, addr ledger.Identity) (*market.Marketplace, error) {
	m, err := marketdb.GetMarketplace(tx, addr)
	if err != nil {
		return nil, err
	}
	if m == nil {
		return nil, errors.WithStack(ErrMarketplaceNotFound)
	}
	return m, nil
}

func (n *Node) getListing(tx marketdb.Transactor, addr ledger.Identity) (*marketdb.ListingRow, error) {
	row, err := marketdb.GetListing(tx, addr)
	if err != nil {
		return nil, err
	}
	if row == nil {
		return nil, errors.WithStack(ErrListingNotFound)
	}
	return row, nil
}

func (n *Node) releaseEscrow(l *market.Listing, marketplace, to ledger.Identity) error {
	escrow := l.Escrow(marketplace)
	info, err := n.assets.AssetInfo(l.Asset)
	if err != nil {
		return err
	}
	if info.Kind == market.AssetRestricted {
		if err := n.assets.UpdateAuthorizationRecord(l.Asset, to); err != nil {
			return err
		}
	}
	if err := n.tokens.EscrowReleaseAsset(l.Asset, escrow, to); err != nil {
		if info.Kind == market.AssetRestricted {
			if authErr := n.assets.UpdateAuthorizationRecord(l.Asset, escrow); authErr != nil {
				n.lgr.Error(
					"failed to restore escrow authorization record",
					"asset", l.Asset,
					"err", authErr,
				)
			}
		}
		return err
	}
	return nil
}

// refundNative returns a movement made earlier in an instruction whose
// records are about to roll back. Zero amounts are skipped.
func (n *Node) refundNative(subject, from, to ledger.Identity, amount uint64) {
	if amount == 0 {
		return
	}
	if err := n.tokens.TransferNative(from, to, amount); err != nil {
		n.lgr.Error(
			"failed to refund native transfer",
			"subject", subject,
			"recipient", to,
			"amount", amount,
			"err", err,
		)
	}
}

func (n *Node) getOrCreateUser(tx marketdb.Transactor, marketplace, owner ledger.Identity, slot ledger.Slot) (*market.UserAccount, error) {
	user, err := marketdb.GetUser(tx, marketplace, owner)
	if err != nil {
		return nil, err
	}
	if user != nil {
		return user, nil
	}

	user = market.NewUserAccount(marketplace, owner)
	if err := marketdb.CreateUser(tx, marketplace, user); err != nil {
		return nil, err
	}
	err = marketdb.RecordEvent(tx, &market.UserCreated{
		User:  user.Address(marketplace),
		Owner: owner,
	}, slot)
	if err != nil {
		return nil, err
	}
	return user, nil
}
