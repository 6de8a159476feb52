package api

import (
	"github.com/seradyn/gavel/gjson"
	"github.com/seradyn/gavel/ledger"
	"github.com/seradyn/gavel/market"
)

type NodeStatus struct {
	Network string `json:"network"`
	Slot    uint64 `json:"slot"`
}

// MintTierJSON carries tier amounts as strings so browser consumers
// keep u64 precision.
type MintTierJSON struct {
	Tier   uint8              `json:"tier"`
	Amount gjson.Uint64String `json:"amount"`
	Cost   gjson.Uint64String `json:"cost"`
	Bonus  gjson.Uint64String `json:"bonus"`
}

func tierToJSON(t market.MintTier) *MintTierJSON {
	return &MintTierJSON{
		Tier:   uint8(t.Tier),
		Amount: gjson.Uint64String(t.Amount),
		Cost:   gjson.Uint64String(t.Cost),
		Bonus:  gjson.Uint64String(t.Bonus),
	}
}

func tiersFromJSON(in []*MintTierJSON) (market.TierSchedule, error) {
	var out market.TierSchedule
	if len(in) != market.NumMintTiers {
		return out, market.ErrInvalidTierSchedule
	}
	for i, t := range in {
		out[i] = market.MintTier{
			Tier:   market.MintCostTier(t.Tier),
			Amount: uint64(t.Amount),
			Cost:   uint64(t.Cost),
			Bonus:  uint64(t.Bonus),
		}
	}
	return out, out.Validate()
}

type InitializeReq struct {
	Admin      string          `json:"admin"`
	CreditMint string          `json:"credit_mint"`
	Name       string          `json:"name"`
	Fee        uint16          `json:"fee"`
	Tiers      []*MintTierJSON `json:"tiers"`
}

type MarketplaceRes struct {
	Address     string          `json:"address"`
	Admin       string          `json:"admin"`
	CreditMint  string          `json:"credit_mint"`
	CreditVault string          `json:"credit_vault"`
	Treasury    string          `json:"treasury"`
	Fee         uint16          `json:"fee"`
	Name        string          `json:"name"`
	Tiers       []*MintTierJSON `json:"tiers"`
}

func marketplaceRes(m *market.Marketplace) *MarketplaceRes {
	tiers := make([]*MintTierJSON, market.NumMintTiers)
	for i, t := range m.Tiers {
		tiers[i] = tierToJSON(t)
	}
	return &MarketplaceRes{
		Address:     m.Address().Hex(),
		Admin:       m.Admin.Hex(),
		CreditMint:  m.CreditMint.Hex(),
		CreditVault: m.CreditVault.Hex(),
		Treasury:    m.Treasury().Hex(),
		Fee:         m.Fee,
		Name:        m.Name,
		Tiers:       tiers,
	}
}

type UpdateTiersReq struct {
	Caller string          `json:"caller"`
	Tiers  []*MintTierJSON `json:"tiers"`
}

type CreateListingReq struct {
	Seller         string             `json:"seller"`
	Asset          string             `json:"asset"`
	Collection     string             `json:"collection"`
	Seed           gjson.Uint64String `json:"seed"`
	BidIncrement   gjson.Uint64String `json:"bid_increment"`
	TimerExtension gjson.Uint64String `json:"timer_extension"`
	StartTime      gjson.Uint64String `json:"start_time"`
	Duration       gjson.Uint64String `json:"duration"`
	BuyoutPrice    gjson.Uint64String `json:"buyout_price"`
}

type ListingRes struct {
	Address        string             `json:"address"`
	Asset          string             `json:"asset"`
	Seller         string             `json:"seller"`
	BidCost        gjson.Uint64String `json:"bid_cost"`
	BidIncrement   gjson.Uint64String `json:"bid_increment"`
	CurrentBid     gjson.Uint64String `json:"current_bid"`
	HighestBidder  string             `json:"highest_bidder"`
	TimerExtension gjson.Uint64String `json:"timer_extension"`
	StartTime      gjson.Uint64String `json:"start_time"`
	EndTime        gjson.Uint64String `json:"end_time"`
	IsActive       bool               `json:"is_active"`
	BuyoutPrice    gjson.Uint64String `json:"buyout_price"`
	Seed           gjson.Uint64String `json:"seed"`
}

func listingRes(marketplace ledger.Identity, l *market.Listing) *ListingRes {
	bidder := ""
	if !l.HighestBidder.IsZero() {
		bidder = l.HighestBidder.Hex()
	}
	return &ListingRes{
		Address:        l.Address(marketplace).Hex(),
		Asset:          l.Asset.Hex(),
		Seller:         l.Seller.Hex(),
		BidCost:        gjson.Uint64String(l.BidCost),
		BidIncrement:   gjson.Uint64String(l.BidIncrement),
		CurrentBid:     gjson.Uint64String(l.CurrentBid),
		HighestBidder:  bidder,
		TimerExtension: gjson.Uint64String(l.TimerExtension),
		StartTime:      gjson.Uint64String(l.StartTime),
		EndTime:        gjson.Uint64String(l.EndTime),
		IsActive:       l.IsActive,
		BuyoutPrice:    gjson.Uint64String(l.BuyoutPrice),
		Seed:           gjson.Uint64String(l.Seed),
	}
}

type PlaceBidReq struct {
	Bidder                string             `json:"bidder"`
	ExpectedHighestBidder string             `json:"expected_highest_bidder"`
	ExpectedCurrentBid    gjson.Uint64String `json:"expected_current_bid"`
}

type SettleRes struct {
	Winner          string             `json:"winner"`
	PriceToTreasury gjson.Uint64String `json:"price_to_treasury"`
	AssetRecipient  string             `json:"asset_recipient"`
}

type BuyoutReq struct {
	Buyer string `json:"buyer"`
}

type BuyoutRes struct {
	Buyer          string             `json:"buyer"`
	FeeToTreasury  gjson.Uint64String `json:"fee_to_treasury"`
	PriceToSeller  gjson.Uint64String `json:"price_to_seller"`
	AssetRecipient string             `json:"asset_recipient"`
}

type PurchaseCreditsReq struct {
	Buyer string `json:"buyer"`
	Tier  uint8  `json:"tier"`
}

type UserRes struct {
	Address                   string `json:"address"`
	Owner                     string `json:"owner"`
	TotalBidsPlaced           uint32 `json:"total_bids_placed"`
	TotalAuctionsParticipated uint32 `json:"total_auctions_participated"`
	TotalAuctionsWon          uint32 `json:"total_auctions_won"`
	TotalAuctionsCreated      uint32 `json:"total_auctions_created"`
	Points                    uint32 `json:"points"`
}

func userRes(marketplace ledger.Identity, u *market.UserAccount) *UserRes {
	return &UserRes{
		Address:                   u.Address(marketplace).Hex(),
		Owner:                     u.Owner.Hex(),
		TotalBidsPlaced:           u.TotalBidsPlaced,
		TotalAuctionsParticipated: u.TotalAuctionsParticipated,
		TotalAuctionsWon:          u.TotalAuctionsWon,
		TotalAuctionsCreated:      u.TotalAuctionsCreated,
		Points:                    u.Points,
	}
}
