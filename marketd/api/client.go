package api

import (
	"fmt"

	"github.com/seradyn/gavel/ghttp"
	"github.com/seradyn/gavel/marketdb"
)

type Client struct {
	url    string
	apiKey string
}

func NewClient(url string, apiKey string) *Client {
	return &Client{
		url:    url,
		apiKey: apiKey,
	}
}

func (c *Client) Status() (*NodeStatus, error) {
	res := new(NodeStatus)
	err := c.doGet("api/v1/status", res)
	return res, err
}

func (c *Client) Initialize(req *InitializeReq) (*MarketplaceRes, error) {
	res := new(MarketplaceRes)
	err := c.doPost("api/v1/marketplaces", req, res)
	return res, err
}

func (c *Client) GetMarketplace(marketplaceID string) (*MarketplaceRes, error) {
	res := new(MarketplaceRes)
	err := c.doGet(c.marketplacePath(marketplaceID), res)
	return res, err
}

func (c *Client) UpdateTiers(marketplaceID string, req *UpdateTiersReq) (*MarketplaceRes, error) {
	res := new(MarketplaceRes)
	err := c.doPost(c.marketplacePath(marketplaceID, "tiers"), req, res)
	return res, err
}

func (c *Client) CreateListing(marketplaceID string, req *CreateListingReq) (*ListingRes, error) {
	res := new(ListingRes)
	err := c.doPost(c.marketplacePath(marketplaceID, "listings"), req, res)
	return res, err
}

func (c *Client) PurchaseCredits(marketplaceID string, req *PurchaseCreditsReq) (*MintTierJSON, error) {
	res := new(MintTierJSON)
	err := c.doPost(c.marketplacePath(marketplaceID, "credits"), req, res)
	return res, err
}

func (c *Client) GetUser(marketplaceID, ownerID string) (*UserRes, error) {
	res := new(UserRes)
	err := c.doGet(c.marketplacePath(marketplaceID, "users", ownerID), res)
	return res, err
}

func (c *Client) GetListing(listingID string) (*ListingRes, error) {
	res := new(ListingRes)
	err := c.doGet(c.listingPath(listingID), res)
	return res, err
}

func (c *Client) PlaceBid(listingID string, req *PlaceBidReq) (*ListingRes, error) {
	res := new(ListingRes)
	err := c.doPost(c.listingPath(listingID, "bids"), req, res)
	return res, err
}

func (c *Client) Settle(listingID string) (*SettleRes, error) {
	res := new(SettleRes)
	err := c.doPost(c.listingPath(listingID, "settle"), nil, res)
	return res, err
}

func (c *Client) Buyout(listingID string, req *BuyoutReq) (*BuyoutRes, error) {
	res := new(BuyoutRes)
	err := c.doPost(c.listingPath(listingID, "buyout"), req, res)
	return res, err
}

func (c *Client) GetEvents(label string, count int) ([]*marketdb.EventRow, error) {
	var res []*marketdb.EventRow
	path := fmt.Sprintf("api/v1/events?count=%d", count)
	if label != "" {
		path += "&label=" + label
	}
	err := c.doGet(path, &res)
	return res, err
}

func (c *Client) doGet(path string, resObj interface{}) error {
	return ghttp.DefaultClient.DoGetJSON(
		fmt.Sprintf("%s/%s", c.url, path),
		resObj,
		ghttp.WithHeader("X-API-Key", c.apiKey),
	)
}

func (c *Client) doPost(path string, reqObj interface{}, resObj interface{}) error {
	return ghttp.DefaultClient.DoPostJSON(
		fmt.Sprintf("%s/%s", c.url, path),
		reqObj,
		resObj,
		ghttp.WithHeader("X-API-Key", c.apiKey),
	)
}

func (c *Client) marketplacePath(marketplaceID string, suffixes ...string) string {
	path := fmt.Sprintf("api/v1/marketplaces/%s", marketplaceID)
	for _, suffix := range suffixes {
		path += "/" + suffix
	}
	return path
}

func (c *Client) listingPath(listingID string, suffixes ...string) string {
	path := fmt.Sprintf("api/v1/listings/%s", listingID)
	for _, suffix := range suffixes {
		path += "/" + suffix
	}
	return path
}
