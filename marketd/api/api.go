package api

import (
	"encoding/json"
	"fmt"
	"net/http"
	"os"

	"github.com/gorilla/mux"
	"github.com/pkg/errors"

	"github.com/seradyn/gavel/ledger"
	"github.com/seradyn/gavel/log"
	"github.com/seradyn/gavel/market"
	"github.com/seradyn/gavel/marketd"
)

var apiLogger = log.ModuleLogger("api")

type ErrorResponse struct {
	Msg string `json:"msg"`
}

var invalidJSONRes = &ErrorResponse{
	Msg: "Mal-formed JSON payload.",
}

func UnmarshalRequestJSON(w http.ResponseWriter, r *http.Request, in interface{}) bool {
	dec := json.NewDecoder(r.Body)
	if err := dec.Decode(in); err == nil {
		return true
	}
	w.WriteHeader(400)
	MarshalResponseJSON(w, invalidJSONRes)
	return false
}

func MarshalErrorJSON(w http.ResponseWriter, err error, code int) {
	w.Header().Add("Content-Type", "application/json")
	w.WriteHeader(code)
	apiLogger.Error("error handling request", "err", err)
	fmt.Fprintf(os.Stderr, "%+v", err)
	MarshalResponseJSON(w, &ErrorResponse{Msg: err.Error()})
}

func MarshalResponseJSON(w http.ResponseWriter, out interface{}) {
	data, err := json.Marshal(out)
	if err != nil {
		apiLogger.Panic("error marshaling JSON response, shutting down", "err", err)
	}
	if _, err := w.Write(data); err != nil {
		apiLogger.Warning("error writing JSON response")
	}
}

// rejections are instruction-level failures, reported as 400s so
// clients can tell a refused transition from a broken node.
var rejections = []error{
	market.ErrMarketplaceNameInvalid,
	market.ErrInvalidFeeRate,
	market.ErrInvalidTierSchedule,
	market.ErrInvalidTier,
	market.ErrInvalidDuration,
	market.ErrInvalidBidIncrement,
	market.ErrInvalidAsset,
	market.ErrNoBuyoutPrice,
	market.ErrBidderIsHighestBidder,
	market.ErrInvalidCurrentHighestBidderAndPrice,
	market.ErrAuctionInactive,
	market.ErrAuctionNotStarted,
	market.ErrAuctionExpired,
	market.ErrAuctionNotYetExpired,
	market.ErrAlreadySettled,
	market.ErrUnauthorized,
}

func errStatus(err error) int {
	for _, rej := range rejections {
		if errors.Is(err, rej) {
			return 400
		}
	}
	if errors.Is(err, marketd.ErrMarketplaceNotFound) || errors.Is(err, marketd.ErrListingNotFound) {
		return 404
	}
	return 500
}

type API struct {
	network *ledger.Network
	node    *marketd.Node
	apiKey  string
}

func NewAPI(network *ledger.Network, node *marketd.Node, apiKey string) http.Handler {
	api := &API{
		network: network,
		node:    node,
		apiKey:  apiKey,
	}
	r := mux.NewRouter()
	r.Use(api.apiKeyMiddleware)
	v1 := r.PathPrefix("/api/v1").Subrouter()
	v1.HandleFunc("/status", api.Status)
	getOnly(v1.HandleFunc("/events", api.HandleEventsGET))
	jsonPostOnly(v1.HandleFunc("/marketplaces", api.HandleInitializePOST))
	markets := v1.PathPrefix("/marketplaces/{marketplaceID}").Subrouter()
	getOnly(markets.HandleFunc("", api.HandleMarketplaceGET))
	jsonPostOnly(markets.HandleFunc("/tiers", api.HandleUpdateTiersPOST))
	jsonPostOnly(markets.HandleFunc("/listings", api.HandleCreateListingPOST))
	jsonPostOnly(markets.HandleFunc("/credits", api.HandlePurchaseCreditsPOST))
	getOnly(markets.HandleFunc("/users/{ownerID}", api.HandleUserGET))
	listings := v1.PathPrefix("/listings/{listingID}").Subrouter()
	getOnly(listings.HandleFunc("", api.HandleListingGET))
	jsonPostOnly(listings.HandleFunc("/bids", api.HandlePlaceBidPOST))
	postOnly(listings.HandleFunc("/settle", api.HandleSettlePOST))
	jsonPostOnly(listings.HandleFunc("/buyout", api.HandleBuyoutPOST))
	return r
}

func (a *API) Status(w http.ResponseWriter, r *http.Request) {
	slot, err := a.node.Slot()
	if err != nil {
		MarshalErrorJSON(w, err, 500)
		return
	}
	MarshalResponseJSON(w, &NodeStatus{
		Network: a.network.Name,
		Slot:    uint64(slot),
	})
}

func (a *API) HandleInitializePOST(w http.ResponseWriter, r *http.Request) {
	req := new(InitializeReq)
	if !UnmarshalRequestJSON(w, r, req) {
		return
	}

	admin, err := ledger.ParseIdentity(req.Admin)
	if err != nil {
		MarshalErrorJSON(w, err, 400)
		return
	}
	creditMint, err := ledger.ParseIdentity(req.CreditMint)
	if err != nil {
		MarshalErrorJSON(w, err, 400)
		return
	}

	tiers := market.DefaultTierSchedule()
	if len(req.Tiers) > 0 {
		tiers, err = tiersFromJSON(req.Tiers)
		if err != nil {
			MarshalErrorJSON(w, err, 400)
			return
		}
	}

	m, err := a.node.Initialize(admin, creditMint, req.Name, req.Fee, tiers)
	if err != nil {
		MarshalErrorJSON(w, err, errStatus(err))
		return
	}
	MarshalResponseJSON(w, marketplaceRes(m))
}

func (a *API) HandleMarketplaceGET(w http.ResponseWriter, r *http.Request) {
	addr, ok := a.pathIdentity(w, r, "marketplaceID")
	if !ok {
		return
	}
	m, err := a.node.GetMarketplace(addr)
	if err != nil {
		MarshalErrorJSON(w, err, errStatus(err))
		return
	}
	MarshalResponseJSON(w, marketplaceRes(m))
}

func (a *API) HandleUpdateTiersPOST(w http.ResponseWriter, r *http.Request) {
	addr, ok := a.pathIdentity(w, r, "marketplaceID")
	if !ok {
		return
	}
	req := new(UpdateTiersReq)
	if !UnmarshalRequestJSON(w, r, req) {
		return
	}
	caller, err := ledger.ParseIdentity(req.Caller)
	if err != nil {
		MarshalErrorJSON(w, err, 400)
		return
	}
	tiers, err := tiersFromJSON(req.Tiers)
	if err != nil {
		MarshalErrorJSON(w, err, 400)
		return
	}

	m, err := a.node.UpdateTiers(addr, caller, tiers)
	if err != nil {
		MarshalErrorJSON(w, err, errStatus(err))
		return
	}
	MarshalResponseJSON(w, marketplaceRes(m))
}

func (a *API) HandleCreateListingPOST(w http.ResponseWriter, r *http.Request) {
	marketplace, ok := a.pathIdentity(w, r, "marketplaceID")
	if !ok {
		return
	}
	req := new(CreateListingReq)
	if !UnmarshalRequestJSON(w, r, req) {
		return
	}
	seller, err := ledger.ParseIdentity(req.Seller)
	if err != nil {
		MarshalErrorJSON(w, err, 400)
		return
	}
	asset, err := ledger.ParseIdentity(req.Asset)
	if err != nil {
		MarshalErrorJSON(w, err, 400)
		return
	}
	collection, err := ledger.ParseIdentity(req.Collection)
	if err != nil {
		MarshalErrorJSON(w, err, 400)
		return
	}

	l, err := a.node.List(marketplace, seller, asset, collection, market.ListingParams{
		Seed:           uint64(req.Seed),
		BidIncrement:   uint64(req.BidIncrement),
		TimerExtension: ledger.Slot(req.TimerExtension),
		StartTime:      ledger.Slot(req.StartTime),
		Duration:       ledger.Slot(req.Duration),
		BuyoutPrice:    uint64(req.BuyoutPrice),
	})
	if err != nil {
		MarshalErrorJSON(w, err, errStatus(err))
		return
	}
	MarshalResponseJSON(w, listingRes(marketplace, l))
}

func (a *API) HandleListingGET(w http.ResponseWriter, r *http.Request) {
	addr, ok := a.pathIdentity(w, r, "listingID")
	if !ok {
		return
	}
	row, err := a.node.GetListingRow(addr)
	if err != nil {
		MarshalErrorJSON(w, err, errStatus(err))
		return
	}
	MarshalResponseJSON(w, listingRes(row.Marketplace, row.Listing))
}

func (a *API) HandlePlaceBidPOST(w http.ResponseWriter, r *http.Request) {
	addr, ok := a.pathIdentity(w, r, "listingID")
	if !ok {
		return
	}
	req := new(PlaceBidReq)
	if !UnmarshalRequestJSON(w, r, req) {
		return
	}
	bidder, err := ledger.ParseIdentity(req.Bidder)
	if err != nil {
		MarshalErrorJSON(w, err, 400)
		return
	}
	expected := ledger.ZeroIdentity
	if req.ExpectedHighestBidder != "" {
		expected, err = ledger.ParseIdentity(req.ExpectedHighestBidder)
		if err != nil {
			MarshalErrorJSON(w, err, 400)
			return
		}
	}

	l, err := a.node.PlaceBid(addr, bidder, expected, uint64(req.ExpectedCurrentBid))
	if err != nil {
		MarshalErrorJSON(w, err, errStatus(err))
		return
	}
	row, err := a.node.GetListingRow(addr)
	if err != nil {
		MarshalErrorJSON(w, err, errStatus(err))
		return
	}
	MarshalResponseJSON(w, listingRes(row.Marketplace, l))
}

func (a *API) HandleSettlePOST(w http.ResponseWriter, r *http.Request) {
	addr, ok := a.pathIdentity(w, r, "listingID")
	if !ok {
		return
	}
	out, err := a.node.Settle(addr)
	if err != nil {
		MarshalErrorJSON(w, err, errStatus(err))
		return
	}
	winner := ""
	if !out.Winner.IsZero() {
		winner = out.Winner.Hex()
	}
	MarshalResponseJSON(w, &SettleRes{
		Winner:          winner,
		PriceToTreasury: gjsonU64(out.PriceToTreasury),
		AssetRecipient:  out.AssetRecipient.Hex(),
	})
}

func (a *API) HandleBuyoutPOST(w http.ResponseWriter, r *http.Request) {
	addr, ok := a.pathIdentity(w, r, "listingID")
	if !ok {
		return
	}
	req := new(BuyoutReq)
	if !UnmarshalRequestJSON(w, r, req) {
		return
	}
	buyer, err := ledger.ParseIdentity(req.Buyer)
	if err != nil {
		MarshalErrorJSON(w, err, 400)
		return
	}

	out, err := a.node.Buyout(addr, buyer)
	if err != nil {
		MarshalErrorJSON(w, err, errStatus(err))
		return
	}
	MarshalResponseJSON(w, &BuyoutRes{
		Buyer:          out.Buyer.Hex(),
		FeeToTreasury:  gjsonU64(out.FeeToTreasury),
		PriceToSeller:  gjsonU64(out.PriceToSeller),
		AssetRecipient: out.AssetRecipient.Hex(),
	})
}

func (a *API) HandlePurchaseCreditsPOST(w http.ResponseWriter, r *http.Request) {
	addr, ok := a.pathIdentity(w, r, "marketplaceID")
	if !ok {
		return
	}
	req := new(PurchaseCreditsReq)
	if !UnmarshalRequestJSON(w, r, req) {
		return
	}
	buyer, err := ledger.ParseIdentity(req.Buyer)
	if err != nil {
		MarshalErrorJSON(w, err, 400)
		return
	}

	tier, err := a.node.PurchaseCredits(addr, buyer, market.MintCostTier(req.Tier))
	if err != nil {
		MarshalErrorJSON(w, err, errStatus(err))
		return
	}
	MarshalResponseJSON(w, tierToJSON(*tier))
}

func (a *API) HandleUserGET(w http.ResponseWriter, r *http.Request) {
	marketplace, ok := a.pathIdentity(w, r, "marketplaceID")
	if !ok {
		return
	}
	owner, ok := a.pathIdentity(w, r, "ownerID")
	if !ok {
		return
	}
	u, err := a.node.GetUser(marketplace, owner)
	if err != nil {
		MarshalErrorJSON(w, err, errStatus(err))
		return
	}
	MarshalResponseJSON(w, userRes(marketplace, u))
}

func (a *API) HandleEventsGET(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query()
	label := query.Get("label")
	count := GetIntFromQuery(query, "count", 50)
	events, err := a.node.GetEvents(label, count)
	if err != nil {
		MarshalErrorJSON(w, err, 500)
		return
	}
	MarshalResponseJSON(w, events)
}

func (a *API) pathIdentity(w http.ResponseWriter, r *http.Request, key string) (ledger.Identity, bool) {
	id, err := ledger.ParseIdentity(mux.Vars(r)[key])
	if err != nil {
		MarshalErrorJSON(w, err, 400)
		return ledger.ZeroIdentity, false
	}
	return id, true
}

func (a *API) apiKeyMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if a.apiKey == "" {
			next.ServeHTTP(w, r)
			return
		}

		providedKey := r.Header.Get("X-API-Key")
		if providedKey != a.apiKey {
			MarshalErrorJSON(w, errors.New("invalid API key"), 401)
			return
		}

		next.ServeHTTP(w, r)
	})
}

func getOnly(route *mux.Route) {
	route.Methods("GET")
}

func postOnly(route *mux.Route) *mux.Route {
	route.Methods("POST")
	return route
}

func jsonPostOnly(route *mux.Route) {
	postOnly(route).
		Headers("Content-Type", "application/json")
}
