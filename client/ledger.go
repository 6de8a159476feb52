// Package client speaks JSON-RPC to the asset ledger node that
// custodies native funds, credits, and assets.
package client

import (
	"encoding/base64"

	"github.com/pkg/errors"
	"github.com/ybbus/jsonrpc/v2"

	"github.com/seradyn/gavel/ledger"
	"github.com/seradyn/gavel/market"
)

// LedgerRPCClient implements the clock, token ledger, and asset
// registry boundaries over the ledger node's RPC surface.
type LedgerRPCClient struct {
	url       string
	apiKey    string
	rpcClient jsonrpc.RPCClient
}

func NewLedgerClient(url string, apiKey string) *LedgerRPCClient {
	var rpcClient jsonrpc.RPCClient
	if apiKey == "" {
		rpcClient = jsonrpc.NewClient(url)
	} else {
		rpcClient = jsonrpc.NewClientWithOpts(url, &jsonrpc.RPCClientOpts{
			CustomHeaders: map[string]string{
				"Authorization": "Basic " + base64.StdEncoding.EncodeToString([]byte("x:"+apiKey)),
			},
		})
	}

	return &LedgerRPCClient{
		url:       url,
		apiKey:    apiKey,
		rpcClient: rpcClient,
	}
}

func (c *LedgerRPCClient) Slot() (ledger.Slot, error) {
	var slot uint64
	err := c.rpcClient.CallFor(&slot, "getslot")
	if err != nil {
		return 0, errors.Wrap(err, "error getting slot")
	}
	return ledger.Slot(slot), nil
}

func (c *LedgerRPCClient) TransferNative(from, to ledger.Identity, amount uint64) error {
	_, err := c.call("transfernative", from.Hex(), to.Hex(), amount)
	return errors.Wrap(err, "error transferring native funds")
}

func (c *LedgerRPCClient) TransferCredits(from, to ledger.Identity, amount uint64) error {
	_, err := c.call("transfercredits", from.Hex(), to.Hex(), amount)
	return errors.Wrap(err, "error transferring credits")
}

func (c *LedgerRPCClient) MintCredits(to ledger.Identity, amount uint64) error {
	_, err := c.call("mintcredits", to.Hex(), amount)
	return errors.Wrap(err, "error minting credits")
}

func (c *LedgerRPCClient) EscrowLockAsset(asset, owner, escrow ledger.Identity) error {
	_, err := c.call("escrowlock", asset.Hex(), owner.Hex(), escrow.Hex())
	return errors.Wrap(err, "error locking asset in escrow")
}

func (c *LedgerRPCClient) EscrowReleaseAsset(asset, escrow, to ledger.Identity) error {
	_, err := c.call("escrowrelease", asset.Hex(), escrow.Hex(), to.Hex())
	return errors.Wrap(err, "error releasing asset from escrow")
}

type assetInfoRes struct {
	Asset      string `json:"asset"`
	Collection string `json:"collection"`
	Kind       string `json:"kind"`
}

func (c *LedgerRPCClient) VerifyAsset(asset, owner, collection ledger.Identity) (*market.AssetInfo, error) {
	res := new(assetInfoRes)
	err := c.rpcClient.CallFor(res, "verifyasset", asset.Hex(), owner.Hex(), collection.Hex())
	if err != nil {
		return nil, errors.Wrap(err, "error verifying asset")
	}
	return res.assetInfo()
}

func (c *LedgerRPCClient) AssetInfo(asset ledger.Identity) (*market.AssetInfo, error) {
	res := new(assetInfoRes)
	err := c.rpcClient.CallFor(res, "getassetinfo", asset.Hex())
	if err != nil {
		return nil, errors.Wrap(err, "error getting asset info")
	}
	return res.assetInfo()
}

func (c *LedgerRPCClient) UpdateAuthorizationRecord(asset, account ledger.Identity) error {
	_, err := c.call("updateauthrecord", asset.Hex(), account.Hex())
	return errors.Wrap(err, "error updating authorization record")
}

func (c *LedgerRPCClient) call(method string, params ...interface{}) (*jsonrpc.RPCResponse, error) {
	res, err := c.rpcClient.Call(method, params...)
	if err != nil {
		return nil, errors.WithStack(err)
	}
	if res.Error != nil {
		return nil, errors.New(res.Error.Message)
	}
	return res, nil
}

func (r *assetInfoRes) assetInfo() (*market.AssetInfo, error) {
	asset, err := ledger.NewIdentityFromHex(r.Asset)
	if err != nil {
		return nil, err
	}
	collection, err := ledger.NewIdentityFromHex(r.Collection)
	if err != nil {
		return nil, err
	}
	kind, err := market.AssetKindFromString(r.Kind)
	if err != nil {
		return nil, err
	}
	return &market.AssetInfo{
		Asset:      asset,
		Collection: collection,
		Kind:       kind,
	}, nil
}
