package market

import (
	"github.com/pkg/errors"

	"github.com/seradyn/gavel/ledger"
)

// AssetKind distinguishes standard assets from restricted
// ("programmable") ones, which require authorization-record updates
// on every transfer. It is resolved once at the start of an operation
// and branched on, never subclassed.
type AssetKind uint8

const (
	AssetStandard AssetKind = iota
	AssetRestricted
)

func (k AssetKind) String() string {
	switch k {
	case AssetStandard:
		return "standard"
	case AssetRestricted:
		return "restricted"
	default:
		return "unknown"
	}
}

func AssetKindFromString(in string) (AssetKind, error) {
	switch in {
	case "standard":
		return AssetStandard, nil
	case "restricted":
		return AssetRestricted, nil
	default:
		return 0, errors.Errorf("unknown asset kind %q", in)
	}
}

type AssetInfo struct {
	Asset      ledger.Identity `json:"asset"`
	Collection ledger.Identity `json:"collection"`
	Kind       AssetKind       `json:"kind"`
}
