package ledger

import (
	"bytes"
	"database/sql/driver"
	"encoding/hex"
	"encoding/json"
	"io"
	"reflect"

	"github.com/btcsuite/btcutil/bech32"
	"github.com/pkg/errors"
)

const IdentityLen = 32

// Identity is a fixed-width public key naming an account on the
// underlying asset ledger. The zero value is the "no identity"
// sentinel used for listings that have no bidder yet.
type Identity [IdentityLen]byte

var ZeroIdentity Identity

func NewIdentityFromBytes(b []byte) (Identity, error) {
	var id Identity
	if len(b) != IdentityLen {
		return id, errors.Errorf("identity must be %d bytes, got %d", IdentityLen, len(b))
	}
	copy(id[:], b)
	return id, nil
}

func NewIdentityFromBech32(bech string) (Identity, error) {
	var id Identity
	_, data, err := bech32.Decode(bech)
	if err != nil {
		return id, errors.Wrap(err, "error decoding bech32")
	}
	raw, err := bech32.ConvertBits(data, 5, 8, false)
	if err != nil {
		return id, errors.Wrap(err, "error converting bits")
	}
	return NewIdentityFromBytes(raw)
}

func NewIdentityFromHex(in string) (Identity, error) {
	var id Identity
	raw, err := hex.DecodeString(in)
	if err != nil {
		return id, errors.WithStack(err)
	}
	return NewIdentityFromBytes(raw)
}

// ParseIdentity accepts either encoding; CLI flags and API paths use it.
func ParseIdentity(in string) (Identity, error) {
	if id, err := NewIdentityFromBech32(in); err == nil {
		return id, nil
	}
	return NewIdentityFromHex(in)
}

func MustIdentityFromHex(in string) Identity {
	id, err := NewIdentityFromHex(in)
	if err != nil {
		panic(err)
	}
	return id
}

func (id Identity) IsZero() bool {
	return id == ZeroIdentity
}

func (id Identity) Bytes() []byte {
	out := make([]byte, IdentityLen)
	copy(out, id[:])
	return out
}

func (id Identity) Equal(other Identity) bool {
	return bytes.Equal(id[:], other[:])
}

func (id Identity) Hex() string {
	return hex.EncodeToString(id[:])
}

func (id Identity) String() string {
	data, err := bech32.ConvertBits(id[:], 8, 5, true)
	if err != nil {
		panic(err)
	}
	bech, err := bech32.Encode(CurrNetwork().IdentityHRP, data)
	if err != nil {
		panic(err)
	}
	return bech
}

func (id Identity) WriteTo(w io.Writer) (int64, error) {
	n, err := w.Write(id[:])
	return int64(n), err
}

func (id Identity) MarshalJSON() ([]byte, error) {
	return json.Marshal(id.Hex())
}

func (id *Identity) UnmarshalJSON(b []byte) error {
	var s string
	if err := json.Unmarshal(b, &s); err != nil {
		return errors.WithStack(err)
	}
	if s == "" {
		*id = ZeroIdentity
		return nil
	}
	parsed, err := NewIdentityFromHex(s)
	if err != nil {
		return err
	}
	*id = parsed
	return nil
}

func (id Identity) Value() (driver.Value, error) {
	return id.Hex(), nil
}

func (id *Identity) Scan(src interface{}) error {
	switch t := src.(type) {
	case nil:
		*id = ZeroIdentity
	case string:
		parsed, err := NewIdentityFromHex(t)
		if err != nil {
			return err
		}
		*id = parsed
	default:
		return errors.Errorf("cannot scan %v into identity", reflect.TypeOf(src))
	}

	return nil
}
