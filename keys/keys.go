// Package keys manages the ed25519 identities used to sign market
// instructions, with BIP39 mnemonics as the backup format.
package keys

import (
	"crypto/ed25519"
	"encoding/json"
	"io/ioutil"
	"os"

	"github.com/pkg/errors"
	"github.com/tyler-smith/go-bip39"

	"github.com/seradyn/gavel/gjson"
	"github.com/seradyn/gavel/ledger"
)

const MnemonicEntropyBits = 256

type Keypair struct {
	priv ed25519.PrivateKey
}

// NewMnemonic generates a fresh 24-word mnemonic.
func NewMnemonic() (string, error) {
	entropy, err := bip39.NewEntropy(MnemonicEntropyBits)
	if err != nil {
		return "", errors.WithStack(err)
	}
	mnemonic, err := bip39.NewMnemonic(entropy)
	if err != nil {
		return "", errors.WithStack(err)
	}
	return mnemonic, nil
}

// FromMnemonic derives the keypair deterministically from a mnemonic
// and optional passphrase. The first 32 bytes of the BIP39 seed become
// the ed25519 seed.
func FromMnemonic(mnemonic, passphrase string) (*Keypair, error) {
	if !bip39.IsMnemonicValid(mnemonic) {
		return nil, errors.New("invalid mnemonic")
	}
	seed := bip39.NewSeed(mnemonic, passphrase)
	return &Keypair{
		priv: ed25519.NewKeyFromSeed(seed[:ed25519.SeedSize]),
	}, nil
}

func (k *Keypair) Identity() ledger.Identity {
	pub := k.priv.Public().(ed25519.PublicKey)
	id, err := ledger.NewIdentityFromBytes(pub)
	if err != nil {
		panic(err)
	}
	return id
}

func (k *Keypair) Sign(message []byte) []byte {
	return ed25519.Sign(k.priv, message)
}

func Verify(id ledger.Identity, message, sig []byte) bool {
	return ed25519.Verify(ed25519.PublicKey(id.Bytes()), message, sig)
}

type keyFile struct {
	Identity string           `json:"identity"`
	Seed     gjson.ByteString `json:"seed"`
}

// Save writes the keypair to path as JSON with owner-only permissions.
func (k *Keypair) Save(path string) error {
	data, err := json.MarshalIndent(&keyFile{
		Identity: k.Identity().Hex(),
		Seed:     gjson.ByteString(k.priv.Seed()),
	}, "", "  ")
	if err != nil {
		return errors.WithStack(err)
	}
	return errors.WithStack(ioutil.WriteFile(path, data, os.FileMode(0600)))
}

func Load(path string) (*Keypair, error) {
	data, err := ioutil.ReadFile(path)
	if err != nil {
		return nil, errors.WithStack(err)
	}
	kf := new(keyFile)
	if err := json.Unmarshal(data, kf); err != nil {
		return nil, errors.WithStack(err)
	}

	if len(kf.Seed) != ed25519.SeedSize {
		return nil, errors.Errorf("seed must be %d bytes", ed25519.SeedSize)
	}

	kp := &Keypair{priv: ed25519.NewKeyFromSeed(kf.Seed)}
	if kf.Identity != "" && kf.Identity != kp.Identity().Hex() {
		return nil, errors.New("key file identity does not match seed")
	}
	return kp, nil
}
