package ledger

import (
	"crypto/sha256"
	"encoding/hex"
)

const DiscriminatorLen = 8

// Discriminator is the 8-byte tag prefixing every persisted record
// and every instruction payload. Account tags are derived from
// "account:<TypeName>", instruction tags from "global:<snake_name>",
// each the leading 8 bytes of the SHA-256 of that string.
type Discriminator [DiscriminatorLen]byte

func AccountDiscriminator(name string) Discriminator {
	return discriminator("account:" + name)
}

func InstructionDiscriminator(name string) Discriminator {
	return discriminator("global:" + name)
}

func discriminator(preimage string) Discriminator {
	sum := sha256.Sum256([]byte(preimage))
	var d Discriminator
	copy(d[:], sum[:DiscriminatorLen])
	return d
}

func (d Discriminator) Bytes() []byte {
	out := make([]byte, DiscriminatorLen)
	copy(out, d[:])
	return out
}

func (d Discriminator) String() string {
	return hex.EncodeToString(d[:])
}
