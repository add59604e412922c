// Package signer produces signed deploys. Pure: no I/O, no state, safe to
// call with a raw secret held only momentarily in memory.
package signer

import (
	"crypto/ecdsa"
	"encoding/binary"
	"encoding/hex"

	"github.com/ethereum/go-ethereum/crypto"
	"golang.org/x/crypto/blake2b"

	"github.com/altuslabsxyz/revwallet/internal/domain"
)

// SigAlgorithm is the only signature scheme this signer produces.
const SigAlgorithm = "secp256k1"

// Sign produces a SignedDeploy from a deploy and a private key.
// Deterministic given identical inputs except for the signature bytes.
// Fails only on a malformed key.
func Sign(d domain.Deploy, key *ecdsa.PrivateKey) (domain.SignedDeploy, error) {
	if key == nil || key.D == nil || key.D.Sign() == 0 {
		return domain.SignedDeploy{}, &domain.SigningError{Message: "missing or zero private key"}
	}

	digest := Digest(d)
	sig, err := crypto.Sign(digest[:], key)
	if err != nil {
		return domain.SignedDeploy{}, &domain.SigningError{Message: err.Error()}
	}

	return domain.SignedDeploy{
		Deploy:       d,
		Deployer:     hex.EncodeToString(crypto.FromECDSAPub(&key.PublicKey)),
		Signature:    hex.EncodeToString(sig[:64]), // recovery byte stripped
		SigAlgorithm: SigAlgorithm,
	}, nil
}

// Verify checks a signed deploy's signature against its deployer identity.
func Verify(sd domain.SignedDeploy) error {
	pub, err := hex.DecodeString(sd.Deployer)
	if err != nil {
		return &domain.SigningError{Message: "deployer is not hex"}
	}
	sig, err := hex.DecodeString(sd.Signature)
	if err != nil {
		return &domain.SigningError{Message: "signature is not hex"}
	}
	if len(sig) != 64 {
		return &domain.SigningError{Message: "signature must be 64 bytes"}
	}

	digest := Digest(sd.Deploy)
	if !crypto.VerifySignature(pub, digest[:], sig) {
		return &domain.SigningError{Message: "signature does not match deployer"}
	}
	return nil
}

// Digest computes the Blake2b-256 digest over the deterministic binary
// encoding of a deploy. The encoding is length-prefixed for the variable
// fields so no two distinct deploys share an encoding.
func Digest(d domain.Deploy) [32]byte {
	buf := make([]byte, 0, len(d.Term)+len(d.ShardID)+8*6)
	buf = appendString(buf, d.Term)
	buf = binary.BigEndian.AppendUint64(buf, uint64(d.Timestamp))
	buf = binary.BigEndian.AppendUint64(buf, uint64(d.PhloPrice))
	buf = binary.BigEndian.AppendUint64(buf, uint64(d.PhloLimit))
	buf = binary.BigEndian.AppendUint64(buf, uint64(d.ValidAfterBlockNumber))
	buf = appendString(buf, d.ShardID)
	return blake2b.Sum256(buf)
}

func appendString(buf []byte, s string) []byte {
	buf = binary.BigEndian.AppendUint64(buf, uint64(len(s)))
	return append(buf, s...)
}

// RevAddress derives the vault address for a public key: the first 20
// bytes of the Blake2b-256 digest of the uncompressed key, hex encoded
// with the address prefix. Deterministic; the chain's registry treats it
// as an opaque string.
func RevAddress(pub *ecdsa.PublicKey) string {
	digest := blake2b.Sum256(crypto.FromECDSAPub(pub))
	return "rev1" + hex.EncodeToString(digest[:20])
}
