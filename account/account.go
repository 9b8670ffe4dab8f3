// Copyright (C) 2025 sage-x-project
//
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Lesser General Public License as
// published by the Free Software Foundation, either version 3 of the
// License, or (at your option) any later version.
//
// This program is distributed in the hope that it will be useful,
// but WITHOUT ANY WARRANTY; without even the implied warranty of
// MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE. See the
// GNU Lesser General Public License for more details.
//
// You should have received a copy of the GNU Lesser General Public License
// along with this program. If not, see <https://www.gnu.org/licenses/>.

// SPDX-License-Identifier: LGPL-3.0-or-later

// Package account derives the signing key material this module needs from
// a BIP39 mnemonic: a secp256k1 key pair for transaction signing and a
// bech32 address, plus the same private scalar reinterpreted as a static
// X25519 secret for the confidential-execution envelope (crypto package).
// Wallets that hold a secp256k1 key for this chain are expected to derive
// their encryption key the same way, so key material is never duplicated.
package account

import (
	"crypto/sha256"
	"encoding/asn1"
	"errors"
	"math/big"

	"github.com/cosmos/btcutil/bech32"
	bip39 "github.com/cosmos/go-bip39"
	"github.com/decred/dcrd/dcrec/secp256k1/v4"
	"github.com/decred/dcrd/dcrec/secp256k1/v4/ecdsa"
	"golang.org/x/crypto/ripemd160" //nolint:staticcheck // required for cosmos-sdk-compatible address hashing
)

// ChainPrefix is the bech32 human-readable part every address on this
// chain is encoded with.
const ChainPrefix = "secret"

var errInvalidMnemonic = errors.New("invalid mnemonic")

// Account holds the derived signing key for one wallet: a secp256k1
// private key used both for transaction signatures and, via its raw
// scalar, as an X25519 static secret for envelope encryption.
type Account struct {
	priv    *secp256k1.PrivateKey
	pub     *secp256k1.PublicKey
	address string
}

// FromMnemonic parses a BIP39 mnemonic with an empty passphrase and
// derives an Account from the resulting seed.
func FromMnemonic(mnemonic string) (*Account, error) {
	if err := validateMnemonic(mnemonic); err != nil {
		return nil, err
	}
	seed, err := bip39.NewSeedWithErrorChecking(mnemonic, "")
	if err != nil {
		return nil, err
	}
	return FromSeed(seed)
}

func validateMnemonic(mnemonic string) error {
	if !bip39.IsMnemonicValid(mnemonic) {
		return errInvalidMnemonic
	}
	return nil
}

// FromSeed derives an Account from a 64-byte BIP39 seed by walking the
// chain's fixed HD derivation path over secp256k1.
func FromSeed(seed []byte) (*Account, error) {
	keyBytes, err := deriveFromSeed(seed)
	if err != nil {
		return nil, err
	}

	priv := secp256k1.PrivKeyFromBytes(keyBytes)
	pub := priv.PubKey()

	address, err := bech32Address(pub)
	if err != nil {
		return nil, err
	}

	return &Account{priv: priv, pub: pub, address: address}, nil
}

func bech32Address(pub *secp256k1.PublicKey) (string, error) {
	shaHash := sha256.Sum256(pub.SerializeCompressed())
	ripemd := ripemd160.New()
	ripemd.Write(shaHash[:])
	addrBytes := ripemd.Sum(nil)

	converted, err := bech32.ConvertBits(addrBytes, 8, 5, true)
	if err != nil {
		return "", err
	}
	return bech32.Encode(ChainPrefix, converted)
}

// Bech32Address returns this account's address, memoized at construction.
func (a *Account) Bech32Address() string {
	return a.address
}

// PublicKeyBytes returns the 33-byte compressed secp256k1 public key.
func (a *Account) PublicKeyBytes() []byte {
	return a.pub.SerializeCompressed()
}

// X25519StaticSecret returns the raw 32-byte secp256k1 private scalar,
// reused unmodified as an X25519 private key. X25519's own scalar
// clamping is applied internally by the curve implementation, so no
// additional processing is needed here.
func (a *Account) X25519StaticSecret() []byte {
	return a.priv.Serialize()
}

// Sign produces a deterministic (RFC 6979), low-S-normalized 64-byte
// r‖s secp256k1 signature over the SHA-256 hash of msg, the format
// Cosmos SDK transactions expect.
func (a *Account) Sign(msg []byte) ([]byte, error) {
	hash := sha256.Sum256(msg)
	sig := ecdsa.Sign(a.priv, hash[:])

	var der struct{ R, S *big.Int }
	if _, err := asn1.Unmarshal(sig.Serialize(), &der); err != nil {
		return nil, err
	}

	out := make([]byte, 64)
	der.R.FillBytes(out[:32])
	der.S.FillBytes(out[32:])
	return out, nil
}
