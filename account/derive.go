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

package account

import (
	"crypto/hmac"
	"crypto/sha512"
	"fmt"
	"math/big"

	"github.com/decred/dcrd/dcrec/secp256k1/v4"
)

// hardenedOffset is added to a path component to mark it hardened, per
// BIP32.
const hardenedOffset = 0x80000000

// secp256k1Order is the order of the secp256k1 base point (n).
var secp256k1Order, _ = new(big.Int).SetString(
	"FFFFFFFFFFFFFFFFFFFFFFFFFFFFFFFEBAAEDCE6AF48A03BBFD25E8CD0364141", 16)

// extendedKey is an intermediate BIP32 node: a 32-byte private key scalar
// plus its 32-byte chain code.
type extendedKey struct {
	key       []byte
	chainCode []byte
}

// masterKeyFromSeed derives the BIP32 master extended key from a seed,
// using the fixed HMAC-SHA512 key "Bitcoin seed" shared by every BIP32
// implementation regardless of the curve it then derives on.
func masterKeyFromSeed(seed []byte) (*extendedKey, error) {
	mac := hmac.New(sha512.New, []byte("Bitcoin seed"))
	mac.Write(seed)
	sum := mac.Sum(nil)

	key := sum[:32]
	chainCode := sum[32:]

	if new(big.Int).SetBytes(key).Sign() == 0 || new(big.Int).SetBytes(key).Cmp(secp256k1Order) >= 0 {
		return nil, fmt.Errorf("derived master key is not a valid secp256k1 scalar")
	}

	return &extendedKey{key: key, chainCode: chainCode}, nil
}

// deriveChild computes the BIP32 CKDpriv child of parent at the given
// index. An index >= hardenedOffset derives a hardened child.
func deriveChild(parent *extendedKey, index uint32) (*extendedKey, error) {
	var data []byte
	if index >= hardenedOffset {
		data = make([]byte, 0, 37)
		data = append(data, 0x00)
		data = append(data, parent.key...)
	} else {
		priv := secp256k1.PrivKeyFromBytes(parent.key)
		data = priv.PubKey().SerializeCompressed()
	}
	data = append(data, serializeUint32(index)...)

	mac := hmac.New(sha512.New, parent.chainCode)
	mac.Write(data)
	sum := mac.Sum(nil)

	il := sum[:32]
	ir := sum[32:]

	ilInt := new(big.Int).SetBytes(il)
	if ilInt.Cmp(secp256k1Order) >= 0 {
		return nil, fmt.Errorf("invalid child key derivation: IL out of range at index %d", index)
	}

	childInt := new(big.Int).Add(ilInt, new(big.Int).SetBytes(parent.key))
	childInt.Mod(childInt, secp256k1Order)
	if childInt.Sign() == 0 {
		return nil, fmt.Errorf("invalid child key derivation: zero key at index %d", index)
	}

	childKey := make([]byte, 32)
	childInt.FillBytes(childKey)

	return &extendedKey{key: childKey, chainCode: ir}, nil
}

func serializeUint32(v uint32) []byte {
	return []byte{byte(v >> 24), byte(v >> 16), byte(v >> 8), byte(v)}
}

// derivationPathComponent is one "N" or "N'" segment of a BIP32 path.
type derivationPathComponent struct {
	index    uint32
	hardened bool
}

func (c derivationPathComponent) value() uint32 {
	if c.hardened {
		return c.index + hardenedOffset
	}
	return c.index
}

// scrtDerivationPath is m/44'/529'/0'/0/0, the path this chain's wallets
// derive their signing key at.
var scrtDerivationPath = []derivationPathComponent{
	{44, true},
	{529, true},
	{0, true},
	{0, false},
	{0, false},
}

// deriveFromSeed walks scrtDerivationPath from a BIP39 seed and returns
// the resulting 32-byte secp256k1 private key scalar.
func deriveFromSeed(seed []byte) ([]byte, error) {
	key, err := masterKeyFromSeed(seed)
	if err != nil {
		return nil, err
	}

	for _, component := range scrtDerivationPath {
		key, err = deriveChild(key, component.value())
		if err != nil {
			return nil, err
		}
	}

	return key.key, nil
}
