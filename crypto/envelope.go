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

// Package crypto implements the confidential-execution envelope: X25519 key
// agreement, HKDF-SHA256 key expansion, and AES-SIV sealing/opening of
// contract payloads exchanged with the chain's enclave.
package crypto

import (
	"crypto/ecdh"
	"crypto/rand"
	"crypto/sha256"
	"errors"
	"fmt"
	"io"

	"github.com/miscreant/miscreant.go"
	"golang.org/x/crypto/hkdf"
)

// NonceSize is the size, in bytes, of the random value mixed into key
// derivation and carried in the clear at the front of every envelope.
const NonceSize = 32

// PublicKeySize is the size, in bytes, of an X25519 public key.
const PublicKeySize = 32

// SIVKeySize is the size, in bytes, of the AES-SIV key produced by HKDF
// expansion (two 128-bit AES subkeys, per SIV-128's construction).
const SIVKeySize = 32

// hkdfSalt is a fixed salt used for every key derivation; it is a
// constant of the protocol, not a secret, and matches the chain's own
// enclave-side derivation exactly.
var hkdfSalt = [32]byte{
	0x00, 0x00, 0x00, 0x00, 0x00, 0x00, 0x00, 0x00, 0x00, 0x02, 0x4b, 0xea, 0xd8, 0xdf, 0x69, 0x99,
	0x08, 0x52, 0xc2, 0x02, 0xdb, 0x0e, 0x00, 0x97, 0xc1, 0xa1, 0x2e, 0xa6, 0x37, 0xd7, 0xe9, 0x6d,
}

var ErrIncorrectKeyLength = errors.New("incorrect key length, expected 32 byte key")
var ErrEncrypt = errors.New("encryption failed")
var ErrDecrypt = errors.New("decryption failed")

// GenerateNonce returns NonceSize cryptographically random bytes.
func GenerateNonce() ([]byte, error) {
	nonce := make([]byte, NonceSize)
	if _, err := rand.Read(nonce); err != nil {
		return nil, fmt.Errorf("generate nonce: %w", err)
	}
	return nonce, nil
}

// DeriveEncryptionKey performs an X25519 Diffie-Hellman exchange between a
// local static secret and a peer's public key, mixes in nonce, and expands
// the result via HKDF-SHA256 into a SIVKeySize-byte AES-SIV key.
func DeriveEncryptionKey(secret, public, nonce []byte) ([]byte, error) {
	if len(secret) != PublicKeySize || len(public) != PublicKeySize {
		return nil, ErrIncorrectKeyLength
	}

	curve := ecdh.X25519()
	priv, err := curve.NewPrivateKey(secret)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrIncorrectKeyLength, err)
	}
	peer, err := curve.NewPublicKey(public)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrIncorrectKeyLength, err)
	}

	ikm, err := priv.ECDH(peer)
	if err != nil {
		return nil, fmt.Errorf("diffie-hellman exchange: %w", err)
	}

	ikmNonce := append(append([]byte{}, ikm...), nonce...)

	key := make([]byte, SIVKeySize)
	kdf := hkdf.New(sha256.New, ikmNonce, hkdfSalt[:], nil)
	if _, err := io.ReadFull(kdf, key); err != nil {
		return nil, ErrIncorrectKeyLength
	}
	return key, nil
}

// Encrypt seals plaintext for a peer identified by public, using secret as
// our static X25519 private key and nonce as the freshness value mixed
// into key derivation. It returns the wire envelope
// nonce || ourPublicKey || ciphertext.
func Encrypt(secret, ourPublic, peerPublic, plaintext, nonce []byte) ([]byte, error) {
	key, err := DeriveEncryptionKey(secret, peerPublic, nonce)
	if err != nil {
		return nil, err
	}

	aead, err := miscreant.NewAEAD("AES-SIV", key, 0)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrEncrypt, err)
	}

	ciphertext := aead.Seal(nil, nil, plaintext, nil)

	envelope := make([]byte, 0, len(nonce)+len(ourPublic)+len(ciphertext))
	envelope = append(envelope, nonce...)
	envelope = append(envelope, ourPublic...)
	envelope = append(envelope, ciphertext...)
	return envelope, nil
}

// DecryptWithKey opens raw AES-SIV ciphertext using an already-derived key.
// Contract query/execute responses are returned this way: sealed with the
// same key the request was encrypted with, not wrapped in a fresh
// nonce || publicKey || ciphertext envelope.
func DecryptWithKey(key, ciphertext []byte) ([]byte, error) {
	aead, err := miscreant.NewAEAD("AES-SIV", key, 0)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrDecrypt, err)
	}
	plaintext, err := aead.Open(nil, nil, ciphertext, nil)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrDecrypt, err)
	}
	return plaintext, nil
}

// Decrypter holds our static X25519 secret and can open envelopes sent by
// any peer, since the peer's ephemeral/static public key travels in the
// envelope itself.
type Decrypter struct {
	secret []byte
}

// NewDecrypter constructs a Decrypter around a 32-byte X25519 secret.
func NewDecrypter(secret []byte) (*Decrypter, error) {
	if len(secret) != PublicKeySize {
		return nil, ErrIncorrectKeyLength
	}
	return &Decrypter{secret: secret}, nil
}

// Open parses an envelope (nonce || peerPublicKey || ciphertext) and
// returns the decrypted plaintext.
func (d *Decrypter) Open(envelope []byte) ([]byte, error) {
	minLen := NonceSize + PublicKeySize
	if len(envelope) < minLen {
		return nil, fmt.Errorf("%w: envelope too short", ErrDecrypt)
	}

	nonce := envelope[:NonceSize]
	peerPublic := envelope[NonceSize:minLen]
	ciphertext := envelope[minLen:]

	key, err := DeriveEncryptionKey(d.secret, peerPublic, nonce)
	if err != nil {
		return nil, err
	}

	aead, err := miscreant.NewAEAD("AES-SIV", key, 0)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrDecrypt, err)
	}

	plaintext, err := aead.Open(nil, nil, ciphertext, nil)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrDecrypt, err)
	}
	return plaintext, nil
}
