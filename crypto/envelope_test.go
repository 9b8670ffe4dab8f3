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

package crypto

import (
	"crypto/ecdh"
	"crypto/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func generateX25519Pair(t *testing.T) (priv, pub []byte) {
	t.Helper()
	key, err := ecdh.X25519().GenerateKey(rand.Reader)
	require.NoError(t, err)
	return key.Bytes(), key.PublicKey().Bytes()
}

func TestEncryptDecryptRoundTrip(t *testing.T) {
	senderPriv, senderPub := generateX25519Pair(t)
	recipientPriv, recipientPub := generateX25519Pair(t)

	nonce, err := GenerateNonce()
	require.NoError(t, err)

	plaintext := []byte(`{"modify_greeting":{"greeting":"Hola"}}`)

	envelope, err := Encrypt(senderPriv, senderPub, recipientPub, plaintext, nonce)
	require.NoError(t, err)
	assert.True(t, len(envelope) > NonceSize+PublicKeySize)
	assert.Equal(t, nonce, envelope[:NonceSize])
	assert.Equal(t, senderPub, envelope[NonceSize:NonceSize+PublicKeySize])

	decrypter, err := NewDecrypter(recipientPriv)
	require.NoError(t, err)

	got, err := decrypter.Open(envelope)
	require.NoError(t, err)
	assert.Equal(t, plaintext, got)
}

func TestDecryptRejectsTamperedCiphertext(t *testing.T) {
	senderPriv, senderPub := generateX25519Pair(t)
	recipientPriv, recipientPub := generateX25519Pair(t)

	nonce, err := GenerateNonce()
	require.NoError(t, err)

	envelope, err := Encrypt(senderPriv, senderPub, recipientPub, []byte("hello"), nonce)
	require.NoError(t, err)

	envelope[len(envelope)-1] ^= 0xFF

	decrypter, err := NewDecrypter(recipientPriv)
	require.NoError(t, err)

	_, err = decrypter.Open(envelope)
	assert.Error(t, err)
}

func TestGenerateNonceIsCollisionFree(t *testing.T) {
	seen := make(map[string]bool, 1000)
	for i := 0; i < 1000; i++ {
		nonce, err := GenerateNonce()
		require.NoError(t, err)
		require.Len(t, nonce, NonceSize)

		key := string(nonce)
		require.False(t, seen[key], "nonce collision at iteration %d", i)
		seen[key] = true
	}
}

func TestDeriveEncryptionKeyRejectsBadLengths(t *testing.T) {
	_, err := DeriveEncryptionKey([]byte("short"), make([]byte, 32), make([]byte, 32))
	assert.ErrorIs(t, err, ErrIncorrectKeyLength)
}
