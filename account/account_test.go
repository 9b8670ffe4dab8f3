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
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAccountsFromMnemonic(t *testing.T) {
	assert.Equal(t, "secret1ap26qrlp8mcq2pg6r47w43l0y8zkqm8a450s03", A().Bech32Address())
	assert.Equal(t, "secret1fc3fzy78ttp0lwuujw7e52rhspxn8uj52zfyne", B().Bech32Address())
	assert.Equal(t, "secret1ajz54hz8azwuy34qwy9fkjnfcrvf0dzswy0lqq", C().Bech32Address())
	assert.Equal(t, "secret1ldjxljw7v4vk6zhyduywh04hpj0jdwxsmrlatf", D().Bech32Address())
}

func TestFromMnemonicRejectsInvalid(t *testing.T) {
	_, err := FromMnemonic("not a valid mnemonic at all")
	assert.Error(t, err)
}

func TestSignDeterministic(t *testing.T) {
	acc := A()
	msg := []byte("sign doc bytes")

	sig1, err := acc.Sign(msg)
	require.NoError(t, err)
	sig2, err := acc.Sign(msg)
	require.NoError(t, err)

	assert.Equal(t, sig1, sig2, "RFC 6979 signing must be deterministic")
	assert.Len(t, sig1, 64)
}

func TestX25519StaticSecretMatchesPrivateScalar(t *testing.T) {
	acc := A()
	assert.Len(t, acc.X25519StaticSecret(), 32)
	assert.Equal(t, acc.priv.Serialize(), acc.X25519StaticSecret())
}
