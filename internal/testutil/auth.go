// Copyright (c) 2024 BlockSocial
//
// This software is released under the MIT License.
// https://opensource.org/licenses/MIT

// Package testutil holds shared test helpers: ES256 key generation, access
// token minting and a small HTTP harness around fiber's app.Test.
package testutil

import (
	"crypto/ecdsa"
	"crypto/elliptic"
	"crypto/rand"
	"crypto/x509"
	"encoding/pem"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/require"

	"github.com/blocksocial/api/internal/types"
)

// GenerateES256KeyPair creates a fresh P-256 key pair and returns both halves
// PEM encoded, ready for JWT config and token minting.
func GenerateES256KeyPair(t *testing.T) (privatePEM string, publicPEM string) {
	t.Helper()

	key, err := ecdsa.GenerateKey(elliptic.P256(), rand.Reader)
	require.NoError(t, err)

	privDER, err := x509.MarshalECPrivateKey(key)
	require.NoError(t, err)
	privatePEM = string(pem.EncodeToMemory(&pem.Block{Type: "EC PRIVATE KEY", Bytes: privDER}))

	pubDER, err := x509.MarshalPKIXPublicKey(&key.PublicKey)
	require.NoError(t, err)
	publicPEM = string(pem.EncodeToMemory(&pem.Block{Type: "PUBLIC KEY", Bytes: pubDER}))

	return privatePEM, publicPEM
}

// MintAccessToken signs an ES256 access token carrying user as the claim
// payload, valid for one hour.
func MintAccessToken(t *testing.T, privatePEM string, user types.UserContext) string {
	t.Helper()

	key, err := jwt.ParseECPrivateKeyFromPEM([]byte(privatePEM))
	require.NoError(t, err)

	token := jwt.NewWithClaims(jwt.SigningMethodES256, jwt.MapClaims{
		"claim": map[string]interface{}{
			"username":    user.Username,
			"displayName": user.DisplayName,
			"avatar":      user.Avatar,
			"createdDate": user.CreatedDate,
		},
		"exp": time.Now().Add(time.Hour).Unix(),
		"iat": time.Now().Unix(),
	})

	signed, err := token.SignedString(key)
	require.NoError(t, err)
	return signed
}
