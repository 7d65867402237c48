package jwtinfra

import (
	"crypto/rand"
	"crypto/rsa"
	"crypto/x509"
	"encoding/pem"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/addisnest/api/internal/config"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeKeyPair(t *testing.T) (string, string) {
	t.Helper()
	privKey, err := rsa.GenerateKey(rand.Reader, 2048)
	require.NoError(t, err)

	dir := t.TempDir()
	privPath := filepath.Join(dir, "private.pem")
	pubPath := filepath.Join(dir, "public.pem")

	privPEM := pem.EncodeToMemory(&pem.Block{Type: "RSA PRIVATE KEY", Bytes: x509.MarshalPKCS1PrivateKey(privKey)})
	require.NoError(t, os.WriteFile(privPath, privPEM, 0600))

	pubBytes, err := x509.MarshalPKIXPublicKey(&privKey.PublicKey)
	require.NoError(t, err)
	pubPEM := pem.EncodeToMemory(&pem.Block{Type: "PUBLIC KEY", Bytes: pubBytes})
	require.NoError(t, os.WriteFile(pubPath, pubPEM, 0600))
	return privPath, pubPath
}

func TestProvider_HS256_RoundTrip(t *testing.T) {
	p, err := NewProvider(&config.Config{JWTSecret: "s3cret", JWTExpiry: time.Hour})
	require.NoError(t, err)

	signed, exp, err := p.Sign("u1", "a@b.com", "user", "otp")
	require.NoError(t, err)
	assert.WithinDuration(t, time.Now().Add(time.Hour), exp, 5*time.Second)

	claims, err := p.Verify(signed)
	require.NoError(t, err)
	assert.Equal(t, "u1", claims.UserID)
	assert.Equal(t, "a@b.com", claims.Email)
	assert.Equal(t, "otp", claims.Provider)
}

func TestProvider_RS256_RoundTrip(t *testing.T) {
	priv, pub := writeKeyPair(t)
	p, err := NewProvider(&config.Config{JWTPrivateKeyPath: priv, JWTPublicKeyPath: pub, JWTExpiry: time.Hour})
	require.NoError(t, err)

	signed, _, err := p.Sign("u2", "c@d.com", "admin", "local")
	require.NoError(t, err)
	claims, err := p.Verify(signed)
	require.NoError(t, err)
	assert.Equal(t, "admin", claims.Role)
}

func TestProvider_RejectsOtherSecret(t *testing.T) {
	a, err := NewProvider(&config.Config{JWTSecret: "one", JWTExpiry: time.Hour})
	require.NoError(t, err)
	b, err := NewProvider(&config.Config{JWTSecret: "two", JWTExpiry: time.Hour})
	require.NoError(t, err)

	signed, _, err := a.Sign("u1", "a@b.com", "user", "otp")
	require.NoError(t, err)
	_, err = b.Verify(signed)
	assert.Error(t, err)
}

func TestProvider_RejectsExpired(t *testing.T) {
	p, err := NewProvider(&config.Config{JWTSecret: "s3cret", JWTExpiry: time.Minute})
	require.NoError(t, err)
	p.now = func() time.Time { return time.Now().Add(-time.Hour) }

	signed, _, err := p.Sign("u1", "a@b.com", "user", "otp")
	require.NoError(t, err)
	_, err = p.Verify(signed)
	assert.Error(t, err)
}

func TestNewProvider_NoKeyMaterial(t *testing.T) {
	_, err := NewProvider(&config.Config{JWTExpiry: time.Hour})
	assert.Error(t, err)
}
