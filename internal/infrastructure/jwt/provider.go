package jwtinfra

import (
	"crypto/rsa"
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/addisnest/api/internal/config"
	"github.com/golang-jwt/jwt/v5"
)

// Claims holds the JWT payload fields.
type Claims struct {
	UserID   string `json:"user_id"`
	Email    string `json:"email"`
	Role     string `json:"role"`
	Provider string `json:"provider"`
	jwt.RegisteredClaims
}

// Provider signs and verifies session tokens. It uses RS256 when a key pair
// is configured and HS256 with the shared secret otherwise.
type Provider struct {
	method    jwt.SigningMethod
	signKey   interface{}
	verifyKey interface{}
	expiry    time.Duration
	now       func() time.Time
}

func NewProvider(cfg *config.Config) (*Provider, error) {
	if cfg.JWTExpiry <= 0 {
		return nil, errors.New("jwt expiry must be positive")
	}
	if cfg.JWTPrivateKeyPath != "" && cfg.JWTPublicKeyPath != "" {
		priv, pub, err := loadRSAKeys(cfg.JWTPrivateKeyPath, cfg.JWTPublicKeyPath)
		if err != nil {
			return nil, err
		}
		return &Provider{method: jwt.SigningMethodRS256, signKey: priv, verifyKey: pub, expiry: cfg.JWTExpiry, now: time.Now}, nil
	}
	if cfg.JWTSecret == "" {
		return nil, errors.New("either JWT_SECRET or an RSA key pair must be configured")
	}
	secret := []byte(cfg.JWTSecret)
	return &Provider{method: jwt.SigningMethodHS256, signKey: secret, verifyKey: secret, expiry: cfg.JWTExpiry, now: time.Now}, nil
}

func loadRSAKeys(privPath, pubPath string) (*rsa.PrivateKey, *rsa.PublicKey, error) {
	privBytes, err := os.ReadFile(privPath)
	if err != nil {
		return nil, nil, fmt.Errorf("read private key: %w", err)
	}
	privKey, err := jwt.ParseRSAPrivateKeyFromPEM(privBytes)
	if err != nil {
		return nil, nil, fmt.Errorf("parse private key: %w", err)
	}
	pubBytes, err := os.ReadFile(pubPath)
	if err != nil {
		return nil, nil, fmt.Errorf("read public key: %w", err)
	}
	pubKey, err := jwt.ParseRSAPublicKeyFromPEM(pubBytes)
	if err != nil {
		return nil, nil, fmt.Errorf("parse public key: %w", err)
	}
	return privKey, pubKey, nil
}

// Sign issues a token for the user and returns it with its expiry.
func (p *Provider) Sign(userID, email, role, provider string) (string, time.Time, error) {
	now := p.now()
	exp := now.Add(p.expiry)
	claims := Claims{
		UserID:   userID,
		Email:    email,
		Role:     role,
		Provider: provider,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   userID,
			ExpiresAt: jwt.NewNumericDate(exp),
			IssuedAt:  jwt.NewNumericDate(now),
		},
	}
	signed, err := jwt.NewWithClaims(p.method, claims).SignedString(p.signKey)
	if err != nil {
		return "", time.Time{}, fmt.Errorf("sign token: %w", err)
	}
	return signed, exp, nil
}

func (p *Provider) Verify(tokenStr string) (*Claims, error) {
	token, err := jwt.ParseWithClaims(tokenStr, &Claims{}, func(t *jwt.Token) (interface{}, error) {
		if t.Method.Alg() != p.method.Alg() {
			return nil, errors.New("unexpected signing method")
		}
		return p.verifyKey, nil
	})
	if err != nil {
		return nil, err
	}
	claims, ok := token.Claims.(*Claims)
	if !ok || !token.Valid {
		return nil, errors.New("invalid token claims")
	}
	return claims, nil
}
