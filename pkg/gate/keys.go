package gate

import (
	"context"
	"crypto/rand"
	"crypto/sha256"
	"encoding/base64"
	"encoding/hex"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

const keyPrefix = "cg_live_"

// GenerateKey produces a new random API key. Only its hash is ever stored.
func GenerateKey() string {
	buf := make([]byte, 32)
	if _, err := rand.Read(buf); err != nil {
		panic(fmt.Sprintf("crypto/rand unavailable: %v", err))
	}
	return keyPrefix + base64.RawURLEncoding.EncodeToString(buf)
}

// HashKey is the deterministic one-way storage key for a raw API key. SHA-256
// rather than a salted scheme because the hash doubles as the lookup key.
func HashKey(rawKey string) string {
	sum := sha256.Sum256([]byte(rawKey))
	return hex.EncodeToString(sum[:])
}

func credentialKey(hashedKey string) string {
	return "apikey:" + hashedKey
}

// Issuer creates credentials. Administrative path only.
type Issuer struct {
	rdb *redis.Client
}

func NewIssuer(rdb *redis.Client) *Issuer {
	return &Issuer{rdb: rdb}
}

// Issue stores a new credential record and returns the raw key exactly once.
func (i *Issuer) Issue(ctx context.Context, tier string) (string, error) {
	if tier == "" {
		tier = TierFree
	}

	rawKey := GenerateKey()
	err := i.rdb.HSet(ctx, credentialKey(HashKey(rawKey)), map[string]interface{}{
		"tier":       tier,
		"created_at": time.Now().Unix(),
	}).Err()
	if err != nil {
		return "", fmt.Errorf("store credential: %w", err)
	}
	return rawKey, nil
}
