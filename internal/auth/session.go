// internal/auth/session.go
package auth

import (
	"crypto/ed25519"
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

// ErrInvalidToken is returned for any seat token that fails verification.
var ErrInvalidToken = errors.New("invalid seat token")

// SeatClaims binds a token to one seat in one room. Subject is the player ID.
type SeatClaims struct {
	RoomID string `json:"room"`
	jwt.RegisteredClaims
}

// Signer issues and verifies seat tokens with an ed25519 key pair.
type Signer struct {
	privateKey ed25519.PrivateKey
	publicKey  ed25519.PublicKey

	// expire of zero means tokens carry no exp claim.
	expire time.Duration
	now    func() time.Time
}

// NewSigner generates a fresh ed25519 key pair at runtime.
func NewSigner(expire time.Duration) (*Signer, error) {
	pub, priv, err := ed25519.GenerateKey(nil)
	if err != nil {
		return nil, fmt.Errorf("failed to generate ed25519 key pair: %w", err)
	}
	return &Signer{privateKey: priv, publicKey: pub, expire: expire, now: time.Now}, nil
}

// NewSignerFromPath reads raw ed25519 private/public keys from file.
func NewSignerFromPath(privatePath, publicPath string, expire time.Duration) (*Signer, error) {
	privateKeyData, err := os.ReadFile(privatePath)
	if err != nil {
		return nil, fmt.Errorf("failed to read private key file: %w", err)
	}
	publicKeyData, err := os.ReadFile(publicPath)
	if err != nil {
		return nil, fmt.Errorf("failed to read public key file: %w", err)
	}
	if len(privateKeyData) != ed25519.PrivateKeySize || len(publicKeyData) != ed25519.PublicKeySize {
		return nil, fmt.Errorf("malformed ed25519 key files")
	}
	return &Signer{
		privateKey: ed25519.PrivateKey(privateKeyData),
		publicKey:  ed25519.PublicKey(publicKeyData),
		expire:     expire,
		now:        time.Now,
	}, nil
}

// IssueSeatToken signs a token for playerID's seat in roomID.
func (s *Signer) IssueSeatToken(roomID, playerID uuid.UUID) (string, error) {
	now := s.now()
	claims := SeatClaims{
		RoomID: roomID.String(),
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:  playerID.String(),
			IssuedAt: jwt.NewNumericDate(now),
		},
	}
	if s.expire > 0 {
		claims.ExpiresAt = jwt.NewNumericDate(now.Add(s.expire))
	}

	token := jwt.NewWithClaims(jwt.SigningMethodEdDSA, claims)
	return token.SignedString(s.privateKey)
}

// VerifySeatToken checks the signature and expiry of tokenString and returns
// the room and player it was issued for.
func (s *Signer) VerifySeatToken(tokenString string) (roomID, playerID uuid.UUID, err error) {
	var claims SeatClaims
	t, err := jwt.ParseWithClaims(tokenString, &claims, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodEd25519); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", t.Header["alg"])
		}
		return s.publicKey, nil
	}, jwt.WithTimeFunc(s.now))
	if err != nil {
		return uuid.Nil, uuid.Nil, fmt.Errorf("%w: %v", ErrInvalidToken, err)
	}
	if !t.Valid {
		return uuid.Nil, uuid.Nil, ErrInvalidToken
	}

	roomID, err = uuid.Parse(claims.RoomID)
	if err != nil {
		return uuid.Nil, uuid.Nil, fmt.Errorf("%w: bad room claim", ErrInvalidToken)
	}
	playerID, err = uuid.Parse(claims.Subject)
	if err != nil {
		return uuid.Nil, uuid.Nil, fmt.Errorf("%w: bad sub claim", ErrInvalidToken)
	}
	return roomID, playerID, nil
}
