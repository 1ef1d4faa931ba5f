package imagetoken

import (
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"

	dErrors "secureeye/pkg/domain-errors"
)

// Claims are the signed claims of an image-view token. The token authorizes
// reading exactly one stored image for a bounded time, so notification links
// do not expose a public bucket.
type Claims struct {
	ImageKey string `json:"image_key"`
	jwt.RegisteredClaims
}

// Service mints and validates image-view tokens.
type Service struct {
	signingKey []byte
	ttl        time.Duration
}

func New(signingKey string, ttl time.Duration) *Service {
	return &Service{
		signingKey: []byte(signingKey),
		ttl:        ttl,
	}
}

// Generate mints a token granting read access to the given image key.
func (s *Service) Generate(imageKey string) (string, error) {
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, Claims{
		ImageKey: imageKey,
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(s.ttl)),
			IssuedAt:  jwt.NewNumericDate(time.Now()),
			Issuer:    "secureeye",
		},
	})
	return token.SignedString(s.signingKey)
}

// Validate checks the token and returns the image key it grants.
func (s *Service) Validate(tokenString, imageKey string) error {
	parsed, err := jwt.ParseWithClaims(tokenString, &Claims{}, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, jwt.ErrTokenUnverifiable
		}
		return s.signingKey, nil
	})
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return dErrors.New(dErrors.CodeNotFound, "image link has expired")
		}
		return dErrors.New(dErrors.CodeNotFound, "invalid image token")
	}

	claims, ok := parsed.Claims.(*Claims)
	if !ok || !parsed.Valid {
		return dErrors.New(dErrors.CodeNotFound, "invalid image token")
	}
	if claims.ImageKey != imageKey {
		return dErrors.New(dErrors.CodeNotFound, "token does not match image")
	}
	return nil
}
