package storage

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"net/url"
	"strconv"
	"time"
)

// Signed URL verification errors.
var (
	ErrLinkExpired  = errors.New("signed link expired")
	ErrBadSignature = errors.New("signed link signature mismatch")
)

// Signer mints and verifies time-limited, tamper-evident file links.
// The signature is an HMAC-SHA256 over "bucket/name:expiry", so a
// client can neither extend the expiry nor swap the file path.
type Signer struct {
	secret   []byte
	basePath string // URL path prefix for file serving, e.g. /api/v1/files
}

// NewSigner creates a signer from a secret key and the URL path prefix
// the file-serving endpoint is mounted at.
func NewSigner(secret []byte, basePath string) (*Signer, error) {
	if len(secret) == 0 {
		return nil, errors.New("signer secret cannot be empty")
	}
	return &Signer{secret: secret, basePath: basePath}, nil
}

// SignedURL returns a relative URL granting access to the file until
// the TTL elapses.
func (s *Signer) SignedURL(bucket Bucket, name string, ttl time.Duration) string {
	exp := time.Now().Add(ttl).Unix()
	sig := s.sign(bucket, name, exp)

	q := url.Values{}
	q.Set("exp", strconv.FormatInt(exp, 10))
	q.Set("sig", sig)

	return fmt.Sprintf("%s/%s/%s?%s", s.basePath, bucket, url.PathEscape(name), q.Encode())
}

// Verify checks the signature and expiry for a file request.
func (s *Signer) Verify(bucket Bucket, name, expStr, sig string) error {
	exp, err := strconv.ParseInt(expStr, 10, 64)
	if err != nil {
		return ErrBadSignature
	}

	expected := s.sign(bucket, name, exp)
	if !hmac.Equal([]byte(expected), []byte(sig)) {
		return ErrBadSignature
	}

	if time.Now().Unix() > exp {
		return ErrLinkExpired
	}

	return nil
}

// sign computes the hex HMAC for a bucket/name/expiry triple.
func (s *Signer) sign(bucket Bucket, name string, exp int64) string {
	mac := hmac.New(sha256.New, s.secret)
	fmt.Fprintf(mac, "%s/%s:%d", bucket, name, exp)
	return hex.EncodeToString(mac.Sum(nil))
}
