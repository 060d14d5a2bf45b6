// Package auth provides connection authentication strategies for the shoehive client.
package auth

import (
	"crypto"
	"crypto/rand"
	"crypto/rsa"
	"crypto/sha256"
	"crypto/x509"
	"encoding/base64"
	"encoding/pem"
	"fmt"
	"net/http"
	"os"
	"strconv"
	"time"
)

// Signed request headers.
const (
	HeaderAccessKey = "SHOEHIVE-ACCESS-KEY"
	HeaderTimestamp = "SHOEHIVE-ACCESS-TIMESTAMP"
	HeaderSignature = "SHOEHIVE-ACCESS-SIGNATURE"
)

// Credentials holds the key ID and private key for signing handshakes.
type Credentials struct {
	KeyID      string          // Key ID registered with the server
	PrivateKey *rsa.PrivateKey // RSA private key for signing
}

// LoadCredentials loads credentials from key ID and private key file path.
func LoadCredentials(keyID, privateKeyPath string) (*Credentials, error) {
	if keyID == "" {
		return nil, fmt.Errorf("key ID is required")
	}
	if privateKeyPath == "" {
		return nil, fmt.Errorf("private key path is required")
	}

	privateKey, err := LoadPrivateKey(privateKeyPath)
	if err != nil {
		return nil, fmt.Errorf("load private key: %w", err)
	}

	return &Credentials{
		KeyID:      keyID,
		PrivateKey: privateKey,
	}, nil
}

// LoadPrivateKey loads an RSA private key from a PEM file.
func LoadPrivateKey(path string) (*rsa.PrivateKey, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read key file: %w", err)
	}

	block, _ := pem.Decode(data)
	if block == nil {
		return nil, fmt.Errorf("failed to decode PEM block")
	}

	// Try PKCS#8 first (newer format)
	key, err := x509.ParsePKCS8PrivateKey(block.Bytes)
	if err == nil {
		rsaKey, ok := key.(*rsa.PrivateKey)
		if !ok {
			return nil, fmt.Errorf("key is not an RSA private key")
		}
		return rsaKey, nil
	}

	// Fall back to PKCS#1 (older format)
	rsaKey, err := x509.ParsePKCS1PrivateKey(block.Bytes)
	if err != nil {
		return nil, fmt.Errorf("parse private key: %w", err)
	}

	return rsaKey, nil
}

// SignRequest generates authentication headers for a request.
// For the WebSocket handshake, method is "GET" and path is the endpoint path.
func (c *Credentials) SignRequest(method, path string) (http.Header, error) {
	return c.signAt(time.Now(), method, path)
}

func (c *Credentials) signAt(now time.Time, method, path string) (http.Header, error) {
	timestampMs := now.UnixMilli()

	signature, err := c.generateSignature(timestampMs, method, path)
	if err != nil {
		return nil, err
	}

	h := make(http.Header, 3)
	h.Set(HeaderAccessKey, c.KeyID)
	h.Set(HeaderTimestamp, strconv.FormatInt(timestampMs, 10))
	h.Set(HeaderSignature, signature)
	return h, nil
}

// generateSignature creates an RSA-PSS signature for the given request.
// Message format: timestamp_ms + method + path
func (c *Credentials) generateSignature(timestampMs int64, method, path string) (string, error) {
	message := fmt.Sprintf("%d%s%s", timestampMs, method, path)
	hashed := sha256.Sum256([]byte(message))

	signature, err := rsa.SignPSS(
		rand.Reader,
		c.PrivateKey,
		crypto.SHA256,
		hashed[:],
		&rsa.PSSOptions{SaltLength: rsa.PSSSaltLengthEqualsHash},
	)
	if err != nil {
		return "", fmt.Errorf("sign message: %w", err)
	}

	return base64.StdEncoding.EncodeToString(signature), nil
}
