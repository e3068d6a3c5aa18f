// Package envelope implements the wire envelope used by the playback
// service: hex text wrapping AES-128-CBC ciphertext (zero IV, PKCS#7)
// of a JSON document.
package envelope

import (
	"encoding/hex"
	"fmt"
	"unicode/utf8"

	"huludl/util"

	"github.com/bytedance/sonic"
)

// DecodeHex turns the textual envelope into raw ciphertext. ASCII
// whitespace is allowed between byte pairs, not inside one.
func DecodeHex(text string) ([]byte, error) {
	compact := make([]byte, 0, len(text))
	for i := 0; i < len(text); i++ {
		c := text[i]
		if isHexSpace(c) {
			if len(compact)%2 != 0 {
				return nil, fmt.Errorf("%w: whitespace inside byte at offset %d", ErrMalformedEnvelope, i)
			}
			continue
		}
		compact = append(compact, c)
	}
	ciphertext := make([]byte, hex.DecodedLen(len(compact)))
	if _, err := hex.Decode(ciphertext, compact); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMalformedEnvelope, err)
	}
	return ciphertext, nil
}

func isHexSpace(c byte) bool {
	switch c {
	case ' ', '\t', '\n', '\r', '\v', '\f':
		return true
	}
	return false
}

// DecodePayload parses decrypted bytes as a JSON object.
func DecodePayload(plaintext []byte) (map[string]any, error) {
	if !utf8.Valid(plaintext) {
		return nil, fmt.Errorf("%w: payload is not valid utf-8", ErrMalformedPayload)
	}
	var payload map[string]any
	if err := sonic.Unmarshal(plaintext, &payload); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMalformedPayload, err)
	}
	if payload == nil {
		return nil, fmt.Errorf("%w: payload is not an object", ErrMalformedPayload)
	}
	return payload, nil
}

// Decrypt removes the AES layer. Any padding failure is reported as
// ErrDecryption, which in practice means the key is wrong.
func Decrypt(key []byte, ciphertext []byte) ([]byte, error) {
	plaintext, err := util.DecryptCBC(ciphertext, key, util.GenerateZeroIV())
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrDecryption, err)
	}
	return plaintext, nil
}

// Open decrypts ciphertext and parses the result. The plaintext is
// returned alongside the parsed document.
func Open(key []byte, ciphertext []byte) (map[string]any, []byte, error) {
	plaintext, err := Decrypt(key, ciphertext)
	if err != nil {
		return nil, nil, err
	}
	payload, err := DecodePayload(plaintext)
	if err != nil {
		return nil, nil, err
	}
	return payload, plaintext, nil
}

// Seal is the service side of Open: it encodes v as JSON, encrypts it
// and returns the hex text that goes on the wire.
func Seal(key []byte, v any) (string, error) {
	plaintext, err := sonic.Marshal(v)
	if err != nil {
		return "", fmt.Errorf("failed to encode payload: %w", err)
	}
	ciphertext, err := util.EncryptCBC(plaintext, key, util.GenerateZeroIV())
	if err != nil {
		return "", fmt.Errorf("failed to encrypt payload: %w", err)
	}
	return hex.EncodeToString(ciphertext), nil
}
