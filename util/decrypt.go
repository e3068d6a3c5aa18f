package util

import (
	"bytes"
	"crypto/aes"
	"crypto/cipher"
	"fmt"

	"github.com/pkg/errors"
)

// decrypts AES-128-CBC data and strips PKCS#7 padding
func DecryptCBC(encryptedData []byte, key []byte, iv []byte) ([]byte, error) {
	if !IsValidAESKey(key) {
		return nil, fmt.Errorf("%w, got %d", ErrInvalidAESKey, len(key))
	}
	if !IsValidIV(iv) {
		return nil, fmt.Errorf("invalid IV: expected 16 bytes, got %d", len(iv))
	}
	if len(encryptedData) == 0 {
		return nil, errors.New("no data to decrypt")
	}
	if len(encryptedData)%aes.BlockSize != 0 {
		return nil, ErrInvalidBlockLength
	}
	block, err := aes.NewCipher(key)
	if err != nil {
		return nil, fmt.Errorf("failed to create AES cipher: %w", err)
	}
	mode := cipher.NewCBCDecrypter(block, iv)
	decryptedData := make([]byte, len(encryptedData))
	mode.CryptBlocks(decryptedData, encryptedData)
	unpaddedData, err := removePKCS7Padding(decryptedData)
	if err != nil {
		return nil, fmt.Errorf("failed to remove padding: %w", err)
	}
	return unpaddedData, nil
}

// pads and encrypts data with AES-128-CBC
func EncryptCBC(data []byte, key []byte, iv []byte) ([]byte, error) {
	if !IsValidAESKey(key) {
		return nil, fmt.Errorf("%w, got %d", ErrInvalidAESKey, len(key))
	}
	if !IsValidIV(iv) {
		return nil, fmt.Errorf("invalid IV: expected 16 bytes, got %d", len(iv))
	}
	block, err := aes.NewCipher(key)
	if err != nil {
		return nil, fmt.Errorf("failed to create AES cipher: %w", err)
	}
	padded := pkcs7Pad(data, aes.BlockSize)
	encryptedData := make([]byte, len(padded))
	cipher.NewCBCEncrypter(block, iv).CryptBlocks(encryptedData, padded)
	return encryptedData, nil
}

func pkcs7Pad(data []byte, blockSize int) []byte {
	padding := blockSize - (len(data) % blockSize)
	padtext := bytes.Repeat([]byte{byte(padding)}, padding)
	out := make([]byte, 0, len(data)+padding)
	out = append(out, data...)
	return append(out, padtext...)
}

// removes PKCS#7 padding from decrypted data
func removePKCS7Padding(data []byte) ([]byte, error) {
	if len(data) == 0 {
		return nil, fmt.Errorf("%w: data is empty", ErrInvalidPadding)
	}
	paddingLength := int(data[len(data)-1])
	if paddingLength == 0 || paddingLength > aes.BlockSize {
		return nil, fmt.Errorf("%w: length %d", ErrInvalidPadding, paddingLength)
	}
	if paddingLength > len(data) {
		return nil, fmt.Errorf("%w: length %d exceeds data length %d", ErrInvalidPadding, paddingLength, len(data))
	}
	for i := len(data) - paddingLength; i < len(data); i++ {
		if data[i] != byte(paddingLength) {
			return nil, fmt.Errorf("%w: bad byte at position %d", ErrInvalidPadding, i)
		}
	}
	return data[:len(data)-paddingLength], nil
}

func IsValidAESKey(key []byte) bool {
	return len(key) == 16
}

func IsValidIV(iv []byte) bool {
	return len(iv) == 16
}

func GenerateZeroIV() []byte {
	return make([]byte, 16)
}
