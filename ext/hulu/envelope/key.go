package envelope

import (
	"crypto/md5"
	"encoding/hex"
	"fmt"
)

// DeriveKey xors the device key with server key material byte by byte.
func DeriveKey(deviceKey []byte, material []byte) ([]byte, error) {
	if len(deviceKey) != len(material) {
		return nil, fmt.Errorf(
			"%w: %d != %d",
			ErrKeyLengthMismatch,
			len(material), len(deviceKey),
		)
	}
	derived := make([]byte, len(deviceKey))
	for i := range deviceKey {
		derived[i] = deviceKey[i] ^ material[i]
	}
	return derived, nil
}

// Nonce is the md5 hex digest of "{hex(key)},{code},{version},{rv}".
func Nonce(deviceKey []byte, deviceCode string, version string, randomValue int) string {
	base := fmt.Sprintf(
		"%s,%s,%s,%d",
		hex.EncodeToString(deviceKey),
		deviceCode,
		version,
		randomValue,
	)
	hash := md5.Sum([]byte(base))
	return hex.EncodeToString(hash[:])
}
