package hulu

import (
	"bytes"
	"encoding/hex"
	"fmt"
	"strconv"
	"strings"
)

// Device is the static identity a channel authenticates as: a numeric
// device code and the 16-byte AES key shipped with that device type.
type Device struct {
	code string
	id   int
	key  []byte
}

func NewDevice(code string, key []byte) (*Device, error) {
	code = strings.TrimSpace(code)
	id, err := strconv.Atoi(code)
	if err != nil {
		return nil, fmt.Errorf("%w: %q", ErrInvalidDeviceCode, code)
	}
	if len(key) != 16 {
		return nil, fmt.Errorf("%w: got %d", ErrInvalidKeyLength, len(key))
	}
	return &Device{
		code: code,
		id:   id,
		key:  bytes.Clone(key),
	}, nil
}

func NewDeviceFromHex(code string, hexKey string) (*Device, error) {
	key, err := hex.DecodeString(strings.TrimSpace(hexKey))
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidDeviceKey, err)
	}
	return NewDevice(code, key)
}

// ParseDevice reads the "code:hexkey" form used in the config file.
func ParseDevice(value string) (*Device, error) {
	code, hexKey, ok := strings.Cut(value, ":")
	if !ok {
		return nil, fmt.Errorf("invalid device %q: expected code:key", value)
	}
	return NewDeviceFromHex(code, hexKey)
}

func (d *Device) Code() string {
	return d.code
}

func (d *Device) ID() int {
	return d.id
}

func (d *Device) Key() []byte {
	return bytes.Clone(d.key)
}
