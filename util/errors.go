package util

type Error struct {
	Message string
}

func (err *Error) Error() string {
	return err.Message
}

var (
	ErrInvalidAESKey      = &Error{Message: "invalid AES key: expected 16 bytes"}
	ErrInvalidBlockLength = &Error{Message: "encrypted data length is not a multiple of block size"}
	ErrInvalidPadding     = &Error{Message: "invalid PKCS#7 padding"}
	ErrUnknownDevice      = &Error{Message: "unknown device"}
)
