package envelope

import "huludl/util"

var (
	ErrMalformedEnvelope = &util.Error{Message: "error decoding response hex"}
	ErrDecryption        = &util.Error{Message: "error decrypting response"}
	ErrMalformedPayload  = &util.Error{Message: "error parsing decrypted response"}
	ErrKeyLengthMismatch = &util.Error{Message: "key material length does not match device key"}
)
