package codec

import "errors"

var (
	errTooShort = errors.New("payload shorter than checksum")
	errChecksum = errors.New("checksum mismatch")
)
