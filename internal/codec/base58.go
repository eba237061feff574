package codec

import (
	"bytes"
	"crypto/sha256"
	"math/big"
)

// base58Alphabet is the standard Bitcoin alphabet (no 0, O, I, l).
var base58Alphabet = []byte("123456789ABCDEFGHJKLMNPQRSTUVWXYZabcdefghijkmnopqrstuvwxyz")
var base58Radix = int64(len(base58Alphabet))

const checksumLen = 4

// base58Encode is the raw base58 encoding of input, with one leading
// alphabet-zero char per leading zero byte of input.
func base58Encode(input []byte) []byte {
	x := new(big.Int).SetBytes(input)
	base := big.NewInt(base58Radix)
	zero := big.NewInt(0)
	mod := new(big.Int)

	var encoded []byte
	for x.Cmp(zero) != 0 {
		x.DivMod(x, base, mod)
		encoded = append(encoded, base58Alphabet[mod.Int64()])
	}
	reverseInPlace(encoded)

	for _, b := range input {
		if b != 0x00 {
			break
		}
		encoded = append([]byte{base58Alphabet[0]}, encoded...)
	}
	return encoded
}

// base58Decode inverts base58Encode.
func base58Decode(input []byte) []byte {
	zeroBytes := 0
	for _, b := range input {
		if b != base58Alphabet[0] {
			break
		}
		zeroBytes++
	}

	tmp := new(big.Int)
	base := big.NewInt(base58Radix)
	for _, b := range input[zeroBytes:] {
		idx := bytes.IndexByte(base58Alphabet, b)
		if idx < 0 {
			return nil
		}
		tmp.Mul(tmp, base)
		tmp.Add(tmp, big.NewInt(int64(idx)))
	}

	decoded := tmp.Bytes()
	return append(bytes.Repeat([]byte{0x00}, zeroBytes), decoded...)
}

func reverseInPlace(b []byte) {
	for i, j := 0, len(b)-1; i < j; i, j = i+1, j-1 {
		b[i], b[j] = b[j], b[i]
	}
}

func checksum(payload []byte) []byte {
	first := sha256.Sum256(payload)
	second := sha256.Sum256(first[:])
	return second[:checksumLen]
}

// Base58CheckEncode appends a 4-byte double-SHA-256 checksum to payload and
// base58-encodes the result.
func Base58CheckEncode(payload []byte) string {
	full := append(append([]byte{}, payload...), checksum(payload)...)
	return string(base58Encode(full))
}

// Base58CheckDecode reverses Base58CheckEncode, verifying the checksum.
// Returns a *BadEncodingError if the input isn't valid base58 or the
// checksum doesn't match.
func Base58CheckDecode(s string) ([]byte, error) {
	full := base58Decode([]byte(s))
	if len(full) < checksumLen {
		return nil, &BadEncodingError{Kind: "base58check", Err: errTooShort}
	}
	payload := full[:len(full)-checksumLen]
	want := full[len(full)-checksumLen:]
	got := checksum(payload)
	if !bytes.Equal(want, got) {
		return nil, &BadEncodingError{Kind: "base58check", Err: errChecksum}
	}
	return payload, nil
}
