package utils

import (
	"crypto/md5"
	"crypto/sha1"
	"crypto/sha256"
	"crypto/sha512"
	"encoding/hex"
	"hash"
)

// CalculateChecksum calculates a specific checksum for data
func CalculateChecksum(data []byte, hashType string) (string, error) {
	var h hash.Hash

	switch hashType {
	case "md5":
		h = md5.New()
	case "sha1":
		h = sha1.New()
	case "sha256":
		h = sha256.New()
	case "sha512":
		h = sha512.New()
	default:
		h = sha256.New()
	}

	h.Write(data)
	return hex.EncodeToString(h.Sum(nil)), nil
}
