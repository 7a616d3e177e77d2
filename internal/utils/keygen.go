package utils

import (
	"crypto/rand"
	"encoding/hex"
	"fmt"
	"math/big"
)

const orderCodeAlphabet = "ABCDEFGHIJKLMNPQRSTUVWXYZ23456789"

// GenerateID generates a random identifier with the given prefix.
// Format: prefix_randomhex (64 random bits)
// Example: shop_9f86d081884c7d65
func GenerateID(prefix string) (string, error) {
	b := make([]byte, 8)
	if _, err := rand.Read(b); err != nil {
		return "", err
	}
	return fmt.Sprintf("%s_%s", prefix, hex.EncodeToString(b)), nil
}

// GenerateShopID generates a shop id: shop_xxx
func GenerateShopID() (string, error) {
	return GenerateID("shop")
}

// GenerateOwnerID generates a seller/owner id: usr_xxx
func GenerateOwnerID() (string, error) {
	return GenerateID("usr")
}

// GenerateProductID generates a product id: prd_xxx
func GenerateProductID() (string, error) {
	return GenerateID("prd")
}

// GenerateOTP returns a zero-padded 6-digit numeric code.
func GenerateOTP() (string, error) {
	n, err := rand.Int(rand.Reader, big.NewInt(1_000_000))
	if err != nil {
		return "", err
	}
	return fmt.Sprintf("%06d", n.Int64()), nil
}

// GenerateOrderCode returns a short uppercase order code such as "K7QX2MZA".
// Ambiguous characters (0, O, 1) are excluded so codes can be read over the phone.
func GenerateOrderCode() (string, error) {
	const length = 8
	max := big.NewInt(int64(len(orderCodeAlphabet)))
	code := make([]byte, length)
	for i := range code {
		n, err := rand.Int(rand.Reader, max)
		if err != nil {
			return "", err
		}
		code[i] = orderCodeAlphabet[n.Int64()]
	}
	return string(code), nil
}
