package utils

import (
	"crypto/rand"
	"fmt"
	"math/big"
	"time"
)

const (
	letterBytes  = "abcdefghijklmnopqrstuvwxyzABCDEFGHIJKLMNOPQRSTUVWXYZ"
	numberBytes  = "0123456789"
	alphanumeric = letterBytes + numberBytes

	// Ambiguous characters (0/O, 1/I/L) are excluded from promo codes.
	promoCodeCharset = "ABCDEFGHJKMNPQRSTUVWXYZ23456789"
)

func GenerateRandomString(length int) string {
	return generateRandom(length, alphanumeric)
}

func GenerateRandomNumericString(length int) string {
	return generateRandom(length, numberBytes)
}

// GeneratePromoCode returns an uppercase code with an optional prefix:
// GeneratePromoCode("DENTAL", 6) -> "DENTAL-X7K2M9".
func GeneratePromoCode(prefix string, length int) string {
	code := generateRandom(length, promoCodeCharset)
	if prefix == "" {
		return code
	}
	return prefix + "-" + code
}

// GenerateOrderNumber builds a human-readable order reference like
// "CMD-20260829-4F8Z2Q".
func GenerateOrderNumber() string {
	return fmt.Sprintf("CMD-%s-%s", time.Now().Format("20060102"), generateRandom(6, promoCodeCharset))
}

func generateRandom(length int, charset string) string {
	result := make([]byte, length)
	charsetLength := big.NewInt(int64(len(charset)))

	for i := range result {
		num, _ := rand.Int(rand.Reader, charsetLength)
		result[i] = charset[num.Int64()]
	}

	return string(result)
}

func SecureRandomInt(max int) int {
	n, _ := rand.Int(rand.Reader, big.NewInt(int64(max)))
	return int(n.Int64())
}
