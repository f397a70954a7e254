package utils

import (
	"regexp"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestGeneratePromoCode(t *testing.T) {
	code := GeneratePromoCode("", PromoCodeLength)
	assert.Len(t, code, PromoCodeLength)

	withPrefix := GeneratePromoCode("DENTAL", 6)
	assert.True(t, strings.HasPrefix(withPrefix, "DENTAL-"))
	assert.Len(t, withPrefix, len("DENTAL-")+6)
}

func TestGeneratePromoCodeAvoidsAmbiguousCharacters(t *testing.T) {
	for i := 0; i < 50; i++ {
		code := GeneratePromoCode("", 20)
		assert.NotContains(t, code, "0")
		assert.NotContains(t, code, "O")
		assert.NotContains(t, code, "1")
		assert.NotContains(t, code, "I")
		assert.NotContains(t, code, "L")
	}
}

func TestGenerateOrderNumber(t *testing.T) {
	pattern := regexp.MustCompile(`^CMD-\d{8}-[A-Z2-9]{6}$`)
	assert.Regexp(t, pattern, GenerateOrderNumber())
}
