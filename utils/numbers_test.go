package utils

import (
	"regexp"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestGenerateOrderNumber(t *testing.T) {
	now := time.UnixMilli(1710000000123)

	n := GenerateOrderNumber(now)
	assert.Regexp(t, regexp.MustCompile(`^ORD-1710000000123-[0-9a-f]{4}$`), n)

	seen := map[string]bool{}
	for i := 0; i < 50; i++ {
		seen[GenerateOrderNumber(now)] = true
	}
	assert.Greater(t, len(seen), 1)
}

func TestGenerateReceiptNumber(t *testing.T) {
	now := time.Date(2024, 3, 9, 18, 0, 0, 0, time.UTC)

	n := GenerateReceiptNumber(now)
	assert.Regexp(t, regexp.MustCompile(`^RCT-20240309-[0-9a-f]{8}$`), n)
	assert.NotEqual(t, n, GenerateReceiptNumber(now))
}
