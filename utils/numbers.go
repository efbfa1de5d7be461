package utils

import (
	"crypto/rand"
	"encoding/hex"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
)

// GenerateOrderNumber returns ORD-<unix millis>-<4 hex>. The random suffix
// separates orders created in the same millisecond; the unique index on
// order_number catches anything left.
func GenerateOrderNumber(now time.Time) string {
	return fmt.Sprintf("ORD-%d-%s", now.UnixMilli(), randomHex(2))
}

// GenerateReceiptNumber returns RCT-YYYYMMDD-<first 8 hex of a UUID>.
func GenerateReceiptNumber(now time.Time) string {
	id := strings.ReplaceAll(uuid.NewString(), "-", "")
	return fmt.Sprintf("RCT-%s-%s", now.Format("20060102"), id[:8])
}

func randomHex(n int) string {
	b := make([]byte, n)
	if _, err := rand.Read(b); err != nil {
		// fall back to the clock
		return fmt.Sprintf("%0*x", n*2, time.Now().UnixNano()&(1<<(8*n)-1))
	}
	return hex.EncodeToString(b)
}
