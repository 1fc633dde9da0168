package utils

import (
	"crypto/rand"
	"fmt"
	"math/big"
	"time"

	"github.com/google/uuid"
)

// ==================== UUID & TOKEN ====================

func GenerateSessionToken() uuid.UUID {
	return uuid.New()
}

// ==================== VERIFICATION CODE ====================

func GenerateOTP(length int) string {
	if length <= 0 {
		length = 6
	}

	code := make([]byte, length)
	for i := range code {
		code[i] = byte('0' + randomInt(10))
	}
	return string(code)
}

// ==================== ORDER REFERENCE ====================

// GenerateOrderID returns BOOK-YYYYMMDD-HHMMSS-NNNN.
func GenerateOrderID(now time.Time) string {
	return fmt.Sprintf("BOOK-%s-%s-%04d",
		now.Format("20060102"),
		now.Format("150405"),
		randomInt(10000),
	)
}

func randomInt(max int64) int64 {
	n, err := rand.Int(rand.Reader, big.NewInt(max))
	if err != nil {
		return time.Now().UnixNano() % max
	}
	return n.Int64()
}
