package util

import (
	"fmt"
	"math/rand"
	"time"
)

// OrderNumberPrefix is stamped on every generated order number.
const OrderNumberPrefix = "CF"

// GenerateOrderNumber produces a human-readable order number of the form
// "CF" followed by exactly nine digits. The first six digits come from the
// current time at millisecond resolution, the last three are random, which
// keeps same-millisecond collisions unlikely. Uniqueness is still enforced
// by the database index; callers retry on a duplicate-key rejection.
func GenerateOrderNumber() string {
	timePart := time.Now().UnixMilli() % 1_000_000
	randomPart := rand.Intn(1000)
	return fmt.Sprintf("%s%06d%03d", OrderNumberPrefix, timePart, randomPart)
}
