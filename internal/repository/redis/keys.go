package redis

import (
	"fmt"

	"github.com/google/uuid"
)

const ns = "maintgo:v1"

func KeyTicketSummary(ticketID uuid.UUID) string {
	return fmt.Sprintf("%s:ticket:%s:summary", ns, ticketID)
}

// KeyVendorDay caches one vendor's availability for one calendar day.
// day is formatted as 2006-01-02.
func KeyVendorDay(vendorID int64, day string) string {
	return fmt.Sprintf("%s:vendor:%d:day:%s", ns, vendorID, day)
}

// KeyRateLimit is the limiter prefix for one scope; the limiter appends the
// caller identity.
func KeyRateLimit(scope string) string {
	return fmt.Sprintf("%s:rl:%s", ns, scope)
}
