package utils

import (
	"fmt"
	"math/rand"
	"time"

	"github.com/google/uuid"
)

// ==================== UUID ====================

func GenerateUUID() uuid.UUID {
	return uuid.New()
}

func ParseUUID(uuidStr string) (uuid.UUID, error) {
	return uuid.Parse(uuidStr)
}

// ==================== TRACKING CODE ====================

const trackingCharset = "0123456789ABCDEFGHIJKLMNOPQRSTUVWXYZ"

// GenerateTrackingCode creates a customer-facing tracking code.
// Format: MR<unix-millis><4 random chars>, e.g. MR1718000000000X7KQ
func GenerateTrackingCode() string {
	suffix := make([]byte, 4)
	for i := range suffix {
		suffix[i] = trackingCharset[rand.Intn(len(trackingCharset))]
	}

	return fmt.Sprintf("MR%d%s", time.Now().UnixMilli(), suffix)
}

// ==================== TRANSACTION / TICKET IDS ====================

// GenerateTransactionID creates an id for a completed payment
func GenerateTransactionID() string {
	return fmt.Sprintf("TXN%d", time.Now().UnixMilli())
}

// GenerateTicketID creates an id for a contact-form submission
func GenerateTicketID() string {
	return fmt.Sprintf("TICKET-%d", time.Now().UnixMilli())
}

// GenerateEmergencyID creates an id for an emergency delivery request
func GenerateEmergencyID() string {
	return fmt.Sprintf("EMR%d", time.Now().UnixMilli())
}
