package order

import (
	"strings"
	"time"

	"github.com/google/uuid"
)

// OrderNumber renders the customer-facing number ORD-YYYYMMDD-XXXXXX.
func OrderNumber(id uuid.UUID, createdAt time.Time) string {
	hex := strings.ReplaceAll(id.String(), "-", "")

	return "ORD-" + createdAt.UTC().Format("20060102") + "-" + strings.ToUpper(hex[:6])
}
