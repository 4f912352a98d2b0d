package models

import (
	"time"

	"github.com/google/uuid"
)

type ContactReason string

const (
	ContactReasonGeneral  ContactReason = "general"
	ContactReasonCatering ContactReason = "catering"
	ContactReasonFeedback ContactReason = "feedback"
	ContactReasonCareers  ContactReason = "careers"
	ContactReasonOther    ContactReason = "other"
)

type ContactSubmission struct {
	ID        uuid.UUID
	Name      string
	Email     string
	Phone     *string
	Reason    ContactReason
	Message   string
	ClientIP  string
	CreatedAt time.Time
}
