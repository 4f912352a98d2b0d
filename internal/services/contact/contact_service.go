package contact

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/nastyazhadan/restaurant-order/internal/domain/models"
	zapLogger "github.com/nastyazhadan/restaurant-order/shared/logger/zap"
)

type Service struct {
	saver Saver
	now   func() time.Time
}

type Saver interface {
	SaveSubmission(ctx context.Context, submission models.ContactSubmission) error
}

func NewService(s Saver) *Service {
	return &Service{
		saver: s,
		now:   time.Now,
	}
}

// Submit records a contact form. Storage failures are logged and swallowed so
// the visitor always sees the message as sent.
func (s *Service) Submit(ctx context.Context, submission models.ContactSubmission) models.ContactSubmission {
	const op = "Service.Submit"

	submission.ID = uuid.New()
	submission.CreatedAt = s.now().UTC()

	if err := s.saver.SaveSubmission(ctx, submission); err != nil {
		zapLogger.Error(ctx, "failed to store contact submission",
			zap.String("submission_id", submission.ID.String()),
			zap.String("reason", string(submission.Reason)),
			zap.Error(fmt.Errorf("%s: %w", op, err)),
		)
	}

	return submission
}
