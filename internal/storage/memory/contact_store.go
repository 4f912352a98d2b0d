package memory

import (
	"context"
	"fmt"
	"sync"

	"github.com/nastyazhadan/restaurant-order/internal/domain/models"
)

type ContactStore struct {
	submissions []models.ContactSubmission
	mu          sync.Mutex
}

func NewContactStore() *ContactStore {
	return &ContactStore{}
}

func (s *ContactStore) SaveSubmission(ctx context.Context, submission models.ContactSubmission) error {
	const op = "storage.ContactStore.SaveSubmission"

	select {
	case <-ctx.Done():
		return fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	s.submissions = append(s.submissions, submission)

	return nil
}

func (s *ContactStore) Submissions() []models.ContactSubmission {
	s.mu.Lock()
	defer s.mu.Unlock()

	return append([]models.ContactSubmission(nil), s.submissions...)
}
