package mocks

import (
	"context"

	"github.com/stretchr/testify/mock"

	"github.com/nastyazhadan/restaurant-order/internal/domain/models"
)

type MockContactSaver struct {
	mock.Mock
}

func (m *MockContactSaver) SaveSubmission(ctx context.Context, submission models.ContactSubmission) error {
	args := m.Called(ctx, submission)

	return args.Error(0)
}
