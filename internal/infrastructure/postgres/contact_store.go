package postgres

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/nastyazhadan/restaurant-order/internal/domain/models"
)

type ContactStore struct {
	pool *pgxpool.Pool
}

func NewContactStore(pool *pgxpool.Pool) *ContactStore {
	return &ContactStore{
		pool: pool,
	}
}

func (c *ContactStore) SaveSubmission(ctx context.Context, submission models.ContactSubmission) error {
	const op = "infrastructure.ContactStore.SaveSubmission"

	_, err := c.pool.Exec(ctx,
		`INSERT INTO contact_submissions (id, name, email, phone, reason, message, client_ip, created_at)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`,
		submission.ID,
		submission.Name,
		submission.Email,
		submission.Phone,
		string(submission.Reason),
		submission.Message,
		submission.ClientIP,
		submission.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("%s: exec: %w", op, err)
	}

	return nil
}
