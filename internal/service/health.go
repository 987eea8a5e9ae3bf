package service

import (
	"context"
	"fmt"
	"time"

	"expenso/internal/repository"
)

const healthTimeout = 2 * time.Second

type HealthService struct {
	db repository.Pinger
}

func NewHealthService(db repository.Pinger) *HealthService {
	return &HealthService{db: db}
}

// Check pings the database.
func (s *HealthService) Check(ctx context.Context) error {
	if s.db == nil {
		return fmt.Errorf("database not configured")
	}
	ctx, cancel := context.WithTimeout(ctx, healthTimeout)
	defer cancel()
	if err := s.db.PingContext(ctx); err != nil {
		return fmt.Errorf("ping database: %w", err)
	}
	return nil
}
