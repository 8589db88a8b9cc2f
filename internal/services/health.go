package services

import (
	"context"

	"github.com/shubamdev/enquiry-gateway/pkg/pg"
	"github.com/shubamdev/enquiry-gateway/pkg/redis"
)

// HealthService answers liveness probes by touching the two backends the
// service cannot run without.
type HealthService struct {
	db    *pg.DB
	cache redis.Adapter
}

func NewHealthService(db *pg.DB, cache redis.Adapter) *HealthService {
	return &HealthService{db: db, cache: cache}
}

func (s *HealthService) Get() error {
	ctx := context.Background()
	if s.db != nil {
		if sqlDB, err := s.db.Write(ctx).DB(); err != nil {
			return err
		} else if err := sqlDB.Ping(); err != nil {
			return err
		}
	}
	if s.cache != nil {
		if err := s.cache.Client().Ping(ctx).Err(); err != nil {
			return err
		}
	}
	return nil
}
