package cache

import (
	"context"
	"errors"
	"time"

	pkgcache "FluxFeed/pkg/cache"
)

// BytesCache stores raw response bodies with a TTL. Handlers depend on this
// rather than the wider pkg/cache Service.
type BytesCache interface {
	GetBytes(key string) (b []byte, ok bool, err error)
	SetBytes(key string, value []byte, ttl time.Duration) error
}

// ServiceBytes adapts a pkg/cache Service to the BytesCache API used by the
// HTTP handlers. Bodies are stored as strings, the one representation every
// backend round-trips unchanged.
type ServiceBytes struct {
	svc pkgcache.Service
}

func NewServiceBytes(svc pkgcache.Service) *ServiceBytes {
	return &ServiceBytes{svc: svc}
}

func (s *ServiceBytes) GetBytes(key string) ([]byte, bool, error) {
	var body string
	err := s.svc.Get(context.Background(), key, &body)
	if err != nil {
		if errors.Is(err, pkgcache.ErrCacheMiss) {
			return nil, false, nil
		}
		return nil, false, err
	}
	return []byte(body), true, nil
}

func (s *ServiceBytes) SetBytes(key string, value []byte, ttl time.Duration) error {
	return s.svc.Set(context.Background(), key, string(value), ttl)
}
