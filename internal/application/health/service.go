package health

import (
	"context"
	"time"

	corehealth "3tcapital/ms_namqr_core/internal/core/health"
)

// Metadata contains immutable metadata about the running service.
type Metadata struct {
	Service     string
	Version     string
	Environment string
}

// Pinger reports whether a dependency is reachable. *pgxpool.Pool satisfies
// it directly.
type Pinger interface {
	Ping(ctx context.Context) error
}

// Service exposes health-check use cases to adapters.
type Service struct {
	meta      Metadata
	startedAt time.Time
	deps      map[string]Pinger
}

func NewService(meta Metadata) *Service {
	return &Service{
		meta:      meta,
		startedAt: time.Now().UTC(),
		deps:      make(map[string]Pinger),
	}
}

// RegisterDependency adds a named dependency whose reachability is reported
// in every status snapshot.
func (s *Service) RegisterDependency(name string, p Pinger) {
	s.deps[name] = p
}

// Status returns the current availability snapshot. Each registered
// dependency is pinged with a short timeout; an unreachable dependency
// degrades the overall status without taking the service down.
func (s *Service) Status(ctx context.Context) corehealth.Status {
	uptime := time.Since(s.startedAt)
	status := corehealth.Status{
		Service:     s.meta.Service,
		Version:     s.meta.Version,
		Environment: s.meta.Environment,
		Status:      "UP",
		StartedAt:   s.startedAt,
		Uptime:      uptime.String(),
		UptimeSecs:  int64(uptime.Seconds()),
	}

	if len(s.deps) == 0 {
		return status
	}

	status.Dependencies = make(map[string]string, len(s.deps))
	for name, dep := range s.deps {
		pingCtx, cancel := context.WithTimeout(ctx, 2*time.Second)
		if err := dep.Ping(pingCtx); err != nil {
			status.Dependencies[name] = "DOWN"
			status.Status = "DEGRADED"
		} else {
			status.Dependencies[name] = "UP"
		}
		cancel()
	}

	return status
}
