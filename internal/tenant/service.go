package tenant

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/vistacare/clinic-api/internal/audit"
)

type Service struct {
	repo Repository
	sink *audit.Sink
}

func NewService(repo Repository, sink *audit.Sink) *Service {
	return &Service{repo: repo, sink: sink}
}

// RegisterGroup creates a new clinic group. Registration is public, so
// there is no acting principal; the audit entry is recorded anonymously.
func (s *Service) RegisterGroup(ctx context.Context, name string) (*Group, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, fmt.Errorf("%w: group name is required", ErrInvalidGroup)
	}

	g, err := s.repo.CreateGroup(ctx, name)
	if err != nil {
		return nil, fmt.Errorf("create group: %w", err)
	}

	s.sink.Record(ctx, audit.Entry{
		Action:   fmt.Sprintf("Registered new clinic %s", g.Name),
		Object:   fmt.Sprintf("Group: %s (id:%s)", g.Name, g.ID),
		TenantID: &g.ID,
	})

	return g, nil
}

// GetGroup returns a single group if it falls inside the caller's scope.
func (s *Service) GetGroup(ctx context.Context, p Principal, id uuid.UUID) (*Group, error) {
	g, err := s.repo.GetGroupByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if !ResolveScope(p).Allows(g.ID) {
		return nil, ErrGroupNotFound
	}
	return g, nil
}

// ListGroups returns every group for super admins and only the caller's
// own group for everyone else.
func (s *Service) ListGroups(ctx context.Context, p Principal) ([]Group, error) {
	groups, err := s.repo.ListGroups(ctx, ResolveScope(p))
	if err != nil {
		return nil, fmt.Errorf("list groups: %w", err)
	}
	return groups, nil
}

// SuspendGroup disables a clinic group. Super admin only.
func (s *Service) SuspendGroup(ctx context.Context, p Principal, id uuid.UUID) (*Group, error) {
	if !p.IsSuperAdmin() {
		return nil, ErrUnauthorized
	}

	now := time.Now().UTC()
	g, err := s.repo.SetGroupStatus(ctx, id, GroupSuspended, &now)
	if err != nil {
		return nil, fmt.Errorf("suspend group: %w", err)
	}

	s.sink.Record(ctx, audit.Entry{
		ActorID:  &p.ID,
		Action:   fmt.Sprintf("Suspended clinic %s", g.Name),
		Object:   fmt.Sprintf("Group: %s (id:%s)", g.Name, g.ID),
		TenantID: &g.ID,
	})

	return g, nil
}

// ReactivateGroup restores a suspended clinic group. Super admin only.
func (s *Service) ReactivateGroup(ctx context.Context, p Principal, id uuid.UUID) (*Group, error) {
	if !p.IsSuperAdmin() {
		return nil, ErrUnauthorized
	}

	g, err := s.repo.SetGroupStatus(ctx, id, GroupActive, nil)
	if err != nil {
		return nil, fmt.Errorf("reactivate group: %w", err)
	}

	s.sink.Record(ctx, audit.Entry{
		ActorID:  &p.ID,
		Action:   fmt.Sprintf("Reactivated clinic %s", g.Name),
		Object:   fmt.Sprintf("Group: %s (id:%s)", g.Name, g.ID),
		TenantID: &g.ID,
	})

	return g, nil
}
