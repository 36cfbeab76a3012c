package inject

import (
	"context"

	"go.hpp.dev/manipulation/services/basic"
)

// BasicService is an injected basic problem service.
type BasicService struct {
	basic.Service
	SetPassiveDofsFunc func(ctx context.Context, name string, joints []string) error
}

// SetPassiveDofs calls the injected SetPassiveDofs or the real version.
func (s *BasicService) SetPassiveDofs(ctx context.Context, name string, joints []string) error {
	if s.SetPassiveDofsFunc == nil {
		return s.Service.SetPassiveDofs(ctx, name, joints)
	}
	return s.SetPassiveDofsFunc(ctx, name, joints)
}
