package inject

import (
	"context"

	"go.hpp.dev/manipulation/naming"
)

// Directory is an injected naming directory.
type Directory struct {
	naming.Directory
	ResolveFunc func(ctx context.Context, name naming.Name) (naming.ObjectRef, error)
	ListFunc    func(ctx context.Context, prefix naming.Name) ([]naming.Binding, error)
}

// Resolve calls the injected Resolve or the real version.
func (d *Directory) Resolve(ctx context.Context, name naming.Name) (naming.ObjectRef, error) {
	if d.ResolveFunc == nil {
		return d.Directory.Resolve(ctx, name)
	}
	return d.ResolveFunc(ctx, name)
}

// List calls the injected List or the real version.
func (d *Directory) List(ctx context.Context, prefix naming.Name) ([]naming.Binding, error) {
	if d.ListFunc == nil {
		return d.Directory.List(ctx, prefix)
	}
	return d.ListFunc(ctx, prefix)
}
