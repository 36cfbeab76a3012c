package naming

import (
	"context"
	"fmt"
	"sort"
	"sync"

	"github.com/google/uuid"
	"github.com/pkg/errors"
)

// ObjectRef is an opaque reference to a remote object: where it is served and which interface
// it implements.
type ObjectRef struct {
	// Address is a gRPC dial target.
	Address string `json:"address"`
	// TypeID identifies the interface the object implements. Narrowing compares it with the
	// interface the caller expects.
	TypeID string `json:"type_id"`
	// Key is assigned when the reference is bound and is stable for the binding's lifetime.
	Key string `json:"key"`
}

// Validate ensures the reference can be dialed.
func (ref ObjectRef) Validate() error {
	if ref.Address == "" {
		return errors.New("address field for object reference missing or invalid")
	}
	return nil
}

// Binding associates a name with an object reference.
type Binding struct {
	Name Name
	Ref  ObjectRef
}

// A Directory resolves names to remote object references.
type Directory interface {
	// Resolve returns the object bound at name, or a *NotFoundError.
	Resolve(ctx context.Context, name Name) (ObjectRef, error)
	// List returns every binding whose name starts with prefix, sorted by name. An empty prefix
	// lists the whole directory.
	List(ctx context.Context, prefix Name) ([]Binding, error)
}

// A Registry is a Directory that can also be written to.
type Registry interface {
	Directory
	// Bind binds ref at name and returns it with its assigned key. Binding an already bound name
	// fails with an *AlreadyBoundError.
	Bind(ctx context.Context, name Name, ref ObjectRef) (ObjectRef, error)
	// Rebind binds ref at name, replacing any previous binding.
	Rebind(ctx context.Context, name Name, ref ObjectRef) (ObjectRef, error)
	// Unbind removes the binding at name, or fails with a *NotFoundError.
	Unbind(ctx context.Context, name Name) error
}

// A NotFoundError is returned when nothing is bound at a name.
type NotFoundError struct {
	Name string
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("name %q not found", e.Name)
}

// IsNotFoundError returns if the given error is any kind of not found error.
func IsNotFoundError(err error) bool {
	var errArt *NotFoundError
	return errors.As(err, &errArt)
}

// An AlreadyBoundError is returned when binding a name that is already bound.
type AlreadyBoundError struct {
	Name string
}

func (e *AlreadyBoundError) Error() string {
	return fmt.Sprintf("name %q is already bound", e.Name)
}

// StaticDirectory is an in-memory Registry. It serves configuration-driven lookups and backs the
// directory server.
type StaticDirectory struct {
	mu       sync.RWMutex
	bindings map[string]Binding
}

// NewStaticDirectory returns a directory holding the given bindings, keyed by the string form
// of their names.
func NewStaticDirectory(bindings map[string]ObjectRef) (*StaticDirectory, error) {
	d := &StaticDirectory{bindings: map[string]Binding{}}
	for s, ref := range bindings {
		name, err := ParseName(s)
		if err != nil {
			return nil, err
		}
		if _, err := d.Bind(context.Background(), name, ref); err != nil {
			return nil, err
		}
	}
	return d, nil
}

// Resolve returns the object bound at name.
func (d *StaticDirectory) Resolve(ctx context.Context, name Name) (ObjectRef, error) {
	if err := name.Validate(); err != nil {
		return ObjectRef{}, err
	}
	d.mu.RLock()
	defer d.mu.RUnlock()
	binding, ok := d.bindings[name.String()]
	if !ok {
		return ObjectRef{}, &NotFoundError{Name: name.String()}
	}
	return binding.Ref, nil
}

// List returns the bindings under prefix sorted by name.
func (d *StaticDirectory) List(ctx context.Context, prefix Name) ([]Binding, error) {
	d.mu.RLock()
	defer d.mu.RUnlock()
	bindings := make([]Binding, 0, len(d.bindings))
	for _, binding := range d.bindings {
		if binding.Name.HasPrefix(prefix) {
			bindings = append(bindings, binding)
		}
	}
	sort.Slice(bindings, func(i, j int) bool {
		return bindings[i].Name.String() < bindings[j].Name.String()
	})
	return bindings, nil
}

// Bind binds ref at name.
func (d *StaticDirectory) Bind(ctx context.Context, name Name, ref ObjectRef) (ObjectRef, error) {
	return d.bind(name, ref, false)
}

// Rebind binds ref at name, replacing any previous binding.
func (d *StaticDirectory) Rebind(ctx context.Context, name Name, ref ObjectRef) (ObjectRef, error) {
	return d.bind(name, ref, true)
}

func (d *StaticDirectory) bind(name Name, ref ObjectRef, replace bool) (ObjectRef, error) {
	if err := name.Validate(); err != nil {
		return ObjectRef{}, err
	}
	if err := ref.Validate(); err != nil {
		return ObjectRef{}, err
	}
	d.mu.Lock()
	defer d.mu.Unlock()
	key := name.String()
	if _, ok := d.bindings[key]; ok && !replace {
		return ObjectRef{}, &AlreadyBoundError{Name: key}
	}
	if ref.Key == "" {
		ref.Key = uuid.NewSHA1(uuid.NameSpaceX500, []byte(key+"@"+ref.Address)).String()
	}
	d.bindings[key] = Binding{Name: append(Name(nil), name...), Ref: ref}
	return ref, nil
}

// Unbind removes the binding at name.
func (d *StaticDirectory) Unbind(ctx context.Context, name Name) error {
	d.mu.Lock()
	defer d.mu.Unlock()
	key := name.String()
	if _, ok := d.bindings[key]; !ok {
		return &NotFoundError{Name: key}
	}
	delete(d.bindings, key)
	return nil
}
