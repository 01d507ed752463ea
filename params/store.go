// Package params holds model parameters in named scopes. A Store is created
// once per model; layers receive explicit *Parameter handles from it instead
// of looking parameters up by name at application time.
package params

import (
	"strings"
	"sync"

	"github.com/pkg/errors"
	"k8s.io/klog/v2"

	"github.com/fumitoshi0524/ixeoriNet/multiply/tensor"
)

// ScopeSeparator separates scope levels. Scope and parameter names cannot contain it.
const ScopeSeparator = "/"

var (
	ErrDuplicateParameter = errors.New("parameter already exists")
	ErrParameterNotFound  = errors.New("parameter not found")
	// ErrParameterMismatch is returned when reusing a parameter with a different dtype or shape.
	ErrParameterMismatch = errors.New("parameter dtype or shape mismatch")
	ErrInvalidName       = errors.New("invalid scope or parameter name")
)

// Store owns every parameter of a model. It is safe for concurrent use.
type Store struct {
	mu          sync.Mutex
	scopes      map[string]map[string]*Parameter
	params      []*Parameter
	initializer Initializer
}

func NewStore() *Store {
	return &Store{
		scopes:      make(map[string]map[string]*Parameter),
		initializer: DefaultInitializer,
	}
}

// SetInitializer changes the initializer used when Create is given nil.
func (s *Store) SetInitializer(init Initializer) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if init == nil {
		init = DefaultInitializer
	}
	s.initializer = init
}

// Root returns the top level scope.
func (s *Store) Root() *Scope {
	return &Scope{store: s, path: ScopeSeparator}
}

// Parameters lists parameters in creation order.
func (s *Store) Parameters() []*Parameter {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]*Parameter(nil), s.params...)
}

// Trainable returns the tensors of trainable parameters, ready for an optimizer.
func (s *Store) Trainable() []*tensor.Tensor {
	var out []*tensor.Tensor
	for _, p := range s.Parameters() {
		if p.Trainable() {
			out = append(out, p.Tensor())
		}
	}
	return out
}

// NumParameters counts scalar values across all parameters.
func (s *Store) NumParameters() int {
	total := 0
	for _, p := range s.Parameters() {
		total += p.Tensor().Numel()
	}
	return total
}

// Memory is the number of bytes the parameters occupy in their dtypes.
func (s *Store) Memory() int64 {
	var total int64
	for _, p := range s.Parameters() {
		total += int64(p.Tensor().Numel() * p.DType().Size())
	}
	return total
}

// Lookup finds a parameter by its full path, e.g. "/model/alpha".
func (s *Store) Lookup(path string) (*Parameter, bool) {
	idx := strings.LastIndex(path, ScopeSeparator)
	if idx < 0 {
		return nil, false
	}
	scope, name := path[:idx], path[idx+1:]
	if scope == "" {
		scope = ScopeSeparator
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	p, ok := s.scopes[scope][name]
	return p, ok
}

// ZeroGrad clears the gradient of every parameter.
func (s *Store) ZeroGrad() {
	for _, p := range s.Parameters() {
		p.ZeroGrad()
	}
}

// Scope is a namespace within a Store. Parameter names are unique per scope.
type Scope struct {
	store *Store
	path  string
}

func (sc *Scope) Path() string { return sc.path }

func (sc *Scope) Store() *Store { return sc.store }

// In returns the child scope with the given name.
func (sc *Scope) In(name string) (*Scope, error) {
	if err := validName(name); err != nil {
		return nil, errors.WithMessagef(err, "scope in %q", sc.path)
	}
	return &Scope{store: sc.store, path: joinScope(sc.path, name)}, nil
}

// Create registers a new trainable parameter. It fails with
// ErrDuplicateParameter if name already exists in this scope. A nil init uses
// the store's initializer.
func (sc *Scope) Create(name string, dtype tensor.DType, shape []int, init Initializer) (*Parameter, error) {
	if err := validName(name); err != nil {
		return nil, err
	}
	s := sc.store
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, found := s.scopes[sc.path][name]; found {
		return nil, errors.Wrapf(ErrDuplicateParameter, "%q in scope %q", name, sc.path)
	}
	return sc.createLocked(name, dtype, shape, init)
}

// Get returns an existing parameter of this scope.
func (sc *Scope) Get(name string) (*Parameter, error) {
	s := sc.store
	s.mu.Lock()
	defer s.mu.Unlock()
	p, found := s.scopes[sc.path][name]
	if !found {
		return nil, errors.Wrapf(ErrParameterNotFound, "%q in scope %q", name, sc.path)
	}
	return p, nil
}

// GetOrCreate returns the existing parameter if there is one, otherwise
// creates it. Repeated calls return the same *Parameter.
func (sc *Scope) GetOrCreate(name string, dtype tensor.DType, shape []int, init Initializer) (*Parameter, error) {
	if err := validName(name); err != nil {
		return nil, err
	}
	s := sc.store
	s.mu.Lock()
	defer s.mu.Unlock()
	p, found := s.scopes[sc.path][name]
	if !found {
		return sc.createLocked(name, dtype, shape, init)
	}
	if p.DType() != dtype || !equalShape(p.Shape(), shape) {
		return nil, errors.Wrapf(ErrParameterMismatch, "%s is %s%v, requested %s%v",
			p.Path(), p.DType(), p.Shape(), dtype, shape)
	}
	return p, nil
}

func (sc *Scope) createLocked(name string, dtype tensor.DType, shape []int, init Initializer) (*Parameter, error) {
	s := sc.store
	for _, dim := range shape {
		if dim <= 0 {
			return nil, errors.Wrapf(tensor.ErrInvalidShape, "parameter %q with shape %v", name, shape)
		}
	}
	if init == nil {
		init = s.initializer
	}
	value := init(dtype, shape)
	if value == nil || value.DType() != dtype || !equalShape(value.Shape(), shape) {
		return nil, errors.Wrapf(ErrParameterMismatch, "initializer for %q in scope %q", name, sc.path)
	}
	value.SetRequiresGrad(true)
	p := &Parameter{name: name, scope: sc.path, value: value}
	vars, found := s.scopes[sc.path]
	if !found {
		vars = make(map[string]*Parameter)
		s.scopes[sc.path] = vars
	}
	vars[name] = p
	s.params = append(s.params, p)
	klog.V(1).Infof("created parameter %s: dtype=%s shape=%v", p.Path(), dtype, shape)
	return p, nil
}

func validName(name string) error {
	if name == "" || strings.Contains(name, ScopeSeparator) {
		return errors.Wrapf(ErrInvalidName, "%q", name)
	}
	return nil
}

func joinScope(scope, name string) string {
	if scope == ScopeSeparator {
		return ScopeSeparator + name
	}
	return scope + ScopeSeparator + name
}

func equalShape(a, b []int) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}
