package indicator

import (
	"errors"
	"fmt"
	"sort"
	"sync"
)

var errDuplicateCalculator = errors.New("calculator already registered")

// Factory creates a fresh calculator instance
type Factory func() (Calculator, error)

// Registry manages named calculator factories.
// Each Get returns a new calculator so instruments never share state.
type Registry struct {
	mu        sync.RWMutex
	factories map[string]Factory
}

// NewRegistry creates a new indicator registry
func NewRegistry() *Registry {
	return &Registry{
		factories: make(map[string]Factory),
	}
}

// NewDefaultRegistry registers the calculators used by Annotate for p
func NewDefaultRegistry(p Params) (*Registry, error) {
	if err := p.Validate(); err != nil {
		return nil, err
	}

	r := NewRegistry()
	factories := []Factory{
		func() (Calculator, error) { return NewRSI(p.RSIPeriod) },
		func() (Calculator, error) { return NewEMA(p.MACDFast) },
		func() (Calculator, error) { return NewEMA(p.MACDSlow) },
		func() (Calculator, error) { return NewMACD(p.MACDFast, p.MACDSlow, p.MACDSignal) },
		func() (Calculator, error) { return NewSMA(p.BollingerWindow) },
		func() (Calculator, error) { return NewBollinger(p.BollingerWindow, p.BollingerK) },
		func() (Calculator, error) { return NewTechanSMA(p.BollingerWindow) },
	}
	for _, f := range factories {
		// equal fast and slow spans share one ema entry
		if err := r.Register(f); err != nil && !errors.Is(err, errDuplicateCalculator) {
			return nil, err
		}
	}
	return r, nil
}

// Register registers a factory under the name of the calculator it builds
func (r *Registry) Register(factory Factory) error {
	if factory == nil {
		return fmt.Errorf("factory cannot be nil")
	}

	calc, err := factory()
	if err != nil {
		return fmt.Errorf("failed to build calculator: %w", err)
	}

	name := calc.Name()
	if name == "" {
		return fmt.Errorf("calculator name cannot be empty")
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.factories[name]; exists {
		return fmt.Errorf("%q: %w", name, errDuplicateCalculator)
	}

	r.factories[name] = factory
	return nil
}

// Get builds a new calculator by name
func (r *Registry) Get(name string) (Calculator, error) {
	r.mu.RLock()
	factory, exists := r.factories[name]
	r.mu.RUnlock()

	if !exists {
		return nil, fmt.Errorf("calculator %q not found", name)
	}

	return factory()
}

// NewAll builds one calculator per registered name, ordered by name
func (r *Registry) NewAll() ([]Calculator, error) {
	names := r.List()
	calcs := make([]Calculator, 0, len(names))
	for _, name := range names {
		calc, err := r.Get(name)
		if err != nil {
			return nil, err
		}
		calcs = append(calcs, calc)
	}
	return calcs, nil
}

// List returns the sorted names of all registered calculators
func (r *Registry) List() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()

	names := make([]string, 0, len(r.factories))
	for name := range r.factories {
		names = append(names, name)
	}
	sort.Strings(names)

	return names
}

// Unregister removes a factory from the registry
func (r *Registry) Unregister(name string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.factories[name]; !exists {
		return fmt.Errorf("calculator %q not found", name)
	}

	delete(r.factories, name)
	return nil
}
