// Package telemetry implements the write-only widget containers that
// controller factories populate, and an HTTP server that publishes them.
package telemetry

import (
	"math"
	"sync"

	"golang.org/x/time/rate"
)

// Layout is a named group of widgets. It satisfies swerve.Container.
type Layout struct {
	name string

	mu       sync.Mutex
	order    []string
	numbers  map[string]func() float64
	strings  map[string]func() string
	children []*Layout

	limiter *rate.Limiter
	cached  *Snapshot
}

// Snapshot is one sample of every widget in a layout tree.
type Snapshot struct {
	Name     string             `json:"name"`
	Numbers  map[string]float64 `json:"numbers,omitempty"`
	Strings  map[string]string  `json:"strings,omitempty"`
	Children []Snapshot         `json:"children,omitempty"`
}

// NewLayout returns an empty layout whose Snapshot samples the widgets at
// most hz times per second. hz <= 0 samples on every call.
func NewLayout(name string, hz float64) *Layout {
	l := &Layout{
		name:    name,
		numbers: make(map[string]func() float64),
		strings: make(map[string]func() string),
	}
	if hz > 0 {
		l.limiter = rate.NewLimiter(rate.Limit(hz), 1)
	}
	return l
}

func (l *Layout) Name() string { return l.name }

func (l *Layout) AddNumber(name string, supplier func() float64) {
	l.mu.Lock()
	defer l.mu.Unlock()
	if _, ok := l.numbers[name]; !ok {
		l.order = append(l.order, name)
	}
	l.numbers[name] = supplier
}

func (l *Layout) AddString(name string, supplier func() string) {
	l.mu.Lock()
	defer l.mu.Unlock()
	if _, ok := l.strings[name]; !ok {
		l.order = append(l.order, name)
	}
	l.strings[name] = supplier
}

// Layout returns the child layout with the given name, creating it if needed.
func (l *Layout) Layout(name string) *Layout {
	l.mu.Lock()
	defer l.mu.Unlock()
	for _, c := range l.children {
		if c.name == name {
			return c
		}
	}
	c := NewLayout(name, 0)
	l.children = append(l.children, c)
	return c
}

// Child returns the child layout with the given name, if any.
func (l *Layout) Child(name string) (*Layout, bool) {
	l.mu.Lock()
	defer l.mu.Unlock()
	for _, c := range l.children {
		if c.name == name {
			return c, true
		}
	}
	return nil, false
}

// Widgets lists widget names in registration order.
func (l *Layout) Widgets() []string {
	l.mu.Lock()
	defer l.mu.Unlock()
	out := make([]string, len(l.order))
	copy(out, l.order)
	return out
}

// Snapshot samples the layout and its children. Between samples allowed by
// the rate limit the previous snapshot is returned.
func (l *Layout) Snapshot() Snapshot {
	l.mu.Lock()
	if l.limiter != nil && !l.limiter.Allow() && l.cached != nil {
		s := *l.cached
		l.mu.Unlock()
		return s
	}
	l.mu.Unlock()

	s := l.sample()

	l.mu.Lock()
	l.cached = &s
	l.mu.Unlock()
	return s
}

func (l *Layout) sample() Snapshot {
	l.mu.Lock()
	numbers := make(map[string]func() float64, len(l.numbers))
	for k, v := range l.numbers {
		numbers[k] = v
	}
	strs := make(map[string]func() string, len(l.strings))
	for k, v := range l.strings {
		strs[k] = v
	}
	children := append([]*Layout(nil), l.children...)
	l.mu.Unlock()

	// Suppliers run without the lock held; they read controllers.
	s := Snapshot{Name: l.name}
	if len(numbers) > 0 {
		s.Numbers = make(map[string]float64, len(numbers))
		for k, f := range numbers {
			v := f()
			if math.IsNaN(v) || math.IsInf(v, 0) {
				v = 0
			}
			s.Numbers[k] = v
		}
	}
	if len(strs) > 0 {
		s.Strings = make(map[string]string, len(strs))
		for k, f := range strs {
			s.Strings[k] = f()
		}
	}
	for _, c := range children {
		s.Children = append(s.Children, c.sample())
	}
	return s
}
