package common

import (
	"errors"
	"sync"
)

// ErrModulePaused is returned when a guarded operation hits a paused module.
var ErrModulePaused = errors.New("module paused")

// PauseView reports whether a module is currently paused by the operator.
type PauseView interface {
	IsPaused(module string) bool
}

// Guard returns ErrModulePaused when the view marks the module paused. Nil
// views and empty module names pass.
func Guard(p PauseView, module string) error {
	if p == nil || module == "" {
		return nil
	}
	if p.IsPaused(module) {
		return ErrModulePaused
	}
	return nil
}

// PauseSet is a concurrency-safe PauseView operators toggle at runtime.
type PauseSet struct {
	mu     sync.RWMutex
	paused map[string]struct{}
}

// NewPauseSet returns an empty pause set; nothing is paused.
func NewPauseSet() *PauseSet {
	return &PauseSet{paused: make(map[string]struct{})}
}

// Pause marks the module paused.
func (p *PauseSet) Pause(module string) {
	if p == nil || module == "" {
		return
	}
	p.mu.Lock()
	p.paused[module] = struct{}{}
	p.mu.Unlock()
}

// Resume clears the module's pause flag.
func (p *PauseSet) Resume(module string) {
	if p == nil || module == "" {
		return
	}
	p.mu.Lock()
	delete(p.paused, module)
	p.mu.Unlock()
}

// IsPaused implements PauseView.
func (p *PauseSet) IsPaused(module string) bool {
	if p == nil {
		return false
	}
	p.mu.RLock()
	_, ok := p.paused[module]
	p.mu.RUnlock()
	return ok
}
