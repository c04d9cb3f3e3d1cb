package utils

import (
	"sync"
)

// OptionalLock is a reader/writer lock that can be switched off for owners that were created
// externally synchronized. The zero value is disabled; call Init before sharing the owner.
type OptionalLock struct {
	mutex   sync.RWMutex
	enabled bool
}

func (l *OptionalLock) Init(enabled bool) {
	l.enabled = enabled
}

func (l *OptionalLock) Enabled() bool {
	return l.enabled
}

func (l *OptionalLock) Lock() {
	if l.enabled {
		l.mutex.Lock()
	}
}

func (l *OptionalLock) Unlock() {
	if l.enabled {
		l.mutex.Unlock()
	}
}

func (l *OptionalLock) RLock() {
	if l.enabled {
		l.mutex.RLock()
	}
}

func (l *OptionalLock) RUnlock() {
	if l.enabled {
		l.mutex.RUnlock()
	}
}
