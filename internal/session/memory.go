package session

import "authgate/internal/domain"

// Memory is an in-process Manager used by tests and anywhere a transport
// session is not available.
type Memory struct {
	id     domain.Identity
	active bool
}

func NewMemory() *Memory {
	return &Memory{}
}

func (m *Memory) Start(id domain.Identity) error {
	m.id = id
	m.active = true
	return nil
}

func (m *Memory) Current() (domain.Identity, bool) {
	if !m.active {
		return domain.Identity{}, false
	}
	return m.id, true
}

func (m *Memory) End() error {
	m.id = domain.Identity{}
	m.active = false
	return nil
}
