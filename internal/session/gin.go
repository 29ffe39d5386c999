package session

import (
	"fmt"

	"github.com/gin-contrib/sessions"
	"github.com/gin-gonic/gin"

	"authgate/internal/domain"
)

const (
	keyUserID   = "user_id"
	keyUserName = "user_name"
)

// ginManager adapts the cookie session of a single request to Manager.
type ginManager struct {
	s sessions.Session
}

// FromContext returns the Manager backed by the request's cookie session.
// The sessions middleware must be installed on the router.
func FromContext(c *gin.Context) Manager {
	return &ginManager{s: sessions.Default(c)}
}

func (m *ginManager) Start(id domain.Identity) error {
	m.s.Set(keyUserID, id.UserID)
	m.s.Set(keyUserName, id.Name)
	if err := m.s.Save(); err != nil {
		return fmt.Errorf("save session: %w", err)
	}
	return nil
}

func (m *ginManager) Current() (domain.Identity, bool) {
	userID, ok := m.s.Get(keyUserID).(int64)
	if !ok {
		return domain.Identity{}, false
	}
	name, _ := m.s.Get(keyUserName).(string)
	return domain.Identity{UserID: userID, Name: name}, true
}

func (m *ginManager) End() error {
	m.s.Clear()
	if err := m.s.Save(); err != nil {
		return fmt.Errorf("clear session: %w", err)
	}
	return nil
}
