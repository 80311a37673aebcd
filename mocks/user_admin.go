package mocks

import (
	"context"
	"strings"

	"github.com/hivelock/chatadmin"
)

// UserAdmin records user operations and answers with canned results.
type UserAdmin struct {
	Err     error
	Profile map[string]interface{}
	Summary *chatadmin.NotificationSummary

	Calls []string
}

func NewUserAdmin() *UserAdmin {
	return &UserAdmin{
		Profile: map[string]interface{}{"username": "jane"},
		Summary: &chatadmin.NotificationSummary{Alert: true, Unread: 3},
	}
}

func (m *UserAdmin) Create(ctx context.Context, email, fullname, password string) (string, error) {
	m.Calls = append(m.Calls, strings.Join([]string{"create", email, fullname}, " "))
	if m.Err != nil {
		return "", m.Err
	}
	return "user-1", nil
}

func (m *UserAdmin) Update(ctx context.Context, userID string, fields map[string]interface{}) error {
	m.Calls = append(m.Calls, "update "+userID)
	return m.Err
}

func (m *UserAdmin) Logout(ctx context.Context, userID string) error {
	m.Calls = append(m.Calls, "logout "+userID)
	return m.Err
}

func (m *UserAdmin) AboutMe(ctx context.Context, userID string) (map[string]interface{}, error) {
	m.Calls = append(m.Calls, "aboutMe "+userID)
	if m.Err != nil {
		return nil, m.Err
	}
	return m.Profile, nil
}

func (m *UserAdmin) Notifications(ctx context.Context, userID string) (*chatadmin.NotificationSummary, error) {
	m.Calls = append(m.Calls, "notifications "+userID)
	if m.Err != nil {
		return nil, m.Err
	}
	return m.Summary, nil
}
