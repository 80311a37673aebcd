package users

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hivelock/chatadmin/translit"
)

func TestUsernameDerivation(t *testing.T) {
	tests := []struct {
		name     string
		fullname string
		email    string
		want     string
	}{
		{"plain ascii", "A B", "a.b@x.co", "A_B_a.b"},
		{"plain", "Jane Doe", "jane@example.com", "Jane_Doe_jane"},
		{"wildcard dot spans missing separator", "Jane Doe", "jane@mailco", "Jane_Doe_jane"},
		{"transliterated fullname", "Иван Петров", "ivan@firm.ru", "Ivan_Petrov_ivan"},
		{"double space keeps double underscore", "A  B", "a@x.co", "A__B_a"},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			got, err := Username(translit.Default(), tc.fullname, tc.email)
			require.NoError(t, err)
			assert.Equal(t, tc.want, got)
		})
	}
}

func TestUsernameDeterministic(t *testing.T) {
	first, err := Username(translit.Default(), "A B", "a.b@x.co")
	require.NoError(t, err)
	second, err := Username(translit.Default(), "A B", "a.b@x.co")
	require.NoError(t, err)
	assert.Equal(t, first, second)
}

func TestUsernameRejectsEmailWithoutDomain(t *testing.T) {
	_, err := Username(translit.Default(), "Jane Doe", "not-an-email")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "no @domain part")
}

func TestUsernameRemovesAllMatchOccurrences(t *testing.T) {
	// the matched substring is removed everywhere it appears, matching the
	// original replace semantics
	got, err := Username(translit.Default(), "A B", "a@x.co@x.co")
	require.NoError(t, err)
	assert.Equal(t, "A_B_a", got)
}
