package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestPolicy_Validate(t *testing.T) {
	assert.NoError(t, DefaultPolicy().Validate())

	tests := []struct {
		name   string
		mutate func(*Policy)
	}{
		{"empty role", func(p *Policy) { p.RoleName = "" }},
		{"empty entity", func(p *Policy) { p.EntityName = "" }},
		{"empty attribute", func(p *Policy) { p.ProtectedAttribute = "" }},
		{"empty secret attribute", func(p *Policy) { p.SecretAttribute = "" }},
		{"empty placeholder", func(p *Policy) { p.Placeholder = "" }},
		{"same attributes", func(p *Policy) { p.SecretAttribute = p.ProtectedAttribute }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := DefaultPolicy()
			tt.mutate(&p)
			assert.ErrorIs(t, p.Validate(), ErrInvalidInput)
		})
	}
}

func TestPolicy_Notification(t *testing.T) {
	n := DefaultPolicy().Notification("alice")

	assert.Equal(t, AppNotification{
		Recipient: "alice",
		Title:     "Sensitive Data Filtering",
		Body:      "You do not have rights to filter Sensitive Data!",
		IconType:  100000000,
		ToastType: 200000000,
	}, n)
}

func TestIdentity_Validate(t *testing.T) {
	assert.NoError(t, Identity("alice").Validate())
	assert.ErrorIs(t, Identity("").Validate(), ErrInvalidInput)
	assert.ErrorIs(t, Identity(" \t").Validate(), ErrInvalidInput)
}
