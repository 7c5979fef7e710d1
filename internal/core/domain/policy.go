package domain

import "fmt"

// Option set values understood by the host's app notification API
const (
	IconTypeInfo   = 100000000
	ToastTypeTimed = 200000000
)

// Policy names the protected role, entity and attribute together with the
// texts used when a filter is stripped.
type Policy struct {
	RoleName           string `json:"role_name"`
	EntityName         string `json:"entity_name"`
	ProtectedAttribute string `json:"protected_attribute"`
	SecretAttribute    string `json:"secret_attribute"`
	Placeholder        string `json:"placeholder"`
	NotificationTitle  string `json:"notification_title"`
	NotificationBody   string `json:"notification_body"`
	IconType           int    `json:"icon_type"`
	ToastType          int    `json:"toast_type"`
}

// DefaultPolicy returns the sensitive field policy for accounts
func DefaultPolicy() Policy {
	return Policy{
		RoleName:           "Sensitive Data",
		EntityName:         "account",
		ProtectedAttribute: "vlj_sensitivefield",
		SecretAttribute:    "vlj_secret",
		Placeholder:        "*",
		NotificationTitle:  "Sensitive Data Filtering",
		NotificationBody:   "You do not have rights to filter Sensitive Data!",
		IconType:           IconTypeInfo,
		ToastType:          ToastTypeTimed,
	}
}

// Validate checks that the policy is complete
func (p Policy) Validate() error {
	required := map[string]string{
		"role name":           p.RoleName,
		"entity name":         p.EntityName,
		"protected attribute": p.ProtectedAttribute,
		"secret attribute":    p.SecretAttribute,
		"placeholder":         p.Placeholder,
	}
	for name, value := range required {
		if value == "" {
			return fmt.Errorf("%w: policy %s cannot be empty", ErrInvalidInput, name)
		}
	}
	if p.ProtectedAttribute == p.SecretAttribute {
		return fmt.Errorf("%w: protected attribute and secret attribute must differ", ErrInvalidInput)
	}
	return nil
}

// Notification builds the app notification sent when a filter was stripped
func (p Policy) Notification(recipient Identity) AppNotification {
	return AppNotification{
		Recipient: recipient,
		Title:     p.NotificationTitle,
		Body:      p.NotificationBody,
		IconType:  p.IconType,
		ToastType: p.ToastType,
	}
}
