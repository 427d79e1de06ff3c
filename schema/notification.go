package schema

// Notification is a message for a requester or a mobile device.
type Notification struct {
	To          string         `json:"to"`
	Subject     string         `json:"subject"`
	Body        map[string]any `json:"body"`
	Attachments []string       `json:"attachments,omitempty"`
}
