package core

// Notification channels.
const (
	ChannelEmail = "EMAIL"
	ChannelSMS   = "SMS"
)

type (
	// Notification is one message to one recipient over one channel.
	// Recipient is an email address for ChannelEmail and a phone number for
	// ChannelSMS.
	Notification struct {
		Channel      string
		Recipient    string
		TemplateName string
		TemplateData interface{}
	}

	NotificationResult struct {
		Success   bool
		MessageID string
		Err       error
	}

	// NotificationService delivers notifications best-effort: a failed
	// delivery is reported in the result, never as a service error.
	NotificationService interface {
		Notify(n Notification) NotificationResult
	}
)
