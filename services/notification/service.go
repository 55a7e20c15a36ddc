package notifsvc

import (
	"fmt"
	"net/mail"

	"github.com/google/uuid"
	"github.com/pkg/errors"

	"github.com/kwanza/kocha/core"
)

type service struct {
	mailSvc core.EmailService
	logger  core.Logger
}

var _ core.NotificationService = (*service)(nil)

func NewService(mailSvc core.EmailService, logger core.Logger) core.NotificationService {
	return &service{mailSvc: mailSvc, logger: logger}
}

func (svc *service) Notify(n core.Notification) core.NotificationResult {
	if n.Recipient == "" {
		return core.NotificationResult{Err: errors.New("notification has no recipient")}
	}

	switch n.Channel {
	case core.ChannelEmail:
		return svc.notifyEmail(n)
	case core.ChannelSMS:
		return svc.notifySMS(n)
	}
	return core.NotificationResult{Err: errors.Errorf("unknown notification channel %q", n.Channel)}
}

func (svc *service) notifyEmail(n core.Notification) core.NotificationResult {
	svc.mailSvc.SendMessages(&core.EmailMessage{
		To:           []mail.Address{{Address: n.Recipient}},
		Subject:      "Absence notification",
		TemplateName: n.TemplateName,
		TemplateData: n.TemplateData,
	})
	return core.NotificationResult{Success: true, MessageID: uuid.New().String()}
}

// notifySMS logs the message instead of dispatching it; an SMS gateway can be
// plugged in behind the same interface later.
func (svc *service) notifySMS(n core.Notification) core.NotificationResult {
	svc.logger.Info(fmt.Sprintf("SMS to %s: %s", n.Recipient, n.TemplateName), n.TemplateData)
	return core.NotificationResult{Success: true, MessageID: uuid.New().String()}
}
