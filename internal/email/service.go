package email

import (
	"context"
	"fmt"

	"gopkg.in/gomail.v2"

	"github.com/codehercare/clinic-api/internal/config"
	"github.com/codehercare/clinic-api/internal/model"
)

// Notifier sends the high-risk alert mail to the configured clinical
// contact.
type Notifier struct {
	dialer    *gomail.Dialer
	from      string
	recipient string
}

// NewNotifier returns nil when alerting is disabled; callers treat a nil
// notifier as a no-op.
func NewNotifier(cfg *config.AlertConfig) *Notifier {
	if cfg == nil || !cfg.Enabled {
		return nil
	}
	return &Notifier{
		dialer:    gomail.NewDialer(cfg.SMTPHost, cfg.SMTPPort, cfg.SMTPUser, cfg.SMTPPass),
		from:      cfg.From,
		recipient: cfg.Recipient,
	}
}

func (n *Notifier) NotifyHighRisk(ctx context.Context, patient *model.Patient, assessment *model.RiskAssessment) error {
	m := gomail.NewMessage()
	m.SetHeader("From", n.from)
	m.SetHeader("To", n.recipient)
	m.SetHeader("Subject", fmt.Sprintf("High risk assessment for %s", patient.Name))
	m.SetBody("text/plain", fmt.Sprintf(
		"Patient %s (id %d) scored %.2f on assessment %d.\nRecommended action: %s\n",
		patient.Name, patient.ID, assessment.RiskScore, assessment.ID, assessment.RecommendedAction))

	if err := n.dialer.DialAndSend(m); err != nil {
		return fmt.Errorf("failed to send high risk alert: %w", err)
	}
	return nil
}
