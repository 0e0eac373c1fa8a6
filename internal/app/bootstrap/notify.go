package bootstrap

import (
	"strings"

	"github.com/aws/aws-sdk-go-v2/aws"

	appconfig "github.com/wolfman30/inkstudio-ai/internal/config"
	"github.com/wolfman30/inkstudio-ai/internal/notify"
	"github.com/wolfman30/inkstudio-ai/pkg/logging"
)

// BuildNotifier wires booking notifications. It returns nil when neither an
// email recipient nor an events queue is configured.
func BuildNotifier(cfg *appconfig.Config, awsCfg *aws.Config, logger *logging.Logger) *notify.AppointmentNotifier {
	if cfg == nil {
		return nil
	}
	if logger == nil {
		logger = logging.Default()
	}

	to := notify.ParseRecipients(cfg.NotifyEmailTo)
	queueURL := strings.TrimSpace(cfg.AppointmentEventsQueueURL)
	if len(to) == 0 && queueURL == "" {
		return nil
	}

	var email notify.EmailSender
	if len(to) > 0 {
		email = buildEmailSender(cfg, awsCfg, logger)
	}

	var events notify.EventPublisher
	if queueURL != "" {
		if awsCfg == nil {
			logger.Warn("appointment events queue configured without aws config; events disabled")
		} else {
			events = notify.NewSQSEventPublisher(newSQSClient(cfg, *awsCfg), queueURL)
			logger.Info("appointment events enabled", "queue_url", queueURL)
		}
	}

	return notify.NewAppointmentNotifier(email, to, events, logger)
}

func buildEmailSender(cfg *appconfig.Config, awsCfg *aws.Config, logger *logging.Logger) notify.EmailSender {
	from := notify.Mailbox{Name: cfg.SendGridFromName, Email: cfg.SendGridFromEmail}
	if sender := notify.NewSendGridSender(cfg.SendGridAPIKey, from, logger); sender != nil {
		logger.Info("appointment email via sendgrid")
		return sender
	}
	if strings.TrimSpace(cfg.SESFromEmail) != "" && awsCfg != nil {
		logger.Info("appointment email via ses")
		from.Email = cfg.SESFromEmail
		return notify.NewSESSender(newSESClient(cfg, *awsCfg), from, logger)
	}
	logger.Warn("no email provider configured; appointment emails are logged only")
	return notify.NewStubEmailSender(logger)
}
