// internal/notify/notify.go
package notify

import (
	"context"
	"fmt"

	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/ses"
	sestypes "github.com/aws/aws-sdk-go-v2/service/ses/types"
	"github.com/aws/aws-sdk-go-v2/service/sns"

	"ambit-engine/internal/common/config"
	apperrors "ambit-engine/internal/common/errors"
	"ambit-engine/internal/common/logger"
)

// Notifier delivers operational messages: support-contact emails via SES and
// ingest run summaries via SNS. When disabled it logs and drops everything,
// so local runs need no AWS credentials.
type Notifier struct {
	cfg    config.NotificationConfig
	ses    *ses.Client
	sns    *sns.Client
	logger logger.Logger
}

func New(ctx context.Context, cfg config.NotificationConfig, log logger.Logger) (*Notifier, error) {
	n := &Notifier{
		cfg:    cfg,
		logger: log.WithFields(map[string]interface{}{"component": "notifier"}),
	}
	if !cfg.Enabled {
		return n, nil
	}

	awsCfg, err := awsconfig.LoadDefaultConfig(ctx, awsconfig.WithRegion(cfg.Region))
	if err != nil {
		return nil, fmt.Errorf("load aws config: %w", err)
	}
	n.ses = ses.NewFromConfig(awsCfg)
	n.sns = sns.NewFromConfig(awsCfg)
	return n, nil
}

// SendSupportEmail forwards a support-contact submission to the support inbox.
func (n *Notifier) SendSupportEmail(ctx context.Context, fromName, replyTo, subject, body string) error {
	if n.ses == nil {
		n.logger.Info("notifications disabled, dropping support email", map[string]interface{}{
			"subject": subject,
		})
		return nil
	}

	message := fmt.Sprintf("From: %s <%s>\n\n%s", fromName, replyTo, body)
	_, err := n.ses.SendEmail(ctx, &ses.SendEmailInput{
		Source:           strPtr(n.cfg.FromEmail),
		ReplyToAddresses: []string{replyTo},
		Destination: &sestypes.Destination{
			ToAddresses: []string{n.cfg.SupportEmail},
		},
		Message: &sestypes.Message{
			Subject: &sestypes.Content{Data: strPtr(subject)},
			Body: &sestypes.Body{
				Text: &sestypes.Content{Data: strPtr(message)},
			},
		},
	})
	if err != nil {
		return apperrors.NewNotificationSendFailedError(err)
	}
	return nil
}

// PublishIngestSummary posts an ingest run report to the admin topic.
func (n *Notifier) PublishIngestSummary(ctx context.Context, summary string) error {
	if n.sns == nil || n.cfg.TopicARN == "" {
		n.logger.Info("notifications disabled, dropping ingest summary", map[string]interface{}{
			"summary": summary,
		})
		return nil
	}

	_, err := n.sns.Publish(ctx, &sns.PublishInput{
		TopicArn: strPtr(n.cfg.TopicARN),
		Subject:  strPtr("Opportunity ingest run"),
		Message:  strPtr(summary),
	})
	if err != nil {
		return apperrors.NewNotificationSendFailedError(err)
	}
	return nil
}

func strPtr(s string) *string { return &s }
