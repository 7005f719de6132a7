package notification

import (
	"context"
	"errors"
	"fmt"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/ses"
	"github.com/aws/aws-sdk-go-v2/service/ses/types"
	"github.com/aws/aws-sdk-go-v2/service/sns"
)

// SESAPI is the subset of the SES client used here.
type SESAPI interface {
	SendEmail(ctx context.Context, params *ses.SendEmailInput, optFns ...func(*ses.Options)) (*ses.SendEmailOutput, error)
}

// SNSAPI is the subset of the SNS client used here.
type SNSAPI interface {
	Publish(ctx context.Context, params *sns.PublishInput, optFns ...func(*sns.Options)) (*sns.PublishOutput, error)
}

// SESNotifier emails Message.Destination through Amazon SES.
type SESNotifier struct {
	client SESAPI
	sender string
}

// NewSESNotifier builds an SES notifier from an AWS config.
func NewSESNotifier(cfg aws.Config, sender string) *SESNotifier {
	return NewSESNotifierWithClient(ses.NewFromConfig(cfg), sender)
}

// NewSESNotifierWithClient is NewSESNotifier with an explicit client.
func NewSESNotifierWithClient(client SESAPI, sender string) *SESNotifier {
	return &SESNotifier{client: client, sender: sender}
}

// Send implements Notifier.
func (n *SESNotifier) Send(ctx context.Context, message Message) error {
	if message.Destination == "" {
		return errors.New("ses: message has no destination")
	}
	_, err := n.client.SendEmail(ctx, &ses.SendEmailInput{
		Destination: &types.Destination{
			ToAddresses: []string{message.Destination},
		},
		Message: &types.Message{
			Subject: &types.Content{Data: aws.String(message.Subject)},
			Body: &types.Body{
				Text: &types.Content{Data: aws.String(message.Body)},
			},
		},
		Source: aws.String(n.sender),
	})
	if err != nil {
		return fmt.Errorf("ses send %s: %w", message.Kind, err)
	}
	return nil
}

// SNSNotifier publishes messages to a single SNS topic watched by the team.
type SNSNotifier struct {
	client   SNSAPI
	topicARN string
}

// NewSNSNotifier builds an SNS notifier from an AWS config.
func NewSNSNotifier(cfg aws.Config, topicARN string) *SNSNotifier {
	return NewSNSNotifierWithClient(sns.NewFromConfig(cfg), topicARN)
}

// NewSNSNotifierWithClient is NewSNSNotifier with an explicit client.
func NewSNSNotifierWithClient(client SNSAPI, topicARN string) *SNSNotifier {
	return &SNSNotifier{client: client, topicARN: topicARN}
}

// Send implements Notifier.
func (n *SNSNotifier) Send(ctx context.Context, message Message) error {
	_, err := n.client.Publish(ctx, &sns.PublishInput{
		TopicArn: aws.String(n.topicARN),
		Subject:  aws.String(message.Subject),
		Message:  aws.String(message.Body),
	})
	if err != nil {
		return fmt.Errorf("sns publish %s: %w", message.Kind, err)
	}
	return nil
}
