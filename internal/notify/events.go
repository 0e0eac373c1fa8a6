package notify

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/sqs"
	"github.com/aws/aws-sdk-go-v2/service/sqs/types"
	"github.com/wolfman30/inkstudio-ai/internal/appointments"
)

// EventAppointmentCreated is the type of the event published after a booking
// is confirmed.
const EventAppointmentCreated = "appointment.created"

// AppointmentEvent is the JSON body published to the events queue.
type AppointmentEvent struct {
	Type        string                    `json:"type"`
	OccurredAt  time.Time                 `json:"occurred_at"`
	Appointment appointments.Appointment `json:"appointment"`
}

// EventPublisher publishes appointment events.
type EventPublisher interface {
	Publish(ctx context.Context, evt AppointmentEvent) error
}

type sqsAPI interface {
	SendMessage(ctx context.Context, params *sqs.SendMessageInput, optFns ...func(*sqs.Options)) (*sqs.SendMessageOutput, error)
}

// SQSEventPublisher sends events to an SQS queue.
type SQSEventPublisher struct {
	client   sqsAPI
	queueURL string
}

func NewSQSEventPublisher(client sqsAPI, queueURL string) *SQSEventPublisher {
	if client == nil {
		panic("notify: SQS client cannot be nil")
	}
	if queueURL == "" {
		panic("notify: SQS queueURL cannot be empty")
	}
	return &SQSEventPublisher{client: client, queueURL: queueURL}
}

func (p *SQSEventPublisher) Publish(ctx context.Context, evt AppointmentEvent) error {
	body, err := json.Marshal(evt)
	if err != nil {
		return fmt.Errorf("notify: marshal event: %w", err)
	}
	_, err = p.client.SendMessage(ctx, &sqs.SendMessageInput{
		QueueUrl:    aws.String(p.queueURL),
		MessageBody: aws.String(string(body)),
		MessageAttributes: map[string]types.MessageAttributeValue{
			"event_type": {DataType: aws.String("String"), StringValue: aws.String(evt.Type)},
		},
	})
	if err != nil {
		return fmt.Errorf("notify: failed to send SQS message: %w", err)
	}
	return nil
}

var _ EventPublisher = (*SQSEventPublisher)(nil)
