package notify

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/sqs"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/wolfman30/inkstudio-ai/internal/appointments"
)

type recordingSender struct {
	sent []EmailMessage
	err  error
}

func (r *recordingSender) Send(_ context.Context, msg EmailMessage) error {
	r.sent = append(r.sent, msg)
	return r.err
}

type mockSQS struct {
	inputs []*sqs.SendMessageInput
	err    error
}

func (m *mockSQS) SendMessage(_ context.Context, in *sqs.SendMessageInput, _ ...func(*sqs.Options)) (*sqs.SendMessageOutput, error) {
	m.inputs = append(m.inputs, in)
	if m.err != nil {
		return nil, m.err
	}
	return &sqs.SendMessageOutput{MessageId: aws.String("1")}, nil
}

func sampleAppointment() *appointments.Appointment {
	return &appointments.Appointment{
		ID:              7,
		Username:        "Alex",
		City:            "Austin",
		Description:     "japanese koi <forearm>",
		AppointmentDate: "2026-03-15",
		TattooType:      "japanese",
		CreatedAt:       "2026-03-14 15:04:05",
	}
}

func TestFormatAppointmentSummary(t *testing.T) {
	summary := FormatAppointmentSummary(sampleAppointment())
	assert.Contains(t, summary, "Client: Alex\n")
	assert.Contains(t, summary, "City: Austin\n")
	assert.Contains(t, summary, "Date: Sunday, March 15, 2026\n")
	assert.Contains(t, summary, "Style: Japanese\n")
	assert.Contains(t, summary, "Booked at: 2026-03-14 15:04:05\n")
}

func TestAppointmentNotifierSendsEmailAndEvent(t *testing.T) {
	sender := &recordingSender{}
	queue := &mockSQS{}
	n := NewAppointmentNotifier(sender, []string{"studio@example.com"}, NewSQSEventPublisher(queue, "https://sqs.local/q"), nil)
	n.now = func() time.Time { return time.Date(2026, 3, 14, 15, 4, 5, 0, time.UTC) }

	n.AppointmentConfirmed(context.Background(), sampleAppointment())

	require.Len(t, sender.sent, 1)
	assert.Equal(t, []string{"studio@example.com"}, sender.sent[0].To)
	assert.Equal(t, EventAppointmentCreated, sender.sent[0].Category)
	assert.Contains(t, sender.sent[0].Text, "Client: Alex")
	assert.Equal(t, "New tattoo appointment: Alex on 2026-03-15", sender.sent[0].Subject)
	assert.Contains(t, sender.sent[0].HTML, "japanese koi &lt;forearm&gt;")

	require.Len(t, queue.inputs, 1)
	assert.Equal(t, "https://sqs.local/q", aws.ToString(queue.inputs[0].QueueUrl))
	assert.Equal(t, EventAppointmentCreated, aws.ToString(queue.inputs[0].MessageAttributes["event_type"].StringValue))

	var evt AppointmentEvent
	require.NoError(t, json.Unmarshal([]byte(aws.ToString(queue.inputs[0].MessageBody)), &evt))
	assert.Equal(t, EventAppointmentCreated, evt.Type)
	assert.Equal(t, int64(7), evt.Appointment.ID)
	assert.Equal(t, "Austin", evt.Appointment.City)
}

func TestAppointmentNotifierSwallowsFailures(t *testing.T) {
	sender := &recordingSender{err: errors.New("smtp down")}
	queue := &mockSQS{err: errors.New("queue gone")}
	n := NewAppointmentNotifier(sender, []string{"studio@example.com"}, NewSQSEventPublisher(queue, "q"), nil)

	assert.NotPanics(t, func() { n.AppointmentConfirmed(context.Background(), sampleAppointment()) })
	assert.Len(t, sender.sent, 1)
	assert.Len(t, queue.inputs, 1)
}

func TestAppointmentNotifierSkipsEmailWithoutRecipient(t *testing.T) {
	sender := &recordingSender{}
	NewAppointmentNotifier(sender, ParseRecipients(" , "), nil, nil).AppointmentConfirmed(context.Background(), sampleAppointment())
	assert.Empty(t, sender.sent)

	var nilNotifier *AppointmentNotifier
	assert.NotPanics(t, func() { nilNotifier.AppointmentConfirmed(context.Background(), sampleAppointment()) })
}
