package queue

import (
	"context"
	"errors"
	"reflect"
	"testing"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/sqs"
)

func TestMessageRoundTrip(t *testing.T) {
	msg := Message{
		Type:        TypeBatchCompleted,
		RunID:       "run-123",
		SessionID:   "session-456",
		RecordCount: 42,
		MeanSalary:  71500.5,
		RequestID:   "request-789",
		EnqueuedAt:  "2026-01-30T22:00:00Z",
		Version:     MessageVersion,
	}

	payload, err := EncodeMessage(msg)
	if err != nil {
		t.Fatalf("encode message: %v", err)
	}

	got, err := DecodeMessage(payload)
	if err != nil {
		t.Fatalf("decode message: %v", err)
	}

	if !reflect.DeepEqual(got, msg) {
		t.Fatalf("round trip mismatch: got %+v want %+v", got, msg)
	}
}

type fakeSQS struct {
	input *sqs.SendMessageInput
	err   error
}

func (f *fakeSQS) SendMessage(ctx context.Context, params *sqs.SendMessageInput, optFns ...func(*sqs.Options)) (*sqs.SendMessageOutput, error) {
	f.input = params
	return &sqs.SendMessageOutput{}, f.err
}

func TestSQSClientSend(t *testing.T) {
	fake := &fakeSQS{}
	c := &SQSClient{client: fake, queueURL: "https://sqs.example/queue"}

	if err := c.Send(context.Background(), Message{Type: TypeBatchCompleted, RunID: "run-1"}); err != nil {
		t.Fatalf("Send: %v", err)
	}
	if aws.ToString(fake.input.QueueUrl) != "https://sqs.example/queue" {
		t.Fatalf("queue url = %q", aws.ToString(fake.input.QueueUrl))
	}
	attr := fake.input.MessageAttributes["type"]
	if aws.ToString(attr.StringValue) != TypeBatchCompleted {
		t.Fatalf("type attribute = %q", aws.ToString(attr.StringValue))
	}
	msg, err := DecodeMessage([]byte(aws.ToString(fake.input.MessageBody)))
	if err != nil || msg.RunID != "run-1" {
		t.Fatalf("body = %q (%v)", aws.ToString(fake.input.MessageBody), err)
	}

	fake.err = errors.New("throttled")
	if err := c.Send(context.Background(), Message{}); err == nil {
		t.Fatal("expected send error")
	}
}

func TestMemoryClient(t *testing.T) {
	var m MemoryClient
	_ = m.Send(context.Background(), Message{RunID: "a"})
	_ = m.Send(context.Background(), Message{RunID: "b"})
	if sent := m.Sent(); len(sent) != 2 || sent[1].RunID != "b" {
		t.Fatalf("sent = %+v", sent)
	}
}
