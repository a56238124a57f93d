package tasks_test

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"testing"

	"github.com/hibiken/asynq"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	"github.com/karanxa1/trade-mart/internal/config"
	"github.com/karanxa1/trade-mart/internal/tasks"
)

// MockEmailSender
type MockEmailSender struct {
	mock.Mock
}

func (m *MockEmailSender) Send(ctx context.Context, to []string, subject string, rawMessage []byte) error {
	args := m.Called(ctx, to, subject, rawMessage)
	return args.Error(0)
}

func TestHandleEmailDeliveryTask_Success(t *testing.T) {
	mockEmailSender := new(MockEmailSender)
	cfg := &config.Config{SmtpFromAddress: "noreply@trademart.example.com"}
	p := tasks.NewTaskProcessor(cfg, mockEmailSender)

	payloadBytes, _ := json.Marshal(tasks.EmailTaskPayload{
		To:      "buyer@example.com",
		Subject: "Order TM202601151234 update",
		Body:    "Order TM202601151234 is now shipped.",
	})
	task := asynq.NewTask(tasks.TypeEmailDelivery, payloadBytes)

	mockEmailSender.On("Send",
		mock.Anything,
		[]string{"buyer@example.com"},
		"Order TM202601151234 update",
		mock.MatchedBy(func(rawMsg []byte) bool {
			msgStr := string(rawMsg)
			assert.Contains(t, msgStr, "To: buyer@example.com")
			assert.Contains(t, msgStr, fmt.Sprintf("From: %s", cfg.SmtpFromAddress))
			assert.Contains(t, msgStr, "Subject: Order TM202601151234 update")
			assert.Contains(t, msgStr, "is now shipped")
			return true
		}),
	).Return(nil)

	err := p.HandleEmailDeliveryTask(context.Background(), task)

	assert.NoError(t, err)
	mockEmailSender.AssertExpectations(t)
}

func TestHandleEmailDeliveryTask_BadPayloadSkipsRetry(t *testing.T) {
	mockEmailSender := new(MockEmailSender)
	p := tasks.NewTaskProcessor(&config.Config{}, mockEmailSender)

	task := asynq.NewTask(tasks.TypeEmailDelivery, []byte("not json"))

	err := p.HandleEmailDeliveryTask(context.Background(), task)

	assert.Error(t, err)
	assert.True(t, errors.Is(err, asynq.SkipRetry), "a malformed payload must not be retried")
	mockEmailSender.AssertNotCalled(t, "Send", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func TestHandleEmailDeliveryTask_SendFailureRetries(t *testing.T) {
	mockEmailSender := new(MockEmailSender)
	p := tasks.NewTaskProcessor(&config.Config{}, mockEmailSender)

	payloadBytes, _ := json.Marshal(tasks.EmailTaskPayload{
		To:      "buyer@example.com",
		Subject: "x",
		Body:    "y",
	})
	task := asynq.NewTask(tasks.TypeEmailDelivery, payloadBytes)

	mockEmailSender.On("Send", mock.Anything, mock.Anything, mock.Anything, mock.Anything).Return(assert.AnError)

	err := p.HandleEmailDeliveryTask(context.Background(), task)

	assert.Error(t, err)
	assert.False(t, errors.Is(err, asynq.SkipRetry), "transient send failures stay retryable")
	mockEmailSender.AssertExpectations(t)
}
