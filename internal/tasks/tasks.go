package tasks

import (
	"context"
	"encoding/json"
	"fmt"
	"log"

	"github.com/google/uuid"
	"github.com/hibiken/asynq"
	"github.com/redis/go-redis/v9"

	"github.com/karanxa1/trade-mart/internal/config"
	"github.com/karanxa1/trade-mart/internal/email"
)

// TaskType defines the type of a background task.
const (
	TypeEmailDelivery = "email:deliver"
)

// EmailTaskPayload is the payload of an email delivery task.
type EmailTaskPayload struct {
	To      string `json:"to"`
	Subject string `json:"subject"`
	Body    string `json:"body"`
}

// --- Task Client (Enqueuing tasks) ---

func NewClient(rdb *redis.Client) *asynq.Client {
	clientOpt := asynq.RedisClientOpt{
		Addr:     rdb.Options().Addr,
		Password: rdb.Options().Password,
		DB:       rdb.Options().DB,
	}
	return asynq.NewClient(clientOpt)
}

// NotificationEnqueuer implements services.Notifier by enqueuing email
// delivery tasks. Task IDs are random UUIDs so repeated notifications are
// never deduplicated away.
type NotificationEnqueuer struct {
	client *asynq.Client
	cfg    *config.Config
}

// NewNotificationEnqueuer creates a NotificationEnqueuer.
func NewNotificationEnqueuer(client *asynq.Client, cfg *config.Config) *NotificationEnqueuer {
	return &NotificationEnqueuer{client: client, cfg: cfg}
}

func (n *NotificationEnqueuer) enqueueEmail(ctx context.Context, to, subject, body string) error {
	payload, err := json.Marshal(EmailTaskPayload{To: to, Subject: subject, Body: body})
	if err != nil {
		return fmt.Errorf("failed to marshal email payload: %w", err)
	}
	task := asynq.NewTask(TypeEmailDelivery, payload)
	info, err := n.client.EnqueueContext(ctx, task,
		asynq.TaskID(uuid.NewString()),
		asynq.Queue("default"),
		asynq.MaxRetry(5))
	if err != nil {
		return fmt.Errorf("failed to enqueue email task: %w", err)
	}
	log.Printf("Enqueued email task %s (To: %s, Subject: %s)", info.ID, to, subject)
	return nil
}

// NotifyOfferDecision emails a buyer about the seller's decision.
func (n *NotificationEnqueuer) NotifyOfferDecision(ctx context.Context, recipientEmail, listingName, decision string, price float64) error {
	subject := fmt.Sprintf("%s: your offer on %q was %sed", n.cfg.AppName, listingName, decision)
	body := fmt.Sprintf("Your offer of %.2f on %q has been %sed by the seller.\n", price, listingName, decision)
	return n.enqueueEmail(ctx, recipientEmail, subject, body)
}

// NotifyTrackingUpdate emails a buyer about an order tracking transition.
func (n *NotificationEnqueuer) NotifyTrackingUpdate(ctx context.Context, recipientEmail, trackingRef, status, description string) error {
	subject := fmt.Sprintf("%s: order %s update", n.cfg.AppName, trackingRef)
	body := fmt.Sprintf("Order %s is now %s.\n\n%s\n", trackingRef, status, description)
	return n.enqueueEmail(ctx, recipientEmail, subject, body)
}

// --- Task Server (Processing tasks) ---

// TaskProcessor handles the processing of tasks. It holds the dependencies
// needed by task handlers.
type TaskProcessor struct {
	cfg         *config.Config
	emailSender email.Sender
}

func NewTaskProcessor(cfg *config.Config, emailSender email.Sender) *TaskProcessor {
	return &TaskProcessor{cfg: cfg, emailSender: emailSender}
}

// NewServer configures an Asynq server with the processor's handlers
// registered. The caller runs it.
func NewServer(rdb *redis.Client, processor *TaskProcessor) (*asynq.Server, *asynq.ServeMux) {
	serverOpt := asynq.RedisClientOpt{
		Addr:     rdb.Options().Addr,
		Password: rdb.Options().Password,
		DB:       rdb.Options().DB,
	}

	srv := asynq.NewServer(
		serverOpt,
		asynq.Config{
			Queues: map[string]int{
				"critical": 6,
				"default":  3,
				"low":      1,
			},
			ErrorHandler: asynq.ErrorHandlerFunc(func(ctx context.Context, task *asynq.Task, err error) {
				log.Printf("[Asynq Error] Task Type: %s, Payload: %s, Error: %v", task.Type(), string(task.Payload()), err)
			}),
		},
	)

	mux := asynq.NewServeMux()
	mux.HandleFunc(TypeEmailDelivery, processor.HandleEmailDeliveryTask)

	return srv, mux
}

// HandleEmailDeliveryTask renders and sends one notification email.
func (p *TaskProcessor) HandleEmailDeliveryTask(ctx context.Context, t *asynq.Task) error {
	var payload EmailTaskPayload
	if err := json.Unmarshal(t.Payload(), &payload); err != nil {
		return fmt.Errorf("failed to unmarshal email task payload: %v: %w", err, asynq.SkipRetry)
	}

	fromAddress := p.cfg.SmtpFromAddress
	rawMessage := email.BuildMessage(fromAddress, payload.To, payload.Subject, payload.Body)

	if err := p.emailSender.Send(ctx, []string{payload.To}, payload.Subject, rawMessage); err != nil {
		log.Printf("Email sending failed for %s (will retry): %v", payload.To, err)
		return err
	}

	log.Printf("Email task processed: To=%s, Subject=%s", payload.To, payload.Subject)
	return nil
}
