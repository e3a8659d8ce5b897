package alerts

import (
	"context"
	"encoding/json"
	"os"

	"github.com/hibiken/asynq"
	log "github.com/sirupsen/logrus"
)

var (
	client *asynq.Client
	server *asynq.Server
)

// Init starts the Asynq server and initializes a shared client.
func Init() {
	redisAddr := os.Getenv("REDIS_ADDR")
	if redisAddr == "" {
		host := os.Getenv("REDIS_HOST")
		if host == "" {
			host = "127.0.0.1"
		}
		port := os.Getenv("REDIS_PORT")
		if port == "" {
			port = "6379"
		}
		redisAddr = host + ":" + port
	}

	opts := asynq.RedisClientOpt{Addr: redisAddr}
	client = asynq.NewClient(opts)

	mux := asynq.NewServeMux()
	mux.HandleFunc(TaskPasswordReset, handlePasswordReset)
	mux.HandleFunc(TaskWithdrawalSettled, handleWithdrawalSettled)

	server = asynq.NewServer(opts, asynq.Config{
		Concurrency: 5,
		Queues: map[string]int{
			"emails": 10,
		},
	})
	go func() {
		if err := server.Run(mux); err != nil {
			log.WithError(err).Warn("asynq server stopped")
		}
	}()

	log.WithField("addr", redisAddr).Info("asynq initialized")
}

// Close releases client and stops server.
func Close() {
	if client != nil {
		_ = client.Close()
	}
	if server != nil {
		server.Shutdown()
	}
}

func handlePasswordReset(_ context.Context, t *asynq.Task) error {
	var p PasswordResetPayload
	if err := json.Unmarshal(t.Payload(), &p); err != nil {
		return err
	}
	if err := SendEmail(p.Email, p.Envelope.Subject, p.Envelope.Body); err != nil {
		log.WithError(err).Error("password reset email send failed")
		return err
	}
	log.WithField("to", p.Email).Info("password reset email sent")
	return nil
}

func handleWithdrawalSettled(_ context.Context, t *asynq.Task) error {
	var p WithdrawalSettledPayload
	if err := json.Unmarshal(t.Payload(), &p); err != nil {
		return err
	}
	if err := SendEmail(p.Email, p.Envelope.Subject, p.Envelope.Body); err != nil {
		log.WithError(err).Error("withdrawal settled email send failed")
		return err
	}
	log.WithFields(log.Fields{"to": p.Email, "amount": p.Amount}).Info("withdrawal settled email sent")
	return nil
}
