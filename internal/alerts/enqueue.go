package alerts

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/hibiken/asynq"
)

// ensureClient returns a usable client instance
func ensureClient() *asynq.Client {
	if client == nil {
		Init()
	}
	return client
}

// EnqueuePasswordReset schedules the reset-link email.
func EnqueuePasswordReset(userID, email, resetURL, username string) error {
	subject := "Password reset"
	body := fmt.Sprintf("Hi %s,\n\nReset your PeerFund password using the link below:\n%s\n\nIf you did not request this, ignore this email.", username, resetURL)

	payload := PasswordResetPayload{
		UserID:    userID,
		Email:     email,
		ResetURL:  resetURL,
		Envelope:  EmailEnvelope{To: email, Subject: subject, Body: body},
		Requested: time.Now(),
	}
	b, _ := json.Marshal(payload)
	task := asynq.NewTask(TaskPasswordReset, b)
	_, err := ensureClient().Enqueue(task, asynq.Queue("emails"))
	return err
}

// EnqueueWithdrawalSettled schedules the disbursement notice.
func EnqueueWithdrawalSettled(userID, email, username string, amount int64) error {
	subject := "Your withdrawal has been processed"
	body := fmt.Sprintf("Hi %s,\n\nYour withdrawal of %d has been disbursed to your bank account on file.", username, amount)

	payload := WithdrawalSettledPayload{
		UserID:   userID,
		Email:    email,
		Amount:   amount,
		Envelope: EmailEnvelope{To: email, Subject: subject, Body: body},
		SentAt:   time.Now(),
	}
	b, _ := json.Marshal(payload)
	task := asynq.NewTask(TaskWithdrawalSettled, b)
	_, err := ensureClient().Enqueue(task, asynq.Queue("emails"))
	return err
}
