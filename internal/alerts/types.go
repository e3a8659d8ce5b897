package alerts

import "time"

// Task type constants
const (
	TaskPasswordReset     = "email:password_reset"
	TaskWithdrawalSettled = "email:withdrawal_settled"
)

// Common envelope for email notifications
type EmailEnvelope struct {
	To      string `json:"to"`
	Subject string `json:"subject"`
	Body    string `json:"body"`
}

// Password reset payload
type PasswordResetPayload struct {
	UserID    string        `json:"user_id"`
	Email     string        `json:"email"`
	ResetURL  string        `json:"reset_url"`
	Envelope  EmailEnvelope `json:"envelope"`
	Requested time.Time     `json:"requested"`
}

// Withdrawal settled payload
type WithdrawalSettledPayload struct {
	UserID   string        `json:"user_id"`
	Email    string        `json:"email"`
	Amount   int64         `json:"amount"`
	Envelope EmailEnvelope `json:"envelope"`
	SentAt   time.Time     `json:"sent_at"`
}
