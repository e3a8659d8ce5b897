package withdraw

import "time"

// Request is a user's pending withdrawal. At most one exists per user.
type Request struct {
	UserID    string    `json:"userId"`
	Amount    int64     `json:"amount"`
	Status    string    `json:"status"`
	CreatedAt time.Time `json:"createdAt"`
}
