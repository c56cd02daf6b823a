package queue

import "encoding/json"

// NotifyUserPayload asks the worker to push one event to every live device
// of a user. Used for account-level events where cross-event ordering does
// not matter.
type NotifyUserPayload struct {
	UserID string          `json:"user_id"`
	Event  string          `json:"event"`
	Data   json.RawMessage `json:"data"`
}

// NewNotifyUserJob wraps an event for a single user into a queue job.
func NewNotifyUserJob(userID, event string, data any, priority int) Job {
	return NewJob(JobNotifyUser, NotifyUserPayload{
		UserID: userID,
		Event:  event,
		Data:   MustMarshal(data),
	}, priority)
}
