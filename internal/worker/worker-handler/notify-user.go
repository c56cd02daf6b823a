package worker_handler

import (
	"encoding/json"
	"fmt"

	"github.com/datb2404981/Chat-Nexa/internal/queue"
)

// HandleNotifyUser pushes a queued account-level event to every live device
// of the target user. Offline users simply miss the push; their REST reads
// return the current state anyway.
func (wh *WorkerHandler) HandleNotifyUser(raw json.RawMessage) error {
	var payload queue.NotifyUserPayload

	if err := json.Unmarshal(raw, &payload); err != nil {
		return fmt.Errorf("invalid notify payload: %w", err)
	}
	if payload.UserID == "" || payload.Event == "" {
		return fmt.Errorf("notify payload missing user_id or event")
	}

	var data any
	if len(payload.Data) > 0 {
		if err := json.Unmarshal(payload.Data, &data); err != nil {
			return fmt.Errorf("invalid notify data: %w", err)
		}
	}

	wh.Ws.BroadcastToUser(payload.UserID, payload.Event, data)
	return nil
}
