package entity

import (
	"encoding/json"
	"time"

	"go.mongodb.org/mongo-driver/v2/bson"
)

// DLQJob is the audit record kept for jobs that exhausted their retries.
type DLQJob struct {
	ID       bson.ObjectID   `bson:"_id,omitempty" json:"id,omitempty"`
	JobID    string          `bson:"job_id" json:"job_id"`
	Type     string          `bson:"type" json:"type"`
	Payload  json.RawMessage `bson:"payload" json:"payload"`
	ErrorMsg string          `bson:"error_msg" json:"error_msg"`
	Retries  int             `bson:"retries" json:"retries"`
	FailedAt time.Time       `bson:"failed_at" json:"failed_at"`
}
