package worker

import (
	"context"
	"encoding/json"
	"time"

	"github.com/datb2404981/Chat-Nexa/internal/entity"
	"github.com/datb2404981/Chat-Nexa/internal/queue"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog/log"
)

const dlqCollection = "dead_jobs"

// StartDLQWorker drains dead-lettered jobs into Mongo so failures survive a
// Redis restart and can be inspected later.
func (wp *WorkerPool) StartDLQWorker(ctx context.Context) {
	wp.wg.Add(1)
	go func() {
		defer wp.wg.Done()

		log.Info().Msg("DLQ worker started")
		for {
			select {
			case <-ctx.Done():
				log.Info().Msg("DLQ worker stopping")
				return
			default:
				result, err := wp.Redis.BLPop(ctx, 10*time.Second, dlqKey).Result()
				if err == redis.Nil {
					continue
				} else if err != nil {
					log.Error().Err(err).Msg("DLQWorker pop failed")
					continue
				}

				payload := result[1]
				var job queue.Job
				if err := json.Unmarshal([]byte(payload), &job); err != nil {
					log.Warn().Err(err).Msg("DLQWorker invalid job payload")
					continue
				}

				log.Error().
					Str("job_id", job.ID).
					Str("type", job.Type).
					Str("error", job.ErrorMsg).
					Msg("DLQ job detected")

				doc := entity.DLQJob{
					JobID:    job.ID,
					Type:     job.Type,
					Payload:  job.Payload,
					ErrorMsg: job.ErrorMsg,
					Retries:  job.Retry,
					FailedAt: time.Now().UTC(),
				}

				collection := wp.Mongo.Database(wp.MongoDB).Collection(dlqCollection)
				if _, err := collection.InsertOne(ctx, doc); err != nil {
					log.Error().Err(err).Msg("Failed to persist DLQ job to MongoDB")

					// fallback: put back so nothing is lost
					wp.Redis.RPush(ctx, dlqKey, payload)
				}
			}
		}
	}()
}
