package worker

import (
	"context"
	"fmt"

	"github.com/datb2404981/Chat-Nexa/internal/queue"
	"github.com/datb2404981/Chat-Nexa/internal/websocket"
	worker_handler "github.com/datb2404981/Chat-Nexa/internal/worker/worker-handler"
	"github.com/redis/go-redis/v9"
)

func HandleJob(ctx context.Context, job queue.Job, redis *redis.Client, ws *websocket.Hub) error {
	workerHandler := worker_handler.NewWorkerHandler(ctx, redis, ws)
	switch job.Type {
	case queue.JobNotifyUser:
		return workerHandler.HandleNotifyUser(job.Payload)
	default:
		return fmt.Errorf("unknown job type: %s", job.Type)
	}
}
