package events

import (
	"context"
	"time"

	"crax/internal/models"
)

const (
	ActorSystem    = "system"
	ActorProcessor = "processor"
)

func (e *Emitter) Emit(evt models.Event) {
	evt.TimeStamp = time.Now().UTC()

	e.fanOut(evt)

	select {
	case e.buf <- evt:
	default:
		ctx, cancel := context.WithTimeout(
			context.Background(),
			2*time.Second,
		)
		defer cancel()

		_ = e.InsertOne(ctx, evt)
	}
}
