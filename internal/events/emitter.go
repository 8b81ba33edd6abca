package events

import (
	"context"
	"sync"
	"time"

	"crax/internal/models"

	"go.mongodb.org/mongo-driver/mongo"
)

var Em *Emitter

type Config struct {
	Buffer     int
	BatchSize  int
	FlushEvery time.Duration
}

var (
	defaultConfig = Config{
		Buffer:     1000,
		BatchSize:  50,
		FlushEvery: 2 * time.Second,
	}
	fastConfig = Config{
		Buffer:     1000,
		BatchSize:  50,
		FlushEvery: 50 * time.Millisecond,
	}
)

// Emitter batches audit events into Mongo and fans them out to in-process
// subscribers (the websocket stream).
type Emitter struct {
	coll       *mongo.Collection
	buf        chan models.Event
	cfg        Config
	deployment string

	wg        sync.WaitGroup
	onceClose sync.Once

	subMu   sync.Mutex
	subs    map[int]chan models.Event
	nextSub int

	InsertOne  func(context.Context, models.Event) error
	InsertMany func(context.Context, []models.Event) error
}

func NewEmitter(coll *mongo.Collection, deployment string) *Emitter {
	return NewEmitterWithConfig(coll, deployment, selectConfig(deployment))
}

func NewEmitterWithConfig(coll *mongo.Collection, deployment string, cfg Config) *Emitter {
	e := &Emitter{
		coll:       coll,
		buf:        make(chan models.Event, cfg.Buffer),
		cfg:        cfg,
		deployment: deployment,
		subs:       make(map[int]chan models.Event),
	}

	e.InsertOne = func(ctx context.Context, evt models.Event) error {
		_, err := e.coll.InsertOne(ctx, evt)
		return err
	}

	e.InsertMany = func(ctx context.Context, evts []models.Event) error {
		docs := make([]interface{}, len(evts))
		for i, evt := range evts {
			docs[i] = evt
		}

		_, err := e.coll.InsertMany(ctx, docs)
		return err
	}

	e.wg.Add(1)
	go e.worker()

	return e
}

func selectConfig(deployment string) Config {
	switch deployment {
	case "test":
		return fastConfig
	default:
		return defaultConfig
	}
}

// Subscribe registers a live event feed. The returned cancel func must be
// called when the consumer disconnects.
func (e *Emitter) Subscribe() (<-chan models.Event, func()) {
	e.subMu.Lock()
	defer e.subMu.Unlock()

	id := e.nextSub
	e.nextSub++

	ch := make(chan models.Event, 16)
	e.subs[id] = ch

	cancel := func() {
		e.subMu.Lock()
		defer e.subMu.Unlock()
		if sub, ok := e.subs[id]; ok {
			delete(e.subs, id)
			close(sub)
		}
	}

	return ch, cancel
}

// fanOut delivers an event to subscribers without ever blocking ingestion;
// slow consumers simply miss events.
func (e *Emitter) fanOut(evt models.Event) {
	e.subMu.Lock()
	defer e.subMu.Unlock()

	for _, sub := range e.subs {
		select {
		case sub <- evt:
		default:
		}
	}
}

func (e *Emitter) Close() {
	e.onceClose.Do(func() {
		close(e.buf)
		e.wg.Wait()
	})
}

func (e *Emitter) worker() {
	defer e.wg.Done()

	batch := make([]models.Event, 0, e.cfg.BatchSize)
	timer := time.NewTimer(e.cfg.FlushEvery)

	defer timer.Stop()

	flush := func() {
		if len(batch) == 0 {
			timer.Reset(e.cfg.FlushEvery)
			return
		}

		ctx, cancel := context.WithTimeout(
			context.Background(),
			2*time.Second,
		)

		_ = e.InsertMany(ctx, batch)

		cancel()

		batch = batch[:0]
		timer.Reset(e.cfg.FlushEvery)
	}

	for {
		select {
		case evt, ok := <-e.buf:
			if !ok {
				flush()
				return
			}

			batch = append(batch, evt)

			if len(batch) >= e.cfg.BatchSize {
				flush()
			}
		case <-timer.C:
			flush()
		}
	}
}
