package worker

import (
	"context"
	"strconv"
	"sync"
	"time"

	"github.com/sirupsen/logrus"

	"lireddit/internal/queue"
)

// Used for zero ManagerConfig fields.
const (
	DefaultWorkerCount  = 2
	DefaultBatchSize    = 10
	DefaultBlockTimeout = 5 * time.Second
)

// EventHandler processes a single queued event.
type EventHandler interface {
	HandleEvent(ctx context.Context, event queue.MailEvent) error
}

// Manager runs worker goroutines consuming the mail stream.
type Manager struct {
	consumer    queue.Consumer
	handler     EventHandler
	workerCount int
	batchSize   int64
	blockTime   time.Duration

	wg     sync.WaitGroup
	ctx    context.Context
	cancel context.CancelFunc
}

// ManagerConfig tunes the mail workers.
type ManagerConfig struct {
	WorkerCount  int
	BatchSize    int64         // XREADGROUP COUNT
	BlockTimeout time.Duration // XREADGROUP BLOCK
}

func DefaultManagerConfig() ManagerConfig {
	return ManagerConfig{
		WorkerCount:  DefaultWorkerCount,
		BatchSize:    DefaultBatchSize,
		BlockTimeout: DefaultBlockTimeout,
	}
}

// NewManager creates a new worker manager. Zero config fields take defaults.
func NewManager(consumer queue.Consumer, handler EventHandler, cfg ManagerConfig) *Manager {
	if cfg.WorkerCount <= 0 {
		cfg.WorkerCount = DefaultWorkerCount
	}
	if cfg.BatchSize <= 0 {
		cfg.BatchSize = DefaultBatchSize
	}
	if cfg.BlockTimeout <= 0 {
		cfg.BlockTimeout = DefaultBlockTimeout
	}

	return &Manager{
		consumer:    consumer,
		handler:     handler,
		workerCount: cfg.WorkerCount,
		batchSize:   cfg.BatchSize,
		blockTime:   cfg.BlockTimeout,
	}
}

// Start ensures the consumer group exists and launches the workers.
// Call Stop to shut them down.
func (m *Manager) Start(ctx context.Context) error {
	m.ctx, m.cancel = context.WithCancel(ctx)

	if err := m.consumer.EnsureGroup(m.ctx, queue.StreamMail, queue.ConsumerGroupMail); err != nil {
		return err
	}

	for i := 0; i < m.workerCount; i++ {
		workerID := i + 1
		m.wg.Add(1)
		go m.runWorker(workerID, consumerNameForWorker(workerID))
	}

	logrus.WithFields(logrus.Fields{
		"workers": m.workerCount,
		"stream":  queue.StreamMail,
		"group":   queue.ConsumerGroupMail,
	}).Info("[Manager] Workers started")
	return nil
}

// Stop cancels the workers and blocks until they have all returned.
func (m *Manager) Stop() {
	logrus.Info("[Manager] Stopping workers...")
	m.cancel()
	m.wg.Wait()
	logrus.Info("[Manager] All workers stopped")
}

func (m *Manager) runWorker(workerID int, consumerName string) {
	defer m.wg.Done()
	log := logrus.WithField("worker", workerID)

	log.WithField("consumer", consumerName).Debug("[Worker] Started")

	// crash recovery: finish what this consumer had in flight
	m.processPending(workerID, consumerName)

	for {
		select {
		case <-m.ctx.Done():
			log.Debug("[Worker] Shutting down")
			return
		default:
			m.processMessages(workerID, consumerName)
		}
	}
}

func (m *Manager) processPending(workerID int, consumerName string) {
	for {
		messages, err := m.consumer.ReadPending(m.ctx, queue.StreamMail, queue.ConsumerGroupMail, consumerName, m.batchSize)
		if err != nil {
			logrus.WithError(err).WithField("worker", workerID).Error("[Worker] Error reading pending")
			return
		}
		if len(messages) == 0 {
			return
		}

		logrus.WithFields(logrus.Fields{"worker": workerID, "count": len(messages)}).Info("[Worker] Processing pending messages")
		m.handleMessages(workerID, messages)
	}
}

func (m *Manager) processMessages(workerID int, consumerName string) {
	messages, err := m.consumer.Read(
		m.ctx,
		queue.StreamMail,
		queue.ConsumerGroupMail,
		consumerName,
		m.batchSize,
		m.blockTime,
	)
	if err != nil {
		if m.ctx.Err() != nil {
			return
		}
		logrus.WithError(err).WithField("worker", workerID).Error("[Worker] Error reading")
		time.Sleep(time.Second)
		return
	}

	m.handleMessages(workerID, messages)
}

// handleMessages processes a batch and acknowledges every message, failed or not.
func (m *Manager) handleMessages(workerID int, messages []queue.Message) {
	for _, msg := range messages {
		log := logrus.WithFields(logrus.Fields{"worker": workerID, "msg_id": msg.ID})

		if err := m.handler.HandleEvent(m.ctx, msg.Event); err != nil {
			// acked anyway so a bad message cannot loop forever
			log.WithError(err).Error("[Worker] Handler error")
		}

		// a message that was handled is acked even when shutdown has begun
		if err := m.consumer.Ack(context.WithoutCancel(m.ctx), queue.StreamMail, queue.ConsumerGroupMail, msg.ID); err != nil {
			log.WithError(err).Error("[Worker] ACK error")
		}
	}
}

func consumerNameForWorker(workerID int) string {
	return "worker-" + strconv.Itoa(workerID)
}
