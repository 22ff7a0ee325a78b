package job

import (
	"context"
	"time"

	"github.com/JosephChoi/investment-report-sub001/internal/config"
	"github.com/JosephChoi/investment-report-sub001/internal/infrastructure/mq"
	"github.com/JosephChoi/investment-report-sub001/internal/logging"
	"github.com/JosephChoi/investment-report-sub001/internal/model"
	"github.com/JosephChoi/investment-report-sub001/internal/repository"

	"github.com/sirupsen/logrus"
	"gorm.io/gorm"
)

// OutboxSender drains pending outbox rows into Kafka. Upload events are
// written to the outbox inside the upload transaction, so the broker being
// down never fails an upload.
type OutboxSender struct {
	outboxRepo *repository.OutboxRepository
	cfg        *config.Config
	log        *logrus.Logger
	stopCh     chan struct{}
	interval   time.Duration
	batchSize  int
}

func NewOutboxSender(db *gorm.DB, cfg *config.Config) *OutboxSender {
	return &OutboxSender{
		outboxRepo: repository.NewOutboxRepository(db),
		cfg:        cfg,
		log:        logging.GetLogger(),
		stopCh:     make(chan struct{}),
		interval:   time.Second,
		batchSize:  100,
	}
}

func (s *OutboxSender) Start(ctx context.Context) {
	s.log.Info("outbox sender started")

	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			s.log.Info("outbox sender stopping: context cancelled")
			return
		case <-s.stopCh:
			s.log.Info("outbox sender stopped")
			return
		case <-ticker.C:
			s.processPendingMessages(ctx)
		}
	}
}

func (s *OutboxSender) Stop() {
	close(s.stopCh)
}

func (s *OutboxSender) processPendingMessages(ctx context.Context) {
	messages, err := s.outboxRepo.GetPendingMessages(ctx, s.batchSize)
	if err != nil {
		s.log.Errorf("outbox sender: load pending messages: %v", err)
		return
	}

	for _, msg := range messages {
		s.sendMessage(ctx, msg)
	}
}

func (s *OutboxSender) sendMessage(ctx context.Context, msg *model.OutboxMessage) {
	err := mq.SendMessage(msg.Topic, msg.MessageKey, msg.Payload)

	if err == nil {
		if updateErr := s.outboxRepo.UpdateStatus(ctx, msg.ID, model.OutboxStatusSent); updateErr != nil {
			s.log.Errorf("outbox sender: mark sent id=%d: %v", msg.ID, updateErr)
		}
		return
	}

	s.log.Warnf("outbox sender: send id=%d topic=%s: %v", msg.ID, msg.Topic, err)

	if err := s.outboxRepo.IncrementRetryCount(ctx, msg.ID); err != nil {
		s.log.Errorf("outbox sender: bump retry id=%d: %v", msg.ID, err)
	}

	if msg.RetryCount+1 >= s.cfg.Business.MaxRetryCount {
		if err := s.outboxRepo.MarkAsFailed(ctx, msg.ID); err != nil {
			s.log.Errorf("outbox sender: mark failed id=%d: %v", msg.ID, err)
		} else {
			s.log.Warnf("outbox sender: id=%d exceeded max retries, marked failed", msg.ID)
		}
	}
}
