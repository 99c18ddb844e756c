package services

import (
	"context"
	"encoding/hex"

	"github.com/ArowuTest/fundme-backend/internal/metrics"
	"github.com/ArowuTest/fundme-backend/internal/models"
	"github.com/ArowuTest/fundme-backend/internal/repositories"
	evbus "github.com/asaskevich/EventBus"
	"go.uber.org/zap"
	"golang.org/x/crypto/sha3"
)

// topicAllEvents receives every contract event regardless of name
const topicAllEvents = "contract:*"

// EventPublisher is what contracts use to emit events
type EventPublisher interface {
	Emit(ctx context.Context, event *models.ContractEvent)
}

// EventService fans contract events out over an in-process bus and records them
type EventService struct {
	bus     evbus.Bus
	repo    repositories.EventRepository
	metrics *metrics.Collector
	logger  *zap.SugaredLogger
}

var _ EventPublisher = (*EventService)(nil)

// NewEventService creates an EventService; collector may be nil
func NewEventService(repo repositories.EventRepository, collector *metrics.Collector, logger *zap.SugaredLogger) *EventService {
	if logger == nil {
		logger = zap.NewNop().Sugar()
	}
	s := &EventService{
		bus:     evbus.New(),
		repo:    repo,
		metrics: collector,
		logger:  logger,
	}
	// synchronous so an event is queryable as soon as Emit returns
	if err := s.bus.Subscribe(topicAllEvents, s.record); err != nil {
		logger.Errorw("Failed to subscribe event recorder", "error", err)
	}
	return s
}

// TopicHash returns the 0x-prefixed keccak256 hash of an event signature
func TopicHash(signature string) string {
	h := sha3.NewLegacyKeccak256()
	h.Write([]byte(signature))
	return "0x" + hex.EncodeToString(h.Sum(nil))
}

// Emit stamps the topic hash and publishes the event
func (s *EventService) Emit(ctx context.Context, event *models.ContractEvent) {
	event.Topic = TopicHash(event.Signature)
	s.bus.Publish(topicAllEvents, ctx, event)
	s.bus.Publish(event.Name, ctx, event)
}

// Subscribe registers fn for events with the given name
func (s *EventService) Subscribe(name string, fn func(context.Context, *models.ContractEvent)) error {
	return s.bus.Subscribe(name, fn)
}

// Unsubscribe removes a handler added with Subscribe
func (s *EventService) Unsubscribe(name string, fn func(context.Context, *models.ContractEvent)) error {
	return s.bus.Unsubscribe(name, fn)
}

func (s *EventService) record(ctx context.Context, event *models.ContractEvent) {
	s.metrics.ObserveEvent(event.Name)
	if err := s.repo.Create(context.WithoutCancel(ctx), event); err != nil {
		s.logger.Errorw("Failed to record contract event", "error", err, "contract", event.Contract, "event", event.Name)
		return
	}
	s.logger.Debugw("Contract event", "contract", event.Contract, "event", event.Name, "topic", event.Topic, "indexed", event.Indexed)
}

// ListEvents lists recorded events; empty contract or name matches all
func (s *EventService) ListEvents(ctx context.Context, contract, name string, page, limit int) ([]*models.ContractEvent, error) {
	return s.repo.FindAll(ctx, contract, name, page, limit)
}
