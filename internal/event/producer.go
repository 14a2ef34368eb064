// Package event publishes KitchenSync domain events to Kafka. Publishing
// is best-effort: the HTTP path never fails because a broker is down, and
// a nil producer disables publishing entirely.
package event

import (
	"context"
	"fmt"
	"log/slog"
	"strconv"
	"time"

	"github.com/Jomkit/KitchenSync/internal/availability"
	"github.com/Jomkit/KitchenSync/internal/domain"
	pkgkafka "github.com/Jomkit/KitchenSync/pkg/kafka"
)

// Kafka topics for KitchenSync domain events.
var (
	TopicReservationCreated   = pkgkafka.Topic("reservation", "created")
	TopicReservationCommitted = pkgkafka.Topic("reservation", "committed")
	TopicReservationReleased  = pkgkafka.Topic("reservation", "released")
	TopicReservationExpired   = pkgkafka.Topic("reservation", "expired")
	TopicIngredientUpdated    = pkgkafka.Topic("ingredient", "updated")
	TopicIngredientLowStock   = pkgkafka.Topic("ingredient", "low_stock")
)

// Aggregate type constants.
const (
	AggregateTypeReservation = "reservation"
	AggregateTypeIngredient  = "ingredient"
)

// Source identifier for events originating from this service.
const SourceKitchenSync = "kitchensync"

// ReservationEventData is the payload for reservation lifecycle events.
type ReservationEventData struct {
	ReservationID int64  `json:"reservation_id"`
	UserID        int64  `json:"user_id"`
	Status        string `json:"status"`
	ExpiresAt     string `json:"expires_at"`
}

// IngredientUpdatedData is the payload for an ingredient.updated event.
type IngredientUpdatedData struct {
	IngredientID int64  `json:"ingredient_id"`
	Name         string `json:"name"`
	OnHandQty    int    `json:"on_hand_qty"`
	IsOut        bool   `json:"is_out"`
}

// IngredientLowStockData is the payload for an ingredient.low_stock event.
type IngredientLowStockData struct {
	IngredientID         int64  `json:"ingredient_id"`
	Name                 string `json:"name"`
	AvailableQty         int    `json:"available_qty"`
	LowStockThresholdQty int    `json:"low_stock_threshold_qty"`
}

// Producer publishes KitchenSync domain events to Kafka. A nil Producer
// or one constructed without a Kafka client is a no-op.
type Producer struct {
	kafka  *pkgkafka.Producer
	logger *slog.Logger
}

// NewProducer creates a new event producer. kafka may be nil when event
// publishing is disabled.
func NewProducer(kafka *pkgkafka.Producer, logger *slog.Logger) *Producer {
	return &Producer{
		kafka:  kafka,
		logger: logger,
	}
}

func (p *Producer) enabled() bool {
	return p != nil && p.kafka != nil
}

func (p *Producer) publishReservation(ctx context.Context, topic string, res *domain.Reservation) error {
	if !p.enabled() {
		return nil
	}

	data := ReservationEventData{
		ReservationID: res.ID,
		UserID:        res.UserID,
		Status:        res.Status,
		ExpiresAt:     res.ExpiresAt.UTC().Format(time.RFC3339),
	}

	aggregateID := strconv.FormatInt(res.ID, 10)
	event, err := pkgkafka.NewEvent(topic, aggregateID, AggregateTypeReservation, SourceKitchenSync, data)
	if err != nil {
		return fmt.Errorf("create %s event: %w", topic, err)
	}

	if err := p.kafka.Publish(ctx, topic, event); err != nil {
		return fmt.Errorf("publish %s event: %w", topic, err)
	}

	p.logger.DebugContext(ctx, "published reservation event",
		slog.String("topic", topic),
		slog.Int64("reservation_id", res.ID),
		slog.String("status", res.Status),
	)

	return nil
}

// PublishReservationCreated publishes a reservation.created event.
func (p *Producer) PublishReservationCreated(ctx context.Context, res *domain.Reservation) error {
	return p.publishReservation(ctx, TopicReservationCreated, res)
}

// PublishReservationCommitted publishes a reservation.committed event.
func (p *Producer) PublishReservationCommitted(ctx context.Context, res *domain.Reservation) error {
	return p.publishReservation(ctx, TopicReservationCommitted, res)
}

// PublishReservationReleased publishes a reservation.released event.
func (p *Producer) PublishReservationReleased(ctx context.Context, res *domain.Reservation) error {
	return p.publishReservation(ctx, TopicReservationReleased, res)
}

// PublishReservationExpired publishes a reservation.expired event.
func (p *Producer) PublishReservationExpired(ctx context.Context, res *domain.Reservation) error {
	return p.publishReservation(ctx, TopicReservationExpired, res)
}

// PublishIngredientUpdated publishes an ingredient.updated event after a
// kitchen stock change.
func (p *Producer) PublishIngredientUpdated(ctx context.Context, ing *domain.Ingredient) error {
	if !p.enabled() {
		return nil
	}

	data := IngredientUpdatedData{
		IngredientID: ing.ID,
		Name:         ing.Name,
		OnHandQty:    ing.OnHandQty,
		IsOut:        ing.IsOut,
	}

	aggregateID := strconv.FormatInt(ing.ID, 10)
	event, err := pkgkafka.NewEvent(TopicIngredientUpdated, aggregateID, AggregateTypeIngredient, SourceKitchenSync, data)
	if err != nil {
		return fmt.Errorf("create ingredient.updated event: %w", err)
	}

	if err := p.kafka.Publish(ctx, TopicIngredientUpdated, event); err != nil {
		return fmt.Errorf("publish ingredient.updated event: %w", err)
	}

	p.logger.DebugContext(ctx, "published ingredient.updated event",
		slog.Int64("ingredient_id", ing.ID),
		slog.Int("on_hand_qty", ing.OnHandQty),
	)

	return nil
}

// PublishIngredientLowStock publishes an ingredient.low_stock event for a
// projected ingredient row that has crossed its threshold.
func (p *Producer) PublishIngredientLowStock(ctx context.Context, row *availability.IngredientRow) error {
	if !p.enabled() {
		return nil
	}

	data := IngredientLowStockData{
		IngredientID:         row.ID,
		Name:                 row.Name,
		AvailableQty:         row.AvailableQty,
		LowStockThresholdQty: row.LowStockThresholdQty,
	}

	aggregateID := strconv.FormatInt(row.ID, 10)
	event, err := pkgkafka.NewEvent(TopicIngredientLowStock, aggregateID, AggregateTypeIngredient, SourceKitchenSync, data)
	if err != nil {
		return fmt.Errorf("create ingredient.low_stock event: %w", err)
	}

	if err := p.kafka.Publish(ctx, TopicIngredientLowStock, event); err != nil {
		return fmt.Errorf("publish ingredient.low_stock event: %w", err)
	}

	p.logger.DebugContext(ctx, "published ingredient.low_stock event",
		slog.Int64("ingredient_id", row.ID),
		slog.Int("available_qty", row.AvailableQty),
	)

	return nil
}
