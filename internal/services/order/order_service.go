package order

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"

	"github.com/nastyazhadan/restaurant-order/internal/domain/models"
	repositoryErrors "github.com/nastyazhadan/restaurant-order/shared/errors/repository"
	serviceErrors "github.com/nastyazhadan/restaurant-order/shared/errors/service"
	zapLogger "github.com/nastyazhadan/restaurant-order/shared/logger/zap"
)

type Service struct {
	resolver  *Resolver
	writer    Writer
	publisher Publisher
	tracer    trace.Tracer
	source    string
	now       func() time.Time
}

type Writer interface {
	SaveOrder(ctx context.Context, order models.Order) (models.Order, error)
}

type Publisher interface {
	PublishOrderCreated(ctx context.Context, event models.OrderCreatedEvent) error
}

func NewService(resolver *Resolver, w Writer, p Publisher, tracer trace.Tracer, source string) *Service {
	return &Service{
		resolver:  resolver,
		writer:    w,
		publisher: p,
		tracer:    tracer,
		source:    source,
		now:       time.Now,
	}
}

// CreateOrder prices the request against the catalog and persists it.
// Nothing is written when pricing fails.
func (s *Service) CreateOrder(ctx context.Context, request models.PlaceOrder) (models.Order, error) {
	const op = "Service.CreateOrder"

	ctx, span := s.tracer.Start(ctx, op, trace.WithAttributes(
		attribute.String("order.location_id", request.LocationID),
		attribute.String("order.type", string(request.Type)),
		attribute.Int("order.lines", len(request.Items)),
	))
	defer span.End()

	pricing, err := s.resolver.Resolve(ctx, request)
	if err != nil {
		span.SetStatus(codes.Error, err.Error())
		return models.Order{}, fmt.Errorf("%s: %w", op, err)
	}

	order, err := s.saveOrder(ctx, request, pricing)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return models.Order{}, fmt.Errorf("%s: %w", op, err)
	}

	span.SetAttributes(
		attribute.String("order.id", order.ID.String()),
		attribute.String("order.total", order.Total.StringFixed(2)),
	)

	s.publish(ctx, order)

	return order, nil
}

// saveAttempts bounds how many fresh order numbers are tried when the
// writer reports a duplicate.
const saveAttempts = 3

func (s *Service) saveOrder(ctx context.Context, request models.PlaceOrder, pricing Pricing) (models.Order, error) {
	var (
		saved models.Order
		err   error
	)

	for attempt := 1; attempt <= saveAttempts; attempt++ {
		saved, err = s.writer.SaveOrder(ctx, s.newOrder(request, pricing))
		if !errors.Is(err, repositoryErrors.ErrOrderAlreadyExists) {
			break
		}

		zapLogger.Warn(ctx, "order number already taken, retrying with a new one", zap.Int("attempt", attempt))
	}

	if err != nil {
		if errors.Is(err, repositoryErrors.ErrOrderAlreadyExists) {
			return models.Order{}, serviceErrors.ErrOrderAlreadyExists
		}

		return models.Order{}, fmt.Errorf("%w: %w", serviceErrors.ErrOrderCreationFailed, err)
	}

	if !saved.ItemsPersisted {
		zapLogger.Error(ctx, "order header stored without its items",
			zap.String("order_id", saved.ID.String()),
			zap.String("order_number", saved.OrderNumber),
			zap.Int("lines", len(saved.Items)),
		)
	}

	return saved, nil
}

// newOrder assigns a fresh id and order number on every call.
func (s *Service) newOrder(request models.PlaceOrder, pricing Pricing) models.Order {
	orderID := uuid.New()
	createdAt := s.now().UTC()

	deliveryAddress, deliveryCity := request.Customer.DeliveryAddress, request.Customer.DeliveryCity
	if request.Type != models.OrderTypeDelivery {
		deliveryAddress, deliveryCity = nil, nil
	}

	return models.Order{
		ID:              orderID,
		OrderNumber:     OrderNumber(orderID, createdAt),
		LocationID:      pricing.Location.ID,
		Type:            request.Type,
		Status:          models.OrderStatusPending,
		CustomerName:    request.Customer.Name,
		CustomerPhone:   request.Customer.Phone,
		CustomerEmail:   request.Customer.Email,
		DeliveryAddress: deliveryAddress,
		DeliveryCity:    deliveryCity,
		Notes:           request.Customer.Notes,
		Subtotal:        pricing.Subtotal,
		DeliveryFee:     pricing.DeliveryFee,
		Total:           pricing.Total,
		Source:          s.source,
		CreatedAt:       createdAt,
		Items:           pricing.Items,
	}
}

func (s *Service) publish(ctx context.Context, order models.Order) {
	if err := s.publisher.PublishOrderCreated(ctx, models.NewOrderCreatedEvent(order)); err != nil {
		zapLogger.Warn(ctx, "failed to publish order created event",
			zap.String("order_id", order.ID.String()),
			zap.Error(err),
		)
	}
}
