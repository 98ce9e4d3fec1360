package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strconv"
	"strings"

	"github.com/ruralcart/order-relay/internal/metrics"
	"github.com/ruralcart/order-relay/internal/models"
	"github.com/ruralcart/order-relay/internal/whatsapp"
)

var (
	ErrEmptyOrder         = errors.New("order must contain at least one item")
	ErrInvalidQuantity    = errors.New("quantity must be positive")
	ErrInvalidPrice       = errors.New("price must not be negative")
	ErrInvalidName        = errors.New("item name must not be empty")
	ErrSessionUnavailable = errors.New("whatsapp client not ready")
)

// DeliveryError reports a send the gateway rejected or failed. Stage is
// "text" or "image".
type DeliveryError struct {
	Stage string
	Err   error
}

func (e *DeliveryError) Error() string {
	return fmt.Sprintf("%s send failed: %v", e.Stage, e.Err)
}

func (e *DeliveryError) Unwrap() error {
	return e.Err
}

// SessionProvider hands out the current send handle, if any.
type SessionProvider interface {
	Session() (whatsapp.Sender, bool)
}

// AssetResolver locates item images by their relative path.
type AssetResolver interface {
	Resolve(relativeImg string) (string, error)
}

// RelayService forwards one order as one text message plus one image per
// line item, in item order, through a shared messaging session.
type RelayService struct {
	sessions  SessionProvider
	assets    AssetResolver
	recipient string
	log       *slog.Logger
}

// NewRelayService creates a relay service delivering to the fixed recipient.
func NewRelayService(sessions SessionProvider, assets AssetResolver, recipient string, log *slog.Logger) *RelayService {
	return &RelayService{
		sessions:  sessions,
		assets:    assets,
		recipient: recipient,
		log:       log,
	}
}

// RelayOrder validates the order, sends the summary text, then sends each
// item image in input order. Delivery is fail-fast: the first missing asset
// or rejected send aborts the rest. Messages already sent are not undone, so
// this is not idempotent and not safely retryable.
func (s *RelayService) RelayOrder(ctx context.Context, order models.Order) error {
	if err := validateOrder(order); err != nil {
		return err
	}

	sender, ok := s.sessions.Session()
	if !ok {
		return ErrSessionUnavailable
	}

	body := FormatMessage(order)

	s.log.Info("sending order message", "recipient", s.recipient, "items_count", len(order.Items))
	if err := sender.SendText(ctx, s.recipient, body); err != nil {
		return &DeliveryError{Stage: "text", Err: err}
	}
	metrics.MessagesSent.WithLabelValues("text").Inc()

	for _, item := range order.Items {
		imagePath, err := s.assets.Resolve(item.Img)
		if err != nil {
			return err
		}

		caption := fmt.Sprintf("%s x%d", item.Name, item.Quantity)
		if err := sender.SendImage(ctx, s.recipient, imagePath, item.Name+".jpg", caption); err != nil {
			return &DeliveryError{Stage: "image", Err: err}
		}
		metrics.MessagesSent.WithLabelValues("image").Inc()
		s.log.Info("image sent", "item", item.Name, "path", imagePath)
	}

	return nil
}

func validateOrder(order models.Order) error {
	if len(order.Items) == 0 {
		return ErrEmptyOrder
	}
	for _, item := range order.Items {
		if item.Name == "" {
			return ErrInvalidName
		}
		if item.Quantity <= 0 {
			return ErrInvalidQuantity
		}
		if item.Price < 0 {
			return ErrInvalidPrice
		}
	}
	if order.Total < 0 {
		return ErrInvalidPrice
	}
	return nil
}

// FormatMessage renders the order summary sent as the text message. The
// output is deterministic: same order in, same bytes out.
func FormatMessage(order models.Order) string {
	var b strings.Builder

	b.WriteString("Order Details:\n")
	b.WriteString("Items:\n")
	for _, item := range order.Items {
		fmt.Fprintf(&b, "%s x%d (₹%s)\n", item.Name, item.Quantity, formatAmount(item.Price*float64(item.Quantity)))
	}
	fmt.Fprintf(&b, "Total: ₹%s\n", formatAmount(order.Total))
	fmt.Fprintf(&b, "Payment: %s\n", strings.ToUpper(order.PaymentMethod))
	fmt.Fprintf(&b, "Customer: %s\n", order.User.Name)
	fmt.Fprintf(&b, "Phone: %s\n", order.User.Phone)
	fmt.Fprintf(&b, "Address: %s\n", order.User.Address)
	fmt.Fprintf(&b, "From: %s", order.FromNumber)

	return b.String()
}

// formatAmount renders a price with no trailing zeros, so whole-rupee
// amounts read as plain integers.
func formatAmount(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}
