package notifier

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/m04kA/SMC-HallBooking/internal/domain"
)

const eventsPath = "/internal/notifications/bookings"

// Client клиент для работы с сервисом уведомлений
type Client struct {
	baseURL    string
	httpClient *http.Client
	log        Logger
	now        func() time.Time
}

// NewClient создает новый экземпляр клиента сервиса уведомлений
func NewClient(baseURL string, timeout time.Duration, log Logger) *Client {
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{
			Timeout: timeout,
		},
		log: log,
		now: time.Now,
	}
}

// NotifyBookingCreated отправляет событие о новой заявке на бронирование
func (c *Client) NotifyBookingCreated(ctx context.Context, booking *domain.Booking) error {
	return c.send(ctx, newEvent(EventBookingCreated, booking, c.now()))
}

// NotifyStatusChanged отправляет событие о смене статуса бронирования
func (c *Client) NotifyStatusChanged(ctx context.Context, booking *domain.Booking) error {
	return c.send(ctx, newEvent(EventBookingStatusChanged, booking, c.now()))
}

func (c *Client) send(ctx context.Context, event *BookingEvent) error {
	c.log.Info("Sending %s event for booking id=%d", event.Type, event.BookingID)

	body, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("%w: failed to encode event: %v", ErrInternal, err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+eventsPath, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("%w: failed to create request: %v", ErrInternal, err)
	}

	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Idempotency-Key", event.EventID)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("%w: failed to execute request: %v", ErrInternal, err)
	}
	defer resp.Body.Close()

	// Обработка статус-кодов
	switch resp.StatusCode {
	case http.StatusOK, http.StatusAccepted, http.StatusNoContent:
		c.log.Info("Event %s for booking id=%d accepted", event.EventID, event.BookingID)
		return nil
	case http.StatusBadRequest, http.StatusUnprocessableEntity:
		var errResp ErrorResponse
		if err := json.NewDecoder(resp.Body).Decode(&errResp); err != nil {
			return fmt.Errorf("%w: status %d", ErrRejected, resp.StatusCode)
		}
		return fmt.Errorf("%w: %s", ErrRejected, errResp.Message)
	default:
		respBody, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		return fmt.Errorf("%w: unexpected status code %d: %s", ErrInvalidResponse, resp.StatusCode, string(respBody))
	}
}

func newEvent(eventType string, b *domain.Booking, now time.Time) *BookingEvent {
	return &BookingEvent{
		EventID:            uuid.NewString(),
		Type:               eventType,
		OccurredAt:         now.UTC(),
		BookingID:          b.ID,
		Hall:               string(b.Hall),
		HallName:           b.Hall.DisplayName(),
		BookingDate:        b.BookingDate.Format(domain.DateFormat),
		StartTime:          b.StartTime.String(),
		EndTime:            b.EndTime.String(),
		Status:             string(b.Status),
		RequesterName:      b.RequesterName,
		Department:         b.Department,
		RequesterEmail:     b.RequesterEmail,
		Purpose:            b.Purpose,
		CancellationReason: b.CancellationReason,
	}
}

// Nop уведомитель, который ничего не отправляет (уведомления отключены в конфиге)
type Nop struct{}

// NotifyBookingCreated ничего не делает
func (Nop) NotifyBookingCreated(context.Context, *domain.Booking) error { return nil }

// NotifyStatusChanged ничего не делает
func (Nop) NotifyStatusChanged(context.Context, *domain.Booking) error { return nil }
