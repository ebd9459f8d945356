// Package notify sends an alert shortly before each prayer.
package notify

import (
	"context"
	"errors"
	"fmt"
	"io"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/smokyabdulrahman/salat/internal/display"
	"github.com/smokyabdulrahman/salat/internal/prayer"
)

// Alert announces an upcoming prayer.
type Alert struct {
	ID            uuid.UUID   `json:"id"`
	Prayer        prayer.Name `json:"prayer"`
	Time          time.Time   `json:"time"`
	MinutesBefore int         `json:"minutes_before"`
	Place         string      `json:"place,omitempty"`
}

// Message is the human readable text of the alert.
func (a Alert) Message() string {
	if a.MinutesBefore <= 0 {
		return fmt.Sprintf("It is time for %s (%s)", a.Prayer, a.Time.Format("15:04"))
	}
	return fmt.Sprintf("%s in %d min (%s)", a.Prayer, a.MinutesBefore, a.Time.Format("15:04"))
}

// Notifier delivers alerts.
type Notifier interface {
	Notify(ctx context.Context, a Alert) error
}

// LogNotifier writes alerts to a zerolog logger.
type LogNotifier struct {
	Logger zerolog.Logger
}

func (n LogNotifier) Notify(_ context.Context, a Alert) error {
	n.Logger.Info().
		Str("id", a.ID.String()).
		Str("prayer", a.Prayer.Key()).
		Time("at", a.Time).
		Int("minutes_before", a.MinutesBefore).
		Msg(a.Message())
	return nil
}

// Console prints alerts as a highlighted line, for interactive use.
type Console struct {
	Out io.Writer
}

func (n Console) Notify(_ context.Context, a Alert) error {
	_, err := fmt.Fprintf(n.Out, "  %s  %s\n", display.Gray(time.Now().Format("15:04")), display.Accent(a.Message()))
	return err
}

// Multi fans an alert out to every notifier and joins their errors.
type Multi []Notifier

func (m Multi) Notify(ctx context.Context, a Alert) error {
	var errs []error
	for _, n := range m {
		if err := n.Notify(ctx, a); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}
