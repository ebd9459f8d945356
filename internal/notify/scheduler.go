package notify

import (
	"context"
	"fmt"
	"math"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/smokyabdulrahman/salat/internal/prayer"
)

const (
	DefaultInterval = time.Minute
	// MaxLead is the largest accepted lead time.
	MaxLead = 60 * time.Minute

	sameAlertWindow = 3 * time.Hour
)

// Planner returns the prayers of the calendar day containing day.
type Planner func(ctx context.Context, day time.Time) ([]prayer.Prayer, error)

// Scheduler polls the planner and sends one alert per prayer per day, Lead
// before it starts. Sunrise is never announced. Once Isha has passed, the
// next day's first prayer is watched instead. An Isha that the planner put
// past midnight is still announced on the following calendar day.
type Scheduler struct {
	Planner  Planner
	Notifier Notifier
	Lead     time.Duration
	Interval time.Duration
	// Prayers restricts which prayers are announced; all but Sunrise when empty.
	Prayers []prayer.Name
	Place   string
	Now     func() time.Time
	Logger  zerolog.Logger

	mu   sync.Mutex
	sent []prayer.Prayer
}

// Validate checks the lead time and required collaborators.
func (s *Scheduler) Validate() error {
	if s.Planner == nil || s.Notifier == nil {
		return fmt.Errorf("scheduler needs a planner and a notifier")
	}
	if s.Lead < 0 || s.Lead > MaxLead {
		return fmt.Errorf("notify lead %s must be between 0 and %s", s.Lead, MaxLead)
	}
	return nil
}

// Run ticks every Interval until ctx is cancelled.
func (s *Scheduler) Run(ctx context.Context) error {
	if err := s.Validate(); err != nil {
		return err
	}
	interval := s.Interval
	if interval <= 0 {
		interval = DefaultInterval
	}

	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		if _, err := s.Tick(ctx); err != nil {
			s.Logger.Error().Err(err).Msg("notify tick failed")
		}
		select {
		case <-ctx.Done():
			return nil
		case <-ticker.C:
		}
	}
}

// Reconfigure swaps the planner, lead time and prayer filter of a running
// scheduler. Alerts already sent today are not repeated.
func (s *Scheduler) Reconfigure(planner Planner, lead time.Duration, prayers []prayer.Name) error {
	if lead < 0 || lead > MaxLead {
		return fmt.Errorf("notify lead %s must be between 0 and %s", lead, MaxLead)
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if planner != nil {
		s.Planner = planner
	}
	s.Lead = lead
	s.Prayers = prayers
	return nil
}

// Tick sends every alert that is due now and returns them.
func (s *Scheduler) Tick(ctx context.Context) ([]Alert, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := s.now()
	candidates, err := s.candidates(ctx, now)
	if err != nil {
		return nil, err
	}

	s.forget(now)

	var sent []Alert
	for _, p := range candidates {
		if !s.due(p, now) {
			continue
		}
		if s.alreadySent(p) {
			continue
		}

		a := Alert{
			ID:            uuid.New(),
			Prayer:        p.Name,
			Time:          p.Time,
			MinutesBefore: minutesUntil(p.Time, now),
			Place:         s.Place,
		}
		if err := s.Notifier.Notify(ctx, a); err != nil {
			s.Logger.Warn().Err(err).Str("prayer", p.Name.Key()).Msg("failed to send alert")
			continue
		}
		s.sent = append(s.sent, p)
		sent = append(sent, a)
	}
	return sent, nil
}

// candidates are the remaining announced prayers of yesterday and today, or
// tomorrow's first one when both are done. Yesterday only contributes a
// prayer that wrapped past midnight.
func (s *Scheduler) candidates(ctx context.Context, now time.Time) ([]prayer.Prayer, error) {
	var out []prayer.Prayer
	for _, day := range []time.Time{now.AddDate(0, 0, -1), now} {
		planned, err := s.Planner(ctx, day)
		if err != nil {
			return nil, fmt.Errorf("failed to plan %s: %w", day.Format("2006-01-02"), err)
		}
		for _, p := range s.filter(planned) {
			if !now.After(p.Time.Add(s.grace())) {
				out = append(out, p)
			}
		}
	}
	if len(out) > 0 {
		return out, nil
	}

	tomorrow, err := s.Planner(ctx, now.AddDate(0, 0, 1))
	if err != nil {
		return nil, fmt.Errorf("failed to plan tomorrow: %w", err)
	}
	tomorrow = s.filter(tomorrow)
	if len(tomorrow) == 0 {
		return nil, nil
	}
	return tomorrow[:1], nil
}

func (s *Scheduler) filter(prayers []prayer.Prayer) []prayer.Prayer {
	var out []prayer.Prayer
	for _, p := range prayers {
		if p.Name == prayer.Sunrise || !s.announces(p.Name) {
			continue
		}
		out = append(out, p)
	}
	return out
}

func (s *Scheduler) announces(n prayer.Name) bool {
	if len(s.Prayers) == 0 {
		return true
	}
	for _, p := range s.Prayers {
		if p == n {
			return true
		}
	}
	return false
}

// due reports whether now is inside [time-lead, time+grace].
func (s *Scheduler) due(p prayer.Prayer, now time.Time) bool {
	return !now.Before(p.Time.Add(-s.Lead)) && !now.After(p.Time.Add(s.grace()))
}

// grace lets a poll that lands just after the prayer still announce it.
func (s *Scheduler) grace() time.Duration {
	if s.Interval > 0 {
		return s.Interval
	}
	return DefaultInterval
}

// alreadySent matches on name and a time within a few hours, so a planner
// swap that moves a prayer by a minute or two does not announce it again.
func (s *Scheduler) alreadySent(p prayer.Prayer) bool {
	for _, q := range s.sent {
		if q.Name != p.Name {
			continue
		}
		if d := p.Time.Sub(q.Time); d > -sameAlertWindow && d < sameAlertWindow {
			return true
		}
	}
	return false
}

// forget drops dedupe entries older than a day.
func (s *Scheduler) forget(now time.Time) {
	kept := s.sent[:0]
	for _, p := range s.sent {
		if now.Sub(p.Time) <= 24*time.Hour {
			kept = append(kept, p)
		}
	}
	s.sent = kept
}

func (s *Scheduler) now() time.Time {
	if s.Now != nil {
		return s.Now()
	}
	return time.Now()
}

func minutesUntil(t, now time.Time) int {
	m := int(math.Ceil(t.Sub(now).Minutes()))
	if m < 0 {
		return 0
	}
	return m
}
