package cli

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/smokyabdulrahman/salat/internal/config"
	"github.com/smokyabdulrahman/salat/internal/notify"
	"github.com/smokyabdulrahman/salat/internal/prayer"
)

var (
	flagNotifyBefore int
	flagNotifyQuiet  bool
)

func newNotifyCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "notify",
		Short: "Alert before each prayer",
		Long: "Run in the foreground and announce each prayer a few minutes before it starts.\n" +
			"Sunrise is never announced. Alerts are printed, logged, and published to MQTT when\n" +
			"MQTT_BROKER is set. Changes to the config file are picked up without a restart.",
		Args: cobra.NoArgs,
		RunE: runNotify,
	}

	cmd.Flags().IntVar(&flagNotifyBefore, "before", config.DefaultNotifyBefore, fmt.Sprintf("Minutes before each prayer to alert (0-%d, overrides notify_before)", config.MaxNotifyBefore))
	cmd.Flags().BoolVarP(&flagNotifyQuiet, "quiet", "q", false, "Do not print alerts to the terminal")
	addEnvFlag(cmd)

	return cmd
}

// notifyLead is --before when given, the config value otherwise.
func notifyLead(cmd *cobra.Command, cfg *config.Config) (time.Duration, error) {
	minutes := cfg.NotifyBeforeOrDefault(config.DefaultNotifyBefore)
	if cmd.Flags().Changed("before") {
		minutes = flagNotifyBefore
	}
	if minutes < 0 || minutes > config.MaxNotifyBefore {
		return 0, fmt.Errorf("invalid --before %d: must be between 0 and %d", minutes, config.MaxNotifyBefore)
	}
	return time.Duration(minutes) * time.Minute, nil
}

// planner computes a day's schedule from the session. Undefined times are
// left out, so they are never announced.
func (s *session) planner() notify.Planner {
	return func(ctx context.Context, day time.Time) ([]prayer.Prayer, error) {
		t, err := s.table(ctx, day)
		if err != nil && !errors.Is(err, prayer.ErrInvalidAngleDomain) {
			return nil, err
		}
		return prayer.Schedule(t, s.tz, prayer.Names), nil
	}
}

func runNotify(cmd *cobra.Command, args []string) error {
	cfg, err := effectiveConfig(cmd)
	if err != nil {
		return err
	}
	lead, err := notifyLead(cmd, cfg)
	if err != nil {
		return err
	}

	ctx, cancel := signalContext(cmd.Context())
	defer cancel()

	d, err := newDaemon(ctx, cmd, cfg.CacheDir)
	if err != nil {
		return err
	}
	defer d.Close()

	s, err := newSession(ctx, cfg, cmd.ErrOrStderr())
	if err != nil {
		return err
	}
	s.store = d.store

	notifiers := notify.Multi{notify.LogNotifier{Logger: d.logger}}
	if !flagNotifyQuiet {
		notifiers = append(notifiers, notify.Console{Out: cmd.OutOrStdout()})
	}
	if d.env.MQTTBroker != "" {
		m, err := notify.NewMQTT(notify.MQTTOptions{
			Broker:   d.env.MQTTBroker,
			ClientID: d.env.MQTTClientID,
			Topic:    d.env.MQTTTopic,
		}, d.logger)
		if err != nil {
			return err
		}
		defer m.Close()
		notifiers = append(notifiers, m)
	}

	sched := &notify.Scheduler{
		Planner:  s.planner(),
		Notifier: notifiers,
		Lead:     lead,
		Interval: d.env.PollInterval,
		Prayers:  s.names,
		Place:    buildLocationStr(s.loc),
		Now:      nowFunc,
		Logger:   d.logger,
	}

	d.logger.Info().
		Str("place", sched.Place).
		Str("timezone", s.tzName).
		Str("method", s.method.String()).
		Dur("lead", lead).
		Msg("watching prayer times")

	if path, err := config.Path(); err == nil {
		go watchConfig(ctx, cmd, path, d, sched)
	}

	return sched.Run(ctx)
}

// watchConfig re-plans the scheduler whenever the config file changes.
// Flags given on the command line keep precedence over the file.
func watchConfig(ctx context.Context, cmd *cobra.Command, path string, d *daemon, sched *notify.Scheduler) {
	onChange := func(fileCfg *config.Config) {
		cfg, err := mergeConfig(cmd, fileCfg)
		if err != nil {
			d.logger.Error().Err(err).Msg("ignoring config change")
			return
		}
		lead, err := notifyLead(cmd, cfg)
		if err != nil {
			d.logger.Error().Err(err).Msg("ignoring config change")
			return
		}
		s, err := newSession(ctx, cfg, cmd.ErrOrStderr())
		if err != nil {
			d.logger.Error().Err(err).Msg("ignoring config change")
			return
		}
		s.store = d.store

		if err := sched.Reconfigure(s.planner(), lead, s.names); err != nil {
			d.logger.Error().Err(err).Msg("ignoring config change")
			return
		}
		d.logger.Info().Str("method", s.method.String()).Dur("lead", lead).Msg("config reloaded")
	}
	onError := func(err error) {
		d.logger.Warn().Err(err).Msg("config file unreadable")
	}

	if err := config.Watch(ctx, path, onChange, onError); err != nil {
		d.logger.Warn().Err(err).Msg("config watch disabled")
	}
}
