package main

import (
	"errors"
	"fmt"
	"os/signal"
	"syscall"

	"yatube/internal/notifications"

	"github.com/spf13/cobra"
)

var eventsCmd = &cobra.Command{
	Use:   "events",
	Short: "Print published events until interrupted",
	Args:  cobra.NoArgs,
	RunE:  runEvents,
}

func runEvents(cmd *cobra.Command, _ []string) error {
	notifier := notifications.NewNotifier(rt.redis)
	if !notifier.Enabled() {
		return errors.New("redis is unavailable; events are not published")
	}

	ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	out := cmd.OutOrStdout()
	if err := notifier.StartPatternSubscriber(ctx, func(channel, payload string) {
		_, _ = fmt.Fprintf(out, "%s %s\n", channel, payload)
	}); err != nil {
		return err
	}
	_, _ = fmt.Fprintln(out, "listening for events, press Ctrl+C to stop")
	<-ctx.Done()
	return nil
}
