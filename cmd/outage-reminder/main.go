// Command outage-reminder fetches power-outage announcements from a
// Telegram channel, extracts schedule entries and syncs them into Google
// Calendar as reminder events.
package main

import (
	"bufio"
	"context"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"time"

	"github.com/robfig/cron/v3"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"outage-reminder/internal/aggregate"
	"outage-reminder/internal/config"
	"outage-reminder/internal/extract"
	"outage-reminder/internal/gcal"
	"outage-reminder/internal/ics"
	"outage-reminder/internal/logging"
	"outage-reminder/internal/model"
	"outage-reminder/internal/reconcile"
	"outage-reminder/internal/source"
)

type options struct {
	dryRun   bool
	channel  string
	limit    int
	group    string
	cleanup  bool
	yes      bool
	source   string
	icsPath  string
	schedule string
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	if err := newRootCmd().ExecuteContext(ctx); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	var opts options

	cmd := &cobra.Command{
		Use:           "outage-reminder",
		Short:         "Fetch DTEK outage schedules from Telegram and create Google Calendar reminders",
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg := config.Load()
			log := logging.New(cfg.LogLevel)
			return run(cmd.Context(), cfg, log, opts)
		},
	}

	cmd.Flags().BoolVar(&opts.dryRun, "dry-run", false, "parse and print events without creating them")
	cmd.Flags().StringVar(&opts.channel, "channel", "", "Telegram channel username (overrides TELEGRAM_CHANNEL)")
	cmd.Flags().IntVar(&opts.limit, "limit", 0, "max messages to fetch (overrides MAX_MESSAGES)")
	cmd.Flags().StringVar(&opts.group, "group", "", "only create events for this group (e.g. '1.2')")
	cmd.Flags().BoolVar(&opts.cleanup, "cleanup", false, "remove existing outage events that are not for today/tomorrow")
	cmd.Flags().BoolVar(&opts.yes, "yes", false, "auto-confirm destructive actions like deletion")
	cmd.Flags().StringVar(&opts.source, "source", "telegram", "message source: telegram or web (public t.me preview, no credentials)")
	cmd.Flags().StringVar(&opts.icsPath, "ics", "", "also export planned events to this .ics file")
	cmd.Flags().StringVar(&opts.schedule, "schedule", "", "cron expression to run periodically instead of once")

	return cmd
}

func run(ctx context.Context, cfg *config.Config, log *logrus.Logger, opts options) error {
	if opts.schedule == "" {
		return runOnce(ctx, cfg, log, opts)
	}

	c := cron.New()
	_, err := c.AddFunc(opts.schedule, func() {
		if err := runOnce(ctx, cfg, log, opts); err != nil {
			log.WithError(err).Error("scheduled run failed")
		}
	})
	if err != nil {
		return fmt.Errorf("invalid --schedule expression: %w", err)
	}

	log.WithFields(logging.Fields{"schedule": opts.schedule}).Info("running on schedule, Ctrl-C to stop")
	c.Start()
	<-ctx.Done()
	<-c.Stop().Done()
	return nil
}

func runOnce(ctx context.Context, cfg *config.Config, log *logrus.Logger, opts options) error {
	loc := cfg.Location()
	now := time.Now().In(loc)
	allowed := reconcile.AllowedDates(now)

	// Cleanup mode replaces create mode entirely; it needs no messages.
	if opts.cleanup {
		return runCleanup(ctx, cfg, log, now, allowed, opts)
	}

	channel := opts.channel
	if channel == "" {
		channel = cfg.TelegramChannel
	}
	limit := opts.limit
	if limit <= 0 {
		limit = cfg.MaxMessages
	}

	src, err := newSource(cfg, channel, opts)
	if err != nil {
		return err
	}

	fmt.Printf("Fetching up to %d messages from %s...\n", limit, channel)
	messages, err := src.Fetch(ctx, channel, limit)
	if err != nil {
		return fmt.Errorf("cannot fetch messages from %s source: %w", src.Name(), err)
	}
	log.WithFields(logging.Fields{"source": src.Name(), "messages": len(messages)}).Debug("fetched channel messages")

	outages := aggregate.Aggregate(messages, extract.New(loc))

	pruned, removed := reconcile.Prune(outages, allowed)
	if removed > 0 {
		fmt.Printf("Pruned %d past date(s); keeping only today and tomorrow\n", removed)
	}

	if len(pruned) == 0 {
		fmt.Println("No outage schedules found in recent messages")
		return nil
	}

	if opts.dryRun {
		return printPlan(pruned, opts)
	}
	return createEvents(ctx, cfg, log, pruned, now, opts)
}

func newSource(cfg *config.Config, channel string, opts options) (source.Source, error) {
	switch opts.source {
	case "web":
		if channel == "" {
			return nil, fmt.Errorf("channel required: set TELEGRAM_CHANNEL or pass --channel")
		}
		return source.NewWeb(""), nil
	case "telegram":
		cfg.TelegramChannel = channel
		if err := cfg.ValidateTelegram(); err != nil {
			return nil, err
		}
		return source.NewTelegram(cfg.TelegramAPIID, cfg.TelegramAPIHash, cfg.TelegramPhone, cfg.TelegramSession, promptLoginCode), nil
	default:
		return nil, fmt.Errorf("unknown source %q (want telegram or web)", opts.source)
	}
}

// printPlan lists what would be created, without touching the calendar.
func printPlan(outages model.OutagesByDate, opts options) error {
	plan := reconcile.BuildPlan(outages, nil, opts.group)

	fmt.Printf("\nFound outages for %d date(s):\n", len(outages))
	for _, ev := range plan.Create {
		fmt.Printf("  - %s\n", ev.Summary)
		fmt.Printf("    Start: %s\n", ev.Start)
		fmt.Printf("    End: %s\n", ev.End)
	}

	return exportICS(plan.Create, opts)
}

func createEvents(ctx context.Context, cfg *config.Config, log *logrus.Logger, outages model.OutagesByDate, now time.Time, opts options) error {
	if cfg.GoogleCredentialsPath == "" {
		fmt.Println("GOOGLE_CREDENTIALS_PATH not set. Events prepared but not created.")
		return nil
	}

	cal, err := gcal.New(ctx, cfg.GoogleCredentialsPath, cfg.GoogleTokenPath)
	if err != nil {
		return fmt.Errorf("cannot reach calendar: %w", err)
	}

	fmt.Printf("\nChecking for existing events in calendar: %s\n", cfg.CalendarID)

	// Snapshot window: start of today through end of tomorrow.
	dayStart := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())
	windowMin := dayStart.Format(time.RFC3339)
	windowMax := dayStart.AddDate(0, 0, 2).Add(-time.Second).Format(time.RFC3339)

	all, err := cal.ListEvents(ctx, cfg.CalendarID, windowMin, windowMax)
	if err != nil {
		return fmt.Errorf("cannot reach calendar: %w", err)
	}

	var existing []reconcile.ExistingEvent
	for _, ev := range all {
		if reconcile.IsReminder(ev.Summary) {
			existing = append(existing, ev)
		}
	}
	fmt.Printf("Found %d existing outage event(s)\n", len(existing))

	plan := reconcile.BuildPlan(outages, existing, opts.group)

	for _, ev := range plan.Skip {
		fmt.Printf("  ⊘ Skipped (already exists): %s\n", ev.Summary)
	}

	created := 0
	for _, ev := range plan.Create {
		res, err := cal.CreateEvent(ctx, cfg.CalendarID, ev)
		if err != nil {
			// Each event is an independent unit of work.
			log.WithError(err).WithFields(logging.Fields{"summary": ev.Summary}).Error("failed to create event")
			continue
		}
		fmt.Printf("  ✓ Created: %s\n", res.HtmlLink)
		created++
	}

	fmt.Printf("\n✓ Successfully created %d event(s), skipped %d duplicate(s)\n", created, len(plan.Skip))

	return exportICS(plan.Create, opts)
}

func runCleanup(ctx context.Context, cfg *config.Config, log *logrus.Logger, now time.Time, allowed map[string]bool, opts options) error {
	if cfg.GoogleCredentialsPath == "" {
		return fmt.Errorf("GOOGLE_CREDENTIALS_PATH not set; cannot perform cleanup")
	}

	cal, err := gcal.New(ctx, cfg.GoogleCredentialsPath, cfg.GoogleTokenPath)
	if err != nil {
		return fmt.Errorf("cannot reach calendar: %w", err)
	}

	// Wide listing window to find reminders created on earlier runs.
	windowMin := now.AddDate(0, 0, -30).Format(time.RFC3339)
	windowMax := now.AddDate(0, 0, 30).Format(time.RFC3339)

	events, err := cal.ListEvents(ctx, cfg.CalendarID, windowMin, windowMax)
	if err != nil {
		return fmt.Errorf("cannot reach calendar: %w", err)
	}

	candidates := reconcile.CleanupCandidates(events, allowed)
	if len(candidates) == 0 {
		fmt.Println("No old outage events found to remove.")
		return nil
	}

	fmt.Printf("Found %d outage event(s) outside today/tomorrow to remove:\n", len(candidates))
	for _, ev := range candidates {
		fmt.Printf(" - %s %s\n", ev.Summary, ev.Link)
	}

	if !opts.yes && !confirm("Delete these events? Type 'yes' to confirm: ") {
		fmt.Println("Aborting cleanup.")
		return nil
	}

	deleted := 0
	for _, ev := range candidates {
		if err := cal.DeleteEvent(ctx, cfg.CalendarID, ev.ID); err != nil {
			log.WithError(err).WithFields(logging.Fields{"event_id": ev.ID}).Error("failed to delete event")
			continue
		}
		deleted++
	}

	fmt.Printf("Deleted %d event(s)\n", deleted)
	return nil
}

func exportICS(events []reconcile.Event, opts options) error {
	if opts.icsPath == "" || len(events) == 0 {
		return nil
	}
	if err := ics.Export(events, opts.icsPath); err != nil {
		return fmt.Errorf("exporting ICS: %w", err)
	}
	fmt.Printf("Exported %d event(s) to %s\n", len(events), opts.icsPath)
	return nil
}

func confirm(prompt string) bool {
	fmt.Print(prompt)
	reader := bufio.NewReader(os.Stdin)
	line, err := reader.ReadString('\n')
	if err != nil {
		return false
	}
	return strings.EqualFold(strings.TrimSpace(line), "yes")
}

func promptLoginCode(ctx context.Context) (string, error) {
	fmt.Print("Enter the Telegram login code: ")
	var code string
	if _, err := fmt.Scan(&code); err != nil {
		return "", fmt.Errorf("reading login code: %w", err)
	}
	return code, nil
}
