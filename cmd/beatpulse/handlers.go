package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"text/tabwriter"

	"github.com/BeatNow2-0/beatpulse/internal/config"
	"github.com/BeatNow2-0/beatpulse/internal/scheduler"
	"github.com/BeatNow2-0/beatpulse/internal/store"
	"github.com/BeatNow2-0/beatpulse/pkg/alert"
	"github.com/BeatNow2-0/beatpulse/pkg/catalog"
	"github.com/BeatNow2-0/beatpulse/pkg/server"
	"github.com/BeatNow2-0/beatpulse/pkg/stats"
)

func loadConfig() (*config.Config, error) {
	path := cfgFile
	if path == "" {
		if _, err := os.Stat("config.yaml"); err == nil {
			path = "config.yaml"
		}
	}
	return config.Load(path)
}

func buildEngine(cfg *config.Config) *stats.Engine {
	w := stats.Weights{
		Like:     cfg.Engine.LikeWeight,
		Save:     cfg.Engine.SaveWeight,
		AgeDecay: cfg.Engine.AgeDecay,
		Spike:    cfg.Engine.SpikeWeight,
		Smear:    cfg.Engine.SmearDays,
	}
	return stats.NewEngine(w, cfg.Engine.WindowDays)
}

func buildSources(cfg *config.Config) []catalog.Source {
	var sources []catalog.Source

	if cfg.API.Username != "" {
		sources = append(sources, catalog.NewAPI(cfg.API.BaseURL, cfg.API.Username, cfg.API.Token))
	}
	if cfg.Feed.Enabled && cfg.Feed.URL != "" {
		sources = append(sources, catalog.NewFeed(cfg.Feed.URL))
	}

	return sources
}

func buildAlertManager(cfg *config.Config) *alert.Manager {
	var notifiers []alert.Notifier

	if cfg.Alerts.Slack.Enabled && cfg.Alerts.Slack.WebhookURL != "" {
		notifiers = append(notifiers, alert.NewSlack(cfg.Alerts.Slack.WebhookURL))
	}
	if cfg.Alerts.Discord.Enabled && cfg.Alerts.Discord.WebhookURL != "" {
		notifiers = append(notifiers, alert.NewDiscord(cfg.Alerts.Discord.WebhookURL))
	}
	if cfg.Alerts.Webhook.Enabled && cfg.Alerts.Webhook.URL != "" {
		notifiers = append(notifiers, alert.NewWebhook(cfg.Alerts.Webhook.URL, cfg.Alerts.Webhook.Secret))
	}

	return alert.NewManager(notifiers)
}

func buildRefresher(cfg *config.Config, db store.Store) (*scheduler.Refresher, error) {
	if cfg.API.Username == "" {
		return nil, fmt.Errorf("no producer configured (set api.username or BEATPULSE_USERNAME)")
	}
	filter := catalog.NewFilter(cfg.Filter.IncludeKeywords, cfg.Filter.ExcludeKeywords)
	return scheduler.NewRefresher(db, buildSources(cfg), filter, buildEngine(cfg), cfg.API.Username), nil
}

func runStats(jsonOutput bool, top int) error {
	cfg, err := loadConfig()
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	db, err := store.New(cfg.Database.Path)
	if err != nil {
		return fmt.Errorf("open store: %w", err)
	}
	defer db.Close()

	refresher, err := buildRefresher(cfg, db)
	if err != nil {
		return err
	}

	report, err := refresher.Refresh(context.Background())
	if err != nil {
		return fmt.Errorf("refresh: %w", err)
	}

	if jsonOutput {
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(report)
	}

	t := report.Totals
	fmt.Printf("%s — %d posts\n\n", cfg.API.Username, t.TotalPosts)
	fmt.Printf("Plays      %s (7d: %s, est. 30d: %s)\n",
		stats.FormatCount(t.TotalPlays),
		stats.FormatCount(int(t.Plays7d)),
		stats.FormatCount(int(t.EstimatedPlays30d)))
	fmt.Printf("Likes      %s\n", stats.FormatCount(t.TotalLikes))
	fmt.Printf("Saves      %s\n", stats.FormatCount(t.TotalSaves))
	fmt.Printf("Revenue    %.2f\n\n", t.EstimatedRevenue)

	fmt.Printf("Activity (last %d days): %v\n\n", len(report.Activity), report.Activity)

	if len(report.Items) == 0 {
		fmt.Println("no posts yet")
		return nil
	}

	items := report.Items
	if len(items) > top {
		items = items[:top]
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "SCORE\tPLAYS\tLIKES\tSAVES\tFLAGS\tTITLE\tPUBLISHED")
	for _, item := range items {
		flags := ""
		if item.IsNew {
			flags += "new "
		}
		if item.IsTrending {
			flags += "trending"
		}
		fmt.Fprintf(w, "%.1f\t%s\t%d\t%d\t%s\t%s\t%s\n",
			item.TrendingScore,
			stats.FormatCount(item.Plays),
			item.Likes, item.Saves, flags, item.Title,
			item.PublicationDate.Format("2006-01-02"))
	}
	return w.Flush()
}

func runExport(out string) error {
	cfg, err := loadConfig()
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	db, err := store.New(cfg.Database.Path)
	if err != nil {
		return fmt.Errorf("open store: %w", err)
	}
	defer db.Close()

	refresher, err := buildRefresher(cfg, db)
	if err != nil {
		return err
	}

	report, err := refresher.Refresh(context.Background())
	if err != nil {
		return fmt.Errorf("refresh: %w", err)
	}

	items := make([]stats.Metrics, len(report.Recent))
	for i, item := range report.Recent {
		items[i] = item.Metrics
	}
	csv := stats.ExportCSV(items, stats.ExportColumns)

	if out == "" {
		out = stats.ExportFilename(cfg.API.Username)
	}
	if err := os.WriteFile(out, []byte(csv+"\n"), 0o644); err != nil {
		return fmt.Errorf("write export %s: %w", out, err)
	}

	fmt.Fprintf(os.Stderr, "exported %d posts to %s\n", len(items), out)
	return nil
}

func runServe(port int) error {
	cfg, err := loadConfig()
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	if port == 0 {
		port = cfg.Server.Port
	}

	db, err := store.New(cfg.Database.Path)
	if err != nil {
		return fmt.Errorf("open store: %w", err)
	}
	defer db.Close()

	refresher, err := buildRefresher(cfg, db)
	if err != nil {
		return err
	}

	holder := &scheduler.Holder{}
	if report, err := refresher.Refresh(context.Background()); err != nil {
		fmt.Fprintf(os.Stderr, "initial refresh error: %v\n", err)
	} else {
		holder.Set(report)
	}

	srv := server.New(holder, refresher, cfg.API.Username, port)
	return srv.ListenAndServe()
}

func runDaemon(port int) error {
	cfg, err := loadConfig()
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	if port == 0 {
		port = cfg.Server.Port
	}

	db, err := store.New(cfg.Database.Path)
	if err != nil {
		return fmt.Errorf("open store: %w", err)
	}
	defer db.Close()

	refresher, err := buildRefresher(cfg, db)
	if err != nil {
		return err
	}

	holder := &scheduler.Holder{}
	alertMgr := buildAlertManager(cfg)

	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	sched := scheduler.New(refresher, holder, alertMgr, cfg.Schedule.ParseRefreshInterval())

	// Start scheduler in background.
	go func() {
		if err := sched.Run(ctx); err != nil && ctx.Err() == nil {
			fmt.Fprintf(os.Stderr, "scheduler error: %v\n", err)
		}
	}()

	go func() {
		<-ctx.Done()
		fmt.Fprintln(os.Stderr, "\nshutting down...")
	}()

	srv := server.New(holder, refresher, cfg.API.Username, port)
	return srv.ListenAndServe()
}
