package main

import (
	"context"
	"errors"
	"log"
	"net"
	"net/http"
	"os/signal"
	"regexp"
	"strconv"
	"strings"
	"syscall"
	"time"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	"moyenne-bot/api/internal/app"
	"moyenne-bot/api/internal/config"
	"moyenne-bot/api/internal/httpserver"
	"moyenne-bot/api/internal/i18n"
	"moyenne-bot/api/internal/telegram"
	"moyenne-bot/api/internal/util"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatal(err)
	}
	if err := cfg.RequireBot(); err != nil {
		log.Fatal(err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	st, err := app.OpenStorage(ctx, cfg)
	if err != nil {
		log.Fatalf("storage: %v", err)
	}
	defer st.Close()
	go app.RunJanitor(ctx, st, cfg, time.Hour)

	bot, err := tgbotapi.NewBotAPI(cfg.TelegramBotToken)
	if err != nil {
		log.Fatal(err)
	}
	bot.Debug = false

	lang, ok := i18n.Parse(cfg.DefaultLang)
	if !ok {
		log.Printf("unknown DEFAULT_LANG %q, using %s", cfg.DefaultLang, i18n.Default)
		lang = i18n.Default
	}
	r := &telegram.Router{
		Bot:           bot,
		KV:            st.KV,
		Advisor:       app.NewAdvisor(cfg, st),
		AdviceTimeout: cfg.AdviceTimeout,
		DefaultLang:   lang,
	}

	mux := http.NewServeMux()
	httpserver.Mount(mux, st.Pinger(), "moyenne telegram bot")
	addr := "0.0.0.0:" + cfg.Port

	if webhookURL := strings.TrimSpace(cfg.WebhookURL); webhookURL != "" {
		startWebhookMode(ctx, addr, mux, bot, r, webhookURL)
	} else {
		startPollingMode(ctx, addr, mux, bot, r)
	}
	r.Wait()
	log.Printf("bot stopped")
}

// ---------------- Modes -----------------

func startWebhookMode(ctx context.Context, addr string, mux *http.ServeMux, bot *tgbotapi.BotAPI, r *telegram.Router, baseURL string) {
	// secret webhook path
	path := "/webhook/" + util.SHA256Hex([]byte(bot.Token))[:16]
	public := strings.TrimRight(baseURL, "/") + path

	wh, err := tgbotapi.NewWebhook(public)
	if err != nil {
		log.Fatal(err)
	}
	wh.DropPendingUpdates = true
	if _, err := bot.Request(wh); err != nil {
		log.Fatal(err)
	}

	updates := make(chan tgbotapi.Update, 100)
	mux.HandleFunc("POST "+path, func(w http.ResponseWriter, req *http.Request) {
		upd, err := bot.HandleUpdate(req)
		if err != nil {
			log.Printf("webhook: %v", err)
			http.Error(w, "bad update", http.StatusBadRequest)
			return
		}
		updates <- *upd
	})

	go func() {
		for upd := range updates {
			r.HandleUpdate(upd)
		}
	}()

	log.Printf("webhook listening on %s%s", addr, path)
	if err := httpserver.Serve(ctx, addr, mux); err != nil {
		log.Fatal(err)
	}
}

func startPollingMode(ctx context.Context, addr string, mux *http.ServeMux, bot *tgbotapi.BotAPI, r *telegram.Router) {
	// health server; polling does not need it otherwise
	go func() {
		if err := httpserver.Serve(ctx, addr, mux); err != nil {
			log.Printf("health server: %v", err)
		}
	}()

	runPolling(ctx, bot, r.HandleUpdate)
}

// ---------------- Polling loop -----------------

var reRetryAfter = regexp.MustCompile(`(?i)retry after\s+(\d+)`)

func retryDelayFromError(err error) time.Duration {
	if err == nil {
		return 0
	}
	s := strings.ToLower(err.Error())
	if strings.Contains(s, "too many requests") { // HTTP 429
		if m := reRetryAfter.FindStringSubmatch(s); len(m) == 2 {
			if n, _ := strconv.Atoi(m[1]); n > 0 {
				return time.Duration(n) * time.Second
			}
		}
		return 3 * time.Second
	}
	var ne net.Error
	if errors.As(err, &ne) && ne.Timeout() {
		return 2 * time.Second
	}
	return 1 * time.Second
}

func runPolling(ctx context.Context, bot *tgbotapi.BotAPI, handle func(tgbotapi.Update)) {
	offset := 0
	baseDelay := 1 * time.Second
	maxDelay := 15 * time.Second

	for {
		select {
		case <-ctx.Done():
			log.Printf("polling: context cancelled")
			return
		default:
		}

		u := tgbotapi.NewUpdate(offset)
		u.Timeout = 30 // long polling timeout (sec)

		updates, err := bot.GetUpdates(u)
		if err != nil {
			d := min(max(retryDelayFromError(err), baseDelay), maxDelay)
			log.Printf("polling error: %v; retry in %v", err, d)
			sleep(ctx, d)
			continue
		}

		for _, upd := range updates {
			if upd.UpdateID >= offset {
				offset = upd.UpdateID + 1
			}
			handle(upd)
		}

		if len(updates) == 0 {
			sleep(ctx, 200*time.Millisecond)
		}
	}
}

func sleep(ctx context.Context, d time.Duration) {
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
	case <-t.C:
	}
}
