package telegram

import (
	"context"
	"time"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	"moyenne-bot/api/internal/advisor"
	"moyenne-bot/api/internal/gpa"
	"moyenne-bot/api/internal/i18n"
	"moyenne-bot/api/internal/session"
)

const defaultAdviceTimeout = 70 * time.Second

// startAdvice posts a loading message and replaces it with the advice once
// the advisor answers. At most one request per chat runs at a time.
func (r *Router) startAdvice(cid int64, cs *chatState) {
	cs.mu.Lock()
	st := cs.st
	switch {
	case !st.CanSave():
		cs.mu.Unlock()
		r.send(cid, i18n.SelectFirst.In(st.Lang))
		return
	case !st.CanAskAdvice():
		cs.mu.Unlock()
		r.send(cid, i18n.TargetRequired.In(st.Lang))
		return
	case cs.adviceBusy:
		cs.mu.Unlock()
		r.send(cid, i18n.AdviceInFlight.In(st.Lang))
		return
	}
	cs.adviceBusy = true
	cs.mu.Unlock()

	req := adviceRequest(st)
	loading, err := r.Bot.Send(tgbotapi.NewMessage(cid, "⏳ "+i18n.LoadingAI.In(st.Lang)))
	if err != nil {
		loading = tgbotapi.Message{}
	}

	timeout := r.AdviceTimeout
	if timeout <= 0 {
		timeout = defaultAdviceTimeout
	}
	r.advice.Add(1)
	go func() {
		defer r.advice.Done()
		ctx, cancel := context.WithTimeout(context.Background(), timeout)
		adv := advisor.Ask(ctx, r.Advisor, req)
		cancel()

		cs.mu.Lock()
		cs.adviceBusy = false
		cs.mu.Unlock()

		text := formatAdvice(adv, req.Lang)
		if loading.MessageID == 0 {
			r.send(cid, text)
			return
		}
		_, _ = r.Bot.Send(tgbotapi.NewEditMessageText(cid, loading.MessageID, text))
	}()
}

func adviceRequest(st session.State) advisor.Request {
	lvl, _ := st.Level()
	stream, _ := st.Stream()
	return advisor.Request{
		Subjects:   st.Subjects,
		CurrentAvg: st.Average(),
		TargetAvg:  gpa.ParseTarget(st.TargetAvg),
		LevelName:  lvl.Name.In(st.Lang),
		StreamName: stream.Name.In(st.Lang),
		Lang:       st.Lang,
	}
}
