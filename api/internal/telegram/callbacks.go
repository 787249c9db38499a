package telegram

import (
	"strings"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	"moyenne-bot/api/internal/i18n"
	"moyenne-bot/api/internal/session"
)

func (r *Router) handleCallback(cb tgbotapi.CallbackQuery) {
	if cb.Message == nil || cb.Message.Chat == nil {
		r.ack(cb.ID, "")
		return
	}
	cid := cb.Message.Chat.ID
	msgID := cb.Message.MessageID
	cs := r.chat(cid, cb.From)
	data := cb.Data

	cs.mu.Lock()
	cs.clearMode()
	cs.mu.Unlock()

	switch {
	case strings.HasPrefix(data, cbLevel):
		r.ack(cb.ID, "")
		st := cs.apply(session.SelectLevel{LevelID: strings.TrimPrefix(data, cbLevel)})
		r.showCalculatorOrLevels(cid, msgID, st)

	case strings.HasPrefix(data, cbStream):
		r.ack(cb.ID, "")
		st := cs.apply(session.SelectStream{StreamID: strings.TrimPrefix(data, cbStream)})
		r.showCalculatorOrLevels(cid, msgID, st)

	case strings.HasPrefix(data, cbGrade):
		r.onGrade(cb.ID, cid, cs, strings.TrimPrefix(data, cbGrade))

	case strings.HasPrefix(data, cbLang):
		r.ack(cb.ID, "")
		r.switchLang(cid, cs, strings.TrimPrefix(data, cbLang))

	case data == cbAdd:
		r.ack(cb.ID, "")
		r.addSubject(cid, cs)

	case data == cbRestore:
		r.ack(cb.ID, "")
		l := cs.view().Lang
		r.sendWithKeyboard(cid, i18n.Confirm.In(l)+" "+i18n.Restore.In(l), confirmKeyboard(l))

	case data == cbRestoreYes:
		r.ack(cb.ID, "")
		r.clearKeyboard(cid, msgID)
		r.showCalculator(cid, 0, cs.apply(session.RestoreDefaults{}))

	case data == cbRestoreNo:
		r.ack(cb.ID, "")
		r.clearKeyboard(cid, msgID)

	case data == cbSave:
		r.ack(cb.ID, r.save(cid, cs))

	case data == cbReset:
		r.ack(cb.ID, "")
		r.showLevels(cid, msgID, cs.apply(session.Reset{}))

	case data == cbResume:
		r.ack(cb.ID, "")
		r.resume(cid, cs)

	case data == cbAdvice:
		r.ack(cb.ID, "")
		r.startAdvice(cid, cs)

	default:
		r.ack(cb.ID, "")
	}
}

func (r *Router) onGrade(cbID string, cid int64, cs *chatState, subjectID string) {
	st := cs.view()
	sub, ok := st.Subject(subjectID)
	if !ok {
		r.ack(cbID, i18n.UnknownSubject.In(st.Lang))
		return
	}
	r.ack(cbID, "")
	cs.mu.Lock()
	cs.setMode(modeAwaitGrade, subjectID)
	cs.mu.Unlock()
	r.send(cid, i18n.EnterGrade.In(st.Lang)+" "+sub.Name.In(st.Lang))
}

// ack answers the callback query; a non-empty text is shown as a toast.
func (r *Router) ack(id, text string) {
	_, _ = r.Bot.Request(tgbotapi.NewCallback(id, text))
}

func (r *Router) clearKeyboard(chatID int64, msgID int) {
	edit := tgbotapi.NewEditMessageReplyMarkup(chatID, msgID, tgbotapi.InlineKeyboardMarkup{})
	_, _ = r.Bot.Send(edit)
}
