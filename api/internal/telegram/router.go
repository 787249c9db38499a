package telegram

import (
	"context"
	"log"
	"strings"
	"sync"
	"time"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/google/uuid"

	"moyenne-bot/api/internal/advisor"
	"moyenne-bot/api/internal/gpa"
	"moyenne-bot/api/internal/i18n"
	"moyenne-bot/api/internal/session"
)

// Sender is the part of *tgbotapi.BotAPI the router needs.
type Sender interface {
	Send(c tgbotapi.Chattable) (tgbotapi.Message, error)
	Request(c tgbotapi.Chattable) (*tgbotapi.APIResponse, error)
}

type Router struct {
	Bot     Sender
	KV      session.KV
	Advisor advisor.Advisor

	AdviceTimeout time.Duration
	DefaultLang   i18n.Lang

	// NewID names custom subjects; defaults to a short uuid.
	NewID func() string
	Now   func() time.Time

	chats  sync.Map // chatID -> *chatState
	advice sync.WaitGroup
}

func (r *Router) HandleUpdate(upd tgbotapi.Update) {
	if upd.CallbackQuery != nil {
		r.handleCallback(*upd.CallbackQuery)
		return
	}
	if upd.Message == nil || upd.Message.Chat == nil {
		return
	}
	m := upd.Message
	cid := m.Chat.ID
	cs := r.chat(cid, m.From)

	if m.IsCommand() {
		r.handleCommand(cid, cs, m.Command(), strings.TrimSpace(m.CommandArguments()))
		return
	}
	if strings.TrimSpace(m.Text) != "" {
		r.handleText(cid, cs, m.Text)
	}
}

// Wait blocks until running advice requests have finished.
func (r *Router) Wait() { r.advice.Wait() }

func (r *Router) chat(cid int64, from *tgbotapi.User) *chatState {
	if v, ok := r.chats.Load(cid); ok {
		return v.(*chatState)
	}
	def := r.DefaultLang
	if _, ok := i18n.Parse(string(def)); !ok {
		def = i18n.Default
	}
	lang := def
	if from != nil && from.LanguageCode != "" {
		lang = i18n.Match(from.LanguageCode, def)
	}
	v, _ := r.chats.LoadOrStore(cid, &chatState{st: session.New(lang)})
	return v.(*chatState)
}

func (r *Router) store(cid int64) *session.Store {
	return session.NewStore(r.KV, session.SlotKey(session.ChatScope(cid)))
}

func (r *Router) now() time.Time {
	if r.Now != nil {
		return r.Now()
	}
	return time.Now()
}

func (r *Router) newID() string {
	if r.NewID != nil {
		return r.NewID()
	}
	return "custom_" + uuid.NewString()[:8]
}

func (r *Router) handleCommand(cid int64, cs *chatState, cmd, args string) {
	cs.mu.Lock()
	cs.clearMode()
	cs.mu.Unlock()
	lang := cs.view().Lang

	switch cmd {
	case "start":
		r.showLevels(cid, 0, cs.view())
	case "help":
		r.send(cid, i18n.Help.In(lang))
	case "lang":
		if args == "" {
			r.sendWithKeyboard(cid, "🌐 العربية · Français · English", langKeyboard())
			return
		}
		r.switchLang(cid, cs, args)
	case "resume":
		r.resume(cid, cs)
	case "save":
		r.send(cid, r.save(cid, cs))
	case "reset":
		r.showLevels(cid, 0, cs.apply(session.Reset{}))
	case "avg":
		r.showCalculatorOrLevels(cid, 0, cs.view())
	case "target":
		st := cs.apply(session.SetTarget{Raw: args})
		r.send(cid, i18n.TargetSet.In(lang)+" "+displayTarget(st))
	case "grade", "coeff":
		id, raw := splitArg(args)
		st := cs.view()
		if _, ok := st.Subject(id); !ok {
			r.send(cid, i18n.UnknownSubject.In(lang))
			return
		}
		if cmd == "grade" {
			st = cs.apply(session.SetGrade{SubjectID: id, Raw: raw})
		} else {
			if _, ok := gpa.ParseCoefficient(raw); !ok {
				r.send(cid, i18n.InvalidCoeff.In(lang))
				return
			}
			st = cs.apply(session.SetCoefficient{SubjectID: id, Raw: raw})
		}
		r.showCalculator(cid, 0, st)
	case "add":
		r.addSubject(cid, cs)
	case "rename":
		id, name := splitArg(args)
		if sub, ok := cs.view().Subject(id); !ok || !sub.IsCustom {
			r.send(cid, i18n.UnknownSubject.In(lang))
			return
		}
		r.showCalculator(cid, 0, cs.apply(session.RenameSubject{SubjectID: id, Name: name}))
	case "remove":
		if _, ok := cs.view().Subject(args); !ok {
			r.send(cid, i18n.UnknownSubject.In(lang))
			return
		}
		r.showCalculator(cid, 0, cs.apply(session.RemoveSubject{SubjectID: args}))
	case "advice":
		r.startAdvice(cid, cs)
	default:
		r.send(cid, i18n.UnknownCommand.In(lang))
	}
}

// handleText consumes free text while a grade or a subject name is awaited.
func (r *Router) handleText(cid int64, cs *chatState, text string) {
	cs.mu.Lock()
	mode, id := cs.mode, cs.pendingID
	cs.clearMode()
	cs.mu.Unlock()

	switch mode {
	case modeAwaitGrade:
		r.showCalculator(cid, 0, cs.apply(session.SetGrade{SubjectID: id, Raw: text}))
	case modeAwaitName:
		r.showCalculator(cid, 0, cs.apply(session.RenameSubject{SubjectID: id, Name: text}))
	default:
		r.send(cid, i18n.UnknownCommand.In(cs.view().Lang))
	}
}

func (r *Router) switchLang(cid int64, cs *chatState, code string) {
	l, ok := i18n.Parse(code)
	if !ok {
		l = i18n.Match(code, cs.view().Lang)
	}
	st := cs.apply(session.SetLanguage{Lang: l})
	r.send(cid, i18n.LanguageSwitched.In(st.Lang))
	r.showCalculatorOrLevels(cid, 0, st)
}

func (r *Router) addSubject(cid int64, cs *chatState) {
	id := r.newID()
	st := cs.apply(session.AddCustomSubject{ID: id})
	if _, ok := st.Subject(id); !ok {
		r.send(cid, i18n.SelectFirst.In(st.Lang))
		return
	}
	cs.mu.Lock()
	cs.setMode(modeAwaitName, id)
	cs.mu.Unlock()
	r.send(cid, i18n.EnterName.In(st.Lang))
}

// save returns the message to show the user.
func (r *Router) save(cid int64, cs *chatState) string {
	st := cs.view()
	if !st.CanSave() {
		return i18n.SelectFirst.In(st.Lang)
	}
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := r.store(cid).Save(ctx, st.Snapshot(r.now())); err != nil {
		log.Printf("telegram: save chat %d: %v", cid, err)
		return i18n.SaveFailed.In(st.Lang)
	}
	return i18n.SavedMsg.In(st.Lang)
}

func (r *Router) resume(cid int64, cs *chatState) {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	snap, err := r.store(cid).Load(ctx)
	if err != nil {
		r.send(cid, i18n.NothingToResume.In(cs.view().Lang))
		return
	}
	st := cs.apply(session.Resume{Snapshot: snap})
	if !st.CanSave() {
		r.send(cid, i18n.NothingToResume.In(st.Lang))
		return
	}
	r.showCalculator(cid, 0, st)
}

func (r *Router) hasSaved(cid int64) bool {
	if r.KV == nil {
		return false
	}
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	return r.store(cid).Exists(ctx)
}

func splitArg(args string) (string, string) {
	id, rest, _ := strings.Cut(strings.TrimSpace(args), " ")
	return id, strings.TrimSpace(rest)
}

func (r *Router) send(chatID int64, text string) {
	msg := tgbotapi.NewMessage(chatID, text)
	if _, err := r.Bot.Send(msg); err != nil {
		log.Printf("telegram: send to %d: %v", chatID, err)
	}
}

func (r *Router) sendWithKeyboard(chatID int64, text string, kb tgbotapi.InlineKeyboardMarkup) tgbotapi.Message {
	msg := tgbotapi.NewMessage(chatID, text)
	msg.ReplyMarkup = kb
	sent, err := r.Bot.Send(msg)
	if err != nil {
		log.Printf("telegram: send to %d: %v", chatID, err)
	}
	return sent
}

// show edits msgID in place when it is set, otherwise sends a new message.
func (r *Router) show(chatID int64, msgID int, text string, kb tgbotapi.InlineKeyboardMarkup) {
	if msgID == 0 {
		r.sendWithKeyboard(chatID, text, kb)
		return
	}
	edit := tgbotapi.NewEditMessageTextAndMarkup(chatID, msgID, text, kb)
	if _, err := r.Bot.Send(edit); err != nil {
		log.Printf("telegram: edit %d/%d: %v", chatID, msgID, err)
	}
}
