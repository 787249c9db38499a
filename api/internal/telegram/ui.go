package telegram

import (
	"fmt"
	"strings"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	"moyenne-bot/api/internal/advisor"
	"moyenne-bot/api/internal/catalog"
	"moyenne-bot/api/internal/gpa"
	"moyenne-bot/api/internal/i18n"
	"moyenne-bot/api/internal/session"
	"moyenne-bot/api/internal/util"
)

// callback data
const (
	cbLevel      = "lvl:"
	cbStream     = "str:"
	cbGrade      = "g:"
	cbLang       = "lang:"
	cbAdd        = "add"
	cbRestore    = "restore"
	cbRestoreYes = "restore_yes"
	cbRestoreNo  = "restore_no"
	cbSave       = "save"
	cbReset      = "reset"
	cbAdvice     = "advice"
	cbResume     = "resume"
)

// maxMessage stays under Telegram's 4096 character limit.
const maxMessage = 3900

func (r *Router) showLevels(chatID int64, msgID int, st session.State) {
	l := st.Lang
	text := fmt.Sprintf("🎓 %s\n%s\n\n%s\n\n%s",
		i18n.Title.In(l), i18n.Subtitle.In(l), i18n.Intro.In(l), i18n.SelectLevel.In(l))

	var rows [][]tgbotapi.InlineKeyboardButton
	for _, lvl := range catalog.Levels() {
		rows = append(rows, tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonData(lvl.Name.In(l), cbLevel+lvl.ID)))
	}
	if r.hasSaved(chatID) {
		rows = append(rows, tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonData("⏪ "+i18n.Resume.In(l), cbResume)))
	}
	r.show(chatID, msgID, text, tgbotapi.NewInlineKeyboardMarkup(rows...))
}

func (r *Router) showStreams(chatID int64, msgID int, st session.State) {
	lvl, ok := st.Level()
	if !ok {
		r.showLevels(chatID, msgID, st)
		return
	}
	l := st.Lang
	var rows [][]tgbotapi.InlineKeyboardButton
	for _, s := range lvl.Streams {
		rows = append(rows, tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonData(s.Name.In(l), cbStream+s.ID)))
	}
	rows = append(rows, tgbotapi.NewInlineKeyboardRow(
		tgbotapi.NewInlineKeyboardButtonData("↩ "+i18n.SelectLevel.In(l), cbReset)))
	text := fmt.Sprintf("%s\n\n%s", lvl.Name.In(l), i18n.SelectStream.In(l))
	r.show(chatID, msgID, text, tgbotapi.NewInlineKeyboardMarkup(rows...))
}

func (r *Router) showCalculator(chatID int64, msgID int, st session.State) {
	if !st.CanSave() {
		r.showCalculatorOrLevels(chatID, msgID, st)
		return
	}
	r.show(chatID, msgID, renderCalculator(st), calculatorKeyboard(st))
}

// showCalculatorOrLevels picks the screen matching how far the user got.
func (r *Router) showCalculatorOrLevels(chatID int64, msgID int, st session.State) {
	switch {
	case st.CanSave():
		r.show(chatID, msgID, renderCalculator(st), calculatorKeyboard(st))
	case st.LevelID != "":
		r.showStreams(chatID, msgID, st)
	default:
		r.showLevels(chatID, msgID, st)
	}
}

func renderCalculator(st session.State) string {
	l := st.Lang
	lvl, _ := st.Level()
	stream, _ := st.Stream()

	var b strings.Builder
	fmt.Fprintf(&b, "📚 %s · %s\n\n", lvl.Name.In(l), stream.Name.In(l))
	fmt.Fprintf(&b, "%s | %s | %s\n", i18n.SubjectLabel.In(l), i18n.CoeffLabel.In(l), i18n.GradeLabel.In(l))
	for _, s := range st.Subjects {
		fmt.Fprintf(&b, "• %s (×%s): %s  [%s]\n",
			s.Name.In(l), gpa.FormatGrade(s.Coefficient), gradeText(s), s.ID)
	}

	sum := gpa.Summarize(st.Subjects)
	mark := "❌"
	if gpa.Passing(sum.Average) {
		mark = "✅"
	}
	fmt.Fprintf(&b, "\n%s %s/20 %s\n", i18n.YourAverage.In(l), gpa.Format(sum.Average), mark)
	fmt.Fprintf(&b, "🎯 %s: %s", i18n.SetGoal.In(l), displayTarget(st))
	return util.Truncate(b.String(), maxMessage)
}

func gradeText(s catalog.Subject) string {
	if s.Grade == nil {
		return "--"
	}
	return gpa.FormatGrade(*s.Grade)
}

func displayTarget(st session.State) string {
	if st.TargetAvg == "" {
		return "--"
	}
	return gpa.FormatGrade(gpa.ParseTarget(st.TargetAvg))
}

func calculatorKeyboard(st session.State) tgbotapi.InlineKeyboardMarkup {
	l := st.Lang
	var rows [][]tgbotapi.InlineKeyboardButton
	var row []tgbotapi.InlineKeyboardButton
	for _, s := range st.Subjects {
		label := util.Truncate(s.Name.In(l), 24) + ": " + gradeText(s)
		row = append(row, tgbotapi.NewInlineKeyboardButtonData(label, cbGrade+s.ID))
		if len(row) == 2 {
			rows = append(rows, row)
			row = nil
		}
	}
	if len(row) > 0 {
		rows = append(rows, row)
	}
	rows = append(rows,
		tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonData("➕ "+i18n.AddSubject.In(l), cbAdd),
			tgbotapi.NewInlineKeyboardButtonData("↺ "+i18n.Restore.In(l), cbRestore),
		),
		tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonData("💾 "+i18n.Save.In(l), cbSave),
			tgbotapi.NewInlineKeyboardButtonData("🔄 "+i18n.Reset.In(l), cbReset),
		),
		tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonData("✨ "+i18n.GetAIAdvice.In(l), cbAdvice),
		),
	)
	return tgbotapi.NewInlineKeyboardMarkup(rows...)
}

func confirmKeyboard(l i18n.Lang) tgbotapi.InlineKeyboardMarkup {
	yes := tgbotapi.NewInlineKeyboardButtonData(i18n.Yes.In(l), cbRestoreYes)
	no := tgbotapi.NewInlineKeyboardButtonData(i18n.No.In(l), cbRestoreNo)
	return tgbotapi.NewInlineKeyboardMarkup(tgbotapi.NewInlineKeyboardRow(yes, no))
}

func langKeyboard() tgbotapi.InlineKeyboardMarkup {
	var row []tgbotapi.InlineKeyboardButton
	for _, l := range i18n.All() {
		row = append(row, tgbotapi.NewInlineKeyboardButtonData(langLabel(l), cbLang+string(l)))
	}
	return tgbotapi.NewInlineKeyboardMarkup(row)
}

func langLabel(l i18n.Lang) string {
	switch l {
	case i18n.AR:
		return "العربية"
	case i18n.FR:
		return "Français"
	default:
		return "English"
	}
}

// formatAdvice renders advice as plain text; empty sections are skipped.
func formatAdvice(a advisor.Advice, l i18n.Lang) string {
	var b strings.Builder
	fmt.Fprintf(&b, "✨ %s\n", i18n.AdvisorTitle.In(l))
	if s := strings.TrimSpace(a.Analysis); s != "" {
		fmt.Fprintf(&b, "\n📊 %s:\n%s\n", i18n.AnalysisTitle.In(l), s)
	}
	if len(a.Tips) > 0 {
		fmt.Fprintf(&b, "\n📝 %s:\n", i18n.PlanTitle.In(l))
		for i, t := range a.Tips {
			fmt.Fprintf(&b, "%d. %s\n", i+1, strings.TrimSpace(t))
		}
	}
	if s := strings.TrimSpace(a.Encouragement); s != "" {
		fmt.Fprintf(&b, "\n💬 «%s»", s)
	}
	return util.Truncate(strings.TrimSpace(b.String()), maxMessage)
}
