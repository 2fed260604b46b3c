package guess

import (
	"fmt"
	"strings"
	"unicode/utf8"

	tele "gopkg.in/telebot.v3"

	"wikiguesser-bot/internal/wiki"
)

// CallbackPrefix is the prefix for all guessing-game callback data.
const CallbackPrefix = "wg_"

// Callback actions.
const (
	CallbackReveal = "reveal"
	CallbackGuess  = "guess"
	CallbackLinks  = "links"
	CallbackGiveUp = "giveup"
)

// EncodeCallback encodes an action and session ID into callback data.
func EncodeCallback(action, sessionID string) string {
	return fmt.Sprintf("%s%s_%s", CallbackPrefix, action, sessionID)
}

// DecodeCallback decodes callback data into action and session ID.
func DecodeCallback(data string) (action, sessionID string) {
	if !strings.HasPrefix(data, CallbackPrefix) {
		return "", ""
	}
	content := strings.TrimPrefix(data, CallbackPrefix)
	parts := strings.SplitN(content, "_", 2)
	action = parts[0]
	if len(parts) > 1 {
		sessionID = parts[1]
	}
	return action, sessionID
}

// BuildKeyboard builds the inline keyboard for the available actions of a
// view. Affordances absent from the view are simply not rendered.
func BuildKeyboard(sessionID string, actions []Action) *tele.ReplyMarkup {
	markup := &tele.ReplyMarkup{}

	var topRow, bottomRow []tele.InlineButton
	for _, action := range actions {
		switch action {
		case ActionReveal:
			topRow = append(topRow, tele.InlineButton{
				Text: "Show more",
				Data: EncodeCallback(CallbackReveal, sessionID),
			})
		case ActionGuess:
			topRow = append(topRow, tele.InlineButton{
				Text: "Guess!",
				Data: EncodeCallback(CallbackGuess, sessionID),
			})
		case ActionLinks:
			bottomRow = append(bottomRow, tele.InlineButton{
				Text: "Show links",
				Data: EncodeCallback(CallbackLinks, sessionID),
			})
		case ActionGiveUp:
			bottomRow = append(bottomRow, tele.InlineButton{
				Text: "Give up",
				Data: EncodeCallback(CallbackGiveUp, sessionID),
			})
		}
	}

	var rows [][]tele.InlineButton
	if len(topRow) > 0 {
		rows = append(rows, topRow)
	}
	if len(bottomRow) > 0 {
		rows = append(rows, bottomRow)
	}
	markup.InlineKeyboard = rows
	return markup
}

// FormatGameMessage formats the running game message around a view.
func FormatGameMessage(view View) string {
	var b strings.Builder
	b.WriteString("🌍 Wikiguesser — which article is this?\n")
	b.WriteString("━━━━━━━━━━━━━━━\n")
	b.WriteString("Excerpt: ")
	b.WriteString(view.Excerpt)
	b.WriteString("\n━━━━━━━━━━━━━━━\n")
	fmt.Fprintf(&b, "Score: %d", view.Score)
	return b.String()
}

// FormatWinMessage formats the congratulation sent on a correct guess.
func FormatWinMessage(username string, score int64, article *wiki.Article) string {
	var b strings.Builder
	fmt.Fprintf(&b, "🎉 Congratulations %s! You figured it out, your score was %d!\n", username, score)
	b.WriteString(FormatArticleCard(article))
	return b.String()
}

// FormatGiveUpMessage formats the consolation reveal after a give-up.
func FormatGiveUpMessage(article *wiki.Article) string {
	return "Thank you for trying!\n" + FormatArticleCard(article)
}

// FormatArticleCard renders an article summary with its link, the closest
// the text surface gets to an embed.
func FormatArticleCard(article *wiki.Article) string {
	var b strings.Builder
	fmt.Fprintf(&b, "📖 %s\n", article.Title)
	if excerpt := article.Excerpt(len(article.Sentences)); excerpt != "" {
		b.WriteString(truncate(excerpt, 400))
		b.WriteString("\n")
	}
	if article.URL != "" {
		fmt.Fprintf(&b, "Read more: %s", article.URL)
	}
	return b.String()
}

// FormatLinksMessage renders a link-hint batch as a code block.
func FormatLinksMessage(header string, links []string) string {
	return fmt.Sprintf("%s\n```\n%s\n```", header, strings.Join(links, "\n"))
}

func truncate(s string, max int) string {
	if len(s) <= max {
		return s
	}
	// Back the cut up to a rune boundary so the result stays valid UTF-8.
	cut := max
	for cut > 0 && !utf8.RuneStart(s[cut]) {
		cut--
	}
	return s[:cut] + "..."
}
