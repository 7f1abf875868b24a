// internal/notify/messages.go
package notify

import (
	"fmt"
	"strconv"
	"time"

	"moneytracker/internal/domain"
	"moneytracker/internal/service"

	"github.com/shopspring/decimal"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
	"golang.org/x/text/message/catalog"
	"golang.org/x/text/number"
)

const (
	keyCategoryOverrun = "category_overrun"
	keyTotalOverrun    = "total_overrun"
	keyStart           = "start"
	keyUnknown         = "unknown_command"
)

var messages = func() *catalog.Builder {
	b := catalog.NewBuilder(catalog.Fallback(language.English))
	set := func(tag language.Tag, key, msg string) {
		if err := b.SetString(tag, key, msg); err != nil {
			panic(fmt.Sprintf("notify: catalog %s/%s: %v", tag, key, err))
		}
	}

	set(language.English, keyCategoryOverrun, "⚠️ Budget \"%s\" is exceeded: %s left of %s (until %s).")
	set(language.English, keyTotalOverrun, "⚠️ Total budget is exceeded: %s left of %s (until %s).")
	set(language.English, keyStart, "👋 Your chat id is %s.\nSave it as telegram_chat_id in your settings and enable notifications to get budget alerts here.")
	set(language.English, keyUnknown, "Unknown command. Send /start")

	// Русские тексты
	set(language.Russian, keyCategoryOverrun, "⚠️ Бюджет «%s» превышен: остаток %s из %s (до %s).")
	set(language.Russian, keyTotalOverrun, "⚠️ Общий бюджет превышен: остаток %s из %s (до %s).")
	set(language.Russian, keyStart, "👋 Ваш chat id: %s.\nУкажите его в настройках (telegram_chat_id) и включите уведомления, чтобы получать сообщения о бюджетах.")
	set(language.Russian, keyUnknown, "Неизвестная команда. Напиши /start")
	return b
}()

func tagOf(lang domain.Language) language.Tag {
	if lang == domain.LanguageEN {
		return language.English
	}
	return language.Russian
}

func printer(lang domain.Language) *message.Printer {
	return message.NewPrinter(tagOf(lang), message.Catalog(messages))
}

// Amount formats money with the language's grouping and decimal separator.
// The integer part goes through x/text; cents are appended as is.
func Amount(lang domain.Language, d decimal.Decimal) string {
	sign := ""
	if d.IsNegative() {
		sign = "-"
		d = d.Neg()
	}
	cents := domain.Cents(d)
	sep := "."
	if lang != domain.LanguageEN {
		sep = ","
	}
	whole := printer(lang).Sprintf("%v", number.Decimal(cents/100))
	return fmt.Sprintf("%s%s%s%02d", sign, whole, sep, cents%100)
}

// Date is DD.MM.YYYY in Russian and YYYY-MM-DD otherwise.
func Date(lang domain.Language, t time.Time) string {
	if lang == domain.LanguageEN {
		return domain.FormatDate(t)
	}
	return t.Format("02.01.2006")
}

// OverrunText renders one alert in the owner's language.
func OverrunText(lang domain.Language, o service.Overrun) string {
	p := printer(lang)
	left, amount, until := Amount(lang, o.Remaining), Amount(lang, o.Amount), Date(lang, o.EndDate)
	if o.Total() {
		return p.Sprintf(keyTotalOverrun, left, amount, until)
	}
	return p.Sprintf(keyCategoryOverrun, o.CategoryName, left, amount, until)
}

// StartText tells the user which chat id to store. The id is passed as a
// string so the printer does not group its digits.
func StartText(lang domain.Language, chatID int64) string {
	return printer(lang).Sprintf(keyStart, strconv.FormatInt(chatID, 10))
}

func UnknownCommandText(lang domain.Language) string {
	return printer(lang).Sprintf(keyUnknown)
}
