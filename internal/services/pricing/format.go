package pricing

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/feature/plural"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
	"golang.org/x/text/message/catalog"
	"golang.org/x/text/number"

	"github.com/magabrotheeeer/stealthnet-panel/internal/models"
	"github.com/magabrotheeeer/stealthnet-panel/internal/services/preference"
)

const daysKey = "%d days"

var days = mustCatalog()

func mustCatalog() *catalog.Builder {
	b := catalog.NewBuilder(catalog.Fallback(language.Russian))
	set := func(tag language.Tag, msg catalog.Message) {
		if err := b.Set(tag, daysKey, msg); err != nil {
			panic(fmt.Sprintf("pricing: catalog: %v", err))
		}
	}
	set(preference.Tag(models.LangRU), plural.Selectf(1, "%d",
		plural.One, "%[1]d день",
		plural.Few, "%[1]d дня",
		plural.Many, "%[1]d дней",
		plural.Other, "%[1]d дней"))
	set(preference.Tag(models.LangUA), plural.Selectf(1, "%d",
		plural.One, "%[1]d день",
		plural.Few, "%[1]d дні",
		plural.Many, "%[1]d днів",
		plural.Other, "%[1]d днів"))
	set(preference.Tag(models.LangCN), plural.Selectf(1, "%d",
		plural.Other, "%[1]d 天"))
	set(preference.Tag(models.LangEN), plural.Selectf(1, "%d",
		plural.One, "%[1]d day",
		plural.Other, "%[1]d days"))
	return b
}

func printer(lang models.Language) *message.Printer {
	return message.NewPrinter(preference.Tag(lang), message.Catalog(days))
}

// Days число дней со словом в нужной форме: "30 дней", "21 день", "3 days".
func Days(n int, lang models.Language) string {
	return printer(lang).Sprintf(daysKey, n)
}

// DayWord только слово из Days.
func DayWord(n int, lang models.Language) string {
	return strings.TrimPrefix(Days(n, lang), strconv.Itoa(n)+" ")
}

var dayPattern = regexp.MustCompile(`(?i)\d+\s+(дней|дня|день|днів|дні|days|day|天)`)

// TranslateName заменяет "30 дней" в названии тарифа на длительность тарифа
// на языке пользователя. Слово пишется с заглавной буквы.
func TranslateName(name string, durationDays int, lang models.Language) string {
	if name == "" || !dayPattern.MatchString(name) {
		return name
	}
	word := cases.Title(preference.Tag(lang)).String(DayWord(durationDays, lang))
	return dayPattern.ReplaceAllLiteralString(name, strconv.Itoa(durationDays)+" "+word)
}

// Formatter форматирует суммы в валюте пользователя.
type Formatter struct {
	printer  *message.Printer
	currency models.Currency
}

// NewFormatter форматтер для языка и валюты.
func NewFormatter(pref models.Preference) Formatter {
	return Formatter{printer: printer(pref.Language), currency: pref.Currency}
}

// Format сумма с digits знаками после запятой и знаком валюты.
func (f Formatter) Format(v float64, digits int) string {
	n := f.printer.Sprintf("%v", number.Decimal(round(v, digits), number.MaxFractionDigits(digits)))
	return n + " " + f.currency.Symbol()
}

// Headline цена без копеек.
func (f Formatter) Headline(v float64) string { return f.Format(v, 0) }

// Daily цена за день с двумя знаками.
func (f Formatter) Daily(v float64) string { return f.Format(v, 2) }

// DiscountLabel отметка скидки, например "-10%".
func DiscountLabel(promo *models.PromoCode) string {
	if promo == nil || promo.PromoType != models.PromoPercent {
		return ""
	}
	return "-" + strconv.FormatFloat(promo.Value, 'f', -1, 64) + "%"
}
