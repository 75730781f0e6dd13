package aiexec

import "fmt"

type catalog struct {
	insufficient       string
	providerFailure    string
	persistenceFailure string
	invalidRequest     string
	transparency       string
	lowBalance         string
	notCharged         string
}

var catalogs = map[string]catalog{
	"en": {
		insufficient:       "Not enough tokens: this action needs about %d tokens and you have %d.",
		providerFailure:    "The AI service could not complete the request.",
		persistenceFailure: "We could not record this request.",
		invalidRequest:     "The request is invalid.",
		transparency:       "%d tokens were used; %d remain.",
		lowBalance:         "Your token balance is running low: %d left.",
		notCharged:         "You were not charged; %d tokens remain.",
	},
	"ru": {
		insufficient:       "Недостаточно токенов: для этого действия нужно около %d, у вас %d.",
		providerFailure:    "Сервис ИИ не смог выполнить запрос.",
		persistenceFailure: "Не удалось сохранить запрос.",
		invalidRequest:     "Некорректный запрос.",
		transparency:       "Использовано токенов: %d; осталось: %d.",
		lowBalance:         "Баланс токенов заканчивается: осталось %d.",
		notCharged:         "Токены не списаны; осталось %d.",
	},
}

// messagesFor returns the catalog for locale, falling back to English.
func messagesFor(locale string) catalog {
	if c, ok := catalogs[locale]; ok {
		return c
	}
	return catalogs["en"]
}

func (c catalog) insufficientMsg(need, have int64) string {
	return fmt.Sprintf(c.insufficient, need, have)
}

func (c catalog) transparencyMsg(deducted, remaining int64) string {
	return fmt.Sprintf(c.transparency, deducted, remaining)
}

func (c catalog) lowBalanceMsg(remaining int64) string {
	return fmt.Sprintf(c.lowBalance, remaining)
}

func (c catalog) notChargedMsg(remaining int64) string {
	return fmt.Sprintf(c.notCharged, remaining)
}
