package page

// Stat is a headline figure shown under the hero text.
type Stat struct {
	Label string `json:"label"`
	Value string `json:"value"`
}

// Content captures the static copy of the landing page exposed to the frontend.
type Content struct {
	Badge        string   `json:"badge"`
	Headline     string   `json:"headline"`
	Intro        string   `json:"intro"`
	Stats        []Stat   `json:"stats"`
	Keywords     []string `json:"keywords"`
	FormTitle    string   `json:"formTitle"`
	FormHint     string   `json:"formHint"`
	QuickPrompts []string `json:"quickPrompts"`
	Greeting     string   `json:"greeting"`
	InitialDraft string   `json:"initialDraft"`
	InputLabel   string   `json:"inputLabel"`
	Placeholder  string   `json:"placeholder"`
	SubmitLabel  string   `json:"submitLabel"`
}

// Seed provides the page copy for the Codex persona.
func Seed() Content {
	return Content{
		Badge:    "Автономний AI-розробник",
		Headline: "Привіт! Я Codex — твій автономний партнер у розробці.",
		Intro: "Я не питаю дозволу — просто беру завдання та доводжу його до готового продукту. " +
			"Сфокусуйся на ідеї, а я покрию технічні деталі, деплой і презентацію.",
		Stats: []Stat{
			{Label: "Рішень на день", Value: "5+"},
			{Label: "Секунд до відповіді", Value: "< 2"},
			{Label: "Задоволених команд", Value: "∞"},
		},
		Keywords:  []string{"автономний", "AI", "розробник", "партнер"},
		FormTitle: "Постав запитання",
		FormHint:  "Напиши, що тебе цікавить, або скористайся швидкими підказками.",
		QuickPrompts: []string{
			"Що ти вмієш?",
			"Як ти працюєш автономно?",
			"Які технології підтримуєш?",
		},
		Greeting:     "Привіт! Я Codex. Запитай мене щось українською — наприклад, «Привіт, ти хто?»",
		InitialDraft: "Привіт, ти хто?",
		InputLabel:   "Повідомлення",
		Placeholder:  "Запитай мене щось...",
		SubmitLabel:  "Надіслати",
	}
}

// Prompt looks up a quick prompt by its position.
func (c Content) Prompt(index int) (string, bool) {
	if index < 0 || index >= len(c.QuickPrompts) {
		return "", false
	}
	return c.QuickPrompts[index], true
}

// Clone returns a deep copy so callers cannot mutate shared slices.
func (c Content) Clone() Content {
	c.Stats = append([]Stat(nil), c.Stats...)
	c.Keywords = append([]string(nil), c.Keywords...)
	c.QuickPrompts = append([]string(nil), c.QuickPrompts...)
	return c
}
