package responder

import (
	"strings"
	"unicode/utf8"
)

// Canned replies used by the default phrase table.
const (
	GreetingReply  = "Привіт! Я Codex — автономний AI-розробник, який втілює ідеї у вебзастосунках."
	AbilitiesReply = "Я пишу код, приймаю технічні рішення, налаштовую інфраструктуру та готую проєкти до деплою."
	WorkflowReply  = "Я самостійно аналізую задачу, обираю стек, будую архітектуру й відразу реалізовую рішення без додаткових вказівок."
	StackReply     = "Переважно використовую Next.js, React, Tailwind та Vercel, але адаптуюсь під вимоги завдання."

	TellMeMoreReply = "Розкажи трохи більше, і я з радістю відповім."
	FallbackReply   = "Я опрацьовую ідеї, перетворюючи туманні запити на чіткі веб-рішення. " +
		"Можеш спитати про мої можливості, стек чи підхід до автономної роботи."
)

// MinInputLength is the raw input length below which an unmatched input gets
// TellMeMoreReply instead of FallbackReply.
const MinInputLength = 4

// Rule maps a set of lowercase trigger substrings to a canned response.
type Rule struct {
	Name     string
	Triggers []string
	Response string
}

// DefaultRules returns the phrase table in match order.
func DefaultRules() []Rule {
	return []Rule{
		{
			Name:     "greeting",
			Triggers: []string{"привіт", "хто ти", "ти хто", "як тебе звати"},
			Response: GreetingReply,
		},
		{
			Name:     "abilities",
			Triggers: []string{"що ти вмієш", "що ти робиш", "можеш зробити"},
			Response: AbilitiesReply,
		},
		{
			Name:     "workflow",
			Triggers: []string{"як працюєш", "як ти працюєш", "як саме ти працюєш"},
			Response: WorkflowReply,
		},
		{
			Name:     "stack",
			Triggers: []string{"які технології", "який стек", "технології підтримуєш"},
			Response: StackReply,
		},
	}
}

var punctuation = strings.NewReplacer("?", " ", "!", " ", ".", " ", ",", " ")

// Responder selects a reply by scanning its rules in order.
type Responder struct {
	rules      []Rule
	tellMeMore string
	fallback   string
}

// Option customises a Responder.
type Option func(*Responder)

// WithTellMeMore overrides the reply for short unmatched input.
func WithTellMeMore(reply string) Option {
	return func(r *Responder) { r.tellMeMore = reply }
}

// WithFallback overrides the generic reply for unmatched input.
func WithFallback(reply string) Option {
	return func(r *Responder) { r.fallback = reply }
}

// New builds a Responder over a copy of rules. Triggers are lowercased and
// empty triggers dropped, since an empty substring matches every input.
func New(rules []Rule, opts ...Option) *Responder {
	r := &Responder{
		rules:      make([]Rule, 0, len(rules)),
		tellMeMore: TellMeMoreReply,
		fallback:   FallbackReply,
	}
	for _, rule := range rules {
		triggers := make([]string, 0, len(rule.Triggers))
		for _, trigger := range rule.Triggers {
			if trigger == "" {
				continue
			}
			triggers = append(triggers, strings.ToLower(trigger))
		}
		r.rules = append(r.rules, Rule{Name: rule.Name, Triggers: triggers, Response: rule.Response})
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Default returns a Responder over DefaultRules.
func Default() *Responder {
	return defaultResponder
}

var defaultResponder = New(DefaultRules())

// Reply answers raw with the default phrase table.
func Reply(raw string) string {
	return defaultResponder.Reply(raw)
}

// Reply returns the response of the first rule with a trigger contained in
// the normalised input. Unmatched input shorter than MinInputLength runes
// gets the tell-me-more reply, anything else the fallback.
func (r *Responder) Reply(raw string) string {
	if rule, ok := r.Match(raw); ok {
		return rule.Response
	}
	if utf8.RuneCountInString(raw) < MinInputLength {
		return r.tellMeMore
	}
	return r.fallback
}

// Match reports the first rule triggered by raw.
func (r *Responder) Match(raw string) (Rule, bool) {
	normalized := Normalize(raw)
	for _, rule := range r.rules {
		for _, trigger := range rule.Triggers {
			if strings.Contains(normalized, trigger) {
				return rule, true
			}
		}
	}
	return Rule{}, false
}

// Normalize lowercases raw and replaces ? ! . , with spaces.
func Normalize(raw string) string {
	return punctuation.Replace(strings.ToLower(raw))
}
