package bot

import (
	"errors"
	"fmt"
	"slices"

	"github.com/titansbeer/titans-linebot-go/internal/stringutil"
)

// TriggerSet is an immutable set of phrases selecting one command.
// Phrases are stored normalized; matching is exact.
type TriggerSet struct {
	command Command
	phrases []string
	index   map[string]struct{}
}

// NewTriggerSet builds a trigger set for cmd. Phrases are normalized and
// blank or duplicate phrases are dropped.
func NewTriggerSet(cmd Command, phrases ...string) TriggerSet {
	s := TriggerSet{command: cmd, index: make(map[string]struct{}, len(phrases))}
	for _, p := range phrases {
		n := Normalize(p)
		if n == "" {
			continue
		}
		if _, dup := s.index[n]; dup {
			continue
		}
		s.index[n] = struct{}{}
		s.phrases = append(s.phrases, n)
	}
	return s
}

// Command returns the command selected by the set.
func (s TriggerSet) Command() Command { return s.command }

// Phrases returns the normalized phrases in declaration order.
func (s TriggerSet) Phrases() []string { return slices.Clone(s.phrases) }

// Matches reports whether normalized text is one of the set's phrases.
func (s TriggerSet) Matches(normalized string) bool {
	_, ok := s.index[normalized]
	return ok
}

// Normalize prepares text for trigger matching: width folding (ＢＥＥＲ is
// beer), lowercasing, trimming and collapsing inner whitespace runs to one
// space ("my  beers" is "my beers").
func Normalize(text string) string {
	return stringutil.NormalizeKeyword(text)
}

// DefaultTriggers returns the built-in trigger table in priority order.
// The menu comes first: it is the most common and most expensive command.
func DefaultTriggers() []TriggerSet {
	return []TriggerSet{
		NewTriggerSet(CommandMenu, "beer", "ビール", "びーる", "🍺", "🍻"),
		NewTriggerSet(CommandSize, "size", "サイズ"),
		NewTriggerSet(CommandStaff, "staff"),
		NewTriggerSet(CommandHagehige, "hagehige"),
		NewTriggerSet(CommandProfileYurie, "yurie", "ゆりえ", "ユリエ"),
		NewTriggerSet(CommandProfileAdam, "adam", "アダム"),
		NewTriggerSet(CommandSavedBeers, "my beers", "mybeers", "my list", "saved", "⭐"),
	}
}

// ValidateTriggers checks that every set is bound to a routable command,
// no command has two sets, no set is empty and no phrase belongs to two
// sets. All problems are reported together.
func ValidateTriggers(sets []TriggerSet) error {
	var errs []error
	seen := make(map[Command]bool, len(sets))
	owner := make(map[string]Command)

	for i, s := range sets {
		if !s.command.Valid() {
			errs = append(errs, fmt.Errorf("trigger set %d: invalid command %s", i, s.command))
		}
		if seen[s.command] {
			errs = append(errs, fmt.Errorf("trigger set %d: command %s already has a trigger set", i, s.command))
		}
		seen[s.command] = true

		if len(s.phrases) == 0 {
			errs = append(errs, fmt.Errorf("trigger set %d (%s): no phrases", i, s.command))
		}
		for _, p := range s.phrases {
			if prev, ok := owner[p]; ok {
				errs = append(errs, fmt.Errorf("phrase %q bound to both %s and %s", p, prev, s.command))
				continue
			}
			owner[p] = s.command
		}
	}
	return errors.Join(errs...)
}
