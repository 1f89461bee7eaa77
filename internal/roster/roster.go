// Package roster renders an event's attendee list into the announcement message.
// It does no I/O; username lookups are supplied by the caller.
package roster

import (
	"cmp"
	"fmt"
	"slices"
	"strconv"
	"strings"

	"rsvpbot/internal/domain"
)

// Delimiter separates the event description from the rendered list.
const Delimiter = "Предварительный состав:"

const guestPrefix = "   └─ "

// escape covers what Telegram HTML parse mode requires; quotes stay literal.
var escape = strings.NewReplacer("&", "&amp;", "<", "&lt;", ">", "&gt;")

// Order returns attendees sorted sponsor first, each followed by their guests, then by id.
// Name-only rows have no sponsor key and sort after everyone else, the way postgres
// places NULLs last in ascending order. The input slice is not modified.
func Order(attendees []*domain.Attendee) []*domain.Attendee {
	out := slices.Clone(attendees)
	slices.SortStableFunc(out, func(a, b *domain.Attendee) int {
		ka, okA := groupKey(a)
		kb, okB := groupKey(b)
		switch {
		case okA && !okB:
			return -1
		case !okA && okB:
			return 1
		}
		if c := cmp.Compare(ka, kb); c != 0 {
			return c
		}
		if c := cmp.Compare(guestRank(a), guestRank(b)); c != 0 {
			return c
		}
		return cmp.Compare(a.ID, b.ID)
	})
	return out
}

func groupKey(a *domain.Attendee) (int64, bool) {
	switch a.Kind {
	case domain.Guest:
		return a.SponsorID, true
	case domain.SelfRegistered:
		return a.UserID, true
	default:
		return 0, false
	}
}

func guestRank(a *domain.Attendee) int {
	if a.IsGuest() {
		return 1
	}
	return 0
}

// Lines renders one line per attendee in the given order. The running index counts
// non-guest rows only. usernames maps platform user ids to handles without the "@".
func Lines(attendees []*domain.Attendee, usernames map[int64]string) []string {
	lines := make([]string, 0, len(attendees))
	index := 0
	for _, a := range attendees {
		if a.IsGuest() {
			lines = append(lines, guestPrefix+escape.Replace(a.Name))
			continue
		}
		index++
		line := strconv.Itoa(index) + ". " + escape.Replace(a.Name)
		if a.Kind == domain.SelfRegistered {
			if u := usernames[a.UserID]; u != "" {
				line += " (@" + escape.Replace(u) + ")"
			}
		}
		lines = append(lines, line)
	}
	return lines
}

// Total renders the bold attendee count line.
func Total(n int) string {
	return fmt.Sprintf("<b>Всего участников: %d</b>", n)
}

// Format orders the attendees and renders the list block including the total line.
func Format(attendees []*domain.Attendee, usernames map[int64]string) string {
	lines := Lines(Order(attendees), usernames)
	if len(lines) == 0 {
		// No blank separator without lines: the total follows the delimiter directly.
		return Total(0)
	}
	return strings.Join(lines, "\n") + "\n\n" + Total(len(attendees))
}

// Compose builds the full announcement text from a description and a rendered list.
func Compose(description, list string) string {
	return strings.TrimSpace(description) + "\n\n" + Delimiter + "\n" + list
}

// SplitDescription extracts the description from an already rendered announcement.
// Text without a rendered list is returned trimmed as a whole.
func SplitDescription(text string) string {
	desc, _, _ := strings.Cut(text, "\n\n"+Delimiter)
	return strings.TrimSpace(desc)
}

// Callback actions carried in inline button data as "action:eventID".
const (
	ActionRegister   = "register"
	ActionUnregister = "unregister"
	ActionGuest      = "guest"
	ActionUnguest    = "unguest"
)

// Button captions.
const (
	ButtonRegister   = "👍 Записаться"
	ButtonUnregister = "🚫 Отменить запись"
	ButtonGuest      = "➕ Гость"
	ButtonUnguest    = "➖ Гость"
)

// CallbackData encodes an action for the given event.
func CallbackData(action string, eventID int64) string {
	return action + ":" + strconv.FormatInt(eventID, 10)
}

// ParseCallback splits "action:eventID". It reports false for malformed payloads.
func ParseCallback(data string) (action string, eventID int64, ok bool) {
	action, rawID, found := strings.Cut(data, ":")
	if !found || action == "" {
		return "", 0, false
	}
	id, err := strconv.ParseInt(rawID, 10, 64)
	if err != nil || id <= 0 {
		return "", 0, false
	}
	return action, id, true
}

// Keyboard returns the announcement keyboard for an event. It depends only on the id,
// so it can be rebuilt on every edit.
func Keyboard(eventID int64) *domain.Keyboard {
	return &domain.Keyboard{
		Rows: [][]domain.Button{
			{
				{Text: ButtonRegister, Data: CallbackData(ActionRegister, eventID)},
				{Text: ButtonUnregister, Data: CallbackData(ActionUnregister, eventID)},
			},
			{
				{Text: ButtonGuest, Data: CallbackData(ActionGuest, eventID)},
				{Text: ButtonUnguest, Data: CallbackData(ActionUnguest, eventID)},
			},
		},
	}
}
