package dispatch

import (
	"errors"
	"strconv"
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/go-playground/validator/v10"
)

type eventArgs struct {
	Description  string `validate:"required,max=3000"`
	MaxAttendees int    `validate:"min=1,max=1000"`
}

type userIDArgs struct {
	UserID string `validate:"required,number,min=5,max=12"`
}

type playerArgs struct {
	Name string `validate:"required,max=64"`
}

type textArgs struct {
	Text string `validate:"required,max=3000"`
}

type maxArgs struct {
	Max int `validate:"min=1,max=1000"`
}

var errNotANumber = errors.New("not a number")

// parseEventArgs splits "<description…> <max>". The last whitespace-separated token is the
// capacity; double quotes are stripped from the description.
func parseEventArgs(raw string) (eventArgs, error) {
	raw = strings.TrimSpace(raw)
	desc, rawMax := "", raw
	if i := strings.LastIndexFunc(raw, unicode.IsSpace); i >= 0 {
		_, size := utf8.DecodeRuneInString(raw[i:])
		desc, rawMax = raw[:i], raw[i+size:]
	}
	n, err := strconv.Atoi(rawMax)
	if err != nil {
		return eventArgs{Description: desc}, errNotANumber
	}
	return eventArgs{
		Description:  strings.TrimSpace(strings.ReplaceAll(desc, `"`, "")),
		MaxAttendees: n,
	}, nil
}

func parseMaxArgs(raw string) (maxArgs, error) {
	n, err := strconv.Atoi(strings.TrimSpace(raw))
	if err != nil {
		return maxArgs{}, errNotANumber
	}
	return maxArgs{Max: n}, nil
}

// failedRule returns the field and tag of the first failed validation rule.
func failedRule(err error) (field, tag string) {
	var ve validator.ValidationErrors
	if errors.As(err, &ve) && len(ve) > 0 {
		return ve[0].Field(), ve[0].Tag()
	}
	return "", ""
}

// textFields are the free-text arguments whose length overflow gets its own reply.
var textFields = map[string]bool{"Description": true, "Name": true, "Text": true}

// validationText maps a validation failure to a reply, falling back for anything other
// than an over-long text argument.
func validationText(err error, fallback string) string {
	field, tag := failedRule(err)
	if tag == "max" && textFields[field] {
		return TextInputTooLong
	}
	return fallback
}
