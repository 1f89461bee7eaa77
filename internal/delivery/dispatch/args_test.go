package dispatch

import (
	"testing"

	"github.com/go-playground/validator/v10"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseCommand(t *testing.T) {
	tests := []struct {
		name     string
		text     string
		wantName string
		wantArgs string
		wantOK   bool
	}{
		{name: "plain", text: "/start", wantName: "start", wantOK: true},
		{name: "mixed case", text: "/AddPlayer Bob Smith", wantName: "addplayer", wantArgs: "Bob Smith", wantOK: true},
		{name: "addressed to us", text: "/help@RSVP_Bot", wantName: "help", wantOK: true},
		{name: "addressed elsewhere", text: "/help@other_bot", wantOK: false},
		{name: "newline separated args", text: "/notifyall\nGame moved", wantName: "notifyall", wantArgs: "Game moved", wantOK: true},
		{name: "not a command", text: "hello /start", wantOK: false},
		{name: "bare slash", text: "/", wantOK: false},
		{name: "empty", text: "", wantOK: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			name, args, ok := ParseCommand(tt.text, "rsvp_bot")
			assert.Equal(t, tt.wantOK, ok)
			assert.Equal(t, tt.wantName, name)
			assert.Equal(t, tt.wantArgs, args)
		})
	}
}

func TestParseEventArgs(t *testing.T) {
	tests := []struct {
		name     string
		raw      string
		wantDesc string
		wantMax  int
		wantErr  error
	}{
		{name: "quoted description", raw: `"Football, Sunday 10:00" 14`, wantDesc: "Football, Sunday 10:00", wantMax: 14},
		{name: "unquoted description", raw: "Volleyball at the park 8", wantDesc: "Volleyball at the park", wantMax: 8},
		{name: "multiline description", raw: "Match\nBring water\n10", wantDesc: "Match\nBring water", wantMax: 10},
		{name: "capacity only", raw: "10", wantMax: 10},
		{name: "negative capacity", raw: "Match -3", wantDesc: "Match", wantMax: -3},
		{name: "missing capacity", raw: "Match tomorrow", wantErr: errNotANumber},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			args, err := parseEventArgs(tt.raw)
			if tt.wantErr != nil {
				require.ErrorIs(t, err, tt.wantErr)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.wantDesc, args.Description)
			assert.Equal(t, tt.wantMax, args.MaxAttendees)
		})
	}
}

func TestValidationText(t *testing.T) {
	v := validator.New(validator.WithRequiredStructEnabled())

	err := v.Struct(playerArgs{Name: ""})
	require.Error(t, err)
	assert.Equal(t, TextInvalidAddCommand, validationText(err, TextInvalidAddCommand))

	err = v.Struct(textArgs{Text: string(make([]rune, 3001))})
	require.Error(t, err)
	field, tag := failedRule(err)
	assert.Equal(t, "Text", field)
	assert.Equal(t, "max", tag)
	assert.Equal(t, TextInputTooLong, validationText(err, TextNotificationNeeded))

	err = v.Struct(maxArgs{Max: 0})
	require.Error(t, err)
	assert.Equal(t, TextInvalidNumber, validationText(err, TextInvalidNumber))
}
