package roster

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"rsvpbot/internal/domain"
)

func self(id, userID int64, name string) *domain.Attendee {
	return &domain.Attendee{ID: id, EventID: 1, Kind: domain.SelfRegistered, UserID: userID, Name: name}
}

func nameOnly(id int64, name string) *domain.Attendee {
	return &domain.Attendee{ID: id, EventID: 1, Kind: domain.NameOnly, Name: name}
}

func guest(id, sponsorID int64, sponsorName string) *domain.Attendee {
	return &domain.Attendee{ID: id, EventID: 1, Kind: domain.Guest, SponsorID: sponsorID, Name: domain.GuestName(sponsorName)}
}

func ids(attendees []*domain.Attendee) []int64 {
	out := make([]int64, len(attendees))
	for i, a := range attendees {
		out[i] = a.ID
	}
	return out
}

func TestOrder(t *testing.T) {
	tests := []struct {
		name  string
		input []*domain.Attendee
		want  []int64
	}{
		{
			name:  "empty",
			input: nil,
			want:  []int64{},
		},
		{
			name: "guest follows sponsor even when inserted earlier than another sponsor",
			input: []*domain.Attendee{
				self(1, 200, "B"),
				self(2, 100, "A"),
				guest(3, 200, "B"),
				guest(4, 100, "A"),
			},
			want: []int64{2, 4, 1, 3},
		},
		{
			name: "name only rows sort last by id",
			input: []*domain.Attendee{
				nameOnly(5, "Z"),
				self(6, 300, "C"),
				nameOnly(2, "Y"),
			},
			want: []int64{6, 2, 5},
		},
		{
			name: "several guests keep id order",
			input: []*domain.Attendee{
				guest(9, 100, "A"),
				guest(7, 100, "A"),
				self(8, 100, "A"),
			},
			want: []int64{8, 7, 9},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Order(tt.input)
			assert.Equal(t, tt.want, ids(got))
		})
	}
}

func TestOrder_DoesNotMutateInput(t *testing.T) {
	input := []*domain.Attendee{self(2, 200, "B"), self(1, 100, "A")}
	_ = Order(input)
	assert.Equal(t, []int64{2, 1}, ids(input))
}

func TestFormat(t *testing.T) {
	tests := []struct {
		name      string
		attendees []*domain.Attendee
		usernames map[int64]string
		want      string
	}{
		{
			name: "empty list shows only the total",
			want: "<b>Всего участников: 0</b>",
		},
		{
			name: "indexes skip guests and total counts them",
			attendees: []*domain.Attendee{
				self(1, 100, "Anna"),
				guest(2, 100, "Anna"),
				nameOnly(3, "Ivan"),
			},
			usernames: map[int64]string{100: "anna"},
			want: "1. Anna (@anna)\n" +
				"   └─ Anna's +1\n" +
				"2. Ivan\n" +
				"\n<b>Всего участников: 3</b>",
		},
		{
			name:      "missing username renders without suffix",
			attendees: []*domain.Attendee{self(1, 100, "Anna"), self(2, 200, "Petr")},
			usernames: map[int64]string{200: "petr"},
			want:      "1. Anna\n2. Petr (@petr)\n\n<b>Всего участников: 2</b>",
		},
		{
			name:      "names are escaped",
			attendees: []*domain.Attendee{nameOnly(1, "<Bob & Co>")},
			want:      "1. &lt;Bob &amp; Co&gt;\n\n<b>Всего участников: 1</b>",
		},
		{
			name:      "quotes stay literal",
			attendees: []*domain.Attendee{self(1, 100, `O'Neil "Jr"`), guest(2, 100, `O'Neil "Jr"`)},
			want:      "1. O'Neil \"Jr\"\n   └─ O'Neil \"Jr\"'s +1\n\n<b>Всего участников: 2</b>",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Format(tt.attendees, tt.usernames))
		})
	}
}

func TestFormat_IsIdempotent(t *testing.T) {
	attendees := []*domain.Attendee{self(2, 200, "B"), guest(3, 200, "B"), nameOnly(1, "N")}
	usernames := map[int64]string{200: "bee"}
	assert.Equal(t, Format(attendees, usernames), Format(attendees, usernames))
}

func TestComposeAndSplit(t *testing.T) {
	list := Format([]*domain.Attendee{nameOnly(1, "Ivan")}, nil)
	text := Compose("  Football, Sunday 10:00 \n", list)

	require.Equal(t, "Football, Sunday 10:00\n\nПредварительный состав:\n1. Ivan\n\n<b>Всего участников: 1</b>", text)
	assert.Equal(t, "Football, Sunday 10:00", SplitDescription(text))
	assert.Equal(t, "Just a description", SplitDescription("Just a description\n"))
}

func TestParseCallback(t *testing.T) {
	tests := []struct {
		data       string
		wantAction string
		wantID     int64
		wantOK     bool
	}{
		{data: "register:12", wantAction: ActionRegister, wantID: 12, wantOK: true},
		{data: "unguest:7", wantAction: ActionUnguest, wantID: 7, wantOK: true},
		{data: "register:", wantOK: false},
		{data: "register", wantOK: false},
		{data: ":5", wantOK: false},
		{data: "register:abc", wantOK: false},
		{data: "register:-1", wantOK: false},
	}

	for _, tt := range tests {
		t.Run(tt.data, func(t *testing.T) {
			action, id, ok := ParseCallback(tt.data)
			require.Equal(t, tt.wantOK, ok)
			assert.Equal(t, tt.wantAction, action)
			assert.Equal(t, tt.wantID, id)
		})
	}
}

func TestKeyboard(t *testing.T) {
	kb := Keyboard(42)
	require.Len(t, kb.Rows, 2)
	assert.Equal(t, domain.Button{Text: ButtonRegister, Data: "register:42"}, kb.Rows[0][0])
	assert.Equal(t, domain.Button{Text: ButtonUnregister, Data: "unregister:42"}, kb.Rows[0][1])
	assert.Equal(t, "guest:42", kb.Rows[1][0].Data)
	assert.Equal(t, "unguest:42", kb.Rows[1][1].Data)
	assert.Equal(t, kb, Keyboard(42))
}
