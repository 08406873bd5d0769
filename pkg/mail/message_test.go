package mail

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBuildMessage(t *testing.T) {
	sentAt := time.Date(2026, 3, 10, 17, 30, 0, 125_000_000, time.FixedZone("CET", 3600))
	base := Params{
		Email:         "anna@example.org",
		DefaultSeries: "Dienstagsfortbildung 2026",
		SubjectTag:    "Dienstagsfortbildung",
		From:          "no-reply@example.com",
		Owner:         "owner@example.org",
		SentAt:        sentAt,
	}

	tests := []struct {
		name   string
		kind   Kind
		series string
		want   Message
	}{
		{
			name:   "Owner subscribe",
			kind:   KindOwnerSubscribe,
			series: "Kardiologie",
			want: Message{
				From:    "no-reply@example.com",
				To:      "owner@example.org",
				Subject: "[Kardiologie] Neue Anmeldung",
				Text:    "Neue Anmeldung eingegangen:\nE-Mail: anna@example.org\nReihe: Kardiologie\nZeitpunkt: 2026-03-10T16:30:00.125Z",
			},
		},
		{
			name: "Subscriber subscribe with defaults",
			kind: KindSubscriberSubscribe,
			want: Message{
				From:    "no-reply@example.com",
				To:      "anna@example.org",
				Subject: "[Dienstagsfortbildung] Anmeldung bestaetigt",
				Text:    "Vielen Dank fuer Ihre Anmeldung zur Reihe \"Dienstagsfortbildung 2026\".\nIhre Adresse: anna@example.org\nZeitpunkt: 2026-03-10T16:30:00.125Z",
			},
		},
		{
			name:   "Owner unsubscribe",
			kind:   KindOwnerUnsubscribe,
			series: "Kardiologie",
			want: Message{
				From:    "no-reply@example.com",
				To:      "owner@example.org",
				Subject: "[Kardiologie] Abmeldung",
				Text:    "Abmeldung erfolgt:\nE-Mail: anna@example.org\nReihe: Kardiologie\nZeitpunkt: 2026-03-10T16:30:00.125Z",
			},
		},
		{
			name:   "Subscriber unsubscribe",
			kind:   KindSubscriberUnsubscribe,
			series: "Kardiologie",
			want: Message{
				From:    "no-reply@example.com",
				To:      "anna@example.org",
				Subject: "[Kardiologie] Abmeldung bestaetigt",
				Text: "Sie wurden erfolgreich von der Reihe \"Kardiologie\" abgemeldet.\n\n" +
					"Ihre Adresse: anna@example.org\nZeitpunkt: 2026-03-10T16:30:00.125Z\n\n" +
					"Wir hoffen, Sie bald wieder begrüßen zu dürfen!",
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := base
			p.Series = tt.series
			msg, err := BuildMessage(tt.kind, p)
			require.NoError(t, err)
			assert.Equal(t, tt.want, msg)
		})
	}
}

func TestBuildMessage_UnknownKind(t *testing.T) {
	_, err := BuildMessage(Kind("digest"), Params{})
	assert.ErrorContains(t, err, "unknown notification kind")
}

func TestKind_ToOwner(t *testing.T) {
	assert.True(t, KindOwnerSubscribe.ToOwner())
	assert.True(t, KindOwnerUnsubscribe.ToOwner())
	assert.False(t, KindSubscriberSubscribe.ToOwner())
	assert.False(t, KindSubscriberUnsubscribe.ToOwner())
}
