package mail

import (
	"bytes"
	"embed"
	"fmt"
	"strings"
	"text/template"
	"time"

	"github.com/Masterminds/sprig/v3"
)

//go:embed templates/*.txt
var templateFS embed.FS

// Kind identifies one of the notification messages.
type Kind string

const (
	KindOwnerSubscribe        Kind = "owner-subscribe"
	KindSubscriberSubscribe   Kind = "subscriber-subscribe"
	KindOwnerUnsubscribe      Kind = "owner-unsubscribe"
	KindSubscriberUnsubscribe Kind = "subscriber-unsubscribe"
)

// ToOwner reports whether messages of this kind go to the owner address
// rather than to the subscriber.
func (k Kind) ToOwner() bool {
	return k == KindOwnerSubscribe || k == KindOwnerUnsubscribe
}

// Message is a rendered plain-text email.
type Message struct {
	From    string
	To      string
	Subject string
	Text    string
}

// Params carries the values substituted into a notification.
type Params struct {
	// Email is the subscriber address the notification is about.
	Email string
	// Series is the series title as supplied; empty falls back to the defaults below.
	Series        string
	DefaultSeries string
	SubjectTag    string
	From          string
	Owner         string
	SentAt        time.Time
}

type kindSpec struct {
	subject  string
	template string
}

var kinds = map[Kind]kindSpec{
	KindOwnerSubscribe:        {subject: "Neue Anmeldung", template: "owner_subscribe.txt"},
	KindSubscriberSubscribe:   {subject: "Anmeldung bestaetigt", template: "subscriber_subscribe.txt"},
	KindOwnerUnsubscribe:      {subject: "Abmeldung", template: "owner_unsubscribe.txt"},
	KindSubscriberUnsubscribe: {subject: "Abmeldung bestaetigt", template: "subscriber_unsubscribe.txt"},
}

var templates = template.Must(
	template.New("mail").Funcs(sprig.TxtFuncMap()).ParseFS(templateFS, "templates/*.txt"),
)

var subjectTemplate = template.Must(
	template.New("subject").Funcs(sprig.TxtFuncMap()).Parse(`[{{ .Series | default .SubjectTag }}] {{ .Suffix }}`),
)

// BuildMessage renders the notification of the given kind. Owner kinds are
// addressed to p.Owner, subscriber kinds to p.Email.
func BuildMessage(kind Kind, p Params) (Message, error) {
	spec, ok := kinds[kind]
	if !ok {
		return Message{}, fmt.Errorf("unknown notification kind %q", kind)
	}

	var subject bytes.Buffer
	if err := subjectTemplate.Execute(&subject, struct {
		Params
		Suffix string
	}{p, spec.subject}); err != nil {
		return Message{}, fmt.Errorf("render subject for %s: %w", kind, err)
	}

	var body bytes.Buffer
	if err := templates.ExecuteTemplate(&body, spec.template, p); err != nil {
		return Message{}, fmt.Errorf("render body for %s: %w", kind, err)
	}

	to := p.Email
	if kind.ToOwner() {
		to = p.Owner
	}
	return Message{
		From:    p.From,
		To:      to,
		Subject: subject.String(),
		Text:    strings.TrimRight(body.String(), "\n"),
	}, nil
}
