// SPDX-FileCopyrightText: 2026 Deutsche Telekom AG
//
// SPDX-License-Identifier: Apache-2.0

package store

import (
	"bytes"
	"encoding/json"
	"fmt"
	"time"
)

// TimestampLayout is the ISO-8601 form used for new createdAt values in the
// durable file.
const TimestampLayout = "2006-01-02T15:04:05.000Z07:00"

// Subscriber is the only persisted entity. Email is the unique key and is
// compared by exact string equality.
//
// Entries read from disk remember their stored createdAt text and any
// fields this version does not know, so saving a loaded list rewrites those
// entries unchanged.
type Subscriber struct {
	Email       string    `json:"email"`
	SeriesTitle string    `json:"seriesTitle"`
	CreatedAt   time.Time `json:"createdAt"`

	storedCreatedAt json.RawMessage
	parsedCreatedAt time.Time
	extra           []member
}

type member struct {
	key   string
	value json.RawMessage
}

// CreatedAtText is createdAt as it is written to disk: the stored text for
// entries read from disk and not modified since, otherwise the UTC
// millisecond form. It is empty when no timestamp is known.
func (s Subscriber) CreatedAtText() string {
	if raw, ok := s.storedTimestamp(); ok {
		var text string
		if err := json.Unmarshal(raw, &text); err == nil {
			return text
		}
		return string(raw)
	}
	if s.CreatedAt.IsZero() {
		return ""
	}
	return s.CreatedAt.UTC().Format(TimestampLayout)
}

func (s Subscriber) storedTimestamp() (json.RawMessage, bool) {
	if s.storedCreatedAt == nil || !s.CreatedAt.Equal(s.parsedCreatedAt) {
		return nil, false
	}
	return s.storedCreatedAt, true
}

// MarshalJSON writes email, seriesTitle and createdAt followed by any
// unknown fields in the order they were read. New timestamps are written in
// UTC with millisecond precision.
func (s Subscriber) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte('{')
	if err := writeMember(&buf, "email", s.Email); err != nil {
		return nil, err
	}
	buf.WriteByte(',')
	if err := writeMember(&buf, "seriesTitle", s.SeriesTitle); err != nil {
		return nil, err
	}
	if raw, ok := s.storedTimestamp(); ok {
		buf.WriteString(`,"createdAt":`)
		buf.Write(raw)
	} else if !s.CreatedAt.IsZero() {
		buf.WriteByte(',')
		if err := writeMember(&buf, "createdAt", s.CreatedAt.UTC().Format(TimestampLayout)); err != nil {
			return nil, err
		}
	}
	for _, m := range s.extra {
		buf.WriteByte(',')
		if err := writeMember(&buf, m.key, m.value); err != nil {
			return nil, err
		}
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}

func writeMember(buf *bytes.Buffer, key string, value any) error {
	k, err := json.Marshal(key)
	if err != nil {
		return err
	}
	v, err := json.Marshal(value)
	if err != nil {
		return err
	}
	buf.Write(k)
	buf.WriteByte(':')
	buf.Write(v)
	return nil
}

// UnmarshalJSON reads one entry. A createdAt that is not an RFC 3339 string
// leaves CreatedAt at the zero time but is kept for the next save.
func (s *Subscriber) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if bytes.Equal(data, []byte("null")) {
		return nil
	}

	dec := json.NewDecoder(bytes.NewReader(data))
	tok, err := dec.Token()
	if err != nil {
		return err
	}
	if delim, ok := tok.(json.Delim); !ok || delim != '{' {
		return fmt.Errorf("subscriber entry must be an object, got %s", data)
	}

	*s = Subscriber{}
	for dec.More() {
		tok, err := dec.Token()
		if err != nil {
			return err
		}
		key, _ := tok.(string)
		var value json.RawMessage
		if err := dec.Decode(&value); err != nil {
			return err
		}
		switch key {
		case "email":
			err = json.Unmarshal(value, &s.Email)
		case "seriesTitle":
			err = json.Unmarshal(value, &s.SeriesTitle)
		case "createdAt":
			s.storedCreatedAt = value
			s.CreatedAt = parseTimestamp(value)
			s.parsedCreatedAt = s.CreatedAt
		default:
			s.extra = append(s.extra, member{key: key, value: value})
		}
		if err != nil {
			return fmt.Errorf("field %s: %w", key, err)
		}
	}
	_, err = dec.Token()
	return err
}

func parseTimestamp(raw json.RawMessage) time.Time {
	var text string
	if err := json.Unmarshal(raw, &text); err != nil || text == "" {
		return time.Time{}
	}
	t, err := time.Parse(time.RFC3339Nano, text)
	if err != nil {
		return time.Time{}
	}
	return t
}

// Emails returns the addresses of the given subscribers in order.
func Emails(list []Subscriber) []string {
	out := make([]string, 0, len(list))
	for _, s := range list {
		out = append(out, s.Email)
	}
	return out
}

// Find returns the index of the entry with the exact email, or -1.
func Find(list []Subscriber, email string) int {
	for i, s := range list {
		if s.Email == email {
			return i
		}
	}
	return -1
}

// Without returns a new slice without the entries matching email.
func Without(list []Subscriber, email string) []Subscriber {
	out := make([]Subscriber, 0, len(list))
	for _, s := range list {
		if s.Email != email {
			out = append(out, s)
		}
	}
	return out
}
