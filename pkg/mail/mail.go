// SPDX-FileCopyrightText: 2026 Deutsche Telekom AG
//
// SPDX-License-Identifier: Apache-2.0

package mail

import (
	"crypto/tls"
	"fmt"
	"net/url"
	"strconv"
	"strings"

	"go.uber.org/zap"
	"gopkg.in/gomail.v2"

	"github.com/telekom/series-registry/pkg/config"
)

const implicitTLSPort = 465

// Sender delivers a single rendered message.
type Sender interface {
	Send(msg Message) error
	GetHost() string
	GetPort() int
}

type sender struct {
	dialer *gomail.Dialer
}

// NewSender returns a Sender backed by a gomail dialer. Authentication is
// only attempted when user is non-empty.
func NewSender(host string, port int, user, password string, secure, insecureSkipVerify bool) Sender {
	return newSender(host, port, user, password, secure, insecureSkipVerify)
}

func newSender(host string, port int, user, password string, secure, insecureSkipVerify bool) *sender {
	d := gomail.NewDialer(host, port, user, password)
	d.SSL = secure || port == implicitTLSPort
	if insecureSkipVerify {
		d.TLSConfig = &tls.Config{InsecureSkipVerify: true, ServerName: host}
	}
	return &sender{dialer: d}
}

// BuildTransport resolves the configured transport. It returns nil when
// neither an SMTP URL nor a host is configured, or when the URL is unusable.
func BuildTransport(cfg config.Mail, log *zap.SugaredLogger) Sender {
	if !cfg.Configured() {
		log.Debug("No SMTP URL or host configured")
		return nil
	}
	if cfg.URL != "" {
		s, err := senderFromURL(cfg.URL, cfg.InsecureSkipVerify)
		if err != nil {
			log.Warnw("Ignoring unusable SMTP URL, mail disabled", "error", err)
			return nil
		}
		log.Infow("Mail transport configured from URL", "host", s.GetHost(), "port", s.GetPort(), "implicitTLS", s.isSecure())
		return s
	}
	port := cfg.Port
	if port <= 0 {
		port = config.DefaultSMTPPort
	}
	s := newSender(cfg.Host, port, cfg.User, cfg.Password, cfg.Secure, cfg.InsecureSkipVerify)
	log.Infow("Mail transport configured", "host", cfg.Host, "port", port, "auth", cfg.User != "", "implicitTLS", s.isSecure())
	return s
}

func senderFromURL(raw string, insecureSkipVerify bool) (*sender, error) {
	u, err := url.Parse(raw)
	if err != nil {
		return nil, fmt.Errorf("parse SMTP URL: %w", err)
	}
	var secure bool
	switch strings.ToLower(u.Scheme) {
	case "smtp":
	case "smtps":
		secure = true
	default:
		return nil, fmt.Errorf("unsupported SMTP URL scheme %q", u.Scheme)
	}
	host := u.Hostname()
	if host == "" {
		return nil, fmt.Errorf("SMTP URL has no host")
	}
	port := config.DefaultSMTPPort
	if secure {
		port = implicitTLSPort
	}
	if p := u.Port(); p != "" {
		port, err = strconv.Atoi(p)
		if err != nil || port <= 0 {
			return nil, fmt.Errorf("invalid SMTP URL port %q", p)
		}
	}
	if v, _ := strconv.ParseBool(u.Query().Get("secure")); v {
		secure = true
	}
	var user, password string
	if u.User != nil {
		user = u.User.Username()
		password, _ = u.User.Password()
	}
	return newSender(host, port, user, password, secure, insecureSkipVerify), nil
}

func (s *sender) Send(msg Message) error {
	m := gomail.NewMessage()
	m.SetHeader("From", msg.From)
	m.SetHeader("To", msg.To)
	m.SetHeader("Subject", msg.Subject)
	m.SetBody("text/plain", msg.Text)
	return s.dialer.DialAndSend(m)
}

func (s *sender) GetHost() string {
	return s.dialer.Host
}

func (s *sender) GetPort() int {
	return s.dialer.Port
}

// isSecure reports whether the dialer uses implicit TLS.
func (s *sender) isSecure() bool {
	return s.dialer.SSL
}
