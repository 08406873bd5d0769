// SPDX-FileCopyrightText: 2026 Deutsche Telekom AG
//
// SPDX-License-Identifier: Apache-2.0

package mail

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/telekom/series-registry/pkg/config"
	"github.com/telekom/series-registry/pkg/system"
)

func TestService_DisabledWithoutTransport(t *testing.T) {
	svc := NewService(config.Mail{}, testRegistry, system.NewTestLogger())
	assert.False(t, svc.IsEnabled())
	assert.NoError(t, svc.Notify(context.Background(), KindSubscriberSubscribe, "anna@example.org", ""))
}

func TestService_ReloadEnablesTransport(t *testing.T) {
	host, port, data, stop := startTestSMTPServer(t)
	defer stop()

	svc := NewService(config.Mail{}, testRegistry, system.NewTestLogger())
	require.False(t, svc.IsEnabled())

	svc.Reload(config.Mail{Host: host, Port: port, From: "fb@example.org"})
	require.True(t, svc.IsEnabled())

	require.NoError(t, svc.Notify(context.Background(), KindSubscriberSubscribe, "anna@example.org", "Kardiologie"))
	raw := <-data
	assert.Contains(t, raw, "Subject: [Kardiologie] Anmeldung bestaetigt")
	assert.Contains(t, raw, "To: anna@example.org")
}

func TestService_ReloadDisablesTransport(t *testing.T) {
	svc := NewService(config.Mail{Host: "smtp.example.com"}, testRegistry, system.NewTestLogger())
	require.True(t, svc.IsEnabled())

	svc.Reload(config.Mail{})
	assert.False(t, svc.IsEnabled())
}

func TestService_DeliveryFailureIsReturned(t *testing.T) {
	svc := NewService(config.Mail{Host: "127.0.0.1", Port: closedPort(t)}, testRegistry, system.NewTestLogger())
	err := svc.Notify(context.Background(), KindSubscriberSubscribe, "anna@example.org", "")
	var de *DeliveryError
	assert.ErrorAs(t, err, &de)
}
