// Copyright (C) 2026 Ben Grimm. Licensed under AGPL-3.0 (https://www.gnu.org/licenses/agpl-3.0.txt)

package metrics

import (
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestCollector_ObserveVerifyUpdatesRegistry(t *testing.T) {
	c := NewCollector()
	c.ObserveVerify(true, 2*time.Millisecond)
	c.ObserveVerify(false, 5*time.Millisecond)
	c.SetFirewallSize(7)
	c.ObserveAdd(nil)

	req := httptest.NewRequest("GET", "/metrics", nil)
	rec := httptest.NewRecorder()
	c.Handler().ServeHTTP(rec, req)

	require.Equal(t, 200, rec.Code)
	body := rec.Body.String()
	require.Contains(t, body, "portcullis_verify_total")
	require.Contains(t, body, `result="match"`)
	require.Contains(t, body, `result="mismatch"`)
	require.Contains(t, body, "portcullis_firewall_size 7")
}
