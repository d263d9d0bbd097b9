// © Copyright 2025-2026, Query.Farm LLC - https://query.farm
// SPDX-License-Identifier: Apache-2.0

package getjson

import (
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHandler(t *testing.T) {
	ts := httptest.NewServer(newTestServer(t).Handler())
	defer ts.Close()

	tests := []struct {
		path        string
		status      int
		body        string
		contentType string
	}{
		{"/ping", http.StatusOK, `"pong"`, ContentTypeJSON},
		{"/widgets/2?verbose=true", http.StatusOK, `{"id":2,"name":"widget","verbose":true}`, ContentTypeJSON},
		{"/absent", http.StatusNotFound, "", ""},
		{"/widgets/two", http.StatusInternalServerError, "", ""},
		{"/fail", http.StatusInternalServerError, "", ""},
	}
	for _, tt := range tests {
		t.Run(tt.path, func(t *testing.T) {
			resp, err := http.Get(ts.URL + tt.path)
			require.NoError(t, err)
			defer resp.Body.Close()
			body, err := io.ReadAll(resp.Body)
			require.NoError(t, err)

			assert.Equal(t, tt.status, resp.StatusCode)
			assert.Equal(t, tt.body, string(body))
			if tt.contentType != "" {
				assert.Equal(t, tt.contentType, resp.Header.Get("Content-Type"))
			}
		})
	}
}

func TestHandlerRejectsOtherMethods(t *testing.T) {
	h := newTestServer(t).Handler()
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/ping", strings.NewReader("{}")))

	assert.Equal(t, http.StatusMethodNotAllowed, rec.Code)
	assert.Equal(t, http.MethodGet, rec.Header().Get("Allow"))
	assert.Empty(t, rec.Body.String())
}

func TestHandlerPassesHeadersToHooks(t *testing.T) {
	s := newTestServer(t)
	hook := &recordingHook{name: "rec"}
	s.SetDispatchHook(hook)

	req := httptest.NewRequest(http.MethodGet, "/echo?msg=a%20b", nil)
	req.Header.Set("Traceparent", "00-abc-def-01")
	req.Header.Set("User-Agent", "tester")
	rec := httptest.NewRecorder()
	s.Handler().ServeHTTP(rec, req)

	assert.Equal(t, `"a%20b"`, rec.Body.String())
	require.Len(t, hook.starts, 1)
	md := hook.starts[0].TransportMetadata
	assert.Equal(t, "00-abc-def-01", md["traceparent"])
	assert.Equal(t, "tester", md[MetaUserAgent])
	assert.Equal(t, "192.0.2.1:1234", md[MetaRemoteAddr])
}
