package integration_test

import (
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/google/go-cmp/cmp/cmpopts"
	"github.com/stretchr/testify/require"
)

// volatileKeys change on every request, so outcome bodies are compared without them.
var volatileKeys = map[string]struct{}{
	"requestId":        {},
	"timestamp":        {},
	"holdExpiresAtUtc": {},
}

var ignoreVolatileKeys = cmpopts.IgnoreMapEntries(func(key string, _ any) bool {
	_, volatile := volatileKeys[key]
	return volatile
})

func prepareRequest(method, path string, body io.Reader, headers map[string]string) (*http.Request, error) {
	req := httptest.NewRequest(method, path, body)

	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	for name, value := range headers {
		req.Header.Set(name, value)
	}

	return req, nil
}

// compareResponse checks an outcome body against the expected JSON document.
func compareResponse(t *testing.T, body io.Reader, expectedResponse string) {
	t.Helper()

	var got, want map[string]any
	require.NoError(t, json.NewDecoder(body).Decode(&got))
	require.NoError(t, json.Unmarshal([]byte(expectedResponse), &want), "expected response is not valid JSON")

	if diff := cmp.Diff(want, got, ignoreVolatileKeys); diff != "" {
		t.Errorf("outcome mismatch (-want +got):\n%s", diff)
	}
}
