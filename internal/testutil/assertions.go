package testutil

import (
	"encoding/json"
	"io"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// AssertStatusCode verifies the HTTP response status code
func AssertStatusCode(t *testing.T, resp *http.Response, expected int) {
	t.Helper()
	assert.Equal(t, expected, resp.StatusCode, "unexpected status code")
}

// AssertJSONResponse decodes JSON response into v
func AssertJSONResponse(t *testing.T, resp *http.Response, v interface{}) {
	t.Helper()

	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err, "failed to read response body")

	err = json.Unmarshal(body, v)
	require.NoError(t, err, "failed to unmarshal response: %s", string(body))
}

// AssertEnvelope verifies status, the code field mirroring it, and the message
func AssertEnvelope(t *testing.T, resp *http.Response, expectedStatus int, expectedMessage string) Envelope {
	t.Helper()

	assert.Equal(t, expectedStatus, resp.StatusCode, "unexpected status code")

	var env Envelope
	AssertJSONResponse(t, resp, &env)
	assert.Equal(t, expectedStatus, env.Code, "code field must mirror the status")
	if expectedMessage != "" {
		assert.Equal(t, expectedMessage, env.Message, "message mismatch")
	}
	return env
}
