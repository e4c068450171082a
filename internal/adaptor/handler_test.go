package adaptor

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"theater-booking/pkg/utils"

	"github.com/stretchr/testify/require"
)

type envelope struct {
	Status  bool              `json:"status"`
	Message string            `json:"message"`
	Code    string            `json:"code"`
	Data    json.RawMessage   `json:"data"`
	Errors  map[string]string `json:"errors"`
}

func newRequest(t *testing.T, method, url string, body any) *http.Request {
	t.Helper()

	var buf bytes.Buffer
	if body != nil {
		raw, ok := body.(string)
		if !ok {
			require.NoError(t, json.NewEncoder(&buf).Encode(body))
		} else {
			buf.WriteString(raw)
		}
	}

	r := httptest.NewRequest(method, url, &buf)
	r.Header.Set("Content-Type", "application/json")
	return r
}

func asCaller(r *http.Request, username, role string) *http.Request {
	return r.WithContext(utils.SetCallerContext(r.Context(), username, role))
}

func decodeEnvelope(t *testing.T, w *httptest.ResponseRecorder) envelope {
	t.Helper()

	var env envelope
	require.NoError(t, json.NewDecoder(w.Body).Decode(&env))
	return env
}
