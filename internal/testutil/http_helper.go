// Copyright (c) 2024 BlockSocial
//
// This software is released under the MIT License.
// https://opensource.org/licenses/MIT

package testutil

import (
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/require"

	"github.com/blocksocial/api/internal/types"
)

// HTTPHelper drives a fiber app through app.Test with less boilerplate.
type HTTPHelper struct {
	app *fiber.App
}

// NewHTTPHelper creates an HTTPHelper around app.
func NewHTTPHelper(app *fiber.App) *HTTPHelper {
	return &HTTPHelper{app: app}
}

// Request performs a request against the app. A non-empty token is sent as a
// bearer credential; a non-empty body is sent as JSON.
func (h *HTTPHelper) Request(t *testing.T, method, path, body, token string) *http.Response {
	t.Helper()

	var reader io.Reader
	if body != "" {
		reader = strings.NewReader(body)
	}
	req := httptest.NewRequest(method, path, reader)
	if body != "" {
		req.Header.Set(types.HeaderContentType, "application/json")
	}
	if token != "" {
		req.Header.Set(types.HeaderAuthorization, types.BearerPrefix+token)
	}

	resp, err := h.app.Test(req)
	require.NoError(t, err)
	return resp
}

// DecodeJSON unmarshals the response body into out.
func (h *HTTPHelper) DecodeJSON(t *testing.T, resp *http.Response, out interface{}) {
	t.Helper()

	raw, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	require.NoError(t, json.Unmarshal(raw, out))
}
