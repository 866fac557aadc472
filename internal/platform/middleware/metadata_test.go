package middleware

import (
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestClientIPFromRequest(t *testing.T) {
	t.Run("connecting IP header wins", func(t *testing.T) {
		r := httptest.NewRequest("POST", "/spores", nil)
		r.Header.Set("CF-Connecting-IP", "203.0.113.7")
		r.Header.Set("X-Forwarded-For", "198.51.100.4, 10.0.0.1")

		assert.Equal(t, "203.0.113.7", ClientIPFromRequest(r))
	})

	t.Run("falls back to first forwarded hop", func(t *testing.T) {
		r := httptest.NewRequest("POST", "/spores", nil)
		r.Header.Set("X-Forwarded-For", "198.51.100.4, 10.0.0.1, 10.0.0.2")

		assert.Equal(t, "198.51.100.4", ClientIPFromRequest(r))
	})

	t.Run("single forwarded address", func(t *testing.T) {
		r := httptest.NewRequest("POST", "/spores", nil)
		r.Header.Set("X-Forwarded-For", "198.51.100.4")

		assert.Equal(t, "198.51.100.4", ClientIPFromRequest(r))
	})

	t.Run("no headers yields unknown", func(t *testing.T) {
		r := httptest.NewRequest("POST", "/spores", nil)

		assert.Equal(t, UnknownClientIP, ClientIPFromRequest(r))
	})
}
