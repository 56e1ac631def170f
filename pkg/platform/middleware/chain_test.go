package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"questify/pkg/requestcontext"
)

func TestClientMetadataParsesUserAgent(t *testing.T) {
	var device requestcontext.Device
	var parsed bool
	next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		device, parsed = requestcontext.ClientDevice(r.Context())
	})

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("User-Agent", "Mozilla/5.0 (X11; Linux x86_64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/120.0.0.0 Safari/537.36")
	ClientMetadata(next).ServeHTTP(httptest.NewRecorder(), req)

	require.True(t, parsed)
	assert.Equal(t, "Chrome", device.Browser)
	assert.Contains(t, device.OS, "Linux")
	assert.False(t, device.Mobile)
}

func TestClientMetadataWithoutUserAgent(t *testing.T) {
	var parsed bool
	next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, parsed = requestcontext.ClientDevice(r.Context())
	})

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Del("User-Agent")
	ClientMetadata(next).ServeHTTP(httptest.NewRecorder(), req)

	assert.False(t, parsed)
}
