package clientip

import (
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestFromRequest(t *testing.T) {
	t.Run("takes the first entry of a forwarded chain", func(t *testing.T) {
		r := httptest.NewRequest("GET", "/", nil)
		r.Header.Set("X-Forwarded-For", "203.0.113.7, 70.41.3.18, 150.172.238.178")

		ip, ok := FromRequest(r)

		assert.True(t, ok)
		assert.Equal(t, "203.0.113.7", ip)
	})

	t.Run("prefers X-Forwarded-For over the other headers", func(t *testing.T) {
		r := httptest.NewRequest("GET", "/", nil)
		r.Header.Set("X-Forwarded-For", "203.0.113.7")
		r.Header.Set("X-Real-Ip", "198.51.100.1")
		r.Header.Set("Cf-Connecting-Ip", "192.0.2.44")

		ip, ok := FromRequest(r)

		assert.True(t, ok)
		assert.Equal(t, "203.0.113.7", ip)
	})

	t.Run("falls through headers carrying private addresses", func(t *testing.T) {
		r := httptest.NewRequest("GET", "/", nil)
		r.Header.Set("X-Forwarded-For", "10.1.2.3")
		r.Header.Set("X-Real-Ip", "198.51.100.1")

		ip, ok := FromRequest(r)

		assert.True(t, ok)
		assert.Equal(t, "198.51.100.1", ip)
	})

	t.Run("falls back to RemoteAddr", func(t *testing.T) {
		r := httptest.NewRequest("GET", "/", nil)
		r.RemoteAddr = "198.51.100.1:44321"

		ip, ok := FromRequest(r)

		assert.True(t, ok)
		assert.Equal(t, "198.51.100.1", ip)
	})

	t.Run("no public candidate anywhere", func(t *testing.T) {
		r := httptest.NewRequest("GET", "/", nil)
		r.Header.Set("X-Forwarded-For", "192.168.0.10")
		r.RemoteAddr = "127.0.0.1:9999"

		ip, ok := FromRequest(r)

		assert.False(t, ok)
		assert.Empty(t, ip)
	})

	t.Run("literal unknown is not an address", func(t *testing.T) {
		r := httptest.NewRequest("GET", "/", nil)
		r.Header.Set("X-Forwarded-For", "unknown, 198.51.100.1")
		r.RemoteAddr = "10.0.0.1:1234"

		_, ok := FromRequest(r)

		// Only the first chain entry is considered.
		assert.False(t, ok)
	})
}

func TestIsPublic(t *testing.T) {
	public := []string{
		"8.8.8.8",
		"198.51.100.1",
		// Outside 172.16.0.0/12, public despite the 172 prefix.
		"172.15.255.255",
		"172.32.0.1",
		"172.100.50.2",
		"2606:4700:4700::1111",
	}
	for _, ip := range public {
		assert.True(t, isPublic(ip), ip)
	}

	private := []string{
		"10.0.0.1",
		"172.16.0.1",
		"172.31.255.255",
		"192.168.1.1",
		"127.0.0.1",
		"169.254.1.1",
		"0.0.0.0",
		"::1",
		"fc00::1",
		"fe80::1",
		"unknown",
		"",
		"not-an-ip",
		"999.1.1.1",
	}
	for _, ip := range private {
		assert.False(t, isPublic(ip), ip)
	}
}
