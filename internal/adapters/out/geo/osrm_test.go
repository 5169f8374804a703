package geo_test

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"dispatch/internal/adapters/out/geo"
	"dispatch/internal/core/domain/model/kernel"
	"dispatch/internal/core/ports"
	"dispatch/internal/pkg/errs"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func mustLocation(t *testing.T, lat, lng float64) kernel.Location {
	t.Helper()
	l, err := kernel.NewLocation(lat, lng)
	require.NoError(t, err)
	return l
}

func TestOSRMClient_Distance(t *testing.T) {
	from := mustLocation(t, -6.1754, 106.8272)
	to := mustLocation(t, -6.2607, 106.8137)

	t.Run("should request the driving route and read the first route", func(t *testing.T) {
		var gotPath, gotQuery string
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			gotPath = r.URL.Path
			gotQuery = r.URL.RawQuery
			w.Header().Set("Content-Type", "application/json")
			_, _ = w.Write([]byte(`{"code":"Ok","routes":[{"distance":12345.6,"duration":1500.2},{"distance":1,"duration":1}]}`))
		}))
		defer server.Close()

		client, err := geo.NewOSRMClient(server.URL+"/", server.Client())
		require.NoError(t, err)

		route, err := client.Distance(t.Context(), from, to)

		require.NoError(t, err)
		assert.Equal(t, "/route/v1/driving/106.8272,-6.1754;106.8137,-6.2607", gotPath)
		assert.Equal(t, "overview=false", gotQuery)
		assert.InDelta(t, 12345.6, route.Meters, 1e-9)
		assert.InDelta(t, 1500.2, route.Seconds, 1e-9)
		assert.False(t, route.Estimated)
	})

	failures := []struct {
		name    string
		status  int
		payload string
	}{
		{"server error", http.StatusInternalServerError, `{"code":"Error","message":"boom"}`},
		{"no route code", http.StatusBadRequest, `{"code":"NoRoute","message":"Impossible route"}`},
		{"empty routes", http.StatusOK, `{"code":"Ok","routes":[]}`},
		{"garbage body", http.StatusOK, `<html>`},
	}
	for _, tt := range failures {
		t.Run("should report unavailable on "+tt.name, func(t *testing.T) {
			server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
				w.WriteHeader(tt.status)
				_, _ = w.Write([]byte(tt.payload))
			}))
			defer server.Close()

			client, err := geo.NewOSRMClient(server.URL, server.Client())
			require.NoError(t, err)

			_, err = client.Distance(t.Context(), from, to)

			assert.ErrorIs(t, err, ports.ErrDistanceProviderUnavailable)
		})
	}

	t.Run("should honour the context deadline", func(t *testing.T) {
		release := make(chan struct{})
		server := httptest.NewServer(http.HandlerFunc(func(_ http.ResponseWriter, _ *http.Request) {
			<-release
		}))
		defer server.Close()
		defer close(release)

		client, err := geo.NewOSRMClient(server.URL, server.Client())
		require.NoError(t, err)
		ctx, cancel := context.WithTimeout(t.Context(), 50*time.Millisecond)
		defer cancel()

		_, err = client.Distance(ctx, from, to)

		assert.ErrorIs(t, err, ports.ErrDistanceProviderUnavailable)
		assert.ErrorIs(t, err, context.DeadlineExceeded)
	})

	t.Run("should report unreachable server", func(t *testing.T) {
		server := httptest.NewServer(http.NotFoundHandler())
		url := server.URL
		server.Close()

		client, err := geo.NewOSRMClient(url, nil)
		require.NoError(t, err)

		_, err = client.Distance(t.Context(), from, to)

		assert.ErrorIs(t, err, ports.ErrDistanceProviderUnavailable)
	})
}

func TestNewOSRMClient_InvalidURL(t *testing.T) {
	for _, raw := range []string{"", "router.local", "://bad"} {
		_, err := geo.NewOSRMClient(raw, nil)
		assert.ErrorIs(t, err, errs.ErrValueIsInvalid, raw)
	}
}
