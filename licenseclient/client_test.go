package licenseclient

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestStore(t *testing.T) Store {
	t.Helper()
	return NewFileStore(filepath.Join(t.TempDir(), "settings.json"))
}

func TestClient_Activate(t *testing.T) {
	ctx := context.Background()

	t.Run("SuccessPersistsToken", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			require.Equal(t, http.MethodPost, r.Method)
			require.Equal(t, "/api/v1/activate", r.URL.Path)

			var req map[string]any
			require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
			assert.Equal(t, "FA-TEST-0001", req["license_key"])
			assert.NotEmpty(t, req["hwid"])

			_ = json.NewEncoder(w).Encode(map[string]string{"token": "signed-token"})
		}))
		defer server.Close()

		store := newTestStore(t)
		client := NewClient(server.URL, store, WithFingerprint("a1b2c3"))

		token, err := client.Activate(ctx, "FA-TEST-0001", 2)

		require.NoError(t, err)
		assert.Equal(t, "signed-token", token)
		assert.Equal(t, "signed-token", client.SavedToken())
	})

	t.Run("DeviceLimitRejection", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.Header().Set("Content-Type", "application/json")
			w.WriteHeader(http.StatusForbidden)
			_ = json.NewEncoder(w).Encode(map[string]string{
				"error":   "forbidden",
				"message": "device limit reached",
			})
		}))
		defer server.Close()

		client := NewClient(server.URL, newTestStore(t), WithFingerprint("a1b2c3"))

		_, err := client.Activate(ctx, "FA-TEST-0001", 1)

		var rejection *RejectionError
		require.ErrorAs(t, err, &rejection)
		assert.Equal(t, http.StatusForbidden, rejection.StatusCode)
		assert.Equal(t, "device limit reached", rejection.Message)
		assert.Empty(t, client.SavedToken())
	})

	t.Run("UnreachableServerIsTransportError", func(t *testing.T) {
		store := newTestStore(t)
		client := NewClient("http://127.0.0.1:1", store, WithFingerprint("a1b2c3"))

		_, err := client.Activate(ctx, "FA-TEST-0001", 1)

		var transport *TransportError
		require.ErrorAs(t, err, &transport)
	})

	t.Run("FloorsDeviceLimit", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			var req map[string]any
			_ = json.NewDecoder(r.Body).Decode(&req)
			assert.Equal(t, float64(1), req["device_limit"])
			_ = json.NewEncoder(w).Encode(map[string]string{"token": "signed-token"})
		}))
		defer server.Close()

		client := NewClient(server.URL, newTestStore(t), WithFingerprint("a1b2c3"))

		_, err := client.Activate(ctx, "FA-TEST-0001", 0)
		require.NoError(t, err)
	})
}

func TestClient_Verify(t *testing.T) {
	ctx := context.Background()

	t.Run("ValidToken", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			require.Equal(t, "/api/v1/verify", r.URL.Path)
			require.Equal(t, "Bearer signed-token", r.Header.Get("Authorization"))
			_ = json.NewEncoder(w).Encode(map[string]bool{"ok": true})
		}))
		defer server.Close()

		client := NewClient(server.URL, newTestStore(t), WithFingerprint("a1b2c3"))

		assert.True(t, client.Verify(ctx, "signed-token"))
	})

	t.Run("RevokedToken", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			_ = json.NewEncoder(w).Encode(map[string]any{"ok": false, "message": "Revoked"})
		}))
		defer server.Close()

		client := NewClient(server.URL, newTestStore(t), WithFingerprint("a1b2c3"))

		assert.False(t, client.Verify(ctx, "signed-token"))
	})

	t.Run("EmptyToken", func(t *testing.T) {
		client := NewClient("http://127.0.0.1:1", newTestStore(t), WithFingerprint("a1b2c3"))

		assert.False(t, client.Verify(ctx, ""))
	})

	t.Run("UnreachableServerFailsClosed", func(t *testing.T) {
		client := NewClient("http://127.0.0.1:1", newTestStore(t), WithFingerprint("a1b2c3"))

		assert.False(t, client.Verify(ctx, "signed-token"))
	})
}

func TestClient_Deactivate(t *testing.T) {
	ctx := context.Background()

	t.Run("AcknowledgedAndClearsToken", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			require.Equal(t, "/api/v1/deactivate", r.URL.Path)
			_ = json.NewEncoder(w).Encode(map[string]bool{"ok": true})
		}))
		defer server.Close()

		store := newTestStore(t)
		require.NoError(t, store.Set(SettingLicenseToken, "signed-token"))
		client := NewClient(server.URL, store, WithFingerprint("a1b2c3"))

		assert.True(t, client.Deactivate(ctx, "signed-token"))
		assert.Empty(t, client.SavedToken())
	})

	t.Run("UnreachableServerStillClearsToken", func(t *testing.T) {
		store := newTestStore(t)
		require.NoError(t, store.Set(SettingLicenseToken, "signed-token"))
		client := NewClient("http://127.0.0.1:1", store, WithFingerprint("a1b2c3"))

		assert.False(t, client.Deactivate(ctx, "signed-token"))
		assert.Empty(t, client.SavedToken())
	})

	t.Run("EmptyTokenIsNoOp", func(t *testing.T) {
		client := NewClient("http://127.0.0.1:1", newTestStore(t), WithFingerprint("a1b2c3"))

		assert.True(t, client.Deactivate(ctx, ""))
	})
}

func TestClient_IsValid(t *testing.T) {
	ctx := context.Background()

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Header.Get("Authorization") == "Bearer saved-token" {
			_ = json.NewEncoder(w).Encode(map[string]bool{"ok": true})
			return
		}
		w.WriteHeader(http.StatusUnauthorized)
	}))
	defer server.Close()

	store := newTestStore(t)
	require.NoError(t, store.Set(SettingLicenseToken, "saved-token"))
	client := NewClient(server.URL, store, WithFingerprint("a1b2c3"))

	assert.True(t, client.IsValid(ctx))

	require.NoError(t, store.Set(SettingLicenseToken, ""))
	assert.False(t, client.IsValid(ctx))
}

func TestClient_BaseURLFromStore(t *testing.T) {
	store := newTestStore(t)
	require.NoError(t, store.Set(SettingAPIBase, "https://licensing.example.com/"))

	client := NewClient("", store, WithFingerprint("a1b2c3"))

	assert.Equal(t, "https://licensing.example.com", client.baseURL)
}
