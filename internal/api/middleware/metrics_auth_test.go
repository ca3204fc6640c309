package middleware

import (
	"encoding/base64"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func serveMetrics(t *testing.T, cfg *MetricsConfig, authHeader string) (*httptest.ResponseRecorder, error) {
	t.Helper()
	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, "/metrics", nil)
	if authHeader != "" {
		req.Header.Set(echo.HeaderAuthorization, authHeader)
	}
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	err := MetricsBasicAuth(cfg)(func(c echo.Context) error {
		return c.String(http.StatusOK, "metrics")
	})(c)
	return rec, err
}

func basic(user, pass string) string {
	return "Basic " + base64.StdEncoding.EncodeToString([]byte(user+":"+pass))
}

func TestMetricsBasicAuth(t *testing.T) {
	cfg := &MetricsConfig{User: "testuser", Password: "testpass"}

	t.Run("認証設定が無ければ素通し", func(t *testing.T) {
		rec, err := serveMetrics(t, &MetricsConfig{}, "")
		require.NoError(t, err)
		assert.Equal(t, http.StatusOK, rec.Code)
		assert.Equal(t, "metrics", rec.Body.String())
	})

	t.Run("正しい認証情報は通す", func(t *testing.T) {
		rec, err := serveMetrics(t, cfg, basic("testuser", "testpass"))
		require.NoError(t, err)
		assert.Equal(t, http.StatusOK, rec.Code)
	})

	t.Run("誤った認証情報は401", func(t *testing.T) {
		_, err := serveMetrics(t, cfg, basic("wronguser", "wrongpass"))
		var he *echo.HTTPError
		require.True(t, errors.As(err, &he))
		assert.Equal(t, http.StatusUnauthorized, he.Code)
	})

	t.Run("ヘッダーが無ければ401", func(t *testing.T) {
		_, err := serveMetrics(t, cfg, "")
		var he *echo.HTTPError
		require.True(t, errors.As(err, &he))
		assert.Equal(t, http.StatusUnauthorized, he.Code)
	})
}

func TestLoadMetricsConfig(t *testing.T) {
	tests := []struct {
		name        string
		user        string
		password    string
		wantEnabled bool
	}{
		{name: "両方設定あり", user: "user", password: "pass", wantEnabled: true},
		{name: "ユーザーのみ", user: "user", password: "", wantEnabled: false},
		{name: "パスワードのみ", user: "", password: "pass", wantEnabled: false},
		{name: "両方なし", user: "", password: "", wantEnabled: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Setenv("METRICS_USER", tt.user)
			t.Setenv("METRICS_PASSWORD", tt.password)

			cfg := LoadMetricsConfig()
			assert.Equal(t, tt.wantEnabled, cfg.IsEnabled())
		})
	}
}
