package cmd

import (
	"net/http/httptest"
	"strings"
	"testing"

	"blob-gateway/core/middleware/auth"
	"blob-gateway/core/middleware/rayid"
	"blob-gateway/core/server"
	"blob-gateway/core/storage/memstore"
	"blob-gateway/feature/files"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func TestNewApp(t *testing.T) {
	svc := files.NewService(memstore.NewContainer("public", ""), memstore.NewContainer("protected", ""), zap.NewNop())
	app, err := newApp(server.Config{ApiKey: "secret"}, zap.NewNop(), files.NewFeature(svc))
	require.NoError(t, err)

	t.Run("HealthNeedsNoKey", func(t *testing.T) {
		resp, err := app.Test(httptest.NewRequest("GET", "/healthz", nil))
		require.NoError(t, err)
		assert.Equal(t, 200, resp.StatusCode)
		assert.NotEmpty(t, resp.Header.Get(rayid.HeaderName))
	})

	t.Run("FilesNeedKey", func(t *testing.T) {
		resp, err := app.Test(httptest.NewRequest("GET", "/files/a.txt/url?visibility=public", nil))
		require.NoError(t, err)
		assert.Equal(t, 401, resp.StatusCode)
	})

	t.Run("UploadWithKey", func(t *testing.T) {
		req := httptest.NewRequest("POST", "/files?filename=a.txt&visibility=public", strings.NewReader("hello"))
		req.Header.Set(auth.HeaderName, "secret")
		resp, err := app.Test(req)
		require.NoError(t, err)
		assert.Equal(t, 201, resp.StatusCode)
	})
}
