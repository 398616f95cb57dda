package files

import (
	"context"
	"strings"
	"testing"
	"time"

	"blob-gateway/core/storage"
	"blob-gateway/core/storage/memstore"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func memoryConfig() storage.Config {
	return storage.Config{
		Driver:             storage.DriverMemory,
		PublicContainer:    "pub",
		ProtectedContainer: "prot",
		SignedURLTTL:       time.Hour,
		StreamBufferBytes:  1024,
	}
}

func TestOpen(t *testing.T) {
	ctx := context.Background()

	t.Run("Memory", func(t *testing.T) {
		cfg := memoryConfig()
		cfg.ConnectionString = "BaseURL=http://files.local/"
		svc, err := Open(ctx, cfg, zap.NewNop())
		require.NoError(t, err)

		res, err := svc.Upload(ctx, strings.NewReader("x"), "a.txt")
		require.NoError(t, err)
		assert.Equal(t, "http://files.local/pub/a.txt", res.URL)
		assert.Equal(t, 1024, svc.streamBuffer)
	})

	t.Run("UnknownDriver", func(t *testing.T) {
		cfg := memoryConfig()
		cfg.Driver = "ftp"
		_, err := Open(ctx, cfg, zap.NewNop())

		var cfgErr *storage.ConfigError
		require.ErrorAs(t, err, &cfgErr)
		assert.Equal(t, "driver", cfgErr.Field)
		assert.ErrorIs(t, err, storage.ErrUnknownDriver)
	})

	t.Run("MalformedAzure", func(t *testing.T) {
		cfg := memoryConfig()
		cfg.Driver = storage.DriverAzure
		cfg.ConnectionString = "not a connection string"
		_, err := Open(ctx, cfg, zap.NewNop())
		assert.ErrorIs(t, err, storage.ErrMalformedConnectionString)
	})

	t.Run("S3MissingRegion", func(t *testing.T) {
		cfg := memoryConfig()
		cfg.Driver = storage.DriverS3
		cfg.ConnectionString = "AccessKeyId=a;SecretAccessKey=b"
		_, err := Open(ctx, cfg, zap.NewNop())
		assert.ErrorIs(t, err, storage.ErrMalformedConnectionString)
	})

	t.Run("EmptyContainer", func(t *testing.T) {
		cfg := memoryConfig()
		cfg.ProtectedContainer = ""
		_, err := Open(ctx, cfg, zap.NewNop())
		assert.ErrorIs(t, err, storage.ErrEmptyContainer)
	})
}

func TestVerifyContainer(t *testing.T) {
	ctx := context.Background()

	t.Run("Exists", func(t *testing.T) {
		v := &fakeVerifier{Container: memstore.NewContainer("c", ""), exists: true}
		require.NoError(t, verifyContainer(ctx, v, false, zap.NewNop()))
		assert.False(t, v.created)
	})

	t.Run("MissingWithoutCreate", func(t *testing.T) {
		v := &fakeVerifier{Container: memstore.NewContainer("c", "")}
		err := verifyContainer(ctx, v, false, zap.NewNop())
		assert.ErrorIs(t, err, storage.ErrContainerMissing)
	})

	t.Run("MissingWithCreate", func(t *testing.T) {
		v := &fakeVerifier{Container: memstore.NewContainer("c", "")}
		require.NoError(t, verifyContainer(ctx, v, true, zap.NewNop()))
		assert.True(t, v.created)
	})

	t.Run("ExistsError", func(t *testing.T) {
		v := &fakeVerifier{Container: memstore.NewContainer("c", ""), existsErr: assert.AnError}
		assert.ErrorIs(t, verifyContainer(ctx, v, true, zap.NewNop()), assert.AnError)
	})

	t.Run("NotAVerifier", func(t *testing.T) {
		assert.NoError(t, verifyContainer(ctx, memstore.NewContainer("c", ""), false, zap.NewNop()))
	})
}

func TestFeature(t *testing.T) {
	f := NewFeature(nil)
	assert.Equal(t, "files", f.Name())
	assert.False(t, f.IsEnabled())

	svc, _, _ := setupTestService()
	f = NewFeature(svc)
	assert.True(t, f.IsEnabled())

	app := fiber.New()
	require.NoError(t, f.Load(app))
	assert.NotEmpty(t, app.GetRoutes())
}

func TestVerifyContainers(t *testing.T) {
	ctx := context.Background()

	t.Run("BothMissingNamesPublic", func(t *testing.T) {
		for i := 0; i < 20; i++ {
			public := &fakeVerifier{Container: memstore.NewContainer("pub", "")}
			protected := &fakeVerifier{Container: memstore.NewContainer("prot", "")}

			err := verifyContainers(ctx, public, protected, false, zap.NewNop())
			var cfgErr *storage.ConfigError
			require.ErrorAs(t, err, &cfgErr)
			assert.Equal(t, "public_container", cfgErr.Field)
			assert.ErrorIs(t, err, storage.ErrContainerMissing)
		}
	})

	t.Run("ProtectedMissing", func(t *testing.T) {
		public := &fakeVerifier{Container: memstore.NewContainer("pub", ""), exists: true}
		protected := &fakeVerifier{Container: memstore.NewContainer("prot", "")}

		err := verifyContainers(ctx, public, protected, false, zap.NewNop())
		var cfgErr *storage.ConfigError
		require.ErrorAs(t, err, &cfgErr)
		assert.Equal(t, "protected_container", cfgErr.Field)
	})

	t.Run("CreatesBoth", func(t *testing.T) {
		public := &fakeVerifier{Container: memstore.NewContainer("pub", "")}
		protected := &fakeVerifier{Container: memstore.NewContainer("prot", "")}

		require.NoError(t, verifyContainers(ctx, public, protected, true, zap.NewNop()))
		assert.True(t, public.created)
		assert.True(t, protected.created)
	})
}
