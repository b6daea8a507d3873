package bootstrap

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/linguahub/lingua-ui/config"
)

func testConfig() *config.AppConfig {
	return &config.AppConfig{
		IsDev: true,
		Auth: config.AuthConfig{
			Mode:          config.AuthModeDemo,
			SessionSecret: "test-secret-0123456789abcdef0123",
			SessionMaxAge: 720 * time.Hour,
			Verification: config.VerificationConfig{
				Mode:    config.VerifyModeLocal,
				CodeTTL: 60 * time.Second,
			},
		},
		HTTP: config.HTTPConfig{
			Addr:    ":0",
			BaseURL: "http://localhost:8080",
		},
	}
}

func testRedis(t *testing.T) *redis.Client {
	t.Helper()
	mr := miniredis.RunT(t)
	return redis.NewClient(&redis.Options{Addr: mr.Addr()})
}

func TestBuildServicesDemoMode(t *testing.T) {
	container, err := BuildServices(context.Background(), BuildServicesInput{
		Config: testConfig(),
		Redis:  testRedis(t),
	})

	require.NoError(t, err)
	assert.NotNil(t, container.Auth)
	assert.NotNil(t, container.Verifier)
	assert.NotNil(t, container.Codec)
	assert.NotNil(t, container.Auditor)
	assert.Nil(t, container.API)
}

func TestBuildServicesPostgresModeRequiresDB(t *testing.T) {
	cfg := testConfig()
	cfg.Auth.Mode = config.AuthModePostgres

	_, err := BuildServices(context.Background(), BuildServicesInput{
		Config: cfg,
		Redis:  testRedis(t),
	})

	require.Error(t, err)
	assert.Contains(t, err.Error(), "database")
}

func TestBuildServicesRemoteVerifyRequiresAPI(t *testing.T) {
	cfg := testConfig()
	cfg.Auth.Verification.Mode = config.VerifyModeRemote

	_, err := BuildServices(context.Background(), BuildServicesInput{
		Config: cfg,
		Redis:  testRedis(t),
	})

	require.Error(t, err)
	assert.Contains(t, err.Error(), "learning API")
}

func TestBuildServicesLocalVerifyRequiresRedis(t *testing.T) {
	_, err := BuildServices(context.Background(), BuildServicesInput{
		Config: testConfig(),
	})

	require.Error(t, err)
	assert.Contains(t, err.Error(), "redis")
}

func TestBuildServicesRemoteVerification(t *testing.T) {
	cfg := testConfig()
	cfg.Auth.Verification.Mode = config.VerifyModeRemote
	cfg.LearnAPI.BaseURL = "https://api.example.com"
	cfg.LearnAPI.Timeout = 5 * time.Second

	container, err := BuildServices(context.Background(), BuildServicesInput{
		Config: cfg,
		Redis:  testRedis(t),
	})

	require.NoError(t, err)
	assert.NotNil(t, container.API)
	assert.NotNil(t, container.Verifier)
}

func TestBuildSessionCodecRejectsEmptySecret(t *testing.T) {
	cfg := testConfig()
	cfg.Auth.SessionSecret = ""

	_, err := BuildSessionCodec(cfg)

	assert.Error(t, err)
}
