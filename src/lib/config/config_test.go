package config_test

import (
	"os"
	"testing"
	"time"

	"github.com/relaypoint-io/relaypoint/src/lib/config"
	"github.com/relaypoint-io/relaypoint/src/lib/errors"
	"github.com/stretchr/testify/suite"
)

type PackageSuite struct {
	suite.Suite

	appSecret string
}

func (s *PackageSuite) BeforeTest(_, _ string) {
	s.appSecret = "gS9u8RZ*3^7^3*jRfDdnTVv9@rrqqr#5"

	os.Setenv("RELAYPOINT_APP_SECRET", s.appSecret)
	config.Reset()
}

func (s *PackageSuite) AfterTest(_, _ string) {
	os.Unsetenv("RELAYPOINT_APP_SECRET")
	os.Unsetenv("RELAYPOINT_SIGNING_BACKEND")
	os.Unsetenv("RELAYPOINT_SIGNING_ALGORITHM")
	os.Unsetenv("RELAYPOINT_HTTP_READ_TIMEOUT")
	os.Unsetenv("RELAYPOINT_ALLOWED_ORIGINS")
	config.Reset()
}

func (s *PackageSuite) Test_Defaults() {
	c := config.Get()

	s.Equal(config.EnvTest, c.Env)
	s.Equal("8080", c.HTTPPort)
	s.Equal(s.appSecret, c.Signing.Secret)
	s.Equal(config.SigningBackendTimestamp, c.Signing.Backend)
	s.Equal(config.DefaultSigningSalt, c.Signing.Salt)
	s.Equal("sha1", c.Signing.Algorithm)
	s.Equal(30*time.Second, c.HTTPTimeouts.ReadTimeout)
	s.False(c.Tracking.Prometheus)
	s.Empty(c.AllowedOrigins)
	s.True(config.IsTest())
}

func (s *PackageSuite) Test_Overrides() {
	os.Setenv("RELAYPOINT_SIGNING_BACKEND", "jwt")
	os.Setenv("RELAYPOINT_SIGNING_ALGORITHM", "SHA256")
	os.Setenv("RELAYPOINT_HTTP_READ_TIMEOUT", "5s")
	os.Setenv("RELAYPOINT_ALLOWED_ORIGINS", "^https://app\\.example\\.org$, ,^http://localhost:[0-9]+$")

	c, err := config.Load()

	s.NoError(err)
	s.Equal(config.SigningBackendJWT, c.Signing.Backend)
	s.Equal("sha256", c.Signing.Algorithm)
	s.Equal(5*time.Second, c.HTTPTimeouts.ReadTimeout)
	s.Equal([]string{"^https://app\\.example\\.org$", "^http://localhost:[0-9]+$"}, c.AllowedOrigins)
}

func (s *PackageSuite) Test_InvalidBackend() {
	os.Setenv("RELAYPOINT_SIGNING_BACKEND", "rot13")

	_, err := config.Load()

	s.Error(err)
	s.True(errors.Is(err, errors.ErrorTypeConfiguration))
}

func (s *PackageSuite) Test_ShortSecretOutsideTests() {
	c, err := config.Load()
	s.NoError(err)

	c.Env = config.EnvProduction
	c.Signing.Secret = "too-short"

	err = c.Validate()
	s.Error(err)
	s.Contains(err.Error(), "at least 32 characters")
}

func TestPackages(t *testing.T) {
	suite.Run(t, &PackageSuite{})
}
