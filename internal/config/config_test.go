package config_test

import (
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/tartampluch/go-lifestory/internal/config"
)

// TestConstants_Integrity ensures critical constants are not empty or malformed.
func TestConstants_Integrity(t *testing.T) {
	tests := []struct {
		name  string
		value string
	}{
		{"AppName", config.AppName},
		{"AppID", config.AppID},
		{"Version", config.Version},
		{"UserAgent", config.UserAgent},
		{"ICalVersion", config.ICalVersion},
		{"ICalProdid", config.ICalProdid},
		{"VCardVersion", config.VCardVersion},
		{"UIDNamespace", config.UIDNamespace},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.NotEmpty(t, tt.value, "Critical constant %s should not be empty", tt.name)
		})
	}
}

// TestDefaults_Sanity checks that the birth year band and defaults are coherent.
func TestDefaults_Sanity(t *testing.T) {
	assert.Equal(t, 1946, config.MinYear)
	assert.Equal(t, 2012, config.MaxYear)
	assert.Less(t, config.MinYear, config.MaxYear)
	assert.Equal(t, int64(3900000), config.DefaultCohortSize)
	assert.Greater(t, config.MaxMilestoneYear, config.MaxYear+60, "Milestones up to the sixties must fit")
}

// TestUserAgent_Format ensures the UA string follows the standard format.
func TestUserAgent_Format(t *testing.T) {
	assert.True(t, strings.HasPrefix(config.UserAgent, "Go-LifeStory/"), "UserAgent must start with AppName/")
}

// TestTimeoutsAndLimits ensures that operational constraints are reasonable.
func TestTimeoutsAndLimits(t *testing.T) {
	t.Parallel()

	assert.Greater(t, config.HTTPTimeout, 0*time.Second, "HTTPTimeout must be positive")
	assert.LessOrEqual(t, config.HTTPTimeout, 2*time.Minute, "HTTPTimeout should not be excessively long")
	assert.Greater(t, config.ShutdownTimeout, 0*time.Second, "ShutdownTimeout must be positive")
	assert.Greater(t, config.MaxHTTPResponseSize, 0, "MaxHTTPResponseSize must be positive")
	assert.Less(t, config.RetryInitialInterval, config.RetryMaxInterval)
	assert.Greater(t, config.RetryMaxAttempts, 0)
}
