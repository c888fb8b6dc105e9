package main

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sells-group/plan-advisor/internal/config"
)

func TestRootCommand_HasSubcommands(t *testing.T) {
	names := make(map[string]bool)
	for _, c := range rootCmd.Commands() {
		names[c.Name()] = true
	}

	for _, name := range []string{"serve", "recommend", "catalog"} {
		assert.True(t, names[name], "expected subcommand %q not found", name)
	}
}

func TestRootCommand_Metadata(t *testing.T) {
	assert.Equal(t, "plan-advisor", rootCmd.Use)
	assert.NotEmpty(t, rootCmd.Short)
	assert.NotEmpty(t, rootCmd.Long)
}

func TestServeCommand_Flags(t *testing.T) {
	flag := serveCmd.Flags().Lookup("port")
	require.NotNil(t, flag, "serve command should have --port flag")
	assert.Equal(t, "0", flag.DefValue)
}

func TestRecommendCommand_Flags(t *testing.T) {
	for _, name := range []string{"answers", "age", "gender", "daily-amount"} {
		assert.NotNil(t, recommendCmd.Flags().Lookup(name), "recommend should have --%s flag", name)
	}
	assert.Equal(t, "-", recommendCmd.Flags().Lookup("answers").DefValue)
}

func TestCatalogCommand_Flags(t *testing.T) {
	flag := catalogCmd.Flags().Lookup("json")
	require.NotNil(t, flag)
	assert.Equal(t, "false", flag.DefValue)
}

// testConfig mirrors the loader defaults.
func testConfig() *config.Config {
	return &config.Config{
		Anthropic: config.AnthropicConfig{
			Key:         "test-key",
			Model:       "claude-haiku-4-5-20251001",
			MaxTokens:   800,
			Temperature: 0.2,
		},
		Advisor: config.AdvisorConfig{
			SelectorTimeoutSecs: 20,
			BreakerThreshold:    5,
			BreakerResetSecs:    30,
		},
		Server: config.ServerConfig{
			Port:           8080,
			AllowedOrigins: []string{"*"},
		},
		Monitoring: config.MonitoringConfig{
			CheckIntervalSecs:     300,
			FallbackRateThreshold: 0.5,
			MinRequests:           10,
		},
		Log: config.LogConfig{Level: "info", Format: "json"},
	}
}
