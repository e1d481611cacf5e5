package cmd_test

import (
	"encoding/json"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const (
	// testBinaryName is the name of the test binary for E2E tests.
	testBinaryName = "deezer-grabber-test"
)

const e2eBaseConfig = `
arl_token: "test_token_123"
quality: "320"
output_path: "/tmp/test-output"
download_speed_limit: "500KB"
log_level: "info"
track_filename_template: "{{.trackNumberPad}} - {{.trackTitle}}"
album_folder_template: "{{.releaseYear}} - {{.albumArtist}} - {{.albumTitle}}"
playlist_filename_template: "{{.trackNumberPad}} - {{.trackArtist}} - {{.trackTitle}}"
replace_tracks: false
max_folder_name_length: 100
retry_attempts_count: 3
max_download_pause: "5s"
min_retry_pause: "1s"
max_retry_pause: "3s"
max_concurrent_downloads: 1
`

// TestMain builds the binary before running E2E tests.
func TestMain(m *testing.M) {
	// Build the binary for testing.
	//nolint:noctx // TestMain doesn't have access to context, and build is needed before tests run.
	buildCmd := exec.Command("go", "build", "-o", testBinaryName, "../.")
	if err := buildCmd.Run(); err != nil {
		os.Exit(1)
	}

	// Run tests.
	code := m.Run()

	// Cleanup.
	_ = os.Remove(testBinaryName)

	os.Exit(code)
}

// TestE2E_FlagOverrides_Quality tests that --quality flag overrides config.
func TestE2E_FlagOverrides_Quality(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name            string
		flags           []string
		expectedQuality string
	}{
		{
			name:            "quality flag overrides to flac",
			flags:           []string{"--quality", "flac"},
			expectedQuality: "flac",
		},
		{
			name:            "quality flag overrides to 128",
			flags:           []string{"--quality", "128"},
			expectedQuality: "128",
		},
		{
			name:            "no quality flag uses config",
			flags:           []string{},
			expectedQuality: "320",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			// Create temp directory and config file.
			tempDir := t.TempDir()
			configPath := filepath.Join(tempDir, "test-config.yaml")
			err := os.WriteFile(configPath, []byte(e2eBaseConfig), 0o644) //nolint:gosec // It's a test file.
			require.NoError(t, err)

			// Run and get config dump.
			config := runWithConfigDump(t, configPath, tt.flags)
			require.NotNil(t, config, "Failed to get config dump")

			// Verify quality was set correctly.
			assert.Equal(t, tt.expectedQuality, config.Quality,
				"Quality should be %s", tt.expectedQuality)
		})
	}
}

// TestE2E_FlagOverrides_AllFlags tests all flags together.
//
//nolint:funlen // It's a comprehensive E2E test.
func TestE2E_FlagOverrides_AllFlags(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name             string
		flags            []string
		expectedQuality  string
		expectedOutput   string
		expectedSpeedLim string
		expectedDryRun   bool
	}{
		{
			name:             "no flags - use config",
			flags:            []string{},
			expectedQuality:  "320",
			expectedOutput:   "/tmp/test-output",
			expectedSpeedLim: "500KB",
			expectedDryRun:   false,
		},
		{
			name:             "quality only",
			flags:            []string{"--quality", "flac"},
			expectedQuality:  "flac",
			expectedOutput:   "/tmp/test-output",
			expectedSpeedLim: "500KB",
			expectedDryRun:   false,
		},
		{
			name:             "output only",
			flags:            []string{"--output", "/flag/output"},
			expectedQuality:  "320",
			expectedOutput:   "/flag/output",
			expectedSpeedLim: "500KB",
			expectedDryRun:   false,
		},
		{
			name:             "speed-limit only",
			flags:            []string{"--speed-limit", "1MB"},
			expectedQuality:  "320",
			expectedOutput:   "/tmp/test-output",
			expectedSpeedLim: "1MB",
			expectedDryRun:   false,
		},
		{
			name:             "dry-run only",
			flags:            []string{"--dry-run"},
			expectedQuality:  "320",
			expectedOutput:   "/tmp/test-output",
			expectedSpeedLim: "500KB",
			expectedDryRun:   true,
		},
		{
			name:             "all flags",
			flags:            []string{"--quality", "flac", "--output", "/all/flags", "--speed-limit", "2MB", "--dry-run"},
			expectedQuality:  "flac",
			expectedOutput:   "/all/flags",
			expectedSpeedLim: "2MB",
			expectedDryRun:   true,
		},
		{
			name:             "quality and output",
			flags:            []string{"--quality", "128", "--output", "/combo/output"},
			expectedQuality:  "128",
			expectedOutput:   "/combo/output",
			expectedSpeedLim: "500KB",
			expectedDryRun:   false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			// Create temp directory and config file.
			tempDir := t.TempDir()
			configPath := filepath.Join(tempDir, "test-config.yaml")
			err := os.WriteFile(configPath, []byte(e2eBaseConfig), 0o644) //nolint:gosec // It's a test file.
			require.NoError(t, err)

			// Run and get config dump.
			config := runWithConfigDump(t, configPath, tt.flags)
			require.NotNil(t, config, "Failed to get config dump")

			// Verify all expected values.
			assert.Equal(t, tt.expectedQuality, config.Quality,
				"Quality should be %s", tt.expectedQuality)
			assert.Equal(t, tt.expectedOutput, config.OutputPath,
				"Output path should be %s", tt.expectedOutput)
			assert.Equal(t, tt.expectedSpeedLim, config.DownloadSpeedLimit,
				"Speed limit should be %s", tt.expectedSpeedLim)
			assert.Equal(t, tt.expectedDryRun, config.DryRun,
				"Dry run should be %t", tt.expectedDryRun)
		})
	}
}

// TestE2E_FlagOverrides_InvalidValues tests that invalid flag values are rejected.
func TestE2E_FlagOverrides_InvalidValues(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name             string
		flags            []string
		expectedErrorMsg string
	}{
		{
			name:             "invalid quality - unknown tier",
			flags:            []string{"--quality", "999"},
			expectedErrorMsg: "invalid quality",
		},
		{
			name:             "invalid quality - garbage",
			flags:            []string{"--quality", "best"},
			expectedErrorMsg: "invalid quality",
		},
		{
			name:             "invalid speed limit",
			flags:            []string{"--speed-limit", "invalid-speed"},
			expectedErrorMsg: "failed to parse download speed limit",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			// Create temp directory and config file.
			tempDir := t.TempDir()
			configPath := filepath.Join(tempDir, "test-config.yaml")
			err := os.WriteFile(configPath, []byte(e2eBaseConfig), 0o644) //nolint:gosec // It's a test file.
			require.NoError(t, err)

			// Prepare arguments.
			args := []string{
				"download",
				"--config", configPath,
				"https://www.deezer.com/track/3135556",
			}
			args = append(args, tt.flags...)

			// Run the binary.
			//nolint:gosec,noctx // Test binary name is a constant, not user input. No context available in test.
			cmd := exec.Command("./"+testBinaryName, args...)
			output, err := cmd.CombinedOutput()

			// Should fail with error.
			require.Error(t, err)

			outputStr := string(output)

			// Verify error message.
			assert.Contains(t, strings.ToLower(outputStr), strings.ToLower(tt.expectedErrorMsg),
				"Expected error message about '%s' but got: %s", tt.expectedErrorMsg, outputStr)
		})
	}
}

// ConfigDump represents the config dump structure.
type ConfigDump struct {
	// Quality is the preferred audio quality tier.
	Quality string `json:"quality"`
	// OutputPath is the directory path for downloads.
	OutputPath string `json:"output_path"`
	// DownloadSpeedLimit is the speed limit for downloads.
	DownloadSpeedLimit string `json:"download_speed_limit"`
	// DryRun indicates whether preview mode is enabled.
	DryRun bool `json:"dry_run"`
	// ReplaceTracks indicates whether existing files are replaced.
	ReplaceTracks bool `json:"replace_tracks"`
}

// runWithConfigDump runs the app with config dump enabled and parses the output.
func runWithConfigDump(t *testing.T, configPath string, flags []string) *ConfigDump {
	t.Helper()

	args := []string{
		"download",
		"--config", configPath,
		"https://www.deezer.com/track/3135556",
	}
	args = append(args, flags...)

	//nolint:gosec,noctx // Test binary name is a constant, not user input. No context available in test.
	cmd := exec.Command("./"+testBinaryName, args...)

	cmd.Env = append(os.Environ(), "DEEZER_GRABBER_DUMP_CONFIG=1")

	// Read stdout only, log lines go to stderr.
	output, err := cmd.Output()
	if err != nil {
		t.Logf("Command failed: %v, output: %s", err, string(output))
		return nil
	}

	// Parse JSON config dump from output.
	var config ConfigDump
	if err := json.Unmarshal(output, &config); err != nil {
		t.Logf("Failed to parse config: %v, output: %s", err, string(output))
		return nil
	}

	return &config
}
