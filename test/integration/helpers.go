//go:build integration

package integration

import (
	"bytes"
	"encoding/json"
	"fmt"
	"os"
	"os/exec"
	"strings"
	"testing"
	"time"
)

// TestConfig holds configuration for integration tests
type TestConfig struct {
	Project     string
	Zone        string
	DNSName     string
	Credentials string
	BinaryPath  string
	Verbose     bool
}

// LoadTestConfig loads configuration from environment variables
func LoadTestConfig() *TestConfig {
	return &TestConfig{
		Project:     os.Getenv("CLOUDDNS_IT_PROJECT"),
		Zone:        os.Getenv("CLOUDDNS_IT_ZONE"),
		DNSName:     os.Getenv("CLOUDDNS_IT_DNS_NAME"),
		Credentials: os.Getenv("GOOGLE_APPLICATION_CREDENTIALS"),
		BinaryPath:  binaryPath(),
		Verbose:     os.Getenv("CLOUDDNS_IT_VERBOSE") == "true",
	}
}

// binaryPath determines the path to the clouddns binary
func binaryPath() string {
	if path := os.Getenv("CLOUDDNS_BINARY_PATH"); path != "" {
		return path
	}

	for _, candidate := range []string{"../../clouddns", "./clouddns", "../clouddns"} {
		if _, err := os.Stat(candidate); err == nil {
			return candidate
		}
	}

	return "clouddns"
}

// SkipIfMissingConfig skips the test unless a project, a zone and a binary
// are available.
func (config *TestConfig) SkipIfMissingConfig(t *testing.T) {
	t.Helper()

	if config.Project == "" || config.Zone == "" || config.DNSName == "" {
		t.Skip("CLOUDDNS_IT_PROJECT, CLOUDDNS_IT_ZONE or CLOUDDNS_IT_DNS_NAME not set, skipping integration test")
	}

	if _, err := exec.LookPath(config.BinaryPath); err != nil {
		t.Skipf("clouddns binary not found at %s, skipping integration test", config.BinaryPath)
	}
}

// CommandRunner runs clouddns commands against the configured project.
type CommandRunner struct {
	config *TestConfig
	t      *testing.T
}

// NewCommandRunner creates a new command runner
func NewCommandRunner(config *TestConfig, t *testing.T) *CommandRunner {
	return &CommandRunner{config: config, t: t}
}

// Run executes a clouddns command with the project, zone and credentials
// flags prepended.
func (runner *CommandRunner) Run(args ...string) (stdout, stderr string, err error) {
	full := []string{"--project", runner.config.Project, "--zone", runner.config.Zone}
	if runner.config.Credentials != "" {
		full = append(full, "--credentials", runner.config.Credentials)
	}

	full = append(full, args...)

	cmd := exec.Command(runner.config.BinaryPath, full...)

	var stdoutBuf, stderrBuf bytes.Buffer
	cmd.Stdout = &stdoutBuf
	cmd.Stderr = &stderrBuf

	if runner.config.Verbose {
		runner.t.Logf("Running: %s %s", runner.config.BinaryPath, strings.Join(full, " "))
	}

	err = cmd.Run()
	stdout = stdoutBuf.String()
	stderr = stderrBuf.String()

	if runner.config.Verbose && err != nil {
		runner.t.Logf("Command failed: %v\nStdout: %s\nStderr: %s", err, stdout, stderr)
	}

	return stdout, stderr, err
}

// RunJSON runs a command with JSON output and decodes it into out.
func (runner *CommandRunner) RunJSON(out interface{}, args ...string) error {
	stdout, stderr, err := runner.Run(append(args, "--output", "json")...)
	if err != nil {
		return fmt.Errorf("%w: %s", err, stderr)
	}

	return json.Unmarshal([]byte(stdout), out)
}

// GenerateTestName creates a unique record name under the zone's DNS name.
func (config *TestConfig) GenerateTestName(prefix string) string {
	return fmt.Sprintf("%s-%d.%s", prefix, time.Now().UnixNano(), config.DNSName)
}

// CleanupRecordSet deletes a record set, logging failures.
func (runner *CommandRunner) CleanupRecordSet(name, recordType string) {
	stdout, stderr, err := runner.Run("rrsets", "delete", name, recordType)
	if err != nil && runner.config.Verbose {
		runner.t.Logf("Cleanup warning for %s %s: %s\nStderr: %s", name, recordType, stdout, stderr)
	}
}

// WaitForCondition waits for a condition to be met with timeout
func WaitForCondition(t *testing.T, condition func() bool, timeout time.Duration, message string) {
	t.Helper()

	ticker := time.NewTicker(500 * time.Millisecond)
	defer ticker.Stop()

	timeoutChan := time.After(timeout)

	for {
		select {
		case <-ticker.C:
			if condition() {
				return
			}
		case <-timeoutChan:
			t.Fatalf("Timeout waiting for condition: %s", message)
		}
	}
}
