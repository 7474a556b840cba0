package estate_test

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/exec"
	"testing"
	"time"

	"github.com/aussiebroadwan/estate/pkg/authsdk"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/wait"
)

/*
 * Common constants and helper functions for estate service end-to-end tests.
 * This includes container setup, service operations, and assertions.
 */

const (
	testImageName = "estate-test:latest"

	bootstrapToken = "test-bootstrap-token-12345"
	adminUsername  = "admin"
	adminEmail     = "admin@example.com"
	adminPassword  = "Admin123!secret"
	testPhone      = "0412345678"
)

// TestMain builds the Docker image once before all tests and cleans it up
// after all tests complete.
func TestMain(m *testing.M) {
	flag.Parse()
	if testing.Short() {
		fmt.Fprintln(os.Stdout, "skipping end-to-end tests in short mode")
		os.Exit(0)
	}

	fmt.Fprintf(os.Stdout, "Building Estate Service Docker image...")

	// Build the Docker image once before all tests
	if err := buildDockerImage(); err != nil {
		fmt.Fprintf(os.Stderr, "\nFailed to build Docker image: %v\n", err)
		os.Exit(1)
	}
	fmt.Fprintf(os.Stdout, " done\n")

	// Run all tests
	exitCode := m.Run()

	// Clean up the Docker image after all tests complete
	fmt.Fprintf(os.Stdout, "Cleaning up Estate Service Docker image...")
	cleanupDockerImage()
	fmt.Fprintf(os.Stdout, " done\n")

	os.Exit(exitCode)
}

// buildDockerImage builds the test Docker image.
func buildDockerImage() error {
	ctx := context.Background()
	cmd := exec.CommandContext(ctx, "docker", "build",
		"-t", testImageName,
		"-f", "../../../cmd/estate/Dockerfile",
		"../../../")
	cmd.Dir = "."
	cmd.Stdout = os.Stdout
	cmd.Stderr = nil

	return cmd.Run()
}

// cleanupDockerImage removes the test Docker image.
func cleanupDockerImage() {
	ctx := context.Background()
	cmd := exec.CommandContext(ctx, "docker", "rmi", "-f", testImageName)
	_ = cmd.Run() // Ignore errors - image might not exist
}

// relaxedLimits raises the per-IP limits so tests are not throttled.
var relaxedLimits = map[string]string{
	"RATELIMIT_AUTH_REQUESTS":      "1000",
	"RATELIMIT_AUTH_WINDOW_SEC":    "60",
	"RATELIMIT_AUTH_BURST":         "1000",
	"RATELIMIT_ACCOUNT_REQUESTS":   "1000",
	"RATELIMIT_ACCOUNT_WINDOW_SEC": "60",
	"RATELIMIT_ACCOUNT_BURST":      "1000",
}

// setupEstateContainer starts the service with relaxed rate limits and
// returns the base URL.
func setupEstateContainer(t *testing.T) (string, func()) {
	t.Helper()
	return startContainer(t, relaxedLimits)
}

// setupEstateContainerWithDefaultRateLimits starts the service with the
// production rate limits. Only the rate limit tests should need it.
func setupEstateContainerWithDefaultRateLimits(t *testing.T) (string, func()) {
	t.Helper()
	return startContainer(t, nil)
}

func startContainer(t *testing.T, extraEnv map[string]string) (string, func()) {
	t.Helper()
	ctx := context.Background()

	env := map[string]string{
		"BOOTSTRAP_TOKEN":          bootstrapToken,
		"ESTATE_ISSUER":            "estate-e2e",
		"ESTATE_SESSION_ALGORITHM": "EdDSA",
		"ESTATE_PASSWORD_HASHER":   "bcrypt",
		"ESTATE_BCRYPT_COST":       "4",
		"ESTATE_REDIS_URL":         "memory",
		"ENV":                      "test",
		"LOG_LEVEL":                "info",
		"LOG_FORMAT":               "json",
	}
	for k, v := range extraEnv {
		env[k] = v
	}

	req := testcontainers.ContainerRequest{
		Image:        testImageName,
		ExposedPorts: []string{"8080/tcp"},
		Env:          env,
		WaitingFor: wait.ForHTTP("/livez").
			WithPort("8080/tcp").
			WithStartupTimeout(60 * time.Second),
	}

	container, err := testcontainers.GenericContainer(ctx, testcontainers.GenericContainerRequest{
		ContainerRequest: req,
		Started:          true,
	})
	require.NoError(t, err)

	// Get the mapped port
	mappedPort, err := container.MappedPort(ctx, "8080")
	require.NoError(t, err)

	host, err := container.Host(ctx)
	require.NoError(t, err)

	baseURL := fmt.Sprintf("http://%s:%s", host, mappedPort.Port())

	cleanup := func() {
		if err := container.Terminate(ctx); err != nil {
			t.Logf("failed to terminate container: %v", err)
		}
	}

	return baseURL, cleanup
}

// bootstrapAdmin creates the first administrator and signs in as it.
func bootstrapAdmin(t *testing.T, client *authsdk.SDKClient) *authsdk.Session {
	t.Helper()
	ctx := t.Context()

	admin, err := client.Bootstrap(ctx, bootstrapToken, authsdk.BootstrapRequest{
		Username: adminUsername,
		Email:    adminEmail,
		Password: adminPassword,
		Phone:    testPhone,
	})
	require.NoError(t, err, "Bootstrap should succeed")
	require.Equal(t, "Admin", admin.Role)

	session, err := client.Login(ctx, adminUsername, adminPassword)
	require.NoError(t, err, "Admin login should succeed")
	return session
}

// createAccount has the administrator add an account and signs in as it.
func createAccount(t *testing.T, client *authsdk.SDKClient, admin *authsdk.Session, username, role string) *authsdk.Session {
	t.Helper()
	ctx := t.Context()

	password := username + "-password"
	_, err := admin.CreateAccount(ctx, authsdk.CreateAccountRequest{
		Username: username,
		Email:    username + "@example.com",
		Password: password,
		Phone:    testPhone,
		Role:     role,
	})
	require.NoError(t, err, "CreateAccount should succeed")

	session, err := client.Login(ctx, username, password)
	require.NoError(t, err, "Login should succeed")
	return session
}

// assertStatus checks the HTTP status carried by an SDK error.
func assertStatus(t *testing.T, err error, want int, context string) {
	t.Helper()
	require.Error(t, err, context)
	require.Equal(t, want, authsdk.StatusCode(err), "%s: %v", context, err)
}

// assertHealthy verifies a health check response is OK.
func assertHealthy(t *testing.T, health *authsdk.HealthResponse, err error) {
	t.Helper()
	require.NoError(t, err)
	require.NotNil(t, health)
	require.Equal(t, "ok", health.Status)
}
