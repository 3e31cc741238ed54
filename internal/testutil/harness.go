// Package testutil provides the shared harness for integration tests: a
// temp-dir build workspace, a recording subprocess runner, and log capture.
package testutil

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/luulek/packforge/internal/app"
	"github.com/luulek/packforge/internal/hcl"
	"github.com/luulek/packforge/internal/pypi"
	"github.com/stretchr/testify/require"
)

// HarnessResult holds the outcomes of an integration test run.
type HarnessResult struct {
	LogOutput string
	Err       error
	App       *app.App
	Runner    *FakeRunner
	Dir       string
}

// Option customizes one harness run.
type Option func(*options)

type options struct {
	mutateConfig func(*app.Config)
	resolver     pypi.VersionResolver
	preexisting  []string
}

// WithAppConfig mutates the app configuration before the run.
func WithAppConfig(mutate func(*app.Config)) Option {
	return func(o *options) { o.mutateConfig = mutate }
}

// WithResolver substitutes the packager version resolver.
func WithResolver(r pypi.VersionResolver) Option {
	return func(o *options) { o.resolver = r }
}

// WithPreexistingDirs creates directories (relative to the workspace) before
// the run, for exercising artifact cleanup.
func WithPreexistingDirs(dirs ...string) Option {
	return func(o *options) { o.preexisting = append(o.preexisting, dirs...) }
}

// RunBuildTest provides a standardized harness for running integration tests
// using a default background context.
func RunBuildTest(t *testing.T, files map[string]string, runner *FakeRunner, opts ...Option) *HarnessResult {
	t.Helper()
	return RunBuildTestWithContext(context.Background(), t, files, runner, opts...)
}

// RunBuildTestWithContext provides a standardized harness for running
// integration tests with a specific context provided by the caller.
func RunBuildTestWithContext(ctx context.Context, t *testing.T, files map[string]string, runner *FakeRunner, opts ...Option) *HarnessResult {
	t.Helper()

	o := &options{resolver: &StaticResolver{Version: "2.7.12"}}
	for _, opt := range opts {
		opt(o)
	}

	// 1. Create a temporary workspace for the test.
	tmpDir, err := os.MkdirTemp("", ".tmp-packforge-test-*")
	require.NoError(t, err)
	t.Cleanup(func() { os.RemoveAll(tmpDir) })

	// 2. Write all configuration files into the workspace.
	for name, content := range files {
		filePath := filepath.Join(tmpDir, name)
		require.NoError(t, os.MkdirAll(filepath.Dir(filePath), 0755))
		require.NoError(t, os.WriteFile(filePath, []byte(content), 0644))
	}
	for _, dir := range o.preexisting {
		require.NoError(t, os.MkdirAll(filepath.Join(tmpDir, dir), 0755))
	}

	// 3. Assemble the app configuration.
	appConfig := &app.Config{
		ConfigPath: tmpDir,
		LogFormat:  "text",
		LogLevel:   "debug",
	}
	if o.mutateConfig != nil {
		o.mutateConfig(appConfig)
	}

	if runner == nil {
		runner = &FakeRunner{}
	}

	logBuffer := &SafeBuffer{}
	result := &HarnessResult{Runner: runner, Dir: tmpDir}

	// 4. Build and run the app, converting startup panics into result errors
	// the same way the CLI entrypoint does.
	func() {
		defer func() {
			if r := recover(); r != nil {
				if recErr, ok := r.(error); ok {
					result.Err = recErr
				} else {
					t.Fatalf("unexpected non-error panic: %v", r)
				}
			}
		}()

		testApp := app.NewApp(logBuffer, appConfig, hcl.NewLoader(),
			app.WithRunner(runner),
			app.WithResolver(o.resolver),
			app.WithWorkDir(tmpDir),
			app.WithStdin(strings.NewReader("\n")),
		)
		result.App = testApp
		result.Err = testApp.Run(ctx)
	}()

	result.LogOutput = logBuffer.String()

	t.Cleanup(func() {
		if os.Getenv("PACKFORGE_TEST_LOGS") == "true" {
			t.Logf("--- Full Log Output for %s ---\n%s", t.Name(), result.LogOutput)
		}
	})

	return result
}
