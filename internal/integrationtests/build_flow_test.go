package integrationtests

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/luulek/packforge/internal/app"
	"github.com/luulek/packforge/internal/proc"
	"github.com/luulek/packforge/internal/testutil"
	"github.com/luulek/packforge/internal/toolchain"
	"github.com/stretchr/testify/require"
)

const steamThingConfig = `
	build "steam_thing" {
		script          = "main.py"
		output_filename = "App.exe"
		output_dir      = "Compiled"
		icon            = "Files/Icon.ico"

		data_dir {
			source = "Files"
			target = "Files"
		}
	}
`

// TestBuildFlow_HappyPath drives the full flow against a recording runner:
// clean, pip self-upgrade, pinned packager install, packager invocation,
// completion report.
func TestBuildFlow_HappyPath(t *testing.T) {
	t.Parallel()

	// --- Arrange ---
	files := map[string]string{"packforge.hcl": steamThingConfig}
	runner := &testutil.FakeRunner{}

	// --- Act ---
	result := testutil.RunBuildTest(t, files, runner,
		testutil.WithPreexistingDirs("main.build", "main.dist", "Compiled"),
		testutil.WithResolver(&testutil.StaticResolver{Version: "2.7.12"}),
	)

	// --- Assert ---
	require.NoError(t, result.Err)
	require.Equal(t, "steam_thing", result.App.Plan().Name)

	lines := runner.CommandLines()
	require.Len(t, lines, 3)
	require.Equal(t, "python -m pip install --upgrade pip", lines[0])
	require.Equal(t, "python -m pip install nuitka==2.7.12", lines[1])
	require.Contains(t, lines[2], "-m nuitka")
	require.Contains(t, lines[2], "--output-filename=App.exe")
	require.Contains(t, lines[2], "--include-data-dir=Files=Files")

	// Stale artifact directories were removed before packaging.
	for _, dir := range []string{"main.build", "main.dist", "Compiled"} {
		_, statErr := os.Stat(filepath.Join(result.Dir, dir))
		require.True(t, os.IsNotExist(statErr), "expected %s to be removed", dir)
	}

	// The resolved release was locked for the next run.
	lock, err := toolchain.ReadLock(filepath.Join(result.Dir, toolchain.LockFileName))
	require.NoError(t, err)
	require.NotNil(t, lock)
	require.Equal(t, "2.7.12", lock.Version)

	require.Contains(t, result.LogOutput, "Build complete.")
}

// TestBuildFlow_PackagerFailureIsReported verifies the exit-status check: a
// failed compile must fail the run and must not claim completion.
func TestBuildFlow_PackagerFailureIsReported(t *testing.T) {
	t.Parallel()

	// --- Arrange ---
	files := map[string]string{"packforge.hcl": steamThingConfig}
	runner := &testutil.FakeRunner{
		ErrFn: testutil.FailCommandsContaining("-m nuitka ",
			&proc.ExitError{Cmd: proc.Command{Name: "python"}, Code: 1}),
	}

	// --- Act ---
	result := testutil.RunBuildTest(t, files, runner)

	// --- Assert ---
	require.Error(t, result.Err)
	require.Contains(t, result.Err.Error(), "stage package failed")
	require.NotContains(t, result.LogOutput, "Build complete.")
}

// TestBuildFlow_ToolchainFailureHalts verifies that a pip failure stops the
// run before the packager is ever invoked.
func TestBuildFlow_ToolchainFailureHalts(t *testing.T) {
	t.Parallel()

	// --- Arrange ---
	files := map[string]string{"packforge.hcl": steamThingConfig}
	runner := &testutil.FakeRunner{
		ErrFn: testutil.FailCommandsContaining("--upgrade pip",
			&proc.ExitError{Cmd: proc.Command{Name: "python"}, Code: 1}),
	}

	// --- Act ---
	result := testutil.RunBuildTest(t, files, runner)

	// --- Assert ---
	require.Error(t, result.Err)
	require.Contains(t, result.Err.Error(), "stage toolchain failed")
	require.Len(t, runner.Commands, 1)
}

// TestBuildFlow_SkipToolchain verifies that the ensure step can be bypassed.
func TestBuildFlow_SkipToolchain(t *testing.T) {
	t.Parallel()

	// --- Arrange ---
	files := map[string]string{"packforge.hcl": steamThingConfig}
	runner := &testutil.FakeRunner{}

	// --- Act ---
	result := testutil.RunBuildTest(t, files, runner,
		testutil.WithAppConfig(func(cfg *app.Config) { cfg.SkipToolchain = true }),
	)

	// --- Assert ---
	require.NoError(t, result.Err)
	lines := runner.CommandLines()
	require.Len(t, lines, 1)
	require.Contains(t, lines[0], "-m nuitka")
}

// TestBuildFlow_DryRun verifies that a dry run spawns nothing and mutates
// nothing but still prints the invocation.
func TestBuildFlow_DryRun(t *testing.T) {
	t.Parallel()

	// --- Arrange ---
	files := map[string]string{"packforge.hcl": steamThingConfig}
	runner := &testutil.FakeRunner{}

	// --- Act ---
	result := testutil.RunBuildTest(t, files, runner,
		testutil.WithAppConfig(func(cfg *app.Config) { cfg.DryRun = true }),
		testutil.WithPreexistingDirs("main.build"),
	)

	// --- Assert ---
	require.NoError(t, result.Err)
	require.Empty(t, runner.Commands)
	require.Contains(t, result.LogOutput, "--output-filename=App.exe")

	// Dry runs leave the filesystem untouched.
	_, statErr := os.Stat(filepath.Join(result.Dir, "main.build"))
	require.NoError(t, statErr)
}

// TestBuildFlow_InvalidConfigSurfacesError verifies that a plan failing
// validation is reported as a startup error.
func TestBuildFlow_InvalidConfigSurfacesError(t *testing.T) {
	t.Parallel()

	// --- Arrange ---
	files := map[string]string{"packforge.hcl": `
		build "broken" {
			script          = "main.py"
			output_filename = "App.exe"
			console         = "hidden"
		}
	`}

	// --- Act ---
	result := testutil.RunBuildTest(t, files, nil)

	// --- Assert ---
	require.Error(t, result.Err)
	require.Contains(t, result.Err.Error(), "invalid console mode")
}

// TestBuildFlow_ResolverUnavailableFallsBack verifies the always-latest
// fallback when the index cannot be queried and no lock exists.
func TestBuildFlow_ResolverUnavailableFallsBack(t *testing.T) {
	t.Parallel()

	// --- Arrange ---
	files := map[string]string{"packforge.hcl": steamThingConfig}
	runner := &testutil.FakeRunner{}

	// --- Act ---
	result := testutil.RunBuildTest(t, files, runner,
		testutil.WithResolver(nil),
	)

	// --- Assert ---
	require.NoError(t, result.Err)
	require.Equal(t, "python -m pip install --upgrade nuitka", runner.CommandLines()[1])
}
