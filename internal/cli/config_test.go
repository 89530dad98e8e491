package cli_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/calvinalkan/recipebox/internal/cli"
)

// Tests for print-config command.

func Test_Print_Config_Defaults_When_Invoked(t *testing.T) {
	t.Parallel()

	c := cli.NewCLI(t)
	stdout := c.MustRun("print-config")

	cli.AssertContains(t, stdout, "db_path="+filepath.Join(c.Dir, "recipes.json"))
	cli.AssertContains(t, stdout, "allow_account_creation=false")
	cli.AssertContains(t, stdout, "request_timeout_ms=500")
	cli.AssertContains(t, stdout, "log_level=warn")
	cli.AssertContains(t, stdout, "log_format=console")
	cli.AssertContains(t, stdout, "(defaults only)")
}

func Test_Print_Config_Reports_Missing_Backing_File_Without_Failing_When_Invoked(t *testing.T) {
	t.Parallel()

	c := cli.NewCLI(t)
	stdout, _, code := c.Run("print-config")

	if got, want := code, 0; got != want {
		t.Errorf("exitCode=%d, want=%d", got, want)
	}

	cli.AssertContains(t, stdout, "# store")
	cli.AssertContains(t, stdout, "state=unloaded")
	cli.AssertContains(t, stdout, "error=open ")
	cli.AssertContains(t, stdout, "load failed")
}

func Test_Print_Config_Reports_Record_Counts_When_Invoked(t *testing.T) {
	t.Parallel()

	c := cli.NewCLI(t)
	c.WriteDB(soupDB)

	stdout := c.MustRun("print-config")

	cli.AssertContains(t, stdout, "state=loaded")
	cli.AssertContains(t, stdout, "recipes=2")
	cli.AssertContains(t, stdout, "pantry=1")
	cli.AssertContains(t, stdout, "users=0")
}

func Test_Print_Config_From_Config_File_With_Comments_When_Invoked(t *testing.T) {
	t.Parallel()

	c := cli.NewCLI(t)
	c.WriteFile(".recipebox.json", `{
		// kitchen laptop
		"db_path": "data/box.json",
		"request_timeout_ms": 250,
	}`)

	stdout := c.MustRun("print-config")

	cli.AssertContains(t, stdout, "db_path="+filepath.Join(c.Dir, "data", "box.json"))
	cli.AssertContains(t, stdout, "request_timeout_ms=250")
	cli.AssertContains(t, stdout, "project_config="+filepath.Join(c.Dir, ".recipebox.json"))
}

func Test_Print_Config_Explicit_Config_Flag_When_Invoked(t *testing.T) {
	t.Parallel()

	c := cli.NewCLI(t)
	c.WriteFile("custom.json", `{"db_path": "custom.json.db"}`)

	stdout := c.MustRun("-c", "custom.json", "print-config")
	cli.AssertContains(t, stdout, "db_path="+filepath.Join(c.Dir, "custom.json.db"))
}

func Test_Print_Config_DB_Override_When_Invoked(t *testing.T) {
	t.Parallel()

	c := cli.NewCLI(t)
	c.WriteFile(".recipebox.json", `{"db_path": "from-file.json"}`)

	stdout := c.MustRun("--db", "from-cli.json", "print-config")
	cli.AssertContains(t, stdout, "db_path="+filepath.Join(c.Dir, "from-cli.json"))
}

func Test_Config_Explicit_Config_Not_Found_When_Invoked(t *testing.T) {
	t.Parallel()

	c := cli.NewCLI(t)
	stderr := c.MustFail("-c", "nope.json", "print-config")

	cli.AssertContains(t, stderr, "config file not found")
}

func Test_Config_Invalid_JSON_When_Invoked(t *testing.T) {
	t.Parallel()

	c := cli.NewCLI(t)
	c.WriteFile(".recipebox.json", `{invalid json}`)

	stderr := c.MustFail("print-config")
	cli.AssertContains(t, stderr, "invalid config file")
}

func Test_Config_Invalid_Values_When_Invoked(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name   string
		config string
		want   string
	}{
		{name: "EmptyDBPath", config: `{"db_path": ""}`, want: "db_path cannot be empty"},
		{name: "ZeroTimeout", config: `{"request_timeout_ms": 0}`, want: "request_timeout_ms must be positive"},
		{name: "BadLevel", config: `{"log_level": "loud"}`, want: "invalid log_level"},
		{name: "BadFormat", config: `{"log_format": "xml"}`, want: "log_format must be console or json"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			c := cli.NewCLI(t)
			c.WriteFile(".recipebox.json", tt.config)

			stderr := c.MustFail("print-config")
			cli.AssertContains(t, stderr, tt.want)
		})
	}
}

func Test_C_Flag_Changes_Work_Dir_When_Invoked(t *testing.T) {
	t.Parallel()

	c := cli.NewCLI(t)
	sub := filepath.Join(c.Dir, "kitchen")

	if err := os.MkdirAll(sub, 0o750); err != nil {
		t.Fatal(err)
	}

	stdout := c.MustRun("-C", sub, "print-config")
	cli.AssertContains(t, stdout, "effective_cwd="+sub)
	cli.AssertContains(t, stdout, "db_path="+filepath.Join(sub, "recipes.json"))
}

// Tests for global config.

func Test_Config_Global_Config_Loaded_When_Invoked(t *testing.T) {
	t.Parallel()

	c := cli.NewCLI(t)
	xdgDir := t.TempDir()
	globalPath := filepath.Join(xdgDir, "recipebox", "config.json")

	writeFile(t, globalPath, `{"allow_account_creation": true, "log_level": "debug"}`)

	c.Env["XDG_CONFIG_HOME"] = xdgDir
	stdout := c.MustRun("print-config")

	cli.AssertContains(t, stdout, "allow_account_creation=true")
	cli.AssertContains(t, stdout, "log_level=debug")
	cli.AssertContains(t, stdout, "global_config="+globalPath)
}

func Test_Config_Project_Config_Overrides_Global_When_Invoked(t *testing.T) {
	t.Parallel()

	c := cli.NewCLI(t)
	xdgDir := t.TempDir()

	writeFile(t, filepath.Join(xdgDir, "recipebox", "config.json"), `{"allow_account_creation": true}`)
	c.WriteFile(".recipebox.json", `{"allow_account_creation": false}`)

	c.Env["XDG_CONFIG_HOME"] = xdgDir
	stdout := c.MustRun("print-config")

	cli.AssertContains(t, stdout, "allow_account_creation=false")
}

func Test_Config_Global_Config_Missing_Is_Not_Error_When_Invoked(t *testing.T) {
	t.Parallel()

	c := cli.NewCLI(t)
	c.Env["XDG_CONFIG_HOME"] = t.TempDir()

	stdout := c.MustRun("print-config")
	cli.AssertContains(t, stdout, "db_path="+filepath.Join(c.Dir, "recipes.json"))
}

func Test_Config_Global_Config_Via_Home_When_Invoked(t *testing.T) {
	t.Parallel()

	c := cli.NewCLI(t)
	home := t.TempDir()

	writeFile(t, filepath.Join(home, ".config", "recipebox", "config.json"), `{"log_format": "json"}`)

	c.Env["HOME"] = home
	stdout := c.MustRun("print-config")

	cli.AssertContains(t, stdout, "log_format=json")
}

// Helper to write a file (creates directories as needed).
func writeFile(t *testing.T, path, content string) {
	t.Helper()

	dir := filepath.Dir(path)

	err := os.MkdirAll(dir, 0o750)
	if err != nil {
		t.Fatalf("failed to create dir %s: %v", dir, err)
	}

	err = os.WriteFile(path, []byte(content), 0o600)
	if err != nil {
		t.Fatalf("failed to write %s: %v", path, err)
	}
}
