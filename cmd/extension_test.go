package cmd

import (
	"os"
	"path/filepath"
	"runtime"
	"testing"
)

func TestRunExtension(t *testing.T) {
	if runtime.GOOS == "windows" {
		t.Skip("extension scripts need a unix shell")
	}
	tempDir := t.TempDir()
	out := filepath.Join(tempDir, "out")
	script := "#!/bin/sh\necho \"$" + EnvConfigFile + " $" + EnvDataDir + " $" + EnvCurrency + " $1\" > " + out + "\nexit 3\n"
	if err := os.WriteFile(filepath.Join(tempDir, "fundterm-hello"), []byte(script), 0o755); err != nil {
		t.Fatal(err)
	}
	t.Setenv("PATH", tempDir+string(os.PathListSeparator)+os.Getenv("PATH"))

	*configFile, *dataDir, *currency = "my.toml", "/data", "EUR"
	defer func() { *configFile, *dataDir, *currency = "fundterm.toml", "", "" }()

	found, code := RunExtension("hello", []string{"world"})
	if !found || code != 3 {
		t.Fatalf("RunExtension(hello) = %v, %d, want true, 3", found, code)
	}
	got, err := os.ReadFile(out)
	if err != nil {
		t.Fatal(err)
	}
	if want := "my.toml /data EUR world\n"; string(got) != want {
		t.Errorf("extension output = %q, want %q", got, want)
	}

	if found, _ := RunExtension("missing-extension", nil); found {
		t.Error("RunExtension(missing-extension) found an extension")
	}
}
