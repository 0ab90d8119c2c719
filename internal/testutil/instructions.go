package testutil

import (
	"os"
	"path/filepath"
	"testing"
)

// InstructionFiles lists the instruction file names expected in a base directory.
var InstructionFiles = []string{
	"priority_agent_instructions.txt",
	"team_agent_instructions.txt",
	"effort_agent_instructions.txt",
	"triage_agent_instructions.txt",
}

// WriteInstructionDir creates a temporary directory holding placeholder
// instruction files. Names listed in skip are not written.
func WriteInstructionDir(t *testing.T, skip ...string) string {
	t.Helper()
	dir := t.TempDir()
	skipped := map[string]bool{}
	for _, s := range skip {
		skipped[s] = true
	}
	for _, name := range InstructionFiles {
		if skipped[name] {
			continue
		}
		WriteFile(t, dir, name, "Placeholder instructions for "+name)
	}
	return dir
}

// WriteFile writes content to dir/name failing the test on error.
func WriteFile(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
		t.Fatalf("write %s: %v", path, err)
	}
	return path
}

// SetStubEnv sets the two required connection parameters to stub values.
func SetStubEnv(t *testing.T) {
	t.Helper()
	t.Setenv("PROJECT_ENDPOINT", "https://stub")
	t.Setenv("MODEL_DEPLOYMENT_NAME", "gpt-stub")
}
