package telemetry_test

import (
	"fmt"
	"os"
	"os/exec"
	"slices"
	"strings"
	"testing"

	"github.com/petasbytes/go-meshedit/internal/telemetry"
)

// Run TestProbe in a clean env so startup-only telemetry config is deterministic.
func runWithEnv(t *testing.T, env map[string]string, args ...string) (string, error) {
	t.Helper()
	cmd := exec.Command(os.Args[0], append([]string{"-test.run=TestProbe"}, args...)...)
	// Avoid setting empty MESHEDIT_* vars.
	base := []string{"GO_WANT_HELPER_PROCESS=1"}
	for _, kv := range os.Environ() {
		if strings.HasPrefix(kv, "PATH=") {
			base = append(base, kv)
			break
		}
	}
	for k, v := range env {
		base = append(base, k+"="+v)
	}
	cmd.Env = base
	out, err := cmd.CombinedOutput()
	return string(out), err
}

func TestStartupConfig_Matrix(t *testing.T) {
	tests := []struct {
		name string
		env  map[string]string
		want string
	}{
		{"baseline_off", map[string]string{}, "observe=false persist=false dir=.meshedit"},
		{"observe_only", map[string]string{"MESHEDIT_OBSERVE_JSON": "1"}, "observe=true persist=false dir=.meshedit"},
		{"observe_zero", map[string]string{"MESHEDIT_OBSERVE_JSON": "0"}, "observe=false persist=false dir=.meshedit"},
		{"persist_only", map[string]string{"MESHEDIT_PERSIST_REPORTS": "1"}, "observe=false persist=true dir=.meshedit"},
		{"custom_dir", map[string]string{"MESHEDIT_ARTIFACTS_DIR": "/tmp/art"}, "observe=false persist=false dir=/tmp/art"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := runWithEnv(t, tt.env)
			if err != nil {
				t.Fatalf("subprocess error: %v\n%s", err, got)
			}
			if !containsLine(got, tt.want) {
				t.Fatalf("want line:\n%s\ngot output:\n%s", tt.want, got)
			}
		})
	}
}

// The subprocess probe prints the config for the parent to assert.
func TestProbe(t *testing.T) {
	if os.Getenv("GO_WANT_HELPER_PROCESS") != "1" {
		return
	}
	fmt.Printf(
		"observe=%v persist=%v dir=%s\n",
		telemetry.ObserveEnabled(),
		telemetry.PersistReportsEnabled(),
		telemetry.ArtifactsDir(),
	)
}

// containsLine reports whether output has a line exactly equal to want.
func containsLine(output, want string) bool {
	return slices.Contains(strings.Split(output, "\n"), want)
}
