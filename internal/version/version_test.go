package version

import (
	"context"
	"os"
	"os/exec"
	"strings"
	"testing"
)

// TestHelperProcess isn't a real test. It stands in for git when the
// tests swap execCommand.
func TestHelperProcess(t *testing.T) {
	if os.Getenv("GO_WANT_HELPER_PROCESS") != "1" {
		return
	}
	defer os.Exit(0)

	args := os.Args
	for len(args) > 0 {
		if args[0] == "--" {
			args = args[1:]
			break
		}
		args = args[1:]
	}
	if len(args) < 3 || args[0] != "git" || args[1] != "describe" {
		os.Exit(0)
	}

	switch args[2] {
	case "--always":
		if os.Getenv("MOCK_GIT_COMMIT_FAIL") == "1" {
			os.Exit(1)
		}
		os.Stdout.WriteString("mock-commit-hash")
	case "--tags":
		if os.Getenv("MOCK_GIT_VERSION_FAIL") == "1" {
			os.Exit(1)
		}
		if os.Getenv("MOCK_GIT_VERSION_EMPTY") != "1" {
			os.Stdout.WriteString("v1.0.0")
		}
	}
}

func mockExecCommand(command string, args ...string) *exec.Cmd {
	cs := append([]string{"-test.run=TestHelperProcess", "--", command}, args...)
	cmd := exec.Command(os.Args[0], cs...)

	cmd.Env = []string{"GO_WANT_HELPER_PROCESS=1"}
	for _, key := range []string{"MOCK_GIT_COMMIT_FAIL", "MOCK_GIT_VERSION_FAIL", "MOCK_GIT_VERSION_EMPTY"} {
		if val := os.Getenv(key); val != "" {
			cmd.Env = append(cmd.Env, key+"="+val)
		}
	}
	return cmd
}

func TestInfo(t *testing.T) {
	origExecCommand := execCommand
	defer func() { execCommand = origExecCommand }()
	execCommand = func(ctx context.Context, name string, arg ...string) *exec.Cmd {
		return mockExecCommand(name, arg...)
	}

	tests := []struct {
		name       string
		mockEnv    map[string]string
		wantVer    string
		wantCommit string
	}{
		{
			name:       "Success",
			wantVer:    "v1.0.0",
			wantCommit: "mock-commit-hash",
		},
		{
			name:       "CommitFail",
			mockEnv:    map[string]string{"MOCK_GIT_COMMIT_FAIL": "1"},
			wantVer:    "v1.0.0",
			wantCommit: "unknown",
		},
		{
			name:       "VersionFail",
			mockEnv:    map[string]string{"MOCK_GIT_VERSION_FAIL": "1"},
			wantVer:    "dev",
			wantCommit: "mock-commit-hash",
		},
		{
			name:       "VersionEmpty",
			mockEnv:    map[string]string{"MOCK_GIT_VERSION_EMPTY": "1"},
			wantVer:    "dev",
			wantCommit: "mock-commit-hash",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			Reset()
			for k, v := range tt.mockEnv {
				os.Setenv(k, v)
				defer os.Unsetenv(k)
			}

			if got := GetVersion(); got != tt.wantVer {
				t.Errorf("GetVersion() = %v, want %v", got, tt.wantVer)
			}
			if got := GetCommit(); got != tt.wantCommit {
				t.Errorf("GetCommit() = %v, want %v", got, tt.wantCommit)
			}

			info := Info()
			if !strings.HasPrefix(info, "webtally ") {
				t.Errorf("Info() = %q, want webtally prefix", info)
			}
			if !strings.Contains(info, tt.wantCommit) {
				t.Errorf("Info() = %q, should contain commit %q", info, tt.wantCommit)
			}
		})
	}
}

func TestGetDate(t *testing.T) {
	Reset()
	if d := GetDate(); d == "" {
		t.Error("GetDate() returned empty string")
	}
}
