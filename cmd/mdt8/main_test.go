package main

import (
	"bytes"
	"os"
	"path/filepath"
	"reflect"
	"strings"
	"testing"
	"time"
)

func isolateEnv(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	t.Setenv("MDT8_CONFIG", "")
	t.Setenv("MDT8_INDEX", "")
	t.Setenv("MDT8_JOURNAL_DIR", "")
	t.Setenv("MDT8_LOG_LEVEL", "error")
	t.Setenv("XDG_CONFIG_HOME", dir)
	return dir
}

func runCLI(t *testing.T, args ...string) (int, string, string) {
	t.Helper()
	var stdout, stderr bytes.Buffer
	code := run(args, &stdout, &stderr)
	return code, stdout.String(), stderr.String()
}

func TestNormalizeArgs(t *testing.T) {
	t.Parallel()
	cases := []struct {
		in   []string
		want []string
	}{
		{[]string{"mod", "-5"}, []string{"mod", "--", "-5"}},
		{[]string{"-c", "mod", "mod", "-5"}, []string{"-c", "mod", "mod", "--", "-5"}},
		{[]string{"--verbose", "mod", "-10"}, []string{"--verbose", "mod", "--", "-10"}},
		{[]string{"mod", "5"}, []string{"mod", "5"}},
		{[]string{"mod", "--", "-5"}, []string{"mod", "--", "-5"}},
		{[]string{"status", "-v"}, []string{"status", "-v"}},
		{[]string{"mod", "-x"}, []string{"mod", "-x"}},
		{nil, nil},
	}
	for _, tc := range cases {
		if got := normalizeArgs(tc.in); !reflect.DeepEqual(got, tc.want) {
			t.Fatalf("normalizeArgs(%v) = %v, want %v", tc.in, got, tc.want)
		}
	}
}

func TestRunWithoutCommandPrintsHelpAndFails(t *testing.T) {
	isolateEnv(t)
	code, stdout, _ := runCLI(t)
	if code != 1 {
		t.Fatalf("expected exit 1, got %d", code)
	}
	if !strings.Contains(stdout, "Usage:") || !strings.Contains(stdout, "mindfulness") {
		t.Fatalf("expected help text, got %q", stdout)
	}
	if code, _, _ := runCLI(t, "meditate"); code != 1 {
		t.Fatalf("unknown command should fail, got %d", code)
	}
}

func TestRunSessionCommands(t *testing.T) {
	dir := isolateEnv(t)
	state := filepath.Join(dir, "state", "mdt8.json")

	code, stdout, _ := runCLI(t, "--config", state, "status")
	if code != 0 {
		t.Fatalf("status exit %d", code)
	}
	for _, want := range []string{
		"Could not load config:",
		"Creating new config at '" + state + "'.",
		"You plan to spend 30 minutes per day on mindfulness.",
		"So far, you've spent 0 minutes.",
	} {
		if !strings.Contains(stdout, want) {
			t.Fatalf("status output missing %q:\n%s", want, stdout)
		}
	}
	if _, err := os.Stat(state); err != nil {
		t.Fatalf("state should be written after status: %v", err)
	}

	if code, stdout, _ = runCLI(t, "-c", state, "start"); code != 0 || !strings.Contains(stdout, "Started timer.") {
		t.Fatalf("start: %d %q", code, stdout)
	}
	if strings.Contains(stdout, "Could not load config") {
		t.Fatalf("existing state should load cleanly: %q", stdout)
	}
	code, stdout, _ = runCLI(t, "-c", state, "start")
	if code != 0 || !strings.Contains(stdout, "Could not start session: there is already a session in progress") {
		t.Fatalf("second start: %d %q", code, stdout)
	}
	if code, stdout, _ = runCLI(t, "-c", state, "cancel"); code != 0 || !strings.Contains(stdout, "Cancelled ongoing session.") {
		t.Fatalf("cancel: %d %q", code, stdout)
	}
	code, stdout, _ = runCLI(t, "-c", state, "stop")
	if code != 0 || !strings.Contains(stdout, "Could not stop session: there is no session in progress") {
		t.Fatalf("stop without session: %d %q", code, stdout)
	}

	if code, stdout, _ = runCLI(t, "-c", state, "mod", "95"); code != 0 || !strings.Contains(stdout, "Modified today's total time by 95 minutes.") {
		t.Fatalf("mod: %d %q", code, stdout)
	}
	if code, stdout, _ = runCLI(t, "-c", state, "mod", "-5"); code != 0 || !strings.Contains(stdout, "Modified today's total time by -5 minutes.") {
		t.Fatalf("negative mod: %d %q", code, stdout)
	}
	if _, stdout, _ = runCLI(t, "-c", state, "status"); !strings.Contains(stdout, "So far, you've spent 1 hours and 30 minutes.") {
		t.Fatalf("unexpected status after mod:\n%s", stdout)
	}

	if code, stdout, _ = runCLI(t, "-c", state, "goal", "0"); code != 0 || !strings.Contains(stdout, "Could not set goal:") {
		t.Fatalf("zero goal: %d %q", code, stdout)
	}
	if code, stdout, _ = runCLI(t, "-c", state, "goal", "45"); code != 0 || !strings.Contains(stdout, "Set daily goal to 45 minutes.") {
		t.Fatalf("goal: %d %q", code, stdout)
	}
	if code, stdout, _ = runCLI(t, "-c", state, "goal", "1440"); code != 0 || !strings.Contains(stdout, "Set daily goal to 24 hours and 0 minutes.") {
		t.Fatalf("full day goal: %d %q", code, stdout)
	}
	for _, tooLarge := range []string{"1441", "200000000"} {
		code, stdout, _ = runCLI(t, "-c", state, "goal", tooLarge)
		if code != 0 || !strings.Contains(stdout, "Could not set goal:") {
			t.Fatalf("goal %s: %d %q", tooLarge, code, stdout)
		}
	}
	if _, stdout, _ = runCLI(t, "-c", state, "status"); !strings.Contains(stdout, "You plan to spend 24 hours and 0 minutes per day on mindfulness.") {
		t.Fatalf("rejected goals must keep the previous goal:\n%s", stdout)
	}

	if code, stdout, _ = runCLI(t, "-c", state, "history"); code != 0 || !strings.Contains(stdout, "No days recorded yet.") {
		t.Fatalf("history: %d %q", code, stdout)
	}
	if code, stdout, _ = runCLI(t, "-c", state, "reindex"); code != 0 || !strings.Contains(stdout, "Reindexed 0 days (0 journal notes).") {
		t.Fatalf("reindex: %d %q", code, stdout)
	}
}

func TestRunRejectsBadMinutes(t *testing.T) {
	dir := isolateEnv(t)
	state := filepath.Join(dir, "mdt8.json")
	code, _, stderr := runCLI(t, "-c", state, "mod", "ten")
	if code != 1 || !strings.Contains(stderr, "must be a negative or positive integer") {
		t.Fatalf("expected usage failure, got %d %q", code, stderr)
	}
	if _, err := os.Stat(state); !os.IsNotExist(err) {
		t.Fatalf("rejected arguments must not touch state")
	}
}

func TestRunSaveFailureExitsNonZero(t *testing.T) {
	dir := isolateEnv(t)
	blocker := filepath.Join(dir, "blocker")
	if err := os.WriteFile(blocker, []byte("x"), 0o644); err != nil {
		t.Fatalf("write blocker: %v", err)
	}
	code, stdout, stderr := runCLI(t, "-c", filepath.Join(blocker, "mdt8.json"), "start")
	if code != 1 {
		t.Fatalf("expected exit 1 on save failure, got %d", code)
	}
	if !strings.Contains(stderr, "save tracker state") {
		t.Fatalf("expected save failure message, got %q", stderr)
	}
	if strings.Contains(stdout, "Started timer.") || strings.Contains(stderr, "Usage:") {
		t.Fatalf("save failure must not report success or usage: %q %q", stdout, stderr)
	}
}

func TestRunHistoryListsRecordedDays(t *testing.T) {
	dir := isolateEnv(t)
	state := filepath.Join(dir, "mdt8.json")
	today := time.Now().Format(time.RFC3339)
	record := `{"goalMinutes":30,"trackingDate":"` + today + `","completedTodaySeconds":0,` +
		`"priorDays":[{"year":2026,"ordinal":100,"completedSeconds":1800}]}`
	if err := os.WriteFile(state, []byte(record), 0o644); err != nil {
		t.Fatalf("write state: %v", err)
	}

	code, stdout, _ := runCLI(t, "-c", state, "history")
	if code != 0 || !strings.Contains(stdout, "2026-04-10  30 minutes") || !strings.Contains(stdout, "goal met") {
		t.Fatalf("history: %d %q", code, stdout)
	}
}

func TestRunHistoryAndReindexReportCorruptState(t *testing.T) {
	dir := isolateEnv(t)
	for _, command := range []string{"history", "reindex"} {
		state := filepath.Join(dir, command+".json")
		if err := os.WriteFile(state, []byte("{not json"), 0o644); err != nil {
			t.Fatalf("write state: %v", err)
		}
		code, stdout, _ := runCLI(t, "-c", state, command)
		if code != 0 {
			t.Fatalf("%s exit %d", command, code)
		}
		if !strings.Contains(stdout, "Could not load config:") || !strings.Contains(stdout, "Creating new config at '"+state+"'.") {
			t.Fatalf("%s should report the unreadable state:\n%s", command, stdout)
		}
	}
}
