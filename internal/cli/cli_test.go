package cli

import (
	"bytes"
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/ppiankov/askmode/internal/engine"
	"github.com/ppiankov/askmode/internal/mode"
	"github.com/ppiankov/askmode/internal/model"
	"github.com/ppiankov/askmode/internal/safecmd"
	"github.com/ppiankov/askmode/internal/session"
	"github.com/ppiankov/askmode/internal/ui"
)

func withConfigPath(t *testing.T, path string) {
	t.Helper()
	orig := configPath
	configPath = path
	t.Cleanup(func() { configPath = orig })
}

func TestParseSlash(t *testing.T) {
	tests := []struct {
		line, name, rest string
		ok               bool
	}{
		{"/ask", "ask", "", true},
		{"/ask  why is it slow? ", "ask", "why is it slow?", true},
		{"/status", "status", "", true},
		{"ls -la", "", "", false},
	}
	for _, tt := range tests {
		name, rest, ok := parseSlash(tt.line)
		if name != tt.name || rest != tt.rest || ok != tt.ok {
			t.Errorf("parseSlash(%q) = %q, %q, %v", tt.line, name, rest, ok)
		}
	}
}

func TestWriteVerdictText(t *testing.T) {
	var buf bytes.Buffer
	v := safecmd.Verdict{Safe: false, Reason: `command "rm" is not allowlisted`}
	if err := writeVerdict(&buf, "rm -rf /", v, "text"); err != nil {
		t.Fatal(err)
	}
	if !strings.HasPrefix(buf.String(), "DENY: rm -rf /\n") {
		t.Errorf("output = %q", buf.String())
	}
}

func TestWriteVerdictJSON(t *testing.T) {
	var buf bytes.Buffer
	v := safecmd.Verdict{Safe: true, Reason: "allowlisted: ls"}
	if err := writeVerdict(&buf, "ls", v, "json"); err != nil {
		t.Fatal(err)
	}
	var res checkResult
	if err := json.Unmarshal(buf.Bytes(), &res); err != nil {
		t.Fatalf("invalid json %q: %v", buf.String(), err)
	}
	if !res.Safe || res.Decision != "allow" || res.Command != "ls" {
		t.Errorf("result = %+v", res)
	}
}

func TestClassifyUsesConfigAllowlist(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(path, []byte("allowlist:\n  commands: [make]\n"), 0o600); err != nil {
		t.Fatal(err)
	}
	withConfigPath(t, path)

	v, err := classify(context.Background(), "make test")
	if err != nil {
		t.Fatal(err)
	}
	if !v.Safe {
		t.Errorf("make should be allowed by config: %+v", v)
	}
	v, _ = classify(context.Background(), "ls")
	if v.Safe {
		t.Error("ls should be blocked by replaced allowlist")
	}
}

func newSessionEngine(t *testing.T, out *bytes.Buffer) *engine.Engine {
	t.Helper()
	var eng *engine.Engine
	eng, err := engine.New(engine.Options{
		ConfigPath: filepath.Join(t.TempDir(), "config.yaml"),
		UI:         ui.NewTerminal(&bytes.Buffer{}),
		Responder: func(ctx context.Context, _ *session.Session, msg model.Message) {
			agentTurn(ctx, eng, msg, out)
		},
	})
	if err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() { eng.Close() })
	return eng
}

func TestSessionLoop(t *testing.T) {
	var out bytes.Buffer
	eng := newSessionEngine(t, &out)
	term := ui.NewTerminal(&bytes.Buffer{})

	input := strings.Join([]string{
		"rm -rf build",
		"/ask",
		"rm -rf build",
		"git status",
		"/status",
		"/ask",
		"/ask what does main do?",
		"/context",
		"/plan",
		"/quit",
		"ls",
	}, "\n")

	if err := sessionLoop(context.Background(), eng, term, strings.NewReader(input), &out); err != nil {
		t.Fatal(err)
	}
	got := out.String()

	for _, want := range []string{
		"allowed: rm -rf build",
		"BLOCKED: Ask mode: command blocked (not allowlisted). Use /ask to disable ask mode first.\nCommand: rm -rf build",
		"allowed: git status",
		"mode: restricted",
		"saved: read, bash, edit, write",
		`(agent) received "what does main do?" with tools [read, bash, grep, find, ls, questionnaire], ask mode advisory attached`,
		"[user] what does main do?",
		"[assistant] (agent) received",
		`error: mode: unknown command "plan"`,
	} {
		if !strings.Contains(got, want) {
			t.Errorf("output missing %q\n---\n%s", want, got)
		}
	}
	if strings.Contains(got, "[custom:ask-mode-context]") {
		t.Error("advisory should be filtered from context once ask mode is off")
	}
	if strings.Contains(got, "allowed: ls\n") {
		t.Error("lines after /quit must not be processed")
	}
	if eng.Controller.Restricted() {
		t.Error("session should end in normal mode")
	}
}

func TestSessionLoopShowsIndicator(t *testing.T) {
	var out bytes.Buffer
	term := ui.NewTerminal(&bytes.Buffer{})
	eng, err := engine.New(engine.Options{
		ConfigPath: filepath.Join(t.TempDir(), "config.yaml"),
		UI:         term,
	})
	if err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() { eng.Close() })

	input := "/ask\n/status\n/ask\n/status\n"
	if err := sessionLoop(context.Background(), eng, term, strings.NewReader(input), &out); err != nil {
		t.Fatal(err)
	}
	got := out.String()
	if strings.Count(got, "indicator: "+mode.StatusText) != 1 {
		t.Errorf("indicator should show only while ask mode is on:\n%s", got)
	}
	if !strings.Contains(got, mode.StatusText+" > ") {
		t.Errorf("prompt should carry the status while ask mode is on:\n%s", got)
	}
}

func TestSessionLoopEOF(t *testing.T) {
	var out bytes.Buffer
	eng := newSessionEngine(t, &out)
	if err := sessionLoop(context.Background(), eng, ui.NewTerminal(&bytes.Buffer{}), strings.NewReader(""), &out); err != nil {
		t.Fatal(err)
	}
}

func TestRunInitConfig(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "config.yaml")
	withConfigPath(t, path)
	initForce, initTOML = false, false

	var out bytes.Buffer
	initConfigCmd.SetOut(&out)
	if err := runInitConfig(initConfigCmd, nil); err != nil {
		t.Fatal(err)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("config not written: %v", err)
	}
	if !strings.Contains(string(data), "restricted_tools:") {
		t.Error("config missing restricted_tools")
	}

	if err := os.WriteFile(path, []byte("# mine\n"), 0o600); err != nil {
		t.Fatal(err)
	}
	out.Reset()
	if err := runInitConfig(initConfigCmd, nil); err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(out.String(), "already exists") {
		t.Errorf("output = %q", out.String())
	}
	data, _ = os.ReadFile(path)
	if string(data) != "# mine\n" {
		t.Error("existing config overwritten without --force")
	}
}

func TestRunInitConfigTOML(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.toml")
	withConfigPath(t, path)
	initForce, initTOML = false, false

	initConfigCmd.SetOut(&bytes.Buffer{})
	if err := runInitConfig(initConfigCmd, nil); err != nil {
		t.Fatal(err)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(string(data), "restricted_tools = [") {
		t.Errorf("expected TOML content:\n%s", data)
	}
}

func TestDoctorChecks(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(path, []byte("restricted_tools: [read, write]\n"), 0o600); err != nil {
		t.Fatal(err)
	}

	var buf bytes.Buffer
	if printDoctor(&buf, doctorChecks(path)) {
		t.Fatal("write in restricted_tools should fail doctor")
	}
	if !strings.Contains(buf.String(), "remove edit and write from restricted_tools") {
		t.Errorf("output = %q", buf.String())
	}

	if err := os.WriteFile(path, []byte("log:\n  level: info\n"), 0o600); err != nil {
		t.Fatal(err)
	}
	buf.Reset()
	if !printDoctor(&buf, doctorChecks(path)) {
		t.Errorf("default config should pass:\n%s", buf.String())
	}
}

func TestDoctorReportsAllowlistFile(t *testing.T) {
	dir := t.TempDir()
	allow := filepath.Join(dir, "allowlist.yaml")
	if err := os.WriteFile(allow, []byte("commands: [make, ls]\n"), 0o600); err != nil {
		t.Fatal(err)
	}
	path := filepath.Join(dir, "config.yaml")
	if err := os.WriteFile(path, []byte("allowlist_file: allowlist.yaml\n"), 0o600); err != nil {
		t.Fatal(err)
	}

	var buf bytes.Buffer
	if !printDoctor(&buf, doctorChecks(path)) {
		t.Fatalf("allowlist file config should pass:\n%s", buf.String())
	}
	if !strings.Contains(buf.String(), allow+": 2 commands, 0 unsafe patterns") {
		t.Errorf("output = %q", buf.String())
	}

	if err := os.WriteFile(allow, []byte("unsafe: ['(']\n"), 0o600); err != nil {
		t.Fatal(err)
	}
	buf.Reset()
	if printDoctor(&buf, doctorChecks(path)) {
		t.Error("invalid allowlist file should fail doctor")
	}
}

func TestDoctorInvalidConfig(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(path, []byte("log: [\n"), 0o600); err != nil {
		t.Fatal(err)
	}
	checks := doctorChecks(path)
	last := checks[len(checks)-1]
	if last.label != "config valid" || last.ok {
		t.Errorf("last check = %+v", last)
	}
}

func TestVersionCommand(t *testing.T) {
	var buf bytes.Buffer
	versionCmd.SetOut(&buf)
	versionCmd.Run(versionCmd, nil)
	var info map[string]string
	if err := json.Unmarshal(buf.Bytes(), &info); err != nil {
		t.Fatal(err)
	}
	if info["name"] != "askmode" || info["version"] != version {
		t.Errorf("info = %v", info)
	}
	if info["commit"] != commit || !strings.HasPrefix(info["go"], "go") || !strings.Contains(info["platform"], "/") {
		t.Errorf("build info = %v", info)
	}
}

func TestVersionFromLinker(t *testing.T) {
	origVersion, origCommit := version, commit
	version, commit = "v9.9.9", "abc1234"
	t.Cleanup(func() { version, commit = origVersion, origCommit })

	info := buildInfo()
	if info["version"] != "v9.9.9" || info["commit"] != "abc1234" {
		t.Errorf("buildInfo = %v", info)
	}
}
