package cli

import (
	"bytes"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/zhengda-lu/scanmenu/internal/config"
	"github.com/zhengda-lu/scanmenu/internal/integration"
	"github.com/zhengda-lu/scanmenu/internal/menu"
	"github.com/zhengda-lu/scanmenu/internal/selection"
)

// captureOutput redirects stdout via os.Pipe and returns whatever was written.
func captureOutput(fn func()) string {
	origStdout := os.Stdout
	r, w, _ := os.Pipe()
	os.Stdout = w

	fn()

	w.Close()
	os.Stdout = origStdout

	data, _ := io.ReadAll(r)
	return string(data)
}

type recordingLauncher struct {
	quoted []string
}

func (l *recordingLauncher) Launch(quoted string) error {
	l.quoted = append(l.quoted, quoted)
	return nil
}

func TestEntriesFromArgs_URIs(t *testing.T) {
	sel, err := entriesFromArgs([]string{"file:///home/user/a%20b.txt", "file:///tmp"}, false)
	if err != nil {
		t.Fatalf("entriesFromArgs failed: %v", err)
	}
	if len(sel) != 2 {
		t.Fatalf("len = %d, want 2", len(sel))
	}
	if sel[0].URI != "file:///home/user/a%20b.txt" {
		t.Errorf("URI = %q", sel[0].URI)
	}
	if sel[0].Name != "a b.txt" {
		t.Errorf("Name = %q, want %q", sel[0].Name, "a b.txt")
	}
}

func TestEntriesFromArgs_Paths(t *testing.T) {
	dir := t.TempDir()
	p := filepath.Join(dir, "my file.txt")

	sel, err := entriesFromArgs([]string{p}, true)
	if err != nil {
		t.Fatalf("entriesFromArgs failed: %v", err)
	}
	if len(sel) != 1 {
		t.Fatalf("len = %d, want 1", len(sel))
	}
	got, err := selection.Decode(sel[0].URI)
	if err != nil {
		t.Fatalf("Decode(%q) failed: %v", sel[0].URI, err)
	}
	if got != p {
		t.Errorf("decoded path = %q, want %q", got, p)
	}
}

func TestEntriesFromArgs_Empty(t *testing.T) {
	sel, err := entriesFromArgs(nil, false)
	if err != nil {
		t.Fatalf("entriesFromArgs failed: %v", err)
	}
	if len(sel) != 0 {
		t.Errorf("expected empty selection, got %v", sel)
	}
}

func TestActivateFirst(t *testing.T) {
	l := &recordingLauncher{}
	a := menu.New(l)

	sel := selection.Selection{selection.NewEntry("file:///home/user/it's.txt")}
	activateFirst(a.FileItems(sel), sel)

	if len(l.quoted) != 1 {
		t.Fatalf("expected 1 launch, got %d", len(l.quoted))
	}
	if want := `'/home/user/it'"'"'s.txt'`; l.quoted[0] != want {
		t.Errorf("quoted = %q, want %q", l.quoted[0], want)
	}
}

func TestActivateFirst_NothingOffered(t *testing.T) {
	l := &recordingLauncher{}
	a := menu.New(l)

	sel := selection.Selection{
		selection.NewEntry("file:///a"),
		selection.NewEntry("file:///b"),
	}
	activateFirst(a.FileItems(sel), sel)

	if len(l.quoted) != 0 {
		t.Errorf("expected no launch for two entries, got %v", l.quoted)
	}
}

func TestBuildMenuJSON(t *testing.T) {
	a := menu.New(&recordingLauncher{}, menu.WithIcon("security-high"))
	items := a.FileItems(selection.Selection{selection.NewEntry("file:///tmp/x")})

	got := buildMenuJSON(items, "de")
	if got.Version != version {
		t.Errorf("Version = %q, want %q", got.Version, version)
	}
	if got.Language != "de" {
		t.Errorf("Language = %q, want de", got.Language)
	}
	if len(got.Items) != 1 {
		t.Fatalf("len(Items) = %d, want 1", len(got.Items))
	}
	it := got.Items[0]
	if it.Name != menu.ItemName {
		t.Errorf("Name = %q", it.Name)
	}
	if it.Label != "Scan for threats..." {
		t.Errorf("Label = %q", it.Label)
	}
	if it.Tip != "Scan x for threats..." {
		t.Errorf("Tip = %q", it.Tip)
	}
	if it.Icon != "security-high" {
		t.Errorf("Icon = %q", it.Icon)
	}
}

func TestBuildMenuJSON_Empty(t *testing.T) {
	got := buildMenuJSON(nil, "en")
	if got.Items == nil {
		t.Error("Items should be an empty slice, not nil")
	}
}

func TestPrintJSON(t *testing.T) {
	data := map[string]string{"key": "value"}
	out := captureOutput(func() {
		if err := printJSON(data); err != nil {
			t.Errorf("printJSON returned error: %v", err)
		}
	})

	if !strings.Contains(out, `"key": "value"`) {
		t.Errorf("expected indented JSON with key, got %q", out)
	}
}

func TestPrintMenuItems(t *testing.T) {
	a := menu.New(&recordingLauncher{})

	var buf bytes.Buffer
	printMenuItems(&buf, a.BackgroundItems(selection.NewEntry("file:///srv")), 1)
	out := buf.String()
	for _, want := range []string{"Scan directory for threats...", menu.BackgroundName, "icon: clamtk"} {
		if !strings.Contains(out, want) {
			t.Errorf("output missing %q:\n%s", want, out)
		}
	}

	buf.Reset()
	printMenuItems(&buf, nil, 3)
	if !strings.Contains(buf.String(), "No menu items offered for 3 selected entries") {
		t.Errorf("unexpected empty output: %q", buf.String())
	}
}

func TestDecodeAll(t *testing.T) {
	results := decodeAll([]string{
		"file:///home/user/My%20Documents/report.pdf",
		"http://example.com/x",
	})
	if len(results) != 2 {
		t.Fatalf("len = %d, want 2", len(results))
	}

	ok := results[0]
	if ok.Error != "" {
		t.Fatalf("unexpected error: %s", ok.Error)
	}
	if ok.Path != "/home/user/My Documents/report.pdf" {
		t.Errorf("Path = %q", ok.Path)
	}
	if ok.Quoted != "'/home/user/My Documents/report.pdf'" {
		t.Errorf("Quoted = %q", ok.Quoted)
	}

	if results[1].Error == "" {
		t.Error("expected error for non-file scheme")
	}
	if results[1].Path != "" || results[1].Quoted != "" {
		t.Error("failed result should carry no path")
	}
	if n := countFailed(results); n != 1 {
		t.Errorf("countFailed = %d, want 1", n)
	}
}

func TestPrintDecoded(t *testing.T) {
	var buf bytes.Buffer
	printDecoded(&buf, decodeAll([]string{"file:///tmp/a%20b", "bogus"}), "/usr/bin/clamtk", nil)
	out := buf.String()

	if !strings.Contains(out, "command: /usr/bin/clamtk '/tmp/a b'") {
		t.Errorf("expected command line in output:\n%s", out)
	}
	if !strings.Contains(out, "bogus") {
		t.Errorf("expected failed uri in output:\n%s", out)
	}
}

func TestSelectedTargets(t *testing.T) {
	origTargets, origConfig := integrationTargets, appConfig
	t.Cleanup(func() { integrationTargets, appConfig = origTargets, origConfig })

	integrationTargets = nil
	appConfig = nil
	if got := selectedTargets(); len(got) != len(integration.Targets()) {
		t.Errorf("expected all targets without config, got %v", got)
	}

	appConfig = config.Default()
	appConfig.Integrations = []string{"nemo"}
	if got := selectedTargets(); len(got) != 1 || got[0] != "nemo" {
		t.Errorf("expected configured targets, got %v", got)
	}

	integrationTargets = []string{"kde"}
	if got := selectedTargets(); len(got) != 1 || got[0] != "kde" {
		t.Errorf("expected --target to win, got %v", got)
	}
}

func TestPrintGenerated(t *testing.T) {
	var buf bytes.Buffer
	printGenerated(&buf, []integration.File{{Path: "/x/y.desktop", Content: "[Desktop Entry]", Mode: 0o644}})
	out := buf.String()
	if !strings.Contains(out, "/x/y.desktop") || !strings.Contains(out, "(644)") {
		t.Errorf("missing header:\n%s", out)
	}
	if !strings.Contains(out, "[Desktop Entry]") {
		t.Errorf("missing content:\n%s", out)
	}
}

func TestCommandsRegistered(t *testing.T) {
	want := map[string]bool{
		"item": false, "background": false, "menu": false,
		"decode": false, "integration": false, "config": false,
	}
	for _, c := range RootCmd().Commands() {
		if _, ok := want[c.Name()]; ok {
			want[c.Name()] = true
		}
	}
	for name, found := range want {
		if !found {
			t.Errorf("command %q not registered", name)
		}
	}

	for _, c := range []string{"item", "background"} {
		cmd, _, err := RootCmd().Find([]string{c})
		if err != nil {
			t.Fatalf("Find(%q): %v", c, err)
		}
		if cmd.Annotations[hostAnnotation] == "" {
			t.Errorf("%s should carry the host annotation", c)
		}
	}
}
