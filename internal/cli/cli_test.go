package cli

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/matzehuels/cortex/pkg/catalog"
	"github.com/matzehuels/cortex/pkg/errors"
	"github.com/matzehuels/cortex/pkg/mindmap"
	"github.com/matzehuels/cortex/pkg/pipeline"
	"github.com/matzehuels/cortex/pkg/report"
)

// runCLI executes the root command with args and returns stdout.
func runCLI(t *testing.T, args ...string) (string, error) {
	t.Helper()
	prev := statusOut
	statusOut = io.Discard
	t.Cleanup(func() { statusOut = prev })
	t.Setenv("XDG_CACHE_HOME", t.TempDir())

	var out bytes.Buffer
	c := New(io.Discard, LogInfo)
	c.Out = &out
	root := c.RootCommand()
	root.SetArgs(args)
	root.SetErr(io.Discard)
	err := root.ExecuteContext(context.Background())
	return out.String(), err
}

func TestCatalogCommand(t *testing.T) {
	out, err := runCLI(t, "catalog")
	if err != nil {
		t.Fatalf("catalog error = %v", err)
	}
	for _, want := range []string{"Business Objectives", "Growth", "Healthcare", "Declining", "$100K-$250K", "Boost retention"} {
		if !strings.Contains(out, want) {
			t.Errorf("catalog output missing %q", want)
		}
	}
}

func TestCatalogCommandDump(t *testing.T) {
	out, err := runCLI(t, "catalog", "--dump")
	if err != nil {
		t.Fatalf("catalog --dump error = %v", err)
	}
	if out != string(catalog.DefaultTOML()) {
		t.Error("catalog --dump does not match the embedded catalog")
	}
}

func TestCatalogCommandValidate(t *testing.T) {
	if _, err := runCLI(t, "catalog", "--validate"); err != nil {
		t.Errorf("catalog --validate on embedded catalog error = %v", err)
	}

	bad := filepath.Join(t.TempDir(), "bad.toml")
	if err := os.WriteFile(bad, []byte("version = \"broken\"\ndefault_multiplier = 1.0\n"), 0o600); err != nil {
		t.Fatal(err)
	}
	_, err := runCLI(t, "--catalog", bad, "catalog", "--validate")
	if !errors.IsConfiguration(err) {
		t.Errorf("catalog --validate on bad catalog error = %v, want configuration error", err)
	}
}

func TestMindmapCommand(t *testing.T) {
	out, err := runCLI(t, "mindmap", "-o", "Growth")
	if err != nil {
		t.Fatalf("mindmap error = %v", err)
	}
	var g mindmap.Graph
	if err := json.Unmarshal([]byte(out), &g); err != nil {
		t.Fatalf("mindmap output is not a graph: %v", err)
	}
	if g.Focus != "Growth" {
		t.Errorf("Focus = %q, want Growth", g.Focus)
	}
	center, ok := g.Node(mindmap.CenterID)
	if !ok || center.Label != mindmap.DefaultCenterLabel {
		t.Errorf("center node = %+v, want label %q", center, mindmap.DefaultCenterLabel)
	}

	out, err = runCLI(t, "mindmap", "-o", "Growth", "-f", "dot")
	if err != nil {
		t.Fatalf("mindmap -f dot error = %v", err)
	}
	if !strings.HasPrefix(out, "graph G {") {
		t.Errorf("dot output starts with %q", out[:min(len(out), 20)])
	}

	if _, err := runCLI(t, "mindmap", "-o", "Growth", "-f", "gif"); !errors.Is(err, errors.ErrCodeInvalidFormat) {
		t.Errorf("mindmap -f gif error = %v, want invalid format", err)
	}
}

func TestMindmapCommandWritesFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "map.dot")
	out, err := runCLI(t, "mindmap", "-o", "Loyalty", "-f", "dot", "--out", path)
	if err != nil {
		t.Fatalf("mindmap --out error = %v", err)
	}
	if out != "" {
		t.Errorf("stdout = %q, want empty when writing a file", out)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	if !bytes.Contains(data, []byte(`"main/Loyalty"`)) {
		t.Error("written dot has no Loyalty node")
	}
}

func TestAllocateCommand(t *testing.T) {
	out, err := runCLI(t, "allocate", "-V", "Tech", "-o", "Growth", "-b", "$100K-$250K")
	if err != nil {
		t.Fatalf("allocate error = %v", err)
	}
	for _, want := range []string{"Paid Search", "29.06%", "$50,849", "$175,000"} {
		if !strings.Contains(out, want) {
			t.Errorf("allocate output missing %q:\n%s", want, out)
		}
	}
}

func TestAllocateCommandJSON(t *testing.T) {
	out, err := runCLI(t, "allocate", "-V", "Tech", "-o", "Growth", "--json")
	if err != nil {
		t.Fatalf("allocate --json error = %v", err)
	}
	var a pipeline.Allocation
	if err := json.Unmarshal([]byte(out), &a); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if len(a.Table) != 10 {
		t.Errorf("channels = %d, want 10", len(a.Table))
	}
	if a.Investment != nil {
		t.Errorf("Investment = %+v, want nil without --budget", a.Investment)
	}
}

func TestAllocateCommandErrors(t *testing.T) {
	tests := []struct {
		name string
		args []string
		code errors.Code
	}{
		{"unknown vertical", []string{"allocate", "-V", "Mining", "-o", "Growth"}, errors.ErrCodeConfiguration},
		{"unknown tier", []string{"allocate", "-V", "Tech", "-o", "Growth", "-b", "lots"}, errors.ErrCodeInvalidInput},
		{"bad chart", []string{"allocate", "-V", "Tech", "-o", "Growth", "--chart", "bar"}, errors.ErrCodeInvalidFormat},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := runCLI(t, tt.args...); !errors.Is(err, tt.code) {
				t.Errorf("error = %v, want code %s", err, tt.code)
			}
		})
	}

	if _, err := runCLI(t, "allocate", "-o", "Growth"); err == nil {
		t.Error("allocate without --vertical succeeded")
	}
}

func TestAllocateCommandChart(t *testing.T) {
	out, err := runCLI(t, "allocate", "-V", "Retail", "-o", "Conversion", "--chart", "radar")
	if err != nil {
		t.Fatalf("allocate --chart error = %v", err)
	}
	if !strings.HasPrefix(out, "<svg") || !strings.Contains(out, `class="series"`) {
		t.Errorf("radar chart output unexpected: %.80s", out)
	}
}

func TestPlanCommandLifecycle(t *testing.T) {
	plans := t.TempDir()
	outDir := t.TempDir()

	out, err := runCLI(t, "--plans-dir", plans, "plan",
		"-o", "Growth", "-V", "Tech", "-s", "Growing", "-b", "$100K-$250K",
		"-p", "Increase sales volume",
		"-d", outDir, "-f", "txt,json", "--charts", "pie", "--mindmap", "dot")
	if err != nil {
		t.Fatalf("plan error = %v", err)
	}
	if !strings.HasPrefix(out, "Cortex Plan Report") {
		t.Errorf("plan output starts with %.40q", out)
	}

	for _, name := range []string{"cortex-report.txt", "cortex-report.json", "cortex-pie.svg", "cortex-mindmap.dot"} {
		if _, err := os.Stat(filepath.Join(outDir, name)); err != nil {
			t.Errorf("artifact %s not written: %v", name, err)
		}
	}
	txt, err := os.ReadFile(filepath.Join(outDir, "cortex-report.txt"))
	if err != nil {
		t.Fatal(err)
	}
	if string(txt) != out {
		t.Error("report.txt differs from printed plan")
	}

	shown, err := runCLI(t, "--plans-dir", plans, "plan", "show")
	if err != nil {
		t.Fatalf("plan show error = %v", err)
	}
	if shown != out {
		t.Errorf("plan show differs from plan output:\n%s", cmp.Diff(out, shown))
	}

	raw, err := runCLI(t, "--plans-dir", plans, "plan", "show", "--json")
	if err != nil {
		t.Fatalf("plan show --json error = %v", err)
	}
	var st report.State
	if err := json.Unmarshal([]byte(raw), &st); err != nil {
		t.Fatalf("decode state: %v", err)
	}
	want := report.Selections{
		Objective:  "Growth",
		Vertical:   "Tech",
		Stage:      "Growing",
		Budget:     "$100K-$250K",
		Priorities: []string{"Increase sales volume"},
	}
	if diff := cmp.Diff(want, st.Selections); diff != "" {
		t.Errorf("saved selections mismatch (-want +got):\n%s", diff)
	}

	if _, err := runCLI(t, "--plans-dir", plans, "plan", "rm", st.ID); err != nil {
		t.Fatalf("plan rm error = %v", err)
	}
	if _, err := runCLI(t, "--plans-dir", plans, "plan", "show", st.ID); !errors.Is(err, errors.ErrCodePlanNotFound) {
		t.Errorf("plan show after rm error = %v, want plan not found", err)
	}
}

func TestPlanCommandRegenerate(t *testing.T) {
	plans := t.TempDir()
	base := []string{"--plans-dir", plans, "plan", "-q", "-f", ""}

	if _, err := runCLI(t, append(base, "-o", "Growth", "-V", "Tech", "-b", "$100K-$250K")...); err != nil {
		t.Fatalf("plan error = %v", err)
	}
	raw, err := runCLI(t, "--plans-dir", plans, "plan", "show", "--json")
	if err != nil {
		t.Fatal(err)
	}
	var first report.State
	if err := json.Unmarshal([]byte(raw), &first); err != nil {
		t.Fatal(err)
	}

	if _, err := runCLI(t, append(base, "--id", first.ID, "-o", "Awareness", "-V", "CPG", "-b", "Under $50K")...); err != nil {
		t.Fatalf("regenerate error = %v", err)
	}
	shown, err := runCLI(t, "--plans-dir", plans, "plan", "show", first.ID)
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(shown, "Business Objective: Awareness") {
		t.Errorf("regenerated plan not saved under %s:\n%s", first.ID, shown)
	}

	if _, err := runCLI(t, append(base, "--id", "missing", "-o", "Growth", "-V", "Tech", "-b", "$100K-$250K")...); !errors.Is(err, errors.ErrCodePlanNotFound) {
		t.Errorf("regenerate unknown id error = %v, want plan not found", err)
	}
}

func TestPlanCommandInvalidSelections(t *testing.T) {
	plans := t.TempDir()
	tests := []struct {
		name string
		args []string
		code errors.Code
	}{
		{"missing budget", []string{"-o", "Growth", "-V", "Tech"}, errors.ErrCodeInvalidInput},
		{"unknown stage", []string{"-o", "Growth", "-V", "Tech", "-b", "$100K-$250K", "-s", "Dormant"}, errors.ErrCodeInvalidInput},
		{"unknown priority", []string{"-o", "Growth", "-V", "Tech", "-b", "$100K-$250K", "-p", "Go viral"}, errors.ErrCodeInvalidInput},
		{"bad report format", []string{"-o", "Growth", "-V", "Tech", "-b", "$100K-$250K", "-f", "docx"}, errors.ErrCodeInvalidFormat},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			args := append([]string{"--plans-dir", plans, "plan", "-q", "-d", t.TempDir()}, tt.args...)
			if _, err := runCLI(t, args...); !errors.Is(err, tt.code) {
				t.Errorf("error = %v, want code %s", err, tt.code)
			}
		})
	}
}

func TestParseFormats(t *testing.T) {
	tests := []struct {
		input string
		def   []string
		want  []string
	}{
		{"", nil, nil},
		{"", []string{"txt"}, []string{"txt"}},
		{"svg", nil, []string{"svg"}},
		{"svg, pdf,,png", nil, []string{"svg", "pdf", "png"}},
		{" , ", []string{"json"}, []string{"json"}},
	}
	for _, tt := range tests {
		got := parseFormats(tt.input, tt.def...)
		if diff := cmp.Diff(tt.want, got); diff != "" {
			t.Errorf("parseFormats(%q) mismatch (-want +got):\n%s", tt.input, diff)
		}
	}
}

func TestWriteArtifacts(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "out")
	paths, err := writeArtifacts(dir, "x-", map[string][]byte{
		"report.txt":  []byte("plan"),
		"mindmap.dot": []byte("graph G {}"),
	})
	if err != nil {
		t.Fatalf("writeArtifacts() error = %v", err)
	}
	want := []string{filepath.Join(dir, "x-mindmap.dot"), filepath.Join(dir, "x-report.txt")}
	if diff := cmp.Diff(want, paths); diff != "" {
		t.Errorf("paths mismatch (-want +got):\n%s", diff)
	}
	data, err := os.ReadFile(want[1])
	if err != nil || string(data) != "plan" {
		t.Errorf("report content = %q, %v", data, err)
	}

	if paths, err := writeArtifacts(dir, "", nil); err != nil || paths != nil {
		t.Errorf("writeArtifacts(nil) = %v, %v, want nil, nil", paths, err)
	}
}

func TestCacheCommands(t *testing.T) {
	out, err := runCLI(t, "cache", "path")
	if err != nil {
		t.Fatalf("cache path error = %v", err)
	}
	dir := strings.TrimSpace(out)
	if filepath.Base(dir) != appName {
		t.Errorf("cache path = %q, want a %s directory", dir, appName)
	}
	if _, err := runCLI(t, "cache", "clear"); err != nil {
		t.Errorf("cache clear error = %v", err)
	}
}
