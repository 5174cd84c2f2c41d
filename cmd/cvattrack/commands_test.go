package main

import (
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"cvattrack/internal/catalog"
	"cvattrack/internal/detection"
	"cvattrack/internal/export"
	"cvattrack/internal/history"
	"cvattrack/internal/testsupport"
)

func writeShelfDetections(t *testing.T, path string) {
	t.Helper()
	testsupport.WriteDetections(t, path, [][]detection.Detection{
		{testsupport.Box("coca cola", 10, 10, 50, 50), testsupport.Box("cakes", 60, 60, 90, 90)},
		{testsupport.Box("coca cola", 12, 10, 52, 50)},
		{},
	})
}

func TestExportCommandWritesDocument(t *testing.T) {
	env := setupCLITestEnv(t)
	input := filepath.Join(env.baseDir, "shelf_a.json")
	writeShelfDetections(t, input)

	out, _, err := runCLI(t, []string{"export", input}, env.configPath)
	if err != nil {
		t.Fatalf("export: %v", err)
	}
	requireContains(t, out, "OK "+input)
	requireContains(t, out, "2 tracks, 3 boxes")

	content := testsupport.ReadText(t, filepath.Join(env.cfg.Paths.OutputDir, "shelf_a.xml"))
	requireContains(t, content, `<track id="0" label="Coca Cola" source="manual">`)
	requireContains(t, content, `<track id="1" label="Cakes" source="manual">`)
}

func TestExportCommandExplicitOutputAndFrames(t *testing.T) {
	env := setupCLITestEnv(t)
	input := filepath.Join(env.baseDir, "clip.json")
	output := filepath.Join(env.baseDir, "result.xml")
	writeShelfDetections(t, input)

	if _, _, err := runCLI(t, []string{"export", input, "-o", output, "--frames", "90"}, env.configPath); err != nil {
		t.Fatalf("export: %v", err)
	}
	requireContains(t, testsupport.ReadText(t, output), "<size>90</size>")
}

func TestExportCommandBatchJSON(t *testing.T) {
	env := setupCLITestEnv(t)
	var inputs []string
	for _, name := range []string{"one", "two"} {
		input := filepath.Join(env.baseDir, "in", name+".json")
		writeShelfDetections(t, input)
		inputs = append(inputs, input)
	}
	outDir := filepath.Join(env.baseDir, "batch-out")

	args := append([]string{"export", "--json", "-o", outDir}, inputs...)
	out, _, err := runCLI(t, args, env.configPath)
	if err != nil {
		t.Fatalf("export batch: %v", err)
	}
	var results []export.Result
	if err := json.Unmarshal([]byte(out), &results); err != nil {
		t.Fatalf("decode results: %v\n%s", err, out)
	}
	if len(results) != 2 {
		t.Fatalf("expected 2 results, got %d", len(results))
	}
	for i, name := range []string{"one", "two"} {
		want := filepath.Join(outDir, name+".xml")
		if results[i].OutputPath != want {
			t.Fatalf("result %d output %s, want %s", i, results[i].OutputPath, want)
		}
		if _, err := os.Stat(want); err != nil {
			t.Fatalf("missing output %s: %v", want, err)
		}
	}
}

func TestExportCommandUnknownLabelFails(t *testing.T) {
	env := setupCLITestEnv(t)
	input := filepath.Join(env.baseDir, "odd.json")
	testsupport.WriteDetections(t, input, [][]detection.Detection{
		{testsupport.Box("SW Pink", 1, 1, 2, 2)},
	})

	out, _, err := runCLI(t, []string{"export", input}, env.configPath)
	if err == nil {
		t.Fatal("expected export to fail for label outside the catalog")
	}
	requireContains(t, err.Error(), "Sw Pink")
	requireContains(t, err.Error(), "hint:")
	requireContains(t, out, "FAIL "+input)

	if _, _, err := runCLI(t, []string{"export", input, "--unknown-labels", "declare"}, env.configPath); err != nil {
		t.Fatalf("export with declare: %v", err)
	}
	content := testsupport.ReadText(t, filepath.Join(env.cfg.Paths.OutputDir, "odd.xml"))
	requireContains(t, content, "<name>Sw Pink</name>")
}

func TestExportCommandRejectsSingleFileFlagsForBatch(t *testing.T) {
	env := setupCLITestEnv(t)
	_, _, err := runCLI(t, []string{"export", "a.json", "b.json", "--video", "clip.mp4"}, env.configPath)
	if err == nil || !strings.Contains(err.Error(), "--video") {
		t.Fatalf("expected --video error, got %v", err)
	}
	_, _, err = runCLI(t, []string{"export", "a.json", "b.json", "--frames", "10"}, env.configPath)
	if err == nil || !strings.Contains(err.Error(), "--frames") {
		t.Fatalf("expected --frames error, got %v", err)
	}
}

func TestInspectCommand(t *testing.T) {
	env := setupCLITestEnv(t)
	input := filepath.Join(env.baseDir, "shelf.json")
	writeShelfDetections(t, input)

	out, _, err := runCLI(t, []string{"inspect", input}, env.configPath)
	if err != nil {
		t.Fatalf("inspect: %v", err)
	}
	requireContains(t, out, "Frames: 3  Tracks: 2  Boxes: 3")
	requireContains(t, out, "Coca Cola")

	out, _, err = runCLI(t, []string{"inspect", "--json", input}, env.configPath)
	if err != nil {
		t.Fatalf("inspect --json: %v", err)
	}
	var report export.Inspection
	if err := json.Unmarshal([]byte(out), &report); err != nil {
		t.Fatalf("decode inspection: %v", err)
	}
	if report.Frames != 3 || len(report.Labels) != 2 {
		t.Fatalf("unexpected inspection %+v", report)
	}
}

func TestLabelsCommand(t *testing.T) {
	env := setupCLITestEnv(t)
	out, _, err := runCLI(t, []string{"labels"}, env.configPath)
	if err != nil {
		t.Fatalf("labels: %v", err)
	}
	requireContains(t, out, "Coca Cola")
	requireContains(t, out, "#f9060e")
	requireContains(t, out, "Unknown labels: fail")

	out, _, err = runCLI(t, []string{"labels", "--json"}, env.configPath)
	if err != nil {
		t.Fatalf("labels --json: %v", err)
	}
	var labels []catalog.Label
	if err := json.Unmarshal([]byte(out), &labels); err != nil {
		t.Fatalf("decode labels: %v", err)
	}
	if len(labels) != len(catalog.DefaultLabels) {
		t.Fatalf("expected %d labels, got %d", len(catalog.DefaultLabels), len(labels))
	}
}

func TestHistoryCommand(t *testing.T) {
	env := setupCLITestEnv(t, testsupport.WithHistory())

	out, _, err := runCLI(t, []string{"history"}, env.configPath)
	if err != nil {
		t.Fatalf("history: %v", err)
	}
	requireContains(t, out, "No exports recorded")

	input := filepath.Join(env.baseDir, "shelf.json")
	writeShelfDetections(t, input)
	if _, _, err := runCLI(t, []string{"export", input}, env.configPath); err != nil {
		t.Fatalf("export: %v", err)
	}

	out, _, err = runCLI(t, []string{"history", "--json"}, env.configPath)
	if err != nil {
		t.Fatalf("history --json: %v", err)
	}
	var entries []history.Entry
	if err := json.Unmarshal([]byte(out), &entries); err != nil {
		t.Fatalf("decode history: %v", err)
	}
	if len(entries) != 1 || entries[0].Status != history.StatusCompleted || entries[0].TrackCount != 2 {
		t.Fatalf("unexpected history %+v", entries)
	}

	out, _, err = runCLI(t, []string{"history"}, env.configPath)
	if err != nil {
		t.Fatalf("history: %v", err)
	}
	requireContains(t, out, entries[0].ID[:8])
}

func TestConfigInitValidateShow(t *testing.T) {
	env := setupCLITestEnv(t)

	out, _, err := runCLI(t, []string{"config", "validate"}, env.configPath)
	if err != nil {
		t.Fatalf("config validate: %v", err)
	}
	requireContains(t, out, "Configuration valid")
	requireContains(t, out, "Config path: "+env.configPath)

	target := filepath.Join(t.TempDir(), "config.toml")
	out, _, err = runCLI(t, []string{"config", "init", "--path", target}, "")
	if err != nil {
		t.Fatalf("config init: %v", err)
	}
	requireContains(t, out, "Wrote sample configuration")
	if _, _, err := runCLI(t, []string{"config", "init", "--path", target}, ""); err == nil {
		t.Fatal("expected error when config already exists")
	}

	out, _, err = runCLI(t, []string{"config", "show"}, env.configPath)
	if err != nil {
		t.Fatalf("config show: %v", err)
	}
	requireContains(t, out, "[task]")
	requireContains(t, out, "video_annotation")
}

func TestPreflightCommand(t *testing.T) {
	env := setupCLITestEnv(t)
	out, _, err := runCLI(t, []string{"preflight"}, env.configPath)
	if err != nil {
		t.Fatalf("preflight: %v", err)
	}
	requireContains(t, out, "OK   Output directory")
}
