package tools

import (
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/drujensen/engineer/internal/domain/errs"

	"go.uber.org/zap"
)

func TestCreateFileCreatesWithParents(t *testing.T) {
	root := t.TempDir()
	tool := NewCreateFileTool("create_file", "Create a file", map[string]string{"workspace": root}, zap.NewNop())

	result, err := tool.Execute(`{"file_path":"pkg/util/helper.go","content":"package util\n"}`)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	var parsed createResult
	if err := json.Unmarshal([]byte(result), &parsed); err != nil {
		t.Fatalf("result is not valid JSON: %v", err)
	}
	if parsed.Status != "created" {
		t.Errorf("expected status created, got %s", parsed.Status)
	}

	content, err := os.ReadFile(filepath.Join(root, "pkg", "util", "helper.go"))
	if err != nil {
		t.Fatalf("file was not written: %v", err)
	}
	if string(content) != "package util\n" {
		t.Errorf("unexpected content: %q", string(content))
	}
}

func TestCreateFileOverwriteReportsDiff(t *testing.T) {
	root := t.TempDir()
	tool := NewCreateFileTool("create_file", "Create a file", map[string]string{"workspace": root}, zap.NewNop())
	if err := os.WriteFile(filepath.Join(root, "config.txt"), []byte("old value\n"), 0644); err != nil {
		t.Fatal(err)
	}

	result, err := tool.Execute(`{"file_path":"config.txt","content":"new value\n"}`)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	var parsed createResult
	if err := json.Unmarshal([]byte(result), &parsed); err != nil {
		t.Fatalf("result is not valid JSON: %v", err)
	}
	if parsed.Status != "overwritten" {
		t.Errorf("expected status overwritten, got %s", parsed.Status)
	}
	if !strings.Contains(parsed.Diff, "-old value") || !strings.Contains(parsed.Diff, "+new value") {
		t.Errorf("expected diff to show the change, got:\n%s", parsed.Diff)
	}
}

func TestCreateFileRejectsTraversal(t *testing.T) {
	root := t.TempDir()
	tool := NewCreateFileTool("create_file", "Create a file", map[string]string{"workspace": root}, zap.NewNop())

	_, err := tool.Execute(`{"file_path":"../escape.txt","content":"nope"}`)
	if err == nil {
		t.Fatal("expected traversal error")
	}
	if errs.KindOf(err) != errs.KindPathTraversal {
		t.Errorf("expected path_traversal kind, got %s", errs.KindOf(err))
	}
	if _, statErr := os.Stat(filepath.Join(filepath.Dir(root), "escape.txt")); !os.IsNotExist(statErr) {
		t.Error("traversal failure must not write anything")
	}
}

func TestCreateMultipleFilesPartialSuccess(t *testing.T) {
	root := t.TempDir()
	tool := NewCreateMultipleFilesTool("create_multiple_files", "Create files", map[string]string{"workspace": root}, zap.NewNop())

	arguments := `{"files":[
		{"path":"a.txt","content":"alpha"},
		{"path":"../escape.txt","content":"nope"},
		{"path":"b.txt","content":"beta"}
	]}`
	result, err := tool.Execute(arguments)
	if err != nil {
		t.Fatalf("partial failure must not fail the call: %v", err)
	}

	var parsed struct {
		Files []struct {
			Path   string `json:"path"`
			Status string `json:"status"`
			Error  string `json:"error"`
			Kind   string `json:"kind"`
		} `json:"files"`
		Succeeded int `json:"succeeded"`
		Failed    int `json:"failed"`
	}
	if err := json.Unmarshal([]byte(result), &parsed); err != nil {
		t.Fatalf("result is not valid JSON: %v", err)
	}
	if parsed.Succeeded != 2 || parsed.Failed != 1 {
		t.Errorf("expected 2 successes and 1 failure, got %d/%d", parsed.Succeeded, parsed.Failed)
	}
	if parsed.Files[1].Kind != errs.KindPathTraversal {
		t.Errorf("expected path_traversal for second entry, got %s", parsed.Files[1].Kind)
	}

	// Siblings of the failing entry must still be written.
	for _, name := range []string{"a.txt", "b.txt"} {
		if _, err := os.Stat(filepath.Join(root, name)); err != nil {
			t.Errorf("expected %s to exist: %v", name, err)
		}
	}
}
