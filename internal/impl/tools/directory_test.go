package tools

import (
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/drujensen/engineer/internal/domain/errs"

	"go.uber.org/zap"
)

func TestListDirectoryImmediateChildren(t *testing.T) {
	root := t.TempDir()
	tool := NewListDirectoryTool("list_directory", "List a directory", map[string]string{"workspace": root}, zap.NewNop())

	if err := os.MkdirAll(filepath.Join(root, "src", "nested"), 0755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(filepath.Join(root, "readme.md"), []byte("hi"), 0644); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(filepath.Join(root, "src", "main.go"), []byte("package main"), 0644); err != nil {
		t.Fatal(err)
	}

	result, err := tool.Execute(`{"dir_path":""}`)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	var parsed struct {
		Entries []directoryEntry `json:"entries"`
		Count   int              `json:"count"`
	}
	if err := json.Unmarshal([]byte(result), &parsed); err != nil {
		t.Fatalf("result is not valid JSON: %v", err)
	}
	if parsed.Count != 2 {
		t.Fatalf("expected 2 immediate children, got %d", parsed.Count)
	}
	if parsed.Entries[0].Name != "readme.md" || parsed.Entries[0].Kind != "file" {
		t.Errorf("unexpected first entry: %+v", parsed.Entries[0])
	}
	if parsed.Entries[1].Name != "src" || parsed.Entries[1].Kind != "directory" {
		t.Errorf("unexpected second entry: %+v", parsed.Entries[1])
	}

	// No recursion: nested content never appears.
	for _, entry := range parsed.Entries {
		if entry.Name == "main.go" || entry.Name == "nested" {
			t.Errorf("listing must not recurse, found %s", entry.Name)
		}
	}
}

func TestListDirectoryNotADirectory(t *testing.T) {
	root := t.TempDir()
	tool := NewListDirectoryTool("list_directory", "List a directory", map[string]string{"workspace": root}, zap.NewNop())
	if err := os.WriteFile(filepath.Join(root, "file.txt"), []byte("hi"), 0644); err != nil {
		t.Fatal(err)
	}

	_, err := tool.Execute(`{"dir_path":"file.txt"}`)
	if err == nil {
		t.Fatal("expected error for non-directory")
	}
	if errs.KindOf(err) != errs.KindExecutionFailure {
		t.Errorf("expected execution_failure kind, got %s", errs.KindOf(err))
	}
}

func TestListDirectoryRejectsTraversal(t *testing.T) {
	root := t.TempDir()
	tool := NewListDirectoryTool("list_directory", "List a directory", map[string]string{"workspace": root}, zap.NewNop())

	_, err := tool.Execute(`{"dir_path":".."}`)
	if err == nil {
		t.Fatal("expected traversal error")
	}
	if errs.KindOf(err) != errs.KindPathTraversal {
		t.Errorf("expected path_traversal kind, got %s", errs.KindOf(err))
	}
}

func TestToolFactoryProvidesAllTools(t *testing.T) {
	factory, err := NewToolFactory()
	if err != nil {
		t.Fatal(err)
	}

	entries, err := factory.ListFactories()
	if err != nil {
		t.Fatal(err)
	}

	expected := []string{
		"read_file",
		"read_multiple_files",
		"create_file",
		"create_multiple_files",
		"edit_file",
		"list_directory",
	}
	if len(entries) != len(expected) {
		t.Fatalf("expected %d factories, got %d", len(expected), len(entries))
	}
	for i, name := range expected {
		if entries[i].Name != name {
			t.Errorf("expected factory %d to be %s, got %s", i, name, entries[i].Name)
		}
	}

	if _, err := factory.GetFactoryByName("bash"); err == nil {
		t.Error("expected unknown factory lookup to fail")
	}
}
