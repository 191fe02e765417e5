package tools

import (
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/drujensen/engineer/internal/domain/errs"

	"go.uber.org/zap"
)

func TestReadFileReturnsContent(t *testing.T) {
	root := t.TempDir()
	tool := NewReadFileTool("read_file", "Read a file", map[string]string{"workspace": root}, zap.NewNop())
	if err := os.WriteFile(filepath.Join(root, "hello.txt"), []byte("hello world"), 0644); err != nil {
		t.Fatal(err)
	}

	result, err := tool.Execute(`{"file_path":"hello.txt"}`)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	var parsed struct {
		Path    string `json:"path"`
		Content string `json:"content"`
		Size    int    `json:"size"`
	}
	if err := json.Unmarshal([]byte(result), &parsed); err != nil {
		t.Fatalf("result is not valid JSON: %v", err)
	}
	if parsed.Content != "hello world" {
		t.Errorf("unexpected content: %q", parsed.Content)
	}
	if parsed.Size != 11 {
		t.Errorf("unexpected size: %d", parsed.Size)
	}
}

func TestReadFileRejectsTraversal(t *testing.T) {
	root := t.TempDir()
	tool := NewReadFileTool("read_file", "Read a file", map[string]string{"workspace": root}, zap.NewNop())

	_, err := tool.Execute(`{"file_path":"../secrets.txt"}`)
	if err == nil {
		t.Fatal("expected traversal error")
	}
	if errs.KindOf(err) != errs.KindPathTraversal {
		t.Errorf("expected path_traversal kind, got %s", errs.KindOf(err))
	}
}

func TestReadFileRejectsBinary(t *testing.T) {
	root := t.TempDir()
	tool := NewReadFileTool("read_file", "Read a file", map[string]string{"workspace": root}, zap.NewNop())
	if err := os.WriteFile(filepath.Join(root, "blob.bin"), []byte{0x7f, 0x45, 0x4c, 0x46, 0x00, 0x01}, 0644); err != nil {
		t.Fatal(err)
	}

	_, err := tool.Execute(`{"file_path":"blob.bin"}`)
	if err == nil {
		t.Fatal("expected binary rejection")
	}
	if errs.KindOf(err) != errs.KindBinaryRejected {
		t.Errorf("expected binary_rejected kind, got %s", errs.KindOf(err))
	}
}

func TestReadMultipleFilesPartialSuccess(t *testing.T) {
	root := t.TempDir()
	tool := NewReadMultipleFilesTool("read_multiple_files", "Read files", map[string]string{"workspace": root}, zap.NewNop())
	if err := os.WriteFile(filepath.Join(root, "good.txt"), []byte("fine"), 0644); err != nil {
		t.Fatal(err)
	}

	result, err := tool.Execute(`{"file_paths":["good.txt","missing.txt","../outside.txt"]}`)
	if err != nil {
		t.Fatalf("partial failure must not fail the call: %v", err)
	}

	var parsed struct {
		Files []struct {
			Path    string `json:"path"`
			Content string `json:"content"`
			Error   string `json:"error"`
			Kind    string `json:"kind"`
		} `json:"files"`
		Succeeded int `json:"succeeded"`
		Failed    int `json:"failed"`
	}
	if err := json.Unmarshal([]byte(result), &parsed); err != nil {
		t.Fatalf("result is not valid JSON: %v", err)
	}
	if parsed.Succeeded != 1 || parsed.Failed != 2 {
		t.Errorf("expected 1 success and 2 failures, got %d/%d", parsed.Succeeded, parsed.Failed)
	}
	if len(parsed.Files) != 3 {
		t.Fatalf("expected one entry per requested path, got %d", len(parsed.Files))
	}
	if parsed.Files[0].Content != "fine" || parsed.Files[0].Error != "" {
		t.Errorf("expected first entry to succeed, got %+v", parsed.Files[0])
	}
	if parsed.Files[1].Kind != errs.KindExecutionFailure {
		t.Errorf("expected execution_failure for missing file, got %s", parsed.Files[1].Kind)
	}
	if parsed.Files[2].Kind != errs.KindPathTraversal {
		t.Errorf("expected path_traversal for escaping path, got %s", parsed.Files[2].Kind)
	}
}

func TestReadMultipleFilesRequiresPaths(t *testing.T) {
	root := t.TempDir()
	tool := NewReadMultipleFilesTool("read_multiple_files", "Read files", map[string]string{"workspace": root}, zap.NewNop())

	_, err := tool.Execute(`{"file_paths":[]}`)
	if err == nil {
		t.Fatal("expected error for empty file_paths")
	}
	if errs.KindOf(err) != errs.KindInvalidArguments {
		t.Errorf("expected invalid_arguments kind, got %s", errs.KindOf(err))
	}
}
