package mcpserver

import (
	"context"
	"strings"
	"testing"

	"github.com/mark3labs/mcp-go/mcp"

	"github.com/banikojp/remove-unuse-assets/internal/testutil"
)

func testServer(t *testing.T) *Server {
	t.Helper()
	return New(".md", ".assets", testutil.Logger(t))
}

func toolRequest(name string, args map[string]interface{}) mcp.CallToolRequest {
	req := mcp.CallToolRequest{}
	req.Method = "tools/call"
	req.Params.Name = name
	req.Params.Arguments = args
	return req
}

func resultText(t *testing.T, res *mcp.CallToolResult) string {
	t.Helper()
	if len(res.Content) == 0 {
		t.Fatal("empty tool result")
	}
	text, ok := res.Content[0].(mcp.TextContent)
	if !ok {
		t.Fatalf("unexpected content type %T", res.Content[0])
	}
	return text.Text
}

func TestScanAssets_ReportsWithoutDeleting(t *testing.T) {
	srv := testServer(t)
	dir := t.TempDir()
	doc := testutil.WriteDocument(t, dir, "a.md", "![x](a.assets/keep.png)\n")
	assetDir := testutil.WriteAssets(t, doc, ".assets", "keep.png", "stale.png")

	res, err := srv.scanAssets(context.Background(), toolRequest("scan_assets",
		map[string]interface{}{"path": doc}))
	if err != nil {
		t.Fatalf("scanAssets: %v", err)
	}
	if res.IsError {
		t.Fatalf("tool error: %s", resultText(t, res))
	}
	report := resultText(t, res)
	if !strings.Contains(report, "stale.png") {
		t.Errorf("report missing stale.png:\n%s", report)
	}
	if got := testutil.ListDir(t, assetDir); len(got) != 2 {
		t.Errorf("scan must not delete, dir = %v", got)
	}
}

func TestCleanAssets_Deletes(t *testing.T) {
	srv := testServer(t)
	dir := t.TempDir()
	doc := testutil.WriteDocument(t, dir, "a.md", "![x](a.assets/keep.png)\n")
	assetDir := testutil.WriteAssets(t, doc, ".assets", "keep.png", "stale.png")

	res, err := srv.cleanAssets(context.Background(), toolRequest("clean_assets",
		map[string]interface{}{"path": dir}))
	if err != nil {
		t.Fatalf("cleanAssets: %v", err)
	}
	if res.IsError {
		t.Fatalf("tool error: %s", resultText(t, res))
	}
	report := resultText(t, res)
	if !strings.Contains(report, "Total files deleted: 1") {
		t.Errorf("report missing total:\n%s", report)
	}
	got := testutil.ListDir(t, assetDir)
	if len(got) != 1 || got[0] != "keep.png" {
		t.Errorf("asset dir = %v, want [keep.png]", got)
	}
}

func TestListDocuments(t *testing.T) {
	srv := testServer(t)
	dir := t.TempDir()
	testutil.WriteDocument(t, dir, "a.md", "")
	testutil.WriteDocument(t, dir, "b.md", "")

	res, err := srv.listDocuments(context.Background(), toolRequest("list_documents",
		map[string]interface{}{"path": dir}))
	if err != nil {
		t.Fatalf("listDocuments: %v", err)
	}
	lines := strings.Split(strings.TrimSpace(resultText(t, res)), "\n")
	if len(lines) != 2 {
		t.Errorf("documents = %v, want 2", lines)
	}
}

func TestScanAssets_NoDocuments(t *testing.T) {
	srv := testServer(t)
	res, err := srv.scanAssets(context.Background(), toolRequest("scan_assets",
		map[string]interface{}{"path": t.TempDir()}))
	if err != nil {
		t.Fatalf("scanAssets: %v", err)
	}
	if !res.IsError {
		t.Error("expected tool error for empty directory")
	}
}

func TestScanAssets_MissingArgument(t *testing.T) {
	srv := testServer(t)
	res, err := srv.scanAssets(context.Background(), toolRequest("scan_assets", nil))
	if err != nil {
		t.Fatalf("scanAssets: %v", err)
	}
	if !res.IsError {
		t.Error("expected tool error for missing path")
	}
}
