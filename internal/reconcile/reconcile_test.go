package reconcile

import (
	"bytes"
	"errors"
	"os"
	"path/filepath"
	"reflect"
	"strings"
	"testing"

	"github.com/banikojp/remove-unuse-assets/internal/testutil"
)

func testReconciler(t *testing.T, opts Options) (*Reconciler, *bytes.Buffer) {
	t.Helper()
	out := &bytes.Buffer{}
	opts.Out = out
	opts.Logger = testutil.Logger(t)
	if opts.AssetSuffix == "" {
		opts.AssetSuffix = ".assets"
	}
	return New(opts), out
}

func TestProcess_DeletesOnlyUnused(t *testing.T) {
	dir := t.TempDir()
	doc := testutil.WriteDocument(t, dir, "a.md", "![x](a.assets/keep.png)\n")
	assetDir := testutil.WriteAssets(t, doc, ".assets", "keep.png", "stale.png")

	r, out := testReconciler(t, Options{AssumeYes: true})
	n, err := r.Process(doc)
	if err != nil {
		t.Fatalf("Process: %v", err)
	}
	if n != 1 {
		t.Errorf("deleted = %d, want 1", n)
	}
	if got := testutil.ListDir(t, assetDir); !reflect.DeepEqual(got, []string{"keep.png"}) {
		t.Errorf("asset dir = %v, want [keep.png]", got)
	}
	if !strings.Contains(out.String(), "Deleted: "+filepath.Join(assetDir, "stale.png")) {
		t.Errorf("missing deletion report:\n%s", out.String())
	}
}

func TestProcess_NoAssetDirectory(t *testing.T) {
	dir := t.TempDir()
	doc := testutil.WriteDocument(t, dir, "lonely.md", "# nothing\n")

	r, out := testReconciler(t, Options{AssumeYes: true})
	n, err := r.Process(doc)
	if err != nil {
		t.Fatalf("Process: %v", err)
	}
	if n != 0 {
		t.Errorf("deleted = %d, want 0", n)
	}
	if !strings.Contains(out.String(), "No asset directory for") {
		t.Errorf("missing skip report:\n%s", out.String())
	}
}

func TestProcess_EmptyAssetDirectory(t *testing.T) {
	dir := t.TempDir()
	doc := testutil.WriteDocument(t, dir, "b.md", "no references here\n")
	testutil.WriteAssets(t, doc, ".assets")

	r, out := testReconciler(t, Options{AssumeYes: true})
	n, err := r.Process(doc)
	if err != nil {
		t.Fatalf("Process: %v", err)
	}
	if n != 0 {
		t.Errorf("deleted = %d, want 0", n)
	}
	if !strings.Contains(out.String(), "No files in asset directory") {
		t.Errorf("missing empty report:\n%s", out.String())
	}
}

func TestProcess_DryRunNeverMutates(t *testing.T) {
	dir := t.TempDir()
	md := "[1]: b.assets/one.png\n[2]: b.assets/two.jpg\n"
	doc := testutil.WriteDocument(t, dir, "b.md", md)
	assetDir := testutil.WriteAssets(t, doc, ".assets", "one.png", "two.jpg", "three.gif")

	before := testutil.ListDir(t, assetDir)

	r, out := testReconciler(t, Options{DryRun: true})
	n, err := r.Process(doc)
	if err != nil {
		t.Fatalf("Process: %v", err)
	}
	if n != 0 {
		t.Errorf("deleted = %d, want 0", n)
	}

	report := out.String()
	if !strings.Contains(report, "three.gif") {
		t.Errorf("three.gif should be reported unused:\n%s", report)
	}
	if !strings.Contains(report, "Unused files (1):") {
		t.Errorf("exactly one unused file expected:\n%s", report)
	}
	if !strings.Contains(report, "Dry run: no files will be deleted.") {
		t.Errorf("missing dry-run notice:\n%s", report)
	}
	if after := testutil.ListDir(t, assetDir); !reflect.DeepEqual(after, before) {
		t.Errorf("dry run mutated the directory: before %v, after %v", before, after)
	}
}

func TestProcess_InteractiveAbort(t *testing.T) {
	dir := t.TempDir()
	doc := testutil.WriteDocument(t, dir, "c.md", "nothing referenced\n")
	assetDir := testutil.WriteAssets(t, doc, ".assets", "orphan.png")

	asked := false
	r, out := testReconciler(t, Options{
		Confirm: func(prompt string) (bool, error) {
			asked = true
			return false, nil
		},
	})
	n, err := r.Process(doc)
	if err != nil {
		t.Fatalf("Process: %v", err)
	}
	if !asked {
		t.Error("confirmation was not requested")
	}
	if n != 0 {
		t.Errorf("deleted = %d, want 0", n)
	}
	if !strings.Contains(out.String(), "Aborted by user.") {
		t.Errorf("missing abort notice:\n%s", out.String())
	}
	if got := testutil.ListDir(t, assetDir); len(got) != 1 {
		t.Errorf("abort must not delete: %v", got)
	}
}

func TestProcess_InteractiveConfirm(t *testing.T) {
	dir := t.TempDir()
	doc := testutil.WriteDocument(t, dir, "c.md", "nothing referenced\n")
	assetDir := testutil.WriteAssets(t, doc, ".assets", "orphan.png")

	r, _ := testReconciler(t, Options{
		Confirm: func(prompt string) (bool, error) { return true, nil },
	})
	n, err := r.Process(doc)
	if err != nil {
		t.Fatalf("Process: %v", err)
	}
	if n != 1 {
		t.Errorf("deleted = %d, want 1", n)
	}
	if got := testutil.ListDir(t, assetDir); len(got) != 0 {
		t.Errorf("asset dir should be empty, got %v", got)
	}
}

func TestProcess_IdempotentUnderAssumeYes(t *testing.T) {
	dir := t.TempDir()
	doc := testutil.WriteDocument(t, dir, "a.md", "![x](a.assets/keep.png)\n")
	testutil.WriteAssets(t, doc, ".assets", "keep.png", "stale.png")

	r, _ := testReconciler(t, Options{AssumeYes: true})
	if n, err := r.Process(doc); err != nil || n != 1 {
		t.Fatalf("first run: n=%d err=%v, want n=1", n, err)
	}

	r2, out := testReconciler(t, Options{AssumeYes: true})
	n, err := r2.Process(doc)
	if err != nil {
		t.Fatalf("second run: %v", err)
	}
	if n != 0 {
		t.Errorf("second run deleted %d, want 0", n)
	}
	if !strings.Contains(out.String(), "No unused files in") {
		t.Errorf("missing no-unused report:\n%s", out.String())
	}
}

func TestProcess_CaseSensitiveMatch(t *testing.T) {
	dir := t.TempDir()
	doc := testutil.WriteDocument(t, dir, "a.md", "![x](a.assets/Img.png)\n")
	assetDir := testutil.WriteAssets(t, doc, ".assets", "img.png")

	r, _ := testReconciler(t, Options{AssumeYes: true})
	n, err := r.Process(doc)
	if err != nil {
		t.Fatalf("Process: %v", err)
	}
	// A reference to Img.png does not protect img.png.
	if n != 1 {
		t.Errorf("deleted = %d, want 1", n)
	}
	if got := testutil.ListDir(t, assetDir); len(got) != 0 {
		t.Errorf("img.png should be gone, got %v", got)
	}
}

func TestProcess_NeverDeletesDirectories(t *testing.T) {
	dir := t.TempDir()
	doc := testutil.WriteDocument(t, dir, "a.md", "no refs\n")
	assetDir := testutil.WriteAssets(t, doc, ".assets", "orphan.png")
	sub := filepath.Join(assetDir, "nested")
	if err := os.Mkdir(sub, 0o755); err != nil {
		t.Fatal(err)
	}

	r, _ := testReconciler(t, Options{AssumeYes: true})
	if _, err := r.Process(doc); err != nil {
		t.Fatalf("Process: %v", err)
	}
	got := testutil.ListDir(t, assetDir)
	if !reflect.DeepEqual(got, []string{"nested"}) {
		t.Errorf("asset dir = %v, want only the nested directory to survive", got)
	}
}

func TestProcess_UnreadableDocument(t *testing.T) {
	r, _ := testReconciler(t, Options{AssumeYes: true})
	_, err := r.Process(filepath.Join(t.TempDir(), "missing.md"))
	var readErr *ReadError
	if !errors.As(err, &readErr) {
		t.Fatalf("err = %v, want *ReadError", err)
	}
}

type recordingStub struct {
	records [][3]string
}

func (r *recordingStub) RecordDeletion(document, assetDir, file string) error {
	r.records = append(r.records, [3]string{document, assetDir, file})
	return nil
}

func TestProcess_RecorderReceivesDeletions(t *testing.T) {
	dir := t.TempDir()
	doc := testutil.WriteDocument(t, dir, "a.md", "![x](a.assets/keep.png)\n")
	assetDir := testutil.WriteAssets(t, doc, ".assets", "keep.png", "stale.png")

	stub := &recordingStub{}
	r, _ := testReconciler(t, Options{AssumeYes: true, Recorder: stub})
	if _, err := r.Process(doc); err != nil {
		t.Fatalf("Process: %v", err)
	}
	want := [][3]string{{doc, assetDir, "stale.png"}}
	if !reflect.DeepEqual(stub.records, want) {
		t.Errorf("records = %v, want %v", stub.records, want)
	}
}

func TestTerminalConfirm(t *testing.T) {
	cases := map[string]bool{
		"y\n":     true,
		"Y\n":     true,
		"yes\n":   true,
		"YES\n":   true,
		"n\n":     false,
		"\n":      false,
		"maybe\n": false,
	}
	for input, want := range cases {
		out := &bytes.Buffer{}
		confirm := TerminalConfirm(strings.NewReader(input), out)
		got, err := confirm("Delete? ")
		if err != nil {
			t.Fatalf("confirm(%q): %v", input, err)
		}
		if got != want {
			t.Errorf("confirm(%q) = %v, want %v", input, got, want)
		}
		if out.String() != "Delete? " {
			t.Errorf("prompt = %q", out.String())
		}
	}
}

func TestAssetDir(t *testing.T) {
	r, _ := testReconciler(t, Options{})
	got := r.AssetDir(filepath.Join("x", "report.md"))
	want := filepath.Join("x", "report.assets")
	if got != want {
		t.Errorf("AssetDir = %q, want %q", got, want)
	}
}
