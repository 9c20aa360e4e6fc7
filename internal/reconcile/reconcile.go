// Package reconcile diffs a Markdown document against its asset directory
// and removes the files the document no longer references.
package reconcile

import (
	"bufio"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/banikojp/remove-unuse-assets/internal/scan"
)

// ConfirmFunc asks the operator to approve a deletion batch. It is a
// pluggable capability so non-interactive environments and tests can
// substitute their own answer.
type ConfirmFunc func(prompt string) (bool, error)

// TerminalConfirm returns a ConfirmFunc that prints the prompt and reads
// one line from in. Only "y" or "yes" (case-insensitive) approve.
func TerminalConfirm(in io.Reader, out io.Writer) ConfirmFunc {
	reader := bufio.NewReader(in)
	return func(prompt string) (bool, error) {
		fmt.Fprint(out, prompt)
		line, err := reader.ReadString('\n')
		if err != nil && line == "" {
			return false, fmt.Errorf("reconcile: read confirmation: %w", err)
		}
		ans := strings.ToLower(strings.TrimSpace(line))
		return ans == "y" || ans == "yes", nil
	}
}

// Recorder receives a notification for every successfully deleted file.
type Recorder interface {
	RecordDeletion(document, assetDir, file string) error
}

// ReadError reports a document that could not be read. It abandons that
// document only; the surrounding run continues.
type ReadError struct {
	Path string
	Err  error
}

func (e *ReadError) Error() string { return fmt.Sprintf("read %s: %v", e.Path, e.Err) }
func (e *ReadError) Unwrap() error { return e.Err }

// Options configures a Reconciler. Zero-value fields get defaults in New.
type Options struct {
	// AssetSuffix replaces the document extension to derive the asset
	// directory (default ".assets").
	AssetSuffix string
	// DryRun reports intent without deleting.
	DryRun bool
	// AssumeYes skips the confirmation prompt.
	AssumeYes bool
	// Confirm supplies the interactive prompt (default: stdin/stdout).
	Confirm ConfirmFunc
	// Out receives the human-readable report (default os.Stdout).
	Out io.Writer
	// Logger receives diagnostics (default slog.Default()).
	Logger *slog.Logger
	// Recorder, when non-nil, journals every successful deletion.
	// Recorder failures are logged and never affect the deletion batch.
	Recorder Recorder
}

// Reconciler processes documents one at a time; it holds no per-document
// state between calls.
type Reconciler struct {
	opts    Options
	scanner *scan.Scanner
}

// New creates a Reconciler.
func New(opts Options) *Reconciler {
	if opts.AssetSuffix == "" {
		opts.AssetSuffix = ".assets"
	}
	if opts.Out == nil {
		opts.Out = os.Stdout
	}
	if opts.Logger == nil {
		opts.Logger = slog.Default()
	}
	if opts.Confirm == nil {
		opts.Confirm = TerminalConfirm(os.Stdin, opts.Out)
	}
	return &Reconciler{
		opts:    opts,
		scanner: scan.New(opts.AssetSuffix),
	}
}

// AssetDir returns the asset directory paired with a document path.
func (r *Reconciler) AssetDir(docPath string) string {
	base := strings.TrimSuffix(docPath, filepath.Ext(docPath))
	return base + r.opts.AssetSuffix
}

// Process reconciles a single document and returns the number of files it
// deleted. Files are only ever removed from the document's own asset
// directory; directories are never removed.
func (r *Reconciler) Process(docPath string) (int, error) {
	out := r.opts.Out

	data, err := os.ReadFile(docPath)
	if err != nil {
		return 0, &ReadError{Path: docPath, Err: err}
	}

	assetDir := r.AssetDir(docPath)
	entries, err := os.ReadDir(assetDir)
	if err != nil {
		if os.IsNotExist(err) {
			fmt.Fprintf(out, "No asset directory for %s: %s (skipped)\n", docPath, assetDir)
			return 0, nil
		}
		return 0, fmt.Errorf("reconcile: list %s: %w", assetDir, err)
	}

	onDisk := listRegularFiles(assetDir, entries)
	if len(onDisk) == 0 {
		fmt.Fprintf(out, "No files in asset directory %s\n", assetDir)
		return 0, nil
	}

	referenced := r.scanner.Referenced(string(data))

	var unused []string
	for _, name := range onDisk {
		if _, ok := referenced[name]; !ok {
			unused = append(unused, name)
		}
	}
	if len(unused) == 0 {
		fmt.Fprintf(out, "No unused files in %s\n", assetDir)
		return 0, nil
	}

	fmt.Fprintf(out, "Asset dir: %s\n", assetDir)
	fmt.Fprintf(out, "Referenced files (%d): %s\n", len(referenced), joinSorted(referenced))
	fmt.Fprintf(out, "Unused files (%d):\n", len(unused))
	for _, name := range unused {
		fmt.Fprintf(out, "  %s\n", name)
	}

	if r.opts.DryRun {
		fmt.Fprintln(out, "Dry run: no files will be deleted.")
		return 0, nil
	}

	if !r.opts.AssumeYes {
		ok, err := r.opts.Confirm("Delete the above files? [y/N]: ")
		if err != nil {
			return 0, err
		}
		if !ok {
			fmt.Fprintln(out, "Aborted by user.")
			return 0, nil
		}
	}

	deleted := 0
	for _, name := range unused {
		target := filepath.Join(assetDir, name)
		if err := os.Remove(target); err != nil {
			fmt.Fprintf(out, "Failed to delete %s: %v\n", target, err)
			r.opts.Logger.Warn("delete failed",
				slog.String("file", target),
				slog.String("error", err.Error()))
			continue
		}
		deleted++
		fmt.Fprintf(out, "Deleted: %s\n", target)
		if r.opts.Recorder != nil {
			if recErr := r.opts.Recorder.RecordDeletion(docPath, assetDir, name); recErr != nil {
				r.opts.Logger.Warn("journal record failed",
					slog.String("file", target),
					slog.String("error", recErr.Error()))
			}
		}
	}
	return deleted, nil
}

// listRegularFiles returns the names of regular files directly inside dir,
// in directory order. Subdirectories and anything that fails to stat are
// excluded from deletion consideration.
func listRegularFiles(dir string, entries []os.DirEntry) []string {
	var names []string
	for _, e := range entries {
		if e.IsDir() {
			continue
		}
		info, err := os.Stat(filepath.Join(dir, e.Name()))
		if err != nil || !info.Mode().IsRegular() {
			continue
		}
		names = append(names, e.Name())
	}
	return names
}

func joinSorted(set map[string]struct{}) string {
	if len(set) == 0 {
		return "(none)"
	}
	names := make([]string, 0, len(set))
	for name := range set {
		names = append(names, name)
	}
	sort.Strings(names)
	return strings.Join(names, ", ")
}
