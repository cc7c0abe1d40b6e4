// Package logic implements the flow behind each command: selection,
// preflight, the seal pipeline, disclosure and reporting.
package logic

import (
	"bufio"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/dustin/go-humanize"
	"golang.org/x/term"

	"github.com/idelchi/goseal/internal/chunk"
	"github.com/idelchi/goseal/internal/config"
	"github.com/idelchi/goseal/internal/encrypt"
	"github.com/idelchi/goseal/internal/fileutil"
	"github.com/idelchi/goseal/internal/filter"
	"github.com/idelchi/goseal/internal/seal"
)

// Run is the main logic of the application: seal every selected file.
func Run(cfg *config.Config) error {
	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("%w: %w", seal.ErrConfig, err)
	}

	scanned, excluded, done, err := preamble(cfg)
	if done || err != nil {
		return err
	}

	freeSpaceWarning(cfg)

	ok, err := confirm(cfg, len(cfg.Files))
	if err != nil {
		return err
	}

	if !ok {
		fmt.Fprintln(os.Stderr, "Aborted.")

		return nil
	}

	if cfg.OutputDir != "" {
		if err := os.MkdirAll(cfg.OutputDir, 0o750); err != nil {
			return fmt.Errorf("%w: creating output directory: %w", seal.ErrIO, err)
		}
	}

	enc, err := encrypt.New(cfg.Backend, cfg.Cipher, cfg.Digest, cfg.CompressLevel)
	if err != nil {
		return fmt.Errorf("%w: %w", seal.ErrConfig, err)
	}

	if err := enc.Available(); err != nil {
		return fmt.Errorf("%w: backend %s: %w", seal.ErrEncryption, enc.Name(), err)
	}

	proc, err := seal.NewProcessor(cfg, enc)
	if err != nil {
		return fmt.Errorf("creating processor: %w", err)
	}

	jobs, summary := proc.ProcessFiles()

	discloseErr := disclose(cfg, jobs)

	if cfg.Stats {
		printStats(scanned, excluded, summary)
	}

	if discloseErr != nil {
		return discloseErr
	}

	if summary.Failed() {
		return fmt.Errorf("%d file(s) failed", summary.Errored)
	}

	return nil
}

// preamble resolves files, runs the selection-dependent configuration
// checks and handles dry run. Returns done=true if dry run was executed.
func preamble(cfg *config.Config) (int, int, bool, error) {
	start := time.Now()

	scanned, err := resolveFiles(cfg)
	if err != nil {
		return 0, 0, false, fmt.Errorf("resolving files: %w", err)
	}

	excluded := scanned - len(cfg.Files)

	if err := templateCheck(cfg); err != nil {
		return scanned, excluded, false, err
	}

	if err := collisionCheck(cfg); err != nil {
		return scanned, excluded, false, err
	}

	if err := keyFilePlacement(cfg); err != nil {
		return scanned, excluded, false, err
	}

	if cfg.Dry {
		return scanned, excluded, true, dryRun(cfg, scanned, excluded, start)
	}

	return scanned, excluded, false, nil
}

// resolveFiles expands positional args into the file selection.
// Returns the total number of files scanned before filtering.
func resolveFiles(cfg *config.Config) (int, error) {
	excludes := append([]string{}, cfg.Exclude...)

	if cfg.ExcludeFrom != "" {
		patterns, err := filter.LoadPatterns(cfg.ExcludeFrom)
		if err != nil {
			return 0, fmt.Errorf("%w: %w", seal.ErrConfig, err)
		}

		excludes = append(excludes, patterns...)
	}

	flt, err := filter.New(cfg.Types, excludes, cfg.Suffix)
	if err != nil {
		return 0, fmt.Errorf("%w: %w", seal.ErrConfig, err)
	}

	files, scanned, err := flt.Resolve(cfg.Files)
	if err != nil {
		return scanned, fmt.Errorf("%w: %w", seal.ErrInput, err)
	}

	cfg.Files = files

	return scanned, nil
}

// templateCheck rejects a rename template that would map several inputs
// onto one name.
func templateCheck(cfg *config.Config) error {
	if cfg.Rename && len(cfg.Files) > 1 && !strings.Contains(cfg.Template, "{name}") {
		return fmt.Errorf("%w: template %q must contain {name} when sealing %d files",
			seal.ErrConfig, cfg.Template, len(cfg.Files))
	}

	return nil
}

// collisionCheck rejects selections where two inputs produce the same
// artifact path and would silently overwrite each other's chunks, and
// selections whose artifact path is already occupied by a previous run.
func collisionCheck(cfg *config.Config) error {
	seen := make(map[string]string, len(cfg.Files))

	for _, file := range cfg.Files {
		artifact := seal.ArtifactPath(cfg, file)

		if other, ok := seen[artifact]; ok {
			return fmt.Errorf("%w: %q and %q both produce %q", seal.ErrConfig, other, file, artifact)
		}

		seen[artifact] = file

		if err := artifactClear(artifact); err != nil {
			return err
		}
	}

	return nil
}

// artifactClear rejects sealing over a previous run's outputs, whether
// the artifact itself or a chunk set split from it. Those files belong
// to a passphrase that was already disclosed; overwriting them orphans
// it.
func artifactClear(artifact string) error {
	if _, err := os.Stat(artifact); err == nil {
		return fmt.Errorf("%w: output %q already exists", seal.ErrConfig, artifact)
	}

	entries, err := os.ReadDir(filepath.Dir(artifact))
	if err != nil {
		// The output directory may not exist yet; nothing to clobber.
		return nil
	}

	base := filepath.Base(artifact)

	for _, entry := range entries {
		name := entry.Name()

		if parsed, _, _, ok := chunk.Parse(name); ok && parsed == base {
			return fmt.Errorf("%w: chunks of %q already exist (%q)",
				seal.ErrConfig, artifact, filepath.Join(filepath.Dir(artifact), name))
		}
	}

	return nil
}

// keyFilePlacement rejects a key file that would land in a directory
// receiving chunks or anywhere beneath one; whoever archives the output
// tree must not ship the passphrases with the data they open.
func keyFilePlacement(cfg *config.Config) error {
	if cfg.KeyFile == "" {
		return nil
	}

	keyDir, err := filepath.Abs(filepath.Dir(cfg.KeyFile))
	if err != nil {
		return fmt.Errorf("resolving key file path: %w", err)
	}

	for _, dir := range outputDirs(cfg) {
		abs, err := filepath.Abs(dir)
		if err != nil {
			continue
		}

		if keyDir == abs || strings.HasPrefix(keyDir, abs+string(os.PathSeparator)) {
			return fmt.Errorf("%w: key file %q resolves into output directory %q",
				seal.ErrConfig, cfg.KeyFile, dir)
		}
	}

	return nil
}

// outputDirs lists every directory this run writes chunks into.
func outputDirs(cfg *config.Config) []string {
	if cfg.OutputDir != "" {
		return []string{cfg.OutputDir}
	}

	seen := make(map[string]struct{})

	var dirs []string

	for _, file := range cfg.Files {
		dir := filepath.Dir(file)

		if _, ok := seen[dir]; ok {
			continue
		}

		seen[dir] = struct{}{}
		dirs = append(dirs, dir)
	}

	return dirs
}

// dryRun previews selection and chunk plan without touching anything.
//
//nolint:unparam // signature kept for consistency with Run callers
func dryRun(cfg *config.Config, scanned, excluded int, start time.Time) error {
	var totalSize int64

	maxSize := cfg.SplitBytes()

	for _, file := range cfg.Files {
		var size int64

		if info, err := os.Stat(file); err == nil {
			size = info.Size()
		}

		// The encrypted artifact is near the input size, so the chunk
		// count is an estimate, not a promise.
		count := int64(1)
		if maxSize > 0 && size > maxSize {
			count = (size + maxSize - 1) / maxSize
		}

		if !cfg.Quiet {
			fmt.Printf("Would seal %q -> %q (~%d chunk(s))\n", //nolint:forbidigo
				file, seal.ArtifactPath(cfg, file), count)
		}

		totalSize += size
	}

	if cfg.Stats {
		printStats(scanned, excluded, seal.Summary{
			Processed: len(cfg.Files),
			InputSize: totalSize,
			Duration:  time.Since(start),
		})
	}

	return nil
}

// freeSpaceWarning compares the bytes about to be written per output
// directory against the free space there. Warning only; the user may
// know better and compression may shrink the artifacts.
func freeSpaceWarning(cfg *config.Config) {
	need := make(map[string]int64)

	for _, file := range cfg.Files {
		info, err := os.Stat(file)
		if err != nil {
			continue
		}

		dir := cfg.OutputDir
		if dir == "" {
			dir = filepath.Dir(file)
		}

		need[dir] += info.Size()
	}

	for dir, total := range need {
		free, err := fileutil.FreeSpace(dir)
		if err != nil {
			continue
		}

		if free < uint64(total) { //nolint:gosec // total is a sum of file sizes
			fmt.Fprintf(os.Stderr, "Warning: %s free in %q, about %s needed\n",
				humanize.IBytes(free), dir, humanize.IBytes(uint64(total))) //nolint:gosec // non-negative
		}
	}
}

// confirm asks before processing. Non-interactive runs must pass --yes.
func confirm(cfg *config.Config, count int) (bool, error) {
	if cfg.Yes {
		return true, nil
	}

	if !term.IsTerminal(int(os.Stdin.Fd())) {
		return false, fmt.Errorf("%w: standard input is not a terminal; pass --yes to proceed", seal.ErrConfig)
	}

	fmt.Fprintf(os.Stderr, "Seal %d file(s)? [y/N]: ", count)

	line, err := bufio.NewReader(os.Stdin).ReadString('\n')
	if err != nil {
		return false, fmt.Errorf("reading confirmation: %w", err)
	}

	switch strings.ToLower(strings.TrimSpace(line)) {
	case "y", "yes":
		return true, nil
	default:
		return false, nil
	}
}

func printStats(scanned, excluded int, summary seal.Summary) {
	fmt.Fprintf(os.Stderr, "\nStats\n")
	fmt.Fprintf(os.Stderr, "  Scanned:   %d\n", scanned)
	fmt.Fprintf(os.Stderr, "  Excluded:  %d\n", excluded)
	fmt.Fprintf(os.Stderr, "  Processed: %d\n", summary.Processed)
	fmt.Fprintf(os.Stderr, "  Errors:    %d\n", summary.Errored)
	//nolint:gosec // sizes are always non-negative (sums of file sizes)
	fmt.Fprintf(os.Stderr, "  Read:      %s\n", humanize.IBytes(uint64(max(0, summary.InputSize))))
	//nolint:gosec // sizes are always non-negative (sums of file sizes)
	fmt.Fprintf(os.Stderr, "  Written:   %s\n", humanize.IBytes(uint64(max(0, summary.OutputSize))))
	fmt.Fprintf(os.Stderr, "  Duration:  %s\n", summary.Duration.Round(time.Millisecond))
}
