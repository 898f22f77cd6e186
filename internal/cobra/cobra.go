// Package cobra wires the forensic tool's subcommands (§6.3): pagesize,
// paritycheck, raidset, order, restore. Command plumbing follows the
// sibling CLIs in this family (package-level flag vars, a root command
// with persistent flags, one *cobra.Command per subcommand); RunE is
// used instead of Run so argument and runtime errors propagate to
// main's exit-code mapping instead of only being logged.
package cobra

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/Anthya1104/raid-forensic/internal/config"
	"github.com/Anthya1104/raid-forensic/internal/healthreport"
	"github.com/Anthya1104/raid-forensic/internal/membership"
	"github.com/Anthya1104/raid-forensic/internal/order"
	"github.com/Anthya1104/raid-forensic/internal/raiderr"
	"github.com/Anthya1104/raid-forensic/internal/restore"
	"github.com/Anthya1104/raid-forensic/internal/scan"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
)

var (
	imageFiles    []string
	imagePattern  string
	pageRangeSpec string
	nproc         int
	verbose       bool

	arraySize      int
	pageSizeKB     int64
	testAll        bool
	outputFilename string
)

var rootCmd = &cobra.Command{
	Use:   "raidforensic",
	Short: "Reconstruct and inspect left-asymmetric RAID5 images offline",
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		if verbose {
			logrus.SetLevel(logrus.DebugLevel)
		}
	},
}

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print version info",
	Run: func(cmd *cobra.Command, args []string) {
		logrus.Infof("Version: %s", config.Version)
	},
}

var pagesizeCmd = &cobra.Command{
	Use:   "pagesize",
	Short: "Infer the stripe page size from a member image",
	RunE: func(cmd *cobra.Command, args []string) error {
		if arraySize < 3 {
			return fmt.Errorf("%w: --array-size must be at least 3", raiderr.ErrArgument)
		}
		if pageRangeSpec != "all" {
			logrus.Infof("pagesize: --page-range is ignored; it always probes from the start of the image")
		}
		files, closeAll, err := openImages()
		if err != nil {
			return err
		}
		defer closeAll()
		if len(files) == 0 {
			return fmt.Errorf("%w: pagesize needs at least one image", raiderr.ErrArgument)
		}

		f := files[0]
		info, err := os.Stat(f.Name())
		if err != nil {
			return fmt.Errorf("raidforensic: stat %q: %w", f.Name(), err)
		}

		// Size pageCount against the largest candidate unit (1024KiB):
		// the resulting byte span fits inside every smaller candidate's
		// page grid too, since smaller pages only increase page count
		// over the same bytes.
		const probePages = 64
		maxPages := info.Size() / (1024 * 1024)
		if maxPages > probePages {
			maxPages = probePages
		}
		if maxPages < int64(2*arraySize) {
			return fmt.Errorf("%w: image %q is too small to search for a page size", raiderr.ErrArgument, f.Name())
		}

		ctx := context.Background()
		size, found, err := order.GuessPageSize(ctx, order.File{ID: f.Name(), Reader: f}, arraySize, nproc, nil, maxPages)
		if err != nil {
			return err
		}
		if !found {
			return fmt.Errorf("%w: no page size signature found in %q", raiderr.ErrOrderUndetermined, f.Name())
		}

		logrus.Infof("inferred page size: %d KiB", size/1024)
		return nil
	},
}

var paritycheckCmd = &cobra.Command{
	Use:   "paritycheck",
	Short: "Scan a page range and report parity health",
	RunE: func(cmd *cobra.Command, args []string) error {
		files, closeAll, err := openImages()
		if err != nil {
			return err
		}
		defer closeAll()
		if len(files) < 3 {
			return fmt.Errorf("%w: paritycheck requires at least 3 images, got %d", raiderr.ErrArgument, len(files))
		}
		pageSize := pageSizeKB * 1024

		maxPage, err := commonPageCount(files, pageSize)
		if err != nil {
			return err
		}
		pages, err := ParsePageRange(pageRangeSpec, maxPage)
		if err != nil {
			return err
		}

		readers := make([]io.ReaderAt, len(files))
		for i, f := range files {
			readers[i] = f
		}

		v, err := scan.TestParity(context.Background(), readers, pageSize, pages)
		if err != nil {
			return err
		}

		report := healthreport.Report{PagesChecked: len(pages), PagesFailed: len(v.FailingPages)}
		if v.Passed {
			logrus.Infof("paritycheck: %s", report)
		} else {
			logrus.Warnf("paritycheck: %s; failing pages: %v", report, v.FailingPages)
		}
		return nil
	},
}

var raidsetCmd = &cobra.Command{
	Use:   "raidset",
	Short: "Search candidate images for a valid N-member RAID5 set",
	RunE: func(cmd *cobra.Command, args []string) error {
		if arraySize < 3 {
			return fmt.Errorf("%w: --array-size must be at least 3", raiderr.ErrArgument)
		}
		files, closeAll, err := openImages()
		if err != nil {
			return err
		}
		defer closeAll()
		if len(files) < arraySize {
			return fmt.Errorf("%w: raidset needs at least %d candidate images, got %d", raiderr.ErrArgument, arraySize, len(files))
		}
		pageSize := pageSizeKB * 1024

		maxPage, err := commonPageCount(files, pageSize)
		if err != nil {
			return err
		}
		pages, err := ParsePageRange(pageRangeSpec, maxPage)
		if err != nil {
			return err
		}

		candidates := make([]membership.CandidateFile, len(files))
		for i, f := range files {
			candidates[i] = membership.CandidateFile{ID: f.Name(), Reader: f}
		}

		mode := membership.FirstMatch
		if testAll {
			mode = membership.TestAll
		}

		combos, err := membership.GuessSet(context.Background(), candidates, arraySize, pageSize, pages, mode, nproc)
		if err != nil {
			return err
		}
		if len(combos) == 0 {
			return fmt.Errorf("%w: no valid %d-member combination found", raiderr.ErrArgument, arraySize)
		}

		for i, c := range combos {
			names := make([]string, len(c.Files))
			for j, f := range c.Files {
				names[j] = f.ID
			}
			logrus.Infof("raidset: candidate %d: %v", i, names)
		}
		return nil
	},
}

var orderCmd = &cobra.Command{
	Use:   "order",
	Short: "Recover each image's column in the stripe from the parity signature",
	RunE: func(cmd *cobra.Command, args []string) error {
		files, closeAll, err := openImages()
		if err != nil {
			return err
		}
		defer closeAll()
		n := len(files)
		if n < 3 {
			return fmt.Errorf("%w: order requires at least 3 images, got %d", raiderr.ErrArgument, n)
		}
		pageSize := pageSizeKB * 1024

		maxPage, err := commonPageCount(files, pageSize)
		if err != nil {
			return err
		}
		pages, err := ParsePageRange(pageRangeSpec, maxPage)
		if err != nil {
			return err
		}
		firstPage, lastPage := pages[0], pages[0]
		for _, p := range pages {
			if p < firstPage {
				firstPage = p
			}
			if p > lastPage {
				lastPage = p
			}
		}

		ofs := make([]order.File, n)
		for i, f := range files {
			ofs[i] = order.File{ID: f.Name(), Reader: f}
		}

		placed, err := order.GuessOrder(context.Background(), ofs, pageSize, firstPage, lastPage-firstPage+1, n, nproc)
		if err != nil {
			return err
		}

		for col, f := range placed {
			logrus.Infof("order: column %d = %s", col, f.ID)
		}
		return nil
	},
}

var restoreCmd = &cobra.Command{
	Use:   "restore",
	Short: "Reconstruct the logical volume to a raw binary file",
	RunE: func(cmd *cobra.Command, args []string) error {
		if outputFilename == "" {
			return fmt.Errorf("%w: --output-filename is required", raiderr.ErrArgument)
		}
		if _, err := os.Stat(outputFilename); err == nil {
			return fmt.Errorf("%w: output file %q already exists", raiderr.ErrArgument, outputFilename)
		}
		files, closeAll, err := openImages()
		if err != nil {
			return err
		}
		defer closeAll()
		if len(files) < 3 {
			return fmt.Errorf("%w: restore requires at least 3 images, got %d", raiderr.ErrArgument, len(files))
		}
		pageSize := pageSizeKB * 1024

		maxPage, err := commonPageCount(files, pageSize)
		if err != nil {
			return err
		}
		pages, err := ParsePageRange(pageRangeSpec, maxPage)
		if err != nil {
			return err
		}

		out, err := os.OpenFile(outputFilename, os.O_CREATE|os.O_EXCL|os.O_WRONLY, 0o644)
		if err != nil {
			return fmt.Errorf("%w: creating output file: %v", raiderr.ErrArgument, err)
		}
		defer out.Close()

		readers := make([]io.ReaderAt, len(files))
		for i, f := range files {
			readers[i] = f
		}

		progress := func(done, total int64) {
			logrus.Infof("[restore] progress: %d/%d stripes", done, total)
		}

		if err := restore.Run(context.Background(), readers, pageSize, pages, out, progress); err != nil {
			return err
		}

		logrus.Infof("restore: wrote %d stripe(s) to %s", len(pages), outputFilename)
		return nil
	},
}

func InitCLI() *cobra.Command {
	rootCmd.PersistentFlags().StringArrayVar(&imageFiles, "image-file", nil, "member image path (repeatable)")
	rootCmd.PersistentFlags().StringVar(&imagePattern, "image-file-pattern", "", "glob pattern selecting member images")
	rootCmd.PersistentFlags().StringVar(&pageRangeSpec, "page-range", "all", "comma-separated page indices, ranges, or \"all\"")
	rootCmd.PersistentFlags().IntVar(&nproc, "nproc", 1, "worker pool size")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "verbose logging")

	pagesizeCmd.Flags().IntVar(&arraySize, "array-size", 0, "number of RAID members N")

	paritycheckCmd.Flags().Int64Var(&pageSizeKB, "page-size", 0, "stripe page size in KiB")

	raidsetCmd.Flags().IntVar(&arraySize, "array-size", 0, "number of RAID members N")
	raidsetCmd.Flags().Int64Var(&pageSizeKB, "page-size", 0, "stripe page size in KiB")
	raidsetCmd.Flags().BoolVar(&testAll, "test-all", false, "require every sampled page to pass parity")

	orderCmd.Flags().Int64Var(&pageSizeKB, "page-size", 0, "stripe page size in KiB")

	restoreCmd.Flags().Int64Var(&pageSizeKB, "page-size", 0, "stripe page size in KiB")
	restoreCmd.Flags().StringVar(&outputFilename, "output-filename", "", "path to write the reconstructed image to")

	rootCmd.AddCommand(versionCmd, pagesizeCmd, paritycheckCmd, raidsetCmd, orderCmd, restoreCmd)

	return rootCmd
}

func ExecuteCmd() error {
	return InitCLI().Execute()
}

// openImages resolves --image-file and --image-file-pattern into a
// single ordered list of open file handles. Exactly one of the two
// selection flags must be given.
func openImages() ([]*os.File, func(), error) {
	haveList := len(imageFiles) > 0
	havePattern := imagePattern != ""
	if haveList == havePattern {
		return nil, nil, fmt.Errorf("%w: exactly one of --image-file or --image-file-pattern is required", raiderr.ErrArgument)
	}

	paths := imageFiles
	if havePattern {
		matches, err := filepath.Glob(imagePattern)
		if err != nil {
			return nil, nil, fmt.Errorf("%w: invalid --image-file-pattern: %v", raiderr.ErrArgument, err)
		}
		if len(matches) == 0 {
			return nil, nil, fmt.Errorf("%w: --image-file-pattern matched no files", raiderr.ErrArgument)
		}
		paths = matches
	}

	files := make([]*os.File, 0, len(paths))
	closeAll := func() {
		for _, f := range files {
			_ = f.Close()
		}
	}
	for _, p := range paths {
		f, err := os.Open(p)
		if err != nil {
			closeAll()
			return nil, nil, fmt.Errorf("raidforensic: opening %q: %w", p, err)
		}
		files = append(files, f)
	}
	return files, closeAll, nil
}

// commonPageCount returns the number of whole pages shared by every
// open image, the basis for expanding --page-range "all".
func commonPageCount(files []*os.File, pageSize int64) (int64, error) {
	if pageSize <= 0 {
		return 0, fmt.Errorf("%w: --page-size must be positive", raiderr.ErrArgument)
	}
	var min int64 = -1
	for _, f := range files {
		info, err := f.Stat()
		if err != nil {
			return 0, fmt.Errorf("raidforensic: stat %q: %w", f.Name(), err)
		}
		pages := info.Size() / pageSize
		if min < 0 || pages < min {
			min = pages
		}
	}
	return min, nil
}
