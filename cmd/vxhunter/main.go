package main

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/google/uuid"
	"github.com/spf13/cobra"
	"go.uber.org/multierr"

	"github.com/zboralski/vxhunter/internal/firmware"
	glog "github.com/zboralski/vxhunter/internal/log"
	"github.com/zboralski/vxhunter/internal/present"
	"github.com/zboralski/vxhunter/internal/present/browse"
)

var (
	versionFlag int
	jsonOutput  bool
	noColor     bool
	redact      bool
	demangle    bool
	parallel    bool
	verbose     bool
)

func main() {
	rootCmd := &cobra.Command{
		Use:   "vxhunter",
		Short: "Recover VxWorks symbol tables and load addresses from raw firmware images",
		Long: `vxhunter recovers a VxWorks firmware image's symbol table, string pool,
and load address purely from byte-pattern heuristics: no ELF or container
parsing, no disassembly, no relocation or emulation.

It locates the fixed-width symbol record table by sliding a 100-record
acceptance window over the image, disambiguates endianness by comparing
name-pointer columns across consecutive records, discovers the adjoining
string pool by growing bidirectionally from a well-known libc symbol, and
recovers the load address by first trying a short list of known VxWorks
link bases and, if none fits, matching pool-entry lengths against
symbol-table hints.

Examples:
  vxhunter analyze firmware.bin --version 5
  vxhunter analyze a.bin b.bin --version 6 --json --parallel
  vxhunter browse firmware.bin --version 5`,
	}

	analyzeCmd := &cobra.Command{
		Use:   "analyze <image...>",
		Short: "Analyze one or more firmware images",
		Args:  cobra.MinimumNArgs(1),
		RunE:  runAnalyze,
	}
	analyzeCmd.Flags().IntVar(&versionFlag, "version", 5, "VxWorks major version (5 or 6)")
	analyzeCmd.Flags().BoolVar(&jsonOutput, "json", false, "emit machine-readable JSON instead of a colorized report")
	analyzeCmd.Flags().BoolVar(&noColor, "no-color", false, "disable colorized output")
	analyzeCmd.Flags().BoolVar(&redact, "redact", false, "scrub incidental sensitive values from warnings")
	analyzeCmd.Flags().BoolVar(&demangle, "demangle", false, "demangle C++ symbol names in the report")
	analyzeCmd.Flags().BoolVar(&parallel, "parallel", false, "shard the load-address search across CPU cores")
	analyzeCmd.Flags().BoolVarP(&verbose, "verbose", "v", false, "verbose debug logging")
	rootCmd.AddCommand(analyzeCmd)

	browseCmd := &cobra.Command{
		Use:   "browse <image>",
		Short: "Interactively browse a recovered symbol table",
		Args:  cobra.ExactArgs(1),
		RunE:  runBrowse,
	}
	browseCmd.Flags().IntVar(&versionFlag, "version", 5, "VxWorks major version (5 or 6)")
	rootCmd.AddCommand(browseCmd)

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func parseVersion() (firmware.Version, error) {
	switch versionFlag {
	case 5:
		return firmware.V5, nil
	case 6:
		return firmware.V6, nil
	default:
		return 0, fmt.Errorf("unsupported --version %d (want 5 or 6)", versionFlag)
	}
}

// runAnalyze analyzes every image argument, aggregating per-image
// failures with multierr rather than stopping at the first one, so a
// batch of firmware dumps gets a complete report in one run.
func runAnalyze(cmd *cobra.Command, args []string) error {
	glog.Init(verbose)
	logger := glog.L

	version, err := parseVersion()
	if err != nil {
		return err
	}

	var errs error
	for _, path := range args {
		if err := analyzeOne(logger, path, version); err != nil {
			errs = multierr.Append(errs, fmt.Errorf("%s: %w", path, err))
		}
	}
	return errs
}

func analyzeOne(logger *glog.Logger, path string, version firmware.Version) error {
	runID := uuid.NewString()
	log := logger.WithRun(runID)

	image, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read image: %w", err)
	}

	log.Stage("analyze", glog.Count("image_size", len(image)))

	info, err := firmware.Analyze(image, version, firmware.Options{Parallel: parallel, RunID: runID})
	if err != nil {
		log.Failed("analyze", err)
		return err
	}

	log.Decision("analyze", "recovered",
		glog.Addr("load_address", info.LoadAddress),
		glog.Count("symbols", len(info.Symbols)))

	if redact {
		redactor := present.NewRedactor()
		for i, w := range info.Warnings {
			info.Warnings[i] = redactor.Redact(w)
		}
	}

	if jsonOutput {
		return printJSON(path, info)
	}
	printReport(path, info)
	return nil
}

func printJSON(path string, info *firmware.FirmwareInfo) error {
	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	return enc.Encode(struct {
		Path string `json:"path"`
		*firmware.FirmwareInfo
	}{Path: path, FirmwareInfo: info})
}

func printReport(path string, info *firmware.FirmwareInfo) {
	header, detail, address, dataName, warning := present.Header, present.Detail, present.Address, present.DataName, present.Warning
	if present.IsDisabled(noColor) {
		plain := func(s string) string { return s }
		header, detail, dataName, warning, address = plain, plain, plain, plain, present.AddressPlain
	}

	name := filepath.Base(path)
	fmt.Printf("%s %s\n", header("▶"), name)
	fmt.Printf("  %s %d   %s %s   %s %s\n",
		detail("version:"), info.Version,
		detail("endian:"), endianName(info.BigEndian),
		detail("load:"), address(info.LoadAddress))
	fmt.Printf("  %s %d\n", detail("symbols:"), len(info.Symbols))

	for _, sym := range info.Symbols {
		name := sym.Name
		if demangle {
			name = present.Demangle(name)
		}
		proto := fmt.Sprintf("void %s(void);", name)
		if sym.IsFunction() {
			fmt.Printf("  %s  %s\n", address(sym.ValueVAddr), present.Prototype(proto, noColor))
		} else {
			fmt.Printf("  %s  %s\n", address(sym.ValueVAddr), dataName(name))
		}
	}

	for _, w := range info.Warnings {
		fmt.Printf("  %s %s\n", warning("warning:"), w)
	}
	fmt.Println()
}

func endianName(bigEndian bool) string {
	if bigEndian {
		return "big"
	}
	return "little"
}

func runBrowse(cmd *cobra.Command, args []string) error {
	version, err := parseVersion()
	if err != nil {
		return err
	}

	image, err := os.ReadFile(args[0])
	if err != nil {
		return fmt.Errorf("read image: %w", err)
	}

	info, err := firmware.Analyze(image, version, firmware.Options{})
	if err != nil {
		return fmt.Errorf("analyze: %w", err)
	}

	return browse.Run(info)
}
