// CargoStack plans how to load boxes into shipping containers.
//
// It reads a cargo list (CSV, Excel or pasted text), packs it layer by layer
// into as few containers as it can, prints a summary and optionally writes
// the plan as JSON, Excel, PDF, DXF or QR box labels.
//
// Usage:
//
//	cargostack -items cargo.csv -container 12000x2340x2610 -pdf plan.pdf
//	cargostack -plan saved.json -xlsx plan.xlsx
package main

import (
	"errors"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"text/tabwriter"

	"github.com/piwi3910/CargoStack/internal/engine"
	"github.com/piwi3910/CargoStack/internal/export"
	"github.com/piwi3910/CargoStack/internal/importer"
	"github.com/piwi3910/CargoStack/internal/model"
	"github.com/piwi3910/CargoStack/internal/project"
)

var (
	flagItems     = flag.String("items", "", "Cargo list: .csv, .xlsx, .txt, or - for stdin")
	flagPlan      = flag.String("plan", "", "Load a saved plan instead of packing")
	flagContainer = flag.String("container", "", "Container inner size LxWxH in mm or a catalog name such as 40hc (default from config)")
	flagCatalog   = flag.String("catalog", "", "Container catalog file (default ~/.cargostack/containers.json)")
	flagConfig    = flag.String("config", "", "Config file (default ~/.cargostack/config.json)")
	flagStrategy  = flag.String("strategy", "", "Stack strategy: layer-local-2d, same-spot, separate")
	flagStacking  = flag.Bool("stacking", false, "Fill headroom above short boxes")
	flagNoRotate  = flag.Bool("no-rotate", false, "Keep every box in its listed orientation")
	flagNoGroup   = flag.Bool("no-group", false, "Do not merge near-identical sizes")
	flagHeightTol = flag.Int("height-tol", 0, "Admit boxes up to this many mm taller than the layer")
	flagSingle    = flag.Bool("single", false, "Run only the first strategy")
	flagName      = flag.String("name", "", "Plan name stored with -out")
	flagOut       = flag.String("out", "", "Write the plan as JSON")
	flagXLSX      = flag.String("xlsx", "", "Write an Excel workbook")
	flagPDF       = flag.String("pdf", "", "Write a PDF loading report")
	flagDXF       = flag.String("dxf", "", "Write a DXF top view of every layer")
	flagLabels    = flag.String("labels", "", "Write a PDF sheet of QR box labels")
	flagVerbose   = flag.Bool("v", false, "Verbose output")
)

func main() {
	flag.Parse()
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "cargostack: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	configPath := *flagConfig
	if configPath == "" {
		configPath = project.DefaultConfigPath()
	}
	cfg, err := project.LoadAppConfig(configPath)
	if err != nil {
		return err
	}
	logger := newLogger(os.Stderr, cfg.LogLevel, *flagVerbose)
	slog.SetDefault(logger)

	var plan model.Plan
	switch {
	case *flagPlan != "":
		plan, err = project.LoadPlan(*flagPlan)
		if err != nil {
			return err
		}
		if plan.Result == nil {
			return fmt.Errorf("plan %s has no packing result", *flagPlan)
		}
		logger.Info("plan loaded", "path", *flagPlan, "name", plan.Name)
	case *flagItems != "":
		plan, err = buildPlan(cfg, logger)
		if err != nil {
			return err
		}
	default:
		flag.Usage()
		return errors.New("either -items or -plan is required")
	}

	estimate := model.CalculateLoadEstimate(plan.Items, plan.Size, cfg.FillFactor)
	printSummary(os.Stdout, *plan.Result, estimate)

	if *flagOut != "" {
		if err := project.SavePlan(*flagOut, plan); err != nil {
			return err
		}
		project.AddRecentPlan(&cfg, *flagOut)
		if err := project.SaveAppConfig(configPath, cfg); err != nil {
			logger.Warn("could not update recent plans", "error", err)
		}
	}
	return writeExports(*plan.Result, logger)
}

// buildPlan imports the cargo list, resolves settings and runs the optimizer.
func buildPlan(cfg model.AppConfig, logger *slog.Logger) (model.Plan, error) {
	plan := model.NewPlan()
	plan.Size = cfg.DefaultContainer
	cfg.ApplyToSettings(&plan.Settings)
	if *flagName != "" {
		plan.Name = *flagName
	}

	if *flagContainer != "" {
		size, err := resolveContainer(*flagContainer)
		if err != nil {
			return plan, err
		}
		plan.Size = size
	}
	if err := applyFlags(&plan.Settings); err != nil {
		return plan, err
	}

	imported := importItems(*flagItems)
	for _, w := range imported.Warnings {
		logger.Warn("import", "detail", w)
	}
	for _, e := range imported.Errors {
		logger.Error("import", "detail", e)
	}
	if len(imported.Items) == 0 {
		return plan, fmt.Errorf("no items imported from %s", *flagItems)
	}
	plan.Items = imported.Items

	opt := engine.New(plan.Settings, engine.WithLogger(logger))
	result, err := opt.Optimize(plan.Items, plan.Size)
	if err != nil {
		var infeasible *engine.InfeasibleItemError
		if errors.As(err, &infeasible) {
			for _, it := range infeasible.Items {
				logger.Error("item does not fit the container",
					"item", it.ID, "length", it.Length, "width", it.Width, "height", it.Height)
			}
		}
		return plan, err
	}
	plan.Result = &result
	return plan, nil
}

func applyFlags(s *model.PackSettings) error {
	if *flagStrategy != "" {
		st, err := model.ParseStackStrategy(*flagStrategy)
		if err != nil {
			return err
		}
		s.StackStrategy = st
		s.AllowStackingInLayer = true
	}
	if *flagStacking {
		s.AllowStackingInLayer = true
	}
	if *flagNoRotate {
		s.AllowRotation = false
	}
	if *flagNoGroup {
		s.GroupSimilar = false
	}
	if *flagHeightTol > 0 {
		s.AllowHeightTolerance = true
		s.HeightTolerance = *flagHeightTol
	}
	if *flagSingle {
		s.UseMultiStrategy = false
	}
	return s.Validate()
}

func importItems(path string) importer.ImportResult {
	if path == "-" {
		return importer.ImportText(os.Stdin)
	}
	switch strings.ToLower(filepath.Ext(path)) {
	case ".xlsx", ".xlsm":
		return importer.ImportExcel(path)
	case ".xls":
		return importer.ImportResult{Errors: []string{
			fmt.Sprintf("%s: legacy .xls workbooks are not supported, save it as .xlsx", filepath.Base(path)),
		}}
	case ".txt":
		f, err := os.Open(path)
		if err != nil {
			return importer.ImportResult{Errors: []string{fmt.Sprintf("Cannot open file: %v", err)}}
		}
		defer f.Close()
		return importer.ImportText(f)
	default:
		return importer.ImportCSV(path)
	}
}

// resolveContainer accepts either an explicit LxWxH size or the name of a
// catalog preset.
func resolveContainer(s string) (model.ContainerSize, error) {
	size, err := parseSize(s)
	if err == nil {
		return size, nil
	}
	path := *flagCatalog
	if path == "" {
		path = project.DefaultCatalogPath()
	}
	cat, cerr := project.LoadCatalog(path)
	if cerr != nil {
		return model.ContainerSize{}, errors.Join(err, cerr)
	}
	if p := cat.Find(s); p != nil {
		return p.Size, nil
	}
	return model.ContainerSize{}, fmt.Errorf("%w; known containers: %s", err, strings.Join(cat.Names(), ", "))
}

// parseSize parses "LxWxH" in millimetres. "X" and "*" are accepted as separators.
func parseSize(s string) (model.ContainerSize, error) {
	fields := strings.FieldsFunc(strings.ToLower(s), func(r rune) bool {
		return r == 'x' || r == '*'
	})
	if len(fields) != 3 {
		return model.ContainerSize{}, fmt.Errorf("container size %q: want LxWxH", s)
	}
	var dims [3]int
	for i, f := range fields {
		v, err := strconv.Atoi(strings.TrimSpace(f))
		if err != nil || v <= 0 {
			return model.ContainerSize{}, fmt.Errorf("container size %q: %q is not a positive integer", s, f)
		}
		dims[i] = v
	}
	return model.ContainerSize{Length: dims[0], Width: dims[1], Height: dims[2]}, nil
}

func newLogger(w io.Writer, level string, verbose bool) *slog.Logger {
	var lvl slog.Level
	if err := lvl.UnmarshalText([]byte(level)); err != nil {
		lvl = slog.LevelInfo
	}
	if verbose {
		lvl = slog.LevelDebug
	}
	return slog.New(slog.NewTextHandler(w, &slog.HandlerOptions{Level: lvl}))
}

func writeExports(result model.PackResult, logger *slog.Logger) error {
	exports := []struct {
		path  string
		kind  string
		write func(string, model.PackResult) error
	}{
		{*flagXLSX, "excel", export.ExportExcel},
		{*flagPDF, "pdf", export.ExportPDF},
		{*flagDXF, "dxf", export.ExportDXF},
		{*flagLabels, "labels", export.ExportLabels},
	}
	for _, e := range exports {
		if e.path == "" {
			continue
		}
		if err := e.write(e.path, result); err != nil {
			return fmt.Errorf("%s export: %w", e.kind, err)
		}
		logger.Info("exported", "kind", e.kind, "path", e.path)
	}
	return nil
}

func printSummary(w io.Writer, result model.PackResult, est model.LoadEstimate) {
	s := result.Size
	fmt.Fprintf(w, "Container %d x %d x %d mm\n", s.Length, s.Width, s.Height)
	fmt.Fprintf(w, "Strategy:    %s\n", result.BestStrategy)
	fmt.Fprintf(w, "Containers:  %d (volume estimate: %d at 100%%, %d at %.0f%% fill)\n",
		len(result.Containers), est.ContainersMin, est.ContainersWithFill, est.FillFactor)
	fmt.Fprintf(w, "Packed:      %d boxes, %.1f%% utilization\n", result.PackedCount(), result.TotalUtilization())
	fmt.Fprintf(w, "Cargo:       %.2f m³ in %d pieces\n", est.TotalCargoCubicMeters, est.TotalUnits)

	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "\nCONTAINER\tLAYERS\tBOXES\tUTILIZATION")
	for _, c := range result.Containers {
		fmt.Fprintf(tw, "%s\t%d\t%d\t%.1f%%\n", c.Name, len(c.Layers), c.PackedCount, c.Utilization(s))
	}
	tw.Flush()

	if len(result.Scores) > 1 {
		tw = tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
		fmt.Fprintln(tw, "\nSTRATEGY\tSCORE\tCONTAINERS\tPACKED")
		for _, sc := range result.Scores {
			if sc.Failed() {
				fmt.Fprintf(tw, "%s\tfailed: %s\t\t\n", sc.Name, sc.Err)
				continue
			}
			fmt.Fprintf(tw, "%s\t%.4f\t%d\t%d\n", sc.Name, sc.Score, sc.Containers, sc.Packed)
		}
		tw.Flush()
	}

	if len(result.Unplaced) > 0 {
		counts := map[string]int{}
		var order []string
		for _, u := range result.Unplaced {
			if counts[u.ItemID] == 0 {
				order = append(order, u.ItemID)
			}
			counts[u.ItemID]++
		}
		fmt.Fprintf(w, "\nUnplaced: %d boxes\n", len(result.Unplaced))
		for _, id := range order {
			fmt.Fprintf(w, "  %s x%d\n", id, counts[id])
		}
	}

	if rot := result.Rotation; rot.ImprovedTypes > 0 {
		fmt.Fprintf(w, "\nRotation advice: %d item types (%d boxes), average gain %.1f%%\n",
			rot.ImprovedTypes, rot.ImprovedUnits, rot.AvgImprovement)
		for _, a := range rot.Improved {
			fmt.Fprintf(w, "  %s: %dx%dx%d -> %dx%dx%d (+%.1f%%)\n", a.ItemID,
				a.Original[0], a.Original[1], a.Original[2],
				a.BestOrientation[0], a.BestOrientation[1], a.BestOrientation[2], a.Improvement)
		}
	}
}
