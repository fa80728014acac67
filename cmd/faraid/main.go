// Command faraid distributes an estate among heirs from the command line,
// either from relative counts or from a will exported by the will form.
package main

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/alecthomas/kingpin/v2"
	"github.com/goccy/go-json"
	"github.com/shopspring/decimal"
	"gopkg.in/yaml.v3"

	"github.com/drhimam/islamic-will-creator/internal/estate"
	"github.com/drhimam/islamic-will-creator/internal/inheritance"
	"github.com/drhimam/islamic-will-creator/internal/report"
	"github.com/drhimam/islamic-will-creator/internal/will"
)

// terminate is called by kingpin after printing help or usage.
var terminate = os.Exit

func main() {
	if err := run(os.Args[1:], os.Stdout); err != nil {
		fmt.Fprintln(os.Stderr, "faraid:", err)
		os.Exit(1)
	}
}

type willOutput struct {
	Testator     string                   `json:"testator"`
	Relatives    map[inheritance.Heir]int `json:"relatives"`
	Estate       estate.Breakdown         `json:"estate"`
	Distribution report.Report            `json:"distribution"`
}

func run(args []string, stdout io.Writer) error {
	app := kingpin.New("faraid", "Islamic inheritance (Fara'id) calculator")
	app.UsageWriter(stdout)
	app.Terminate(terminate)
	jsonOut := app.Flag("json", "Print the distribution as JSON").Bool()
	awl := app.Flag("awl", "Scale fixed shares down proportionally when they exceed the estate (--no-awl to disable)").
		Default("true").Bool()

	calc := app.Command("calc", "Distribute an estate among the given relatives")
	calcFile := calc.Flag("file", "YAML or JSON file mapping heir identifiers to counts").ExistingFile()
	calcEstate := calc.Flag("estate", "Estate value used to compute monetary amounts").String()
	heirFlags := make(map[inheritance.Heir]*int)
	for _, info := range inheritance.Heirs() {
		name := strings.ReplaceAll(string(info.Heir), "_", "-")
		heirFlags[info.Heir] = calc.Flag(name, "Number of "+strings.ToLower(info.Plural)).Default("0").Int()
	}

	willCmd := app.Command("will", "Distribute the estate described by a will file")
	willFile := willCmd.Flag("file", "Will record exported as JSON, or the same structure in YAML").Required().ExistingFile()

	cmd, err := app.Parse(args)
	if err != nil {
		return err
	}

	alloc := inheritance.New(inheritance.WithAwl(*awl))

	switch cmd {
	case calc.FullCommand():
		counts, err := collectCounts(*calcFile, heirFlags)
		if err != nil {
			return err
		}
		var value *decimal.Decimal
		if strings.TrimSpace(*calcEstate) != "" {
			v, err := estate.ParseAmount(*calcEstate)
			if err != nil {
				return fmt.Errorf("--estate: %w", err)
			}
			value = &v
		}
		result, err := alloc.Calculate(counts)
		if err != nil {
			return err
		}
		rep := report.Build(result, value)
		if *jsonOut {
			return writeJSON(stdout, rep)
		}
		renderReport(stdout, rep)
		return nil

	case willCmd.FullCommand():
		out, err := distributeWill(alloc, *willFile)
		if err != nil {
			return err
		}
		if *jsonOut {
			return writeJSON(stdout, out)
		}
		renderWill(stdout, out)
		return nil

	case app.HelpCommand.FullCommand():
		return nil
	}

	return fmt.Errorf("unknown command %q", cmd)
}

// collectCounts merges counts read from path with the per-heir flags. A
// non-zero flag replaces the file's value.
func collectCounts(path string, flags map[inheritance.Heir]*int) (inheritance.Counts, error) {
	raw := make(map[string]int)
	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return inheritance.Counts{}, fmt.Errorf("read counts: %w", err)
		}
		if err := yaml.Unmarshal(data, &raw); err != nil {
			return inheritance.Counts{}, fmt.Errorf("parse counts %s: %w", path, err)
		}
	}
	for h, n := range flags {
		if *n != 0 {
			raw[string(h)] = *n
		}
	}
	return inheritance.ParseCounts(raw)
}

func distributeWill(alloc inheritance.Allocator, path string) (willOutput, error) {
	rec, err := will.Load(path)
	if err != nil {
		return willOutput{}, fmt.Errorf("load will: %w", err)
	}
	if err := rec.Validate(); err != nil {
		return willOutput{}, err
	}
	counts, err := alloc.CountsFromWill(rec)
	if err != nil {
		return willOutput{}, err
	}
	breakdown, err := estate.FromWill(rec)
	if err != nil {
		return willOutput{}, err
	}
	result, err := alloc.Calculate(counts)
	if err != nil {
		return willOutput{}, err
	}
	return willOutput{
		Testator:     rec.PersonalInfo.FullName,
		Relatives:    counts.Map(),
		Estate:       breakdown,
		Distribution: report.Build(result, &breakdown.Distributable),
	}, nil
}

func writeJSON(w io.Writer, v any) error {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return fmt.Errorf("encode JSON: %w", err)
	}
	_, err = fmt.Fprintln(w, string(data))
	return err
}
