// Command validate checks a directory of forecast API responses against the
// document codecs. Every *.json file must decode, survive the binary round
// trip unchanged, and encode to the same bytes twice.
//
// Usage:
//
//	go run ./cmd/validate -dir internal/domain/testdata
package main

import (
	"bytes"
	"flag"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"

	"github.com/couchcryptid/forecast-client/internal/domain"
)

// phase tracks pass/fail for a validation phase.
type phase struct {
	name   string
	errors []string
}

func (p *phase) errorf(format string, args ...any) {
	p.errors = append(p.errors, fmt.Sprintf(format, args...))
}

func (p *phase) passed() bool { return len(p.errors) == 0 }

func main() {
	dir := flag.String("dir", "", "directory containing forecast JSON responses")
	flag.Parse()

	if *dir == "" {
		flag.Usage()
		os.Exit(1)
	}

	if code := run(os.Stdout, *dir); code != 0 {
		os.Exit(code)
	}
}

type document struct {
	path     string
	forecast domain.Forecast
}

func run(w io.Writer, dir string) int {
	fmt.Fprintln(w, "=== Forecast Document Validation ===")
	fmt.Fprintln(w)

	paths, err := filepath.Glob(filepath.Join(dir, "*.json"))
	if err != nil {
		fmt.Fprintf(w, "ERROR: %v\n", err)
		return 1
	}
	sort.Strings(paths)
	if len(paths) == 0 {
		fmt.Fprintf(w, "ERROR: no *.json files in %s\n", dir)
		return 1
	}

	decodePhase, docs := validateDecode(paths)
	phases := []*phase{
		decodePhase,
		validateRoundTrip(docs),
		validateDeterminism(docs),
	}

	allPassed := true
	for _, p := range phases {
		status := "PASS"
		if !p.passed() {
			status = "FAIL"
			allPassed = false
		}
		fmt.Fprintf(w, "  %-42s %s\n", p.name, status)
	}

	fmt.Fprintln(w)
	fmt.Fprintf(w, "Documents: %d found, %d decoded\n", len(paths), len(docs))

	for _, p := range phases {
		if p.passed() {
			continue
		}
		fmt.Fprintf(w, "\n--- %s ---\n", p.name)
		for i, e := range p.errors {
			fmt.Fprintf(w, "  [%d] %s\n", i+1, e)
		}
	}

	if allPassed {
		fmt.Fprintln(w, "\nAll validations passed.")
		return 0
	}
	fmt.Fprintln(w, "\nValidation FAILED.")
	return 1
}

func validateDecode(paths []string) (*phase, []document) {
	p := &phase{name: "Phase 1: Decode (JSON)"}
	docs := make([]document, 0, len(paths))
	for _, path := range paths {
		data, err := os.ReadFile(path) //nolint:gosec // paths come from the -dir flag
		if err != nil {
			p.errorf("%s: %v", filepath.Base(path), err)
			continue
		}
		f, err := domain.DecodeForecast(data)
		if err != nil {
			p.errorf("%s: %v", filepath.Base(path), err)
			continue
		}
		docs = append(docs, document{path: path, forecast: f})
	}
	return p, docs
}

func validateRoundTrip(docs []document) *phase {
	p := &phase{name: "Phase 2: Binary Round Trip"}
	for _, d := range docs {
		data, err := domain.EncodeBinary(d.forecast)
		if err != nil {
			p.errorf("%s: encode: %v", filepath.Base(d.path), err)
			continue
		}
		back, err := domain.DecodeBinary(data)
		if err != nil {
			p.errorf("%s: decode: %v", filepath.Base(d.path), err)
			continue
		}
		if !back.Equal(d.forecast) {
			p.errorf("%s: decoded document differs from original", filepath.Base(d.path))
		}
	}
	return p
}

func validateDeterminism(docs []document) *phase {
	p := &phase{name: "Phase 3: Deterministic Encoding"}
	for _, d := range docs {
		first, err := domain.EncodeBinary(d.forecast)
		if err != nil {
			p.errorf("%s: encode: %v", filepath.Base(d.path), err)
			continue
		}
		back, err := domain.DecodeBinary(first)
		if err != nil {
			p.errorf("%s: decode: %v", filepath.Base(d.path), err)
			continue
		}
		second, err := domain.EncodeBinary(back)
		if err != nil {
			p.errorf("%s: re-encode: %v", filepath.Base(d.path), err)
			continue
		}
		if !bytes.Equal(first, second) {
			p.errorf("%s: re-encoding changed %d bytes to %d", filepath.Base(d.path), len(first), len(second))
		}
	}
	return p
}
