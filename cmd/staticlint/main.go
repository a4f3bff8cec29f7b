// The staticlint command bundles a set of static analyzers into a single
// binary built on top of `multichecker.Main`: a selection of passes from
// the Go toolchain, the third-party ineffassign and nilerr analyzers, a
// configurable subset of staticcheck, and the project's own noosexit
// analyzer.
//
// The set of enabled staticcheck analyzers is read from a config.json file
// placed next to the compiled binary. When the file is absent every "SA"
// analyzer is enabled.
package main

import (
	"encoding/json"
	"errors"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"golang.org/x/tools/go/analysis"
	"golang.org/x/tools/go/analysis/multichecker"
	"golang.org/x/tools/go/analysis/passes/copylock"
	"golang.org/x/tools/go/analysis/passes/loopclosure"
	"golang.org/x/tools/go/analysis/passes/lostcancel"
	"golang.org/x/tools/go/analysis/passes/printf"
	"golang.org/x/tools/go/analysis/passes/structtag"
	"golang.org/x/tools/go/analysis/passes/unmarshal"
	"golang.org/x/tools/go/analysis/passes/unreachable"
	"honnef.co/go/tools/staticcheck"

	"github.com/gordonklaus/ineffassign/pkg/ineffassign"
	"github.com/gostaticanalysis/nilerr"

	"github.com/patric-chuzhbe/linkwatch/cmd/staticlint/noosexit"
)

// ConfigFileName is the JSON file with the list of enabled staticcheck
// analyzer names, looked up in the directory of the running binary.
const ConfigFileName = `config.json`

// ConfigData mirrors the structure of the configuration file.
type ConfigData struct {
	Staticcheck []string
}

func main() {
	checks := []*analysis.Analyzer{
		copylock.Analyzer,
		loopclosure.Analyzer,
		lostcancel.Analyzer,
		printf.Analyzer,
		structtag.Analyzer,
		unmarshal.Analyzer,
		unreachable.Analyzer,

		ineffassign.Analyzer,
		nilerr.Analyzer,

		noosexit.Analyzer,
	}

	enabled, err := readEnabledStaticchecks()
	if err != nil {
		panic(err)
	}

	for _, v := range staticcheck.Analyzers {
		if enabled != nil && !enabled[v.Analyzer.Name] {
			continue
		}
		if enabled == nil && !strings.HasPrefix(v.Analyzer.Name, "SA") {
			continue
		}
		checks = append(checks, v.Analyzer)
	}

	multichecker.Main(checks...)
}

// readEnabledStaticchecks returns the set of staticcheck analyzer names
// listed in the configuration file, or nil when no file is present.
func readEnabledStaticchecks() (map[string]bool, error) {
	appfile, err := os.Executable()
	if err != nil {
		return nil, err
	}

	data, err := os.ReadFile(filepath.Join(filepath.Dir(appfile), ConfigFileName))
	if errors.Is(err, fs.ErrNotExist) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}

	var cfg ConfigData
	if err := json.Unmarshal(data, &cfg); err != nil {
		return nil, err
	}

	enabled := make(map[string]bool, len(cfg.Staticcheck))
	for _, name := range cfg.Staticcheck {
		enabled[name] = true
	}

	return enabled, nil
}
