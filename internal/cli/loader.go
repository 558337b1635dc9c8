package cli

import (
	"fmt"
	"os"
	"path/filepath"

	"cuelang.org/go/cue"
	"cuelang.org/go/cue/build"
	"cuelang.org/go/cue/cuecontext"
	"cuelang.org/go/cue/load"
	"cuelang.org/go/cue/token"

	"github.com/roach88/strand/internal/pipeline"
	"github.com/roach88/strand/internal/rewrite"
)

// SystemDefinition is a rewriting system loaded from a CUE file: the
// rule list plus optional bounds overriding the pipeline defaults.
type SystemDefinition struct {
	Name    string
	Rules   []rewrite.Rule
	Options pipeline.Options
}

// LoadError represents an error that occurred during system loading.
type LoadError struct {
	Code    string
	Message string
	Pos     token.Pos // CUE position if available
}

func (e *LoadError) Error() string {
	if e.Pos.IsValid() {
		return fmt.Sprintf("%s:%d:%d: %s: %s", e.Pos.Filename(), e.Pos.Line(), e.Pos.Column(), e.Code, e.Message)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

// Error code constants - unified across all CLI commands.
const (
	ErrCodeGeneric     = "E001" // Generic/unknown error
	ErrCodeScanError   = "E002" // Directory scan error
	ErrCodeNoFiles     = "E003" // No CUE files found
	ErrCodeLoadFailed  = "E004" // CUE load failed
	ErrCodeNotFound    = "E005" // Path not found
	ErrCodeBuildFailed = "E006" // CUE build failed

	// System validation errors
	ErrCodeNoRules       = "E101" // System defines no rules
	ErrCodeInvalidSymbol = "E102" // Rule side uses a symbol outside the alphabet
	ErrCodeEmptyLeft     = "E103" // Rule left-hand side is empty
	ErrCodeInvalidBound  = "E104" // Bound is not a valid integer
)

// LoadSystem loads a system definition from a .cue file or a directory
// of .cue files. The expected shape:
//
//	system: {
//		name: "two-cycle"
//		rules: [
//			{left: "00", right: "0|"},
//			{left: "0|", right: "00"},
//		]
//		bounds: {
//			maxLength: 4
//		}
//	}
//
// Bounds are optional and default to pipeline.DefaultOptions.
func LoadSystem(path string) (*SystemDefinition, error) {
	value, err := buildValue(path)
	if err != nil {
		return nil, err
	}

	system := value.LookupPath(cue.ParsePath("system"))
	if !system.Exists() {
		return nil, &LoadError{Code: ErrCodeBuildFailed, Message: "no system definition found"}
	}

	def := &SystemDefinition{Options: pipeline.DefaultOptions()}

	if nameVal := system.LookupPath(cue.ParsePath("name")); nameVal.Exists() {
		name, err := nameVal.String()
		if err != nil {
			return nil, &LoadError{Code: ErrCodeBuildFailed, Message: fmt.Sprintf("system.name: %v", err), Pos: nameVal.Pos()}
		}
		def.Name = name
	}

	if err := extractRules(system, def); err != nil {
		return nil, err
	}
	if err := extractBounds(system, def); err != nil {
		return nil, err
	}

	return def, nil
}

// buildValue loads and builds the CUE instance at path.
func buildValue(path string) (cue.Value, error) {
	info, err := os.Stat(path)
	if os.IsNotExist(err) {
		return cue.Value{}, &LoadError{Code: ErrCodeNotFound, Message: fmt.Sprintf("system definition not found: %s", path)}
	}
	if err != nil {
		return cue.Value{}, &LoadError{Code: ErrCodeNotFound, Message: fmt.Sprintf("error accessing %s: %v", path, err)}
	}

	var instances []*build.Instance
	if info.IsDir() {
		files, err := findCUEFiles(path)
		if err != nil {
			return cue.Value{}, &LoadError{Code: ErrCodeScanError, Message: fmt.Sprintf("error scanning directory: %v", err)}
		}
		if len(files) == 0 {
			return cue.Value{}, &LoadError{Code: ErrCodeNoFiles, Message: fmt.Sprintf("no CUE files found in %s", path)}
		}
		instances = load.Instances([]string{"."}, &load.Config{Dir: path})
	} else {
		instances = load.Instances([]string{path}, &load.Config{Dir: filepath.Dir(path)})
	}
	if len(instances) == 0 {
		return cue.Value{}, &LoadError{Code: ErrCodeLoadFailed, Message: "no CUE instances loaded"}
	}

	inst := instances[0]
	if inst.Err != nil {
		return cue.Value{}, &LoadError{Code: ErrCodeLoadFailed, Message: fmt.Sprintf("loading CUE files: %v", inst.Err)}
	}

	value := cuecontext.New().BuildInstance(inst)
	if err := value.Err(); err != nil {
		return cue.Value{}, &LoadError{Code: ErrCodeBuildFailed, Message: fmt.Sprintf("building CUE value: %v", err)}
	}
	return value, nil
}

// extractRules pulls system.rules out of the CUE value and validates
// every side against the alphabet.
func extractRules(system cue.Value, def *SystemDefinition) error {
	rulesVal := system.LookupPath(cue.ParsePath("rules"))
	if !rulesVal.Exists() {
		return &LoadError{Code: ErrCodeNoRules, Message: "system.rules is missing"}
	}

	iter, err := rulesVal.List()
	if err != nil {
		return &LoadError{Code: ErrCodeBuildFailed, Message: fmt.Sprintf("system.rules: %v", err), Pos: rulesVal.Pos()}
	}
	for iter.Next() {
		item := iter.Value()
		left, err := ruleSide(item, "left")
		if err != nil {
			return err
		}
		right, err := ruleSide(item, "right")
		if err != nil {
			return err
		}
		if left == "" {
			return &LoadError{Code: ErrCodeEmptyLeft, Message: "rule left-hand side is empty", Pos: item.Pos()}
		}
		def.Rules = append(def.Rules, rewrite.NewRule(left, right))
	}

	if len(def.Rules) == 0 {
		return &LoadError{Code: ErrCodeNoRules, Message: "system defines no rules"}
	}
	return nil
}

// ruleSide extracts and validates one side of a rule.
func ruleSide(item cue.Value, field string) (string, error) {
	val := item.LookupPath(cue.ParsePath(field))
	if !val.Exists() {
		return "", &LoadError{Code: ErrCodeBuildFailed, Message: fmt.Sprintf("rule is missing %q", field), Pos: item.Pos()}
	}
	s, err := val.String()
	if err != nil {
		return "", &LoadError{Code: ErrCodeBuildFailed, Message: fmt.Sprintf("rule %s: %v", field, err), Pos: val.Pos()}
	}
	for _, r := range s {
		sym := rewrite.Symbol(r)
		if !sym.IsBase() && (r < 'A' || r > 'Z') {
			return "", &LoadError{
				Code:    ErrCodeInvalidSymbol,
				Message: fmt.Sprintf("rule %s %q: symbol %q outside alphabet", field, s, r),
				Pos:     val.Pos(),
			}
		}
	}
	return s, nil
}

// extractBounds overlays system.bounds onto the default options.
func extractBounds(system cue.Value, def *SystemDefinition) error {
	bounds := system.LookupPath(cue.ParsePath("bounds"))
	if !bounds.Exists() {
		return nil
	}

	fields := map[string]*int{
		"maxLength":       &def.Options.MaxLength,
		"depth":           &def.Options.Depth,
		"minPatternLen":   &def.Options.MinPatternLen,
		"maxPatternLen":   &def.Options.MaxPatternLen,
		"maxCandidates":   &def.Options.MaxCandidates,
		"confluenceDepth": &def.Options.ConfluenceDepth,
		"bisimLength":     &def.Options.BisimLength,
		"bisimDepth":      &def.Options.BisimDepth,
		"workers":         &def.Options.Workers,
	}
	for name, target := range fields {
		val := bounds.LookupPath(cue.ParsePath(name))
		if !val.Exists() {
			continue
		}
		n, err := val.Int64()
		if err != nil {
			return &LoadError{Code: ErrCodeInvalidBound, Message: fmt.Sprintf("bounds.%s: %v", name, err), Pos: val.Pos()}
		}
		*target = int(n)
	}
	return nil
}

// findCUEFiles walks the directory and returns all .cue file paths.
func findCUEFiles(dir string) ([]string, error) {
	var files []string
	err := filepath.Walk(dir, func(path string, info os.FileInfo, err error) error {
		if err != nil {
			return err
		}
		if !info.IsDir() && filepath.Ext(path) == ".cue" {
			files = append(files, path)
		}
		return nil
	})
	return files, err
}
