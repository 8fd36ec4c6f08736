// ./internal/arch/arch_test.go
package arch

import (
	"bytes"
	"encoding/json"
	"io"
	"os/exec"
	"strings"
	"testing"
)

type pkg struct {
	ImportPath string
	Imports    []string
	Standard   bool
}

func list(t *testing.T, dir string) []pkg {
	t.Helper()
	cmd := exec.Command("go", "list", "-json", "./...")
	cmd.Dir = dir
	var out bytes.Buffer
	cmd.Stdout = &out
	if err := cmd.Run(); err != nil {
		t.Skipf("go list in %s: %v", dir, err)
	}
	dec := json.NewDecoder(&out)
	var pkgs []pkg
	for {
		var p pkg
		if err := dec.Decode(&p); err == io.EOF {
			break
		} else if err != nil {
			t.Fatalf("decode: %v", err)
		}
		pkgs = append(pkgs, p)
	}
	return pkgs
}

func TestImportBoundaries(t *testing.T) {
	front := []string{
		"deepfold/internal/appcore", "deepfold/internal/app", "deepfold/internal/trainapp",
		"deepfold/internal/cli", "deepfold/internal/traincli", "deepfold/internal/clibase",
		"deepfold/cmd/",
	}
	bans := map[string][]string{
		"deepfold/internal/pipeline":  append([]string{"deepfold/internal/writers", "deepfold/internal/models"}, front...),
		"deepfold/internal/writers":   append([]string{"deepfold/internal/models"}, front...),
		"deepfold/internal/models":    append([]string{"deepfold/internal/pipeline", "deepfold/internal/writers"}, front...),
		"deepfold/internal/onnxmodel": append([]string{"deepfold/internal/pipeline", "deepfold/internal/writers", "deepfold/internal/config"}, front...),
		"deepfold/internal/loommodel": append([]string{"deepfold/internal/pipeline", "deepfold/internal/writers", "deepfold/internal/config"}, front...),
		"deepfold/internal/scan":      append([]string{"deepfold/internal/pipeline", "deepfold/internal/writers"}, front...),
		"deepfold/internal/config":    append([]string{"deepfold/internal/pipeline", "deepfold/internal/writers", "deepfold/internal/models"}, front...),
	}

	var violations []string
	for _, p := range list(t, "../..") {
		if !strings.HasPrefix(p.ImportPath, "deepfold/") {
			continue
		}
		imp := p.ImportPath
		for prefix, forbidden := range bans {
			if imp != prefix && !strings.HasPrefix(imp, prefix+"/") {
				continue
			}
			for _, dep := range p.Imports {
				for _, ban := range forbidden {
					if dep == ban || strings.HasPrefix(dep, strings.TrimSuffix(ban, "/")+"/") {
						violations = append(violations, imp+" → "+dep)
					}
				}
			}
		}
	}

	if len(violations) > 0 {
		t.Fatalf("import boundary violations:\n  %s", strings.Join(violations, "\n  "))
	}
}

// The algorithm module stays on the standard library and never logs.
func TestCoreIsPure(t *testing.T) {
	var violations []string
	for _, p := range list(t, "../../core") {
		for _, dep := range p.Imports {
			if strings.HasPrefix(dep, "deepfold-core/") {
				continue
			}
			if strings.Contains(strings.SplitN(dep, "/", 2)[0], ".") || dep == "log" || dep == "log/slog" {
				violations = append(violations, p.ImportPath+" → "+dep)
			}
		}
	}
	if len(violations) > 0 {
		t.Fatalf("core imports outside the standard library:\n  %s", strings.Join(violations, "\n  "))
	}
}
