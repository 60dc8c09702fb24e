package compiler

import (
	"fmt"
	"io/fs"
	"os"
	"path"
	"path/filepath"
	"sort"

	"cuelang.org/go/cue"
	"cuelang.org/go/cue/cuecontext"
	"cuelang.org/go/cue/load"

	"github.com/cchdo/params/internal/params"
)

// CompileFS compiles every top level .cue file in fsys into one tables
// value. Files are unified rather than loaded as a package, so a data file
// must not reference definitions declared in another file; the schema file
// constrains the data through unification instead.
func CompileFS(fsys fs.FS) (*params.Tables, error) {
	names, err := fs.Glob(fsys, "*.cue")
	if err != nil {
		return nil, err
	}
	if len(names) == 0 {
		return nil, &CompileError{Field: "files", Message: "no CUE files found"}
	}
	sort.Strings(names)

	ctx := cuecontext.New()
	value := ctx.CompileString("{}")
	for _, name := range names {
		data, err := fs.ReadFile(fsys, name)
		if err != nil {
			return nil, fmt.Errorf("read %s: %w", name, err)
		}
		fileVal := ctx.CompileBytes(data, cue.Filename(path.Base(name)))
		if err := fileVal.Err(); err != nil {
			return nil, formatCUEError(err)
		}
		value = value.Unify(fileVal)
	}

	return CompileTables(value)
}

// LoadDir loads the CUE package in dir with the CUE loader and compiles it.
// It also reports how many .cue files the directory tree holds.
func LoadDir(dir string) (*params.Tables, int, error) {
	info, err := os.Stat(dir)
	if err != nil {
		return nil, 0, fmt.Errorf("tables directory: %w", err)
	}
	if !info.IsDir() {
		return nil, 0, fmt.Errorf("not a directory: %s", dir)
	}

	files, err := FindCUEFiles(dir)
	if err != nil {
		return nil, 0, fmt.Errorf("scanning %s: %w", dir, err)
	}
	if len(files) == 0 {
		return nil, 0, &CompileError{Field: "files", Message: fmt.Sprintf("no CUE files found in %s", dir)}
	}

	ctx := cuecontext.New()
	instances := load.Instances([]string{"."}, &load.Config{Dir: dir})
	if len(instances) == 0 {
		return nil, len(files), &CompileError{Field: "load", Message: "no CUE instances loaded"}
	}
	inst := instances[0]
	if inst.Err != nil {
		return nil, len(files), formatCUEError(inst.Err)
	}

	value := ctx.BuildInstance(inst)
	if err := value.Err(); err != nil {
		return nil, len(files), formatCUEError(err)
	}

	tables, err := CompileTables(value)
	return tables, len(files), err
}

// FindCUEFiles walks the directory and returns all .cue file paths.
func FindCUEFiles(dir string) ([]string, error) {
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
