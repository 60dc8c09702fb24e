// Package tables embeds the default CCHDO parameter and CF standard name
// tables, authored in CUE.
//
// schema.cue constrains every entry; params.cue, aliases.cue and cf.cue
// carry the data. The files are unified at load time.
package tables

import (
	"embed"
	"sync"

	"github.com/cchdo/params/internal/compiler"
	"github.com/cchdo/params/internal/params"
)

//go:embed *.cue
var files embed.FS

var (
	once    sync.Once
	cached  *params.Tables
	loadErr error
)

// FS exposes the embedded CUE sources.
func FS() embed.FS {
	return files
}

// Load compiles the embedded tables. Compilation happens once per process;
// callers receive a fresh copy they may modify.
func Load() (*params.Tables, error) {
	once.Do(func() {
		cached, loadErr = compiler.CompileFS(files)
	})
	if loadErr != nil {
		return nil, loadErr
	}
	return clone(cached), nil
}

func clone(t *params.Tables) *params.Tables {
	out := &params.Tables{
		Params:    append([]params.Record(nil), t.Params...),
		Aliases:   append([]params.AliasEntry(nil), t.Aliases...),
		CFNames:   append([]params.CFRecord(nil), t.CFNames...),
		CFAliases: make(map[string]string, len(t.CFAliases)),
		CFVersion: t.CFVersion,
	}
	for k, v := range t.CFAliases {
		out.CFAliases[k] = v
	}
	return out
}
