package harness

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

// To regenerate golden files:
//
//	go test ./internal/harness -run TestScenarios -update
func TestScenarios(t *testing.T) {
	paths, err := filepath.Glob("testdata/scenarios/*.yaml")
	require.NoError(t, err)
	require.NotEmpty(t, paths)

	for _, path := range paths {
		s, err := LoadScenario(path)
		require.NoError(t, err)

		t.Run(s.Name, func(t *testing.T) {
			require.NoError(t, RunWithGolden(t, s))
		})
	}
}

func TestTraceSnapshotMarshal(t *testing.T) {
	snap := TraceSnapshot{
		Scenario: "tiny",
		Pass:     true,
		Trace:    []TraceEvent{{Seq: 1, Op: OpLookup, Key: "NOPE", Error: KindNotFound}},
	}
	data, err := snap.Marshal()
	require.NoError(t, err)
	require.Equal(t, `{
  "scenario": "tiny",
  "pass": true,
  "trace": [
    {
      "seq": 1,
      "op": "lookup",
      "key": "NOPE",
      "error": "not_found"
    }
  ]
}
`, string(data))
}
