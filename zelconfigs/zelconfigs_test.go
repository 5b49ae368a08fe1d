package zelconfigs

import (
	"runtime"
	"slices"
	"testing"

	"github.com/reusee/dscope"
	"github.com/reusee/zel/configs"
	"github.com/reusee/zel/logs"
	"github.com/reusee/zel/modes"
)

func TestFromFile(t *testing.T) {
	dscope.New(
		modes.ForProduction(),
		new(logs.Module),
		new(Module),
	).Fork(
		func() configs.Loader {
			return configs.NewLoader([]string{"testdata/zel.cue"}, Schema)
		},
	).Call(func(
		workers Workers,
		queue QueueSize,
		stack MaxStack,
		trace Trace,
		async AsyncMembers,
	) {
		if !slices.Equal(async, AsyncMembers{"fetch", "load"}) {
			t.Fatalf("got %v", async)
		}
		if workers != 3 {
			t.Fatalf("got %v", workers)
		}
		if queue != 16 {
			t.Fatalf("got %v", queue)
		}
		if stack != 64 {
			t.Fatalf("got %v", stack)
		}
		if trace {
			t.Fatal()
		}
	})
}

func TestDefaults(t *testing.T) {
	dscope.New(
		modes.ForTest(t),
		new(logs.Module),
		new(Module),
	).Fork(
		func() configs.Loader {
			return configs.NewLoader(nil, Schema)
		},
	).Call(func(
		workers Workers,
		queue QueueSize,
		stack MaxStack,
		trace Trace,
	) {
		if int(workers) != runtime.NumCPU() {
			t.Fatalf("got %v", workers)
		}
		if queue != 0 {
			t.Fatalf("got %v", queue)
		}
		if stack != 0 {
			t.Fatalf("got %v", stack)
		}
		// development mode
		if !trace {
			t.Fatal()
		}
	})
}

func TestSchemaRejects(t *testing.T) {
	for _, path := range []string{
		"testdata/unknown.cue",
		"testdata/negative.cue",
	} {
		_, err := configs.NewLoader([]string{path}, Schema).Paths()
		if err == nil {
			t.Fatalf("%s: expected error", path)
		}
	}
}
