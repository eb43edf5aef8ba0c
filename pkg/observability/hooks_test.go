package observability

import (
	"bytes"
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/charmbracelet/log"
)

func TestNoopHooksDoNotPanic(t *testing.T) {
	ctx := context.Background()

	p := NoopPipelineHooks{}
	p.OnParseStart(ctx, "results.xml")
	p.OnParseComplete(ctx, "results.xml", 64, time.Second, nil)
	p.OnLayoutStart(ctx, 64)
	p.OnLayoutComplete(ctx, "8×8", 12, time.Second, nil)
	p.OnRenderStart(ctx, 12)
	p.OnArtifact(ctx, "copy_avg.png", 1024, time.Millisecond)
	p.OnRenderComplete(ctx, 12, time.Second, nil)
}

func TestGlobalHooksRegistry(t *testing.T) {
	Reset()

	if _, ok := Pipeline().(NoopPipelineHooks); !ok {
		t.Error("Pipeline() should return NoopPipelineHooks by default")
	}

	custom := &testPipelineHooks{}
	SetPipelineHooks(custom)
	if Pipeline() != custom {
		t.Error("SetPipelineHooks should set custom hooks")
	}

	Reset()
	if _, ok := Pipeline().(NoopPipelineHooks); !ok {
		t.Error("Reset() should restore NoopPipelineHooks")
	}
}

func TestSetNilHooksIsIgnored(t *testing.T) {
	Reset()
	defer Reset()

	custom := &testPipelineHooks{}
	SetPipelineHooks(custom)
	SetPipelineHooks(nil)
	if Pipeline() != custom {
		t.Error("SetPipelineHooks(nil) should keep the registered hooks")
	}
}

func TestLogHooks(t *testing.T) {
	var buf bytes.Buffer
	h := NewLogHooks(log.NewWithOptions(&buf, log.Options{Level: log.DebugLevel}))
	ctx := context.Background()

	h.OnParseComplete(ctx, "hpl.csv", 5, time.Millisecond, nil)
	h.OnArtifact(ctx, "gflops_base.png", 2048, time.Millisecond)
	h.OnRenderComplete(ctx, 3, time.Second, errors.New("disk full"))

	out := buf.String()
	for _, want := range []string{"parse finished", "records=5", "artifact=gflops_base.png", "render failed", "disk full"} {
		if !strings.Contains(out, want) {
			t.Errorf("log output missing %q:\n%s", want, out)
		}
	}
}

type testPipelineHooks struct {
	NoopPipelineHooks
	artifacts int
}

func (h *testPipelineHooks) OnArtifact(context.Context, string, int, time.Duration) {
	h.artifacts++
}
