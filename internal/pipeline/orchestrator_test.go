package pipeline

import (
	"context"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/inkpadhq/inkpad-export/internal/config"
	"github.com/inkpadhq/inkpad-export/internal/export"
)

func testSetup(t *testing.T, queueSize int) (*Orchestrator, config.Config) {
	t.Helper()
	cfg := config.Config{
		RasterWidth:  400,
		RasterScale:  1,
		PageWidthMM:  210,
		PageHeightMM: 297,
		WorkerCount:  1,
		MaxQueueSize: queueSize,
		JobTTL:       time.Hour,
		DefaultTheme: "light",
	}
	log := slog.New(slog.NewTextHandler(io.Discard, nil))
	exporter, err := export.New(cfg, nil, nil, log)
	if err != nil {
		t.Fatalf("export.New: %v", err)
	}
	return NewOrchestrator(cfg, exporter, log), cfg
}

func waitForStatus(t *testing.T, orch *Orchestrator, id string, want JobStatus) Snapshot {
	t.Helper()
	deadline := time.Now().Add(10 * time.Second)
	for time.Now().Before(deadline) {
		job := orch.GetJob(id)
		if job == nil {
			t.Fatalf("job %s vanished", id)
		}
		snap := job.Snapshot()
		if snap.Status == want {
			return snap
		}
		if snap.Status == StatusFailed && want != StatusFailed {
			t.Fatalf("job failed: %s", snap.Error)
		}
		time.Sleep(10 * time.Millisecond)
	}
	t.Fatalf("job %s never reached %s", id, want)
	return Snapshot{}
}

func TestOrchestratorProcessesJob(t *testing.T) {
	orch, _ := testSetup(t, 4)
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	orch.Start(ctx)
	defer orch.Stop()

	job := NewJob(export.FormatHTML, "# Async Doc\n\nbody\n", "light", "doc")
	if err := orch.Submit(job); err != nil {
		t.Fatalf("Submit: %v", err)
	}

	waitForStatus(t, orch, job.ID, StatusCompleted)
	if len(job.Result()) == 0 {
		t.Error("completed job has empty artifact")
	}
}

func TestOrchestratorFailsBadTheme(t *testing.T) {
	orch, _ := testSetup(t, 4)
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	orch.Start(ctx)
	defer orch.Stop()

	job := NewJob(export.FormatPDF, "# Doc", "sepia", "doc")
	if err := orch.Submit(job); err != nil {
		t.Fatalf("Submit: %v", err)
	}

	snap := waitForStatus(t, orch, job.ID, StatusFailed)
	if snap.Error != export.ErrExportFailed.Error() {
		t.Errorf("error = %q, want normalized failure", snap.Error)
	}
}

func TestOrchestratorQueueFull(t *testing.T) {
	// Workers never start, so the queue fills and the overflow job fails.
	orch, _ := testSetup(t, 1)

	first := NewJob(export.FormatHTML, "# a", "", "a")
	if err := orch.Submit(first); err != nil {
		t.Fatalf("first Submit: %v", err)
	}

	overflow := NewJob(export.FormatHTML, "# b", "", "b")
	if err := orch.Submit(overflow); err == nil {
		t.Fatal("overflow Submit succeeded")
	}
	if snap := overflow.Snapshot(); snap.Status != StatusFailed {
		t.Errorf("overflow status = %q, want failed", snap.Status)
	}
	if orch.QueueDepth() != 1 {
		t.Errorf("queue depth = %d, want 1", orch.QueueDepth())
	}
}
