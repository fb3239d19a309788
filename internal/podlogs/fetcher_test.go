package podlogs

import (
	"context"
	"testing"

	"k8s.io/client-go/kubernetes/fake"

	"github.com/kination/pipelines-console/internal/logsnippet"
)

func TestNewFetcher_DefaultTail(t *testing.T) {
	f := NewFetcher(fake.NewClientset(), 0)
	if f.tailLines != DefaultTailLines {
		t.Errorf("expected %d tail lines, got %d", DefaultTailLines, f.tailLines)
	}
}

func TestFetcher_Fetch_Nil(t *testing.T) {
	f := NewFetcher(fake.NewClientset(), 10)
	got, err := f.Fetch(context.Background(), "default", nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got != "" {
		t.Errorf("expected empty output, got %q", got)
	}
}

func TestFetcher_Fetch_Static(t *testing.T) {
	f := NewFetcher(fake.NewClientset(), 10)
	got, err := f.Fetch(context.Background(), "default", &logsnippet.CombinedErrorDetails{
		Title:         logsnippet.GenericFailureTitle,
		StaticMessage: "PipelineRun timed out",
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got != "PipelineRun timed out" {
		t.Errorf("unexpected output %q", got)
	}
}

func TestFetcher_Fetch_Locator(t *testing.T) {
	f := NewFetcher(fake.NewClientset(), 10)
	got, err := f.Fetch(context.Background(), "default", &logsnippet.CombinedErrorDetails{
		Title:         logsnippet.TaskFailureTitle("build"),
		PodName:       "build-pod",
		ContainerName: "step-compile",
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	// The fake clientset serves a fixed body for every log request.
	if got != "fake logs" {
		t.Errorf("unexpected output %q", got)
	}
}
