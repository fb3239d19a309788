// Package podlogs reads the container log a log snippet points at.
package podlogs

import (
	"bufio"
	"context"
	"fmt"
	"strings"

	corev1 "k8s.io/api/core/v1"
	"k8s.io/client-go/kubernetes"
	ctrl "sigs.k8s.io/controller-runtime"

	"github.com/kination/pipelines-console/internal/logsnippet"
)

var log = ctrl.Log.WithName("podlogs")

// DefaultTailLines is the number of log lines a snippet shows.
const DefaultTailLines int64 = 20

// Fetcher resolves snippet details to the text shown to the user.
type Fetcher struct {
	clientset kubernetes.Interface
	tailLines int64
}

// NewFetcher creates a fetcher reading at most tailLines lines per container
func NewFetcher(clientset kubernetes.Interface, tailLines int64) *Fetcher {
	if tailLines <= 0 {
		tailLines = DefaultTailLines
	}
	return &Fetcher{clientset: clientset, tailLines: tailLines}
}

// Fetch returns the static message of details, or the tail of the container
// log it locates.
func (f *Fetcher) Fetch(ctx context.Context, namespace string, details *logsnippet.CombinedErrorDetails) (string, error) {
	if details == nil {
		return "", nil
	}
	if !details.HasLocator() {
		return details.StaticMessage, nil
	}

	req := f.clientset.CoreV1().Pods(namespace).GetLogs(details.PodName, &corev1.PodLogOptions{
		Container: details.ContainerName,
		TailLines: &f.tailLines,
	})
	stream, err := req.Stream(ctx)
	if err != nil {
		return "", fmt.Errorf("failed to stream logs of %s/%s: %w", details.PodName, details.ContainerName, err)
	}
	defer stream.Close()

	var lines []string
	scanner := bufio.NewScanner(stream)
	for scanner.Scan() {
		lines = append(lines, scanner.Text())
	}
	if err := scanner.Err(); err != nil {
		return "", fmt.Errorf("failed to read logs of %s/%s: %w", details.PodName, details.ContainerName, err)
	}

	// The API server honours TailLines; trim again for clients that do not.
	if int64(len(lines)) > f.tailLines {
		lines = lines[int64(len(lines))-f.tailLines:]
	}

	log.V(1).Info("Fetched log snippet", "pod", details.PodName, "container", details.ContainerName, "lines", len(lines))
	return strings.Join(lines, "\n"), nil
}
