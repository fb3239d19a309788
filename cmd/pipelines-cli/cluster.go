package main

import (
	"fmt"

	"k8s.io/apimachinery/pkg/runtime"
	utilruntime "k8s.io/apimachinery/pkg/util/runtime"
	"k8s.io/client-go/kubernetes"
	clientgoscheme "k8s.io/client-go/kubernetes/scheme"
	"k8s.io/client-go/rest"
	"k8s.io/client-go/tools/clientcmd"
	ctrl "sigs.k8s.io/controller-runtime"
	"sigs.k8s.io/controller-runtime/pkg/client"

	pipelinev1 "github.com/kination/pipelines-console/api/v1"
	"github.com/kination/pipelines-console/internal/manifest"
)

var scheme = runtime.NewScheme()

func init() {
	utilruntime.Must(clientgoscheme.AddToScheme(scheme))
	utilruntime.Must(pipelinev1.AddToScheme(scheme))
}

func restConfig() (*rest.Config, error) {
	if cfg.Kubeconfig != "" {
		return clientcmd.BuildConfigFromFlags("", cfg.Kubeconfig)
	}
	return ctrl.GetConfig()
}

func clusterClient() (client.Client, error) {
	rc, err := restConfig()
	if err != nil {
		return nil, fmt.Errorf("load kubeconfig: %w", err)
	}
	c, err := client.New(rc, client.Options{Scheme: scheme})
	if err != nil {
		return nil, fmt.Errorf("create client: %w", err)
	}
	return c, nil
}

func clientset() (kubernetes.Interface, error) {
	rc, err := restConfig()
	if err != nil {
		return nil, fmt.Errorf("load kubeconfig: %w", err)
	}
	return kubernetes.NewForConfig(rc)
}

// loadBundle reads manifests from a sources file or a directory. It returns
// nil when neither is set, meaning resources come from the cluster.
func loadBundle(sourcesPath, dir string) (*manifest.Bundle, error) {
	switch {
	case sourcesPath != "":
		return manifest.LoadSources(sourcesPath)
	case dir != "":
		return manifest.Load(dir)
	default:
		return nil, nil
	}
}
