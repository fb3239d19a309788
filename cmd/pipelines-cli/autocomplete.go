package main

import (
	"fmt"

	"github.com/spf13/cobra"
	"k8s.io/apimachinery/pkg/types"
	ctrl "sigs.k8s.io/controller-runtime"

	pipelinev1 "github.com/kination/pipelines-console/api/v1"
	"github.com/kination/pipelines-console/internal/autocomplete"
	"github.com/kination/pipelines-console/internal/catalog"
)

var (
	acManifests string
	acSources   string
	acPipeline  string
	acTaskIndex int
	acFinally   bool
	acResults   bool
)

var autocompleteCmd = &cobra.Command{
	Use:   "autocomplete",
	Short: "List the expressions a pipeline task may reference",
	Long: `List the parameter, workspace, status and result expressions offered
while editing one task of a pipeline. Result expressions of the task itself
and of every task that runs after it are never offered.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		if acPipeline == "" {
			return fmt.Errorf("--pipeline is required")
		}

		pipeline, snapshot, err := resolvePipeline(cmd)
		if err != nil {
			return err
		}

		tasks := pipeline.Spec.Tasks
		if acFinally {
			tasks = pipeline.Spec.Finally
		}
		if err := validateTaskIndex(acTaskIndex, len(tasks)); err != nil {
			return fmt.Errorf("pipeline %s: %w", pipeline.Name, err)
		}

		var exprs []string
		if acResults && !acFinally {
			resolver, err := autocomplete.NewResolver(cfg.CacheSize)
			if err != nil {
				return err
			}
			exprs = resolver.EligibleResultExpressions(pipeline.Spec.Tasks, snapshot, acTaskIndex)
		} else {
			exprs = autocomplete.Options(&pipeline.Spec, snapshot, acTaskIndex, acFinally)
		}

		for _, expr := range exprs {
			fmt.Fprintln(cmd.OutOrStdout(), expr)
		}
		return nil
	},
}

// validateTaskIndex accepts an existing task or count, which stands for a
// new task appended to the list.
func validateTaskIndex(index, count int) error {
	if index < 0 || index > count {
		return fmt.Errorf("task index %d out of range, expected 0 to %d", index, count)
	}
	return nil
}

func resolvePipeline(cmd *cobra.Command) (*pipelinev1.Pipeline, *catalog.Snapshot, error) {
	bundle, err := loadBundle(acSources, acManifests)
	if err != nil {
		return nil, nil, err
	}
	if bundle != nil {
		p, ok := bundle.Pipeline(acPipeline)
		if !ok {
			return nil, nil, fmt.Errorf("pipeline %q not found in manifests", acPipeline)
		}
		return p, bundle.Catalog(), nil
	}

	c, err := clusterClient()
	if err != nil {
		return nil, nil, err
	}
	var p pipelinev1.Pipeline
	if err := c.Get(cmd.Context(), types.NamespacedName{Namespace: targetNamespace, Name: acPipeline}, &p); err != nil {
		return nil, nil, fmt.Errorf("get pipeline %s/%s: %w", targetNamespace, acPipeline, err)
	}
	snapshot, err := catalog.NewLoader(c, catalog.NewStore()).
		WithLogger(ctrl.Log.WithName("autocomplete")).
		Load(cmd.Context(), targetNamespace)
	if err != nil {
		return nil, nil, err
	}
	return &p, snapshot, nil
}

func init() {
	autocompleteCmd.Flags().StringVarP(&acManifests, "manifests", "m", "", "Directory of Pipeline and Task manifests (reads the cluster when empty)")
	autocompleteCmd.Flags().StringVarP(&acSources, "sources", "s", "", "YAML list of manifest sources")
	autocompleteCmd.Flags().StringVarP(&acPipeline, "pipeline", "p", "", "Pipeline name")
	autocompleteCmd.Flags().IntVarP(&acTaskIndex, "task-index", "i", 0, "Index of the task being edited; the task count means a new task")
	autocompleteCmd.Flags().BoolVar(&acFinally, "finally", false, "Index points into the finally tasks")
	autocompleteCmd.Flags().BoolVar(&acResults, "results-only", false, "Only print task result expressions")
}
