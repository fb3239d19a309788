package main

import (
	"fmt"

	"github.com/spf13/cobra"
	"k8s.io/apimachinery/pkg/types"
	"sigs.k8s.io/controller-runtime/pkg/client"
	k8syaml "sigs.k8s.io/yaml"

	pipelinev1 "github.com/kination/pipelines-console/api/v1"
	"github.com/kination/pipelines-console/internal/logsnippet"
	"github.com/kination/pipelines-console/internal/podlogs"
)

var (
	lsManifests   string
	lsPipelineRun string
	lsFetchLogs   bool
)

var logSnippetCmd = &cobra.Command{
	Use:   "log-snippet",
	Short: "Explain why a PipelineRun failed",
	RunE: func(cmd *cobra.Command, args []string) error {
		if lsPipelineRun == "" {
			return fmt.Errorf("--pipelinerun is required")
		}
		ctx := cmd.Context()

		var (
			pr       *pipelinev1.PipelineRun
			taskRuns []pipelinev1.TaskRun
		)
		bundle, err := loadBundle("", lsManifests)
		if err != nil {
			return err
		}
		if bundle != nil {
			var ok bool
			if pr, ok = bundle.PipelineRun(lsPipelineRun); !ok {
				return fmt.Errorf("pipelinerun %q not found in manifests", lsPipelineRun)
			}
			taskRuns = bundle.TaskRunsFor(lsPipelineRun)
		} else {
			c, err := clusterClient()
			if err != nil {
				return err
			}
			pr = &pipelinev1.PipelineRun{}
			if err := c.Get(ctx, types.NamespacedName{Namespace: targetNamespace, Name: lsPipelineRun}, pr); err != nil {
				return fmt.Errorf("get pipelinerun %s/%s: %w", targetNamespace, lsPipelineRun, err)
			}
			var list pipelinev1.TaskRunList
			if err := c.List(ctx, &list,
				client.InNamespace(targetNamespace),
				client.MatchingLabels{pipelinev1.PipelineRunLabelKey: lsPipelineRun},
			); err != nil {
				return fmt.Errorf("list taskruns: %w", err)
			}
			taskRuns = list.Items
		}
		taskRuns = logsnippet.OrderTaskRuns(pr, taskRuns)

		details := logsnippet.GetPLRLogSnippet(pr, taskRuns)
		if details == nil {
			fmt.Fprintf(cmd.OutOrStdout(), "PipelineRun %s: %s\n", pr.Name, logsnippet.RunStatus(pr))
			return nil
		}

		out, err := k8syaml.Marshal(details)
		if err != nil {
			return err
		}
		fmt.Fprint(cmd.OutOrStdout(), string(out))

		if !lsFetchLogs || !details.HasLocator() {
			return nil
		}
		cs, err := clientset()
		if err != nil {
			return err
		}
		text, err := podlogs.NewFetcher(cs, cfg.TailLines).Fetch(ctx, targetNamespace, details)
		if err != nil {
			return err
		}
		fmt.Fprintln(cmd.OutOrStdout(), text)
		return nil
	},
}

func init() {
	logSnippetCmd.Flags().StringVarP(&lsManifests, "manifests", "m", "", "Directory of PipelineRun and TaskRun manifests (reads the cluster when empty)")
	logSnippetCmd.Flags().StringVarP(&lsPipelineRun, "pipelinerun", "r", "", "PipelineRun name")
	logSnippetCmd.Flags().BoolVar(&lsFetchLogs, "logs", false, "Also print the tail of the failing container log")
}
