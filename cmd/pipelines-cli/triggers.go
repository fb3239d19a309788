package main

import (
	"fmt"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/kination/pipelines-console/internal/overview"
	"github.com/kination/pipelines-console/internal/triggers"
)

var (
	trPipeline string
	trFilter   string
)

var triggersCmd = &cobra.Command{
	Use:   "triggers",
	Short: "Show the trigger templates that start a pipeline",
	RunE: func(cmd *cobra.Command, args []string) error {
		if trPipeline == "" {
			return fmt.Errorf("--pipeline is required")
		}

		c, err := clusterClient()
		if err != nil {
			return err
		}
		templates, err := triggers.NewResolver(c).PipelineTriggerTemplateNames(cmd.Context(), trPipeline, targetNamespace)
		if err != nil {
			return err
		}

		templates = filterTemplates(templates, trFilter)

		w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
		fmt.Fprintln(w, "TRIGGER TEMPLATE\tURL")
		for _, t := range templates {
			url := t.RouteURL
			if url == "" {
				url = "-"
			}
			fmt.Fprintf(w, "%s\t%s\n", t.TriggerTemplateName, url)
		}
		return w.Flush()
	},
}

// filterTemplates keeps the templates whose name contains keyword, ignoring case.
func filterTemplates(templates []triggers.RouteTemplate, keyword string) []triggers.RouteTemplate {
	names := make([]string, 0, len(templates))
	for _, t := range templates {
		names = append(names, t.TriggerTemplateName)
	}
	keep := make(map[string]bool)
	for _, name := range overview.FilterByName(names, keyword) {
		keep[name] = true
	}

	out := make([]triggers.RouteTemplate, 0, len(templates))
	for _, t := range templates {
		if keep[t.TriggerTemplateName] {
			out = append(out, t)
		}
	}
	return out
}

func init() {
	triggersCmd.Flags().StringVarP(&trPipeline, "pipeline", "p", "", "Pipeline name")
	triggersCmd.Flags().StringVarP(&trFilter, "filter", "f", "", "Only show trigger templates whose name contains this text")
}
