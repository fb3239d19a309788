package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap/zapcore"
	ctrl "sigs.k8s.io/controller-runtime"
	"sigs.k8s.io/controller-runtime/pkg/log/zap"

	"github.com/kination/pipelines-console/internal/config"
)

const (
	version = "v0.1.0"

	// fallbackNamespace is used when the configured namespace covers every namespace.
	fallbackNamespace = "default"
)

var (
	configPath string
	namespace  string
	kubeconfig string

	cfg             config.Config
	targetNamespace string
)

var rootCmd = &cobra.Command{
	Use:   "pipelines-cli",
	Short: "Pipelines console tooling for Tekton resources",
	Long: `pipelines-cli runs the pipelines console logic outside the browser.

It can list the expressions a pipeline task may reference, explain why a
PipelineRun failed, and show which trigger templates start a pipeline.
Resources are read from manifest directories or from the current cluster.`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		loaded, err := config.Load(configPath)
		if err != nil {
			return err
		}
		if cmd.Flags().Changed("namespace") {
			loaded.Namespace = namespace
		}
		if cmd.Flags().Changed("kubeconfig") {
			loaded.Kubeconfig = kubeconfig
		}
		cfg = loaded
		targetNamespace = namespaceFor(cfg)

		ctrl.SetLogger(zap.New(
			zap.UseDevMode(cfg.Development),
			zap.Level(logLevel(cfg.LogLevel)),
			zap.WriteTo(os.Stderr),
		))
		return nil
	},
}

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print the version number of pipelines-cli",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Fprintln(cmd.OutOrStdout(), "Pipelines console CLI "+version)
	},
}

// namespaceFor resolves the configured namespace, which may be a console URL.
// Commands read single resources, so every-namespace settings fall back to default.
func namespaceFor(c config.Config) string {
	if ns := c.ResolvedNamespace(); ns != "" {
		return ns
	}
	return fallbackNamespace
}

func logLevel(level string) zapcore.Level {
	switch level {
	case "debug":
		return zapcore.DebugLevel
	case "error":
		return zapcore.ErrorLevel
	default:
		return zapcore.InfoLevel
	}
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&configPath, "config", "c", "", "Path to the configuration file")
	rootCmd.PersistentFlags().StringVarP(&namespace, "namespace", "n", "", "Namespace, or console URL, to read resources from")
	rootCmd.PersistentFlags().StringVar(&kubeconfig, "kubeconfig", "", "Path to a kubeconfig file")

	rootCmd.AddCommand(autocompleteCmd)
	rootCmd.AddCommand(logSnippetCmd)
	rootCmd.AddCommand(triggersCmd)
	rootCmd.AddCommand(versionCmd)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
