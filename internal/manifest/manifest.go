// Package manifest loads Tekton resources from YAML or JSON files on disk.
package manifest

import (
	"bufio"
	"bytes"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"
	metav1 "k8s.io/apimachinery/pkg/apis/meta/v1"
	utilyaml "k8s.io/apimachinery/pkg/util/yaml"
	ctrl "sigs.k8s.io/controller-runtime"
	k8syaml "sigs.k8s.io/yaml"

	pipelinev1 "github.com/kination/pipelines-console/api/v1"
	"github.com/kination/pipelines-console/internal/catalog"
)

var log = ctrl.Log.WithName("manifest")

// Source is one entry of a sources file.
type Source struct {
	Name     string `yaml:"name"`
	Location string `yaml:"location"`
}

// Bundle holds every supported resource found under a set of directories.
type Bundle struct {
	Pipelines    []pipelinev1.Pipeline
	Tasks        []pipelinev1.Task
	ClusterTasks []pipelinev1.ClusterTask
	PipelineRuns []pipelinev1.PipelineRun
	TaskRuns     []pipelinev1.TaskRun
}

// LoadSources reads a YAML list of sources and loads every location into one bundle.
func LoadSources(configPath string) (*Bundle, error) {
	data, err := os.ReadFile(configPath)
	if err != nil {
		return nil, fmt.Errorf("read sources error: %w", err)
	}

	var sources []Source
	if err := yaml.Unmarshal(data, &sources); err != nil {
		return nil, fmt.Errorf("yaml parse error: %w", err)
	}

	b := &Bundle{}
	for _, src := range sources {
		log.V(1).Info("scanning source", "name", src.Name, "location", src.Location)
		if err := b.walk(src.Location); err != nil {
			return nil, err
		}
	}
	return b, nil
}

// Load walks dir for .yaml, .yml and .json files.
func Load(dir string) (*Bundle, error) {
	b := &Bundle{}
	if err := b.walk(dir); err != nil {
		return nil, err
	}
	return b, nil
}

func (b *Bundle) walk(dir string) error {
	err := filepath.WalkDir(dir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			return nil
		}

		switch strings.ToLower(filepath.Ext(d.Name())) {
		case ".yaml", ".yml", ".json":
			return b.addFile(path)
		}
		return nil
	})
	if err != nil {
		return fmt.Errorf("walk error in %s: %w", dir, err)
	}
	return nil
}

func (b *Bundle) addFile(path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read %s: %w", path, err)
	}
	if err := b.Add(data); err != nil {
		return fmt.Errorf("decode %s: %w", path, err)
	}
	return nil
}

// Add decodes a single or multi-document manifest. Unsupported kinds are skipped.
func (b *Bundle) Add(data []byte) error {
	reader := utilyaml.NewYAMLReader(bufio.NewReader(bytes.NewReader(data)))
	for {
		doc, err := reader.Read()
		if errors.Is(err, io.EOF) {
			return nil
		}
		if err != nil {
			return err
		}
		if len(bytes.TrimSpace(doc)) == 0 {
			continue
		}
		if err := b.addDocument(doc); err != nil {
			return err
		}
	}
}

func (b *Bundle) addDocument(doc []byte) error {
	var meta metav1.TypeMeta
	if err := k8syaml.Unmarshal(doc, &meta); err != nil {
		return err
	}

	switch meta.Kind {
	case "Pipeline":
		var obj pipelinev1.Pipeline
		if err := k8syaml.Unmarshal(doc, &obj); err != nil {
			return err
		}
		b.Pipelines = append(b.Pipelines, obj)
	case string(pipelinev1.NamespacedTaskKind):
		var obj pipelinev1.Task
		if err := k8syaml.Unmarshal(doc, &obj); err != nil {
			return err
		}
		b.Tasks = append(b.Tasks, obj)
	case string(pipelinev1.ClusterTaskKind):
		var obj pipelinev1.ClusterTask
		if err := k8syaml.Unmarshal(doc, &obj); err != nil {
			return err
		}
		b.ClusterTasks = append(b.ClusterTasks, obj)
	case "PipelineRun":
		var obj pipelinev1.PipelineRun
		if err := k8syaml.Unmarshal(doc, &obj); err != nil {
			return err
		}
		b.PipelineRuns = append(b.PipelineRuns, obj)
	case "TaskRun":
		var obj pipelinev1.TaskRun
		if err := k8syaml.Unmarshal(doc, &obj); err != nil {
			return err
		}
		b.TaskRuns = append(b.TaskRuns, obj)
	default:
		log.V(1).Info("skipping unsupported kind", "kind", meta.Kind)
	}
	return nil
}

// Catalog publishes the bundle's tasks as a loaded snapshot.
func (b *Bundle) Catalog() *catalog.Snapshot {
	return catalog.NewStore().Update(b.ClusterTasks, b.Tasks)
}

func (b *Bundle) Pipeline(name string) (*pipelinev1.Pipeline, bool) {
	for i := range b.Pipelines {
		if b.Pipelines[i].Name == name {
			return &b.Pipelines[i], true
		}
	}
	return nil, false
}

func (b *Bundle) PipelineRun(name string) (*pipelinev1.PipelineRun, bool) {
	for i := range b.PipelineRuns {
		if b.PipelineRuns[i].Name == name {
			return &b.PipelineRuns[i], true
		}
	}
	return nil, false
}

// TaskRunsFor returns the task runs labelled with the given pipeline run.
func (b *Bundle) TaskRunsFor(pipelineRunName string) []pipelinev1.TaskRun {
	var out []pipelinev1.TaskRun
	for _, tr := range b.TaskRuns {
		if tr.Labels[pipelinev1.PipelineRunLabelKey] == pipelineRunName {
			out = append(out, tr)
		}
	}
	return out
}
