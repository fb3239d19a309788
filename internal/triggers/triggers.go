// Package triggers relates pipelines to the trigger templates, event
// listeners and routes that start them.
package triggers

import (
	"context"
	"fmt"
	"slices"

	apierrors "k8s.io/apimachinery/pkg/api/errors"
	"k8s.io/apimachinery/pkg/types"
	"k8s.io/apimachinery/pkg/util/json"
	ctrl "sigs.k8s.io/controller-runtime"
	"sigs.k8s.io/controller-runtime/pkg/client"

	pipelinev1 "github.com/kination/pipelines-console/api/v1"
)

var log = ctrl.Log.WithName("triggers")

// RouteTemplate pairs a trigger template with the URL of the event listener
// exposing it. RouteURL is empty when the listener has no usable route.
type RouteTemplate struct {
	RouteURL            string `json:"routeURL,omitempty"`
	TriggerTemplateName string `json:"triggerTemplateName"`
}

// ResourceModelLink names a binding resource and its kind.
type ResourceModelLink struct {
	ResourceKind string `json:"resourceKind"`
	Name         string `json:"name"`
}

// Resolver answers trigger questions from a snapshot of the cluster.
type Resolver struct {
	reader client.Reader
}

// NewResolver creates a resolver reading through reader
func NewResolver(reader client.Reader) *Resolver {
	return &Resolver{reader: reader}
}

func (r *Resolver) eventListeners(ctx context.Context, namespace string) ([]pipelinev1.EventListener, error) {
	var list pipelinev1.EventListenerList
	if err := r.reader.List(ctx, &list, client.InNamespace(namespace)); err != nil {
		return nil, fmt.Errorf("failed to list event listeners in %s: %w", namespace, err)
	}
	return list.Items, nil
}

// route fetches the route generated for an event listener; a missing route is not an error.
func (r *Resolver) route(ctx context.Context, namespace, name string) (*pipelinev1.Route, error) {
	if name == "" {
		return nil, nil
	}
	var route pipelinev1.Route
	if err := r.reader.Get(ctx, types.NamespacedName{Namespace: namespace, Name: name}, &route); err != nil {
		if apierrors.IsNotFound(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get route %s/%s: %w", namespace, name, err)
	}
	return &route, nil
}

// TemplateNames returns the trigger template names an event listener uses.
func TemplateNames(el *pipelinev1.EventListener) []string {
	var names []string
	for _, trigger := range el.Spec.Triggers {
		if name := trigger.Template.TemplateName(); name != "" {
			names = append(names, name)
		}
	}
	return names
}

// PipelineTriggerTemplateNames returns, per event listener of namespace, the
// first trigger template that starts pipelineName together with the
// listener's route URL.
func (r *Resolver) PipelineTriggerTemplateNames(ctx context.Context, pipelineName, namespace string) ([]RouteTemplate, error) {
	listeners, err := r.eventListeners(ctx, namespace)
	if err != nil {
		return nil, err
	}

	var templateNames []string
	for i := range listeners {
		for _, name := range TemplateNames(&listeners[i]) {
			if !slices.Contains(templateNames, name) {
				templateNames = append(templateNames, name)
			}
		}
	}

	var matching []string
	for _, name := range templateNames {
		var tt pipelinev1.TriggerTemplate
		if err := r.reader.Get(ctx, types.NamespacedName{Namespace: namespace, Name: name}, &tt); err != nil {
			if apierrors.IsNotFound(err) {
				continue
			}
			return nil, fmt.Errorf("failed to get trigger template %s/%s: %w", namespace, name, err)
		}
		if TriggerTemplatePipelineName(&tt) == pipelineName {
			matching = append(matching, tt.Name)
		}
	}

	templates := make([]RouteTemplate, 0)
	for i := range listeners {
		el := &listeners[i]
		names := TemplateNames(el)

		idx := slices.IndexFunc(matching, func(name string) bool {
			return slices.Contains(names, name)
		})
		if idx < 0 {
			continue
		}

		rt := RouteTemplate{TriggerTemplateName: matching[idx]}
		route, err := r.route(ctx, namespace, el.Status.Configuration.GeneratedName)
		if err != nil {
			return nil, err
		}
		if route != nil {
			if u, err := RouteWebURL(route); err == nil {
				rt.RouteURL = u
			} else {
				log.V(1).Info("Ignoring unusable route", "route", route.Name, "reason", err.Error())
			}
		}
		templates = append(templates, rt)
	}
	return templates, nil
}

// SafeBindingResourceKind normalises a binding kind to one of the binding kinds.
func SafeBindingResourceKind(kind string) string {
	if kind == pipelinev1.ClusterTriggerBindingKind {
		return pipelinev1.ClusterTriggerBindingKind
	}
	return pipelinev1.TriggerBindingKind
}

// EventListenerTriggerBindingNames links the bindings of an event listener
// trigger. Ref is used since Triggers 0.5; Name is kept as a fallback.
func EventListenerTriggerBindingNames(bindings []pipelinev1.EventListenerBinding) []ResourceModelLink {
	if bindings == nil {
		return nil
	}
	links := make([]ResourceModelLink, 0, len(bindings))
	for _, b := range bindings {
		name := b.Ref
		if name == "" {
			name = b.Name
		}
		links = append(links, ResourceModelLink{
			ResourceKind: SafeBindingResourceKind(b.Kind),
			Name:         name,
		})
	}
	return links
}

// TriggerTemplatePipelineName returns the pipeline started by the first
// PipelineRun resource template, or "".
func TriggerTemplatePipelineName(tt *pipelinev1.TriggerTemplate) string {
	for _, raw := range tt.Spec.ResourceTemplates {
		pr, ok := decodePipelineRun(raw.Object, raw.Raw)
		if !ok {
			continue
		}
		if pr.Spec.PipelineRef != nil {
			return pr.Spec.PipelineRef.Name
		}
		return ""
	}
	return ""
}

func decodePipelineRun(obj any, raw []byte) (*pipelinev1.PipelineRun, bool) {
	if pr, ok := obj.(*pipelinev1.PipelineRun); ok {
		return pr, true
	}
	if len(raw) == 0 {
		return nil, false
	}
	var pr pipelinev1.PipelineRun
	if err := json.Unmarshal(raw, &pr); err != nil {
		log.V(1).Info("Skipping undecodable resource template", "error", err.Error())
		return nil, false
	}
	if pr.Kind != "PipelineRun" {
		return nil, false
	}
	return &pr, true
}

// TriggerTemplateEventListenerNames returns the event listeners that use tt.
func (r *Resolver) TriggerTemplateEventListenerNames(ctx context.Context, tt *pipelinev1.TriggerTemplate) ([]string, error) {
	listeners, err := r.eventListeners(ctx, tt.Namespace)
	if err != nil {
		return nil, err
	}

	names := make([]string, 0)
	for i := range listeners {
		for _, trigger := range listeners[i].Spec.Triggers {
			if trigger.Template != nil && (trigger.Template.Ref == tt.Name || trigger.Template.Name == tt.Name) {
				names = append(names, listeners[i].Name)
				break
			}
		}
	}
	return names, nil
}

// TriggerBindingEventListenerNames returns the event listeners of namespace
// that bind the given binding.
func (r *Resolver) TriggerBindingEventListenerNames(ctx context.Context, namespace string, binding ResourceModelLink) ([]string, error) {
	listeners, err := r.eventListeners(ctx, namespace)
	if err != nil {
		return nil, err
	}

	names := make([]string, 0)
	for i := range listeners {
		if bindsTo(&listeners[i], binding) {
			names = append(names, listeners[i].Name)
		}
	}
	return names, nil
}

func bindsTo(el *pipelinev1.EventListener, binding ResourceModelLink) bool {
	for _, trigger := range el.Spec.Triggers {
		for _, b := range trigger.Bindings {
			if b.Ref == binding.Name && SafeBindingResourceKind(b.Kind) == binding.ResourceKind {
				return true
			}
		}
	}
	return false
}

// EventListenerURL returns the external URL of an event listener, or "" when
// its route is missing, not yet admitted, or unusable.
func (r *Resolver) EventListenerURL(ctx context.Context, el *pipelinev1.EventListener, namespace string) string {
	route, err := r.route(ctx, namespace, el.Status.Configuration.GeneratedName)
	if err != nil {
		log.Error(err, "Failed to look up event listener route", "eventListener", el.Name)
		return ""
	}
	if route == nil || len(route.Status.Ingress) == 0 {
		return ""
	}
	u, err := RouteWebURL(route)
	if err != nil {
		return ""
	}
	return u
}
