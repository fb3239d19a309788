package triggers

import (
	"errors"
	"net/url"

	corev1 "k8s.io/api/core/v1"

	pipelinev1 "github.com/kination/pipelines-console/api/v1"
)

// ErrNoRouteHost is returned for routes that expose no host yet.
var ErrNoRouteHost = errors.New("route has no host")

// RouteHost returns the host of the first admitted ingress, falling back to
// spec.host.
func RouteHost(route *pipelinev1.Route) string {
	for _, ingress := range route.Status.Ingress {
		for _, c := range ingress.Conditions {
			if c.Type == pipelinev1.RouteAdmitted && c.Status == corev1.ConditionTrue && ingress.Host != "" {
				return ingress.Host
			}
		}
	}
	return route.Spec.Host
}

// RouteWebURL builds the external URL of a route.
func RouteWebURL(route *pipelinev1.Route) (string, error) {
	if route == nil {
		return "", ErrNoRouteHost
	}
	host := RouteHost(route)
	if host == "" {
		return "", ErrNoRouteHost
	}

	u := url.URL{Scheme: "http", Host: host, Path: route.Spec.Path}
	if route.Spec.TLS != nil {
		u.Scheme = "https"
	}
	return u.String(), nil
}
