// Package autocomplete computes the expressions a pipeline task may reference
// while it is being edited: pipeline params, bound workspaces, task statuses
// and the results of tasks that are guaranteed to run before it.
package autocomplete

import (
	pipelinev1 "github.com/kination/pipelines-console/api/v1"
)

// ParamToAutoComplete returns the reference expression for a pipeline param.
func ParamToAutoComplete(param pipelinev1.ParamSpec) string {
	return "params." + param.Name
}

// WorkspaceToAutoComplete returns the bound-check expression for a pipeline workspace.
func WorkspaceToAutoComplete(workspace pipelinev1.PipelineWorkspaceDeclaration) string {
	return "workspaces." + workspace.Name + ".bound"
}

// TaskToStatus returns the execution status expression for a pipeline task.
func TaskToStatus(task pipelinev1.PipelineTask) string {
	return "tasks." + task.Name + ".status"
}

// ResultExpression returns the reference expression for a result of a pipeline task.
func ResultExpression(taskName, resultName string) string {
	return "tasks." + taskName + ".results." + resultName
}

// AggregateTasksStatus is the expression for the overall status of the non-finally tasks.
const AggregateTasksStatus = "tasks.status"

// CursorPosition is a half-open [start, end) selection within a text value.
type CursorPosition [2]int

// InsertIntoValue replaces the selection in value with insertText.
// Positions count characters (runes) and are clamped to the value; an end
// before start collapses the selection to a cursor at start.
func InsertIntoValue(value string, position CursorPosition, insertText string) string {
	runes := []rune(value)
	start := clamp(position[0], 0, len(runes))
	end := clamp(position[1], start, len(runes))
	return string(runes[:start]) + insertText + string(runes[end:])
}

func clamp(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
