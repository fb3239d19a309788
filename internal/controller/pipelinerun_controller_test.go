package controller

import (
	"context"
	"time"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
	corev1 "k8s.io/api/core/v1"
	metav1 "k8s.io/apimachinery/pkg/apis/meta/v1"
	"k8s.io/apimachinery/pkg/types"
	ctrl "sigs.k8s.io/controller-runtime"
	"sigs.k8s.io/controller-runtime/pkg/client"

	pipelinev1 "github.com/kination/pipelines-console/api/v1"
	"github.com/kination/pipelines-console/internal/logsnippet"
	"github.com/kination/pipelines-console/internal/testutil"
)

const namespace = "ci"

func newPipelineRun(name string, status corev1.ConditionStatus, reason string) *pipelinev1.PipelineRun {
	return &pipelinev1.PipelineRun{
		ObjectMeta: metav1.ObjectMeta{
			Name:        name,
			Namespace:   namespace,
			Annotations: map[string]string{"team": "platform"},
		},
		Status: &pipelinev1.PipelineRunStatus{
			Conditions: pipelinev1.Conditions{{
				Type:    pipelinev1.ConditionSucceeded,
				Status:  status,
				Reason:  reason,
				Message: "Tasks Completed: 2 (Failed: 1)",
			}},
		},
	}
}

func newTaskRun(name, pipelineRun, task string, status corev1.ConditionStatus, exitCode int32) *pipelinev1.TaskRun {
	return &pipelinev1.TaskRun{
		ObjectMeta: metav1.ObjectMeta{
			Name:      name,
			Namespace: namespace,
			Labels: map[string]string{
				pipelinev1.PipelineRunLabelKey:  pipelineRun,
				pipelinev1.PipelineTaskLabelKey: task,
			},
		},
		Status: &pipelinev1.TaskRunStatus{
			PodName: name + "-pod",
			Conditions: pipelinev1.Conditions{{
				Type:   pipelinev1.ConditionSucceeded,
				Status: status,
			}},
			Steps: []pipelinev1.StepState{{
				Name:      "run",
				Container: "step-run",
				ContainerState: corev1.ContainerState{
					Terminated: &corev1.ContainerStateTerminated{ExitCode: exitCode},
				},
			}},
		},
	}
}

var _ = Describe("PipelineRun Controller", func() {
	var (
		ctx        context.Context
		k8sClient  client.Client
		reconciler *PipelineRunReconciler
	)

	reconcile := func(name string) ctrl.Result {
		result, err := reconciler.Reconcile(ctx, ctrl.Request{
			NamespacedName: types.NamespacedName{Name: name, Namespace: namespace},
		})
		Expect(err).NotTo(HaveOccurred())
		return result
	}

	fetch := func(name string) *pipelinev1.PipelineRun {
		pr := &pipelinev1.PipelineRun{}
		Expect(k8sClient.Get(ctx, types.NamespacedName{Name: name, Namespace: namespace}, pr)).To(Succeed())
		return pr
	}

	BeforeEach(func() {
		ctx = context.Background()
	})

	setup := func(objs ...client.Object) {
		k8sClient = testutil.NewFakeClient(objs...)
		reconciler = &PipelineRunReconciler{Client: k8sClient, Scheme: testutil.NewScheme()}
	}

	Context("When the PipelineRun failed in a task", func() {
		It("should annotate the pod and container of the failing step", func() {
			setup(
				newPipelineRun("build-1", corev1.ConditionFalse, pipelinev1.PipelineRunReasonFailed),
				newTaskRun("build-1-fetch", "build-1", "fetch", corev1.ConditionTrue, 0),
				newTaskRun("build-1-test", "build-1", "test", corev1.ConditionFalse, 2),
				newTaskRun("other-test", "other", "test", corev1.ConditionFalse, 1),
			)

			reconcile("build-1")

			pr := fetch("build-1")
			Expect(pr.Annotations).To(HaveKeyWithValue("team", "platform"))
			Expect(pr.Annotations).To(HaveKeyWithValue(SnippetTitleAnnotation, logsnippet.TaskFailureTitle("test")))
			Expect(pr.Annotations).To(HaveKeyWithValue(SnippetPodAnnotation, "build-1-test-pod"))
			Expect(pr.Annotations).To(HaveKeyWithValue(SnippetContainerAnnotation, "step-run"))
			Expect(pr.Annotations).NotTo(HaveKey(SnippetMessageAnnotation))

			details := SnippetFromAnnotations(pr.Annotations)
			Expect(details).NotTo(BeNil())
			Expect(details.HasLocator()).To(BeTrue())
		})

		It("should surface the first failure in pipeline order", func() {
			pr := newPipelineRun("build-6", corev1.ConditionFalse, pipelinev1.PipelineRunReasonFailed)
			pr.Status.ChildReferences = []pipelinev1.ChildStatusReference{
				{Name: "build-6-zz-lint", PipelineTaskName: "lint", Kind: "TaskRun"},
				{Name: "build-6-aa-test", PipelineTaskName: "test", Kind: "TaskRun"},
			}
			setup(
				pr,
				newTaskRun("build-6-aa-test", "build-6", "test", corev1.ConditionFalse, 1),
				newTaskRun("build-6-zz-lint", "build-6", "lint", corev1.ConditionFalse, 1),
			)

			reconcile("build-6")

			got := fetch("build-6")
			Expect(got.Annotations).To(HaveKeyWithValue(SnippetTitleAnnotation, logsnippet.TaskFailureTitle("lint")))
			Expect(got.Annotations).To(HaveKeyWithValue(SnippetPodAnnotation, "build-6-zz-lint-pod"))
		})

		It("should be idempotent", func() {
			setup(
				newPipelineRun("build-2", corev1.ConditionFalse, pipelinev1.PipelineRunReasonFailed),
				newTaskRun("build-2-test", "build-2", "test", corev1.ConditionFalse, 1),
			)

			reconcile("build-2")
			first := fetch("build-2")
			reconcile("build-2")
			second := fetch("build-2")

			Expect(second.ResourceVersion).To(Equal(first.ResourceVersion))
			Expect(second.Annotations).To(Equal(first.Annotations))
		})
	})

	Context("When the PipelineRun timed out", func() {
		It("should annotate the static run message", func() {
			setup(
				newPipelineRun("build-3", corev1.ConditionFalse, pipelinev1.PipelineRunReasonTimedOut),
				newTaskRun("build-3-test", "build-3", "test", corev1.ConditionFalse, 1),
			)

			reconcile("build-3")

			pr := fetch("build-3")
			Expect(pr.Annotations).To(HaveKeyWithValue(SnippetTitleAnnotation, logsnippet.GenericFailureTitle))
			Expect(pr.Annotations).To(HaveKeyWithValue(SnippetMessageAnnotation, "Tasks Completed: 2 (Failed: 1)"))
			Expect(pr.Annotations).NotTo(HaveKey(SnippetPodAnnotation))
		})
	})

	Context("When the PipelineRun did not fail", func() {
		It("should remove stale snippet annotations", func() {
			pr := newPipelineRun("build-4", corev1.ConditionTrue, pipelinev1.PipelineRunReasonSucceeded)
			pr.Annotations[SnippetTitleAnnotation] = "stale"
			pr.Annotations[SnippetPodAnnotation] = "stale-pod"
			setup(pr)

			reconcile("build-4")

			got := fetch("build-4")
			Expect(got.Annotations).To(Equal(map[string]string{"team": "platform"}))
			Expect(SnippetFromAnnotations(got.Annotations)).To(BeNil())
		})

		It("should requeue a running PipelineRun after the refresh interval", func() {
			setup(newPipelineRun("build-7", corev1.ConditionUnknown, "Running"))
			reconciler.RefreshInterval = 30 * time.Second

			Expect(reconcile("build-7").RequeueAfter).To(Equal(30 * time.Second))
		})

		It("should not requeue when refresh is off or the run finished", func() {
			setup(
				newPipelineRun("build-8", corev1.ConditionUnknown, "Running"),
				newPipelineRun("build-9", corev1.ConditionTrue, pipelinev1.PipelineRunReasonSucceeded),
			)
			Expect(reconcile("build-8").RequeueAfter).To(BeZero())

			reconciler.RefreshInterval = time.Minute
			Expect(reconcile("build-9").RequeueAfter).To(BeZero())
		})

		It("should leave a running PipelineRun untouched", func() {
			setup(newPipelineRun("build-5", corev1.ConditionUnknown, "Running"))

			before := fetch("build-5")
			reconcile("build-5")
			after := fetch("build-5")

			Expect(after.ResourceVersion).To(Equal(before.ResourceVersion))
		})
	})

	Context("When the PipelineRun does not exist", func() {
		It("should not return an error", func() {
			setup()
			reconcile("missing")
		})
	})
})
