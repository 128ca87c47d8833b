package history

import (
	"bufio"
	"fmt"
	"io"

	"github.com/pkg/errors"
)

// WriteTaskTSV writes one header row plus one row per task, tab-separated,
// in the column order from spec.md section 6: task id, workflow id,
// submission time, start time, end time, runtime, CPU demand, machine id.
func WriteTaskTSV(w io.Writer, rows []TaskRow) error {
	bw := bufio.NewWriter(w)
	if _, err := fmt.Fprintln(bw, "task_id\tworkflow_id\tsubmission\tstart\tend\truntime\tcpu_demand\tmachine_id"); err != nil {
		return errors.Wrap(err, "history: write task header")
	}
	for _, r := range rows {
		if _, err := fmt.Fprintf(bw, "%d\t%d\t%d\t%d\t%d\t%d\t%d\t%d\n",
			r.Task, r.Workflow, r.Submission, r.Start, r.End, r.Runtime, r.CPUDemand, r.Machine,
		); err != nil {
			return errors.Wrapf(err, "history: write task row %d", r.Task)
		}
	}
	return errors.Wrap(bw.Flush(), "history: flush task TSV")
}

// WriteWorkflowTSV writes one header row plus one row per workflow,
// tab-separated, in the column order from spec.md section 6: workflow id,
// first submission, last completion, critical-path length, wait time,
// makespan.
func WriteWorkflowTSV(w io.Writer, rows []WorkflowRow) error {
	bw := bufio.NewWriter(w)
	if _, err := fmt.Fprintln(bw, "workflow_id\tfirst_submission\tlast_completion\tcritical_path\twait_time\tmakespan"); err != nil {
		return errors.Wrap(err, "history: write workflow header")
	}
	for _, r := range rows {
		if _, err := fmt.Fprintf(bw, "%d\t%d\t%d\t%d\t%d\t%d\n",
			r.Workflow, r.FirstSubmission, r.LastCompletion, r.CriticalPath, r.WaitTime, r.Makespan,
		); err != nil {
			return errors.Wrapf(err, "history: write workflow row %d", r.Workflow)
		}
	}
	return errors.Wrap(bw.Flush(), "history: flush workflow TSV")
}
