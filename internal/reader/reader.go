package reader

import (
	"context"
	"encoding/csv"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/pkg/errors"
	"golang.org/x/sync/errgroup"

	"wfsim/internal/domain"
)

// Row mirrors one line of the columnar task format: id, workflow id,
// submission time, runtime, CPU demand, and a dependency-id list.
//
// Column order: task_id, workflow_id, submission, runtime, cpu_demand, deps
// (deps is a semicolon-separated list of task ids, empty for a root task).
type Row struct {
	TaskID     domain.TaskID
	WorkflowID domain.WorkflowID
	Submission int64
	Runtime    int64
	CPUDemand  int64
	Deps       []domain.TaskID
}

// Read loads tasks from every path in paths concurrently and merges them
// into a single Trace. A task id must be unique across all paths combined.
func Read(ctx context.Context, paths []string) (*domain.Trace, error) {
	if len(paths) == 0 {
		return nil, errors.New("reader: no input paths given")
	}

	rowSets := make([][]Row, len(paths))
	g, ctx := errgroup.WithContext(ctx)
	for i, path := range paths {
		i, path := i, path
		g.Go(func() error {
			rows, err := readFile(ctx, path)
			if err != nil {
				return errors.Wrapf(err, "reader: %s", path)
			}
			rowSets[i] = rows
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	var all []Row
	for _, rows := range rowSets {
		all = append(all, rows...)
	}
	return buildTrace(all)
}

func readFile(ctx context.Context, path string) ([]Row, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	return parseRows(ctx, f)
}

func parseRows(ctx context.Context, r io.Reader) ([]Row, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = 6
	cr.TrimLeadingSpace = true

	header, err := cr.Read()
	if err != nil {
		if err == io.EOF {
			return nil, errors.New("reader: empty input")
		}
		return nil, err
	}
	if err := validateHeader(header); err != nil {
		return nil, err
	}

	var rows []Row
	for {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		rec, err := cr.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, err
		}
		row, err := parseRow(rec)
		if err != nil {
			return nil, err
		}
		rows = append(rows, row)
	}
	return rows, nil
}

func validateHeader(header []string) error {
	want := []string{"task_id", "workflow_id", "submission", "runtime", "cpu_demand", "deps"}
	if len(header) != len(want) {
		return errors.Errorf("reader: expected %d columns, got %d", len(want), len(header))
	}
	for i, col := range want {
		if strings.TrimSpace(header[i]) != col {
			return errors.Errorf("reader: expected column %d to be %q, got %q", i, col, header[i])
		}
	}
	return nil
}

func parseRow(rec []string) (Row, error) {
	taskID, err := strconv.ParseInt(rec[0], 10, 64)
	if err != nil {
		return Row{}, errors.Wrap(err, "reader: task_id")
	}
	workflowID, err := strconv.ParseInt(rec[1], 10, 64)
	if err != nil {
		return Row{}, errors.Wrap(err, "reader: workflow_id")
	}
	submission, err := strconv.ParseInt(rec[2], 10, 64)
	if err != nil {
		return Row{}, errors.Wrap(err, "reader: submission")
	}
	runtime, err := strconv.ParseInt(rec[3], 10, 64)
	if err != nil {
		return Row{}, errors.Wrap(err, "reader: runtime")
	}
	demand, err := strconv.ParseInt(rec[4], 10, 64)
	if err != nil {
		return Row{}, errors.Wrap(err, "reader: cpu_demand")
	}

	var deps []domain.TaskID
	if depsField := strings.TrimSpace(rec[5]); depsField != "" {
		for _, tok := range strings.Split(depsField, ";") {
			depID, err := strconv.ParseInt(strings.TrimSpace(tok), 10, 64)
			if err != nil {
				return Row{}, errors.Wrapf(err, "reader: dependency %q", tok)
			}
			deps = append(deps, domain.TaskID(depID))
		}
	}

	return Row{
		TaskID:     domain.TaskID(taskID),
		WorkflowID: domain.WorkflowID(workflowID),
		Submission: submission,
		Runtime:    runtime,
		CPUDemand:  demand,
		Deps:       deps,
	}, nil
}

func buildTrace(rows []Row) (*domain.Trace, error) {
	tasks := make([]domain.Task, 0, len(rows))
	for _, r := range rows {
		tasks = append(tasks, domain.Task{
			ID:             r.TaskID,
			Workflow:       r.WorkflowID,
			SubmissionTime: r.Submission,
			Runtime:        r.Runtime,
			CPUDemand:      r.CPUDemand,
			Dependencies:   r.Deps,
		})
	}
	return domain.NewTrace(tasks)
}
