package cliapp

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/google/uuid"
	"github.com/pkg/errors"
	"github.com/prometheus/common/expfmt"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"wfsim/internal/domain"
	"wfsim/internal/engine"
	"wfsim/internal/envsize"
	"wfsim/internal/history"
	"wfsim/internal/logging"
	"wfsim/internal/metrics"
	"wfsim/internal/order"
	"wfsim/internal/placement"
	"wfsim/internal/reader"
	"wfsim/internal/registry"
	"wfsim/internal/simerr"
)

// NewRootCommand builds the "wfsim" command: read trace(s), size or accept
// an environment, run the simulation, sanity-check the result, and write
// per-task/per-workflow statistics plus a Prometheus metrics snapshot to
// the output directory.
func NewRootCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "wfsim [input paths...]",
		Short: "Discrete-event simulator for workflow task traces.",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return run(cmd.Context(), args)
		},
	}

	flags := cmd.Flags()
	flags.StringP("output", "o", ".", "output directory for statistics files")
	flags.Float64("rho", 0, "target utilization ρ in (0,1]; mutually exclusive with --machines")
	flags.Int("machines", 0, "explicit machine count; mutually exclusive with --rho")
	flags.Int64("cpus", 1, "CPUs per machine")
	flags.Int64("mem", 0, "memory per machine, in MB (reserved; not enforced)")
	flags.String("order", string(order.FCFSName), "task-ordering policy: fcfs, sjf, or ewf")
	flags.String("placement", string(placement.BestFitName), "placement policy: best-fit")
	flags.Float64("sample", 1, "fraction of workflows to retain, in (0,1]")
	flags.String("log-level", "info", "log level: trace, debug, info, notice, warning, error")

	for _, name := range []string{"output", "rho", "machines", "cpus", "mem", "order", "placement", "sample", "log-level"} {
		if err := viper.BindPFlag(name, flags.Lookup(name)); err != nil {
			panic(err)
		}
	}
	cmd.MarkFlagsMutuallyExclusive("rho", "machines")

	return cmd
}

func run(ctx context.Context, paths []string) error {
	log := logging.New(os.Stderr, viper.GetString("log-level"))
	runID := uuid.NewString()
	log.Info().Str(`run_id`, runID).Log(`starting simulation run`)

	tr, err := reader.Read(ctx, paths)
	if err != nil {
		return errors.Wrap(err, "cliapp: reading trace")
	}

	if fraction := viper.GetFloat64("sample"); fraction > 0 && fraction < 1 {
		tr, err = reader.Sample(tr, fraction)
		if err != nil {
			return errors.Wrap(err, "cliapp: sampling trace")
		}
	}

	env, err := buildEnvironment(tr)
	if err != nil {
		return errors.Wrap(err, "cliapp: building environment")
	}

	stats := history.NewWorkflowStatsCollector(tr)
	exporter := metrics.New(tr)

	orderPolicy, err := resolveOrderPolicy(tr, stats)
	if err != nil {
		return err
	}
	placementPolicy, err := resolvePlacementPolicy()
	if err != nil {
		return err
	}

	sim := engine.New(tr, env, orderPolicy, placementPolicy, stats, exporter)
	if err := sim.Run(); err != nil {
		return errors.Wrap(err, "cliapp: simulation")
	}

	if err := sanityCheck(tr, sim); err != nil {
		return errors.Wrap(err, "cliapp: post-run sanity check")
	}

	outDir := viper.GetString("output")
	if err := os.MkdirAll(outDir, 0o755); err != nil {
		return errors.Wrap(err, "cliapp: creating output directory")
	}
	if err := writeOutputs(outDir, stats, exporter); err != nil {
		return err
	}

	log.Info().
		Str(`run_id`, runID).
		Int64(`machines`, int64(env.MachineCount())).
		Int64(`tasks`, int64(len(tr.Tasks()))).
		Log(`simulation complete`)
	return nil
}

func buildEnvironment(tr *domain.Trace) (*domain.Environment, error) {
	cpus := viper.GetInt64("cpus")
	if machines := viper.GetInt("machines"); machines > 0 {
		return envsize.BuildUniform(machines, cpus)
	}
	rho := viper.GetFloat64("rho")
	if rho <= 0 {
		return nil, errors.New("one of --machines or --rho must be set")
	}
	count, cpusPerMachine, err := envsize.MachineCount(tr, envsize.Config{TargetUtilization: rho, CPUsPerMachine: cpus})
	if err != nil {
		return nil, err
	}
	return envsize.BuildUniform(count, cpusPerMachine)
}

func resolveOrderPolicy(tr *domain.Trace, deadlines order.WorkflowDeadlines) (order.Policy, error) {
	reg := registry.New[order.Policy]()
	reg.Register(string(order.FCFSName), func() order.Policy { return order.NewFCFS(tr) })
	reg.Register(string(order.SJFName), func() order.Policy { return order.NewSJF(tr) })
	reg.Register(string(order.EWFName), func() order.Policy { return order.NewEWF(tr, deadlines) })
	if err := reg.SetDefault(string(order.FCFSName)); err != nil {
		return nil, err
	}
	return reg.Get(viper.GetString("order"))
}

func resolvePlacementPolicy() (placement.Policy, error) {
	reg := registry.New[placement.Policy]()
	reg.Register(string(placement.BestFitName), func() placement.Policy { return placement.BestFit{} })
	if err := reg.SetDefault(string(placement.BestFitName)); err != nil {
		return nil, err
	}
	return reg.Get(viper.GetString("placement"))
}

// sanityCheck implements the host-side checks from spec.md section 6:
// start(t) >= submission(t); end(t)-start(t) == runtime(t) (or end==start
// when runtime is zero); and every dependency completes no later than its
// dependent starts.
func sanityCheck(tr *domain.Trace, sim *engine.Simulation) error {
	monitor := sim.Tasks()
	for _, t := range tr.Tasks() {
		start, ok := monitor.Start(t.ID)
		if !ok {
			return simerr.Lifecyclef(fmt.Sprintf("task %d", t.ID), "unstarted", "started")
		}
		end, ok := monitor.End(t.ID)
		if !ok {
			return simerr.Lifecyclef(fmt.Sprintf("task %d", t.ID), "uncompleted", "completed")
		}
		if start < t.SubmissionTime {
			return simerr.Temporalf(fmt.Sprintf("task %d", t.ID), t.SubmissionTime, start)
		}
		if t.Runtime > 0 {
			if end-start != t.Runtime {
				return simerr.Lifecyclef(fmt.Sprintf("task %d", t.ID), end-start, t.Runtime)
			}
		} else if end != start {
			return simerr.Lifecyclef(fmt.Sprintf("task %d", t.ID), end, start)
		}
		for _, dep := range t.Dependencies {
			depEnd, _ := monitor.End(dep)
			if depEnd > start {
				return simerr.DependencyInversionf(fmt.Sprintf("task %d depends on %d", t.ID, dep), depEnd, start)
			}
		}
	}
	return nil
}

func writeOutputs(outDir string, stats *history.WorkflowStatsCollector, exporter *metrics.Exporter) error {
	if err := writeFile(filepath.Join(outDir, "tasks.tsv"), func(f *os.File) error {
		return history.WriteTaskTSV(f, stats.TaskRows())
	}); err != nil {
		return err
	}
	if err := writeFile(filepath.Join(outDir, "workflows.tsv"), func(f *os.File) error {
		return history.WriteWorkflowTSV(f, stats.WorkflowRows())
	}); err != nil {
		return err
	}
	return writeFile(filepath.Join(outDir, "metrics.prom"), func(f *os.File) error {
		families, err := exporter.Registry().Gather()
		if err != nil {
			return errors.Wrap(err, "cliapp: gathering metrics")
		}
		enc := expfmt.NewEncoder(f, expfmt.NewFormat(expfmt.TypeTextPlain))
		for _, mf := range families {
			if err := enc.Encode(mf); err != nil {
				return errors.Wrap(err, "cliapp: encoding metrics")
			}
		}
		return nil
	})
}

func writeFile(path string, fn func(*os.File) error) error {
	f, err := os.Create(path)
	if err != nil {
		return errors.Wrapf(err, "cliapp: creating %s", path)
	}
	defer f.Close()
	if err := fn(f); err != nil {
		return errors.Wrapf(err, "cliapp: writing %s", path)
	}
	return nil
}
