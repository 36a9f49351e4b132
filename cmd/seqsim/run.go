// Copyright 2018 Denis Bernard <db047h@gmail.com>
// Licensed under the MIT license. See license text in the LICENSE file.

package main

import (
	"context"
	"io"
	"net/http"
	"os"
	"os/signal"
	"time"

	"github.com/bradleyjkemp/memviz"
	"github.com/davecgh/go-spew/spew"
	"github.com/db47h/seqsim"
	"github.com/db47h/seqsim/config"
	"github.com/db47h/seqsim/internal/metrics"
	"github.com/db47h/seqsim/mem"
	"github.com/pkg/errors"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"golang.org/x/sync/errgroup"
)

type runOptions struct {
	cycles      int
	workers     int
	steps       uint
	quiet       bool
	metricsAddr string
	dump        bool
	memviz      string
}

func (o *runOptions) addFlags(fs *pflag.FlagSet) {
	fs.IntVarP(&o.cycles, "cycles", "n", 16, "number of clock cycles to run")
	fs.IntVar(&o.workers, "workers", 0, "number of worker goroutines (default from the circuit file, then GOMAXPROCS)")
	fs.UintVar(&o.steps, "steps", 0, "simulation steps per clock cycle (default from the circuit file)")
	fs.BoolVarP(&o.quiet, "quiet", "q", false, "do not log probe values")
	fs.StringVar(&o.metricsAddr, "metrics-addr", "", "serve Prometheus metrics on this address until interrupted")
	fs.BoolVar(&o.dump, "dump", false, "dump component state and memory contents once done")
	fs.StringVar(&o.memviz, "memviz", "", "write a graphviz view of component state to this file once done")
}

func newRunCmd() *cobra.Command {
	var o runOptions
	cmd := &cobra.Command{
		Use:   "run circuit.yaml",
		Short: "Run a circuit description",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, cancel := signal.NotifyContext(cmd.Context(), os.Interrupt)
			defer cancel()
			return o.run(ctx, args[0], cmd.OutOrStdout())
		},
	}
	o.addFlags(cmd.Flags())
	return cmd
}

func (o *runOptions) run(ctx context.Context, name string, out io.Writer) error {
	f, err := config.Load(name)
	if err != nil {
		return err
	}
	if o.workers != 0 {
		f.Workers = o.workers
	}
	if o.steps != 0 {
		f.StepsPerCycle = o.steps
	}
	log := logrus.WithField("circuit", name)
	sim, err := f.Build(seqsim.WithLogger(log))
	if err != nil {
		return err
	}
	defer sim.Close()

	col := metrics.NewCollector()
	g, ctx := errgroup.WithContext(ctx)
	if o.metricsAddr != "" {
		reg := prometheus.NewRegistry()
		reg.MustRegister(col)
		mux := http.NewServeMux()
		mux.Handle("/metrics", promhttp.HandlerFor(reg, promhttp.HandlerOpts{}))
		srv := &http.Server{Addr: o.metricsAddr, Handler: mux}
		g.Go(func() error {
			log.WithField("addr", o.metricsAddr).Info("serving metrics")
			if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
				return errors.Wrap(err, "metrics server")
			}
			return nil
		})
		g.Go(func() error {
			<-ctx.Done()
			return srv.Shutdown(context.Background())
		})
	}
	g.Go(func() error {
		if err := o.simulate(ctx, sim, col, log); err != nil {
			return err
		}
		if err := o.dumpState(sim, out); err != nil {
			return err
		}
		if o.metricsAddr != "" {
			log.Info("simulation done, interrupt to exit")
		}
		return nil
	})
	return g.Wait()
}

func (o *runOptions) simulate(ctx context.Context, sim *config.Sim, col *metrics.Collector, log logrus.FieldLogger) error {
	trace := func(cycle int, vs []seqsim.Value) {
		if o.quiet || len(vs) == 0 {
			return
		}
		fs := make(logrus.Fields, len(vs)+1)
		fs["cycle"] = cycle
		for i, p := range sim.Probes {
			fs[p] = vs[i].String()
		}
		log.WithFields(fs).Info("probe")
	}
	start := time.Now()
	for i := 0; i < o.cycles; i++ {
		if ctx.Err() != nil {
			log.WithField("cycle", sim.Cycle()).Warn("interrupted")
			break
		}
		sim.Run(1, trace)
		col.Update(sim.Circuit.Steps(), sim.Circuit.Size(), sim.Stores())
	}
	elapsed := time.Since(start)
	log.WithFields(logrus.Fields{
		"cycles":     sim.Cycle(),
		"steps":      sim.Circuit.Steps(),
		"components": sim.Circuit.Size(),
		"elapsed":    elapsed,
		"hz":         float64(sim.Cycle()) / elapsed.Seconds(),
	}).Info("done")
	return nil
}

func (o *runOptions) dumpState(sim *config.Sim, out io.Writer) error {
	states := sim.States()
	if o.dump {
		cfg := spew.ConfigState{
			Indent:                  "  ",
			MaxDepth:                4,
			DisablePointerAddresses: true,
			DisableCapacities:       true,
			SortKeys:                true,
		}
		cfg.Fdump(out, states)
		stores := sim.Stores()
		for _, n := range sim.Names() {
			if s, ok := stores[n]; ok {
				io.WriteString(out, n+":\n")
				if _, err := mem.ViewerFor(s).WriteTo(out); err != nil {
					return err
				}
			}
		}
	}
	if o.memviz != "" {
		w, err := os.Create(o.memviz)
		if err != nil {
			return errors.Wrap(err, "memviz")
		}
		memviz.Map(w, &states)
		return errors.Wrap(w.Close(), "memviz")
	}
	return nil
}
