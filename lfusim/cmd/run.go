package cmd

import (
	"context"
	"fmt"
	"io"
	"log"
	"os"
	"os/signal"
	"strings"

	"github.com/rs/xid"
	"github.com/sarchlab/lfusim/datarecording"
	"github.com/sarchlab/lfusim/mem"
	"github.com/sarchlab/lfusim/mem/cache"
	"github.com/sarchlab/lfusim/mem/trace"
	"github.com/sarchlab/lfusim/monitoring"
	"github.com/sarchlab/lfusim/sim"
	"github.com/spf13/cobra"
)

var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Replay a trace of reads and writes.",
	Long: "`run --trace FILE` replays the trace against a memory loaded from " +
		"--memory or made of --memory-size zero bytes, then prints the " +
		"statistics and the final state of the cache.",
	Run: func(cmd *cobra.Command, _ []string) {
		err := runTraceCmd(cmd)
		if err != nil {
			log.Fatalf("Error: %v", err)
		}
	},
}

func init() {
	rootCmd.AddCommand(runCmd)

	f := runCmd.Flags()
	f.String("trace", "", "Trace file to replay.")
	f.String("memory", "", "Binary file holding the initial memory.")
	f.Uint64("memory-size", 0, "Size of a zero-filled memory, in bytes.")
	f.String("db", "",
		"Record accesses into this SQLite database (.sqlite3 is appended).")
	f.Bool("monitor", false, "Serve the cache state over HTTP after the run.")
	f.Int("port", envInt("LFUSIM_MONITOR_PORT", 0),
		"Port of the monitoring server. 0 picks a random port.")
	f.Bool("open-browser", false, "Open the monitoring page in a browser.")
	f.Bool("global-ids", false,
		"Give recorded rows globally unique IDs instead of sequential ones, "+
			"so that databases of several runs can be merged.")

	_ = runCmd.MarkFlagRequired("trace")
}

func runTraceCmd(cmd *cobra.Command) error {
	f := cmd.Flags()
	traceFile, _ := f.GetString("trace")
	memoryFile, _ := f.GetString("memory")
	memorySize, _ := f.GetUint64("memory-size")
	dbFile, _ := f.GetString("db")
	monitorOn, _ := f.GetBool("monitor")
	port, _ := f.GetInt("port")
	openBrowser, _ := f.GetBool("open-browser")
	globalIDs, _ := f.GetBool("global-ids")

	if globalIDs {
		sim.UseGlobalIDGenerator()
	} else {
		sim.UseSequentialIDGenerator()
	}

	ops, err := loadTrace(traceFile)
	if err != nil {
		return err
	}

	memory, err := loadMemory(memoryFile, memorySize)
	if err != nil {
		return err
	}

	engine, err := builderFromFlags(cmd).Build("Cache")
	if err != nil {
		return err
	}

	if dbFile != "" {
		recorder, err := datarecording.New(
			strings.TrimSuffix(dbFile, ".sqlite3"))
		if err != nil {
			return err
		}
		defer recorder.Close()

		engine.AcceptHook(trace.NewDBTracer(recorder, xid.New().String()))
	}

	r := &replayer{
		engine: engine,
		memory: memory,
		out:    os.Stdout,
	}

	if monitorOn {
		r.monitor = monitoring.NewMonitor().WithPortNumber(port)
		r.monitor.RegisterEngine(engine)

		url, err := r.monitor.StartServer()
		if err != nil {
			return err
		}

		if openBrowser {
			if err := r.monitor.OpenBrowser(url); err != nil {
				log.Printf("Cannot open browser: %v", err)
			}
		}
	}

	if err := r.replay(ops); err != nil {
		return err
	}

	if err := r.report(); err != nil {
		return err
	}

	if r.monitor != nil {
		return waitForInterrupt(r.monitor)
	}

	return nil
}

func loadTrace(path string) ([]traceOp, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer file.Close()

	return parseTrace(file)
}

func loadMemory(path string, size uint64) (mem.Memory, error) {
	if path == "" {
		if size == 0 {
			return nil, fmt.Errorf("either --memory or --memory-size is required")
		}

		return mem.NewStorage(size), nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	storage := mem.NewStorage(uint64(len(data)))
	if err := storage.Write(0, data); err != nil {
		return nil, err
	}

	return storage, nil
}

func waitForInterrupt(m *monitoring.Monitor) error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	fmt.Fprintln(os.Stderr, "Press Ctrl+C to stop the monitoring server.")
	<-ctx.Done()

	return m.StopServer(context.Background())
}

// A replayer applies trace operations to an engine and prints the outcome of
// each.
type replayer struct {
	engine  *cache.Engine
	memory  mem.Memory
	out     io.Writer
	monitor *monitoring.Monitor
}

func (r *replayer) replay(ops []traceOp) error {
	var bar *monitoring.ProgressBar
	if r.monitor != nil {
		bar = r.monitor.CreateProgressBar(
			sim.BuildName(r.engine.Name(), "Replay"), uint64(len(ops)))
		defer r.monitor.CompleteProgressBar(bar)
	}

	for _, op := range ops {
		var err error

		r.update(func() { err = r.apply(op) })

		if err != nil {
			return fmt.Errorf("line %d: %w", op.Line, err)
		}

		if bar != nil {
			bar.IncrementFinished(1)
		}
	}

	return nil
}

func (r *replayer) update(f func()) {
	if r.monitor == nil {
		f()
		return
	}

	r.monitor.Update(f)
}

func (r *replayer) apply(op traceOp) error {
	if op.Write {
		if err := r.engine.Write(r.memory, op.Addr, op.Value); err != nil {
			return err
		}

		_, err := fmt.Fprintf(r.out, "w 0x%04x <- 0x%02x\n", op.Addr, op.Value)

		return err
	}

	value, err := r.engine.Read(r.memory, op.Addr)
	if err != nil {
		return err
	}

	_, err = fmt.Fprintf(r.out, "r 0x%04x -> 0x%02x\n", op.Addr, value)

	return err
}

func (r *replayer) report() error {
	var err error

	r.update(func() {
		s := r.engine.Stats()

		_, err = fmt.Fprintf(r.out,
			"reads %d, writes %d, hits %d, misses %d (cold %d), "+
				"evictions %d, hit rate %.2f%%\n",
			s.Reads, s.Writes, s.Hits, s.Misses, s.ColdMisses,
			s.Evictions, s.HitRate()*100)
		if err != nil {
			return
		}

		err = cache.Dump(r.out, r.engine.Store())
	})

	return err
}
