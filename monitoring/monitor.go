// Package monitoring serves the state of a cache engine over HTTP so that it
// can be inspected during and after a run.
package monitoring

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"net"
	"net/http"
	"os"
	"runtime/pprof"
	"strconv"
	"sync"
	"time"

	"github.com/google/pprof/profile"
	"github.com/gorilla/mux"
	"github.com/pkg/browser"
	"github.com/shirou/gopsutil/process"
	"github.com/syifan/goseth"

	"github.com/sarchlab/lfusim/mem/cache"
	"github.com/sarchlab/lfusim/sim"
)

// Monitor turns a cache engine into an HTTP server that reports its state.
//
// The engine is not safe for concurrent use. Callers that keep accessing the
// engine while the server runs must do so inside Update.
type Monitor struct {
	lock       sync.RWMutex
	engine     *cache.Engine
	portNumber int
	server     *http.Server

	progressBarsLock sync.Mutex
	progressBars     []*ProgressBar
}

// NewMonitor creates a new Monitor
func NewMonitor() *Monitor {
	return &Monitor{}
}

// WithPortNumber sets the port number of the monitor.
func (m *Monitor) WithPortNumber(portNumber int) *Monitor {
	if portNumber != 0 && portNumber < 1000 {
		fmt.Fprintf(os.Stderr,
			"Port number %d is assigned to the monitoring server, "+
				"which is not allowed. Using a random port instead.\n", portNumber)
		portNumber = 0
	}

	m.portNumber = portNumber

	return m
}

// RegisterEngine registers the engine to report.
func (m *Monitor) RegisterEngine(e *cache.Engine) {
	m.lock.Lock()
	defer m.lock.Unlock()

	m.engine = e
}

// Update runs f while holding the monitor's write lock, so that requests never
// observe a half-finished access.
func (m *Monitor) Update(f func()) {
	m.lock.Lock()
	defer m.lock.Unlock()

	f()
}

// CreateProgressBar creates a new progress bar.
func (m *Monitor) CreateProgressBar(name string, total uint64) *ProgressBar {
	bar := &ProgressBar{
		ID:        sim.GetIDGenerator().Generate(),
		Name:      name,
		StartTime: time.Now(),
		Total:     total,
	}

	m.progressBarsLock.Lock()
	defer m.progressBarsLock.Unlock()

	m.progressBars = append(m.progressBars, bar)

	return bar
}

// CompleteProgressBar removes a bar from the report.
func (m *Monitor) CompleteProgressBar(pb *ProgressBar) {
	m.progressBarsLock.Lock()
	defer m.progressBarsLock.Unlock()

	newBars := make([]*ProgressBar, 0, len(m.progressBars))
	for _, b := range m.progressBars {
		if b != pb {
			newBars = append(newBars, b)
		}
	}

	m.progressBars = newBars
}

// Router returns the HTTP routes served by the monitor.
func (m *Monitor) Router() *mux.Router {
	r := mux.NewRouter()

	r.HandleFunc("/api/config", m.reportConfig)
	r.HandleFunc("/api/stats", m.reportStats)
	r.HandleFunc("/api/sets", m.listSets)
	r.HandleFunc("/api/set/{index}", m.reportSet)
	r.HandleFunc("/api/dump", m.dump)
	r.HandleFunc("/api/progress", m.listProgressBars)
	r.HandleFunc("/api/resource", m.listResources)
	r.HandleFunc("/api/profile", m.collectProfile)

	return r
}

// StartServer starts serving in the background and returns the URL of the
// server.
func (m *Monitor) StartServer() (string, error) {
	listener, err := net.Listen("tcp", ":"+strconv.Itoa(m.portNumber))
	if err != nil {
		return "", err
	}

	url := fmt.Sprintf("http://localhost:%d",
		listener.Addr().(*net.TCPAddr).Port)
	fmt.Fprintf(os.Stderr, "Monitoring simulation with %s\n", url)

	m.server = &http.Server{
		Handler:           m.Router(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		err := m.server.Serve(listener)
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Panic(err)
		}
	}()

	return url, nil
}

// OpenBrowser opens url in the user's browser.
func (m *Monitor) OpenBrowser(url string) error {
	return browser.OpenURL(url + "/api/dump")
}

// StopServer shuts the server down.
func (m *Monitor) StopServer(ctx context.Context) error {
	if m.server == nil {
		return nil
	}

	return m.server.Shutdown(ctx)
}

func (m *Monitor) engineOr404(w http.ResponseWriter) *cache.Engine {
	if m.engine == nil {
		http.Error(w, "no engine registered", http.StatusNotFound)
	}

	return m.engine
}

func (m *Monitor) reportConfig(w http.ResponseWriter, _ *http.Request) {
	m.lock.RLock()
	defer m.lock.RUnlock()

	e := m.engineOr404(w)
	if e == nil {
		return
	}

	writeJSON(w, e.Store().Config())
}

type statsRsp struct {
	cache.Statistics
	HitRate float64
}

func (m *Monitor) reportStats(w http.ResponseWriter, _ *http.Request) {
	m.lock.RLock()
	defer m.lock.RUnlock()

	e := m.engineOr404(w)
	if e == nil {
		return
	}

	stats := e.Stats()
	writeJSON(w, statsRsp{Statistics: stats, HitRate: stats.HitRate()})
}

type lineRsp struct {
	Valid     bool   `json:"valid"`
	Frequency uint64 `json:"frequency"`
	Tag       uint64 `json:"tag"`
	Block     string `json:"block"`
}

func (m *Monitor) listSets(w http.ResponseWriter, _ *http.Request) {
	m.lock.RLock()
	defer m.lock.RUnlock()

	e := m.engineOr404(w)
	if e == nil {
		return
	}

	store := e.Store()
	sets := make([][]lineRsp, store.NumSets())

	for i := range sets {
		for _, line := range store.Set(uint64(i)).Lines {
			sets[i] = append(sets[i], lineRsp{
				Valid:     line.Valid,
				Frequency: line.Frequency,
				Tag:       line.Tag,
				Block:     fmt.Sprintf("%x", line.Block),
			})
		}
	}

	writeJSON(w, sets)
}

func (m *Monitor) reportSet(w http.ResponseWriter, r *http.Request) {
	m.lock.RLock()
	defer m.lock.RUnlock()

	e := m.engineOr404(w)
	if e == nil {
		return
	}

	index, err := strconv.Atoi(mux.Vars(r)["index"])
	if err != nil || index < 0 || index >= e.Store().NumSets() {
		http.Error(w, "set not found", http.StatusNotFound)
		return
	}

	serializer := goseth.NewSerializer()
	serializer.SetRoot(e.Store().Set(uint64(index)))
	serializer.SetMaxDepth(3)

	buf := new(bytes.Buffer)
	if err := serializer.Serialize(buf); err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	_, err = w.Write(buf.Bytes())
	dieOnErr(err)
}

func (m *Monitor) dump(w http.ResponseWriter, _ *http.Request) {
	m.lock.RLock()
	defer m.lock.RUnlock()

	e := m.engineOr404(w)
	if e == nil {
		return
	}

	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	dieOnErr(cache.Dump(w, e.Store()))
}

func (m *Monitor) listProgressBars(w http.ResponseWriter, _ *http.Request) {
	m.progressBarsLock.Lock()
	defer m.progressBarsLock.Unlock()

	bars := make([]progressBarRsp, 0, len(m.progressBars))
	for _, b := range m.progressBars {
		bars = append(bars, b.snapshot())
	}

	writeJSON(w, bars)
}

type resourceRsp struct {
	CPUPercent float64 `json:"cpu_percent"`
	MemorySize uint64  `json:"memory_size"`
}

func (m *Monitor) listResources(w http.ResponseWriter, _ *http.Request) {
	pid := os.Getpid()
	proc, err := process.NewProcess(int32(pid))
	dieOnErr(err)

	cpuPercent, err := proc.CPUPercent()
	dieOnErr(err)

	memoryInfo, err := proc.MemoryInfo()
	dieOnErr(err)

	writeJSON(w, resourceRsp{
		CPUPercent: cpuPercent,
		MemorySize: memoryInfo.RSS,
	})
}

func (m *Monitor) collectProfile(w http.ResponseWriter, r *http.Request) {
	duration := time.Second

	if s := r.URL.Query().Get("seconds"); s != "" {
		seconds, err := strconv.Atoi(s)
		if err != nil || seconds <= 0 {
			http.Error(w, "invalid seconds", http.StatusBadRequest)
			return
		}

		duration = time.Duration(seconds) * time.Second
	}

	buf := bytes.NewBuffer(nil)

	err := pprof.StartCPUProfile(buf)
	if err != nil {
		http.Error(w, err.Error(), http.StatusConflict)
		return
	}

	time.Sleep(duration)

	pprof.StopCPUProfile()

	prof, err := profile.ParseData(buf.Bytes())
	dieOnErr(err)

	writeJSON(w, prof)
}

func writeJSON(w http.ResponseWriter, v any) {
	bytes, err := json.Marshal(v)
	dieOnErr(err)

	w.Header().Set("Content-Type", "application/json")
	_, err = w.Write(bytes)
	dieOnErr(err)
}

func dieOnErr(err error) {
	if err != nil {
		log.Panic(err)
	}
}
