// Package worker implements the chain's event loop: draining the transport,
// reconciling orphans, sealing queued blocks, and polling for external act
// requests, on a bounded-latency cadence.
package worker

import (
	"sync"
	"time"

	"github.com/votechain/votechain/foundation/blockchain/state"
)

// iterationPeriod is the target length of one loop iteration. The sealing
// budget is whatever remains of it after the other work items run.
const iterationPeriod = time.Second

// Worker manages the event loop for the chain.
type Worker struct {
	state     *state.State
	wg        sync.WaitGroup
	shut      chan struct{}
	evHandler state.EventHandler
}

// Run creates a worker, registers the worker with the state package, and
// starts the event loop.
func Run(st *state.State, evHandler state.EventHandler) {
	w := Worker{
		state:     st,
		shut:      make(chan struct{}),
		evHandler: evHandler,
	}

	// Register this worker with the state package.
	st.Worker = &w

	// We don't want to return until we know the G is up and running.
	hasStarted := make(chan bool)

	w.wg.Add(1)
	go func() {
		defer w.wg.Done()
		hasStarted <- true
		w.eventLoop()
	}()

	<-hasStarted
}

// Shutdown terminates the goroutine performing work.
func (w *Worker) Shutdown() {
	w.evHandler("worker: shutdown: started")
	defer w.evHandler("worker: shutdown: completed")

	close(w.shut)
	w.wg.Wait()
}

// isShutdown is used to test if a shutdown has been signaled.
func (w *Worker) isShutdown() bool {
	select {
	case <-w.shut:
		return true
	default:
		return false
	}
}

// =============================================================================

// eventLoop runs the node's work items in order, once per iteration period.
// All chain processing happens on this one goroutine; the transport and the
// proof of work search are the only places an iteration spends real time.
func (w *Worker) eventLoop() {
	w.evHandler("worker: eventLoop: G started")
	defer w.evHandler("worker: eventLoop: G completed")

	for !w.isShutdown() {
		start := time.Now()

		w.evHandler("worker: eventLoop: STATUS: queued[%d] pending[%d] attached[%d] staged votes[%d]",
			w.state.QueueCount(), w.state.PendingCount(), w.state.BlockCount(), w.state.StagingCount())

		w.state.Listen()
		w.state.Reconcile()

		if budget := iterationPeriod - time.Since(start); budget > 0 {
			w.state.TrySeal(budget)
		}

		w.state.PollActFile()

		w.sleepRemainder(start)
	}
}

// sleepRemainder holds the loop to its cadence without blocking shutdown.
func (w *Worker) sleepRemainder(start time.Time) {
	remainder := iterationPeriod - time.Since(start)
	if remainder <= 0 {
		return
	}

	timer := time.NewTimer(remainder)
	defer timer.Stop()

	select {
	case <-timer.C:
	case <-w.shut:
	}
}
