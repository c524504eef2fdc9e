// Package engine simulates pulse propagation through a module network.
//
// ARCHITECTURE:
//
// Single-Threaded Drain Loop:
// The simulator processes all events in one goroutine for deterministic
// behavior. A button press injects a single synthetic Low pulse and
// drains the queue to quiescence before returning. This ensures:
// - Predictable delivery order (breadth-first, matching the fan-out)
// - Reproducible traces for the same network and press count
// - Simple reasoning about module state between presses
//
// Event Processing Flow:
// 1. Press() enqueues the bootstrap Low addressed to the broadcaster
// 2. drain() dequeues events one at a time, strictly FIFO
// 3. Each delivery increments the pulse counter, then the target module
//    reacts, appending its emissions to the back of the queue
// 4. The press returns when the queue is empty
//
// Note: pulses are counted at delivery, not at enqueue. The bootstrap
// pulse itself is delivered to the broadcaster and counted like any
// other event.
//
// Counting runs detect state recurrence: when every module is back in
// its initial state the remaining presses are extrapolated
// arithmetically instead of simulated. Traced runs never extrapolate.
//
// The simulator is designed for correctness and determinism, not
// throughput. It is not safe for concurrent use.
package engine
