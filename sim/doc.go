// Package sim provides the discrete-event engine that drives an offloading
// scenario from clock zero to its horizon.
//
// # Reading Guide
//
// Start with these three files to understand the simulation kernel:
//   - scheduler.go: the event queue, clock, and ordering guarantees
//   - event.go: the event types that drive the simulation
//   - device_manager.go: the task lifecycle handlers (submit, upload,
//     execute, download, deliver)
//
// # Architecture
//
// The sim package owns the clock and the task state machine; the domain
// models live in sub-packages and are consumed through small interfaces:
//   - sim/scenario/: YAML scenario specs and validation
//   - sim/mobility/: device movement models and location timelines
//   - sim/network/: transfer delay models (averaged, census, contention)
//   - sim/compute/: the capacity oracle over per-tier VM pools
//   - sim/orchestrator/: tier selection and VM fit policies
//   - sim/loadgen/: pre-generated task arrival schedules
//   - sim/stats/: task records, run summaries, and result sinks
//
// # Determinism
//
// A run is a pure function of (scenario, devices, seed, policy). All
// randomness flows through PartitionedRNG streams derived from the master
// seed, events at equal timestamps execute in scheduling order, and the
// engine is single-goroutine. Two runs with equal inputs produce identical
// task records.
package sim
