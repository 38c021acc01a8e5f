// Package sim provides the discrete-event simulation engine for aircraft
// mission operations.
//
// # Reading Guide
//
// Start with these files to understand the simulation kernel:
//   - types.go: the scenario/resource data model (distributions, mission
//     types, demand specs, overrides, results)
//   - pool.go: the resource pool, a counted capacity over an ordered
//     multiset of release times
//   - demand.go: the time-ordered stream of mission-arrival events
//   - simulator.go: the event loop that consumes demand events and drives
//     admission, acquisition, and timeline recording
//
// Monte Carlo aggregation over many independent runs of this package lives
// in sim/mc.
package sim
