// Package controller implements the manual lookup view controller.
//
// The controller owns four mutually exclusive regions (Home, Loading,
// Results, Error), remembers the last searched device and mediates between
// user input, the lookup service and the UI. It does not depend on any UI
// toolkit: the UI hands it a set of capability handles at construction time
// and any handle left nil is replaced with an inert stub.
//
// # State Machine
//
//	Home    --submit(device)-->  Loading
//	Home    --submit("")------>  Error     (device name required)
//	Loading --success--------->  Results
//	Loading --failure--------->  Error
//	Results --home------------>  Home
//	Error   --home------------>  Home
//	Error   --retry----------->  Loading   (Home when no device is remembered)
//
// # Searching
//
// A search is split in three so the network call can run off the UI loop:
//
//	pending, ok := c.SubmitSearch(input)    // UI loop: shows Loading
//	outcome := c.Resolve(ctx, pending)      // any goroutine: no state access
//	c.Complete(outcome)                     // UI loop: shows Results or Error
//
// Every submission (and every return to Home) advances a generation token.
// Complete applies an outcome only if it carries the current token, so when
// searches overlap the latest one wins and earlier responses are dropped.
//
// # Concurrency
//
// A Controller is not safe for concurrent use. All methods except Resolve
// must be called from the goroutine that owns the UI.
package controller
