// Package edit applies method-body patches on behalf of named edits.
//
// An Edit installs manipulators on a Host through its Hooks. Each manipulator
// routes its patch through Hooks.Patch, which runs the common patching
// wrapper: it snapshots the body, recovers panics, rolls back failed
// attempts, and decides from the FailurePolicy whether a failure is only
// logged or returned to the host.
//
// Manager tracks each edit through the Unpatched and Patched states and,
// through Diagnostics, the outcome of its most recent patch attempt.
package edit
