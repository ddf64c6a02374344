// Package implement models the section-control implement that sits
// behind the Task Controller client callbacks.
//
// It contains three pieces:
//
//   - the condensed work-state codec (two bits per section, sixteen
//     sections per 32-bit word),
//   - the SectionControlSimulator, which holds per-section setpoint and
//     switch state plus the global automatic/manual mode, and
//   - the Dispatch, which answers requestValue/commandValue callbacks
//     from the Task Controller session layer.
//
// Dispatch methods run inline on the session layer's servicing path and
// therefore never block and never allocate beyond small fixed work.
// Scalar state is atomic; the per-section arrays assume a single writer
// per array (the dispatch for setpoints, the operator console for
// switches). Enforcing that rule is the caller's job.
package implement
