// Package pipeline is the lector engine.
//
// An Engine owns an ordered list of transformers, an ordered list of readers
// and a nested option tree. Transform seeds a single "text" token from the
// source and reduces it through the enabled transformers, flattening each
// step's output. Read transforms (or takes already-transformed tokens),
// optionally runs the preload pass, and then dispatches the tokens of the
// batch one at a time: each token is offered to the enabled readers in order
// until one claims it, and the batch waits for that claim to settle before
// moving on. A token no reader claims fails the batch with an
// UnclaimedTokenError.
//
// Scheduling across batches:
//
//	read.serial unset  batches run concurrently
//	read.serial set    batches run one after another in Submit order; a
//	                   batch starts once its predecessor has settled,
//	                   whether it succeeded or failed
//
// Lifecycle events are published on the engine's events.Bus: "preload" and
// "read" per token, "before-read" and "after-read" per batch. The engine
// waits for before-read and after-read listeners.
package pipeline
