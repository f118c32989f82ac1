// Package reader defines the consumer side of a lector pipeline: the Reader
// and Preloader plugin contracts, the Verdict a reader returns for each token,
// the Claim handle that represents in-flight consumption, and the registry
// drivers add themselves to.
//
// Drivers live in sub-packages (reader/stdout, reader/kafka) and register
// from init, so importing a driver package for side effects makes its kind
// available to reader.New.
package reader
