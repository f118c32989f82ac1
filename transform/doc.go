// Package transform defines the transformer plugin contract and the registry
// transformer kinds are built from. A transformer receives the whole current
// token list of a pipeline step and returns its replacement, which may be a
// single token, a flat list or nested groups; the engine flattens it before
// the next transformer runs.
//
// Transformers run in-process (Func, the builtin sub-package) or remotely over
// gRPC (GRPCClient).
package transform
