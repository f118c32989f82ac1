// Package builtin registers the in-process transformers lector ships with:
// "sentence", "chunk" and "normalize". Each one rewrites text tokens and
// passes every other token through unchanged.
package builtin
