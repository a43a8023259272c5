// Package batch orchestrates a synchronization run over one subtitle
// document or a directory of them.
//
// A run walks a fixed state machine: resolve the working set, present a
// preview, wait for confirmation, apply per document, report. Confirmation
// is the single serialization point; no document is touched before it.
// Documents are mutually independent, so a failure on one is recorded and
// the run continues with the rest.
package batch
