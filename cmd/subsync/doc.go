// Package main hosts the subsync CLI entrypoint and command graph.
//
// The Cobra-based command tree covers delay application (sync), delay
// estimation from two reference timestamps (estimate), the run journal
// (history), and configuration scaffolding (config). It centralizes
// configuration resolution and logger setup so subcommands can focus on
// user experience instead of wiring.
//
// Keep this package lean: the engine lives in the internal packages and is
// surfaced here through flags and tables only.
package main
