// Package main hosts the wavsift CLI entrypoint and command graph.
//
// The Cobra-based command tree turns terminal invocations into filter runs,
// tree inspections, and configuration scaffolding. It centralizes config
// resolution and structured logging setup so the heavy lifting stays in the
// internal packages and the commands stay declarative.
package main
