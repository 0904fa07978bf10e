// Package server exposes the command pipeline over HTTP for the presentation
// layer: command submission, balance and history queries, and the demo reset.
package server
