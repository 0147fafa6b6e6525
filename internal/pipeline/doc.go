// Package pipeline runs a crawl: it discovers thread references, then
// passes every thread through a fixed sequence of steps (extract, then
// download) and accumulates a model.RunReport.
//
// Threads are processed one at a time in discovery order. Each step
// receives the Job of the current thread and may mark it excluded, which
// ends processing for that thread without side effects.
package pipeline
