// Package stores persists the local deployment history: one record
// per deploy or delete attempt, with its changeset, mode and outcome.
// The history makes deploys auditable after the fact without asking
// the remote system, which only keeps its own current state.
//
// The SQLite store implements engine.Recorder and is wired into the
// engine with engine.WithRecorder.
package stores
