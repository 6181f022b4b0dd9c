// Package models defines the core domain models for the ledger import core.
//
// The models mirror the persisted schema the web collaborators read:
//   - Transaction: one reconciled ledger record with per-participant shares
//   - Participant: a household member who can pay for or owe part of an expense
//   - Category: classification for reporting, with an optional parent grouping
//   - ImportRun: the recorded outcome of one batch import
//
// All monetary amounts are int64 minor units (cents). Parsing from the
// decimal strings of the export format happens at the normalization boundary;
// past that boundary arithmetic is exact integer arithmetic, so the invariant
// "shares sum to the total" holds without a floating-point tolerance.
//
// Transactions are immutable once written: edits and deletes belong to the
// collaborator CRUD surface, never to this core.
package models
