// Package todo defines the task record, its create and update inputs, id
// generation, and the JSON layout of the durable slot.
//
// The slot holds a flat JSON array of task objects:
//
//	[
//	  {
//	    "id": "0b6f1c1e-8a57-4c43-9a55-5d1f1a0c2b7e",
//	    "title": "Buy milk",
//	    "description": "2 liters",
//	    "completed": false,
//	    "createdAt": "2024-01-01T00:00:00Z"
//	  }
//	]
//
// # Ids
//
// An id is opaque. Slots written by older versions carry numeric ids
// (milliseconds since the epoch); those are read as their decimal text and
// written back as JSON numbers, so the array keeps its shape across a
// read/write cycle. Numbers are read in canonical form (1.0e3 is "1000").
//
// Numeric and string ids share one namespace: 123 and "123" are the same
// id, and an all-digit string id is written back as a number. A slot in
// which two tasks share an id fails validation.
//
// Two generators are provided:
//   - UUIDGenerator: random version 4 UUIDs (default)
//   - SequenceGenerator: millisecond timestamps forced to be strictly
//     increasing, so two creates in the same millisecond still differ
//
// # Validation
//
// DecodeSlot validates a payload against the embedded JSON Schema
// (draft 2020-12) before decoding it. Validation errors carry a dot/bracket
// path such as "[2].createdAt".
//
// Title validation (ValidateDraft, ValidatePatch) is for presentation code.
// The store accepts whatever it is given.
//
// # File Format
//
// EncodeSlot writes:
//   - 2-space indentation
//   - Trailing newline
//   - "[]" for an empty list, never "null"
package todo
