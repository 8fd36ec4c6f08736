// Package writers turns folded structures into serialized outputs.
//
// Design:
//   - Structure files (.ct, JSON) are written per input, atomically.
//   - Run summaries stream to stdout as TSV or JSONL.
//   - JSON/JSONL go through pkg/api (v1) for a stable wire format.
package writers
