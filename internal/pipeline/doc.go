// Package pipeline folds structure files through a Folder with a worker
// pool and hands each result to a visit callback in input order.
//
// Cascade is the production Folder: 1D classifier, candidate pairs, 2D
// ensemble, pairing resolver. Models are reached only through
// ensemble.Predictor, which keeps the pipeline testable with fakes.
package pipeline
