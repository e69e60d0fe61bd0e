// Package aggregates classifies failures of the per-user write boundaries:
// scan completion, plan replacement and session progression.
package aggregates
