// Package analysis reads generated particle files back and summarizes them.
//
// It is used to check a file before it is handed to the CFD solver: that
// identifiers are gap free, that positions stay in the expected bounding
// box, and that particles are released only during exhale windows.
package analysis
