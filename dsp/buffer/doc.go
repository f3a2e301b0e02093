// Package buffer provides pre-sized float32 sample storage for real-time
// processing.
//
// [Queue] is a first-in first-out ring of samples used to reconcile an
// arbitrary host callback size with a fixed internal block size. Its storage
// is allocated up front with [NewQueue] or [Queue.Reserve]; Push only
// allocates when a caller exceeds the reserved capacity.
package buffer
