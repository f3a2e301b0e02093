package buffer

// Queue is a FIFO ring of float32 samples.
type Queue struct {
	data []float32
	head int // index of the oldest sample
	size int
}

// NewQueue returns an empty queue able to hold capacity samples without
// reallocating.
func NewQueue(capacity int) *Queue {
	return &Queue{data: make([]float32, max(capacity, 0))}
}

// Len returns the number of queued samples.
func (q *Queue) Len() int {
	return q.size
}

// Cap returns the number of samples the queue can hold without growing.
func (q *Queue) Cap() int {
	return len(q.data)
}

// Reserve grows the storage to hold at least n samples, preserving contents.
func (q *Queue) Reserve(n int) {
	if n <= len(q.data) {
		return
	}
	grown := make([]float32, n)
	q.copyOut(grown[:q.size])
	q.data = grown
	q.head = 0
}

// Push appends samples, growing the storage if needed.
func (q *Queue) Push(samples []float32) {
	if len(samples) == 0 {
		return
	}
	if need := q.size + len(samples); need > len(q.data) {
		q.Reserve(max(need, 2*len(q.data)))
	}

	tail := q.head + q.size
	if tail >= len(q.data) {
		tail -= len(q.data)
	}
	n := copy(q.data[tail:], samples)
	copy(q.data, samples[n:])
	q.size += len(samples)
}

// Pop moves the oldest min(len(dst), Len()) samples into dst and returns the
// number moved.
func (q *Queue) Pop(dst []float32) int {
	n := min(len(dst), q.size)
	q.copyOut(dst[:n])
	q.Discard(n)
	return n
}

// Peek copies the oldest samples into dst without removing them.
func (q *Queue) Peek(dst []float32) int {
	n := min(len(dst), q.size)
	q.copyOut(dst[:n])
	return n
}

// Discard drops up to n of the oldest samples.
func (q *Queue) Discard(n int) {
	n = min(max(n, 0), q.size)
	q.head += n
	if q.head >= len(q.data) {
		q.head -= len(q.data)
	}
	q.size -= n
	if q.size == 0 {
		q.head = 0
	}
}

// Reset empties the queue and zeroes its storage.
func (q *Queue) Reset() {
	clear(q.data)
	q.head = 0
	q.size = 0
}

func (q *Queue) copyOut(dst []float32) {
	if len(dst) == 0 {
		return
	}
	n := copy(dst, q.data[q.head:min(q.head+len(dst), len(q.data))])
	copy(dst[n:], q.data)
}
