package ringbuf

// RingBuf is a bounded deque.  Pushing onto a full RingBuf evicts from the opposite end.
type RingBuf[T any] struct {
	buf        []T
	head, tail int
}

func New[T any](n int) RingBuf[T] {
	if n <= 0 {
		panic("ringbuf: capacity must be positive")
	}
	return RingBuf[T]{buf: make([]T, n)}
}

func (rb *RingBuf[T]) MaxLen() int {
	return len(rb.buf)
}

func (rb *RingBuf[T]) Len() int {
	return rb.tail - rb.head
}

// PushBack appends val, evicting the front element if the buffer is full.
func (rb *RingBuf[T]) PushBack(val T) {
	if rb.Len() == len(rb.buf) {
		rb.PopFront()
	}
	rb.buf[rb.index(rb.tail)] = val
	rb.tail++
}

// PushFront prepends val, evicting the back element if the buffer is full.
func (rb *RingBuf[T]) PushFront(val T) {
	if rb.Len() == len(rb.buf) {
		rb.PopBack()
	}
	rb.head--
	rb.buf[rb.index(rb.head)] = val
}

func (rb *RingBuf[T]) PopFront() T {
	val := rb.At(0)
	var zero T
	rb.buf[rb.index(rb.head)] = zero
	rb.head++
	return val
}

func (rb *RingBuf[T]) PopBack() T {
	val := rb.At(rb.Len() - 1)
	var zero T
	rb.tail--
	rb.buf[rb.index(rb.tail)] = zero
	return val
}

// At returns the i-th element from the front.
func (rb *RingBuf[T]) At(i int) T {
	if i < 0 || i >= rb.Len() {
		panic(i)
	}
	return rb.buf[rb.index(rb.head+i)]
}

func (rb *RingBuf[T]) Clear() {
	clear(rb.buf)
	rb.head, rb.tail = 0, 0
}

func (rb *RingBuf[T]) index(i int) int {
	n := len(rb.buf)
	return ((i % n) + n) % n
}
