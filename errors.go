// errors.go defines public error types for the oggframe package.

package oggframe

import "errors"

// Public error types for framing operations.
var (
	// ErrNotReady indicates the state object has been cleared or entered an
	// unrecoverable internal error. All mutating calls on a not-ready object
	// are no-ops.
	ErrNotReady = errors.New("oggframe: state not ready")

	// ErrBadSerialNo indicates a page was submitted to a stream whose serial
	// number does not match the page's.
	ErrBadSerialNo = errors.New("oggframe: page serial number does not match stream")

	// ErrBadVersion indicates a page declares a stream structure version
	// other than 0. Such pages cannot be interpreted by this layer.
	ErrBadVersion = errors.New("oggframe: unsupported stream structure version")

	// ErrBufferOverflow indicates Wrote was given a negative count, or more
	// bytes than the sync buffer has free space for.
	ErrBufferOverflow = errors.New("oggframe: wrote past end of sync buffer")

	// ErrGap indicates a hole in the stream data (lost or corrupted pages).
	// The packet returned by the next successful read is the first one after
	// the discontinuity.
	ErrGap = errors.New("oggframe: gap in stream data")

	// ErrStreamClosed indicates a write was attempted after Close.
	ErrStreamClosed = errors.New("oggframe: stream closed")

	// ErrInvalidArgument indicates a caller-supplied value is out of range.
	// The state is not mutated.
	ErrInvalidArgument = errors.New("oggframe: invalid argument")
)
