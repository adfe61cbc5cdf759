package vm

import "github.com/pkg/errors"

// ErrInstructionLimit is wrapped into a Status when an epoch exceeds its
// configured instruction budget (spec section 4.1 "Gas").
var ErrInstructionLimit = errors.New("instruction limit exceeded")

// ErrStackUnderflow is wrapped with operator context when an opcode is
// dispatched against too few operand stack elements.
var ErrStackUnderflow = errors.New("stack underflow")

// ErrOutOfRange is wrapped with operator context for out-of-range Pick/Roll
// operands (spec section 4.1.1).
var ErrOutOfRange = errors.New("operand out of range")

// ErrUnresolvedCall is wrapped with the procedure name when Call references
// a name absent from the program's procedure catalog.
var ErrUnresolvedCall = errors.New("unresolved procedure call")

// ErrAssertFailed is wrapped with the decoded assertion message when an
// Assert opcode's condition is zero.
var ErrAssertFailed = errors.New("assertion failed")
