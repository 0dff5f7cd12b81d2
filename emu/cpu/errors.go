package cpu

import (
	"errors"
	"fmt"
)

var (
	// ErrUnknownOpcode is matched by every DecodeError.
	ErrUnknownOpcode = errors.New("unknown opcode")

	ErrStackOverflow  = errors.New("stack overflow")
	ErrStackUnderflow = errors.New("stack underflow")

	// caller contract violations, returned before any state is changed
	ErrInvalidKey    = errors.New("invalid key")
	ErrKeyNotPressed = errors.New("key not pressed")
	ErrROMTooLarge   = errors.New("ROM too big")
	ErrROMLoaded     = errors.New("ROM already loaded")
)

// DecodeError is returned by EmulateCycle when the fetched word is not an
// instruction this machine can execute. The legacy SYS instruction (0nnn)
// is reported the same way.
type DecodeError struct {
	Opcode  uint16
	Address uint16
}

func (e *DecodeError) Error() string {
	return fmt.Sprintf("unknown opcode %04x at address %03x", e.Opcode, e.Address)
}

func (e *DecodeError) Unwrap() error {
	return ErrUnknownOpcode
}

// StackError reports a CALL beyond the sixteenth nesting level or a RET with
// an empty stack. Err is ErrStackOverflow or ErrStackUnderflow.
type StackError struct {
	Err     error
	Address uint16
}

func (e *StackError) Error() string {
	return fmt.Sprintf("%v at address %03x", e.Err, e.Address)
}

func (e *StackError) Unwrap() error {
	return e.Err
}
