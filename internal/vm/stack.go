package vm

import "errors"

var (
	ErrStackOverflow  = errors.New("stack overflow")
	ErrStackUnderflow = errors.New("stack underflow")
)

// Stack holds return addresses of nested subroutine calls.
// Its capacity is fixed at construction.
type Stack struct {
	slots []uint16
	sp    int
}

func NewStack(capacity int) *Stack {
	return &Stack{slots: make([]uint16, capacity)}
}

func (s *Stack) Push(addr uint16) error {
	if s.sp >= len(s.slots) {
		return ErrStackOverflow
	}
	s.slots[s.sp] = addr
	s.sp++
	return nil
}

func (s *Stack) Pop() (uint16, error) {
	if s.sp == 0 {
		return 0, ErrStackUnderflow
	}
	s.sp--
	return s.slots[s.sp], nil
}

func (s *Stack) Clear() {
	s.sp = 0
	for i := range s.slots {
		s.slots[i] = 0
	}
}

func (s *Stack) Len() int {
	return s.sp
}

func (s *Stack) Cap() int {
	return len(s.slots)
}

// Values returns the pushed addresses, bottom first.
func (s *Stack) Values() []uint16 {
	vs := make([]uint16, s.sp)
	copy(vs, s.slots[:s.sp])
	return vs
}
