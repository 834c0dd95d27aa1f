package amx

// Error is the AMX runtime error code, written by compiled code into
// jitcall.UnwindSlots.ErrCode, returned by jitcall.Call and surfaced to
// the host through the entry trampoline.
type Error int32

const (
	ErrNone Error = iota
	ErrExit
	ErrAssert
	ErrIndex
	ErrStackErr
	ErrStackLow
	ErrHeapLow
	ErrCallback
	ErrNative
	ErrDivide
	ErrSleep
	ErrInvState
	ErrMemAccess
	ErrInvInstr
	ErrStackMin
	ErrHeapMin
	ErrBounds
	ErrOverlay
	ErrNotFound
	ErrInit
	ErrUserData
	ErrInitJIT
	ErrParams
	ErrDomain
	ErrGeneral
	ErrOther
)

var errorNames = map[Error]string{
	ErrNone:      "no error",
	ErrExit:      "forced exit",
	ErrAssert:    "assertion failed",
	ErrIndex:     "array index out of bounds",
	ErrStackErr:  "stack/heap collision",
	ErrStackLow:  "stack underflow",
	ErrHeapLow:   "heap underflow",
	ErrCallback:  "no callback or invalid callback",
	ErrNative:    "native function failed",
	ErrDivide:    "divide by zero",
	ErrSleep:     "go into sleepmode",
	ErrInvState:  "invalid state",
	ErrMemAccess: "memory access out of bounds",
	ErrInvInstr:  "invalid instruction",
	ErrStackMin:  "stack size too small",
	ErrHeapMin:   "heap size too small",
	ErrBounds:    "index bounds error",
	ErrOverlay:   "overlay error",
	ErrNotFound:  "function not found",
	ErrInit:      "AMX not initialized",
	ErrUserData:  "unable to set user data field",
	ErrInitJIT:   "cannot initialize JIT",
	ErrParams:    "parameter error",
	ErrDomain:    "domain error, expression is out of range",
	ErrGeneral:   "general error (unknown or unspecific error)",
	ErrOther:     "internal JIT error",
}

func (e Error) Error() string {
	if name, ok := errorNames[e]; ok {
		return name
	}
	return "unknown AMX error"
}

func (e Error) String() string { return e.Error() }
