package verify

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

// Hand-encoded 32-bit x86: push ebp; mov ebp,esp; ... ; mov esp,ebp; pop
// ebp; ret. NOP (0x90) pads the body so the two verifiers have something
// to walk over between prologue and epilogue.
var (
	pushEBP    = []byte{0x55}
	movEBPESP  = []byte{0x89, 0xE5}
	nop        = []byte{0x90}
	movESPEBP  = []byte{0x89, 0xEC}
	popEBP     = []byte{0x5D}
	ret        = []byte{0xC3}
)

func wellFormedFunction() []byte {
	var code []byte
	code = append(code, pushEBP...)
	code = append(code, movEBPESP...)
	code = append(code, nop...)
	code = append(code, movESPEBP...)
	code = append(code, popEBP...)
	code = append(code, ret...)
	return code
}

func TestSinglePrologueOK(t *testing.T) {
	assert.NoError(t, SinglePrologue(wellFormedFunction()))
}

func TestSinglePrologueMissing(t *testing.T) {
	code := append([]byte{}, nop...)
	code = append(code, ret...)
	assert.Error(t, SinglePrologue(code))
}

func TestSinglePrologueDuplicated(t *testing.T) {
	code := wellFormedFunction()
	code = append(code, pushEBP...)
	code = append(code, movEBPESP...)
	code = append(code, movESPEBP...)
	code = append(code, popEBP...)
	code = append(code, ret...)
	assert.Error(t, SinglePrologue(code))
}

func TestStackHygieneOK(t *testing.T) {
	assert.NoError(t, StackHygiene(wellFormedFunction()))
}

func TestStackHygieneBareRet(t *testing.T) {
	code := append([]byte{}, pushEBP...)
	code = append(code, movEBPESP...)
	code = append(code, ret...) // missing mov esp,ebp; pop ebp
	assert.Error(t, StackHygiene(code))
}
