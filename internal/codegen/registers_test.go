package codegen

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestLocMapsRegisterColors(t *testing.T) {
	assert.Equal(t, "ebx", loc(0))
	assert.Equal(t, "r15d", loc(10))
}

func TestLocSpillsBeyondRegisterColors(t *testing.T) {
	assert.Equal(t, "DWORD PTR [rsp - 32]", loc(11))
	assert.Equal(t, "DWORD PTR [rsp - 36]", loc(12))
}

func TestParamDestinationsAliasArgSources(t *testing.T) {
	// This is the exact hazard emitParamPrologue's push/pop permutation
	// exists to resolve: a naive sequential move order would clobber a
	// later parameter's source register.
	assert.Equal(t, "r8", argRegs64[4])
	assert.Equal(t, "r8", paramDest64[3])
}
