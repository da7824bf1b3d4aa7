package utils

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRound2(t *testing.T) {
	assert.Equal(t, 33.33, Round2(33.333333))
	assert.Equal(t, 0.1, Round2(0.1))
	assert.Equal(t, 2.68, Round2(2.675000001))
	assert.Equal(t, -1.5, Round2(-1.499))
	assert.Equal(t, 0.0, Round2(0))
}

func TestParseDecimal(t *testing.T) {
	v, err := ParseDecimal("2.5")
	require.NoError(t, err)
	assert.Equal(t, 2.5, v)

	v, err = ParseDecimal(" 0,5 ")
	require.NoError(t, err)
	assert.Equal(t, 0.5, v)

	_, err = ParseDecimal("two")
	assert.Error(t, err)

	_, err = ParseDecimal("")
	assert.Error(t, err)
}
