package main

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseSizes(t *testing.T) {
	sizes, err := parseSizes("128")
	require.NoError(t, err)
	assert.Equal(t, []int{128}, sizes)

	sizes, err = parseSizes("128, 1024,1048576")
	require.NoError(t, err)
	assert.Equal(t, []int{128, 1024, 1048576}, sizes)

	_, err = parseSizes("128,abc")
	require.Error(t, err)

	_, err = parseSizes("0")
	require.Error(t, err)

	_, err = parseSizes("-5")
	require.Error(t, err)
}
