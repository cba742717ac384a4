package main

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/born-ml/gradcore/tensor"
)

func recordErrors(t *testing.T) {
	t.Helper()
	prev := tensor.SetErrorHandler(func(string) {})
	t.Cleanup(func() { tensor.SetErrorHandler(prev) })
}

func TestTrainXOR(t *testing.T) {
	recordErrors(t)
	for _, opt := range []string{"adam", "sgd"} {
		t.Run(opt, func(t *testing.T) {
			loss, err := train(trainConfig{hidden: 8, epochs: 2000, batch: 4, lr: 0.05, opt: opt, seed: 1})
			require.NoError(t, err)
			assert.Less(t, loss, 0.1)
		})
	}
}

func TestTrainSaveThenInspect(t *testing.T) {
	recordErrors(t)
	path := filepath.Join(t.TempDir(), "xor.bin")
	_, err := train(trainConfig{hidden: 3, epochs: 5, batch: 2, lr: 0.05, opt: "adam", seed: 1, save: path})
	require.NoError(t, err)

	f, err := os.Open(path)
	require.NoError(t, err)
	defer f.Close()

	var out bytes.Buffer
	require.NoError(t, inspect(&out, f))
	text := out.String()
	assert.True(t, strings.HasPrefix(text, "Sequential: 4 parameters\n"), text)
	assert.Contains(t, text, "[Tensor of shape: Shape[3, 2]]")
	assert.Contains(t, text, "[Tensor of shape: Shape[3]]")
	assert.Contains(t, text, "[Tensor of shape: Shape[1, 3]]")
	assert.Contains(t, text, "[Tensor of shape: Shape[1]]")
}

func TestTrainRejectsUnknownOptimizer(t *testing.T) {
	recordErrors(t)
	_, err := train(trainConfig{hidden: 2, epochs: 1, batch: 1, opt: "rmsprop"})
	require.ErrorContains(t, err, "rmsprop")
}
