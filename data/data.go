// Copyright 2025 Born ML Framework. All rights reserved.
// Use of this source code is governed by an Apache 2.0
// license that can be found in the LICENSE file.

// Package data splits a dataset into mini-batches.
package data

import (
	"github.com/born-ml/gradcore/internal/data"
	"github.com/born-ml/gradcore/tensor"
)

// Loader yields batches along the first axis.
type Loader = data.Loader

// LoaderConfig configures NewLoader.
type LoaderConfig = data.LoaderConfig

// Batch is a pair of views into the dataset.
type Batch = data.Batch

// NewLoader creates a loader over data and labels, which must agree on
// their first dimension.
func NewLoader(samples, labels *tensor.RawTensor, cfg LoaderConfig) (*Loader, error) {
	return data.NewLoader(samples, labels, cfg)
}
