// Copyright 2025 Born ML Framework. All rights reserved.
// Use of this source code is governed by an Apache 2.0
// license that can be found in the LICENSE file.

// Package serialization saves and loads module parameters.
//
// A file holds the module's type name terminated by a NUL byte, followed
// by one record per parameter: int32 rank, int32 dims, float32 data, all
// in native byte order.
package serialization

import (
	"io"

	"github.com/born-ml/gradcore/internal/serialization"
	"github.com/born-ml/gradcore/nn"
)

// Record is one decoded parameter.
type Record = serialization.Record

// Sentinel errors.
var (
	ErrTypeMismatch  = serialization.ErrTypeMismatch
	ErrParamCount    = serialization.ErrParamCount
	ErrShapeMismatch = serialization.ErrShapeMismatch
	ErrCorrupt       = serialization.ErrCorrupt
	ErrUnsupported   = serialization.ErrUnsupported
)

// Save writes model's parameters to path.
func Save(path string, model nn.Module) error {
	return serialization.Save(path, model)
}

// Load reads parameters from path into model. The model is left
// untouched when validation fails.
func Load(path string, model nn.Module) error {
	return serialization.Load(path, model)
}

// Write streams model's parameters to w.
func Write(w io.Writer, model nn.Module) error {
	return serialization.Write(w, model)
}

// Read loads parameters from r into model.
func Read(r io.Reader, model nn.Module) error {
	return serialization.Read(r, model)
}

// ReadRecords decodes a stream without a target model.
func ReadRecords(r io.Reader) (string, []Record, error) {
	return serialization.ReadRecords(r)
}
