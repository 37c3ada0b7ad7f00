/*
Copyright © 2026 the GyroKit authors.
This file is part of GyroKit.

GyroKit is free software: you can redistribute it and/or modify
it under the terms of the GNU General Public License as published by
the Free Software Foundation, either version 3 of the License, or
(at your option) any later version.

GyroKit is distributed in the hope that it will be useful,
but WITHOUT ANY WARRANTY; without even the implied warranty of
MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE.  See the
GNU General Public License for more details.

You should have received a copy of the GNU General Public License
along with GyroKit.  If not, see <http://www.gnu.org/licenses/>.
*/

package gyrokit

import (
	"errors"
	"fmt"
)

// FormatMismatchError is returned when a file fails verification as a
// given code's native format.
type FormatMismatchError struct {
	File string // the offending file
	Code string // the code name whose format was expected
}

func (e *FormatMismatchError) Error() string {
	return fmt.Sprintf("gyrokit: unable to verify %s as a %s file", e.File, e.Code)
}

// UnsupportedVariantError is returned when a geometry parameterization or
// other format variant is valid for the code but not implemented here.
type UnsupportedVariantError struct {
	Code    string
	Variant string
}

func (e *UnsupportedVariantError) Error() string {
	return fmt.Sprintf("gyrokit: %s variant %q is not supported", e.Code, e.Variant)
}

// MissingFileError is returned when a mandatory member of an output file
// set cannot be found.
type MissingFileError struct {
	Dir  string
	Name string
}

func (e *MissingFileError) Error() string {
	return fmt.Sprintf("gyrokit: could not find required output file %q in directory %q", e.Name, e.Dir)
}

var (
	// ErrNoElectron is returned when an operation requiring an "electron"
	// species (zeff, quasineutrality, normalisation) is attempted on a
	// species set that has none.
	ErrNoElectron = errors.New("gyrokit: species set has no \"electron\" species")

	// ErrEmptyInput is returned when writing an input adapter that has not
	// been populated by Read or Set.
	ErrEmptyInput = errors.New("gyrokit: input adapter holds no data; call Read or Set first")

	// ErrMissingReference is returned when a normalization conversion
	// passes through a reference value that has not been resolved yet
	// (for example Bunit before the local geometry is known).
	ErrMissingReference = errors.New("gyrokit: conversion requires an unresolved reference value; finalize the convention with geometry data first")
)
