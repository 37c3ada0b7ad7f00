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

// Package gyrokit converts between the input and output file formats of
// gyrokinetic plasma turbulence codes (TGLF, GENE, ...) and a unified
// internal representation of local plasma equilibrium geometry, species
// kinetics, and numerical grid parameters.
//
// Each code adapter translates between that code's native file schema and
// the normalized triple {LocalGeometry, LocalSpecies, Numerics}. Physical
// quantities are tagged with a normalization Convention (each code defines
// its own reference mass, density, temperature, velocity, length and
// magnetic field), and conversions between conventions are applied at
// every adapter boundary so values remain consistent no matter which code
// they came from.
//
// Simulation output (fields, fluxes, eigenvalues) is collected into a
// labeled multi-dimensional Dataset indexed by (time, kx, ky, theta,
// energy, pitch, moment, field, species), which can be serialized to
// NetCDF.
package gyrokit
