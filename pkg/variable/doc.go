// Package variable decodes typed variables out of the piControl process
// image.
//
// A [Descriptor] names where a variable lives (container offset, byte
// address, bit length, bit position) and is normally supplied by an
// external catalog, see package catalog. The [Decoder] classifies the
// descriptor's access width, issues the matching driver operation and
// converts the raw bytes into a [Value], a tagged union with one variant
// per width class.
//
// Single-bit variables go through the driver's atomic bit primitives; all
// wider variables are positioned byte reads. Multi-byte integers are
// little-endian, matching the process-image layout.
package variable
