// Package catalog loads variable descriptor tables for the piControl
// process image.
//
// The access layer itself knows nothing about which variables exist; a
// catalog supplies that: each entry names a variable and carries its
// descriptor (container offset, address, bit length, bit offset). Catalogs
// come from a piCtory-style JSON export or from hand-written YAML tables;
// both formats describe the same device/variable structure.
//
// A loaded [Registry] is read-only. Descriptor correctness against the
// live driver layout is not validated here; only internal consistency is
// checked at load time.
package catalog
