// Package engine computes the dimensional and pricing properties of a
// roll-formed steel member from its shape, depth, flange width, gauge,
// coil outside diameter and price per hundredweight.
//
// Compute is a pure function: it reads the reference tables through the
// Lookup interface, performs two lookups and a fixed sequence of
// closed-form steps, and returns a fully populated Result. It holds no
// state and is safe for concurrent use with a shared *tables.Tables.
package engine
