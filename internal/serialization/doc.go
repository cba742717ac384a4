// Package serialization saves and loads model parameters.
//
// The format is headerless and positional:
//
//	Format Structure:
//	  [type name bytes][NUL]
//	  per parameter, in Module.Parameters order:
//	    [int32: ndim]
//	    [ndim x int32: dims]
//	    [elements x float32: row-major data]
//
// All integers and floats use the machine's native byte order. Loading
// checks the type name and every parameter shape against the receiving
// module before copying anything, so a failed load leaves the module
// untouched. A save/load round trip is bit-exact.
//
// Example usage:
//
//	if err := serialization.Save("model.bin", model); err != nil {
//	    log.Fatal(err)
//	}
//
//	if err := serialization.Load("model.bin", model); err != nil {
//	    log.Fatal(err)
//	}
package serialization
