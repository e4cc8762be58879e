// Package serialization provides the native .ffnn format for saving and
// loading networks.
//
// A .ffnn file is a small binary container:
//
//	Format Structure:
//	  [0x00: Magic "FFNN"]
//	  [0x04: Version (uint32 LE)]
//	  [0x08: Flags (uint32 LE)]
//	  [0x0C: Reserved (uint32)]
//	  [0x10: Header Size (uint64 LE)]
//	  [0x18: Data Size (uint64 LE)]
//	  [0x20: SHA-256 of header and data (32 bytes)]
//	  [0x40: Header: JSON description of the network]
//	  [Data: every beta as float64 LE, in global beta order]
//
// The header records the layer structure, the activation code, shift and
// scale of every unit, the enabled derivative substrates and the starting
// layer of the variational parameters, so a loaded network is
// indistinguishable from the saved one. Activations are stored by code and
// resolved through the actf registry when loading; custom activations must
// be registered before Load.
//
// Example usage:
//
//	if err := serialization.Save("psi.ffnn", net, map[string]string{"system": "he"}); err != nil {
//	    log.Fatal(err)
//	}
//
//	net, header, err := serialization.Load("psi.ffnn")
//	if err != nil {
//	    log.Fatal(err)
//	}
//	fmt.Println(header.Metadata["system"], net.NBeta())
package serialization
