// Package cvat renders tracks into the CVAT 1.1 video annotation XML format.
//
// Rendering is deterministic: the caller supplies the "current instant" along
// with the other task metadata, and element order, attribute order, number
// formatting and indentation are fixed. Every document declares the complete
// label catalog in catalog order regardless of which labels the tracks use.
package cvat
