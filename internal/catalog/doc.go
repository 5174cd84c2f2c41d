// Package catalog holds the label catalog declared in every exported
// annotation document: an ordered list of label names with display colors.
//
// A Catalog never changes after construction and may be shared by concurrent
// exports.
package catalog
