// Package fieldtypes holds the static field type table consulted by both the
// structural editors and the runtime renderers. The table is a map literal
// built at compile time; new types are added by extending it, never by
// registering entries at runtime.
//
// Lookups by unknown key report ok == false. Callers treat that exactly like a
// descriptor without a component and fall back to a plain text input.
package fieldtypes
