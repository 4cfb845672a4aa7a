// Package render decides how a field is presented. Dispatch consults the
// field type table; Registry maps component names to renderer specific
// implementations. Unknown types and components nobody registered both
// degrade to a plain text input, never to an error.
package render
