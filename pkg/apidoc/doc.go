// Package apidoc describes the form structure HTTP contract as an OpenAPI 3
// document built with kin-openapi. The devserver serves it and tests load it
// back to check every route the store calls is declared.
package apidoc
