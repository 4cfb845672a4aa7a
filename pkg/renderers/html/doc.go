// Package html renders steps and fields as server side HTML through pongo2
// templates. Built-in components cover rich text, checkbox groups and
// editable tables; other components can be hosted as client side mount
// points with WithHostedComponents.
package html
