// Package render draws a composed chapter for terminals, browsers and tools.
//
// Every renderer walks the same domain.RenderTree, so what a front end shows
// always matches what the resolver and router see.
package render
