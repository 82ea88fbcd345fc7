// Package manual holds the rendered form of a device manual and the
// renderers that produce it.
//
// The lookup service returns manuals in one of three shapes: a structured
// step list, a trusted HTML fragment or a Markdown blob. Each renderer turns
// its input into a Document, an ordered list of blocks (headings,
// paragraphs, list items, code, rules) that the terminal UI styles and the
// PDF exporter typesets. One Mode is active per deployment; it decides how
// inline content bodies are interpreted.
package manual
