// Package viz renders run and inspection reports for the terminal.
//
// Reports are plain lipgloss panels: a title, aligned label/value rows and,
// for per-region counts, a share bar. Colors are dropped automatically when
// the output is not a terminal.
package viz
