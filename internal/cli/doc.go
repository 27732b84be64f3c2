// Package cli provides the line-oriented front ends: a one-shot prediction
// run, an interactive prompt and shell completion scripts.
//
// # Naming Conventions
//
// Functions in this package follow consistent naming patterns:
//
//   - Display* functions write formatted output to an [io.Writer].
//     Examples: [DisplayResult], [DisplayQuietResult], [DisplayError].
//
//   - Format* functions return a formatted string without performing I/O.
//     Examples: [FormatQuietResult], [FormatChart].
package cli
