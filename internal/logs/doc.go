// Package logs reads and follows the shelfarr log file.
//
// Tail powers the logs CLI command: it emits the trailing lines of the
// structured log and optionally keeps streaming appended lines, surviving
// log rotation by restarting from the top of the new file.
package logs
