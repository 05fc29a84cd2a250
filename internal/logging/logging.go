/*
Copyright © 2026 Benny Powers <web@bennypowers.com>

This program is free software: you can redistribute it and/or modify
it under the terms of the GNU General Public License as published by
the Free Software Foundation, either version 3 of the License, or
(at your option) any later version.

This program is distributed in the hope that it will be useful,
but WITHOUT ANY WARRANTY; without even the implied warranty of
MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE.  See the
GNU General Public License for more details.

You should have received a copy of the GNU General Public License
along with this program. If not, see <http://www.gnu.org/licenses/>.
*/

// Package logging provides centralized terminal logging for the fob CLI.
package logging

import (
	"sync"

	"github.com/pterm/pterm"
)

// init configures pterm printers to use foreground colors only.
func init() {
	pterm.Info = *pterm.Info.WithPrefix(pterm.Prefix{
		Text:  "INFO",
		Style: pterm.NewStyle(pterm.FgBlue),
	}).WithMessageStyle(&pterm.ThemeDefault.DefaultText)

	pterm.Warning = *pterm.Warning.WithPrefix(pterm.Prefix{
		Text:  "WARNING",
		Style: pterm.NewStyle(pterm.FgYellow),
	}).WithMessageStyle(&pterm.ThemeDefault.DefaultText)

	pterm.Error = *pterm.Error.WithPrefix(pterm.Prefix{
		Text:  "ERROR",
		Style: pterm.NewStyle(pterm.FgRed),
	}).WithMessageStyle(&pterm.ThemeDefault.DefaultText)

	pterm.Debug = *pterm.Debug.WithPrefix(pterm.Prefix{
		Text:  "DEBUG",
		Style: pterm.NewStyle(pterm.FgCyan),
	}).WithMessageStyle(&pterm.ThemeDefault.DefaultText)
}

// Logger writes leveled terminal output through pterm.
type Logger struct {
	mu    sync.RWMutex
	debug bool
	quiet bool
}

var globalLogger = &Logger{}

// GetLogger returns the global logger instance.
func GetLogger() *Logger {
	return globalLogger
}

// SetDebug enables or disables debug output.
func (l *Logger) SetDebug(enabled bool) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.debug = enabled
}

// SetQuiet suppresses info-level output.
func (l *Logger) SetQuiet(enabled bool) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.quiet = enabled
}

// Debug logs a debug message when debug output is enabled.
func (l *Logger) Debug(format string, args ...any) {
	l.mu.RLock()
	enabled := l.debug
	l.mu.RUnlock()
	if enabled {
		pterm.Debug.Printfln(format, args...)
	}
}

// Info logs an informational message unless quiet.
func (l *Logger) Info(format string, args ...any) {
	l.mu.RLock()
	quiet := l.quiet
	l.mu.RUnlock()
	if !quiet {
		pterm.Info.Printfln(format, args...)
	}
}

// Warning logs a warning.
func (l *Logger) Warning(format string, args ...any) {
	pterm.Warning.Printfln(format, args...)
}

// Error logs an error.
func (l *Logger) Error(format string, args ...any) {
	pterm.Error.Printfln(format, args...)
}
