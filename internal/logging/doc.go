// Package logging builds the zerolog loggers used across steelcalc.
//
// Loggers are constructed once per command invocation from a Config, tagged
// with a component name, and carried through context.Context. Every
// invocation also gets a ULID trace id which a hook stamps onto each event
// logged with a context.
package logging
