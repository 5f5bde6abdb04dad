// Package log provides structured event logging for piControl driver
// operations.
//
// Every operation the driver performs against the process image (open,
// close, reset, positioned read/write, single-bit get/set, variable
// lookup) can be captured as an [Event]. Events are tagged with the
// UUID of the driver handle that issued them, so interleaved traffic
// from several handles can be separated when reading a log back.
//
// The package ships several Logger implementations:
//
//   - [NoopLogger] discards everything (the default).
//   - [FileLogger] appends CBOR-encoded events to a file.
//   - [SlogAdapter] forwards events to a log/slog logger for console use.
//   - [MultiLogger] fans out to several loggers at once.
//
// [Reader] streams events back out of a CBOR log file, optionally
// filtered by handle, operation, error presence or time range.
package log
