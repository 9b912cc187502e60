// Package ingest turns raw instrument exports into canonical measurement tables.
//
// It is the engine behind every workflow and has no knowledge of HTTP, rendering
// or export. All operations are synchronous and keep no state between calls; the
// host is responsible for serializing access to the rendering session.
//
// # Pipeline
//
//  1. [DetectDelimiter] and [DetectHeaderOffset] sniff the raw source.
//  2. [Project] selects and renames the columns named by an [InstrumentProfile].
//  3. [SplitOnExtremum] cuts a sweep into two legs at its temperature extremum,
//     or [GroupBy] partitions rows by a categorical column (current, field,
//     frequency), optionally after [QuantizeCeiling] has collapsed noisy readings.
//
// # Profiles
//
// Profiles are registered at init time with [Register] and looked up by id with
// [Lookup]. Additional profiles can be loaded from a tab-separated file with
// [LoadProfiles]:
//
//	id	label	header_skip	source_columns	output_names	primary	quantize_column	quantize_step	drop_incomplete
//	vsm	VSM moment	auto	2,3,60	Temperature,MagneticField,MagneticMoment	Temperature			false
//
// # Errors
//
// A requested column outside the parsed file yields a [*SchemaError]; a table or
// column with no usable values yields an [*EmptyInputError]. Decoding problems
// never fail: invalid UTF-8 falls back to ISO-8859-1 and the table records it in
// [Meta.Degraded].
package ingest
