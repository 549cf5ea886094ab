// Package imageresize serves resized copies ("derivatives") of images kept in
// a pluggable blob backend.
//
// A derivative is generated lazily the first time it is requested and reused
// until the source changes. Freshness is decided by comparing backend
// timestamps, which are kept in a time-bounded cache to avoid a metadata
// round-trip on every request. When the primary backend lacks a source it can
// be promoted from a secondary staging backend first.
//
// Derivatives are stored under
//
//	<root>/<source dir>/<action>/<width>x<height>/<source basename>
//
// and exposed through the Service entry points URL and StoragePath, which never
// fail: any problem yields an empty result. Resolve returns the underlying
// error for callers that need it.
package imageresize
