// Package gmail wraps the Gmail API for driveclip.
//
// It reads messages and whole threads, decoding each into a Message record
// (headers, HTML body, attachment bytes) ready for document assembly, and it
// sends the optional notification email after an archive run.
package gmail
