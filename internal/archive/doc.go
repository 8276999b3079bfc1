// Package archive assembles mail messages into a single HTML document,
// renders it to PDF and stores it in the user's chosen Drive folder.
//
// The Assembler is the pure document builder: it walks messages in thread
// order, renders header blocks and bodies, inlines image attachments and
// hands non-image attachments to an AttachmentSink which extracts them into
// a companion folder created at most once per run.
//
// The Archiver is the orchestration around it: destination resolution
// against a session catalog, filename selection, PDF rendering, upload and
// the best-effort notification email.
package archive
