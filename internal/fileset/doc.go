// Package fileset models the in-memory inputs handed to the ddp engine.
//
// A FileSet maps a logical role (DDPID, PQDESCR, SD, ...) to the bytes of that
// file. The package owns the role vocabulary, the on-disk naming rule (the SD
// role is written as SD.SD, everything else verbatim), and Load, which reads a
// DDP directory back into a FileSet.
package fileset
