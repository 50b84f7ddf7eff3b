// Package staging materializes in-memory FileSets into temporary directories
// for the ddp engine and guarantees their removal.
//
// Each staged directory is named ddp-in-* under a staging root and is paired
// with a sibling advisory lock file held for as long as the owning operation
// runs. CleanStale uses that lock to sweep directories abandoned by killed
// processes without ever touching one that is still in use.
package staging
