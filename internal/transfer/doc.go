// Package transfer implements cut, copy and paste of files as batch
// operations.
//
// Cut and Copy only place an intent on the clipboard. Paste reads it back and
// moves or duplicates every source into the destination folder. A paste back
// into the source's own folder always produces a uniquely named sibling. A
// collision with some other existing entry is resolved once per batch by a
// Prompter, and that single decision is reused for every later collision.
// Per-file failures are handed to a Reporter and never stop the batch.
package transfer
