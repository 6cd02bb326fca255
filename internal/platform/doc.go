// Package platform provides the POSIX filesystem helpers shared by the file
// actions: resolving the folder a context-menu target refers to, deciding
// whether two spellings name the same entry, containment checks for
// self-overlapping transfers, and symlink-preserving copies.
package platform
