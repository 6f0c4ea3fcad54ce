// Package atomicfile implements whole-file replacement with
// temp-file-then-rename semantics. A reader that opens the target path at
// any point observes either the previous complete content or the new
// complete content, never a partially written file: the temporary file is
// invisible under the target name until the rename completes.
//
// The temporary file is created in the same directory as the target. This
// is load-bearing, not cosmetic: rename is only atomic within a single
// filesystem, and the target's own directory is the one place guaranteed
// to share a filesystem with the target.
package atomicfile
