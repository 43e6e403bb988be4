// Package textfile reads and writes whole text files, preferring
// memory-mapped I/O via [mmapfile] and falling back to [os.File] when mmap is
// unavailable or unsuitable (empty files, or a platform without support).
//
// Limitations inherited from [mmapfile]:
//   - Mapped files are fixed size after opening, so [Create] takes the final
//     length up front.
//   - Creating or truncating with mmap requires a positive size.
package textfile
