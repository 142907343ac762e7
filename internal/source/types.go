package source

type (
	// FileID uniquely identifies a source file within a FileSet.
	FileID uint32
	// FileFlags encodes metadata about how a file was decoded.
	FileFlags uint8 // метаданные декодирования
)

const (
	// FileVirtual indicates the file was added from memory (stdin, editor buffer, test).
	FileVirtual FileFlags = 1 << iota
	// FileHadBOM marks content whose leading byte-order mark was stripped.
	FileHadBOM
	// FileUTF16 marks content transcoded from UTF-16 to UTF-8.
	FileUTF16
	// FileHasCRLF marks content containing at least one "\r\n" terminator.
	FileHasCRLF
)

// File captures metadata and content for a single TOML document.
// Content is kept byte-for-byte (after BOM removal); line terminators are not normalized.
type File struct {
	ID      FileID
	Path    string
	Content []byte
	LineIdx []uint32
	Hash    [32]byte
	Flags   FileFlags
}

// LineCol represents a human-readable position in a source file.
type LineCol struct {
	Line uint32 // 1-based
	Col  uint32 // 1-based, in bytes
}
