package domain

// ChecksumRecord is the persisted cache entry for one source file. The JSON field names
// keep the on-disk format readable by earlier builds.
type ChecksumRecord struct {
	FileChecksum        string            `json:"FileChecksum"`
	CommandLineChecksum string            `json:"CommandLineChecksum"`
	CompileSucceeded    bool              `json:"bCompileSucceeded"`
	HeaderChecksums     map[string]string `json:"DependencyHeadersChecksumMap"`
}

// Checksums maps a source path relative to the project root to its record.
type Checksums map[string]*ChecksumRecord
