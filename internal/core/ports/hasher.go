package ports

// Hasher computes content digests.
//
//go:generate mockgen -source=hasher.go -destination=mocks/mock_hasher.go -package=mocks
type Hasher interface {
	// HashFile returns the uppercase hex SHA-256 digest of the file at path.
	HashFile(path string) (string, error)

	// HashString returns the uppercase hex SHA-256 digest of s.
	HashString(s string) string

	// Fingerprint returns a fast non-cryptographic digest of the file at path.
	Fingerprint(path string) (uint64, error)
}
