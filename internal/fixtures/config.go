package fixtures

// Config holds configuration for the fixture doubles.
type Config struct {
	// ListenAddr is the address cmd/fixtureserver binds to.
	ListenAddr string

	// PostCount is the number of seeded posts (ids 1..PostCount).
	PostCount int

	// DropZoneInput renders a hidden file input inside the drop zone of the
	// upload page. The live page ships without one.
	DropZoneInput bool
}

// DefaultConfig returns a Config matching the live services.
func DefaultConfig() Config {
	return Config{
		ListenAddr: ":9999",
		PostCount:  100,
	}
}
