package constants

import (
	"os"
	"time"
)

// Window-closing gap: a note-on this far past the last event starts a new
// chord window.
const DefaultSilenceThreshold = 50 * time.Millisecond

// Note-ons this close together count as simultaneous.
const DefaultSimultaneityEpsilon = 10 * time.Millisecond

// Identification scores below this resolve to an unidentified chord.
const DefaultConfidenceThreshold = 0.5

const DefaultKey = "C major"

// DynamoDB BatchGetItem caps a request at this many keys.
const MaxMetadataBatch = 10

const MetadataTable = "cadence-metadata"

func GetMetadataEndpoint() string {
	endpoint := os.Getenv("METADATA_ENDPOINT")
	if endpoint != "" {
		return endpoint
	}
	return "http://localhost:8000"
}
