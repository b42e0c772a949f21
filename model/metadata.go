package model

// PieceMetadata is what the metadata table knows about a piece. Key is a
// key-signature hint like "C major" and may be empty.
type PieceMetadata struct {
	Title    string
	Composer string
	Key      string
}
