package refpack

// Codec encodes a Table to and from bytes for transport or storage.
// Codecs only carry the table; they never change its meaning — any
// byte stream a codec produces must decode to an equal table.
type Codec interface {
	// ContentType returns the MIME type for this codec.
	ContentType() string

	// Marshal encodes a table into bytes.
	Marshal(t Table) ([]byte, error)

	// Unmarshal decodes bytes into a table.
	Unmarshal(data []byte) (Table, error)
}
