package wire

import (
	"bytes"
	"io"

	"github.com/klauspost/compress/gzip"
	"github.com/pkg/errors"

	"github.com/tempoval/tempoval/temporal/value"
	"github.com/tempoval/tempoval/temporal/valuekit"
)

// WriteCompressed writes v's binary form gzip-compressed, matching the
// teacher's optional-compression block encodings (tempodb/backend's
// EncGZIP). This is a host convenience on top of the bit-exact Write/Read
// pair, not part of the core wire contract itself.
func WriteCompressed(w io.Writer, v value.Temporal) error {
	gz := gzip.NewWriter(w)
	if err := Write(gz, v); err != nil {
		_ = gz.Close()
		return errors.Wrap(err, "wire: compressed write")
	}
	return gz.Close()
}

// ReadCompressed is the inverse of WriteCompressed.
func ReadCompressed(r io.Reader, baseType valuekit.Type) (value.Temporal, error) {
	gz, err := gzip.NewReader(r)
	if err != nil {
		return nil, errors.Wrap(err, "wire: compressed read")
	}
	defer gz.Close()
	return Read(gz, baseType)
}

// MarshalCompressed is a byte-slice convenience over WriteCompressed.
func MarshalCompressed(v value.Temporal) ([]byte, error) {
	var buf bytes.Buffer
	if err := WriteCompressed(&buf, v); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// UnmarshalCompressed is a byte-slice convenience over ReadCompressed.
func UnmarshalCompressed(data []byte, baseType valuekit.Type) (value.Temporal, error) {
	return ReadCompressed(bytes.NewReader(data), baseType)
}
