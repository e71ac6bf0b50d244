package structs

import (
	"crypto/sha256"
	"encoding/hex"
	"path/filepath"

	"github.com/gabriel-vasile/mimetype"
)

// Upload is a file attached to a multipart request.
type Upload struct {
	// Name is the file name sent to the backend
	Name string
	// ContentType is sniffed from Data when empty
	ContentType string
	Data        []byte
}

func NewUpload(name string, data []byte) Upload {
	return Upload{
		Name:        filepath.Base(name),
		ContentType: mimetype.Detect(data).String(),
		Data:        data,
	}
}

func (u *Upload) Empty() bool {
	return len(u.Data) == 0
}

func (u *Upload) Size() int64 {
	return int64(len(u.Data))
}

// MIME returns the declared content type, sniffing the data if none was set.
func (u *Upload) MIME() string {
	if u.ContentType != "" {
		return u.ContentType
	}
	return mimetype.Detect(u.Data).String()
}

func (u *Upload) Hash() string {
	sum256 := sha256.Sum256(u.Data)
	return hex.EncodeToString(sum256[:])
}
