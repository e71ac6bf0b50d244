package api

import (
	"bytes"
	"fmt"
	"mime/multipart"
	"net/textproto"
	"strings"

	"github.com/LaZy-Wolf/LUMINA--Tool-for-Combating-Misinformation/internal/structs"
)

type formFile struct {
	field  string
	upload structs.Upload
}

// multipartForm keeps field order so the encoded body is deterministic.
type multipartForm struct {
	fields [][2]string
	files  []formFile
}

func (f *multipartForm) addField(name, value string) {
	f.fields = append(f.fields, [2]string{name, value})
}

func (f *multipartForm) addFile(field string, upload structs.Upload) {
	f.files = append(f.files, formFile{field: field, upload: upload})
}

var quoteEscaper = strings.NewReplacer("\\", "\\\\", `"`, "\\\"")

func (f *multipartForm) encode() ([]byte, string, error) {
	var buf bytes.Buffer
	w := multipart.NewWriter(&buf)

	for _, kv := range f.fields {
		if err := w.WriteField(kv[0], kv[1]); err != nil {
			return nil, "", fmt.Errorf("error writing field %s: %w", kv[0], err)
		}
	}

	// CreateFormFile would label every file application/octet-stream; the
	// backend checks the part's content type, so set it explicitly.
	for _, file := range f.files {
		name := file.upload.Name
		if name == "" {
			name = file.field
		}
		h := make(textproto.MIMEHeader)
		h.Set("Content-Disposition", fmt.Sprintf(`form-data; name="%s"; filename="%s"`,
			quoteEscaper.Replace(file.field), quoteEscaper.Replace(name)))
		h.Set("Content-Type", file.upload.MIME())

		part, err := w.CreatePart(h)
		if err != nil {
			return nil, "", fmt.Errorf("error creating part %s: %w", file.field, err)
		}
		if _, err := part.Write(file.upload.Data); err != nil {
			return nil, "", fmt.Errorf("error writing part %s: %w", file.field, err)
		}
	}

	if err := w.Close(); err != nil {
		return nil, "", fmt.Errorf("error closing multipart writer: %w", err)
	}
	return buf.Bytes(), w.FormDataContentType(), nil
}
