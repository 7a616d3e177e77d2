package handler

import (
	"bytes"
	"mime/multipart"
	"net/textproto"
	"testing"

	"github.com/stretchr/testify/require"
)

// newMultipart writes a shopId field and a PNG image part into body and
// returns the request content type.
func newMultipart(t *testing.T, body *bytes.Buffer, shopID string, image []byte) string {
	t.Helper()
	w := multipart.NewWriter(body)
	require.NoError(t, w.WriteField("shopId", shopID))

	header := textproto.MIMEHeader{}
	header.Set("Content-Disposition", `form-data; name="image"; filename="item.png"`)
	header.Set("Content-Type", "image/png")
	part, err := w.CreatePart(header)
	require.NoError(t, err)
	_, err = part.Write(image)
	require.NoError(t, err)

	require.NoError(t, w.Close())
	return w.FormDataContentType()
}
