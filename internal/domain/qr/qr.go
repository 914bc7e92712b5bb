// Package qr decodes the ZATCA compliance QR printed on receipts.
//
// The QR payload is a base64-wrapped Tag-Length-Value encoding of the
// seller name, VAT registration, timestamp, total and VAT amount. Some
// issuers embed a plain JSON object instead; both encodings are handled.
// Decoding is all-or-nothing: a corrupt QR must not be trusted even
// partially, so any failure at any stage yields a nil result rather
// than an error.
package qr

import (
	"bytes"
	"encoding/base64"
	"encoding/json"
	"image"
	"strings"

	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"

	"github.com/makiuchi-d/gozxing"
	"github.com/makiuchi-d/gozxing/multi/qrcode"

	"github.com/khatib49/Scan-ocr/internal/domain/coerce"
)

// TLV tags defined by the ZATCA e-invoicing spec.
const (
	tagSellerName = 1
	tagVATNumber  = 2
	tagTimestamp  = 3
	tagTotal      = 4
	tagVATAmount  = 5
)

// Fields holds the values recovered from a compliance QR. Every field is
// independently optional depending on payload completeness.
type Fields struct {
	Seller    *string  `json:"seller,omitempty"`
	VAT       *string  `json:"vat,omitempty"`
	Timestamp *string  `json:"timestamp,omitempty"`
	Total     *float64 `json:"total,omitempty"`
	VATAmount *float64 `json:"vat_amount,omitempty"`
}

// Empty reports whether no field was recovered.
func (f *Fields) Empty() bool {
	return f == nil || (f.Seller == nil && f.VAT == nil && f.Timestamp == nil && f.Total == nil && f.VATAmount == nil)
}

// Decode detects QR codes in the image bytes and parses the compliance
// payload. When several QR codes are present the one with the largest
// bounding-box area wins: on real receipts the compliance QR is
// typically the largest. Returns nil when no QR is found or the payload
// does not decode cleanly.
func Decode(imageBytes []byte) *Fields {
	if len(imageBytes) == 0 {
		return nil
	}
	img, _, err := image.Decode(bytes.NewReader(imageBytes))
	if err != nil {
		return nil
	}
	bmp, err := gozxing.NewBinaryBitmapFromImage(img)
	if err != nil {
		return nil
	}

	reader := qrcode.NewQRCodeMultiReader()
	hints := map[gozxing.DecodeHintType]interface{}{
		gozxing.DecodeHintType_TRY_HARDER: true,
	}
	results, err := reader.DecodeMultiple(bmp, hints)
	if err != nil || len(results) == 0 {
		return nil
	}

	best := results[0]
	bestArea := boundingArea(best)
	for _, r := range results[1:] {
		if a := boundingArea(r); a > bestArea {
			best, bestArea = r, a
		}
	}

	return ParsePayload(best.GetText())
}

// boundingArea approximates the on-image footprint of a decode result
// from its finder-pattern points.
func boundingArea(r *gozxing.Result) float64 {
	points := r.GetResultPoints()
	if len(points) == 0 {
		return 0
	}
	minX, maxX := points[0].GetX(), points[0].GetX()
	minY, maxY := points[0].GetY(), points[0].GetY()
	for _, p := range points[1:] {
		if p.GetX() < minX {
			minX = p.GetX()
		}
		if p.GetX() > maxX {
			maxX = p.GetX()
		}
		if p.GetY() < minY {
			minY = p.GetY()
		}
		if p.GetY() > maxY {
			maxY = p.GetY()
		}
	}
	return (maxX - minX) * (maxY - minY)
}

// ParsePayload parses a raw QR payload string. A payload beginning with
// "{" is treated as a JSON object; anything else is base64-decoded and
// walked as TLV triples.
func ParsePayload(payload string) *Fields {
	payload = strings.TrimSpace(payload)
	if payload == "" {
		return nil
	}

	if strings.HasPrefix(payload, "{") {
		return parseJSON([]byte(payload))
	}

	raw, err := base64.StdEncoding.DecodeString(payload)
	if err != nil {
		if raw, err = base64.RawStdEncoding.DecodeString(payload); err != nil {
			return nil
		}
	}
	return ParseTLV(raw)
}

// ParseTLV walks a buffer of tag-length-value triples: one tag byte, one
// length byte, then length value bytes, until the buffer is exhausted.
// A truncated triple invalidates the whole payload.
func ParseTLV(data []byte) *Fields {
	var f Fields
	i := 0
	for i < len(data) {
		if i+2 > len(data) {
			return nil
		}
		tag := data[i]
		length := int(data[i+1])
		i += 2
		if i+length > len(data) {
			return nil
		}
		value := strings.ToValidUTF8(string(data[i:i+length]), "")
		i += length

		switch tag {
		case tagSellerName:
			f.Seller = &value
		case tagVATNumber:
			f.VAT = &value
		case tagTimestamp:
			ts := coerce.Date(value)
			f.Timestamp = &ts
		case tagTotal:
			f.Total = coerce.Number(value)
		case tagVATAmount:
			f.VATAmount = coerce.Number(value)
		}
	}
	if f.Empty() {
		return nil
	}
	return &f
}

// parseJSON handles the alternate encoding where the QR carries a JSON
// object directly instead of base64 TLV.
func parseJSON(raw []byte) *Fields {
	var m map[string]any
	if err := json.Unmarshal(raw, &m); err != nil {
		return nil
	}
	var f Fields
	if s := coerce.Nullish(m["seller"]); s != nil {
		f.Seller = s
	}
	if s := coerce.Nullish(m["vat"]); s != nil {
		f.VAT = s
	}
	if s := coerce.Nullish(m["timestamp"]); s != nil {
		ts := coerce.Date(*s)
		f.Timestamp = &ts
	}
	f.Total = coerce.Number(m["total"])
	f.VATAmount = coerce.Number(m["vat_amount"])
	if f.Empty() {
		return nil
	}
	return &f
}
