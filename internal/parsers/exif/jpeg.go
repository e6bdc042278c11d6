package exif

import (
	"bytes"
	"fmt"

	"github.com/chronicle-labs/chronicle-cli/internal/core/domain"
)

// JPEG marker bytes (the second byte of each 0xFF-prefixed marker).
const (
	markerSOI  = 0xD8 // start of image
	markerEOI  = 0xD9 // end of image
	markerSOS  = 0xDA // start of scan: compressed data follows
	markerAPP1 = 0xE1 // APP1: Exif container
	markerTEM  = 0x01
)

// exifSignature opens every valid Exif APP1 payload.
var exifSignature = []byte("Exif\x00\x00")

// findExifPayload walks the JPEG marker stream from the start-of-image
// signature and returns the TIFF block inside the first Exif APP1
// segment.
//
// A nil payload with nil error means the image carries no metadata:
// scanning stops the moment start-of-scan or end-of-image appears,
// because metadata cannot legally follow compressed data. An APP1
// segment that does not open with the Exif signature is treated as
// absent, not erroneous. A declared segment length reaching past the
// buffer end is corrupt input and is propagated as a fatal error.
func findExifPayload(data []byte) ([]byte, error) {
	if len(data) < 2 || data[0] != 0xFF || data[1] != markerSOI {
		return nil, fmt.Errorf("%w: missing start-of-image signature", domain.ErrUnrecognizedFormat)
	}

	offset := 2
	for {
		if offset+2 > len(data) {
			// Ran off the end without hitting EOI: nothing to extract.
			return nil, nil
		}
		if data[offset] != 0xFF {
			return nil, fmt.Errorf("%w: expected marker at offset %d", domain.ErrCorruptInput, offset)
		}

		marker := data[offset+1]
		switch {
		case marker == markerSOS || marker == markerEOI:
			// Metadata cannot follow this point.
			return nil, nil

		case marker == markerTEM || (marker >= 0xD0 && marker <= 0xD7):
			// Standalone markers carry no length.
			offset += 2
			continue
		}

		if offset+4 > len(data) {
			return nil, fmt.Errorf("%w: truncated segment header at offset %d", domain.ErrCorruptInput, offset)
		}
		// Declared length includes its own two bytes.
		segLen := int(data[offset+2])<<8 | int(data[offset+3])
		if segLen < 2 {
			return nil, fmt.Errorf("%w: segment at offset %d declares length %d", domain.ErrCorruptInput, offset, segLen)
		}
		end := offset + 2 + segLen
		if end > len(data) {
			return nil, fmt.Errorf("%w: segment at offset %d declares %d bytes but only %d remain",
				domain.ErrCorruptInput, offset, segLen, len(data)-offset-2)
		}

		if marker == markerAPP1 {
			payload := data[offset+4 : end]
			if bytes.HasPrefix(payload, exifSignature) {
				return payload[len(exifSignature):], nil
			}
			// APP1 without the signature (XMP etc.): skip it.
		}
		offset = end
	}
}
