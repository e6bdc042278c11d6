package exif

import (
	"encoding/binary"
	"fmt"
	"strings"

	"github.com/chronicle-labs/chronicle-cli/internal/core/domain"
)

// Tag identifiers recognised in the IFD directories. Unknown tags are
// skipped; every entry is self-describing.
const (
	tagImageDescription  = 0x010E
	tagMake              = 0x010F
	tagModel             = 0x0110
	tagOrientation       = 0x0112
	tagSoftware          = 0x0131
	tagDateTime          = 0x0132
	tagExifIFDPointer    = 0x8769
	tagGPSIFDPointer     = 0x8825
	tagDateTimeOriginal  = 0x9003
	tagDateTimeDigitized = 0x9004

	gpsTagLatitudeRef  = 0x0001
	gpsTagLatitude     = 0x0002
	gpsTagLongitudeRef = 0x0003
	gpsTagLongitude    = 0x0004
	gpsTagAltitudeRef  = 0x0005
	gpsTagAltitude     = 0x0006
)

// typeSizes maps TIFF field types to their element width in bytes.
// A type missing here is unknown and its entry is skipped.
var typeSizes = map[uint16]int{
	1:  1, // BYTE
	2:  1, // ASCII
	3:  2, // SHORT
	4:  4, // LONG
	5:  8, // RATIONAL
	7:  1, // UNDEFINED
	9:  4, // SLONG
	10: 8, // SRATIONAL
}

// metadata is everything the extractor pulls out of one TIFF block.
// Timestamp fields hold the raw colon-delimited strings; resolution
// happens in the parser so the priority chain stays in one place.
type metadata struct {
	captureTime   string // DateTimeOriginal
	digitizedTime string // DateTimeDigitized
	fileTime      string // DateTime (file modified)

	latitude  *float64
	longitude *float64
	altitude  *float64

	make        string
	model       string
	software    string
	description string
	orientation int
}

// entry is one decoded IFD entry with its raw value bytes.
type entry struct {
	tag       uint16
	fieldType uint16
	count     uint32
	raw       []byte
	order     binary.ByteOrder
}

// parseTIFF decodes the flat tagged directories of a TIFF block.
// The byte-order marker selects the read order for everything after it.
func parseTIFF(tiff []byte) (*metadata, error) {
	if len(tiff) < 8 {
		return nil, fmt.Errorf("%w: TIFF header needs 8 bytes, have %d", domain.ErrCorruptInput, len(tiff))
	}

	var order binary.ByteOrder
	switch {
	case tiff[0] == 'I' && tiff[1] == 'I':
		order = binary.LittleEndian
	case tiff[0] == 'M' && tiff[1] == 'M':
		order = binary.BigEndian
	default:
		return nil, fmt.Errorf("%w: unknown byte-order marker %q", domain.ErrCorruptInput, tiff[0:2])
	}
	if order.Uint16(tiff[2:4]) != 42 {
		return nil, fmt.Errorf("%w: bad TIFF magic", domain.ErrCorruptInput)
	}

	md := &metadata{}
	ifdOffset := order.Uint32(tiff[4:8])

	entries, err := readIFD(tiff, ifdOffset, order)
	if err != nil {
		return nil, err
	}

	var exifOffset, gpsOffset uint32
	for _, e := range entries {
		switch e.tag {
		case tagMake:
			md.make = e.ascii()
		case tagModel:
			md.model = e.ascii()
		case tagSoftware:
			md.software = e.ascii()
		case tagImageDescription:
			md.description = e.ascii()
		case tagDateTime:
			md.fileTime = e.ascii()
		case tagOrientation:
			md.orientation = int(e.short())
		case tagExifIFDPointer:
			exifOffset = e.long()
		case tagGPSIFDPointer:
			gpsOffset = e.long()
		}
	}

	if exifOffset != 0 {
		exifEntries, err := readIFD(tiff, exifOffset, order)
		if err != nil {
			return nil, err
		}
		for _, e := range exifEntries {
			switch e.tag {
			case tagDateTimeOriginal:
				md.captureTime = e.ascii()
			case tagDateTimeDigitized:
				md.digitizedTime = e.ascii()
			}
		}
	}

	if gpsOffset != 0 {
		gpsEntries, err := readIFD(tiff, gpsOffset, order)
		if err != nil {
			return nil, err
		}
		readGPS(md, gpsEntries)
	}
	return md, nil
}

// readIFD decodes one image file directory: a 2-byte entry count
// followed by 12-byte entries. Values wider than 4 bytes live at an
// offset elsewhere in the block; an offset or length reaching past the
// buffer end is corrupt input.
func readIFD(tiff []byte, offset uint32, order binary.ByteOrder) ([]entry, error) {
	pos := int(offset)
	if pos+2 > len(tiff) {
		return nil, fmt.Errorf("%w: directory offset %d past end of block", domain.ErrCorruptInput, offset)
	}
	count := int(order.Uint16(tiff[pos : pos+2]))
	pos += 2

	if pos+count*12 > len(tiff) {
		return nil, fmt.Errorf("%w: directory claims %d entries but block ends early", domain.ErrCorruptInput, count)
	}

	entries := make([]entry, 0, count)
	for i := 0; i < count; i++ {
		base := pos + i*12
		e := entry{
			tag:       order.Uint16(tiff[base : base+2]),
			fieldType: order.Uint16(tiff[base+2 : base+4]),
			count:     order.Uint32(tiff[base+4 : base+8]),
			order:     order,
		}

		size, known := typeSizes[e.fieldType]
		if !known {
			continue // unknown type: entry is skippable by design of the format
		}
		total := size * int(e.count)

		if total <= 4 {
			e.raw = tiff[base+8 : base+8+total]
		} else {
			valueOffset := int(order.Uint32(tiff[base+8 : base+12]))
			if valueOffset+total > len(tiff) {
				return nil, fmt.Errorf("%w: entry 0x%04X claims %d bytes at offset %d beyond block end",
					domain.ErrCorruptInput, e.tag, total, valueOffset)
			}
			e.raw = tiff[valueOffset : valueOffset+total]
		}
		entries = append(entries, e)
	}
	return entries, nil
}

// readGPS combines the degree/minute/second rational triplets with their
// hemisphere references. A triplet that fails to decode leaves the
// coordinate absent rather than half-populated.
func readGPS(md *metadata, entries []entry) {
	var (
		latRef, lonRef string
		lat, lon       []float64
		altRef         byte
		alt            *float64
	)

	for _, e := range entries {
		switch e.tag {
		case gpsTagLatitudeRef:
			latRef = e.ascii()
		case gpsTagLatitude:
			lat = e.rationals()
		case gpsTagLongitudeRef:
			lonRef = e.ascii()
		case gpsTagLongitude:
			lon = e.rationals()
		case gpsTagAltitudeRef:
			if len(e.raw) > 0 {
				altRef = e.raw[0]
			}
		case gpsTagAltitude:
			if r := e.rationals(); len(r) == 1 {
				alt = &r[0]
			}
		}
	}

	if len(lat) == 3 && len(lon) == 3 {
		latDeg := dmsToDecimal(lat, latRef == "S")
		lonDeg := dmsToDecimal(lon, lonRef == "W")
		md.latitude = &latDeg
		md.longitude = &lonDeg
	}
	if alt != nil {
		v := *alt
		if altRef == 1 { // below sea level
			v = -v
		}
		md.altitude = &v
	}
}

// dmsToDecimal folds a degree/minute/second triplet into decimal
// degrees, applying the hemisphere sign.
func dmsToDecimal(dms []float64, negative bool) float64 {
	deg := dms[0] + dms[1]/60 + dms[2]/3600
	if negative {
		return -deg
	}
	return deg
}

// ascii decodes an ASCII entry, dropping the NUL terminator.
func (e entry) ascii() string {
	if e.fieldType != 2 {
		return ""
	}
	return strings.TrimRight(string(e.raw), "\x00")
}

// short decodes the first SHORT value.
func (e entry) short() uint16 {
	if e.fieldType != 3 || len(e.raw) < 2 {
		return 0
	}
	return e.order.Uint16(e.raw[0:2])
}

// long decodes the first LONG value.
func (e entry) long() uint32 {
	if e.fieldType != 4 || len(e.raw) < 4 {
		return 0
	}
	return e.order.Uint32(e.raw[0:4])
}

// rationals decodes every RATIONAL in the entry. A zero denominator
// invalidates the whole entry.
func (e entry) rationals() []float64 {
	if e.fieldType != 5 && e.fieldType != 10 {
		return nil
	}
	n := len(e.raw) / 8
	out := make([]float64, 0, n)
	for i := 0; i < n; i++ {
		num := e.order.Uint32(e.raw[i*8 : i*8+4])
		den := e.order.Uint32(e.raw[i*8+4 : i*8+8])
		if den == 0 {
			return nil
		}
		out = append(out, float64(num)/float64(den))
	}
	return out
}
