package ot

import (
	"fmt"
	"sort"

	"golang.org/x/text/encoding/charmap"
	"golang.org/x/text/encoding/unicode"
	"golang.org/x/text/language"
)

// NameID identifies a string in table 'name'.
type NameID uint16

// Name IDs used for subsetting.
// See https://docs.microsoft.com/en-us/typography/opentype/spec/name#name-ids
const (
	NameCopyright         NameID = 0
	NameFamily            NameID = 1
	NameSubfamily         NameID = 2
	NameUniqueID          NameID = 3
	NameFull              NameID = 4
	NameVersion           NameID = 5
	NamePostScript        NameID = 6
	NameTypographicFamily NameID = 16
	NameTypographicSubfam NameID = 17
)

// NameRecord is a decoded entry of table 'name'.
type NameRecord struct {
	PlatformID uint16
	EncodingID uint16
	LanguageID uint16
	NameID     NameID
	Value      string
}

// NameTable holds the decoded name records of a font. Records with
// platform/encoding combinations we cannot decode are skipped.
type NameTable struct {
	tableBase
	Records []NameRecord
}

func newNameTable(tag Tag, b binarySegm, offset, size uint32) *NameTable {
	t := &NameTable{}
	t.tableBase = makeTableBase(tag, b, offset, size)
	t.self = t
	return t
}

func parseName(tag Tag, b binarySegm, offset, size uint32) (Table, error) {
	if size < 6 {
		return nil, errFontFormat("size of name table")
	}
	t := newNameTable(tag, b, offset, size)
	count := int(b.U16(2))
	strOffset := int(b.U16(4))
	recs, err := b.view(6, 12*count)
	if err != nil {
		return nil, errFontFormat("name records exceed table")
	}
	nameRecs := viewArray(recs, 12)
	for i := 0; i < nameRecs.Len(); i++ {
		r := nameRecs.Get(i)
		pltf, enc := r.U16(0), r.U16(2)
		length, off := int(r.U16(8)), int(r.U16(10))
		str, err := b.view(strOffset+off, length)
		if err != nil {
			if length > 0 {
				tracer().Infof("name record %d exceeds string storage, skipped", i)
			}
			continue
		}
		value, err := decodeNameString(pltf, enc, str)
		if err != nil {
			tracer().Debugf("name record %d (%d|%d): %v", i, pltf, enc, err)
			continue
		}
		t.Records = append(t.Records, NameRecord{
			PlatformID: pltf,
			EncodingID: enc,
			LanguageID: r.U16(4),
			NameID:     NameID(r.U16(6)),
			Value:      value,
		})
	}
	tracer().Debugf("name table has %d decodable records", len(t.Records))
	return t, nil
}

func decodeNameString(platform, encoding uint16, str []byte) (string, error) {
	switch {
	case platform == 0, platform == 3 && (encoding == 0 || encoding == 1 || encoding == 10):
		return decodeUtf16(str)
	case platform == 1 && encoding == 0:
		s, err := charmap.Macintosh.NewDecoder().Bytes(str)
		if err != nil {
			return "", fmt.Errorf("decoding Mac Roman error: %v", err)
		}
		return string(s), nil
	}
	return "", fmt.Errorf("unsupported platform/encoding combination for name-table")
}

func decodeUtf16(str []byte) (string, error) {
	enc := unicode.UTF16(unicode.BigEndian, unicode.IgnoreBOM)
	decoder := enc.NewDecoder()
	s, err := decoder.Bytes(str)
	if err != nil {
		return "", fmt.Errorf("decoding UTF-16 error: %v", err)
	}
	return string(s), nil
}

// Windows language IDs for a few languages. Language IDs of platform 3 are
// Windows LCIDs. We map them to language tags for matching.
var windowsLanguages = map[uint16]language.Tag{
	0x0409: language.AmericanEnglish,
	0x0809: language.BritishEnglish,
	0x0804: language.SimplifiedChinese,
	0x0404: language.TraditionalChinese,
	0x0411: language.Japanese,
	0x0412: language.Korean,
	0x0407: language.German,
	0x040c: language.French,
	0x0c0a: language.Spanish,
	0x0410: language.Italian,
	0x0419: language.Russian,
}

// RecordLanguage returns the language of a name record, if known.
// Macintosh language 0 is English.
func RecordLanguage(rec NameRecord) (language.Tag, bool) {
	switch rec.PlatformID {
	case 3:
		tag, ok := windowsLanguages[rec.LanguageID]
		return tag, ok
	case 1:
		if rec.LanguageID == 0 {
			return language.English, true
		}
	}
	return language.Und, false
}

// Lookup returns the string for a name ID. It prefers Windows records over
// Unicode and Mac records, and among those a record matching lang (by base
// language). If none matches lang, the first localization found is returned.
// If no record with the name ID exists, Lookup returns "".
func (t *NameTable) Lookup(id NameID, lang language.Tag) string {
	var candidates []NameRecord
	for _, rec := range t.Records {
		if rec.NameID == id && rec.Value != "" {
			candidates = append(candidates, rec)
		}
	}
	if len(candidates) == 0 {
		return ""
	}
	rank := map[uint16]int{3: 0, 0: 1, 1: 2}
	sort.SliceStable(candidates, func(i, j int) bool {
		return rank[candidates[i].PlatformID] < rank[candidates[j].PlatformID]
	})
	want, _ := lang.Base()
	for _, rec := range candidates {
		if tag, ok := RecordLanguage(rec); ok {
			if base, _ := tag.Base(); base == want {
				return rec.Value
			}
		}
	}
	return candidates[0].Value
}

// --- Encoding --------------------------------------------------------------

// EncodeNameTable encodes name records as a 'name' table of format 0.
// All strings are written as Windows Unicode BMP (platform 3, encoding 1)
// records in UTF-16BE. Unicode-platform and English Mac records are
// converted to US-English Windows records, other Mac records are dropped.
// Earlier records win over later ones with the same language and name ID.
// Records are sorted by platform, encoding, language and name ID, as the
// spec requires; identical strings share storage.
func EncodeNameTable(records []NameRecord) ([]byte, error) {
	recs := make([]NameRecord, 0, len(records))
	for _, rec := range records {
		switch rec.PlatformID {
		case 3:
		case 0, 1:
			if rec.PlatformID == 1 && rec.LanguageID != 0 {
				continue // Mac language IDs other than English have no LCID here
			}
			rec.LanguageID = 0x0409
		default:
			continue
		}
		rec.PlatformID, rec.EncodingID = 3, 1
		recs = append(recs, rec)
	}
	sort.SliceStable(recs, func(i, j int) bool {
		a, b := recs[i], recs[j]
		if a.LanguageID != b.LanguageID {
			return a.LanguageID < b.LanguageID
		}
		return a.NameID < b.NameID
	})
	// remove duplicates of (language, name ID)
	var uniq []NameRecord
	for _, rec := range recs {
		if n := len(uniq); n > 0 && rec.LanguageID == uniq[n-1].LanguageID && rec.NameID == uniq[n-1].NameID {
			continue
		}
		uniq = append(uniq, rec)
	}
	recs = uniq
	encoder := unicode.UTF16(unicode.BigEndian, unicode.IgnoreBOM).NewEncoder()
	var storage appender
	offsets := make(map[string]int)
	w := appender{}
	w.u16(0) // format
	w.u16(uint16(len(recs)))
	w.u16(uint16(6 + 12*len(recs)))
	for _, rec := range recs {
		str, err := encoder.Bytes([]byte(rec.Value))
		if err != nil {
			return nil, errFontFormat(fmt.Sprintf("cannot encode name %d: %v", rec.NameID, err))
		}
		off, ok := offsets[string(str)]
		if !ok {
			off = len(storage)
			offsets[string(str)] = off
			storage.bytes(str)
		}
		if len(str) > 0xffff || off > 0xffff {
			return nil, errFontFormat("name table string storage overflow")
		}
		w.u16(rec.PlatformID)
		w.u16(rec.EncodingID)
		w.u16(rec.LanguageID)
		w.u16(uint16(rec.NameID))
		w.u16(uint16(len(str)))
		w.u16(uint16(off))
	}
	w.bytes(storage)
	return w, nil
}
