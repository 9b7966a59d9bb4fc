package pack

import (
	"archive/zip"
	"io"
	"time"
)

// ArchiveWriter serializes package entries into a single archive.
type ArchiveWriter interface {
	WriteArchive(w io.Writer, entries []Entry) error
}

// ZipWriter writes entries as a zip archive, in the order given.
type ZipWriter struct {
	// Modified is the modification time stamped on entries. The zero value
	// stamps the current time.
	Modified time.Time
}

// WriteArchive implements ArchiveWriter.
func (zw ZipWriter) WriteArchive(w io.Writer, entries []Entry) error {
	modified := zw.Modified
	if modified.IsZero() {
		modified = time.Now()
	}
	z := zip.NewWriter(w)
	for _, e := range entries {
		f, err := z.CreateHeader(&zip.FileHeader{
			Name:     e.Name,
			Method:   zip.Deflate,
			Modified: modified,
		})
		if err != nil {
			return err
		}
		if _, err = f.Write(e.Data); err != nil {
			return err
		}
		tracer().Debugf("archive entry %s: %d bytes", e.Name, len(e.Data))
	}
	return z.Close()
}
