package sheet

import (
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/VizLoreLabs/phasmaFoodPlatform/schema"
	"github.com/klauspost/compress/zip"
	"github.com/xuri/excelize/v2"
)

// Item is one measurement to export with its resolved prior reference.
type Item struct {
	Measurement schema.Measurement
	Reference   *schema.Measurement
}

// Exporter writes workbooks under <root>/excel and bundles them per requester.
type Exporter struct {
	root       string
	replicates int
}

// NewExporter returns an Exporter rooted at root laying out r replicate columns.
func NewExporter(root string, r int) *Exporter {
	return &Exporter{root: root, replicates: r}
}

func (e *Exporter) base() string {
	return filepath.Join(e.root, "excel")
}

func requesterKey(req schema.Requester) (string, error) {
	key := req.Key()
	if key == "" || key == "." || key == ".." || strings.ContainsAny(key, `/\`) {
		return "", fmt.Errorf("%w: invalid requester %q", schema.ErrValidation, req.Email)
	}
	return key, nil
}

// Dir returns the workbook directory of a requester.
func (e *Exporter) Dir(req schema.Requester) (string, error) {
	key, err := requesterKey(req)
	if err != nil {
		return "", err
	}
	return filepath.Join(e.base(), key), nil
}

// BundlePath returns the archive path of a requester.
func (e *Exporter) BundlePath(req schema.Requester) (string, error) {
	key, err := requesterKey(req)
	if err != nil {
		return "", err
	}
	return filepath.Join(e.base(), schema.BundleName(key)+".zip"), nil
}

// Materialized reports whether the requester directory and bundle are on disk.
func (e *Exporter) Materialized(req schema.Requester) bool {
	dir, err := e.Dir(req)
	if err != nil {
		return false
	}
	bundle, _ := e.BundlePath(req)
	if _, err := os.Stat(dir); err != nil {
		return false
	}
	_, err = os.Stat(bundle)
	return err == nil
}

// Export writes one workbook per item into the requester directory and
// archives the directory. It returns the bundle path.
func (e *Exporter) Export(req schema.Requester, items []Item) (string, error) {
	dir, err := e.Dir(req)
	if err != nil {
		return "", err
	}
	bundle, err := e.BundlePath(req)
	if err != nil {
		return "", err
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", fmt.Errorf("failed to create export directory: %w", err)
	}

	for _, it := range items {
		tables, err := Tables(it.Measurement, it.Reference, e.replicates)
		if err != nil {
			return "", err
		}
		if err := WriteWorkbook(filepath.Join(dir, FileName(it.Measurement)), tables); err != nil {
			return "", err
		}
	}
	if err := Archive(dir, bundle); err != nil {
		return "", err
	}
	return bundle, nil
}

// Cleanup removes the requester directory and bundle. Missing files are ignored.
func (e *Exporter) Cleanup(req schema.Requester) error {
	dir, err := e.Dir(req)
	if err != nil {
		return err
	}
	bundle, _ := e.BundlePath(req)
	if err := os.RemoveAll(dir); err != nil {
		return fmt.Errorf("failed to remove %s: %w", dir, err)
	}
	if err := os.Remove(bundle); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("failed to remove %s: %w", bundle, err)
	}
	return nil
}

// FileName returns {timestamp}-{discriminant}-{sampleId}.xlsx.
func FileName(m schema.Measurement) string {
	part := strings.NewReplacer("/", "_", `\`, "_").Replace(m.Discriminant())
	return fmt.Sprintf("%s-%s-%d.xlsx", schema.ExportTimestamp(m.DateCreated), part, m.SampleID)
}

// WriteWorkbook saves the tables as sheets of one workbook.
func WriteWorkbook(path string, tables []Table) error {
	f := excelize.NewFile()
	defer func() { _ = f.Close() }()

	defaultSheet := f.GetSheetName(0)
	for _, t := range tables {
		if _, err := f.NewSheet(t.Name); err != nil {
			return fmt.Errorf("failed to add sheet %s: %w", t.Name, err)
		}
		if err := writeRows(f, t); err != nil {
			return err
		}
	}
	if err := f.DeleteSheet(defaultSheet); err != nil {
		return fmt.Errorf("failed to drop default sheet: %w", err)
	}
	if err := f.SaveAs(path); err != nil {
		return fmt.Errorf("failed to save workbook %s: %w", path, err)
	}
	return nil
}

func writeRows(f *excelize.File, t Table) error {
	row := 1
	put := func(values []any) error {
		cell, err := excelize.CoordinatesToCellName(1, row)
		if err != nil {
			return err
		}
		row++
		return f.SetSheetRow(t.Name, cell, &values)
	}

	if len(t.Header) > 0 {
		header := make([]any, len(t.Header))
		for i, h := range t.Header {
			header[i] = h
		}
		if err := put(header); err != nil {
			return fmt.Errorf("failed to write %s header: %w", t.Name, err)
		}
	}
	for _, r := range t.Rows {
		if err := put(r); err != nil {
			return fmt.Errorf("failed to write %s row: %w", t.Name, err)
		}
	}
	return nil
}

// Archive zips the regular files of dir, named relative to dir, into dest.
func Archive(dir, dest string) (err error) {
	out, err := os.Create(dest)
	if err != nil {
		return fmt.Errorf("failed to create bundle: %w", err)
	}
	defer func() {
		if cerr := out.Close(); err == nil {
			err = cerr
		}
	}()

	zw := zip.NewWriter(out)
	walkErr := filepath.WalkDir(dir, func(path string, d fs.DirEntry, err error) error {
		if err != nil || !d.Type().IsRegular() {
			return err
		}
		rel, err := filepath.Rel(dir, path)
		if err != nil {
			return err
		}
		info, err := d.Info()
		if err != nil {
			return err
		}
		header, err := zip.FileInfoHeader(info)
		if err != nil {
			return err
		}
		header.Name = filepath.ToSlash(rel)
		header.Method = zip.Deflate

		w, err := zw.CreateHeader(header)
		if err != nil {
			return err
		}
		src, err := os.Open(path)
		if err != nil {
			return err
		}
		defer func() { _ = src.Close() }()
		_, err = io.Copy(w, src)
		return err
	})
	if walkErr != nil {
		_ = zw.Close()
		return fmt.Errorf("failed to archive %s: %w", dir, walkErr)
	}
	if err := zw.Close(); err != nil {
		return fmt.Errorf("failed to finish bundle: %w", err)
	}
	return nil
}
