package export

import (
	"bytes"
	"context"
	"encoding/csv"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/chrisdamba/foodiq/internal/cloudwriter"
	"github.com/chrisdamba/foodiq/internal/models"
	"github.com/google/go-cmp/cmp"
	"github.com/xitongsys/parquet-go-source/local"
	"github.com/xitongsys/parquet-go/reader"
)

func sampleSummaries() []models.RestaurantSummary {
	return []models.RestaurantSummary{
		{
			ID:          "r1",
			Name:        "Tony's Pizza",
			Rating:      4.5,
			ReviewCount: 1284,
			Price:       "$$",
			Address:     "12 Bleecker St, New York, NY 10012",
			Coordinates: &models.Coordinates{Latitude: 40.7258, Longitude: -73.9946},
			Categories:  []string{"Pizza", "Italian"},
			Distance:    models.String("0.50"),
		},
		{
			ID:         "bare",
			Name:       "Bare Bones",
			Price:      models.PriceUnknown,
			Address:    ", ,",
			Categories: []string{},
		},
	}
}

func localExporter(t *testing.T, format string) (*Exporter, string) {
	t.Helper()
	dir := t.TempDir()
	e, err := New(context.Background(), models.ExportConfig{
		Format:       format,
		Destination:  DestinationLocal,
		OutputPath:   dir,
		OutputFolder: "exports",
	})
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}
	return e, dir
}

func TestExportParquetLocal(t *testing.T) {
	e, dir := localExporter(t, FormatParquet)

	rows := 0
	out, err := e.Export("pizza", sampleSummaries(), func() { rows++ })
	if err != nil {
		t.Fatalf("Export() error = %v", err)
	}
	if out != filepath.Join(dir, "exports", "pizza.parquet") {
		t.Errorf("Export() path = %s", out)
	}
	if rows != 2 {
		t.Errorf("onRow called %d times, want 2", rows)
	}

	fr, err := local.NewLocalFileReader(out)
	if err != nil {
		t.Fatalf("NewLocalFileReader() error = %v", err)
	}
	defer fr.Close()
	pr, err := reader.NewParquetReader(fr, new(Record), 4)
	if err != nil {
		t.Fatalf("NewParquetReader() error = %v", err)
	}
	defer pr.ReadStop()

	got := make([]Record, pr.GetNumRows())
	if err := pr.Read(&got); err != nil {
		t.Fatalf("Read() error = %v", err)
	}
	want := []Record{NewRecord(sampleSummaries()[0]), NewRecord(sampleSummaries()[1])}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("parquet rows mismatch (-want +got):\n%s", diff)
	}
}

func TestExportCSVLocal(t *testing.T) {
	e, _ := localExporter(t, FormatCSV)

	out, err := e.Export("pizza", sampleSummaries(), nil)
	if err != nil {
		t.Fatalf("Export() error = %v", err)
	}
	f, err := os.Open(out)
	if err != nil {
		t.Fatal(err)
	}
	defer f.Close()

	records, err := csv.NewReader(f).ReadAll()
	if err != nil {
		t.Fatalf("ReadAll() error = %v", err)
	}
	if len(records) != 3 {
		t.Fatalf("got %d csv lines, want header + 2", len(records))
	}
	if diff := cmp.Diff(csvHeader, records[0]); diff != "" {
		t.Errorf("header mismatch (-want +got):\n%s", diff)
	}
	want := []string{"r1", "Tony's Pizza", "", "4.5", "1284", "$$", "", "12 Bleecker St, New York, NY 10012",
		"40.7258", "-73.9946", "Pizza|Italian", "0.50", "false", ""}
	if diff := cmp.Diff(want, records[1]); diff != "" {
		t.Errorf("row mismatch (-want +got):\n%s", diff)
	}
	if records[2][8] != "" || records[2][11] != "" {
		t.Errorf("absent coordinates and distance should be empty: %v", records[2])
	}
}

func TestExportJSONLocal(t *testing.T) {
	e, _ := localExporter(t, FormatJSON)

	out, err := e.Export("empty", nil, nil)
	if err != nil {
		t.Fatalf("Export() error = %v", err)
	}
	data, err := os.ReadFile(out)
	if err != nil {
		t.Fatal(err)
	}
	var got []models.RestaurantSummary
	if err := json.Unmarshal(data, &got); err != nil {
		t.Fatalf("Unmarshal() error = %v; body %s", err, data)
	}
	if got == nil || len(got) != 0 {
		t.Errorf("empty export = %#v, want []", got)
	}
}

type memoryWriter struct {
	bytes.Buffer
	closed bool
}

func (m *memoryWriter) Close() error {
	m.closed = true
	return nil
}

type memoryFactory struct {
	objects map[string]*memoryWriter
}

func (f *memoryFactory) NewWriter(bucket, objectPath string) (cloudwriter.CloudWriter, error) {
	w := &memoryWriter{}
	f.objects[bucket+"/"+objectPath] = w
	return w, nil
}

func TestExportParquetCloud(t *testing.T) {
	factory := &memoryFactory{objects: map[string]*memoryWriter{}}
	e := NewWithCloudWriter(FormatParquet, "exports", "foodiq", factory)

	out, err := e.Export("pizza", sampleSummaries(), nil)
	if err != nil {
		t.Fatalf("Export() error = %v", err)
	}
	if out != "s3://foodiq/exports/pizza.parquet" {
		t.Errorf("Export() location = %s", out)
	}

	obj, ok := factory.objects["foodiq/exports/pizza.parquet"]
	if !ok {
		t.Fatalf("no object written, have %v", factory.objects)
	}
	if !obj.closed {
		t.Error("cloud writer was not closed")
	}
	data := obj.Bytes()
	if len(data) < 8 || string(data[:4]) != "PAR1" || string(data[len(data)-4:]) != "PAR1" {
		t.Errorf("object is not a parquet file (%d bytes)", len(data))
	}
}

func TestNewRejectsUnknownSettings(t *testing.T) {
	if _, err := New(context.Background(), models.ExportConfig{Format: "xml"}); err == nil {
		t.Error("New(xml) expected an error")
	}
	if _, err := New(context.Background(), models.ExportConfig{Format: FormatCSV, Destination: "ftp"}); err == nil {
		t.Error("New(ftp) expected an error")
	}
	if _, err := New(context.Background(), models.ExportConfig{
		Format:       FormatCSV,
		Destination:  DestinationCloud,
		CloudStorage: models.CloudStorageConfig{Provider: "azure"},
	}); err == nil {
		t.Error("New(azure) expected an error")
	}
}
