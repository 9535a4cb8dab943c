package export

import (
	"context"
	"encoding/csv"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path"
	"path/filepath"

	"github.com/chrisdamba/foodiq/internal/cloudwriter"
	"github.com/chrisdamba/foodiq/internal/models"
	"github.com/xitongsys/parquet-go-source/local"
	"github.com/xitongsys/parquet-go/source"
	"github.com/xitongsys/parquet-go/writer"
)

const (
	FormatParquet = "parquet"
	FormatCSV     = "csv"
	FormatJSON    = "json"

	DestinationLocal = "local"
	DestinationCloud = "cloud"
)

// Exporter writes search results to local files or cloud objects.
type Exporter struct {
	format             string
	destination        string
	basePath           string
	folder             string
	cloudWriterFactory cloudwriter.CloudWriterFactory
	cloudBucketName    string
}

func New(ctx context.Context, cfg models.ExportConfig) (*Exporter, error) {
	e := &Exporter{
		format:      cfg.Format,
		destination: cfg.Destination,
		basePath:    cfg.OutputPath,
		folder:      cfg.OutputFolder,
	}
	switch e.format {
	case FormatParquet, FormatCSV, FormatJSON:
	default:
		return nil, fmt.Errorf("unsupported export format: %s", cfg.Format)
	}

	switch e.destination {
	case DestinationLocal, "":
		e.destination = DestinationLocal
	case DestinationCloud:
		if cfg.CloudStorage.Provider != "s3" {
			return nil, fmt.Errorf("unsupported cloud storage provider: %s", cfg.CloudStorage.Provider)
		}
		factory, err := cloudwriter.NewS3WriterFactory(ctx, cfg.CloudStorage.Region)
		if err != nil {
			return nil, fmt.Errorf("failed to create cloud writer factory: %w", err)
		}
		e.cloudWriterFactory = factory
		e.cloudBucketName = cfg.CloudStorage.BucketName
	default:
		return nil, fmt.Errorf("unsupported export destination: %s", cfg.Destination)
	}
	return e, nil
}

// NewWithCloudWriter exports to the cloud through an existing factory.
func NewWithCloudWriter(format, folder, bucket string, factory cloudwriter.CloudWriterFactory) *Exporter {
	return &Exporter{
		format:             format,
		destination:        DestinationCloud,
		folder:             folder,
		cloudWriterFactory: factory,
		cloudBucketName:    bucket,
	}
}

// Export writes summaries under name and returns where they went. onRow is
// called after each row is written.
func (e *Exporter) Export(name string, summaries []models.RestaurantSummary, onRow func()) (string, error) {
	if onRow == nil {
		onRow = func() {}
	}
	fileName := name + "." + e.format

	if e.destination == DestinationCloud {
		objectPath := path.Join(e.folder, fileName)
		cw, err := e.cloudWriterFactory.NewWriter(e.cloudBucketName, objectPath)
		if err != nil {
			return "", fmt.Errorf("failed to create cloud writer: %w", err)
		}
		if err := e.write(NewCloudParquetFile(cw), summaries, onRow); err != nil {
			return "", err
		}
		return fmt.Sprintf("s3://%s/%s", e.cloudBucketName, objectPath), nil
	}

	dir := filepath.Join(e.basePath, e.folder)
	if err := os.MkdirAll(dir, os.ModePerm); err != nil {
		return "", err
	}
	filePath := filepath.Join(dir, fileName)
	fw, err := local.NewLocalFileWriter(filePath)
	if err != nil {
		return "", fmt.Errorf("failed to create %s: %w", filePath, err)
	}
	if err := e.write(fw, summaries, onRow); err != nil {
		return "", err
	}
	return filePath, nil
}

// write encodes all rows into fw and closes it.
func (e *Exporter) write(fw source.ParquetFile, summaries []models.RestaurantSummary, onRow func()) error {
	var err error
	switch e.format {
	case FormatParquet:
		err = writeParquet(fw, summaries, onRow)
	case FormatCSV:
		err = writeCSV(fw, summaries, onRow)
	case FormatJSON:
		err = writeJSON(fw, summaries, onRow)
	default:
		err = fmt.Errorf("unsupported export format: %s", e.format)
	}
	if closeErr := fw.Close(); err == nil {
		err = closeErr
	}
	return err
}

func writeParquet(fw source.ParquetFile, summaries []models.RestaurantSummary, onRow func()) error {
	pw, err := writer.NewParquetWriter(fw, new(Record), 4)
	if err != nil {
		return fmt.Errorf("failed to create parquet writer: %w", err)
	}
	for _, s := range summaries {
		if err := pw.Write(NewRecord(s)); err != nil {
			return fmt.Errorf("failed to write parquet row %s: %w", s.ID, err)
		}
		onRow()
	}
	if err := pw.WriteStop(); err != nil {
		return fmt.Errorf("failed to finish parquet file: %w", err)
	}
	return nil
}

func writeCSV(w io.Writer, summaries []models.RestaurantSummary, onRow func()) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(csvHeader); err != nil {
		return err
	}
	for _, s := range summaries {
		if err := cw.Write(NewRecord(s).csvRow()); err != nil {
			return fmt.Errorf("failed to write csv row %s: %w", s.ID, err)
		}
		onRow()
	}
	cw.Flush()
	return cw.Error()
}

func writeJSON(w io.Writer, summaries []models.RestaurantSummary, onRow func()) error {
	if summaries == nil {
		summaries = []models.RestaurantSummary{}
	}
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(summaries); err != nil {
		return err
	}
	for range summaries {
		onRow()
	}
	return nil
}
