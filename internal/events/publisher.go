package events

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"github.com/chrisdamba/foodiq/internal/models"
)

// Publisher receives encoded search and view events, one topic per kind.
type Publisher interface {
	WriteMessage(topic string, msg []byte) error
	Close() error
}

// New returns the publisher selected by cfg.Destination.
func New(ctx context.Context, cfg models.EventsConfig) (Publisher, error) {
	switch cfg.Destination {
	case "", "none":
		return NopPublisher{}, nil
	case "console":
		return &ConsolePublisher{out: os.Stdout}, nil
	case "file":
		return NewFilePublisher(cfg.OutputPath)
	case "kafka":
		return NewKafkaPublisher(cfg.KafkaBrokerList)
	case "postgres":
		return NewPostgresPublisher(ctx, cfg.DatabaseURL)
	default:
		return nil, fmt.Errorf("unsupported events destination: %s", cfg.Destination)
	}
}

type NopPublisher struct{}

func (NopPublisher) WriteMessage(string, []byte) error { return nil }
func (NopPublisher) Close() error { return nil }

type ConsolePublisher struct {
	mu  sync.Mutex
	out *os.File
}

func (c *ConsolePublisher) WriteMessage(topic string, msg []byte) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if _, err := fmt.Fprintf(c.out, "[%s] %s\n", topic, msg); err != nil {
		return fmt.Errorf("failed to write to stdout: %w", err)
	}
	_ = c.out.Sync()
	return nil
}

func (c *ConsolePublisher) Close() error {
	return nil
}

// FilePublisher appends newline-delimited messages to <basePath>/<topic>.jsonl.
type FilePublisher struct {
	mu       sync.Mutex
	files    map[string]*os.File
	basePath string
}

func NewFilePublisher(basePath string) (*FilePublisher, error) {
	if err := os.MkdirAll(basePath, 0o755); err != nil {
		return nil, fmt.Errorf("failed to create events directory %s: %w", basePath, err)
	}
	return &FilePublisher{
		files:    make(map[string]*os.File),
		basePath: basePath,
	}, nil
}

func (f *FilePublisher) WriteMessage(topic string, msg []byte) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	file, ok := f.files[topic]
	if !ok {
		filename := filepath.Join(f.basePath, topic+".jsonl")
		var err error
		file, err = os.OpenFile(filename, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0o644)
		if err != nil {
			return fmt.Errorf("failed to create file for topic %s: %w", topic, err)
		}
		f.files[topic] = file
	}

	if _, err := file.Write(append(msg, '\n')); err != nil {
		return fmt.Errorf("failed to write message to topic %s: %w", topic, err)
	}
	return nil
}

func (f *FilePublisher) Close() error {
	f.mu.Lock()
	defer f.mu.Unlock()

	var firstErr error
	for topic, file := range f.files {
		if err := file.Close(); err != nil && firstErr == nil {
			firstErr = fmt.Errorf("failed to close file for topic %s: %w", topic, err)
		}
	}
	f.files = make(map[string]*os.File)
	return firstErr
}
